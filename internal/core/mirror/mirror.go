// Package mirror holds the local, persisted copy of the remote entity
// collections. The UI layer reads it synchronously; the synchronizer, the
// push reconciliation listener and the board coordinator mutate it through
// the upsert/remove/clear contract. The id is the merge key everywhere: a
// merge always replaces the whole record, never a partial-field patch.
package mirror

import (
	"context"
	"time"

	"sync"

	"github.com/rs/zerolog"

	"github.com/franqnet/console-sync/internal/core/domain"
	"github.com/franqnet/console-sync/internal/core/ports"
)

const persistTimeout = 5 * time.Second

// Mirror is an explicitly constructed store instance: created at process
// start, hydrated from the snapshot store, cleared at session end. All
// methods are safe for concurrent use; a single RWMutex serializes writers,
// preserving the one-mutator-at-a-time model of the original design.
type Mirror struct {
	store    ports.SnapshotStore
	log      zerolog.Logger
	notifier *notifier

	mu             sync.RWMutex
	units          []domain.Unit
	franchisees    []domain.Franchisee
	billing        []domain.BillingRecord
	staff          []domain.InternalUser
	communications []domain.CommunicationLog
	status         domain.SyncStatus
}

// New creates an empty mirror backed by the given snapshot store.
func New(store ports.SnapshotStore, log zerolog.Logger) *Mirror {
	return &Mirror{
		store:    store,
		log:      log.With().Str("component", "mirror").Logger(),
		notifier: newNotifier(log),
	}
}

// Hydrate loads the last saved snapshot. A successful hydration never marks
// the mirror as loading: snapshots are sanitized on save and the transient
// fields are forced inert again here in case an old snapshot predates that.
func (m *Mirror) Hydrate(ctx context.Context) error {
	snap, err := m.store.Load(ctx)
	if err != nil {
		return err
	}
	if snap == nil {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.units = snap.Units
	m.franchisees = snap.Franchisees
	m.billing = snap.Billing
	m.staff = snap.Staff
	m.communications = snap.Communications
	m.status = snap.Status.Sanitized()

	m.log.Info().
		Int("units", len(m.units)).
		Int("franchisees", len(m.franchisees)).
		Int("billing", len(m.billing)).
		Bool("has_initial_load", m.status.HasInitialLoad).
		Msg("mirror hydrated from snapshot")
	return nil
}

// upsertByID replaces the element with a matching id or appends the record.
func upsertByID[T domain.Record](list []T, rec T) ([]T, domain.ChangeOp) {
	for i := range list {
		if list[i].EntityID() == rec.EntityID() {
			list[i] = rec
			return list, domain.OpUpdate
		}
	}
	return append(list, rec), domain.OpInsert
}

func removeByID[T domain.Record](list []T, id string) ([]T, bool) {
	for i := range list {
		if list[i].EntityID() == id {
			return append(list[:i], list[i+1:]...), true
		}
	}
	return list, false
}

func getByID[T domain.Record](list []T, id string) (T, bool) {
	for i := range list {
		if list[i].EntityID() == id {
			return list[i], true
		}
	}
	var zero T
	return zero, false
}

// Get returns the record with the given id, or ok=false.
func (m *Mirror) Get(kind domain.EntityKind, id string) (domain.Record, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	switch kind {
	case domain.KindUnit:
		return asRecord(getByID(m.units, id))
	case domain.KindFranchisee:
		return asRecord(getByID(m.franchisees, id))
	case domain.KindBilling:
		return asRecord(getByID(m.billing, id))
	case domain.KindStaff:
		return asRecord(getByID(m.staff, id))
	case domain.KindCommunication:
		return asRecord(getByID(m.communications, id))
	}
	return nil, false
}

func asRecord[T domain.Record](rec T, ok bool) (domain.Record, bool) {
	if !ok {
		return nil, false
	}
	return rec, true
}

// Upsert replaces the record with a matching id or appends it. Re-upserting
// identical content is an effective no-op apart from the change notice.
func (m *Mirror) Upsert(ctx context.Context, rec domain.Record) error {
	m.mu.Lock()
	var op domain.ChangeOp
	switch r := rec.(type) {
	case domain.Unit:
		m.units, op = upsertByID(m.units, r)
	case domain.Franchisee:
		m.franchisees, op = upsertByID(m.franchisees, r)
	case domain.BillingRecord:
		m.billing, op = upsertByID(m.billing, r)
	case domain.InternalUser:
		m.staff, op = upsertByID(m.staff, r)
	case domain.CommunicationLog:
		m.communications, op = upsertByID(m.communications, r)
	default:
		m.mu.Unlock()
		return domain.ErrUnknownEntityKind
	}
	m.persistLocked(ctx)
	m.mu.Unlock()

	m.notifier.publish(Notice{Kind: rec.EntityKind(), Op: op, ID: rec.EntityID()})
	return nil
}

// Remove deletes the record if present; removing an absent id is a no-op.
func (m *Mirror) Remove(ctx context.Context, kind domain.EntityKind, id string) error {
	m.mu.Lock()
	var removed bool
	switch kind {
	case domain.KindUnit:
		m.units, removed = removeByID(m.units, id)
	case domain.KindFranchisee:
		m.franchisees, removed = removeByID(m.franchisees, id)
	case domain.KindBilling:
		m.billing, removed = removeByID(m.billing, id)
	case domain.KindStaff:
		m.staff, removed = removeByID(m.staff, id)
	case domain.KindCommunication:
		m.communications, removed = removeByID(m.communications, id)
	default:
		m.mu.Unlock()
		return domain.ErrUnknownEntityKind
	}
	if removed {
		m.persistLocked(ctx)
	}
	m.mu.Unlock()

	if removed {
		m.notifier.publish(Notice{Kind: kind, Op: domain.OpDelete, ID: id})
	}
	return nil
}

// Units returns a copy of the unit collection.
func (m *Mirror) Units() []domain.Unit {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.Unit(nil), m.units...)
}

// Franchisees returns a copy of the franchisee collection.
func (m *Mirror) Franchisees() []domain.Franchisee {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.Franchisee(nil), m.franchisees...)
}

// BillingRecords returns a copy of the billing collection.
func (m *Mirror) BillingRecords() []domain.BillingRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.BillingRecord(nil), m.billing...)
}

// Staff returns a copy of the internal user collection.
func (m *Mirror) Staff() []domain.InternalUser {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.InternalUser(nil), m.staff...)
}

// Communications returns a copy of the communication log collection.
func (m *Mirror) Communications() []domain.CommunicationLog {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.CommunicationLog(nil), m.communications...)
}

// Records returns the collection for kind as generic records, for consumers
// that iterate over kinds uniformly.
func (m *Mirror) Records(kind domain.EntityKind) ([]domain.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	switch kind {
	case domain.KindUnit:
		return toRecords(m.units), nil
	case domain.KindFranchisee:
		return toRecords(m.franchisees), nil
	case domain.KindBilling:
		return toRecords(m.billing), nil
	case domain.KindStaff:
		return toRecords(m.staff), nil
	case domain.KindCommunication:
		return toRecords(m.communications), nil
	}
	return nil, domain.ErrUnknownEntityKind
}

func toRecords[T domain.Record](list []T) []domain.Record {
	out := make([]domain.Record, len(list))
	for i := range list {
		out[i] = list[i]
	}
	return out
}

// Query returns the records of kind matching pred. Pure read, no side
// effects.
func (m *Mirror) Query(kind domain.EntityKind, pred func(domain.Record) bool) ([]domain.Record, error) {
	records, err := m.Records(kind)
	if err != nil {
		return nil, err
	}
	out := records[:0]
	for _, r := range records {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

// QueryBilling returns the billing records matching pred.
func (m *Mirror) QueryBilling(pred func(domain.BillingRecord) bool) []domain.BillingRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.BillingRecord
	for _, b := range m.billing {
		if pred(b) {
			out = append(out, b)
		}
	}
	return out
}

// Counts returns the record count per kind.
func (m *Mirror) Counts() map[domain.EntityKind]int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return map[domain.EntityKind]int{
		domain.KindUnit:          len(m.units),
		domain.KindFranchisee:    len(m.franchisees),
		domain.KindBilling:       len(m.billing),
		domain.KindStaff:         len(m.staff),
		domain.KindCommunication: len(m.communications),
	}
}

// Warm reports whether every collection holds at least one record. A warm
// mirror with an initial load makes a non-forced sync request a no-op.
func (m *Mirror) Warm() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.units) > 0 && len(m.franchisees) > 0 && len(m.billing) > 0 &&
		len(m.staff) > 0 && len(m.communications) > 0
}

// Status returns the current sync status.
func (m *Mirror) Status() domain.SyncStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// BeginSync marks the externally visible state as loading and clears a
// previous error. Transient fields only; nothing is persisted here.
func (m *Mirror) BeginSync(total int, stage string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status.IsLoading = true
	m.status.Error = ""
	m.status.Progress = &domain.SyncProgress{Current: 0, Total: total, Stage: stage}
}

// SetProgress updates the stage/count progress of a running sync.
func (m *Mirror) SetProgress(p domain.SyncProgress) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status.Progress = &p
}

// CommitBatch atomically replaces all five collections with the batch,
// marks the initial load done and advances the watermark. The loading flag
// stays up: the session controller drops it once the loading floor has
// passed.
func (m *Mirror) CommitBatch(ctx context.Context, batch *ports.SyncBatch, at time.Time) {
	m.mu.Lock()
	m.units = append([]domain.Unit(nil), batch.Units...)
	m.franchisees = append([]domain.Franchisee(nil), batch.Franchisees...)
	m.billing = append([]domain.BillingRecord(nil), batch.Billing...)
	m.staff = append([]domain.InternalUser(nil), batch.Staff...)
	m.communications = append([]domain.CommunicationLog(nil), batch.Communications...)
	m.status.HasInitialLoad = true
	m.status.Error = ""
	m.status.Progress = nil
	if m.status.LastSyncAt == nil || at.After(*m.status.LastSyncAt) {
		t := at
		m.status.LastSyncAt = &t
	}
	m.persistLocked(ctx)
	m.mu.Unlock()

	for _, kind := range domain.AllKinds() {
		m.notifier.publish(Notice{Kind: kind, Op: domain.OpUpdate})
	}
}

// MergeBatch folds an incremental batch into the mirror, record by record,
// and advances the watermark. A merge only happens after a successful fetch,
// so any error left by a previous failed sync is cleared here, even when the
// delta is empty. Returns the number of merged records.
func (m *Mirror) MergeBatch(ctx context.Context, batch *ports.SyncBatch, at time.Time) int {
	m.mu.Lock()
	recovered := m.status.Error != ""
	m.status.Error = ""
	merged := 0
	for _, u := range batch.Units {
		m.units, _ = upsertByID(m.units, u)
		merged++
	}
	for _, f := range batch.Franchisees {
		m.franchisees, _ = upsertByID(m.franchisees, f)
		merged++
	}
	for _, b := range batch.Billing {
		m.billing, _ = upsertByID(m.billing, b)
		merged++
	}
	for _, s := range batch.Staff {
		m.staff, _ = upsertByID(m.staff, s)
		merged++
	}
	for _, c := range batch.Communications {
		m.communications, _ = upsertByID(m.communications, c)
		merged++
	}
	if m.status.LastSyncAt == nil || at.After(*m.status.LastSyncAt) {
		t := at
		m.status.LastSyncAt = &t
	}
	if merged > 0 || recovered {
		m.persistLocked(ctx)
	}
	m.mu.Unlock()

	if merged > 0 {
		for _, kind := range domain.AllKinds() {
			m.notifier.publish(Notice{Kind: kind, Op: domain.OpUpdate})
		}
	}
	return merged
}

// FailSync records a sync failure. Prior data, HasInitialLoad and LastSyncAt
// are left untouched.
func (m *Mirror) FailSync(ctx context.Context, msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status.Error = msg
	m.status.Progress = nil
	m.persistLocked(ctx)
}

// EndLoading drops the externally visible loading flag.
func (m *Mirror) EndLoading() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status.IsLoading = false
	m.status.Progress = nil
}

// Clear empties all five collections and resets the sync status to its
// initial value. Called on sign-out and explicit cache reset.
func (m *Mirror) Clear(ctx context.Context) {
	m.mu.Lock()
	m.units = nil
	m.franchisees = nil
	m.billing = nil
	m.staff = nil
	m.communications = nil
	m.status = domain.SyncStatus{}
	m.persistLocked(ctx)
	m.mu.Unlock()

	for _, kind := range domain.AllKinds() {
		m.notifier.publish(Notice{Kind: kind, Op: domain.OpDelete})
	}
}

// Subscribe registers a change listener. The returned cancel func must be
// called to release the subscription.
func (m *Mirror) Subscribe(buffer int) (<-chan Notice, func()) {
	return m.notifier.subscribe(buffer)
}

// snapshotLocked builds a sanitized snapshot of the current state. Callers
// must hold at least a read lock.
func (m *Mirror) snapshotLocked() *domain.Snapshot {
	return &domain.Snapshot{
		Units:          append([]domain.Unit(nil), m.units...),
		Franchisees:    append([]domain.Franchisee(nil), m.franchisees...),
		Billing:        append([]domain.BillingRecord(nil), m.billing...),
		Staff:          append([]domain.InternalUser(nil), m.staff...),
		Communications: append([]domain.CommunicationLog(nil), m.communications...),
		Status:         m.status.Sanitized(),
		SavedAt:        time.Now().UTC(),
	}
}

// persistLocked writes the snapshot to durable storage. A save failure
// leaves the in-memory mirror authoritative and is logged, never propagated:
// losing a snapshot only costs a cold start.
func (m *Mirror) persistLocked(ctx context.Context) {
	snap := m.snapshotLocked()
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()
	if err := m.store.Save(saveCtx, snap); err != nil {
		m.log.Warn().Err(err).Msg("snapshot save failed")
	}
}
