package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/franqnet/console-sync/internal/core/domain"
)

func TestApply_BillingRowLifecycle(t *testing.T) {
	m := newTestMirror()
	svc := NewReconcileService(m, zerolog.Nop())
	ctx := context.Background()

	row := domain.BillingRecord{ID: "b1", UnitID: "u1", Status: domain.BillingOpen}
	if err := svc.Apply(ctx, domain.BillingRowChange{Op: domain.OpInsert, RecordID: "b1", Record: &row}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if got := m.Counts()[domain.KindBilling]; got != 1 {
		t.Fatalf("expected 1 billing record, got %d", got)
	}

	row.Notes = "second notice sent"
	if err := svc.Apply(ctx, domain.BillingRowChange{Op: domain.OpUpdate, RecordID: "b1", Record: &row}); err != nil {
		t.Fatalf("update: %v", err)
	}
	rec, _ := m.Get(domain.KindBilling, "b1")
	if rec.(domain.BillingRecord).Notes != "second notice sent" {
		t.Fatalf("expected updated record, got %+v", rec)
	}
	if got := m.Counts()[domain.KindBilling]; got != 1 {
		t.Fatalf("update must not duplicate, got %d", got)
	}

	if err := svc.Apply(ctx, domain.BillingRowChange{Op: domain.OpDelete, RecordID: "b1"}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := m.Counts()[domain.KindBilling]; got != 0 {
		t.Fatalf("expected record removed, got %d", got)
	}

	// deleting an already absent id is a no-op, not an error
	if err := svc.Apply(ctx, domain.BillingRowChange{Op: domain.OpDelete, RecordID: "b1"}); err != nil {
		t.Fatalf("redundant delete: %v", err)
	}
}

func TestApply_BillingDeleteFallsBackToRecordID(t *testing.T) {
	m := newTestMirror()
	svc := NewReconcileService(m, zerolog.Nop())
	ctx := context.Background()

	row := domain.BillingRecord{ID: "b7", UnitID: "u1"}
	if err := svc.Apply(ctx, domain.BillingRowChange{Op: domain.OpInsert, Record: &row}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := svc.Apply(ctx, domain.BillingRowChange{Op: domain.OpDelete, Record: &row}); err != nil {
		t.Fatalf("delete via record payload: %v", err)
	}
	if got := m.Counts()[domain.KindBilling]; got != 0 {
		t.Fatalf("expected record removed, got %d", got)
	}
}

func TestApply_BillingMalformedEvents(t *testing.T) {
	m := newTestMirror()
	svc := NewReconcileService(m, zerolog.Nop())
	ctx := context.Background()

	if err := svc.Apply(ctx, domain.BillingRowChange{Op: domain.OpInsert}); err == nil {
		t.Fatalf("insert without payload must fail")
	}
	if err := svc.Apply(ctx, domain.BillingRowChange{Op: domain.OpDelete}); err == nil {
		t.Fatalf("delete without any id must fail")
	}
}

func TestApply_UnitBroadcastNormalized(t *testing.T) {
	m := newTestMirror()
	svc := NewReconcileService(m, zerolog.Nop())

	unit := domain.Unit{ID: "u1", Code: "7", Name: "  Centro  "}
	if err := svc.Apply(context.Background(), domain.UnitBroadcast{Unit: unit}); err != nil {
		t.Fatalf("apply: %v", err)
	}

	rec, ok := m.Get(domain.KindUnit, "u1")
	if !ok {
		t.Fatalf("unit not mirrored")
	}
	got := rec.(domain.Unit)
	if got.Code != "0007" {
		t.Fatalf("expected zero-padded code, got %q", got.Code)
	}
	if got.Name != "Centro" {
		t.Fatalf("expected trimmed name, got %q", got.Name)
	}
	if got.Status != domain.UnitActive {
		t.Fatalf("expected default status active, got %q", got.Status)
	}
}

func TestApply_UnitBroadcastRegeneratesMissingCode(t *testing.T) {
	m := newTestMirror()
	svc := NewReconcileService(m, zerolog.Nop())

	if err := svc.Apply(context.Background(), domain.UnitBroadcast{Unit: domain.Unit{ID: "u9", Name: "Sur"}}); err != nil {
		t.Fatalf("apply: %v", err)
	}

	rec, _ := m.Get(domain.KindUnit, "u9")
	code := rec.(domain.Unit).Code
	if len(code) != 4 {
		t.Fatalf("expected regenerated 4-digit code, got %q", code)
	}
}

func TestApply_FranchiseeBroadcastNormalized(t *testing.T) {
	m := newTestMirror()
	svc := NewReconcileService(m, zerolog.Nop())

	f := domain.Franchisee{ID: "f1", Name: "Ana", Email: " Ana@Example.COM "}
	if err := svc.Apply(context.Background(), domain.FranchiseeBroadcast{Franchisee: f}); err != nil {
		t.Fatalf("apply: %v", err)
	}

	rec, _ := m.Get(domain.KindFranchisee, "f1")
	got := rec.(domain.Franchisee)
	if got.Email != "ana@example.com" {
		t.Fatalf("expected lowercased email, got %q", got.Email)
	}
	if got.Role != domain.RolePartner {
		t.Fatalf("expected default role partner, got %q", got.Role)
	}
}

func TestApply_Idempotent(t *testing.T) {
	m := newTestMirror()
	svc := NewReconcileService(m, zerolog.Nop())
	ctx := context.Background()

	row := domain.BillingRecord{ID: "b1", UnitID: "u1"}
	ev := domain.BillingRowChange{Op: domain.OpInsert, RecordID: "b1", Record: &row}
	if err := svc.Apply(ctx, ev); err != nil {
		t.Fatalf("first apply: %v", err)
	}
	if err := svc.Apply(ctx, ev); err != nil {
		t.Fatalf("second apply: %v", err)
	}
	if got := m.Counts()[domain.KindBilling]; got != 1 {
		t.Fatalf("duplicate event must not duplicate the record, got %d", got)
	}
}

// A pushed record replaces the mirrored copy wholesale. There is no field
// merging: whichever write lands last wins, even if it reverts a local change.
func TestApply_LastWriteWins(t *testing.T) {
	m := newTestMirror()
	svc := NewReconcileService(m, zerolog.Nop())
	ctx := context.Background()

	local := domain.BillingRecord{ID: "b1", UnitID: "u1", Status: domain.BillingOpen, BoardStatus: domain.ColumnNegotiated}
	if err := m.Upsert(ctx, local); err != nil {
		t.Fatalf("seed: %v", err)
	}

	pushed := domain.BillingRecord{ID: "b1", UnitID: "u1", Status: domain.BillingOpen}
	if err := svc.Apply(ctx, domain.BillingRowChange{Op: domain.OpUpdate, RecordID: "b1", Record: &pushed}); err != nil {
		t.Fatalf("apply: %v", err)
	}

	rec, _ := m.Get(domain.KindBilling, "b1")
	if rec.(domain.BillingRecord).BoardStatus != "" {
		t.Fatalf("pushed record must clobber the local board tag, got %+v", rec)
	}
}

func TestRun_StopsWhenChannelCloses(t *testing.T) {
	m := newTestMirror()
	svc := NewReconcileService(m, zerolog.Nop())

	events := make(chan domain.ChangeEvent)
	done := make(chan struct{})
	go func() {
		svc.Run(context.Background(), events)
		close(done)
	}()

	events <- domain.UnitBroadcast{Unit: domain.Unit{ID: "u1", Code: "0001"}}
	close(events)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("run did not stop after channel close")
	}
	if got := m.Counts()[domain.KindUnit]; got != 1 {
		t.Fatalf("expected event applied before stop, got %d units", got)
	}
}
