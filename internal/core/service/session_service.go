package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/franqnet/console-sync/internal/core/domain"
	"github.com/franqnet/console-sync/internal/core/mirror"
	"github.com/franqnet/console-sync/internal/core/ports"
)

// DefaultLoadingFloor is the minimum duration the loading flag stays visible
// once a sync begins, so fast syncs don't flicker the loading UI.
const DefaultLoadingFloor = 5 * time.Second

// SessionControl is the single entry point the UI layer talks to. It
// de-duplicates concurrent sync requests, enforces the loading floor and
// auto-triggers the first full sync per authenticated session.
type SessionControl struct {
	mirror     *mirror.Mirror
	syncer     ports.Synchronizer
	watermarks ports.WatermarkStore
	clock      ports.Clock
	floor      time.Duration
	log        zerolog.Logger

	mu          sync.Mutex
	syncing     bool
	refreshing  bool
	session     *domain.Session
	autoSession string // session id whose first-load sync already fired
}

// NewSessionControl creates the controller. A non-positive floor falls back
// to DefaultLoadingFloor.
func NewSessionControl(
	m *mirror.Mirror,
	syncer ports.Synchronizer,
	watermarks ports.WatermarkStore,
	clock ports.Clock,
	floor time.Duration,
	log zerolog.Logger,
) *SessionControl {
	if floor <= 0 {
		floor = DefaultLoadingFloor
	}
	if clock == nil {
		clock = ports.SystemClock{}
	}
	return &SessionControl{
		mirror:     m,
		syncer:     syncer,
		watermarks: watermarks,
		clock:      clock,
		floor:      floor,
		log:        log.With().Str("component", "sync_controller").Logger(),
	}
}

// Status returns the externally visible sync state.
func (s *SessionControl) Status() domain.SyncStatus {
	return s.mirror.Status()
}

// RequestSync starts a full sync in the background and reports whether one
// was started. A request while a sync is loading is ignored, not queued. A
// non-forced request is a no-op when the initial load is done and every
// collection is non-empty.
func (s *SessionControl) RequestSync(ctx context.Context, force bool) bool {
	if !s.beginRun(force) {
		return false
	}
	go s.syncOnce(context.WithoutCancel(ctx))
	return true
}

// beginRun applies the dedup guards and claims the run slot.
func (s *SessionControl) beginRun(force bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.syncing {
		s.log.Debug().Msg("sync request ignored, sync already in progress")
		return false
	}
	if !force && s.mirror.Status().HasInitialLoad && s.mirror.Warm() {
		s.log.Debug().Msg("sync request skipped, mirror already warm")
		return false
	}
	s.syncing = true
	return true
}

// syncOnce runs one full sync to completion, including the loading floor.
// Callers must have claimed the run slot via beginRun.
func (s *SessionControl) syncOnce(ctx context.Context) {
	defer func() {
		s.mu.Lock()
		s.syncing = false
		s.mu.Unlock()
	}()

	start := s.clock.Now()
	s.mirror.BeginSync(len(domain.AllKinds()), string(domain.KindUnit))

	batch, err := s.syncer.FullSync(ctx, s.mirror.SetProgress)
	if err != nil {
		s.log.Error().Err(err).Msg("full sync failed")
		s.mirror.FailSync(ctx, err.Error())
	} else {
		at := s.clock.Now()
		s.mirror.CommitBatch(ctx, batch, at)
		if werr := s.watermarks.Set(ctx, at); werr != nil {
			s.log.Warn().Err(werr).Msg("failed to store sync watermark")
		}
		s.log.Info().Int("records", batch.TotalRecords()).Msg("full sync committed")
	}

	// Loading floor: isLoading stays visible until max(completion,
	// start+floor). A deadline comparison, not a fixed sleep, so a slow
	// fetch adds no extra delay.
	deadline := start.Add(s.floor)
	if now := s.clock.Now(); now.Before(deadline) {
		select {
		case <-ctx.Done():
		case <-s.clock.After(deadline.Sub(now)):
		}
	}
	s.mirror.EndLoading()
}

// Refresh runs one incremental sync from the stored watermark and merges the
// delta into the mirror. Skipped while a full sync is loading or before the
// initial load has happened.
func (s *SessionControl) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if s.syncing || s.refreshing {
		s.mu.Unlock()
		return nil
	}
	status := s.mirror.Status()
	if !status.HasInitialLoad {
		s.mu.Unlock()
		return nil
	}
	s.refreshing = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.refreshing = false
		s.mu.Unlock()
	}()

	since, ok, err := s.watermarks.Get(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("watermark read failed, falling back to last sync instant")
		ok = false
	}
	if !ok {
		if status.LastSyncAt == nil {
			return nil
		}
		since = *status.LastSyncAt
	}

	batch, err := s.syncer.IncrementalSync(ctx, since, nil)
	if err != nil {
		s.mirror.FailSync(ctx, err.Error())
		return err
	}

	at := s.clock.Now()
	merged := s.mirror.MergeBatch(ctx, batch, at)
	if werr := s.watermarks.Set(ctx, at); werr != nil {
		s.log.Warn().Err(werr).Msg("failed to store sync watermark")
	}
	if merged > 0 {
		s.log.Info().Int("records", merged).Time("since", since).Msg("incremental sync merged")
	}
	return nil
}

// RequestClear empties the mirror and resets the sync state.
func (s *SessionControl) RequestClear(ctx context.Context) {
	s.mirror.Clear(ctx)
}

// BeginSession records the authenticated session. The first call for a
// given session id triggers a full sync when the mirror is cold; repeated
// calls for the same session never re-trigger it.
func (s *SessionControl) BeginSession(ctx context.Context, sess domain.Session) {
	s.mu.Lock()
	s.session = &sess
	alreadyTriggered := s.autoSession == sess.ID
	if !alreadyTriggered {
		s.autoSession = sess.ID
	}
	s.mu.Unlock()

	if alreadyTriggered {
		return
	}
	if s.mirror.Status().HasInitialLoad {
		return
	}
	s.log.Info().Str("session", sess.ID).Str("user", sess.UserID).Msg("cold mirror, auto-triggering first sync")
	s.RequestSync(ctx, false)
}

// EndSession drops the current session and clears the mirror, per the
// sign-out contract.
func (s *SessionControl) EndSession(ctx context.Context) {
	s.mu.Lock()
	s.session = nil
	s.mu.Unlock()
	s.mirror.Clear(ctx)
}

// CurrentSession returns the active session, or nil.
func (s *SessionControl) CurrentSession() *domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil
	}
	sess := *s.session
	return &sess
}
