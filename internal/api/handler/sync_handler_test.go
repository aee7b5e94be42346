package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/franqnet/console-sync/internal/core/domain"
	"github.com/franqnet/console-sync/internal/core/mirror"
)

type memSnapshotStore struct {
	mu   sync.Mutex
	snap *domain.Snapshot
}

func (m *memSnapshotStore) Load(context.Context) (*domain.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap, nil
}

func (m *memSnapshotStore) Save(_ context.Context, snap *domain.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = snap
	return nil
}

func newTestMirror() *mirror.Mirror {
	return mirror.New(&memSnapshotStore{}, zerolog.Nop())
}

type stubController struct {
	mu         sync.Mutex
	status     domain.SyncStatus
	started    bool
	syncCalls  int
	clearCalls int
	sessions   []domain.Session
	ended      int
}

func (s *stubController) Status() domain.SyncStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *stubController) RequestSync(context.Context, bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncCalls++
	return s.started
}

func (s *stubController) Refresh(context.Context) error { return nil }

func (s *stubController) RequestClear(context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearCalls++
}

func (s *stubController) BeginSession(_ context.Context, sess domain.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = append(s.sessions, sess)
}

func (s *stubController) EndSession(context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ended++
}

func authedContext(e *echo.Echo, req *http.Request, rec *httptest.ResponseRecorder) echo.Context {
	c := e.NewContext(req, rec)
	c.Set("role", "manager")
	c.Set("session_id", "sess_1")
	return c
}

func TestSyncHandler_Status(t *testing.T) {
	e := echo.New()
	at := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	ctrl := &stubController{status: domain.SyncStatus{HasInitialLoad: true, LastSyncAt: &at}}
	h := NewSyncHandler(ctrl, newTestMirror())

	req := httptest.NewRequest(http.MethodGet, "/v1/sync/status", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec)

	if err := h.Status(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var status domain.SyncStatus
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !status.HasInitialLoad {
		t.Fatalf("unexpected status %+v", status)
	}
}

func TestSyncHandler_StatusRequiresClaims(t *testing.T) {
	e := echo.New()
	h := NewSyncHandler(&stubController{}, newTestMirror())

	req := httptest.NewRequest(http.MethodGet, "/v1/sync/status", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Status(c)
	if err == nil {
		t.Fatalf("expected error without auth claims")
	}
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestSyncHandler_Request(t *testing.T) {
	e := echo.New()
	ctrl := &stubController{started: true}
	h := NewSyncHandler(ctrl, newTestMirror())

	req := httptest.NewRequest(http.MethodPost, "/v1/sync", strings.NewReader(`{"force":true}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec)

	if err := h.Request(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	if ctrl.syncCalls != 1 {
		t.Fatalf("expected one sync request, got %d", ctrl.syncCalls)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["started"] != true {
		t.Fatalf("expected started=true, got %v", resp["started"])
	}
}

func TestSyncHandler_ClearCache(t *testing.T) {
	e := echo.New()
	ctrl := &stubController{}
	h := NewSyncHandler(ctrl, newTestMirror())

	req := httptest.NewRequest(http.MethodDelete, "/v1/sync/cache", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec)

	if err := h.ClearCache(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if ctrl.clearCalls != 1 {
		t.Fatalf("expected one clear call, got %d", ctrl.clearCalls)
	}
}

func TestSyncHandler_WatchReturnsOnChange(t *testing.T) {
	e := echo.New()
	m := newTestMirror()
	h := NewSyncHandler(&stubController{}, m)

	req := httptest.NewRequest(http.MethodGet, "/v1/sync/watch?timeout_seconds=5", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec)

	go func() {
		time.Sleep(50 * time.Millisecond)
		m.Upsert(context.Background(), domain.BillingRecord{ID: "b1"})
	}()

	if err := h.Watch(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp watchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !resp.Changed || len(resp.Notices) == 0 {
		t.Fatalf("expected change notice, got %+v", resp)
	}
	if resp.Notices[0].Kind != domain.KindBilling {
		t.Fatalf("unexpected notice %+v", resp.Notices[0])
	}
}

func TestSyncHandler_WatchTimesOut(t *testing.T) {
	e := echo.New()
	h := NewSyncHandler(&stubController{}, newTestMirror())

	req := httptest.NewRequest(http.MethodGet, "/v1/sync/watch?timeout_seconds=1", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec)

	if err := h.Watch(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp watchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Changed {
		t.Fatalf("expected no change, got %+v", resp)
	}
}
