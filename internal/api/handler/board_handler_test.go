package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/franqnet/console-sync/internal/core/domain"
	"github.com/franqnet/console-sync/internal/core/mirror"
	"github.com/franqnet/console-sync/internal/core/service"
)

type stubBillingGateway struct {
	err   error
	calls int
}

func (g *stubBillingGateway) ListAll(context.Context, int, int) ([]domain.BillingRecord, bool, error) {
	return nil, false, nil
}

func (g *stubBillingGateway) ListSince(context.Context, time.Time) ([]domain.BillingRecord, error) {
	return nil, nil
}

func (g *stubBillingGateway) UpdateBoardStatus(_ context.Context, id string, column domain.BoardColumn) (*domain.BillingRecord, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return &domain.BillingRecord{ID: id, Status: domain.BillingOpen, BoardStatus: column}, nil
}

func boardFixture(t *testing.T) (*mirror.Mirror, *service.BoardService, *stubBillingGateway) {
	t.Helper()
	m := newTestMirror()
	ctx := context.Background()
	m.Upsert(ctx, domain.BillingRecord{ID: "b1", UnitID: "u1", Status: domain.BillingOpen})
	m.Upsert(ctx, domain.BillingRecord{ID: "b2", UnitID: "u2", Status: domain.BillingOverdue})
	gw := &stubBillingGateway{}
	return m, service.NewBoardService(m, gw, zerolog.Nop()), gw
}

func TestBoardHandler_Board(t *testing.T) {
	e := echo.New()
	_, board, _ := boardFixture(t)
	h := NewBoardHandler(board)

	req := httptest.NewRequest(http.MethodGet, "/v1/board", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec)

	if err := h.Board(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp boardResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Columns) != len(domain.BoardColumns()) {
		t.Fatalf("expected %d columns, got %d", len(domain.BoardColumns()), len(resp.Columns))
	}
}

func TestBoardHandler_Move(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	_, board, gw := boardFixture(t)
	h := NewBoardHandler(board)

	body := strings.NewReader(`{"record_id":"b2","column":"negotiated","position":0}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/board/move", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec)

	if err := h.Move(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gw.calls != 1 {
		t.Fatalf("expected one remote write, got %d", gw.calls)
	}

	var resp boardResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	for _, col := range resp.Columns {
		if col.Column == domain.ColumnNegotiated {
			if len(col.Records) != 1 || col.Records[0].ID != "b2" {
				t.Fatalf("expected b2 in negotiated, got %+v", col.Records)
			}
			return
		}
	}
	t.Fatalf("negotiated column missing from response")
}

func TestBoardHandler_MoveUnknownRecord(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	_, board, _ := boardFixture(t)
	h := NewBoardHandler(board)

	body := strings.NewReader(`{"record_id":"ghost","column":"open","position":0}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/board/move", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec)

	err := h.Move(c)
	if err == nil {
		t.Fatalf("expected error for unknown record")
	}
}

func TestBoardHandler_MoveInvalidColumn(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	_, board, gw := boardFixture(t)
	h := NewBoardHandler(board)

	body := strings.NewReader(`{"record_id":"b1","column":"paid","position":0}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/board/move", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec)

	err := h.Move(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
	if gw.calls != 0 {
		t.Fatalf("invalid column must never reach the gateway")
	}
}
