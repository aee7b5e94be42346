package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/franqnet/console-sync/internal/core/domain"
	"github.com/franqnet/console-sync/internal/core/mirror"
	"github.com/franqnet/console-sync/internal/core/ports"
)

// BoardService coordinates the billing kanban. Moves are optimistic: the
// board view reflects the move immediately, the remote write confirms it,
// and a failed write rolls the view back to whatever the mirror holds.
// There is no automatic retry; the caller sees the error and decides.
type BoardService struct {
	mirror  *mirror.Mirror
	billing ports.BillingGateway
	log     zerolog.Logger

	mu      sync.Mutex
	columns map[domain.BoardColumn][]string // ordered record ids per column
	valid   bool
}

// NewBoardService creates the coordinator. The column layout is rebuilt
// lazily from the mirror on first read and after any invalidation.
func NewBoardService(m *mirror.Mirror, billing ports.BillingGateway, log zerolog.Logger) *BoardService {
	return &BoardService{
		mirror:  m,
		billing: billing,
		log:     log.With().Str("component", "board").Logger(),
	}
}

// BoardColumn is one rendered kanban column.
type BoardColumn struct {
	Column  domain.BoardColumn     `json:"column"`
	Records []domain.BillingRecord `json:"records"`
}

// Invalidate discards the cached layout; the next Board call recomputes it
// from the mirror. Wire this to the mirror's billing change notices so
// pushed rows reposition cards.
func (s *BoardService) Invalidate() {
	s.mu.Lock()
	s.valid = false
	s.mu.Unlock()
}

// Board returns the current kanban layout in display-column order.
func (s *BoardService) Board() []BoardColumn {
	s.mu.Lock()
	s.rebuildLocked()
	layout := make(map[domain.BoardColumn][]string, len(s.columns))
	for col, ids := range s.columns {
		layout[col] = append([]string(nil), ids...)
	}
	s.mu.Unlock()

	out := make([]BoardColumn, 0, len(domain.BoardColumns()))
	for _, col := range domain.BoardColumns() {
		bc := BoardColumn{Column: col, Records: []domain.BillingRecord{}}
		for _, id := range layout[col] {
			if rec, ok := s.mirror.Get(domain.KindBilling, id); ok {
				if b, ok := rec.(domain.BillingRecord); ok {
					bc.Records = append(bc.Records, b)
				}
			}
		}
		out = append(out, bc)
	}
	return out
}

// rebuildLocked recomputes the column ordering from the mirror's billing
// collection: board-visible records only, sorted by due date then id.
func (s *BoardService) rebuildLocked() {
	if s.valid {
		return
	}
	records := s.mirror.QueryBilling(func(b domain.BillingRecord) bool {
		_, visible := b.Column()
		return visible
	})
	sort.Slice(records, func(i, j int) bool {
		if !records[i].DueDate.Equal(records[j].DueDate) {
			return records[i].DueDate.Before(records[j].DueDate)
		}
		return records[i].ID < records[j].ID
	})
	s.columns = make(map[domain.BoardColumn][]string)
	for _, b := range records {
		col, _ := b.Column()
		s.columns[col] = append(s.columns[col], b.ID)
	}
	s.valid = true
}

// ApplyOptimistic moves a card in the cached layout without touching the
// mirror or the remote side. Position is clamped into the target column.
func (s *BoardService) ApplyOptimistic(id string, target domain.BoardColumn, position int) error {
	if _, ok := s.mirror.Get(domain.KindBilling, id); !ok {
		return domain.ErrRecordNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rebuildLocked()

	found := false
	for col, ids := range s.columns {
		for i, existing := range ids {
			if existing == id {
				s.columns[col] = append(ids[:i], ids[i+1:]...)
				found = true
				break
			}
		}
		if found {
			break
		}
	}
	if !found {
		return domain.ErrNotOnBoard
	}

	ids := s.columns[target]
	if position < 0 {
		position = 0
	}
	if position > len(ids) {
		position = len(ids)
	}
	ids = append(ids, "")
	copy(ids[position+1:], ids[position:])
	ids[position] = id
	s.columns[target] = ids
	return nil
}

// Commit writes the move to the billing system. On success the confirmed
// record replaces the mirror's copy; on failure the cached layout is
// invalidated so the next read rolls back to the mirror's truth.
func (s *BoardService) Commit(ctx context.Context, id string, target domain.BoardColumn) error {
	rec, err := s.billing.UpdateBoardStatus(ctx, id, target)
	if err != nil {
		s.Invalidate()
		s.log.Warn().Err(err).Str("record", id).Str("column", string(target)).Msg("board move rejected, rolling back")
		return fmt.Errorf("board move %s -> %s: %w", id, target, err)
	}
	if rec != nil {
		if uerr := s.mirror.Upsert(ctx, *rec); uerr != nil {
			s.log.Warn().Err(uerr).Str("record", id).Msg("confirmed board move not mirrored")
		}
	}
	return nil
}

// Move is the handler-facing entry: optimistic apply, then remote commit.
func (s *BoardService) Move(ctx context.Context, id string, target domain.BoardColumn, position int) error {
	if err := s.ApplyOptimistic(id, target, position); err != nil {
		return err
	}
	return s.Commit(ctx, id, target)
}
