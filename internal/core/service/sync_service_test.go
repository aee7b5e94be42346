package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/franqnet/console-sync/internal/core/domain"
	"github.com/franqnet/console-sync/internal/core/ports"
)

func pageOf[T any](all []T, pageSize, offset int) ([]T, bool) {
	if offset >= len(all) {
		return nil, false
	}
	end := offset + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], end < len(all)
}

type fakeUnits struct {
	records  []domain.Unit
	err      error
	listCall int
}

func (f *fakeUnits) ListAll(_ context.Context, pageSize, offset int) ([]domain.Unit, bool, error) {
	f.listCall++
	if f.err != nil {
		return nil, false, f.err
	}
	page, more := pageOf(f.records, pageSize, offset)
	return page, more, nil
}

type fakeFranchisees struct {
	records []domain.Franchisee
	delta   []domain.Franchisee
	err     error
	since   time.Time
}

func (f *fakeFranchisees) ListAll(_ context.Context, pageSize, offset int) ([]domain.Franchisee, bool, error) {
	if f.err != nil {
		return nil, false, f.err
	}
	page, more := pageOf(f.records, pageSize, offset)
	return page, more, nil
}

func (f *fakeFranchisees) ListSince(_ context.Context, since time.Time) ([]domain.Franchisee, error) {
	f.since = since
	return f.delta, f.err
}

type fakeBilling struct {
	records []domain.BillingRecord
	delta   []domain.BillingRecord
	err     error
}

func (f *fakeBilling) ListAll(_ context.Context, pageSize, offset int) ([]domain.BillingRecord, bool, error) {
	if f.err != nil {
		return nil, false, f.err
	}
	page, more := pageOf(f.records, pageSize, offset)
	return page, more, nil
}

func (f *fakeBilling) ListSince(_ context.Context, _ time.Time) ([]domain.BillingRecord, error) {
	return f.delta, f.err
}

func (f *fakeBilling) UpdateBoardStatus(_ context.Context, _ string, _ domain.BoardColumn) (*domain.BillingRecord, error) {
	return nil, errors.New("not implemented")
}

type fakeStaff struct {
	records []domain.InternalUser
	delta   []domain.InternalUser
}

func (f *fakeStaff) ListAll(_ context.Context, pageSize, offset int) ([]domain.InternalUser, bool, error) {
	page, more := pageOf(f.records, pageSize, offset)
	return page, more, nil
}

func (f *fakeStaff) ListSince(_ context.Context, _ time.Time) ([]domain.InternalUser, error) {
	return f.delta, nil
}

type fakeComms struct {
	records []domain.CommunicationLog
	delta   []domain.CommunicationLog
}

func (f *fakeComms) ListAll(_ context.Context, pageSize, offset int) ([]domain.CommunicationLog, bool, error) {
	page, more := pageOf(f.records, pageSize, offset)
	return page, more, nil
}

func (f *fakeComms) ListSince(_ context.Context, _ time.Time) ([]domain.CommunicationLog, error) {
	return f.delta, nil
}

func testGateways() (ports.Gateways, *fakeUnits, *fakeFranchisees, *fakeBilling) {
	units := &fakeUnits{records: []domain.Unit{{ID: "u1", Code: "0001"}, {ID: "u2", Code: "0002"}}}
	franchisees := &fakeFranchisees{records: []domain.Franchisee{{ID: "f1", Name: "Ana"}}}
	billing := &fakeBilling{records: []domain.BillingRecord{{ID: "b1", UnitID: "u1"}}}
	gw := ports.Gateways{
		Units:          units,
		Franchisees:    franchisees,
		Billing:        billing,
		Staff:          &fakeStaff{records: []domain.InternalUser{{ID: "s1", Username: "admin"}}},
		Communications: &fakeComms{records: []domain.CommunicationLog{{ID: "c1", Channel: "email"}}},
	}
	return gw, units, franchisees, billing
}

func TestFullSync_CollectsAllKindsInOrder(t *testing.T) {
	gw, _, _, _ := testGateways()
	svc := NewSyncService(gw, 50, zerolog.Nop())

	var stages []string
	batch, err := svc.FullSync(context.Background(), func(p domain.SyncProgress) {
		stages = append(stages, p.Stage)
	})
	if err != nil {
		t.Fatalf("full sync: %v", err)
	}
	if batch.TotalRecords() != 6 {
		t.Fatalf("expected 6 records, got %d", batch.TotalRecords())
	}

	want := []string{"unit", "franchisee", "billing", "staff", "communication"}
	if len(stages) != len(want) {
		t.Fatalf("expected %d progress steps, got %d", len(want), len(stages))
	}
	for i, stage := range want {
		if stages[i] != stage {
			t.Fatalf("stage %d: expected %q, got %q", i, stage, stages[i])
		}
	}
}

func TestFullSync_PagesThroughCollection(t *testing.T) {
	gw, units, _, _ := testGateways()
	units.records = []domain.Unit{
		{ID: "u1"}, {ID: "u2"}, {ID: "u3"}, {ID: "u4"}, {ID: "u5"},
	}
	svc := NewSyncService(gw, 2, zerolog.Nop())

	batch, err := svc.FullSync(context.Background(), nil)
	if err != nil {
		t.Fatalf("full sync: %v", err)
	}
	if len(batch.Units) != 5 {
		t.Fatalf("expected 5 units, got %d", len(batch.Units))
	}
	if units.listCall != 3 {
		t.Fatalf("expected 3 pages, got %d", units.listCall)
	}
}

func TestFullSync_AbortsOnKindFailure(t *testing.T) {
	gw, _, _, billing := testGateways()
	billing.err = errors.New("upstream 503")
	svc := NewSyncService(gw, 50, zerolog.Nop())

	batch, err := svc.FullSync(context.Background(), nil)
	if err == nil {
		t.Fatalf("expected error")
	}
	if batch != nil {
		t.Fatalf("expected nil batch on failure, got %d records", batch.TotalRecords())
	}
	if !errors.Is(err, billing.err) {
		t.Fatalf("expected wrapped gateway error, got %v", err)
	}
}

func TestIncrementalSync_UnitsFullyRefetched(t *testing.T) {
	gw, units, franchisees, _ := testGateways()
	franchisees.delta = []domain.Franchisee{{ID: "f9", Name: "Delta"}}
	svc := NewSyncService(gw, 50, zerolog.Nop())

	since := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	batch, err := svc.IncrementalSync(context.Background(), since, nil)
	if err != nil {
		t.Fatalf("incremental sync: %v", err)
	}
	if units.listCall == 0 {
		t.Fatalf("units should be fully refetched")
	}
	if len(batch.Units) != 2 {
		t.Fatalf("expected 2 units, got %d", len(batch.Units))
	}
	if !franchisees.since.Equal(since) {
		t.Fatalf("expected since %v, got %v", since, franchisees.since)
	}
	if len(batch.Franchisees) != 1 || batch.Franchisees[0].ID != "f9" {
		t.Fatalf("expected franchisee delta, got %+v", batch.Franchisees)
	}
}
