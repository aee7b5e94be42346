package mirror

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/franqnet/console-sync/internal/core/domain"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestBillingStats_AmountsAndVisibility(t *testing.T) {
	m := New(&memStore{}, zerolog.Nop())
	ctx := context.Background()

	records := []domain.BillingRecord{
		{ID: "b1", Status: domain.BillingOpen, Amount: dec("1200.50")},
		{ID: "b2", Status: domain.BillingOverdue, Amount: dec("800.00"), UpdatedAmount: dec("856.40")},
		{ID: "b3", Status: domain.BillingPaid, Amount: dec("300.00")},
	}
	for _, r := range records {
		if err := m.Upsert(ctx, r); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	stats := m.BillingStats()
	if stats.Total != 3 {
		t.Fatalf("expected total 3, got %d", stats.Total)
	}
	if stats.BoardVisible != 2 {
		t.Fatalf("paid records are not board-visible, got %d", stats.BoardVisible)
	}
	// b2 counts with its interest-adjusted amount, b3 not at all
	if want := dec("2056.90"); !stats.OpenAmount.Equal(want) {
		t.Fatalf("expected open amount %s, got %s", want, stats.OpenAmount)
	}
	if want := dec("856.40"); !stats.OverdueAmount.Equal(want) {
		t.Fatalf("expected overdue amount %s, got %s", want, stats.OverdueAmount)
	}
	if stats.ByStatus[domain.BillingOpen] != 1 || stats.ByStatus[domain.BillingPaid] != 1 {
		t.Fatalf("unexpected status breakdown %+v", stats.ByStatus)
	}
}

func TestFranchiseeStats_SumsMonthlyDraw(t *testing.T) {
	m := New(&memStore{}, zerolog.Nop())
	ctx := context.Background()

	draw1, draw2 := dec("5000.00"), dec("3250.75")
	m.Upsert(ctx, domain.Franchisee{ID: "f1", Role: domain.RolePrincipal, Active: true, MonthlyDraw: &draw1})
	m.Upsert(ctx, domain.Franchisee{ID: "f2", Role: domain.RolePartner, Active: true, MonthlyDraw: &draw2})
	m.Upsert(ctx, domain.Franchisee{ID: "f3", Role: domain.RoleInvestor})

	stats := m.FranchiseeStats()
	if stats.Total != 3 || stats.Active != 2 {
		t.Fatalf("unexpected counts %+v", stats)
	}
	if want := dec("8250.75"); !stats.MonthlyDrawTotal.Equal(want) {
		t.Fatalf("expected draw total %s, got %s", want, stats.MonthlyDrawTotal)
	}
	if stats.ByRole[domain.RolePrincipal] != 1 {
		t.Fatalf("unexpected role breakdown %+v", stats.ByRole)
	}
}

func TestUnitStats_Breakdown(t *testing.T) {
	m := New(&memStore{}, zerolog.Nop())
	ctx := context.Background()

	m.Upsert(ctx, domain.Unit{ID: "u1", Status: domain.UnitActive, MultiFranchisee: true})
	m.Upsert(ctx, domain.Unit{ID: "u2", Status: domain.UnitActive})
	m.Upsert(ctx, domain.Unit{ID: "u3", Status: domain.UnitSuspended})

	stats := m.UnitStats()
	if stats.Total != 3 || stats.MultiFranchisee != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if stats.ByStatus[domain.UnitActive] != 2 || stats.ByStatus[domain.UnitSuspended] != 1 {
		t.Fatalf("unexpected status breakdown %+v", stats.ByStatus)
	}
}

func TestStats_DispatchByKind(t *testing.T) {
	m := New(&memStore{}, zerolog.Nop())
	ctx := context.Background()
	m.Upsert(ctx, domain.CommunicationLog{ID: "c1", Channel: "email"})
	m.Upsert(ctx, domain.CommunicationLog{ID: "c2", Channel: "email"})
	m.Upsert(ctx, domain.CommunicationLog{ID: "c3", Channel: "whatsapp"})

	v, err := m.Stats(domain.KindCommunication)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	stats, ok := v.(CommunicationStatistics)
	if !ok {
		t.Fatalf("unexpected stats type %T", v)
	}
	if stats.ByChannel["email"] != 2 || stats.ByChannel["whatsapp"] != 1 {
		t.Fatalf("unexpected channel breakdown %+v", stats.ByChannel)
	}

	if _, err := m.Stats(domain.EntityKind("bogus")); err == nil {
		t.Fatalf("expected unknown kind rejected")
	}
}
