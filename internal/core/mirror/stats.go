package mirror

import (
	"github.com/shopspring/decimal"

	"github.com/franqnet/console-sync/internal/core/domain"
)

// Derived statistics. Every function here is a pure read of the current
// collection contents; none of them ever triggers a fetch.

// UnitStatistics aggregates the unit collection.
type UnitStatistics struct {
	Total           int                       `json:"total"`
	ByStatus        map[domain.UnitStatus]int `json:"by_status"`
	MultiFranchisee int                       `json:"multi_franchisee"`
}

// FranchiseeStatistics aggregates the franchisee collection.
type FranchiseeStatistics struct {
	Total            int                           `json:"total"`
	Active           int                           `json:"active"`
	ByRole           map[domain.FranchiseeRole]int `json:"by_role"`
	MonthlyDrawTotal decimal.Decimal               `json:"monthly_draw_total"`
}

// BillingStatistics aggregates the billing collection.
type BillingStatistics struct {
	Total         int                          `json:"total"`
	ByStatus      map[domain.BillingStatus]int `json:"by_status"`
	BoardVisible  int                          `json:"board_visible"`
	OpenAmount    decimal.Decimal              `json:"open_amount"`
	OverdueAmount decimal.Decimal              `json:"overdue_amount"`
}

// StaffStatistics aggregates the internal user collection.
type StaffStatistics struct {
	Total  int                      `json:"total"`
	Active int                      `json:"active"`
	ByRole map[domain.StaffRole]int `json:"by_role"`
}

// CommunicationStatistics aggregates the communication log collection.
type CommunicationStatistics struct {
	Total     int            `json:"total"`
	ByChannel map[string]int `json:"by_channel"`
}

// UnitStats derives counts from the current unit collection.
func (m *Mirror) UnitStats() UnitStatistics {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stats := UnitStatistics{
		Total:    len(m.units),
		ByStatus: make(map[domain.UnitStatus]int),
	}
	for _, u := range m.units {
		stats.ByStatus[u.Status]++
		if u.MultiFranchisee {
			stats.MultiFranchisee++
		}
	}
	return stats
}

// FranchiseeStats derives counts and draw totals from the current
// franchisee collection.
func (m *Mirror) FranchiseeStats() FranchiseeStatistics {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stats := FranchiseeStatistics{
		Total:  len(m.franchisees),
		ByRole: make(map[domain.FranchiseeRole]int),
	}
	for _, f := range m.franchisees {
		stats.ByRole[f.Role]++
		if f.Active {
			stats.Active++
		}
		if f.MonthlyDraw != nil {
			stats.MonthlyDrawTotal = stats.MonthlyDrawTotal.Add(*f.MonthlyDraw)
		}
	}
	return stats
}

// BillingStats derives counts and open/overdue amount sums from the current
// billing collection. Amounts use the updated (interest-adjusted) value when
// the remote side has computed one, the base amount otherwise.
func (m *Mirror) BillingStats() BillingStatistics {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stats := BillingStatistics{
		Total:    len(m.billing),
		ByStatus: make(map[domain.BillingStatus]int),
	}
	for _, b := range m.billing {
		stats.ByStatus[b.Status]++
		if _, visible := domain.BoardColumnFor(b.Status); !visible {
			continue
		}
		stats.BoardVisible++
		amount := effectiveAmount(b)
		stats.OpenAmount = stats.OpenAmount.Add(amount)
		if b.Status == domain.BillingOverdue {
			stats.OverdueAmount = stats.OverdueAmount.Add(amount)
		}
	}
	return stats
}

// StaffStats derives counts from the current internal user collection.
func (m *Mirror) StaffStats() StaffStatistics {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stats := StaffStatistics{
		Total:  len(m.staff),
		ByRole: make(map[domain.StaffRole]int),
	}
	for _, u := range m.staff {
		stats.ByRole[u.Role]++
		if u.Active {
			stats.Active++
		}
	}
	return stats
}

// CommunicationStats derives counts from the current communication log
// collection.
func (m *Mirror) CommunicationStats() CommunicationStatistics {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stats := CommunicationStatistics{
		Total:     len(m.communications),
		ByChannel: make(map[string]int),
	}
	for _, c := range m.communications {
		stats.ByChannel[c.Channel]++
	}
	return stats
}

// Stats returns the aggregate for kind as a JSON-serializable value.
func (m *Mirror) Stats(kind domain.EntityKind) (any, error) {
	switch kind {
	case domain.KindUnit:
		return m.UnitStats(), nil
	case domain.KindFranchisee:
		return m.FranchiseeStats(), nil
	case domain.KindBilling:
		return m.BillingStats(), nil
	case domain.KindStaff:
		return m.StaffStats(), nil
	case domain.KindCommunication:
		return m.CommunicationStats(), nil
	}
	return nil, domain.ErrUnknownEntityKind
}

func effectiveAmount(b domain.BillingRecord) decimal.Decimal {
	if !b.UpdatedAmount.IsZero() {
		return b.UpdatedAmount
	}
	return b.Amount
}
