package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillingStatus represents the lifecycle state of a charge owed by a unit.
type BillingStatus string

const (
	BillingPending    BillingStatus = "pending"
	BillingOpen       BillingStatus = "open"
	BillingOverdue    BillingStatus = "overdue"
	BillingNegotiated BillingStatus = "negotiated"
	BillingPaid       BillingStatus = "paid"
	BillingCancelled  BillingStatus = "cancelled"
	BillingLegal      BillingStatus = "legal"
)

// BoardColumn is the kanban column a billing record sits in. Only records in
// an open lifecycle status are visible on the board; paid and cancelled
// records never appear.
type BoardColumn string

const (
	ColumnPending    BoardColumn = "pending"
	ColumnOpen       BoardColumn = "open"
	ColumnOverdue    BoardColumn = "overdue"
	ColumnNegotiated BoardColumn = "negotiated"
	ColumnLegal      BoardColumn = "legal"
)

// BoardColumns returns the board columns in display order.
func BoardColumns() []BoardColumn {
	return []BoardColumn{ColumnPending, ColumnOpen, ColumnOverdue, ColumnNegotiated, ColumnLegal}
}

// BoardColumnFor maps a lifecycle status to its board column. The second
// return value is false for statuses that are not board-visible.
func BoardColumnFor(s BillingStatus) (BoardColumn, bool) {
	switch s {
	case BillingPending:
		return ColumnPending, true
	case BillingOpen:
		return ColumnOpen, true
	case BillingOverdue:
		return ColumnOverdue, true
	case BillingNegotiated:
		return ColumnNegotiated, true
	case BillingLegal:
		return ColumnLegal, true
	}
	return "", false
}

// ParseBoardColumn validates a column name received from a client.
func ParseBoardColumn(s string) (BoardColumn, bool) {
	for _, c := range BoardColumns() {
		if BoardColumn(s) == c {
			return c, true
		}
	}
	return "", false
}

// BillingRecord is a charge owed by a unit, mirrored from the billing system.
// UpdatedAmount carries the value after interest and penalty have been
// applied remotely; the calculation itself happens outside this system.
type BillingRecord struct {
	ID            string          `json:"id"`
	UnitID        string          `json:"unit_id"`
	Amount        decimal.Decimal `json:"amount"`
	UpdatedAmount decimal.Decimal `json:"updated_amount"`
	DueDate       time.Time       `json:"due_date"`
	Status        BillingStatus   `json:"status"`
	Notes         string          `json:"notes,omitempty"`
	BoardStatus   BoardColumn     `json:"board_status,omitempty"` // kanban tag, used only by the board view
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (b BillingRecord) EntityID() string       { return b.ID }
func (b BillingRecord) EntityKind() EntityKind { return KindBilling }

// Column resolves the record's effective board column: the explicit kanban
// tag when present, otherwise the column mapped from the lifecycle status.
// ok is false when the record is not board-visible at all.
func (b BillingRecord) Column() (BoardColumn, bool) {
	mapped, ok := BoardColumnFor(b.Status)
	if !ok {
		return "", false
	}
	if b.BoardStatus != "" {
		if c, valid := ParseBoardColumn(string(b.BoardStatus)); valid {
			return c, true
		}
	}
	return mapped, true
}
