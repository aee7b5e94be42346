package domain

// ChangeOp is the operation carried by a row-level change event.
type ChangeOp string

const (
	OpInsert ChangeOp = "insert"
	OpUpdate ChangeOp = "update"
	OpDelete ChangeOp = "delete"
)

// ChangeEvent is the closed union of push events the reconciliation listener
// can receive. The marker method seals the set so that adding a new event
// kind forces every switch over ChangeEvent to be revisited.
type ChangeEvent interface {
	changeEvent()
}

// BillingRowChange is a row-level change on the billing collection. Record is
// the full new row for insert/update and may be nil for delete, in which case
// RecordID identifies the row to drop.
type BillingRowChange struct {
	Op       ChangeOp
	RecordID string
	Record   *BillingRecord
}

func (BillingRowChange) changeEvent() {}

// UnitBroadcast is a broadcast envelope carrying a unit mutated outside this
// process's write path.
type UnitBroadcast struct {
	Unit Unit
}

func (UnitBroadcast) changeEvent() {}

// FranchiseeBroadcast is a broadcast envelope carrying a franchisee mutated
// outside this process's write path.
type FranchiseeBroadcast struct {
	Franchisee Franchisee
}

func (FranchiseeBroadcast) changeEvent() {}
