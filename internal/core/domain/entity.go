package domain

// EntityKind identifies one of the mirrored remote collections.
type EntityKind string

const (
	KindUnit          EntityKind = "unit"
	KindFranchisee    EntityKind = "franchisee"
	KindBilling       EntityKind = "billing"
	KindStaff         EntityKind = "staff"
	KindCommunication EntityKind = "communication"
)

// AllKinds returns every mirrored kind in the fixed order used by a full
// sync. Progress reporting and commit both follow this order.
func AllKinds() []EntityKind {
	return []EntityKind{KindUnit, KindFranchisee, KindBilling, KindStaff, KindCommunication}
}

// ParseEntityKind validates a kind received from the outside (URL segment,
// push payload).
func ParseEntityKind(s string) (EntityKind, error) {
	switch EntityKind(s) {
	case KindUnit, KindFranchisee, KindBilling, KindStaff, KindCommunication:
		return EntityKind(s), nil
	}
	return "", ErrUnknownEntityKind
}

// Record is implemented by every mirrored entity. The id is the merge key:
// each collection holds at most one record per id.
type Record interface {
	EntityID() string
	EntityKind() EntityKind
}
