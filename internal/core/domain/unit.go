package domain

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"time"
)

// UnitStatus represents the operating state of a franchise location.
type UnitStatus string

const (
	UnitActive    UnitStatus = "active"
	UnitDeploying UnitStatus = "deploying"
	UnitSuspended UnitStatus = "suspended"
	UnitCancelled UnitStatus = "cancelled"
)

// Unit is an operating franchise location mirrored from the remote source.
type Unit struct {
	ID                    string     `json:"id"`
	Code                  string     `json:"code"` // 4-digit display code, zero-padded, unique
	Name                  string     `json:"name"`
	Address               string     `json:"address"`
	City                  string     `json:"city"`
	State                 string     `json:"state"`
	ZipCode               string     `json:"zip_code"`
	Status                UnitStatus `json:"status"`
	MultiFranchisee       bool       `json:"multi_franchisee"`
	PrincipalFranchiseeID string     `json:"principal_franchisee_id,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

func (u Unit) EntityID() string       { return u.ID }
func (u Unit) EntityKind() EntityKind { return KindUnit }

// NewUnitCode returns a regenerated 4-digit display code in the range
// 0000-9999, zero-padded.
func NewUnitCode() string {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("%04d", time.Now().UnixNano()%10000)
	}
	return fmt.Sprintf("%04d", binary.BigEndian.Uint32(b[:])%10000)
}
