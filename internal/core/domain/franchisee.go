package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FranchiseeRole describes the kind of rights a franchisee holds in a unit.
type FranchiseeRole string

const (
	RolePrincipal     FranchiseeRole = "principal"
	RoleFamilyPartner FranchiseeRole = "family_partner"
	RoleInvestor      FranchiseeRole = "investor"
	RolePartner       FranchiseeRole = "partner"
)

// Franchisee is a person holding rights in one or more units. The
// unit linkage itself lives in a separate remote collection and is not
// mirrored here.
type Franchisee struct {
	ID          string           `json:"id"`
	TaxID       string           `json:"tax_id"` // legal tax document
	Name        string           `json:"name"`
	Email       string           `json:"email,omitempty"`
	Phone       string           `json:"phone,omitempty"`
	Role        FranchiseeRole   `json:"role"`
	Active      bool             `json:"active"`
	MonthlyDraw *decimal.Decimal `json:"monthly_draw,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func (f Franchisee) EntityID() string       { return f.ID }
func (f Franchisee) EntityKind() EntityKind { return KindFranchisee }
