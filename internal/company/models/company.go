// Package models defines the core domain models of the simulation:
// companies, the employees they pay and the projects that pay them.
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Company defines the domain model for a company and its financial ledger.
type Company struct {
	// ID is the unique identifier for the company.
	ID uuid.UUID `json:"id"`
	// Name is the company’s display name.
	Name string `json:"name"`
	// Country is informational only; every currency is worth one reference unit.
	Country string `json:"country"`
	// Money is the current balance. It has no floor and may go negative.
	Money decimal.Decimal `json:"money"`
	// Revenue accumulates every payment received. It never decreases.
	Revenue decimal.Decimal `json:"revenue"`
	// Expenses accumulates every salary deduction. It never decreases.
	Expenses decimal.Decimal `json:"expenses"`
	// CreatedAt records the timestamp when the company was created.
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt records the timestamp of the last ledger change.
	UpdatedAt time.Time `json:"updated_at"`
}

// CanHire reports whether the balance allows new hires.
func (c *Company) CanHire() bool {
	return !c.Money.IsNegative()
}
