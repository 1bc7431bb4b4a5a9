package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Role is the job family of an employee. Project templates state their skill
// requirements per role.
type Role string

const (
	Developer Role = "Developer"
	Designer  Role = "Designer"
	Manager   Role = "Manager"
	QA        Role = "QA"
)

const (
	MinSkill = 1
	MaxSkill = 100
)

var defaultSalaries = map[Role]decimal.Decimal{
	Developer: decimal.NewFromInt(3000),
	Designer:  decimal.NewFromInt(2500),
	Manager:   decimal.NewFromInt(4000),
	QA:        decimal.NewFromInt(2000),
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := defaultSalaries[r]
	return ok
}

// DefaultSalary is the monthly salary used when a hire does not state one.
func (r Role) DefaultSalary() decimal.Decimal {
	if s, ok := defaultSalaries[r]; ok {
		return s
	}
	return defaultSalaries[Developer]
}

// Employee is a member of staff drawing a monthly salary.
type Employee struct {
	ID        uuid.UUID `json:"id"`
	CompanyID uuid.UUID `json:"company_id"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	// Skill ranges from MinSkill to MaxSkill.
	Skill int `json:"skill"`
	// Salary is monthly, in reference-currency units.
	Salary decimal.Decimal `json:"salary"`
	// ProjectID is set while the employee is assigned to a project.
	ProjectID *uuid.UUID `json:"project_id"`
	CreatedAt time.Time  `json:"created_at"`
}

// Assigned reports whether the employee currently works on a project.
func (e *Employee) Assigned() bool {
	return e.ProjectID != nil && *e.ProjectID != uuid.Nil
}
