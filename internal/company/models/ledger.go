package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment is an incremental payment to be applied to the ledger. The store
// applies it only while the project checkpoint still equals PrevCheckpoint.
type Payment struct {
	ProjectID      uuid.UUID
	CompanyID      uuid.UUID
	Amount         decimal.Decimal
	PrevCheckpoint time.Time
	NextCheckpoint time.Time
	Progress       float64
}

// Completion is the final settlement of a project. The store applies it only
// while the project is in progress and its checkpoint equals Checkpoint.
type Completion struct {
	ProjectID    uuid.UUID
	CompanyID    uuid.UUID
	FinalPayment decimal.Decimal
	TotalReward  decimal.Decimal
	Checkpoint   time.Time
}

// PaymentEvent describes one applied streamer payment.
type PaymentEvent struct {
	ProjectID        uuid.UUID       `json:"project_id"`
	ProjectName      string          `json:"project_name"`
	CompanyID        uuid.UUID       `json:"company_id"`
	Amount           decimal.Decimal `json:"amount"`
	TotalPaid        decimal.Decimal `json:"total_paid"`
	MinutesProcessed int64           `json:"minutes_processed"`
	Checkpoint       time.Time       `json:"checkpoint"`
	Progress         float64         `json:"progress"`
}

// CompletionResult describes a reconciled project.
type CompletionResult struct {
	ProjectID         uuid.UUID       `json:"project_id"`
	ProjectName       string          `json:"project_name"`
	CompanyID         uuid.UUID       `json:"company_id"`
	FinalPayment      decimal.Decimal `json:"final_payment"`
	TotalReward       decimal.Decimal `json:"total_reward"`
	AmountAlreadyPaid decimal.Decimal `json:"amount_already_paid"`
	BaseReward        decimal.Decimal `json:"base_reward"`
	Bonus             decimal.Decimal `json:"bonus"`
	CompletedAt       time.Time       `json:"completed_at"`
}

// DeductionEvent describes one payroll deduction for a company.
type DeductionEvent struct {
	CompanyID     uuid.UUID       `json:"company_id"`
	CompanyName   string          `json:"company_name"`
	Amount        decimal.Decimal `json:"amount"`
	NewBalance    decimal.Decimal `json:"new_balance"`
	EmployeeCount int             `json:"employee_count"`
	At            time.Time       `json:"at"`
}

// ProjectView is a project as seen by a reader at a given instant.
type ProjectView struct {
	Project       Project
	LiveProgress  float64
	TimeRemaining time.Duration
	Overdue       bool
	Employees     []Employee
}

// PaymentStatus summarizes the streaming state of an in-progress project.
type PaymentStatus struct {
	ProjectID       uuid.UUID
	ProjectName     string
	BaseReward      decimal.Decimal
	AmountPaid      decimal.Decimal
	Remaining       decimal.Decimal
	PaymentProgress float64
	RatePerMinute   decimal.Decimal
	NextPaymentIn   time.Duration
	LastPaymentTime time.Time
}

// Settlement is what one settle pass over a company's projects paid out.
type Settlement struct {
	Payments  []PaymentEvent
	Completed []CompletionResult
}

// ActiveProjects is a company's running projects after settlement, together
// with the projects that settlement completed and the refreshed company.
type ActiveProjects struct {
	Company   Company
	Projects  []ProjectView
	Completed []CompletionResult
}
