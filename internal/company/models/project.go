package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProjectStatus is the lifecycle state of a started project. Templates that
// were never started are not persisted and have no status.
type ProjectStatus string

const (
	StatusInProgress ProjectStatus = "in_progress"
	StatusCompleted  ProjectStatus = "completed"
)

// Project is a started project and the payment checkpoint attached to it.
type Project struct {
	ID         uuid.UUID       `json:"id"`
	CompanyID  uuid.UUID       `json:"company_id"`
	TemplateID string          `json:"template_id"`
	Name       string          `json:"name"`
	Status     ProjectStatus   `json:"status"`
	BaseReward decimal.Decimal `json:"base_reward"`
	// Bonus is fixed when the project starts.
	Bonus decimal.Decimal `json:"bonus"`
	// AmountPaid never exceeds BaseReward+Bonus.
	AmountPaid decimal.Decimal `json:"amount_paid"`
	// Progress is the persisted completion percentage, 0 to 100.
	Progress  float64   `json:"progress"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Deadline  time.Time `json:"deadline"`
	// LastPaymentTime is the checkpoint up to which the reward was streamed.
	LastPaymentTime time.Time `json:"last_payment_time"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TotalReward is the full amount a project pays over its lifetime.
func (p *Project) TotalReward() decimal.Decimal {
	return p.BaseReward.Add(p.Bonus)
}

// InProgress reports whether the project can still be paid or completed.
func (p *Project) InProgress() bool {
	return p.Status == StatusInProgress
}

// Checkpoint returns the payment checkpoint, defaulting to the start time.
func (p *Project) Checkpoint() time.Time {
	if p.LastPaymentTime.IsZero() {
		return p.StartTime
	}
	return p.LastPaymentTime
}

// ProjectTemplate is an entry of the static project catalog.
type ProjectTemplate struct {
	ID                string
	Name              string
	Description       string
	Type              string
	RequiredSkills    map[Role]int
	RequiredEmployees int
	BaseReward        decimal.Decimal
	EstimatedMinutes  int
	Difficulty        string
}
