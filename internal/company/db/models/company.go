// Package models contains the persistence rows of the ledger, configured to
// work using GORM as the ORM, and their conversions to domain models.
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Company is the ledger row of a company.
type Company struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name      string          `gorm:"size:64;uniqueIndex"`
	Country   string          `gorm:"size:64"`
	Money     decimal.Decimal `gorm:"type:numeric(24,6);not null;default:0"`
	Revenue   decimal.Decimal `gorm:"type:numeric(24,6);not null;default:0"`
	Expenses  decimal.Decimal `gorm:"type:numeric(24,6);not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Employee is the row of a company employee. ProjectID is NULL while the
// employee is unassigned.
type Employee struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CompanyID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name      string          `gorm:"size:128;not null"`
	Role      string          `gorm:"size:32;not null"`
	Skill     int             `gorm:"not null;check:skill >= 1 AND skill <= 100"`
	Salary    decimal.Decimal `gorm:"type:numeric(24,6);not null"`
	ProjectID *uuid.UUID      `gorm:"type:uuid;index"`
	CreatedAt time.Time
}

// Project is the row of a started project.
type Project struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CompanyID       uuid.UUID       `gorm:"type:uuid;not null;index:idx_projects_company_status"`
	TemplateID      string          `gorm:"size:32;not null"`
	Name            string          `gorm:"size:128;not null"`
	Status          string          `gorm:"size:16;not null;index:idx_projects_company_status"`
	BaseReward      decimal.Decimal `gorm:"type:numeric(24,6);not null"`
	Bonus           decimal.Decimal `gorm:"type:numeric(24,6);not null;default:0"`
	AmountPaid      decimal.Decimal `gorm:"type:numeric(24,6);not null;default:0"`
	Progress        float64         `gorm:"not null;default:0"`
	StartTime       time.Time       `gorm:"not null"`
	EndTime         time.Time       `gorm:"not null"`
	Deadline        time.Time       `gorm:"not null"`
	LastPaymentTime time.Time       `gorm:"not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// MoneyPlaces is the scale of every numeric(24,6) money column.
const MoneyPlaces = 6

// AfterFind rounds balances to the column scale. sqlite hands numeric
// columns back as REAL, and rounding restores the decimal that was written.
func (c *Company) AfterFind(*gorm.DB) error {
	c.Money = c.Money.Round(MoneyPlaces)
	c.Revenue = c.Revenue.Round(MoneyPlaces)
	c.Expenses = c.Expenses.Round(MoneyPlaces)
	return nil
}

func (e *Employee) AfterFind(*gorm.DB) error {
	e.Salary = e.Salary.Round(MoneyPlaces)
	return nil
}

func (p *Project) AfterFind(*gorm.DB) error {
	p.BaseReward = p.BaseReward.Round(MoneyPlaces)
	p.Bonus = p.Bonus.Round(MoneyPlaces)
	p.AmountPaid = p.AmountPaid.Round(MoneyPlaces)
	return nil
}
