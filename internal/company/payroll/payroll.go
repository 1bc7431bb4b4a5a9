// Package payroll charges companies for the salaries of their staff.
package payroll

import (
	"context"
	"fmt"
	"time"

	"github.com/RainCode98/simbiz101/internal/company/metrics"
	"github.com/RainCode98/simbiz101/internal/company/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// HoursPerMonth converts a monthly salary to an hourly cost.
const HoursPerMonth = 730

const ratePlaces = 6

type Store interface {
	GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error)
	ListEmployees(ctx context.Context, companyID uuid.UUID) ([]models.Employee, error)
	ApplyDeduction(ctx context.Context, companyID uuid.UUID, amount decimal.Decimal) (*models.Company, error)
}

type Deductor struct {
	store  Store
	logger *zap.Logger
}

func NewDeductor(store Store, logger *zap.Logger) *Deductor {
	return &Deductor{
		store:  store,
		logger: logger.Named("salary_deductor"),
	}
}

// HourlyRate is the hourly cost of a monthly salary.
func HourlyRate(salary decimal.Decimal) decimal.Decimal {
	return salary.DivRound(decimal.NewFromInt(HoursPerMonth), ratePlaces)
}

// HourlyCost is the hourly cost of the whole payroll. Salaries are summed
// before the division so the total is rounded once.
func HourlyCost(employees []models.Employee) decimal.Decimal {
	monthly := decimal.Zero
	for i := range employees {
		monthly = monthly.Add(employees[i].Salary)
	}
	return HourlyRate(monthly)
}

// Deduct charges one hour of salaries to the company. A company without
// employees is left untouched and reported with a zero amount. The balance
// may go negative.
func (d *Deductor) Deduct(ctx context.Context, companyID uuid.UUID, now time.Time) (*models.DeductionEvent, error) {
	company, err := d.store.GetCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("deduct salaries for %s: %w", companyID, err)
	}
	employees, err := d.store.ListEmployees(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("list employees of %s: %w", companyID, err)
	}

	event := &models.DeductionEvent{
		CompanyID:     company.ID,
		CompanyName:   company.Name,
		Amount:        decimal.Zero,
		NewBalance:    company.Money,
		EmployeeCount: len(employees),
		At:            now,
	}
	if len(employees) == 0 {
		return event, nil
	}

	amount := HourlyCost(employees)
	updated, err := d.store.ApplyDeduction(ctx, companyID, amount)
	if err != nil {
		return nil, fmt.Errorf("apply deduction for %s: %w", companyID, err)
	}
	metrics.RecordDeduction(amount)

	event.Amount = amount
	event.NewBalance = updated.Money
	d.logger.Info("salaries deducted",
		zap.String("company_id", companyID.String()),
		zap.String("amount", amount.String()),
		zap.String("balance", updated.Money.String()),
		zap.Int("employees", len(employees)),
	)
	if updated.Money.IsNegative() {
		d.logger.Warn("company balance is negative",
			zap.String("company_id", companyID.String()),
			zap.String("balance", updated.Money.String()))
	}
	return event, nil
}
