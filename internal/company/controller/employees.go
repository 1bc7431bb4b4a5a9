package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"

	e "github.com/RainCode98/simbiz101/internal/company/errors"
	"github.com/RainCode98/simbiz101/internal/company/events"
	"github.com/RainCode98/simbiz101/internal/company/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Hire describes a new employee. Salary is optional and defaults to the
// role's standard salary.
type Hire struct {
	CompanyID uuid.UUID
	Name      string
	Role      models.Role
	Skill     int
	Salary    *decimal.Decimal
}

func (h Hire) validate() error {
	if h.CompanyID == uuid.Nil {
		return fmt.Errorf("%w: invalid company ID", e.ErrInvalidInput)
	}
	if strings.TrimSpace(h.Name) == "" {
		return fmt.Errorf("%w: employee name is required", e.ErrInvalidInput)
	}
	if !h.Role.Valid() {
		return fmt.Errorf("%w: unknown role %q", e.ErrInvalidInput, h.Role)
	}
	if h.Skill < models.MinSkill || h.Skill > models.MaxSkill {
		return fmt.Errorf("%w: skill must be between %d and %d", e.ErrInvalidInput, models.MinSkill, models.MaxSkill)
	}
	if h.Salary != nil && !h.Salary.IsPositive() {
		return fmt.Errorf("%w: salary must be positive", e.ErrInvalidInput)
	}
	return nil
}

// HireEmployee adds an employee to a company. Companies in debt cannot hire.
func (s *CompanyService) HireEmployee(ctx context.Context, h Hire) (*models.Employee, error) {
	if err := h.validate(); err != nil {
		return nil, err
	}

	company, err := s.GetCompany(ctx, h.CompanyID)
	if err != nil {
		return nil, err
	}
	if !company.CanHire() {
		return nil, e.ErrNegativeBalance
	}

	salary := h.Role.DefaultSalary()
	if h.Salary != nil {
		salary = *h.Salary
	}
	emp := &models.Employee{
		ID:        uuid.New(),
		CompanyID: company.ID,
		Name:      strings.TrimSpace(h.Name),
		Role:      h.Role,
		Skill:     h.Skill,
		Salary:    salary,
		CreatedAt: s.now(),
	}
	if err := s.repo.CreateEmployee(ctx, emp); err != nil {
		return nil, fmt.Errorf("failed to create employee: %w", err)
	}

	s.logger.Info("employee hired",
		zap.String("company_id", company.ID.String()),
		zap.String("employee_id", emp.ID.String()),
		zap.String("role", string(emp.Role)),
	)
	s.producer.Produce(events.EmployeeHired, company.ID, emp)
	return emp, nil
}

// FireEmployee removes an employee who is not working on a project.
func (s *CompanyService) FireEmployee(ctx context.Context, companyID, employeeID uuid.UUID) error {
	if companyID == uuid.Nil || employeeID == uuid.Nil {
		return fmt.Errorf("%w: invalid ID", e.ErrInvalidInput)
	}
	if err := s.repo.DeleteEmployee(ctx, companyID, employeeID); err != nil {
		if errors.Is(err, e.ErrNotFound) || errors.Is(err, e.ErrStateConflict) {
			return err
		}
		return fmt.Errorf("failed to delete employee: %w", err)
	}

	s.producer.Produce(events.EmployeeFired, companyID, map[string]string{
		"employee_id": employeeID.String(),
	})
	return nil
}

func (s *CompanyService) ListEmployees(ctx context.Context, companyID uuid.UUID) ([]models.Employee, error) {
	if _, err := s.GetCompany(ctx, companyID); err != nil {
		return nil, err
	}
	list, err := s.repo.ListEmployees(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return list, nil
}
