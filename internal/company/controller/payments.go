package controller

import (
	"context"
	"errors"
	"fmt"
	"time"

	e "github.com/RainCode98/simbiz101/internal/company/errors"
	"github.com/RainCode98/simbiz101/internal/company/events"
	"github.com/RainCode98/simbiz101/internal/company/models"
	"github.com/RainCode98/simbiz101/internal/company/payment"
	"github.com/RainCode98/simbiz101/internal/company/progress"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// settle brings one project up to date at now. Every caller that moves money
// for a running project goes through here: the minute sweep, ProcessPayments
// and GetActiveProjects. The earned reward is streamed first, then the
// project is completed if it is due.
func (s *CompanyService) settle(ctx context.Context, p *models.Project, now time.Time, out *models.Settlement) error {
	pay, err := s.streamer.Stream(ctx, p.ID, now)
	if err != nil {
		if errors.Is(err, e.ErrNotInProgress) {
			return nil
		}
		return err
	}
	if pay != nil {
		out.Payments = append(out.Payments, *pay)
		s.producer.Produce(events.ProjectPaid, p.CompanyID, pay)
	}

	if !progress.Due(p.EndTime, now) {
		if pay == nil {
			// Keep the persisted progress moving between payments.
			if err := s.repo.UpdateProgress(ctx, p.ID, progress.Calculate(p.StartTime, p.EndTime, now)); err != nil {
				return fmt.Errorf("update progress of %s: %w", p.ID, err)
			}
		}
		return nil
	}

	result, err := s.reconciler.Complete(ctx, p.ID, now)
	if err != nil {
		if errors.Is(err, e.ErrNotInProgress) {
			return nil
		}
		return err
	}
	out.Completed = append(out.Completed, *result)
	s.producer.Produce(events.ProjectCompleted, p.CompanyID, result)
	return nil
}

// settleProjects settles each project independently. Failures are logged and
// joined; the remaining projects are still settled.
func (s *CompanyService) settleProjects(ctx context.Context, projects []models.Project, now time.Time) (*models.Settlement, error) {
	out := &models.Settlement{}
	var errs []error
	for i := range projects {
		p := &projects[i]
		if err := s.settle(ctx, p, now, out); err != nil {
			s.logger.Error("failed to settle project",
				zap.String("project_id", p.ID.String()),
				zap.String("company_id", p.CompanyID.String()),
				zap.Error(err),
			)
			errs = append(errs, err)
		}
	}
	return out, errors.Join(errs...)
}

func (s *CompanyService) settleCompany(ctx context.Context, companyID uuid.UUID, now time.Time) (*models.Settlement, error) {
	projects, err := s.repo.ListProjects(ctx, companyID, models.StatusInProgress)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	// Per-project failures were logged and are retried on the next pass;
	// readers still get what was settled.
	out, _ := s.settleProjects(ctx, projects, now)
	return out, nil
}

// SettleAll settles every running project of every company. It is the
// payment tick of the scheduler.
func (s *CompanyService) SettleAll(ctx context.Context) error {
	projects, err := s.repo.ListProjects(ctx, uuid.Nil, models.StatusInProgress)
	if err != nil {
		return fmt.Errorf("failed to list projects: %w", err)
	}
	out, err := s.settleProjects(ctx, projects, s.now())
	if len(out.Payments) > 0 || len(out.Completed) > 0 {
		s.logger.Info("payment sweep",
			zap.Int("projects", len(projects)),
			zap.Int("payments", len(out.Payments)),
			zap.Int("completed", len(out.Completed)),
		)
	}
	return err
}

// ProcessPayments settles the company's running projects now.
func (s *CompanyService) ProcessPayments(ctx context.Context, companyID uuid.UUID) (*models.Settlement, error) {
	if _, err := s.GetCompany(ctx, companyID); err != nil {
		return nil, err
	}
	return s.settleCompany(ctx, companyID, s.now())
}

// GetPaymentStatus reports the streaming state of the company's running
// projects without paying anything.
func (s *CompanyService) GetPaymentStatus(ctx context.Context, companyID uuid.UUID) ([]models.PaymentStatus, error) {
	if _, err := s.GetCompany(ctx, companyID); err != nil {
		return nil, err
	}
	projects, err := s.repo.ListProjects(ctx, companyID, models.StatusInProgress)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	now := s.now()
	out := make([]models.PaymentStatus, 0, len(projects))
	for i := range projects {
		out = append(out, payment.Status(&projects[i], now))
	}
	return out, nil
}

// DeductSalaries charges one hour of salaries. With a company ID only that
// company is charged; with uuid.Nil every company that has employees is.
func (s *CompanyService) DeductSalaries(ctx context.Context, companyID uuid.UUID) ([]models.DeductionEvent, error) {
	now := s.now()
	if companyID != uuid.Nil {
		event, err := s.deductor.Deduct(ctx, companyID, now)
		if err != nil {
			return nil, err
		}
		s.publishDeduction(event)
		return []models.DeductionEvent{*event}, nil
	}
	return s.deductAll(ctx, now)
}

// DeductAll is the payroll tick of the scheduler.
func (s *CompanyService) DeductAll(ctx context.Context) error {
	_, err := s.deductAll(ctx, s.now())
	return err
}

func (s *CompanyService) deductAll(ctx context.Context, now time.Time) ([]models.DeductionEvent, error) {
	companies, err := s.repo.ListCompanies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}

	out := make([]models.DeductionEvent, 0, len(companies))
	var errs []error
	for _, c := range companies {
		event, err := s.deductor.Deduct(ctx, c.ID, now)
		if err != nil {
			s.logger.Error("failed to deduct salaries",
				zap.String("company_id", c.ID.String()),
				zap.Error(err),
			)
			errs = append(errs, err)
			continue
		}
		if event.EmployeeCount == 0 {
			continue
		}
		s.publishDeduction(event)
		out = append(out, *event)
	}
	return out, errors.Join(errs...)
}

func (s *CompanyService) publishDeduction(event *models.DeductionEvent) {
	if event.EmployeeCount == 0 {
		return
	}
	s.producer.Produce(events.SalaryDeducted, event.CompanyID, event)
}
