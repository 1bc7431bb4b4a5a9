package controller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RainCode98/simbiz101/internal/company/catalog"
	e "github.com/RainCode98/simbiz101/internal/company/errors"
	"github.com/RainCode98/simbiz101/internal/company/events"
	"github.com/RainCode98/simbiz101/internal/company/models"
	"github.com/RainCode98/simbiz101/internal/company/planner"
	"github.com/RainCode98/simbiz101/internal/company/progress"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// takenTemplates returns the templates the company already started or
// completed. Each template can be taken once per company.
func (s *CompanyService) takenTemplates(ctx context.Context, companyID uuid.UUID) (map[string]bool, error) {
	projects, err := s.repo.ListProjects(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	taken := make(map[string]bool, len(projects))
	for _, p := range projects {
		taken[p.TemplateID] = true
	}
	return taken, nil
}

// ListAvailableProjects lists the catalog entries the company can still take.
func (s *CompanyService) ListAvailableProjects(ctx context.Context, companyID uuid.UUID) ([]models.ProjectTemplate, error) {
	if _, err := s.GetCompany(ctx, companyID); err != nil {
		return nil, err
	}
	taken, err := s.takenTemplates(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return catalog.Available(taken), nil
}

// StartProject commits a team to a catalog project. The schedule and bonus
// are fixed here; the team is assigned atomically with the project.
func (s *CompanyService) StartProject(ctx context.Context, companyID uuid.UUID, templateID string, employeeIDs []uuid.UUID) (*models.Project, error) {
	if companyID == uuid.Nil {
		return nil, fmt.Errorf("%w: invalid company ID", e.ErrInvalidInput)
	}
	if templateID == "" {
		return nil, fmt.Errorf("%w: template ID is required", e.ErrInvalidInput)
	}
	if len(employeeIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one employee is required", e.ErrInvalidInput)
	}
	seen := make(map[uuid.UUID]bool, len(employeeIDs))
	for _, id := range employeeIDs {
		if id == uuid.Nil || seen[id] {
			return nil, fmt.Errorf("%w: invalid or repeated employee ID %s", e.ErrInvalidInput, id)
		}
		seen[id] = true
	}

	tpl, ok := catalog.Get(templateID)
	if !ok {
		return nil, fmt.Errorf("%w: project template %s", e.ErrNotFound, templateID)
	}
	company, err := s.GetCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	team := make([]models.Employee, 0, len(employeeIDs))
	for _, id := range employeeIDs {
		emp, err := s.repo.GetEmployee(ctx, id)
		if err != nil {
			if errors.Is(err, e.ErrNotFound) {
				return nil, fmt.Errorf("%w: employee %s", e.ErrNotFound, id)
			}
			return nil, fmt.Errorf("failed to get employee: %w", err)
		}
		if emp.CompanyID != company.ID {
			return nil, fmt.Errorf("%w: employee %s", e.ErrNotFound, id)
		}
		if emp.Assigned() {
			return nil, fmt.Errorf("%w: employee %s is already on a project", e.ErrStateConflict, id)
		}
		team = append(team, *emp)
	}

	taken, err := s.takenTemplates(ctx, company.ID)
	if err != nil {
		return nil, err
	}
	if taken[tpl.ID] {
		return nil, fmt.Errorf("%w: project %s was already taken", e.ErrStateConflict, tpl.ID)
	}

	schedule, err := planner.Plan(tpl, team, s.now())
	if err != nil {
		return nil, err
	}

	now := schedule.StartTime
	project := &models.Project{
		ID:              uuid.New(),
		CompanyID:       company.ID,
		TemplateID:      tpl.ID,
		Name:            tpl.Name,
		Status:          models.StatusInProgress,
		BaseReward:      tpl.BaseReward,
		Bonus:           schedule.Bonus,
		AmountPaid:      decimal.Zero,
		Progress:        0,
		StartTime:       schedule.StartTime,
		EndTime:         schedule.EndTime.Truncate(time.Microsecond),
		Deadline:        schedule.Deadline,
		LastPaymentTime: schedule.StartTime,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.CreateProject(ctx, project, employeeIDs); err != nil {
		if errors.Is(err, e.ErrStateConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.logger.Info("project started",
		zap.String("company_id", company.ID.String()),
		zap.String("project_id", project.ID.String()),
		zap.String("template_id", tpl.ID),
		zap.Float64("skill_factor", schedule.SkillFactor),
		zap.Duration("duration", schedule.ActualDuration),
		zap.String("bonus", schedule.Bonus.String()),
	)
	s.producer.Produce(events.ProjectStarted, company.ID, project)
	return project, nil
}

// CompleteProject closes a project on request, paying whatever is still owed
// on its total reward. It may be called before the project is due.
func (s *CompanyService) CompleteProject(ctx context.Context, companyID, projectID uuid.UUID) (*models.CompletionResult, error) {
	if companyID == uuid.Nil || projectID == uuid.Nil {
		return nil, fmt.Errorf("%w: invalid ID", e.ErrInvalidInput)
	}
	project, err := s.repo.GetProject(ctx, projectID)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	if project.CompanyID != companyID {
		return nil, fmt.Errorf("%w: project %s", e.ErrNotFound, projectID)
	}
	if !project.InProgress() {
		return nil, e.ErrNotInProgress
	}

	result, err := s.reconciler.Complete(ctx, projectID, s.now())
	if err != nil {
		return nil, err
	}
	s.producer.Produce(events.ProjectCompleted, companyID, result)
	return result, nil
}

// GetActiveProjects settles the company's running projects and returns them
// with their live progress. Projects that became due are completed on the way
// and reported separately.
func (s *CompanyService) GetActiveProjects(ctx context.Context, companyID uuid.UUID) (*models.ActiveProjects, error) {
	if _, err := s.GetCompany(ctx, companyID); err != nil {
		return nil, err
	}

	now := s.now()
	settled, err := s.settleCompany(ctx, companyID, now)
	if err != nil {
		return nil, err
	}

	running, err := s.repo.ListProjects(ctx, companyID, models.StatusInProgress)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	views := make([]models.ProjectView, 0, len(running))
	for _, p := range running {
		team, err := s.repo.ListProjectEmployees(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list project employees: %w", err)
		}
		views = append(views, models.ProjectView{
			Project:       p,
			LiveProgress:  progress.Calculate(p.StartTime, p.EndTime, now),
			TimeRemaining: progress.Remaining(p.EndTime, now),
			Overdue:       progress.Overdue(p.Deadline, p.EndTime, now),
			Employees:     team,
		})
	}

	company, err := s.repo.GetCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh company: %w", err)
	}
	return &models.ActiveProjects{
		Company:   *company,
		Projects:  views,
		Completed: settled.Completed,
	}, nil
}
