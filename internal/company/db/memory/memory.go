// Package memory provides an in-memory ledger store with the same semantics
// as the GORM repository. It is used by tests and by the "memory" storage
// driver for local runs.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	e "github.com/RainCode98/simbiz101/internal/company/errors"
	"github.com/RainCode98/simbiz101/internal/company/models"
	"github.com/RainCode98/simbiz101/internal/pkg/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Store struct {
	mu        sync.RWMutex
	companies map[uuid.UUID]*models.Company
	employees map[uuid.UUID]*models.Employee
	projects  map[uuid.UUID]*models.Project
	// seq keeps listings in insertion order, like created_at ordering does
	// for the SQL store.
	seq   map[uuid.UUID]int
	clock int
}

func NewStore() *Store {
	return &Store{
		companies: make(map[uuid.UUID]*models.Company),
		employees: make(map[uuid.UUID]*models.Employee),
		projects:  make(map[uuid.UUID]*models.Project),
		seq:       make(map[uuid.UUID]int),
	}
}

func (s *Store) track(id uuid.UUID) {
	s.clock++
	s.seq[id] = s.clock
}

func (s *Store) CreateCompany(_ context.Context, company *models.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.companies {
		if c.Name == company.Name {
			return e.ErrDuplicateName
		}
	}
	c := *company
	s.companies[c.ID] = &c
	s.track(c.ID)
	return nil
}

func (s *Store) GetCompany(_ context.Context, id uuid.UUID) (*models.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.companies[id]
	if !ok {
		return nil, e.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *Store) ListCompanies(_ context.Context) ([]models.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Company, 0, len(s.companies))
	for _, c := range s.companies {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return s.seq[out[i].ID] < s.seq[out[j].ID] })
	return out, nil
}

func (s *Store) CompanyExistsByName(_ context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.companies {
		if c.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) ApplyDeduction(_ context.Context, companyID uuid.UUID, amount decimal.Decimal) (*models.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.companies[companyID]
	if !ok {
		return nil, e.ErrNotFound
	}
	c.Money = c.Money.Sub(amount)
	c.Expenses = c.Expenses.Add(amount)
	c.UpdatedAt = time.Now().UTC()
	cp := *c
	return &cp, nil
}

func (s *Store) creditLocked(companyID uuid.UUID, amount decimal.Decimal) error {
	c, ok := s.companies[companyID]
	if !ok {
		return fmt.Errorf("%w: company %s", e.ErrNotFound, companyID)
	}
	c.Money = c.Money.Add(amount)
	c.Revenue = c.Revenue.Add(amount)
	c.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *Store) CreateEmployee(_ context.Context, employee *models.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	emp := *employee
	s.employees[emp.ID] = &emp
	s.track(emp.ID)
	return nil
}

func (s *Store) GetEmployee(_ context.Context, id uuid.UUID) (*models.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	emp, ok := s.employees[id]
	if !ok {
		return nil, e.ErrNotFound
	}
	cp := *emp
	return &cp, nil
}

func (s *Store) ListEmployees(_ context.Context, companyID uuid.UUID) ([]models.Employee, error) {
	return s.filterEmployees(func(emp *models.Employee) bool { return emp.CompanyID == companyID }), nil
}

func (s *Store) ListProjectEmployees(_ context.Context, projectID uuid.UUID) ([]models.Employee, error) {
	return s.filterEmployees(func(emp *models.Employee) bool {
		return emp.ProjectID != nil && *emp.ProjectID == projectID
	}), nil
}

func (s *Store) filterEmployees(keep func(*models.Employee) bool) []models.Employee {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Employee, 0)
	for _, emp := range s.employees {
		if keep(emp) {
			out = append(out, *emp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return s.seq[out[i].ID] < s.seq[out[j].ID] })
	return out
}

func (s *Store) DeleteEmployee(_ context.Context, companyID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	emp, ok := s.employees[id]
	if !ok || emp.CompanyID != companyID {
		return e.ErrNotFound
	}
	if emp.Assigned() {
		return fmt.Errorf("%w: employee is assigned to a project", e.ErrStateConflict)
	}
	delete(s.employees, id)
	delete(s.seq, id)
	return nil
}

func (s *Store) CreateProject(_ context.Context, project *models.Project, employeeIDs []uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range employeeIDs {
		emp, ok := s.employees[id]
		if !ok || emp.CompanyID != project.CompanyID || emp.Assigned() {
			return fmt.Errorf("%w: employee already assigned to a project", e.ErrStateConflict)
		}
	}
	p := *project
	s.projects[p.ID] = &p
	s.track(p.ID)
	for _, id := range employeeIDs {
		s.employees[id].ProjectID = utils.Ptr(p.ID)
	}
	return nil
}

func (s *Store) GetProject(_ context.Context, id uuid.UUID) (*models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projects[id]
	if !ok {
		return nil, e.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *Store) ListProjects(_ context.Context, companyID uuid.UUID, statuses ...models.ProjectStatus) ([]models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Project, 0)
	for _, p := range s.projects {
		if companyID != uuid.Nil && p.CompanyID != companyID {
			continue
		}
		if len(statuses) > 0 && !hasStatus(statuses, p.Status) {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].StartTime.Before(out[j].StartTime)
		}
		return s.seq[out[i].ID] < s.seq[out[j].ID]
	})
	return out, nil
}

func hasStatus(statuses []models.ProjectStatus, st models.ProjectStatus) bool {
	for _, s := range statuses {
		if s == st {
			return true
		}
	}
	return false
}

func (s *Store) UpdateProgress(_ context.Context, id uuid.UUID, progress float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok || !p.InProgress() || p.Progress >= progress {
		return nil
	}
	p.Progress = progress
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *Store) ApplyPayment(_ context.Context, pay models.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.guardLocked(pay.ProjectID, pay.PrevCheckpoint)
	if err != nil {
		return err
	}
	if _, ok := s.companies[pay.CompanyID]; !ok {
		return fmt.Errorf("%w: company %s", e.ErrNotFound, pay.CompanyID)
	}
	p.AmountPaid = p.AmountPaid.Add(pay.Amount)
	p.LastPaymentTime = pay.NextCheckpoint
	if pay.Progress > p.Progress {
		p.Progress = pay.Progress
	}
	p.UpdatedAt = time.Now().UTC()
	return s.creditLocked(pay.CompanyID, pay.Amount)
}

func (s *Store) CompleteProject(_ context.Context, c models.Completion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.guardLocked(c.ProjectID, c.Checkpoint)
	if err != nil {
		return err
	}
	if _, ok := s.companies[c.CompanyID]; !ok {
		return fmt.Errorf("%w: company %s", e.ErrNotFound, c.CompanyID)
	}
	p.Status = models.StatusCompleted
	p.Progress = 100
	p.AmountPaid = c.TotalReward
	p.UpdatedAt = time.Now().UTC()
	for _, emp := range s.employees {
		if emp.ProjectID != nil && *emp.ProjectID == c.ProjectID {
			emp.ProjectID = nil
		}
	}
	return s.creditLocked(c.CompanyID, c.FinalPayment)
}

// guardLocked returns the project if it is in progress at checkpoint.
func (s *Store) guardLocked(id uuid.UUID, checkpoint time.Time) (*models.Project, error) {
	p, ok := s.projects[id]
	if !ok {
		return nil, e.ErrNotFound
	}
	if !p.InProgress() {
		return nil, e.ErrNotInProgress
	}
	if !p.LastPaymentTime.Equal(checkpoint) {
		return nil, e.ErrConflict
	}
	return p, nil
}

func (s *Store) Close() error {
	return nil
}
