package models

import (
	"time"

	domain "github.com/RainCode98/simbiz101/internal/company/models"
)

// UTC normalizes a timestamp for storage. Microsecond precision is what every
// supported backend keeps, so checkpoints compare equal after a round trip.
func UTC(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

func FromCompany(c *domain.Company) *Company {
	return &Company{
		ID:        c.ID,
		Name:      c.Name,
		Country:   c.Country,
		Money:     c.Money,
		Revenue:   c.Revenue,
		Expenses:  c.Expenses,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (c *Company) ToDomain() *domain.Company {
	return &domain.Company{
		ID:        c.ID,
		Name:      c.Name,
		Country:   c.Country,
		Money:     c.Money,
		Revenue:   c.Revenue,
		Expenses:  c.Expenses,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func FromEmployee(e *domain.Employee) *Employee {
	return &Employee{
		ID:        e.ID,
		CompanyID: e.CompanyID,
		Name:      e.Name,
		Role:      string(e.Role),
		Skill:     e.Skill,
		Salary:    e.Salary,
		ProjectID: e.ProjectID,
		CreatedAt: e.CreatedAt,
	}
}

func (e *Employee) ToDomain() *domain.Employee {
	return &domain.Employee{
		ID:        e.ID,
		CompanyID: e.CompanyID,
		Name:      e.Name,
		Role:      domain.Role(e.Role),
		Skill:     e.Skill,
		Salary:    e.Salary,
		ProjectID: e.ProjectID,
		CreatedAt: e.CreatedAt,
	}
}

func FromProject(p *domain.Project) *Project {
	return &Project{
		ID:              p.ID,
		CompanyID:       p.CompanyID,
		TemplateID:      p.TemplateID,
		Name:            p.Name,
		Status:          string(p.Status),
		BaseReward:      p.BaseReward,
		Bonus:           p.Bonus,
		AmountPaid:      p.AmountPaid,
		Progress:        p.Progress,
		StartTime:       UTC(p.StartTime),
		EndTime:         UTC(p.EndTime),
		Deadline:        UTC(p.Deadline),
		LastPaymentTime: UTC(p.LastPaymentTime),
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func (p *Project) ToDomain() *domain.Project {
	return &domain.Project{
		ID:              p.ID,
		CompanyID:       p.CompanyID,
		TemplateID:      p.TemplateID,
		Name:            p.Name,
		Status:          domain.ProjectStatus(p.Status),
		BaseReward:      p.BaseReward,
		Bonus:           p.Bonus,
		AmountPaid:      p.AmountPaid,
		Progress:        p.Progress,
		StartTime:       p.StartTime.UTC(),
		EndTime:         p.EndTime.UTC(),
		Deadline:        p.Deadline.UTC(),
		LastPaymentTime: p.LastPaymentTime.UTC(),
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}
