// Package db implements the ledger store on top of GORM. Every mutation of a
// company or project balance runs as a single transaction; payment and
// completion writes are compare-and-swaps on the project checkpoint.
package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	rows "github.com/RainCode98/simbiz101/internal/company/db/models"
	e "github.com/RainCode98/simbiz101/internal/company/errors"
	"github.com/RainCode98/simbiz101/internal/company/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db *gorm.DB
}

type Config struct {
	// Driver is "postgres" or "sqlite".
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	// Path is the sqlite database file, ":memory:" for a throwaway store.
	Path string
}

func NewRepository(cfg *Config) (*Repository, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "", "postgres":
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(cfg.Path)
	default:
		return nil, fmt.Errorf("%w: unsupported database driver %q", e.ErrInvalidInput, cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.Driver == "sqlite" {
		// sqlite allows a single writer; an in-memory database also only
		// exists on the connection that created it.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	return newRepository(db)
}

func newRepository(db *gorm.DB) (*Repository, error) {
	if err := db.AutoMigrate(&rows.Company{}, &rows.Employee{}, &rows.Project{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &Repository{db: db}, nil
}

// Companies

func (r *Repository) CreateCompany(ctx context.Context, company *models.Company) error {
	result := r.db.WithContext(ctx).Create(rows.FromCompany(company))
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return e.ErrDuplicateName
		}
		return result.Error
	}
	return nil
}

func (r *Repository) GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	var company rows.Company
	result := r.db.WithContext(ctx).First(&company, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return company.ToDomain(), nil
}

func (r *Repository) ListCompanies(ctx context.Context) ([]models.Company, error) {
	var list []rows.Company
	if err := r.db.WithContext(ctx).Order("created_at").Find(&list).Error; err != nil {
		return nil, err
	}
	out := make([]models.Company, 0, len(list))
	for i := range list {
		out = append(out, *list[i].ToDomain())
	}
	return out, nil
}

func (r *Repository) CompanyExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&rows.Company{}).
		Where("name = ?", name).
		Limit(1).
		Count(&count)
	return count > 0, result.Error
}

// ApplyDeduction debits amount from the company balance and books it as an
// expense. The balance has no floor.
func (r *Repository) ApplyDeduction(ctx context.Context, companyID uuid.UUID, amount decimal.Decimal) (*models.Company, error) {
	var updated *models.Company
	err := r.WithTransaction(ctx, func(tx *Repository) error {
		company, err := tx.lockCompany(ctx, companyID)
		if err != nil {
			return err
		}
		company.Money = company.Money.Sub(amount)
		company.Expenses = company.Expenses.Add(amount)
		if err := tx.saveBalances(ctx, company, "money", "expenses"); err != nil {
			return err
		}
		updated = company.ToDomain()
		return nil
	})
	return updated, err
}

func (r *Repository) creditCompany(ctx context.Context, companyID uuid.UUID, amount decimal.Decimal) error {
	company, err := r.lockCompany(ctx, companyID)
	if err != nil {
		return err
	}
	company.Money = company.Money.Add(amount)
	company.Revenue = company.Revenue.Add(amount)
	return r.saveBalances(ctx, company, "money", "revenue")
}

// lockCompany reads a company row for a read-modify-write of its balances.
// Balances are summed with decimal in Go, not in SQL: sqlite keeps
// numeric(24,6) values as REAL and would accumulate binary rounding error.
// On postgres the row stays locked until the transaction ends; sqlite runs a
// single writer connection.
func (r *Repository) lockCompany(ctx context.Context, id uuid.UUID) (*rows.Company, error) {
	q := r.db.WithContext(ctx)
	if r.db.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var company rows.Company
	if err := q.First(&company, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: company %s", e.ErrNotFound, id)
		}
		return nil, err
	}
	return &company, nil
}

// saveBalances writes the named balance columns of company as absolute values.
func (r *Repository) saveBalances(ctx context.Context, company *rows.Company, columns ...string) error {
	company.UpdatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).Model(company).
		Select(append(columns, "updated_at")).
		Updates(company).Error
}

// Employees

func (r *Repository) CreateEmployee(ctx context.Context, employee *models.Employee) error {
	return r.db.WithContext(ctx).Create(rows.FromEmployee(employee)).Error
}

func (r *Repository) GetEmployee(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	var emp rows.Employee
	result := r.db.WithContext(ctx).First(&emp, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return emp.ToDomain(), nil
}

func (r *Repository) ListEmployees(ctx context.Context, companyID uuid.UUID) ([]models.Employee, error) {
	return r.findEmployees(ctx, "company_id = ?", companyID)
}

func (r *Repository) ListProjectEmployees(ctx context.Context, projectID uuid.UUID) ([]models.Employee, error) {
	return r.findEmployees(ctx, "project_id = ?", projectID)
}

func (r *Repository) findEmployees(ctx context.Context, query string, args ...interface{}) ([]models.Employee, error) {
	var list []rows.Employee
	if err := r.db.WithContext(ctx).Where(query, args...).Order("created_at").Find(&list).Error; err != nil {
		return nil, err
	}
	out := make([]models.Employee, 0, len(list))
	for i := range list {
		out = append(out, *list[i].ToDomain())
	}
	return out, nil
}

// DeleteEmployee removes an unassigned employee of the company.
func (r *Repository) DeleteEmployee(ctx context.Context, companyID, id uuid.UUID) error {
	return r.WithTransaction(ctx, func(tx *Repository) error {
		res := tx.db.WithContext(ctx).
			Where("id = ? AND company_id = ? AND project_id IS NULL", id, companyID).
			Delete(&rows.Employee{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		emp, err := tx.GetEmployee(ctx, id)
		if err != nil {
			return err
		}
		if emp.CompanyID != companyID {
			return e.ErrNotFound
		}
		return fmt.Errorf("%w: employee is assigned to a project", e.ErrStateConflict)
	})
}

// Projects

// CreateProject persists a started project and assigns the employees to it.
// Nothing is written unless every employee belongs to the company and is free.
func (r *Repository) CreateProject(ctx context.Context, project *models.Project, employeeIDs []uuid.UUID) error {
	return r.WithTransaction(ctx, func(tx *Repository) error {
		if err := tx.db.WithContext(ctx).Create(rows.FromProject(project)).Error; err != nil {
			return err
		}
		res := tx.db.WithContext(ctx).Model(&rows.Employee{}).
			Where("id IN ? AND company_id = ? AND project_id IS NULL", employeeIDs, project.CompanyID).
			Update("project_id", project.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != int64(len(employeeIDs)) {
			return fmt.Errorf("%w: employee already assigned to a project", e.ErrStateConflict)
		}
		return nil
	})
}

func (r *Repository) GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var project rows.Project
	result := r.db.WithContext(ctx).First(&project, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return project.ToDomain(), nil
}

// ListProjects returns the projects of a company, or of every company when
// companyID is uuid.Nil, filtered by status when any are given.
func (r *Repository) ListProjects(ctx context.Context, companyID uuid.UUID, statuses ...models.ProjectStatus) ([]models.Project, error) {
	q := r.db.WithContext(ctx).Model(&rows.Project{})
	if companyID != uuid.Nil {
		q = q.Where("company_id = ?", companyID)
	}
	if len(statuses) > 0 {
		names := make([]string, len(statuses))
		for i, s := range statuses {
			names[i] = string(s)
		}
		q = q.Where("status IN ?", names)
	}
	var list []rows.Project
	if err := q.Order("start_time").Find(&list).Error; err != nil {
		return nil, err
	}
	out := make([]models.Project, 0, len(list))
	for i := range list {
		out = append(out, *list[i].ToDomain())
	}
	return out, nil
}

// UpdateProgress raises the persisted progress of an in-progress project. It
// never lowers it.
func (r *Repository) UpdateProgress(ctx context.Context, id uuid.UUID, progress float64) error {
	return r.db.WithContext(ctx).Model(&rows.Project{}).
		Where("id = ? AND status = ? AND progress < ?", id, string(models.StatusInProgress), progress).
		Updates(map[string]interface{}{
			"progress":   progress,
			"updated_at": time.Now().UTC(),
		}).Error
}

// ApplyPayment books a streamer payment. The project row is only touched if
// its checkpoint still equals p.PrevCheckpoint; otherwise ErrConflict (or
// ErrNotInProgress) is returned and nothing is written.
func (r *Repository) ApplyPayment(ctx context.Context, p models.Payment) error {
	return r.WithTransaction(ctx, func(tx *Repository) error {
		current, err := tx.GetProject(ctx, p.ProjectID)
		if err != nil {
			return err
		}
		res := tx.db.WithContext(ctx).Model(&rows.Project{}).
			Where("id = ? AND status = ? AND last_payment_time = ?",
				p.ProjectID, string(models.StatusInProgress), rows.UTC(p.PrevCheckpoint)).
			Updates(map[string]interface{}{
				"amount_paid":       current.AmountPaid.Add(p.Amount),
				"last_payment_time": rows.UTC(p.NextCheckpoint),
				"progress":          gorm.Expr("CASE WHEN progress < ? THEN ? ELSE progress END", p.Progress, p.Progress),
				"updated_at":        time.Now().UTC(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return tx.casMiss(ctx, p.ProjectID)
		}
		return tx.creditCompany(ctx, p.CompanyID, p.Amount)
	})
}

// CompleteProject settles a project: it is marked completed and fully paid,
// the final payment is credited to the company and its employees are
// released. The project must still be in progress at c.Checkpoint.
func (r *Repository) CompleteProject(ctx context.Context, c models.Completion) error {
	return r.WithTransaction(ctx, func(tx *Repository) error {
		res := tx.db.WithContext(ctx).Model(&rows.Project{}).
			Where("id = ? AND status = ? AND last_payment_time = ?",
				c.ProjectID, string(models.StatusInProgress), rows.UTC(c.Checkpoint)).
			Updates(map[string]interface{}{
				"status":      string(models.StatusCompleted),
				"progress":    100.0,
				"amount_paid": c.TotalReward,
				"updated_at":  time.Now().UTC(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return tx.casMiss(ctx, c.ProjectID)
		}
		if err := tx.creditCompany(ctx, c.CompanyID, c.FinalPayment); err != nil {
			return err
		}
		return tx.db.WithContext(ctx).Model(&rows.Employee{}).
			Where("project_id = ?", c.ProjectID).
			Update("project_id", nil).Error
	})
}

// casMiss explains why a guarded project update matched no row.
func (r *Repository) casMiss(ctx context.Context, id uuid.UUID) error {
	project, err := r.GetProject(ctx, id)
	if err != nil {
		return err
	}
	if !project.InProgress() {
		return e.ErrNotInProgress
	}
	return e.ErrConflict
}

func (r *Repository) WithTransaction(ctx context.Context, fn func(repo *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

func (r *Repository) Exec(ctx context.Context, query string, params ...interface{}) error {
	result := r.db.WithContext(ctx).Exec(query, params...)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

func (r *Repository) Close() error {
	db, err := r.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
