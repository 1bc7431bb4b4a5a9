// Package controller implements the service layer of the simulation. It
// validates requests, drives the payment engine through a single settle path
// and publishes finance events.
package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/RainCode98/simbiz101/internal/company/completion"
	e "github.com/RainCode98/simbiz101/internal/company/errors"
	"github.com/RainCode98/simbiz101/internal/company/events"
	"github.com/RainCode98/simbiz101/internal/company/models"
	"github.com/RainCode98/simbiz101/internal/company/payment"
	"github.com/RainCode98/simbiz101/internal/company/payroll"
	"github.com/RainCode98/simbiz101/internal/pkg/clock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	minNameLength = 2
	maxNameLength = 64
)

// DefaultStartingCapital is credited to every new company unless configured
// otherwise.
var DefaultStartingCapital = decimal.NewFromInt(50000)

type EventProducer interface {
	Produce(eventType events.EventType, companyID uuid.UUID, payload any)
}

// Repository is the ledger store. Both the GORM repository and the in-memory
// store implement it.
type Repository interface {
	CreateCompany(ctx context.Context, company *models.Company) error
	GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error)
	ListCompanies(ctx context.Context) ([]models.Company, error)
	CompanyExistsByName(ctx context.Context, name string) (bool, error)
	ApplyDeduction(ctx context.Context, companyID uuid.UUID, amount decimal.Decimal) (*models.Company, error)

	CreateEmployee(ctx context.Context, employee *models.Employee) error
	GetEmployee(ctx context.Context, id uuid.UUID) (*models.Employee, error)
	ListEmployees(ctx context.Context, companyID uuid.UUID) ([]models.Employee, error)
	ListProjectEmployees(ctx context.Context, projectID uuid.UUID) ([]models.Employee, error)
	DeleteEmployee(ctx context.Context, companyID, id uuid.UUID) error

	CreateProject(ctx context.Context, project *models.Project, employeeIDs []uuid.UUID) error
	GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error)
	ListProjects(ctx context.Context, companyID uuid.UUID, statuses ...models.ProjectStatus) ([]models.Project, error)
	UpdateProgress(ctx context.Context, id uuid.UUID, progress float64) error
	ApplyPayment(ctx context.Context, p models.Payment) error
	CompleteProject(ctx context.Context, c models.Completion) error

	Close() error
}

type Config struct {
	StartingCapital decimal.Decimal
}

// CompanyService provides the external operations of the simulation.
type CompanyService struct {
	repo       Repository
	producer   EventProducer
	clock      clock.Clock
	cfg        Config
	streamer   *payment.Streamer
	reconciler *completion.Reconciler
	deductor   *payroll.Deductor
	logger     *zap.Logger
}

func NewCompanyService(repo Repository, producer EventProducer, clk clock.Clock, cfg Config, logger *zap.Logger) *CompanyService {
	if cfg.StartingCapital.IsZero() {
		cfg.StartingCapital = DefaultStartingCapital
	}
	return &CompanyService{
		repo:       repo,
		producer:   producer,
		clock:      clk,
		cfg:        cfg,
		streamer:   payment.NewStreamer(repo, logger),
		reconciler: completion.NewReconciler(repo, logger),
		deductor:   payroll.NewDeductor(repo, logger),
		logger:     logger.Named("company_service"),
	}
}

// now is the service time, in UTC at the precision the stores keep.
func (s *CompanyService) now() time.Time {
	return s.clock.Now().UTC().Truncate(time.Microsecond)
}

// CreateCompany registers a company with the configured starting capital.
func (s *CompanyService) CreateCompany(ctx context.Context, name, country string) (*models.Company, error) {
	name = strings.TrimSpace(name)
	if n := utf8.RuneCountInString(name); n < minNameLength || n > maxNameLength {
		return nil, fmt.Errorf("%w: company name must be %d to %d characters", e.ErrInvalidInput, minNameLength, maxNameLength)
	}
	country = strings.TrimSpace(country)
	if country == "" {
		return nil, fmt.Errorf("%w: country is required", e.ErrInvalidInput)
	}

	exists, err := s.repo.CompanyExistsByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to check name existence: %w", err)
	}
	if exists {
		return nil, e.ErrDuplicateName
	}

	now := s.now()
	company := &models.Company{
		ID:        uuid.New(),
		Name:      name,
		Country:   country,
		Money:     s.cfg.StartingCapital,
		Revenue:   decimal.Zero,
		Expenses:  decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateCompany(ctx, company); err != nil {
		if errors.Is(err, e.ErrDuplicateName) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create company: %w", err)
	}

	s.producer.Produce(events.CompanyCreated, company.ID, company)
	return company, nil
}

// GetCompany retrieves a Company by ID, returning an error if not found.
func (s *CompanyService) GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("%w: invalid company ID", e.ErrInvalidInput)
	}
	company, err := s.repo.GetCompany(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return company, nil
}
