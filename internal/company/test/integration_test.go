package test

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/RainCode98/simbiz101/internal/company/controller"
	"github.com/RainCode98/simbiz101/internal/company/db"
	e "github.com/RainCode98/simbiz101/internal/company/errors"
	"github.com/RainCode98/simbiz101/internal/company/events"
	"github.com/RainCode98/simbiz101/internal/company/models"
	"github.com/RainCode98/simbiz101/internal/pkg/clock"
	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

const integrationTopic = "simbiz-integration"

var t0 = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

// IntegrationTestSuite runs the company service against PostgreSQL and
// Kafka. Set SIMBIZ_INTEGRATION=1 with both services reachable.
type IntegrationTestSuite struct {
	suite.Suite
	dbRepo       *db.Repository
	kafkaReader  *kafka.Reader
	producer     *events.Producer
	logger       *zap.Logger
	testTimeout  time.Duration
	cleanupFuncs []func()
}

func TestIntegrationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests")
	}
	if os.Getenv("SIMBIZ_INTEGRATION") == "" {
		t.Skip("SIMBIZ_INTEGRATION not set")
	}
	suite.Run(t, new(IntegrationTestSuite))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (s *IntegrationTestSuite) SetupSuite() {
	s.logger = zap.NewNop()
	s.testTimeout = 60 * time.Second

	var err error
	s.dbRepo, err = initializeDBWithRetry()
	if err != nil {
		s.T().Fatal("Database initialization failed:", err)
	}
	s.cleanupFuncs = append(s.cleanupFuncs, func() { _ = s.dbRepo.Close() })

	s.producer, s.kafkaReader, err = initializeKafkaWithRetry(integrationTopic)
	if err != nil {
		s.T().Fatal("Kafka initialization failed:", err)
	}
	s.cleanupFuncs = append(s.cleanupFuncs, s.producer.Close, func() { _ = s.kafkaReader.Close() })
}

func initializeDBWithRetry() (*db.Repository, error) {
	port, _ := strconv.Atoi(envOr("DB_PORT", "5432"))
	cfg := &db.Config{
		Driver:   "postgres",
		Host:     envOr("DB_HOST", "localhost"),
		Port:     port,
		User:     envOr("DB_USER", "test"),
		Password: envOr("DB_PASSWORD", "test"),
		DBName:   envOr("DB_NAME", "test"),
		SSLMode:  "disable",
	}

	var repo *db.Repository
	err := backoff.Retry(func() error {
		r, err := db.NewRepository(cfg)
		if err != nil {
			return err
		}
		repo = r
		return nil
	}, backoff.NewExponentialBackOff())
	return repo, err
}

func initializeKafkaWithRetry(topic string) (*events.Producer, *kafka.Reader, error) {
	kafkaBrokers := []string{envOr("KAFKA_BROKER", "localhost:9092")}

	var producer *events.Producer
	err := backoff.Retry(func() error {
		p, err := events.NewProducer(kafkaBrokers, zap.NewNop(), topic)
		if err != nil {
			return fmt.Errorf("failed to create Kafka producer: %w", err)
		}
		producer = p
		return nil
	}, backoff.NewExponentialBackOff())
	if err != nil {
		return nil, nil, fmt.Errorf("Kafka producer initialization failed: %w", err)
	}

	err = backoff.Retry(func() error {
		conn, err := kafka.Dial("tcp", kafkaBrokers[0])
		if err != nil {
			return err
		}
		defer conn.Close()

		partitions, err := conn.ReadPartitions(topic)
		if err != nil || len(partitions) == 0 {
			return fmt.Errorf("topic %s not found", topic)
		}
		return nil
	}, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5))
	if err != nil {
		producer.Close()
		return nil, nil, fmt.Errorf("Kafka topic check failed: %w", err)
	}

	// A fresh group reads every partition from the start; events are
	// matched by company key, which is unique per test.
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     kafkaBrokers,
		GroupID:     "simbiz-integration-" + uuid.NewString(),
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.FirstOffset,
	})
	return producer, reader, nil
}

func (s *IntegrationTestSuite) TearDownSuite() {
	for i := len(s.cleanupFuncs) - 1; i >= 0; i-- {
		s.cleanupFuncs[i]()
	}
}

func (s *IntegrationTestSuite) SetupTest() {
	if s.dbRepo == nil {
		s.T().Fatal("Database connection not initialized")
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.testTimeout)
	defer cancel()

	if err := s.dbRepo.Exec(ctx, "TRUNCATE TABLE projects, employees, companies CASCADE"); err != nil {
		s.T().Fatal("Failed to clean database:", err)
	}
}

func (s *IntegrationTestSuite) newService(clk clock.Clock) *controller.CompanyService {
	return controller.NewCompanyService(s.dbRepo, s.producer, clk, controller.Config{}, s.logger)
}

// startLandingPage creates a company with a Developer and a Designer of
// skill 25 on proj_001: a 60 minute project paying 500 per minute.
func (s *IntegrationTestSuite) startLandingPage(ctx context.Context, svc *controller.CompanyService, name string) (*models.Company, *models.Project) {
	company, err := svc.CreateCompany(ctx, name, "DE")
	s.Require().NoError(err)

	var ids []uuid.UUID
	for _, role := range []models.Role{models.Developer, models.Designer} {
		emp, err := svc.HireEmployee(ctx, controller.Hire{
			CompanyID: company.ID,
			Name:      string(role),
			Role:      role,
			Skill:     25,
		})
		s.Require().NoError(err)
		ids = append(ids, emp.ID)
	}

	project, err := svc.StartProject(ctx, company.ID, "proj_001", ids)
	s.Require().NoError(err)
	return company, project
}

func (s *IntegrationTestSuite) TestProjectLifecycle() {
	ctx, cancel := context.WithTimeout(context.Background(), s.testTimeout)
	defer cancel()

	clk := clock.NewFake(t0)
	svc := s.newService(clk)
	company, project := s.startLandingPage(ctx, svc, "Lifecycle Co")

	clk.Advance(10*time.Minute + 20*time.Second)
	settled, err := svc.ProcessPayments(ctx, company.ID)
	s.Require().NoError(err)
	s.Require().Len(settled.Payments, 1)
	assert.Equal(s.T(), "5000", settled.Payments[0].Amount.String())

	clk.Advance(time.Hour)
	s.Require().NoError(svc.SettleAll(ctx))

	stored, err := s.dbRepo.GetProject(ctx, project.ID)
	s.Require().NoError(err)
	assert.Equal(s.T(), models.StatusCompleted, stored.Status)
	assert.Equal(s.T(), "30000", stored.AmountPaid.String())

	got, err := s.dbRepo.GetCompany(ctx, company.ID)
	s.Require().NoError(err)
	assert.Equal(s.T(), "80000", got.Money.String())
	assert.Equal(s.T(), "30000", got.Revenue.String())

	staff, err := s.dbRepo.ListEmployees(ctx, company.ID)
	s.Require().NoError(err)
	for _, emp := range staff {
		assert.False(s.T(), emp.Assigned(), "employees are released on completion")
	}

	for _, eventType := range []events.EventType{events.ProjectStarted, events.ProjectPaid, events.ProjectCompleted} {
		s.verifyKafkaEvent(ctx, eventType, company.ID)
	}
}

func (s *IntegrationTestSuite) TestConcurrentSettlementPaysOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.testTimeout)
	defer cancel()

	clk := clock.NewFake(t0)
	svc := s.newService(clk)
	company, project := s.startLandingPage(ctx, svc, "Race Co")

	clk.Advance(7 * time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.ProcessPayments(ctx, company.ID)
			assert.NoError(s.T(), err)
		}()
	}
	wg.Wait()

	stored, err := s.dbRepo.GetProject(ctx, project.ID)
	s.Require().NoError(err)
	assert.Equal(s.T(), "3500", stored.AmountPaid.String())
	assert.Equal(s.T(), t0.Add(7*time.Minute), stored.LastPaymentTime)

	got, err := s.dbRepo.GetCompany(ctx, company.ID)
	s.Require().NoError(err)
	assert.Equal(s.T(), "53500", got.Money.String())
}

func (s *IntegrationTestSuite) TestCompleteTwiceIsRejected() {
	ctx, cancel := context.WithTimeout(context.Background(), s.testTimeout)
	defer cancel()

	clk := clock.NewFake(t0)
	svc := s.newService(clk)
	company, project := s.startLandingPage(ctx, svc, "Twice Co")

	clk.Advance(5 * time.Minute)
	result, err := svc.CompleteProject(ctx, company.ID, project.ID)
	s.Require().NoError(err)
	assert.Equal(s.T(), "30000", result.FinalPayment.String())

	_, err = svc.CompleteProject(ctx, company.ID, project.ID)
	assert.ErrorIs(s.T(), err, e.ErrNotInProgress)
}

func (s *IntegrationTestSuite) TestDeductSalaries() {
	ctx, cancel := context.WithTimeout(context.Background(), s.testTimeout)
	defer cancel()

	svc := s.newService(clock.NewFake(t0))
	company, _ := s.startLandingPage(ctx, svc, "Payroll Co")

	deductions, err := svc.DeductSalaries(ctx, company.ID)
	s.Require().NoError(err)
	s.Require().Len(deductions, 1)
	assert.Equal(s.T(), "7.534247", deductions[0].Amount.String())

	got, err := s.dbRepo.GetCompany(ctx, company.ID)
	s.Require().NoError(err)
	assert.Equal(s.T(), "49992.465753", got.Money.String())
	assert.Equal(s.T(), "7.534247", got.Expenses.String())

	s.verifyKafkaEvent(ctx, events.SalaryDeducted, company.ID)
}

func (s *IntegrationTestSuite) verifyKafkaEvent(ctx context.Context, eventType events.EventType, companyID uuid.UUID) {
	event := s.consumeKafkaEvent(ctx, eventType, companyID)
	require.NotNil(s.T(), event.Payload, "Received event without payload")
	assert.Equal(s.T(), companyID, event.CompanyID, "Kafka message company ID mismatch")
}

func (s *IntegrationTestSuite) consumeKafkaEvent(ctx context.Context, eventType events.EventType, companyID uuid.UUID) events.Event {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	const maxRetries = 200
	attempts := 0
	for {
		select {
		case <-ctx.Done():
			s.T().Fatalf("Timeout: No %s event received after %d attempts", eventType, attempts)
			return events.Event{}
		default:
		}
		if attempts >= maxRetries {
			s.T().Fatalf("Max retry attempts reached for %s", eventType)
			return events.Event{}
		}

		msg, err := s.kafkaReader.ReadMessage(ctx)
		if err != nil {
			s.T().Logf("Kafka read attempt %d failed: %v", attempts, err)
			attempts++
			time.Sleep(time.Second)
			continue
		}
		if string(msg.Key) != companyID.String() {
			attempts++
			continue
		}

		var event events.Event
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			s.T().Fatalf("Failed to unmarshal Kafka message: %v", err)
		}
		if event.Type != eventType {
			s.T().Logf("Skipping message with unmatched eventType: %s (Expected: %s)", event.Type, eventType)
			attempts++
			continue
		}
		return event
	}
}
