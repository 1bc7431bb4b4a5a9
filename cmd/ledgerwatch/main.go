// ledgerwatch tails the finance topic and keeps a running revenue and
// expense tally per company, logging every money movement it sees. It reads
// the brokers and topic from the same config file as the company service.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/RainCode98/simbiz101/internal/company/config"
	"github.com/RainCode98/simbiz101/internal/company/events"
	"github.com/RainCode98/simbiz101/internal/company/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type totals struct {
	Revenue  decimal.Decimal
	Expenses decimal.Decimal
}

// tally accumulates money movements per company from finance events.
type tally struct {
	mu        sync.Mutex
	companies map[uuid.UUID]*totals
	logger    *zap.Logger
}

func newTally(logger *zap.Logger) *tally {
	return &tally{
		companies: make(map[uuid.UUID]*totals),
		logger:    logger.Named("ledgerwatch"),
	}
}

func (t *tally) get(id uuid.UUID) totals {
	t.mu.Lock()
	defer t.mu.Unlock()
	if c, ok := t.companies[id]; ok {
		return *c
	}
	return totals{}
}

func (t *tally) record(id uuid.UUID, revenue, expense decimal.Decimal) totals {
	t.mu.Lock()
	defer t.mu.Unlock()
	c, ok := t.companies[id]
	if !ok {
		c = &totals{}
		t.companies[id] = c
	}
	c.Revenue = c.Revenue.Add(revenue)
	c.Expenses = c.Expenses.Add(expense)
	return *c
}

// Handle is the consumer callback. Events that move no money are only logged.
func (t *tally) Handle(_ context.Context, ev events.Event) error {
	var revenue, expense decimal.Decimal
	switch ev.Type {
	case events.ProjectPaid:
		var p models.PaymentEvent
		if err := ev.DecodePayload(&p); err != nil {
			return err
		}
		revenue = p.Amount
	case events.ProjectCompleted:
		var c models.CompletionResult
		if err := ev.DecodePayload(&c); err != nil {
			return err
		}
		revenue = c.FinalPayment
	case events.SalaryDeducted:
		var d models.DeductionEvent
		if err := ev.DecodePayload(&d); err != nil {
			return err
		}
		expense = d.Amount
	default:
		t.logger.Info("event",
			zap.String("type", string(ev.Type)),
			zap.String("company_id", ev.CompanyID.String()),
		)
		return nil
	}

	sum := t.record(ev.CompanyID, revenue, expense)
	t.logger.Info("money moved",
		zap.String("type", string(ev.Type)),
		zap.String("company_id", ev.CompanyID.String()),
		zap.String("revenue", revenue.String()),
		zap.String("expense", expense.String()),
		zap.String("total_revenue", sum.Revenue.String()),
		zap.String("total_expenses", sum.Expenses.String()),
	)
	return nil
}

// subscription is what ledgerwatch reads from the shared service config.
type subscription struct {
	Brokers []string
	Topic   string
	Group   string
}

func loadSubscription(path string) (subscription, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return subscription{}, err
	}
	if len(cfg.KafkaBrokers) == 0 {
		return subscription{}, errors.New("KAFKA_BROKERS is empty; nothing to watch")
	}
	return subscription{
		Brokers: cfg.KafkaBrokers,
		Topic:   cfg.Topic,
		Group:   cfg.ConsumerGroup,
	}, nil
}

func main() {
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	sub, err := loadSubscription("")
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	consumer := events.NewConsumer(sub.Brokers, sub.Group, sub.Topic, logger)
	defer consumer.Close()
	consumer.RegisterHandler(newTally(logger).Handle)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consumer.Start(ctx)
	logger.Info("watching finance events",
		zap.Strings("brokers", sub.Brokers),
		zap.String("topic", sub.Topic),
		zap.String("group", sub.Group),
	)
	<-ctx.Done()
}
