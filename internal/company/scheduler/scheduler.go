// Package scheduler drives the periodic finance jobs: streaming project
// payments every minute and deducting salaries every hour.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/RainCode98/simbiz101/internal/company/metrics"
	"github.com/RainCode98/simbiz101/internal/pkg/clock"
	"go.uber.org/zap"
)

const (
	JobPayments = "payments"
	JobPayroll  = "payroll"

	DefaultPaymentInterval = time.Minute
	DefaultPayrollInterval = time.Hour
)

// Jobs is the work run on each tick. Implementations handle every entity
// independently and return a joined error for the ones that failed.
type Jobs interface {
	SettleAll(ctx context.Context) error
	DeductAll(ctx context.Context) error
}

type Config struct {
	PaymentInterval time.Duration
	PayrollInterval time.Duration
}

type Scheduler struct {
	jobs   Jobs
	guard  Guard
	clock  clock.Clock
	cfg    Config
	logger *zap.Logger

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func New(jobs Jobs, guard Guard, clk clock.Clock, cfg Config, logger *zap.Logger) *Scheduler {
	if cfg.PaymentInterval <= 0 {
		cfg.PaymentInterval = DefaultPaymentInterval
	}
	if cfg.PayrollInterval <= 0 {
		cfg.PayrollInterval = DefaultPayrollInterval
	}
	if guard == nil {
		guard = NopGuard{}
	}
	return &Scheduler{
		jobs:   jobs,
		guard:  guard,
		clock:  clk,
		cfg:    cfg,
		logger: logger.Named("scheduler"),
	}
}

// Start launches both loops. Each job runs once immediately, then on its
// interval. Calling Start on a running scheduler does nothing.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.stop = make(chan struct{})
	s.running = true

	payments := s.clock.NewTicker(s.cfg.PaymentInterval)
	payroll := s.clock.NewTicker(s.cfg.PayrollInterval)

	s.wg.Add(2)
	go s.loop(ctx, payments, s.RunPayments)
	go s.loop(ctx, payroll, s.RunPayroll)

	s.logger.Info("scheduler started",
		zap.Duration("payment_interval", s.cfg.PaymentInterval),
		zap.Duration("payroll_interval", s.cfg.PayrollInterval),
	)
}

// Stop ends both loops and waits for in-flight ticks. It is safe to call
// more than once.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stop)
	s.cancel()
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) loop(ctx context.Context, ticker clock.Ticker, tick func(context.Context) error) {
	defer s.wg.Done()
	defer ticker.Stop()

	stop := s.stop
	_ = tick(ctx)
	for {
		select {
		case <-ticker.C():
			_ = tick(ctx)
		case <-stop:
			return
		}
	}
}

// RunPayments settles every in-progress project once.
func (s *Scheduler) RunPayments(ctx context.Context) error {
	start := time.Now()
	err := s.jobs.SettleAll(ctx)
	metrics.RecordTick(JobPayments, time.Since(start))
	if err != nil {
		metrics.TickErrors.WithLabelValues(JobPayments).Inc()
		s.logger.Error("payment tick finished with errors", zap.Error(err))
	}
	return err
}

// RunPayroll deducts one hour of salaries from every company, unless another
// replica already claimed the current slot.
func (s *Scheduler) RunPayroll(ctx context.Context) error {
	slot := s.clock.Now().Truncate(s.cfg.PayrollInterval)
	ok, err := s.guard.Acquire(ctx, JobPayroll, slot, s.cfg.PayrollInterval)
	if err != nil {
		s.logger.Warn("tick guard unavailable, running payroll anyway", zap.Error(err))
		ok = true
	}
	if !ok {
		return nil
	}

	start := time.Now()
	err = s.jobs.DeductAll(ctx)
	metrics.RecordTick(JobPayroll, time.Since(start))
	if err != nil {
		metrics.TickErrors.WithLabelValues(JobPayroll).Inc()
		s.logger.Error("payroll tick finished with errors", zap.Error(err))
	}
	return err
}
