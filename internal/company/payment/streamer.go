// Package payment streams a project's base reward to its company minute by
// minute while the project runs.
package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	e "github.com/RainCode98/simbiz101/internal/company/errors"
	"github.com/RainCode98/simbiz101/internal/company/metrics"
	"github.com/RainCode98/simbiz101/internal/company/models"
	"github.com/RainCode98/simbiz101/internal/company/progress"
	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	// fallbackMinutes is used when a project window is empty or inverted.
	fallbackMinutes = 60
	// amountPlaces is the precision payments are rounded down to.
	amountPlaces = 6
	maxRetries   = 5
)

var minPayment = decimal.RequireFromString("0.01")

// Store is the part of the ledger the streamer reads and writes.
type Store interface {
	GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error)
	ApplyPayment(ctx context.Context, p models.Payment) error
}

type Streamer struct {
	store      Store
	logger     *zap.Logger
	newBackOff func() backoff.BackOff
}

func NewStreamer(store Store, logger *zap.Logger) *Streamer {
	return &Streamer{
		store:  store,
		logger: logger.Named("payment_streamer"),
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 5 * time.Millisecond
			b.MaxInterval = 200 * time.Millisecond
			return backoff.WithMaxRetries(b, maxRetries)
		},
	}
}

// RatePerMinute is the share of the base reward earned per minute of the
// project window.
func RatePerMinute(p *models.Project) decimal.Decimal {
	minutes := decimal.NewFromInt(p.EndTime.Sub(p.StartTime).Milliseconds()).
		Div(decimal.NewFromInt(time.Minute.Milliseconds()))
	if !minutes.IsPositive() {
		minutes = decimal.NewFromInt(fallbackMinutes)
	}
	return p.BaseReward.Div(minutes)
}

// Quote computes the payment owed for project p at now. The second return is
// false when nothing is due: less than a whole minute elapsed since the
// checkpoint, the base reward is exhausted, or the amount is under 0.01.
func Quote(p *models.Project, now time.Time) (models.Payment, bool) {
	checkpoint := p.Checkpoint()
	elapsed := int64(now.Sub(checkpoint) / time.Minute)
	if elapsed < 1 {
		return models.Payment{}, false
	}

	due := RatePerMinute(p).Mul(decimal.NewFromInt(elapsed))
	if left := p.BaseReward.Sub(p.AmountPaid); due.GreaterThan(left) {
		due = left
	}
	due = due.Truncate(amountPlaces)
	if due.LessThan(minPayment) {
		return models.Payment{}, false
	}

	return models.Payment{
		ProjectID:      p.ID,
		CompanyID:      p.CompanyID,
		Amount:         due,
		PrevCheckpoint: checkpoint,
		NextCheckpoint: checkpoint.Add(time.Duration(elapsed) * time.Minute),
		Progress:       progress.Calculate(p.StartTime, p.EndTime, now),
	}, true
}

// Stream pays whatever project id has earned up to now. It returns a nil
// event when nothing was due. A lost checkpoint race re-reads the project and
// recomputes, so concurrent callers never pay the same minute twice.
func (s *Streamer) Stream(ctx context.Context, id uuid.UUID, now time.Time) (*models.PaymentEvent, error) {
	var event *models.PaymentEvent

	op := func() error {
		event = nil
		project, err := s.store.GetProject(ctx, id)
		if err != nil {
			return backoff.Permanent(err)
		}
		if !project.InProgress() {
			return backoff.Permanent(e.ErrNotInProgress)
		}

		pay, ok := Quote(project, now)
		if !ok {
			return nil
		}

		if err := s.store.ApplyPayment(ctx, pay); err != nil {
			if errors.Is(err, e.ErrConflict) {
				metrics.PaymentConflicts.Inc()
				s.logger.Debug("checkpoint moved, retrying",
					zap.String("project_id", id.String()))
				return err
			}
			return backoff.Permanent(err)
		}

		metrics.PaymentsApplied.Inc()
		metrics.RecordCredit("stream", pay.Amount)
		event = &models.PaymentEvent{
			ProjectID:        project.ID,
			ProjectName:      project.Name,
			CompanyID:        project.CompanyID,
			Amount:           pay.Amount,
			TotalPaid:        project.AmountPaid.Add(pay.Amount),
			MinutesProcessed: int64(pay.NextCheckpoint.Sub(pay.PrevCheckpoint) / time.Minute),
			Checkpoint:       pay.NextCheckpoint,
			Progress:         pay.Progress,
		}
		return nil
	}

	if err := backoff.Retry(op, backoff.WithContext(s.newBackOff(), ctx)); err != nil {
		return nil, fmt.Errorf("stream project %s: %w", id, err)
	}

	if event != nil {
		s.logger.Info("payment applied",
			zap.String("project_id", event.ProjectID.String()),
			zap.String("company_id", event.CompanyID.String()),
			zap.String("amount", event.Amount.String()),
			zap.Int64("minutes", event.MinutesProcessed),
		)
	}
	return event, nil
}

// Status reports the streaming state of p at now without changing it.
func Status(p *models.Project, now time.Time) models.PaymentStatus {
	remaining := p.BaseReward.Sub(p.AmountPaid)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	var paid float64
	if p.BaseReward.IsPositive() {
		paid = p.AmountPaid.Div(p.BaseReward).Mul(decimal.NewFromInt(100)).InexactFloat64()
		if paid > 100 {
			paid = 100
		}
	}

	since := now.Sub(p.Checkpoint())
	next := time.Minute - since%time.Minute
	if since < 0 {
		next = -since
	}

	return models.PaymentStatus{
		ProjectID:       p.ID,
		ProjectName:     p.Name,
		BaseReward:      p.BaseReward,
		AmountPaid:      p.AmountPaid,
		Remaining:       remaining,
		PaymentProgress: paid,
		RatePerMinute:   RatePerMinute(p).Truncate(amountPlaces),
		NextPaymentIn:   next,
		LastPaymentTime: p.Checkpoint(),
	}
}
