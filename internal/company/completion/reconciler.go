// Package completion settles projects: the remaining reward is paid out, the
// project is closed and its team released.
package completion

import (
	"context"
	"errors"
	"fmt"
	"time"

	e "github.com/RainCode98/simbiz101/internal/company/errors"
	"github.com/RainCode98/simbiz101/internal/company/metrics"
	"github.com/RainCode98/simbiz101/internal/company/models"
	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const maxRetries = 5

type Store interface {
	GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error)
	CompleteProject(ctx context.Context, c models.Completion) error
}

type Reconciler struct {
	store      Store
	logger     *zap.Logger
	newBackOff func() backoff.BackOff
}

func NewReconciler(store Store, logger *zap.Logger) *Reconciler {
	return &Reconciler{
		store:  store,
		logger: logger.Named("completion_reconciler"),
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 5 * time.Millisecond
			b.MaxInterval = 200 * time.Millisecond
			return backoff.WithMaxRetries(b, maxRetries)
		},
	}
}

// FinalPayment is what is still owed on p, never negative.
func FinalPayment(p *models.Project) decimal.Decimal {
	owed := p.TotalReward().Sub(p.AmountPaid)
	if owed.IsNegative() {
		return decimal.Zero
	}
	return owed
}

// Complete closes project id. A project that already left in_progress is
// reported with ErrNotInProgress and nothing is paid.
func (r *Reconciler) Complete(ctx context.Context, id uuid.UUID, now time.Time) (*models.CompletionResult, error) {
	var result *models.CompletionResult

	op := func() error {
		project, err := r.store.GetProject(ctx, id)
		if err != nil {
			return backoff.Permanent(err)
		}
		if !project.InProgress() {
			return backoff.Permanent(e.ErrNotInProgress)
		}

		final := FinalPayment(project)
		err = r.store.CompleteProject(ctx, models.Completion{
			ProjectID:    project.ID,
			CompanyID:    project.CompanyID,
			FinalPayment: final,
			TotalReward:  project.TotalReward(),
			Checkpoint:   project.Checkpoint(),
		})
		if err != nil {
			if errors.Is(err, e.ErrConflict) {
				return err
			}
			return backoff.Permanent(err)
		}

		result = &models.CompletionResult{
			ProjectID:         project.ID,
			ProjectName:       project.Name,
			CompanyID:         project.CompanyID,
			FinalPayment:      final,
			TotalReward:       project.TotalReward(),
			AmountAlreadyPaid: project.AmountPaid,
			BaseReward:        project.BaseReward,
			Bonus:             project.Bonus,
			CompletedAt:       now,
		}
		return nil
	}

	if err := backoff.Retry(op, backoff.WithContext(r.newBackOff(), ctx)); err != nil {
		return nil, fmt.Errorf("complete project %s: %w", id, err)
	}

	metrics.ProjectsCompleted.Inc()
	metrics.RecordCredit("completion", result.FinalPayment)
	r.logger.Info("project completed",
		zap.String("project_id", result.ProjectID.String()),
		zap.String("company_id", result.CompanyID.String()),
		zap.String("final_payment", result.FinalPayment.String()),
		zap.String("total_reward", result.TotalReward.String()),
	)
	return result, nil
}
