package jobs

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/ledgerline/ledgerline/internal/recurring"
)

// RecurringRunner is the part of the recurring service the job needs.
type RecurringRunner interface {
	RunCycle(ctx context.Context) (recurring.CycleResult, error)
}

// NewRecurringCycleHandler processes TaskRecurringCycle tasks by
// running one scheduler pass. Each execution gets a fresh cycle id for
// tracing.
func NewRecurringCycleHandler(logger *slog.Logger, runner RecurringRunner) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		cycleID := uuid.NewString()
		result, err := runner.RunCycle(ctx)
		if err != nil {
			logger.Error("recurring cycle failed",
				slog.String("cycle_id", cycleID),
				slog.Any("error", err))
			return err
		}
		logger.Info("recurring cycle finished",
			slog.String("cycle_id", cycleID),
			slog.Int("due", result.Due),
			slog.Int("posted", result.Posted),
			slog.Int("skipped", result.Skipped),
			slog.Int("failed", result.Failed))
		return nil
	}
}
