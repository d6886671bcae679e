package jobs

import (
	"context"
	"errors"
	"strconv"
	"time"

	"rentalhub-backend/internal/domain"
	"rentalhub-backend/internal/logger"
)

// MarkLateReturns moves active rentals past their end date to late_return.
func (jr *JobRunner) MarkLateReturns() {
	jr.runWithRecovery("MarkLateReturns", func() {
		marked, err := jr.markLateReturns(context.Background())
		if err != nil {
			logger.Error("Failed to mark late returns", "error", err, "marked", marked)
			return
		}
		logger.Info("Marked rentals as late", "count", marked)
	})
}

// markLateReturns walks the overdue rentals one batch at a time. Each rental goes through
// the engine so the conditional write, history entry and renter notification all apply.
// It stops when a batch makes no progress so rentals that keep failing are not retried forever.
func (jr *JobRunner) markLateReturns(ctx context.Context) (int, error) {
	now := jr.now()
	today := now.UTC().Truncate(24 * time.Hour)

	total := 0
	for {
		overdue, err := jr.rentals.ListOverdueActive(ctx, today, jr.config.BatchSize)
		if err != nil {
			return total, err
		}

		marked := 0
		for _, rental := range overdue {
			id := strconv.Itoa(int(rental.ID))
			if _, err := jr.marker.MarkLateReturn(ctx, id, now); err != nil {
				if errors.Is(err, domain.ErrInvalidState) {
					logger.Debug("Skipped late return", "rental_id", rental.ID, "reason", err.Error())
				} else {
					logger.Warn("Failed to mark rental as late", "rental_id", rental.ID, "error", err)
				}
				continue
			}
			logger.Debug("Marked rental as late",
				"rental_id", rental.ID,
				"renter_id", rental.RenterID,
				"end_date", rental.EndDate.Format("2006-01-02"))
			marked++
		}
		total += marked

		if len(overdue) < jr.config.BatchSize || marked == 0 {
			return total, nil
		}
	}
}
