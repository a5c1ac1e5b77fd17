package jobs

import (
	"context"

	"equiprent/internal/logger"
)

// CompleteElapsedBookings completes active bookings whose end date has
// passed, storing the rate times rental days as the final amount.
func (jr *JobRunner) CompleteElapsedBookings() error {
	return jr.runWithRecovery("CompleteElapsedBookings", func(ctx context.Context) error {
		n, err := jr.services.Booking.CompleteElapsed(ctx, jr.now())
		logger.Info("Completed elapsed bookings", "count", n)
		return err
	})
}

// PurgeRevokedTokens drops revocation records whose tokens have expired anyway.
func (jr *JobRunner) PurgeRevokedTokens() error {
	return jr.runWithRecovery("PurgeRevokedTokens", func(ctx context.Context) error {
		n, err := jr.services.RevokedToken.DeleteExpired(ctx, jr.now())
		if err != nil {
			return err
		}
		logger.Info("Purged revoked tokens", "count", n)
		return nil
	})
}
