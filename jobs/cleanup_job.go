package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/anjiri1684/hotel_reservation/metrics"
	"github.com/anjiri1684/hotel_reservation/models"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// RemoveEndedReservations deletes every reservation whose end date is before
// today (UTC) and returns how many were removed. A reservation ending today
// is kept.
func RemoveEndedReservations(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	res := db.WithContext(ctx).Where("end_date < ?", today).Delete(&models.Reservation{})
	if res.Error != nil {
		return 0, fmt.Errorf("remove ended reservations: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// ScheduleCleanup registers RemoveEndedReservations on spec. Failures are
// logged and retried on the next tick.
func ScheduleCleanup(c *cron.Cron, spec string, db *gorm.DB, log zerolog.Logger) (cron.EntryID, error) {
	log = log.With().Str("job", "cleanup_reservations").Logger()

	id, err := c.AddFunc(spec, func() {
		log.Info().Msg("running job")

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		n, err := RemoveEndedReservations(ctx, db, time.Now())
		if err != nil {
			log.Error().Err(err).Msg("job failed")
			return
		}
		metrics.AddReservationsCleaned(n)
		log.Info().Int64("removed", n).Msg("job finished")
	})
	if err != nil {
		return 0, fmt.Errorf("schedule cleanup %q: %w", spec, err)
	}
	return id, nil
}
