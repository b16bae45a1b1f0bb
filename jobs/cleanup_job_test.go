package jobs

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/anjiri1684/hotel_reservation/database"
	"github.com/anjiri1684/hotel_reservation/models"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(filepath.Join(t.TempDir(), "jobs.db"), zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func day(s string) time.Time {
	d, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		panic(err)
	}
	return d
}

func TestRemoveEndedReservations(t *testing.T) {
	db := testDB(t)
	guest := uuid.New()

	past := models.Reservation{GuestID: guest, RoomID: 1, StartDate: day("2026-10-01"), EndDate: day("2026-10-05")}
	endsToday := models.Reservation{GuestID: guest, RoomID: 1, StartDate: day("2026-10-10"), EndDate: day("2026-10-14")}
	future := models.Reservation{GuestID: guest, RoomID: 2, StartDate: day("2026-11-01"), EndDate: day("2026-11-03")}
	for _, r := range []*models.Reservation{&past, &endsToday, &future} {
		require.NoError(t, db.Omit(clause.Associations).Create(r).Error)
	}

	now := time.Date(2026, 10, 14, 13, 30, 0, 0, time.UTC)

	// an ended reservation stays until the job runs
	var count int64
	require.NoError(t, db.Model(&models.Reservation{}).Count(&count).Error)
	assert.Equal(t, int64(3), count)

	n, err := RemoveEndedReservations(context.Background(), db, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var left []models.Reservation
	require.NoError(t, db.Order("id").Find(&left).Error)
	require.Len(t, left, 2)
	assert.Equal(t, endsToday.ID, left[0].ID)
	assert.Equal(t, future.ID, left[1].ID)

	n, err = RemoveEndedReservations(context.Background(), db, now)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestScheduleCleanup(t *testing.T) {
	db := testDB(t)
	c := cron.New()

	id, err := ScheduleCleanup(c, "0 0 * * 1", db, zerolog.Nop())
	require.NoError(t, err)
	entry := c.Entry(id)
	assert.Equal(t, id, entry.ID)

	_, err = ScheduleCleanup(c, "not a schedule", db, zerolog.Nop())
	assert.Error(t, err)
}
