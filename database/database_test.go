package database

import (
	"path/filepath"
	"testing"

	"github.com/anjiri1684/hotel_reservation/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectAndMigrateSQLite(t *testing.T) {
	db, err := Connect(filepath.Join(t.TempDir(), "test.db"), zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	for _, m := range []any{&models.User{}, &models.Location{}, &models.Hotel{}, &models.Room{}, &models.Gallery{}, &models.Reservation{}} {
		assert.True(t, db.Migrator().HasTable(m))
	}
}

func TestGalleryRequiresSingleOwner(t *testing.T) {
	db, err := Connect(filepath.Join(t.TempDir(), "test.db"), zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	err = db.Create(&models.Gallery{Image: "a.jpg"}).Error
	assert.ErrorIs(t, err, models.ErrGalleryOwner)

	one, two := uint(1), uint(2)
	err = db.Create(&models.Gallery{Image: "b.jpg", HotelID: &one, RoomID: &two}).Error
	assert.ErrorIs(t, err, models.ErrGalleryOwner)

	require.NoError(t, db.Create(&models.Gallery{Image: "c.jpg", RoomID: &two}).Error)
}
