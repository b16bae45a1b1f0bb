package logging

import (
	"testing"

	config "github.com/anjiri1684/hotel_reservation/configs"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewLevels(t *testing.T) {
	app := config.AppConfig{Name: "hotel", Env: "test"}

	log := New(config.LoggingConfig{Level: "debug"}, app)
	assert.Equal(t, zerolog.DebugLevel, log.GetLevel())

	log = New(config.LoggingConfig{Level: "WARN", Format: "console", Output: "stderr"}, app)
	assert.Equal(t, zerolog.WarnLevel, log.GetLevel())

	log = New(config.LoggingConfig{Level: "nonsense"}, app)
	assert.Equal(t, zerolog.InfoLevel, log.GetLevel())

	log = New(config.LoggingConfig{}, app)
	assert.Equal(t, zerolog.InfoLevel, log.GetLevel())
}
