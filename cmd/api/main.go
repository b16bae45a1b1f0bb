package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/anjiri1684/hotel_reservation/configs"
	"github.com/anjiri1684/hotel_reservation/database"
	"github.com/anjiri1684/hotel_reservation/handlers"
	"github.com/anjiri1684/hotel_reservation/jobs"
	"github.com/anjiri1684/hotel_reservation/logging"
	"github.com/anjiri1684/hotel_reservation/metrics"
	"github.com/anjiri1684/hotel_reservation/middleware"
	"github.com/anjiri1684/hotel_reservation/notifications"
	"github.com/anjiri1684/hotel_reservation/routes"
	"github.com/anjiri1684/hotel_reservation/storage"
	"github.com/gofiber/fiber/v2"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fallback := zerolog.New(os.Stderr).With().Timestamp().Logger()
		fallback.Fatal().Err(err).Msg("load config")
	}
	log := logging.New(cfg.Logging, cfg.App)

	db, err := database.Connect(cfg.Database.DSN, log)
	if err != nil {
		log.Fatal().Err(err).Msg("database")
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("database")
	}

	var limiterStorage fiber.Storage
	if cfg.Redis.URL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		client, err := storage.OpenRedis(ctx, cfg.Redis.URL)
		cancel()
		if err != nil {
			log.Fatal().Err(err).Msg("redis")
		}
		limiterStorage = storage.NewRedisStorage(client, "throttle:")
		log.Info().Msg("rate limit counters in redis")
	}

	throttles, err := middleware.NewThrottles(cfg.RateLimit, limiterStorage)
	if err != nil {
		log.Fatal().Err(err).Msg("rate limits")
	}

	var images storage.ImageStore = storage.DisabledStore{}
	if cfg.Cloudinary.URL != "" {
		store, err := storage.NewCloudinaryStore(cfg.Cloudinary.URL, cfg.Cloudinary.Folder)
		if err != nil {
			log.Fatal().Err(err).Msg("cloudinary")
		}
		images = store
	} else {
		log.Warn().Msg("CLOUDINARY_URL not set, gallery uploads disabled")
	}

	mailer := notifications.New(cfg.Email, log)
	metrics.Register()

	scheduler := cron.New()
	if _, err := jobs.ScheduleCleanup(scheduler, cfg.Jobs.CleanupSchedule, db, log); err != nil {
		log.Fatal().Err(err).Msg("cron")
	}
	scheduler.Start()
	log.Info().Str("schedule", cfg.Jobs.CleanupSchedule).Msg("reservation cleanup scheduled")

	h := handlers.New(db, cfg, images, mailer, log)
	app := routes.New(cfg, h, throttles, log)

	go func() {
		if err := app.Listen(fmt.Sprintf(":%d", cfg.App.Port)); err != nil {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()
	log.Info().Int("port", cfg.App.Port).Msg("server is running")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	<-scheduler.Stop().Done()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
