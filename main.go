package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"cricanalyzer/config"
	"cricanalyzer/events"
	"cricanalyzer/handlers"
	"cricanalyzer/models"
	"cricanalyzer/services"
	"cricanalyzer/utils"
	"cricanalyzer/workers"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		utils.Log.WithError(err).Warn("could not read .env, using process environment")
	}
	cfg, err := config.Load()
	if err != nil {
		utils.Log.WithError(err).Fatal("invalid configuration")
	}
	utils.InitLogger(cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := utils.ConnectDatabase(cfg.DatabaseURL, utils.DBOptions{
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
		LogQueries:   !cfg.IsProduction(),
	})
	if err != nil {
		utils.Log.WithError(err).Fatal("failed to connect to database")
	}
	if err := models.Migrate(db); err != nil {
		utils.Log.WithError(err).Fatal("failed to migrate database")
	}

	media, cdn, err := utils.OpenMediaStores(ctx, cfg)
	if err != nil {
		utils.Log.WithError(err).Fatal("failed to initialize media storage")
	}

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kafka, err := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			utils.Log.WithError(err).Fatal("failed to connect to kafka")
		}
		publisher = kafka
		utils.Log.WithField("topic", cfg.KafkaTopic).Info("[Events] publishing to kafka")
	}
	defer publisher.Close()

	var limiterStorage fiber.Storage
	if cfg.RedisURL != "" {
		redisStorage, err := utils.NewRedisStorage(cfg.RedisURL, "cricanalyzer:ratelimit:")
		if err != nil {
			utils.Log.WithError(err).Fatal("failed to connect to redis")
		}
		defer redisStorage.Close()
		limiterStorage = redisStorage
	}

	signer := utils.NewTokenSigner(cfg.JWTSecret, cfg.JWTExpiresIn)
	svc := services.New(services.NewDeps(db, publisher, media), signer)
	if err := svc.Users.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		utils.Log.WithError(err).Fatal("failed to create admin account")
	}

	gen := workers.NewSitemapGenerator(db, cfg.SitemapHostname, cfg.PublicDir, cdn)
	sched, err := workers.StartSitemapScheduler(ctx, gen, cfg.SitemapInterval)
	if err != nil {
		utils.Log.WithError(err).Fatal("failed to start sitemap scheduler")
	}

	app := handlers.NewApp(svc, handlers.Options{
		ClientURL:       cfg.ClientURL,
		Signer:          signer,
		RateLimitMax:    cfg.RateLimitMax,
		RateLimitWindow: cfg.RateLimitWindow,
		LimiterStorage:  limiterStorage,
		UploadDir:       cfg.UploadDir,
		PublicDir:       cfg.PublicDir,
	})

	go func() {
		if err := app.Listen(fmt.Sprintf(":%d", cfg.Port)); err != nil {
			utils.Log.WithError(err).Error("server error")
			stop()
		}
	}()
	utils.Log.WithFields(logrus.Fields{"port": cfg.Port, "env": cfg.Environment}).Info("server running")

	<-ctx.Done()
	utils.Log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		utils.Log.WithError(err).Error("server shutdown failed")
	}
	if sched != nil {
		if err := sched.Shutdown(); err != nil {
			utils.Log.WithError(err).Error("sitemap scheduler shutdown failed")
		}
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
