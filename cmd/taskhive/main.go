package main

import (
	stdlog "log"

	"github.com/taskhive/taskhive/db"
	"github.com/taskhive/taskhive/internal/auth"
	"github.com/taskhive/taskhive/internal/config"
	"github.com/taskhive/taskhive/internal/handlers"
	"github.com/taskhive/taskhive/internal/logger"
	"github.com/taskhive/taskhive/internal/notify"
	"github.com/taskhive/taskhive/internal/router"
	"github.com/taskhive/taskhive/internal/scheduler"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("Failed to load configuration: %v", err)
	}

	log, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		stdlog.Fatalf("Failed to build logger: %v", err)
	}
	defer log.Sync()

	if err := auth.InitJWT(cfg.JWT.Secret, cfg.JWT.TTL); err != nil {
		log.Fatal("jwt init failed", zap.Error(err))
	}

	if err := db.ConnectDatabase(cfg.DatabaseURL); err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}

	if err := db.MigrateDatabase(); err != nil {
		log.Fatal("database migration failed", zap.Error(err))
	}

	mailer := notify.NewMailer(cfg.Email.SendGridKey, cfg.Email.FromName, cfg.Email.FromAddress, log)
	texter := notify.NewTexter(cfg.SMS.TwilioSID, cfg.SMS.TwilioToken, cfg.SMS.FromNumber, log)

	handlers.Configure(mailer, texter, log, cfg.Admin)

	if err := scheduler.Initialize(db.DB, mailer, texter, log, cfg.Scheduler.Tick, cfg.Scheduler.Window); err != nil {
		log.Fatal("scheduler start failed", zap.Error(err))
	}
	defer scheduler.Shutdown()

	r := router.NewRouter(cfg.AllowedOrigins, log)

	log.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Environment))

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("server failed", zap.Error(err))
	}
}
