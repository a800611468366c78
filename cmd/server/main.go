package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flightfare-core/internal/adapter/api"
	"flightfare-core/internal/adapter/auth"
	"flightfare-core/internal/adapter/client"
	"flightfare-core/internal/adapter/model"
	"flightfare-core/internal/adapter/store"
	"flightfare-core/internal/config"
	"flightfare-core/internal/domain/repository"
	"flightfare-core/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

type closer struct {
	name string
	fn   func(context.Context) error
}

func main() {
	cfg := config.Load()
	initLogging(cfg)
	ctx := context.Background()

	var closers []closer

	// Mongo holds reference data, users, records and bookings
	mongoClient, err := store.ConnectMongo(ctx, cfg.MongoURI)
	if err != nil {
		slog.Error("failed to connect to mongo", "error", err)
		os.Exit(1)
	}
	db := mongoClient.Database(cfg.MongoDatabase)
	if err := store.EnsureIndexes(ctx, db); err != nil {
		slog.Warn("index creation failed", "error", err)
	}

	// Redis for rate limiting, optional
	var limiter repository.RateLimiter
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		limiter = store.NewRedisLimiter(rdb, cfg.PredictRateLimit, cfg.PredictRateWindow)
	} else {
		slog.Info("REDIS_ADDR not set, predict rate limiting disabled")
	}

	// Shared model, loaded once
	models := usecase.NewModelHandle(model.NewFileStore(cfg.ModelPath))
	if cfg.ModelEagerLoad {
		loadCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		if err := models.Load(loadCtx); err != nil {
			slog.Warn("model not loaded at startup, will retry on first request", "path", cfg.ModelPath, "error", err)
		}
		cancel()
	}

	tokens, err := auth.NewJWTIssuer(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	if err != nil {
		slog.Error("failed to init token issuer", "error", err)
		os.Exit(1)
	}

	mailer := newMailer(cfg)

	references := store.NewMongoReferenceStore(db)
	predictor := usecase.NewPredictor(references, models, usecase.PredictorConfig{
		Workers: cfg.InferenceWorkers,
		Timeout: cfg.InferenceTimeout,
	})
	accounts := usecase.NewAccounts(store.NewMongoUserStore(db), auth.NewBcryptHasher(bcrypt.DefaultCost), tokens, mailer)
	bookings := usecase.NewBookings(store.NewMongoFlightRecordStore(db), store.NewMongoBookingStore(db), predictor, mailer)
	datasets := usecase.NewDatasets(references)

	// Initialize API Layer (Delivery Layer)
	app := fiber.New(fiber.Config{
		AppName: "Flight Fare Predictor",
	})
	handler := api.NewHandler(predictor, accounts, bookings, datasets, models)
	api.SetupRouter(app, handler, api.RouterConfig{
		Version: cfg.AppVersion,
		Env:     cfg.Env,
		Limiter: limiter,

		AdminToken: cfg.AdminToken,
	})
	if cfg.AdminToken == "" {
		slog.Info("ADMIN_TOKEN not set, model reload route disabled")
	}

	closers = append(closers,
		closer{"http server", func(ctx context.Context) error { return app.ShutdownWithContext(ctx) }},
		closer{"pending mail", func(ctx context.Context) error {
			done := make(chan struct{})
			go func() {
				accounts.Wait()
				bookings.Wait()
				close(done)
			}()
			select {
			case <-done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}},
		closer{"model", models.Close},
	)
	if rdb != nil {
		closers = append(closers, closer{"redis", func(context.Context) error { return rdb.Close() }})
	}
	closers = append(closers, closer{"mongo", mongoClient.Disconnect})

	go func() {
		slog.Info("flight fare predictor running", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("failed to listen", "error", err)
			os.Exit(1)
		}
	}()

	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
	<-sigint

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	for _, c := range closers {
		if err := c.fn(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "failed to close resources", "name", c.name, "error", err)
		}
	}
	slog.Info("application gracefully shutdown")
}

func initLogging(cfg *config.Config) {
	var h slog.Handler
	if cfg.IsProduction() {
		h = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		h = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	slog.SetDefault(slog.New(h).With("version", cfg.AppVersion))
}

func newMailer(cfg *config.Config) repository.Mailer {
	console := client.NewConsoleMailer(cfg.RootURL, slog.Default())
	if cfg.MailConsole {
		return console
	}
	smtp, err := client.NewSMTPMailer(client.SMTPConfig{
		Host:     cfg.MailServer,
		Port:     cfg.MailPort,
		Username: cfg.MailUsername,
		Password: cfg.MailPassword,
		Sender:   cfg.MailSender,
		RootURL:  cfg.RootURL,
	})
	if err != nil {
		slog.Warn("smtp mailer unavailable, logging mail to console", "error", err)
		return console
	}
	return usecase.NewResilientMailer(smtp, console)
}
