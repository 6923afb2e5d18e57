// Command api serves the caregiving platform HTTP API.
//
// @title                       Caregiving API
// @version                     1.0
// @description                 Accounts, authentication and family-member messages for the caregiving platform.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the access token.
package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	_ "github.com/famcare/caregiving-api/docs"
	"github.com/famcare/caregiving-api/internal/api"
	"github.com/famcare/caregiving-api/internal/api/middleware"
	"github.com/famcare/caregiving-api/internal/core/service"
	"github.com/famcare/caregiving-api/internal/infrastructure/db/mongo"
	"github.com/famcare/caregiving-api/internal/infrastructure/db/redis"
	"github.com/famcare/caregiving-api/internal/infrastructure/mail"
	"github.com/famcare/caregiving-api/internal/infrastructure/queue"
	"github.com/famcare/caregiving-api/internal/infrastructure/security"
	"github.com/famcare/caregiving-api/internal/pkg/config"
	"github.com/famcare/caregiving-api/pkg/logger"
)

func main() {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		l := logger.Init(logger.Options{})
		l.Fatal().Err(err).Msg("config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "caregiving-api",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
	log.Info().Msg("shutdown completed")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- Storage ---
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.Mongo.Timeout,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongo disconnect")
		}
	}()

	users := mongo.NewUserRepository(db)
	messages := mongo.NewMessageRepository(db)
	if err := mongo.EnsureIndexes(ctx, users, messages); err != nil {
		return err
	}

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close")
		}
	}()

	// --- Mail ---
	transport, err := mail.NewSender(mail.Options{
		Transport: cfg.Mail.Transport,
		SMTP: mail.SMTPConfig{
			Host:     cfg.Mail.Host,
			Port:     cfg.Mail.Port,
			User:     cfg.Mail.User,
			Password: cfg.Mail.Password,
			From:     cfg.Mail.From,
		},
		Kafka: mail.KafkaConfig{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.MailTopic,
		},
	}, logger.Named("mail"))
	if err != nil {
		return err
	}
	if closer, ok := transport.(io.Closer); ok {
		defer func() {
			if err := closer.Close(); err != nil {
				log.Error().Err(err).Msg("mail transport close")
			}
		}()
	}

	sender := mail.NewBreakerSender(transport, mail.BreakerConfig{
		MaxFailures: cfg.Mail.BreakerMaxFailures,
		Timeout:     cfg.Mail.BreakerTimeout,
	}, logger.Named("mail"))

	dispatcher := queue.NewMailDispatcher(cfg.Mail.Workers, sender, logger.Named("mail-dispatcher"),
		queue.WithDeduper(redis.NewMailDedup(rdb, cfg.Mail.DedupTTL)),
	)
	// Workers outlive the signal context so Shutdown can drain the queue.
	dispatcher.Start(context.WithoutCancel(ctx))

	// --- Core ---
	hasher := security.NewBcryptHasher(cfg.Auth.BcryptCost)
	tokens := security.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.JWTTTL)

	accounts := service.NewAccountService(users, hasher, tokens, dispatcher, service.AccountLinks{
		ConfirmEmailURL:  cfg.Auth.ConfirmEmailURL,
		ResetPasswordURL: cfg.Auth.ResetPasswordURL,
	}, logger.Named("accounts"))
	dashboard := service.NewDashboardService(users, messages)
	messageService := service.NewMessageService(messages, logger.Named("messages"))

	limiter := middleware.NewIPRateLimiter(cfg.Auth.RateLimitPerMinute, logger.Named("ratelimit"))
	go limiter.Run(ctx)

	// --- HTTP ---
	e := api.NewRouter(api.Deps{
		Accounts:  accounts,
		Dashboard: dashboard,
		Messages:  messageService,
		Tokens:    tokens,
		Limiter:   limiter,
		ReadinessChecks: map[string]func(context.Context) error{
			"mongodb": func(ctx context.Context) error { return mongo.Ping(ctx, mongoClient) },
			"redis":   func(ctx context.Context) error { return redis.Ping(ctx, rdb) },
		},
		AllowOrigins:   cfg.CORSOrigins,
		TrustedProxies: cfg.TrustedProxies,
		Logger:         log,
	})

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting http server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	var runErr error
	select {
	case runErr = <-serverErr:
	case <-ctx.Done():
		log.Info().Msg("shutdown requested")
	}

	if err := api.Shutdown(context.Background(), e); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}

	// Drain queued mails after the last request has been served.
	drainCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := dispatcher.Shutdown(drainCtx); err != nil {
		log.Warn().Err(err).Msg("mail dispatcher did not drain in time")
	}
	return runErr
}
