package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rcsnext/crm-api/internal/api"
	"github.com/rcsnext/crm-api/internal/core/service"
	crmmongo "github.com/rcsnext/crm-api/internal/infrastructure/db/mongo"
	crmredis "github.com/rcsnext/crm-api/internal/infrastructure/db/redis"
	"github.com/rcsnext/crm-api/internal/infrastructure/mail"
	"github.com/rcsnext/crm-api/internal/infrastructure/oauth"
	"github.com/rcsnext/crm-api/internal/infrastructure/queue"
	"github.com/rcsnext/crm-api/internal/pkg/config"
	"github.com/rcsnext/crm-api/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
		Service: "crm-api",
	})

	tokens, err := service.NewTokenService(cfg.JWTSecret, 0, 0)
	if err != nil {
		log.Fatal().Err(err).Msg("JWT_SECRET must be set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- MongoDB ---
	mongoClient, db, err := crmmongo.Connect(ctx, crmmongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	if err := ensureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	// --- Redis ---
	rdb, err := crmredis.Connect(ctx, crmredis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	// --- Mail ---
	mailer := mail.NewMailer(mail.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
		BaseURL:  cfg.BaseURL,
	}, log)

	dispatcher := queue.NewMailDispatcher(0, mailer, log)
	dispatcher.Start(ctx)

	provider := oauth.NewGoogleProvider(oauth.Config{
		ClientID:     cfg.Google.ClientID,
		ClientSecret: cfg.Google.ClientSecret,
		RedirectURI:  cfg.Google.RedirectURI,
	})

	e := api.NewRouter(api.Deps{
		DB:          db,
		Redis:       rdb,
		Config:      cfg,
		Tokens:      tokens,
		SyncMailer:  mailer,
		AsyncMailer: dispatcher,
		Provider:    provider,
		Log:         log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server start failed")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	indexCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	for _, ensure := range []func(context.Context) error{
		crmmongo.NewUserRepository(db).EnsureIndexes,
		crmmongo.NewAgentRepository(db).EnsureIndexes,
		crmmongo.NewClientRepository(db).EnsureIndexes,
		crmmongo.NewMovementRepository(db).EnsureIndexes,
		crmmongo.NewVisitRepository(db).EnsureIndexes,
		crmmongo.NewAlertRepository(db).EnsureIndexes,
	} {
		if err := ensure(indexCtx); err != nil {
			return err
		}
	}
	return nil
}
