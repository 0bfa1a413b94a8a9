// VoxPop backend entry point. Loads configuration, connects PostgreSQL and
// redis, wires the petition workflow and serves the HTTP API.
package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"voxpop/backend/internal/api/handler"
	"voxpop/backend/internal/badge"
	"voxpop/backend/internal/business"
	"voxpop/backend/internal/config"
	"voxpop/backend/internal/events"
	"voxpop/backend/internal/feedback"
	"voxpop/backend/internal/models"
	"voxpop/backend/internal/notify"
	"voxpop/backend/internal/petition"
	"voxpop/backend/internal/reputation"
	"voxpop/backend/internal/response"
	"voxpop/backend/internal/signature"
	"voxpop/backend/internal/storage"
	"voxpop/backend/internal/workflow"
)

func setupStorage(cfg *config.Config) (storage.Storage, *redis.Client) {
	dsn := cfg.DatabaseDSN()
	if dsn == "" {
		log.Warn("no DB_HOST configured, using in-memory storage")
		return storage.NewMemory(), nil
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.WithError(err).Fatal("failed to connect PostgreSQL")
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Business{},
		&models.Petition{},
		&models.Signature{},
		&models.Response{},
		&models.Feedback{},
		&models.FeedbackState{},
		&models.Badge{},
		&models.Reputation{},
	)
	if err != nil {
		log.WithError(err).Fatal("failed to run migrations")
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.WithError(err).Fatal("failed to connect redis")
		}
	}

	log.Info("database connection established, migrations complete")
	return storage.NewService(db, rdb), rdb
}

func setupNotifier(cfg *config.Config) notify.Notifier {
	var notifiers notify.Multi
	if cfg.SMTPHost != "" {
		notifiers = append(notifiers, notify.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom))
	}
	if cfg.TelegramBotToken != "" {
		alerter, err := notify.NewOpsAlerter(cfg.TelegramBotToken, cfg.TelegramOpsChat)
		if err != nil {
			log.WithError(err).Fatal("failed to start telegram ops alerter")
		}
		notifiers = append(notifiers, alerter)
	}
	if len(notifiers) == 0 {
		log.Warn("no notification channel configured, notifications are discarded")
		return notify.Nop{}
	}
	return notifiers
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn("no .env file loaded")
	}

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}
	if level, err := log.ParseLevel(cfg.AppLogLevel); err == nil {
		log.SetLevel(level)
	}

	log.Info("starting VoxPop backend")

	store, rdb := setupStorage(cfg)
	notifier := setupNotifier(cfg)

	petitions := petition.NewRegistry(store, cfg.DefaultSignatureThreshold)
	signatures := signature.NewLedger(store)
	responses := response.NewGate(store, petitions)
	fb := feedback.NewAggregator(store, cfg.RatingMin, cfg.RatingMax)
	badges := badge.NewRegistry(store)
	rep := reputation.NewLedger(store)
	businesses := business.NewService(store, notifier)

	orch := workflow.New(store, petitions, signatures, responses, fb, badges, rep,
		notifier, workflow.Config{
			AwardThreshold: cfg.AwardThreshold,
			MinimumRating:  cfg.MinimumRating,
		})

	hub := events.NewHub()
	go hub.Run()
	if rdb != nil {
		hub.StartPubSubListener(rdb)
	}

	r := gin.Default()
	h := handler.NewHandler(store, orch, petitions, signatures, responses, fb,
		badges, rep, businesses, hub, cfg.JWTSecret)
	h.RegisterRoutes(r)

	server := &http.Server{
		Addr:           cfg.HTTPAddr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.WithField("addr", cfg.HTTPAddr).Info("VoxPop backend ready")
	log.Fatal(server.ListenAndServe())
}
