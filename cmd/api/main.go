package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	dbadapter "github.com/philipp-moriss/volunteers-backend/internal/adapter/db"
	httpadapter "github.com/philipp-moriss/volunteers-backend/internal/adapter/http"
	"github.com/philipp-moriss/volunteers-backend/internal/adapter/http/handlers"
	httpmiddleware "github.com/philipp-moriss/volunteers-backend/internal/adapter/http/middleware"
	"github.com/philipp-moriss/volunteers-backend/internal/adapter/memory"
	"github.com/philipp-moriss/volunteers-backend/internal/adapter/push"
	"github.com/philipp-moriss/volunteers-backend/internal/adapter/queue"
	"github.com/philipp-moriss/volunteers-backend/internal/app/notify"
	appservice "github.com/philipp-moriss/volunteers-backend/internal/app/service"
	"github.com/philipp-moriss/volunteers-backend/internal/config"
	"github.com/philipp-moriss/volunteers-backend/internal/core/domain"
	"github.com/philipp-moriss/volunteers-backend/internal/core/ports"
	"github.com/philipp-moriss/volunteers-backend/pkg/translator"
)

const memoryDefaultProgramID = "default"

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	// Make zap available to packages that log through zap.L().
	zap.ReplaceGlobals(logger)
	defer func() {
		if err := logger.Sync(); err != nil {
			zap.L().Debug("failed to sync logger", zap.Error(err))
		}
	}()

	cfg := config.LoadConfig()

	translator.InitTranslator(translator.Config{
		TranslationFolder:  cfg.TranslationFolder,
		SupportedLanguages: []string{translator.LanguageHe, translator.LanguageEn, translator.LanguageRu},
		DefaultLanguage:    cfg.DefaultLanguage,
	})

	if cfg.JWTSecret == "" {
		logger.Fatal("JWT_SECRET must be set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		store         ports.Store
		recipients    ports.RecipientRepository
		subscriptions ports.SubscriptionRepository
		cities        notify.CityGroups
		mysqlPinger   handlers.Pinger
	)
	switch cfg.StoreDriver {
	case config.StoreMemory:
		mem := memory.NewStore()
		if cfg.DefaultProgramID == "" {
			cfg.DefaultProgramID = memoryDefaultProgramID
		}
		mem.AddProgram(domain.Program{ID: cfg.DefaultProgramID, Name: "Default"})
		store, recipients, subscriptions, cities = mem, mem, mem, mem.Catalog()
		logger.Warn("using in-memory store, data is lost on restart")
	default:
		db, err := dbadapter.ConnectDB(cfg)
		if err != nil {
			logger.Fatal("failed to connect to mysql", zap.Error(err))
		}
		defer func() {
			if err := db.Close(); err != nil {
				logger.Warn("failed to close mysql connection", zap.Error(err))
			}
		}()
		sqlStore := dbadapter.NewStore(db)
		notifications := dbadapter.NewNotificationRepository(db)
		store, recipients, subscriptions, cities = sqlStore, notifications, notifications, sqlStore.Catalog()
		mysqlPinger = db
	}
	if cfg.DefaultProgramID == "" {
		logger.Warn("DEFAULT_PROGRAM_ID is not set, tasks without a known program will be rejected")
	}

	var sender ports.PushSender = push.LogSender{}
	if cfg.WebPushEnabled() {
		sender = push.NewWebPushSender(push.Config{
			PublicKey:  cfg.VapidPublicKey,
			PrivateKey: cfg.VapidPrivateKey,
			Subject:    cfg.VapidSubject,
		})
	} else {
		logger.Warn("VAPID keys are not set, push notifications are only logged")
	}
	dispatcher := notify.NewDispatcher(notify.NewPushSink(recipients, subscriptions, cities, sender))

	var (
		outbox      ports.Outbox
		redisPinger handlers.Pinger
	)
	if cfg.RedisAddr != "" {
		client, err := queue.NewRedisClient(ctx, queue.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			logger.Warn("redis unavailable, using in-process outbox", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		} else {
			defer func() {
				if err := client.Close(); err != nil {
					logger.Warn("failed to close redis connection", zap.Error(err))
				}
			}()
			redisOutbox := queue.NewRedisOutbox(client, queue.DefaultKey, cfg.NotifyTimeout)
			go redisOutbox.Consume(ctx, dispatcher, cfg.OutboxWorkers)
			outbox = redisOutbox
			redisPinger = handlers.PingFunc(func(ctx context.Context) error {
				return client.Ping(ctx).Err()
			})
		}
	}
	if outbox == nil {
		channelOutbox := notify.NewChannelOutbox(dispatcher, cfg.OutboxBuffer, cfg.OutboxWorkers, cfg.NotifyTimeout)
		defer channelOutbox.Close()
		outbox = channelOutbox
	}

	pointsService := appservice.NewPointsService(store)

	r := gin.New()
	r.Use(gin.Recovery(), httpmiddleware.GinZapMiddleware(logger))
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		logger.Fatal("invalid trusted proxies", zap.Strings("trusted_proxies", cfg.TrustedProxies), zap.Error(err))
	}

	httpadapter.RegisterRoutes(r, httpadapter.Handlers{
		Health:        handlers.NewHealthHandler(cfg.AppName, cfg.AppVersion, mysqlPinger, redisPinger),
		Tasks:         handlers.NewTaskHandler(appservice.NewTaskService(store, pointsService, outbox, cfg.DefaultProgramID)),
		Responses:     handlers.NewTaskResponseHandler(appservice.NewTaskResponseService(store, outbox)),
		Points:        handlers.NewPointsHandler(pointsService),
		Ratings:       handlers.NewRatingHandler(appservice.NewRatingService(store)),
		Notifications: handlers.NewNotificationHandler(notify.NewSubscriptionService(subscriptions)),
	}, []byte(cfg.JWTSecret))

	srv := &http.Server{Addr: ":" + cfg.AppPort, Handler: r}
	logger.Info("starting server", zap.String("addr", srv.Addr), zap.String("store", cfg.StoreDriver))
	if err := serve(ctx, srv, shutdownTimeout); err != nil {
		logger.Error("server stopped with error", zap.Error(err))
		return
	}
	logger.Info("server stopped")
}
