package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"freeshare/internal/app/commands"
	adsapp "freeshare/internal/app/handlers/ads"
	chatapp "freeshare/internal/app/handlers/chat"
	notifapp "freeshare/internal/app/handlers/notifications"
	resapp "freeshare/internal/app/handlers/reservation"
	"freeshare/internal/app/middleware"
	appoutbox "freeshare/internal/app/outbox"
	"freeshare/internal/app/policies"
	"freeshare/internal/app/queries"
	authsvc "freeshare/internal/app/services/auth"
	"freeshare/internal/app/uow"
	domainauth "freeshare/internal/domain/auth"
	domainuser "freeshare/internal/domain/user"
	"freeshare/internal/infra/broker/kafka"
	"freeshare/internal/infra/config"
	mongodb "freeshare/internal/infra/db/mongo"
	"freeshare/internal/infra/geocode"
	ginserver "freeshare/internal/infra/http/gin"
	"freeshare/internal/infra/obs"
	infraoutbox "freeshare/internal/infra/outbox"
	"freeshare/internal/infra/security"
	"freeshare/internal/infra/storage/memory"
	redisstore "freeshare/internal/infra/storage/redis"
	"freeshare/internal/infra/storage/s3"
	"freeshare/internal/infra/stream"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	logger := obs.NewLogger(cfg.Env)
	if err != nil {
		logger.Error("configuration invalid", "error", err)
		os.Exit(1)
	}

	app, err := buildApplication(cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer app.close(logger)

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: app.ready,
	}, app.handlers)

	go func() {
		if err := app.worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("outbox worker stopped", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageMode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers ginserver.Handlers
	worker   *infraoutbox.Worker
	ready    func() error
	closers  []func() error
}

func (a application) close(logger *slog.Logger) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logger.Warn("shutdown cleanup failed", "error", err)
		}
	}
}

func buildApplication(cfg config.Config, logger *slog.Logger) (application, error) {
	var app application

	var (
		factory     uow.UoWFactory
		box         appoutbox.Outbox
		eventStore  infraoutbox.EventStore
		users       domainuser.Repository
		sessions    domainauth.SessionStore
		idempotency middleware.IdempotencyStore
	)

	switch cfg.StorageMode {
	case "mongo":
		client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return app, err
		}
		app.closers = append(app.closers, func() error { return client.Close(context.Background()) })
		factory = mongodb.Factory{
			DB:                client.DB,
			AdsRepo:           mongodb.NewAdRepository(client.DB),
			ReservationsRepo:  mongodb.NewReservationRepository(client.DB),
			ChatsRepo:         mongodb.NewChatRepository(client.DB),
			NotificationsRepo: mongodb.NewNotificationRepository(client.DB),
		}
		store := infraoutbox.NewStore(client.DB)
		box, eventStore = store, store
		users = mongodb.NewUserRepository(client.DB)
		sessions = mongodb.NewSessionStore(client.DB)
		idempotency = mongodb.NewIdempotencyStore(client.DB, cfg.IdempotencyTTL)
		app.ready = func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(pingCtx)
		}
	default:
		logger.Warn("using in-memory storage, data will not survive restarts")
		factory = memory.NewFactory()
		store := memory.NewOutboxStore()
		box, eventStore = store, store
		users = memory.NewUserRepository()
		sessions = memory.NewSessionStore()
		idempotency = memory.NewIdempotencyStore(cfg.IdempotencyTTL)
		app.ready = func() error { return nil }
	}

	if cfg.RedisAddr != "" {
		redisClient := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr})
		app.closers = append(app.closers, redisClient.Close)
		idempotency = redisstore.NewIdempotencyStore(redisClient, cfg.IdempotencyTTL)
	}

	authService := authsvc.NewService(users, sessions, security.BcryptHasher{}, security.RandomTokenGenerator{}, cfg.SessionTTL)

	var images policies.ImageStore = s3.NoopStore{}
	if cfg.S3Endpoint != "" {
		s3Client, err := s3.NewClient(cfg.S3Endpoint, cfg.S3UseSSL, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicEndpoint, logger)
		if err != nil {
			return app, err
		}
		images = s3Client
	}

	geocoder := geocode.NewClient(cfg.GeocodeURL, cfg.GeocodeTimeout)
	hub := stream.NewHub(logger, nil)

	producers := []infraoutbox.Producer{hub}
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
		if err != nil {
			return app, err
		}
		app.closers = append(app.closers, producer.Close)
		producers = append(producers, producer)
	}

	app.worker = &infraoutbox.Worker{
		Store:       eventStore,
		Producer:    infraoutbox.Fanout{Producers: producers},
		Interval:    cfg.OutboxPollInterval,
		TopicPrefix: cfg.KafkaTopicPrefix,
	}

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler(commandBus, adsapp.CreateAdCommand{}.Key(), adsapp.NewCreateAdHandler(factory, box, geocoder, logger))
	commands.RegisterHandler(commandBus, adsapp.UpdateAdCommand{}.Key(), adsapp.NewUpdateAdHandler(factory, box))
	commands.RegisterHandler(commandBus, adsapp.DeleteAdCommand{}.Key(), adsapp.NewDeleteAdHandler(factory, images, logger))
	commands.RegisterHandler(commandBus, resapp.CreateReservationCommand{}.Key(), resapp.NewCreateReservationHandler(factory, box))
	commands.RegisterHandler(commandBus, resapp.JoinWaitingListCommand{}.Key(), resapp.NewJoinWaitingListHandler(factory, box))
	commands.RegisterHandler(commandBus, resapp.ClaimStreetFindCommand{}.Key(), resapp.NewClaimStreetFindHandler(factory, box))
	commands.RegisterHandler(commandBus, resapp.UpdateStatusCommand{}.Key(), resapp.NewUpdateStatusHandler(factory, box))
	commands.RegisterHandler(commandBus, chatapp.CreateSessionCommand{}.Key(), chatapp.NewCreateSessionHandler(factory, box))
	commands.RegisterHandler(commandBus, chatapp.SendMessageCommand{}.Key(), chatapp.NewSendMessageHandler(factory, box))
	commands.RegisterHandler(commandBus, chatapp.CloseSessionCommand{}.Key(), chatapp.NewCloseSessionHandler(factory, box))
	commands.RegisterHandler(commandBus, chatapp.CompleteExchangeCommand{}.Key(), chatapp.NewCompleteExchangeHandler(factory, box))
	commands.RegisterHandler(commandBus, notifapp.MarkReadCommand{}.Key(), notifapp.NewMarkReadHandler(factory))

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, adsapp.GetAdQuery{}.Key(), adsapp.NewGetAdHandler(factory))
	queries.RegisterHandler(queryBus, adsapp.ListAdsQuery{}.Key(), adsapp.NewListAdsHandler(factory))
	queries.RegisterHandler(queryBus, adsapp.CompletedCountQuery{}.Key(), adsapp.NewCompletedCountHandler(factory))
	queries.RegisterHandler(queryBus, resapp.ListByAdQuery{}.Key(), resapp.NewListByAdHandler(factory))
	queries.RegisterHandler(queryBus, resapp.ListByRequesterQuery{}.Key(), resapp.NewListByRequesterHandler(factory))
	queries.RegisterHandler(queryBus, chatapp.ListSessionsQuery{}.Key(), chatapp.NewListSessionsHandler(factory))
	queries.RegisterHandler(queryBus, chatapp.ListMessagesQuery{}.Key(), chatapp.NewListMessagesHandler(factory))
	queries.RegisterHandler(queryBus, notifapp.ListQuery{}.Key(), notifapp.NewListHandler(factory))
	queries.RegisterHandler(queryBus, notifapp.UnreadCountQuery{}.Key(), notifapp.NewUnreadCountHandler(factory))

	commandPipeline := middleware.ChainCommands(
		commandBus,
		middleware.Validation(middleware.SelfValidator{}),
		middleware.Idempotency(idempotency, nil),
		middleware.Transaction(factory, nil),
		middleware.OutboxFlush(box),
	)
	queryPipeline := middleware.ChainQueries(queryBus)

	authMW := ginserver.AuthMiddleware{Service: authService, Logger: logger}
	app.handlers = ginserver.Handlers{
		Ads:            ginserver.AdHandler{Commands: commandPipeline, Queries: queryPipeline},
		Reservations:   ginserver.ReservationHandler{Commands: commandPipeline, Queries: queryPipeline},
		Chats:          ginserver.ChatHandler{Commands: commandPipeline, Queries: queryPipeline},
		Notifications:  ginserver.NotificationHandler{Commands: commandPipeline, Queries: queryPipeline},
		Auth:           ginserver.AuthHandler{Service: authService, Logger: logger},
		Images:         ginserver.ImageHandler{Store: images},
		Stream:         ginserver.StreamHandler{Hub: hub, Logger: logger},
		AuthMiddleware: authMW.Handle,
	}
	return app, nil
}
