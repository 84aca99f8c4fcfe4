package cmd

import (
	"context"
	"fmt"
	"time"

	"arcade/application"
	"arcade/config"
	"arcade/database"
	"arcade/domain/interfaces"
	"arcade/domain/services"
	"arcade/infrastructure"
	"arcade/infrastructure/observability"
	"arcade/repository"
	"arcade/web"

	log "github.com/sirupsen/logrus"
)

// ConfigureLogging applies the configured log level and format
func ConfigureLogging(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.IsProduction() {
		log.SetFormatter(&log.JSONFormatter{})
	}
}

// Run initializes and starts the application
func Run(ctx context.Context) error {
	cfg := config.Get()
	ConfigureLogging(cfg)

	log.Println("Starting arcade...")

	// Initialize metrics
	if err := observability.InitializeGlobalMetrics(ctx, cfg); err != nil {
		log.WithError(err).Warn("Metrics disabled")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := observability.ShutdownGlobalMetrics(shutdownCtx); err != nil {
			log.WithError(err).Error("Failed to flush metrics")
		}
	}()

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL(), PoolOptions(cfg))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	log.Println("Database connection established successfully")

	// Initialize NATS; without servers events stay in-process
	var natsClient *infrastructure.NATSClient
	if cfg.NATSServers != "" {
		log.Println("Connecting to NATS...")
		natsClient = infrastructure.NewNATSClient(cfg.NATSServers)
		if err := natsClient.Connect(ctx); err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		defer natsClient.Close()
		log.Println("NATS connection established successfully")
	} else {
		log.Warn("NATS_SERVERS not set, domain events and chat stay in-process and external game outcomes are disabled")
	}

	eventPublisher := infrastructure.NewNATSEventPublisher(natsClient, infrastructure.NewEventSubjectMapper())
	if err := eventPublisher.EnsureDomainEventStream(); err != nil {
		return fmt.Errorf("failed to ensure domain event stream: %w", err)
	}

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db, infrastructure.TransactionalPublisherFactory(eventPublisher))

	// Initialize Redis strike counter
	log.Println("Connecting to Redis...")
	redisClient, err := infrastructure.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return err
	}
	defer redisClient.Close()
	strikes := infrastructure.NewRedisStrikeCounter(redisClient, cfg.ChatStrikeWindow)
	log.Println("Redis connection established successfully")

	// Upload storage is optional
	var storage interfaces.FileStorage
	if cfg.S3Bucket != "" {
		s3Storage, err := infrastructure.NewS3FileStorage(ctx, infrastructure.S3Options{
			Bucket:    cfg.S3Bucket,
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize upload storage: %w", err)
		}
		storage = s3Storage
	} else {
		log.Warn("S3_BUCKET not set, uploads are disabled")
	}

	alerts, err := buildAlertSink(cfg)
	if err != nil {
		return err
	}

	// Initialize application flows
	log.Println("Initializing application...")
	locker := application.NewAccountLocker()
	rewards := services.UniformRewardSource{}

	ledger := application.NewLedger(uowFactory, locker, rewards, cfg.StorageTimeout)
	accounts := application.NewAccounts(application.AccountsConfig{
		UnitOfWorkFactory: uowFactory,
		Locker:            locker,
		Verifier:          infrastructure.NewBcryptCredentialVerifier(repository.NewAccountRepository(db)),
		Hasher:            infrastructure.NewBcryptHasher(),
		Sessions:          infrastructure.NewJWTSessionIssuer(cfg.JWTSecret, cfg.SessionTTL),
		Storage:           storage,
		Rewards:           rewards,
		PublicIDs:         services.RandomPublicIDs{},
		Timeout:           cfg.StorageTimeout,
	})
	admin := application.NewAdminConsole(uowFactory, locker, cfg.StorageTimeout)
	chat := application.NewChat(uowFactory, strikes, admin, cfg.ChatStrikeLimit, cfg.StorageTimeout)
	inbox := application.NewNotifications(uowFactory, cfg.StorageTimeout)

	dispatcher := application.NewNotificationDispatcher(uowFactory, cfg.NotificationQueueSize, cfg.StorageTimeout)
	dispatcher.Start(ctx)
	defer dispatcher.Stop()

	application.RegisterApplicationSubscriptions(eventPublisher, dispatcher, infrastructure.NewNATSChatRelay(natsClient).HandleEvent)

	if cfg.AdminUsername != "" && cfg.AdminPassword != "" {
		if _, err := accounts.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			return fmt.Errorf("failed to ensure admin account: %w", err)
		}
	}

	if natsClient != nil {
		listener := infrastructure.NewOutcomeListener(natsClient, application.NewOutcomeHandler(ledger))
		if err := listener.Start(); err != nil {
			return err
		}
	}

	scheduler, err := application.NewScheduler(uowFactory, alerts, cfg.PendingAlertThreshold, cfg.StorageTimeout)
	if err != nil {
		return err
	}
	if err := scheduler.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := scheduler.Stop(); err != nil {
			log.WithError(err).Error("Failed to stop scheduler")
		}
	}()
	log.Println("Application initialized successfully")

	// Health and HTTP API
	health := infrastructure.NewHealthServer()
	if err := health.Start(cfg.GRPCHealthAddr); err != nil {
		return err
	}
	defer health.Stop()

	server := web.NewServer(web.Dependencies{
		Accounts:      accounts,
		Ledger:        ledger,
		Admin:         admin,
		Chat:          chat,
		Notifications: inbox,
	}, cfg.AllowedOrigins)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Listen(cfg.HTTPAddr)
	}()
	health.SetServing(true)

	log.Printf("Arcade is running in %s mode...", cfg.Environment)
	select {
	case <-ctx.Done():
	case err := <-serverErr:
		if err != nil {
			log.WithError(err).Error("HTTP API stopped")
		}
	}

	// Cleanup resources
	log.Println("Shutting down arcade...")
	health.SetServing(false)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Error shutting down HTTP API")
	}

	log.Println("Shutdown completed")
	return nil
}

// PoolOptions derives the connection pool sizing from config
func PoolOptions(cfg *config.Config) database.PoolOptions {
	return database.PoolOptions{
		MaxConns:         int32(cfg.DatabaseMaxConns),
		MinConns:         int32(cfg.DatabaseMinConns),
		MaxConnIdleTime:  cfg.DatabaseMaxConnIdleTime,
		MaxConnLifetime:  cfg.DatabaseMaxConnLifetime,
		StatementTimeout: cfg.StorageTimeout,
	}
}

func buildAlertSink(cfg *config.Config) (interfaces.AlertSink, error) {
	var sinks []interfaces.AlertSink

	if cfg.DiscordToken != "" && cfg.DiscordAlertChannelID != "" {
		discord, err := infrastructure.NewDiscordAlertSink(cfg.DiscordToken, cfg.DiscordAlertChannelID)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Discord alerts: %w", err)
		}
		sinks = append(sinks, discord)
	}

	if cfg.TelegramToken != "" && cfg.TelegramAdminChatID != 0 {
		telegram, err := infrastructure.NewTelegramAlertSink(cfg.TelegramToken, cfg.TelegramAdminChatID)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Telegram alerts: %w", err)
		}
		sinks = append(sinks, telegram)
	}

	return infrastructure.NewMultiAlertSink(sinks...), nil
}
