package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"arcade/database"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL    string
	DatabaseName   string
	StorageTimeout time.Duration // Upper bound for a single storage round trip

	// Connection pool sizing
	DatabaseMaxConns        int
	DatabaseMinConns        int
	DatabaseMaxConnIdleTime time.Duration
	DatabaseMaxConnLifetime time.Duration

	// HTTP API configuration
	HTTPAddr       string
	GRPCHealthAddr string
	AllowedOrigins string // Comma-separated CORS origins

	// Session configuration
	JWTSecret  string
	SessionTTL time.Duration

	// NATS configuration
	NATSServers string // NATS server addresses (comma-separated)

	// Redis configuration
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Upload storage configuration
	S3Bucket    string
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string

	// Admin alert configuration
	DiscordToken          string
	DiscordAlertChannelID string
	TelegramToken         string
	TelegramAdminChatID   int64

	// Notification queue configuration
	NotificationQueueSize int

	// Chat moderation
	ChatStrikeLimit  int
	ChatStrikeWindow time.Duration

	// Reconciliation backlog alerting
	PendingAlertThreshold int64

	// Default admin account, created on startup if missing
	AdminUsername string
	AdminPassword string
	AdminEmail    string

	// OpenTelemetry configuration
	OTelEnabled              bool
	OTelServiceName          string
	OTelExporterType         string // "console", "otlp" or "none"
	OTelOTLPEndpoint         string
	OTelExportIntervalMillis int

	// Logging
	LogLevel string

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			// In test environment, use a default test config instead of panicking
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// IsProduction reports whether the service runs with production settings
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// load loads configuration from environment variables
func load() (*Config, error) {
	// A missing .env file is fine, the process environment still applies
	_ = godotenv.Load()

	config := &Config{
		// Database
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DatabaseName:   os.Getenv("DATABASE_NAME"),
		StorageTimeout: getDurationWithDefault("STORAGE_TIMEOUT", 5*time.Second),

		DatabaseMaxConns:        getIntWithDefault("DATABASE_MAX_CONNS", 10),
		DatabaseMinConns:        getIntWithDefault("DATABASE_MIN_CONNS", 0),
		DatabaseMaxConnIdleTime: getDurationWithDefault("DATABASE_MAX_CONN_IDLE_TIME", 5*time.Minute),
		DatabaseMaxConnLifetime: getDurationWithDefault("DATABASE_MAX_CONN_LIFETIME", time.Hour),

		// HTTP
		HTTPAddr:       getEnvWithDefault("HTTP_ADDR", ":8080"),
		GRPCHealthAddr: getEnvWithDefault("GRPC_HEALTH_ADDR", ":9090"),
		AllowedOrigins: os.Getenv("ALLOWED_ORIGINS"),

		// Sessions
		JWTSecret:  os.Getenv("JWT_SECRET"),
		SessionTTL: getDurationWithDefault("SESSION_TTL", 24*time.Hour),

		// NATS
		NATSServers: os.Getenv("NATS_SERVERS"),

		// Redis
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getIntWithDefault("REDIS_DB", 0),

		// Uploads
		S3Bucket:    os.Getenv("S3_BUCKET"),
		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    getEnvWithDefault("S3_REGION", "auto"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),

		// Alerts
		DiscordToken:          os.Getenv("DISCORD_TOKEN"),
		DiscordAlertChannelID: os.Getenv("DISCORD_ALERT_CHANNEL_ID"),
		TelegramToken:         os.Getenv("TELEGRAM_TOKEN"),

		NotificationQueueSize: getIntWithDefault("NOTIFICATION_QUEUE_SIZE", 256),

		ChatStrikeLimit:  getIntWithDefault("CHAT_STRIKE_LIMIT", 3),
		ChatStrikeWindow: getDurationWithDefault("CHAT_STRIKE_WINDOW", 24*time.Hour),

		PendingAlertThreshold: int64(getIntWithDefault("PENDING_ALERT_THRESHOLD", 25)),

		AdminUsername: os.Getenv("ADMIN_USERNAME"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		AdminEmail:    getEnvWithDefault("ADMIN_EMAIL", "admin@arcade.local"),

		// OpenTelemetry
		OTelEnabled:              os.Getenv("OTEL_ENABLED") == "true",
		OTelServiceName:          getEnvWithDefault("OTEL_SERVICE_NAME", "arcade"),
		OTelExporterType:         getEnvWithDefault("OTEL_EXPORTER_TYPE", "console"),
		OTelOTLPEndpoint:         getEnvWithDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "otel-collector:4317"),
		OTelExportIntervalMillis: getIntWithDefault("OTEL_EXPORT_INTERVAL_MILLIS", 30000),

		LogLevel: getEnvWithDefault("LOG_LEVEL", "info"),

		// Environment
		Environment: os.Getenv("ENVIRONMENT"),
	}

	if chatID := os.Getenv("TELEGRAM_ADMIN_CHAT_ID"); chatID != "" {
		if parsed, err := strconv.ParseInt(chatID, 10, 64); err == nil {
			config.TelegramAdminChatID = parsed
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if config.JWTSecret == "" {
			return nil, fmt.Errorf("JWT_SECRET is required")
		}
		// If DatabaseName is provided, ensure it's not empty
		if config.DatabaseName != "" && strings.TrimSpace(config.DatabaseName) == "" {
			return nil, fmt.Errorf("DATABASE_NAME cannot be empty when provided")
		}
		if config.RedisAddr == "" {
			return nil, fmt.Errorf("REDIS_ADDR is required")
		}
		if config.DatabaseMaxConns <= 0 || config.DatabaseMinConns < 0 || config.DatabaseMinConns > config.DatabaseMaxConns {
			return nil, fmt.Errorf("DATABASE_MIN_CONNS must be between 0 and DATABASE_MAX_CONNS (%d)", config.DatabaseMaxConns)
		}
		if config.NotificationQueueSize <= 0 {
			return nil, fmt.Errorf("NOTIFICATION_QUEUE_SIZE must be positive")
		}
	}

	return config, nil
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
// This should only be called from test files
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
// This should only be called from test files
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:           "test",
		StorageTimeout:        5 * time.Second,
		JWTSecret:             "test-secret",
		SessionTTL:            time.Hour,
		NotificationQueueSize: 16,
		ChatStrikeLimit:       3,
		ChatStrikeWindow:      24 * time.Hour,
		PendingAlertThreshold: 25,
		OTelServiceName:       "arcade-test",
		OTelExporterType:      "none",
		LogLevel:              "debug",
	}
}
