package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int
	Environment string
	ServiceName string
	Version     string
	LogLevel    string
	LogFormat   string
	LogDir      string

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	DBMaxConns        int
	DBMaxConnIdleTime time.Duration
	DBMaxConnLifetime time.Duration

	APIKey         string   // API key for authenticating callers of the HTTP surface
	TrustedProxies []string // proxies whose X-Forwarded-For headers are honored

	// Remote collection API settings
	NotionBaseURL     string
	NotionVersion     string
	NotionRequestRate float64 // requests per second, externally imposed budget

	// Scheduling settings
	SchedulerTick time.Duration // how often the scheduler looks for due configs
	SyncWorkers   int
	SyncQueueSize int
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", DefaultEnvironment),
		ServiceName: getEnv("SERVICE_NAME", DefaultServiceName),
		Version:     getEnv("VERSION", DefaultVersion),
		LogLevel:    getEnv("LOG_LEVEL", DefaultLogLevel),
		LogFormat:   getEnv("LOG_FORMAT", DefaultLogFormat),
		LogDir:      getEnv("LOG_DIR", DefaultLogDir),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  getEnv("DB_PASSWORD", "postgres"),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBName:      getEnv("DB_NAME", DefaultDBName),
		APIKey:      getEnv("API_KEY", ""),

		DBMaxConns:        getEnvAsInt("DB_MAX_CONNS", DefaultDBMaxConns),
		DBMaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", DefaultDBMaxConnIdleTime),
		DBMaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", DefaultDBMaxConnLifetime),

		NotionBaseURL: getEnv("NOTION_BASE_URL", DefaultNotionBaseURL),
		NotionVersion: getEnv("NOTION_VERSION", DefaultNotionVersion),
	}

	port, err := strconv.Atoi(getEnv("PORT", DefaultPort))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	rateStr := getEnv("NOTION_REQUEST_RATE", DefaultNotionRequestRate)
	rate, err := strconv.ParseFloat(rateStr, 64)
	if err != nil || rate <= 0 {
		return nil, fmt.Errorf("invalid NOTION_REQUEST_RATE value: %q", rateStr)
	}
	cfg.NotionRequestRate = rate

	tickStr := getEnv("SCHEDULER_TICK_SECONDS", DefaultSchedulerTickSeconds)
	tickSeconds, err := strconv.Atoi(tickStr)
	if err != nil || tickSeconds <= 0 {
		return nil, fmt.Errorf("invalid SCHEDULER_TICK_SECONDS value: %q", tickStr)
	}
	cfg.SchedulerTick = time.Duration(tickSeconds) * time.Second

	workersStr := getEnv("SYNC_WORKERS", DefaultSyncWorkers)
	workers, err := strconv.Atoi(workersStr)
	if err != nil || workers <= 0 {
		return nil, fmt.Errorf("invalid SYNC_WORKERS value: %q", workersStr)
	}
	cfg.SyncWorkers = workers

	queueStr := getEnv("SYNC_QUEUE_SIZE", DefaultSyncQueueSize)
	queueSize, err := strconv.Atoi(queueStr)
	if err != nil || queueSize <= 0 {
		return nil, fmt.Errorf("invalid SYNC_QUEUE_SIZE value: %q", queueStr)
	}
	cfg.SyncQueueSize = queueSize

	if proxies := getEnv("TRUSTED_PROXIES", ""); proxies != "" {
		for _, p := range strings.Split(proxies, ",") {
			if p = strings.TrimSpace(p); p != "" {
				cfg.TrustedProxies = append(cfg.TrustedProxies, p)
			}
		}
	}

	// Validate API key is set
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API_KEY environment variable must be set for security")
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an int or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// getEnvAsDuration retrieves an environment variable as a duration or returns a default value
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
