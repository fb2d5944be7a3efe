package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/dishagb/storefront/internal/repository"
)

// Config is assembled from the environment, with a .env file honored when
// present. The remote order backend is optional: when POSTGRES_HOST is
// unset the storefront runs entirely against the local fallback store and
// never attempts network I/O for orders.
type Config struct {
	HTTPPort  string
	Namespace string

	DataDir       string
	RedisAddr     string
	RedisPassword string

	PostgresHost     string
	PostgresPort     int
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	MigrationsDir    string

	AdminToken string

	PollInterval    time.Duration
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func Load() *Config {
	// Missing .env is the normal case outside local development.
	_ = godotenv.Load()

	return &Config{
		HTTPPort:  getEnv("HTTP_PORT", "8080"),
		Namespace: getEnv("STORE_NAMESPACE", "dishagb"),

		DataDir:       getEnv("DATA_DIR", "data"),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		PostgresHost:     getEnv("POSTGRES_HOST", ""),
		PostgresPort:     getEnvInt("POSTGRES_PORT", 5432),
		PostgresUser:     getEnv("POSTGRES_USER", "postgres"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", ""),
		PostgresDB:       getEnv("POSTGRES_DB", "storefront"),
		MigrationsDir:    getEnv("MIGRATIONS_DIR", "migrations"),

		AdminToken: getEnv("ADMIN_TOKEN", ""),

		PollInterval:    getEnvDuration("ORDER_POLL_INTERVAL", 30*time.Second),
		RequestTimeout:  getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

// RemoteConfigured gates whether remote order calls are attempted at all.
func (c *Config) RemoteConfigured() bool {
	return c.PostgresHost != ""
}

func (c *Config) PostgresCredentials() *repository.Credentials {
	return &repository.Credentials{
		Host:              c.PostgresHost,
		Port:              c.PostgresPort,
		User:              c.PostgresUser,
		Password:          c.PostgresPassword,
		DBName:            c.PostgresDB,
		MigrationsDirPath: c.MigrationsDir,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
