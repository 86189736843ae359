package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"

	StoreMemory = "memory"
	StoreRedis  = "redis"
)

type Config struct {
	Env      string
	Port     string
	LogLevel string

	DBDriver    string
	DatabaseURL string

	SessionSecret string
	SessionStore  string
	SessionTTL    time.Duration
	CookieSecure  bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	BcryptCost int
}

// MustLoad reads the environment (and .env, if present) or exits the process.
func MustLoad() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

// Load builds a Config from the current process environment.
func Load() (Config, error) {
	cfg := Config{
		Env:           strings.ToLower(getenv("APP_ENV", EnvLocal)),
		Port:          getenv("PORT", "8080"),
		LogLevel:      strings.TrimSpace(os.Getenv("LOG_LEVEL")),
		DBDriver:      strings.ToLower(getenv("DB_DRIVER", DriverSQLite)),
		DatabaseURL:   strings.TrimSpace(os.Getenv("DATABASE_URL")),
		SessionSecret: strings.TrimSpace(os.Getenv("SESSION_SECRET")),
		SessionStore:  strings.ToLower(getenv("SESSION_STORE", StoreMemory)),
		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
	}

	switch cfg.Env {
	case EnvLocal, EnvDev, EnvProd:
	default:
		return Config{}, fmt.Errorf("unknown APP_ENV %q", cfg.Env)
	}

	if cfg.SessionSecret == "" {
		return Config{}, errors.New("SESSION_SECRET is not set")
	}

	switch cfg.DBDriver {
	case DriverSQLite:
		if cfg.DatabaseURL == "" {
			cfg.DatabaseURL = "todo.db"
		}
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			cfg.DatabaseURL = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
				os.Getenv("DB_HOST"),
				os.Getenv("DB_USER"),
				os.Getenv("DB_PASSWORD"),
				os.Getenv("DB_NAME"),
				os.Getenv("DB_PORT"),
			)
		}
	case DriverMySQL:
		if cfg.DatabaseURL == "" {
			return Config{}, errors.New("DATABASE_URL is required for the mysql driver")
		}
	default:
		return Config{}, fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
	}

	switch cfg.SessionStore {
	case StoreMemory, StoreRedis:
	default:
		return Config{}, fmt.Errorf("unknown SESSION_STORE %q", cfg.SessionStore)
	}

	var err error
	if cfg.RedisDB, err = getint("REDIS_DB", 0); err != nil {
		return Config{}, err
	}

	hours, err := getint("SESSION_TTL_HOURS", 24)
	if err != nil {
		return Config{}, err
	}
	if hours <= 0 {
		return Config{}, fmt.Errorf("SESSION_TTL_HOURS must be positive, got %d", hours)
	}
	cfg.SessionTTL = time.Duration(hours) * time.Hour

	if cfg.BcryptCost, err = getint("BCRYPT_COST", bcrypt.DefaultCost); err != nil {
		return Config{}, err
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		return Config{}, fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	if v := strings.TrimSpace(os.Getenv("COOKIE_SECURE")); v != "" {
		if cfg.CookieSecure, err = strconv.ParseBool(v); err != nil {
			return Config{}, fmt.Errorf("invalid COOKIE_SECURE: %w", err)
		}
	}

	return cfg, nil
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getint(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
