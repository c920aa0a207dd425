package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Storage and session driver names.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// DefaultSessionSecret signs tokens when SESSION_SECRET is unset. Development only.
const DefaultSessionSecret = "supersecretjwtkey"

type Config struct {
	Port                    string
	Env                     string
	StorageDriver           string
	PostgresConnStr         string
	SessionDriver           string
	MongoURI                string
	MongoDatabase           string
	SessionSecret           string
	SessionTTL              time.Duration
	SessionCheckPeriod      time.Duration
	FirebaseCredentialsPath string
	FirebaseProjectID       string

	// EnvFileLoaded is false when no .env file was found.
	EnvFileLoaded bool
}

// Load reads an optional .env file, then the environment.
func Load() *Config {
	envFileErr := godotenv.Load()

	cfg := &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		StorageDriver:           getEnv("STORAGE_DRIVER", DriverMemory),
		PostgresConnStr:         getEnv("POSTGRES_CONN_STR", ""),
		SessionDriver:           getEnv("SESSION_DRIVER", DriverMemory),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDatabase:           getEnv("MONGO_DATABASE", "classforum"),
		SessionSecret:           getEnv("SESSION_SECRET", DefaultSessionSecret),
		SessionTTL:              getDuration("SESSION_TTL", 7*24*time.Hour),
		SessionCheckPeriod:      getDuration("SESSION_CHECK_PERIOD", 24*time.Hour),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		FirebaseProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
	}
	cfg.EnvFileLoaded = envFileErr == nil
	return cfg
}

// Validate rejects settings that are only safe in development
func (c *Config) Validate() error {
	if !c.IsDevelopment() && c.SessionSecret == DefaultSessionSecret {
		return errors.Errorf("SESSION_SECRET must be set when ENV=%s", c.Env)
	}
	return nil
}

// IsDevelopment reports whether the server runs with development defaults.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return defaultValue
}
