// README: Config loader with env defaults for HTTP, DB, Redis, and settlement settings.
package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTP struct {
		Addr string
	}
	DB struct {
		DSN string
	}
	Redis struct {
		Addr string
	}
	Firebase struct {
		ProjectID       string
		CredentialsFile string
	}
	Maps struct {
		APIKey string
	}
	Settlement struct {
		// PlatformFeePercent is the platform's cut of a settled fare.
		// 0.5 means 0.5%.
		PlatformFeePercent float64
	}
	Ride struct {
		// RestoreWindow bounds how old an active ride may be and still be
		// replayed to a reconnecting client.
		RestoreWindow time.Duration
		// RequestTimeout is how long a ride may sit in requested before the
		// timeout monitor moves it to driver-not-found. Zero disables the
		// monitor.
		RequestTimeout time.Duration
	}
	LogLevel string
}

func Load() (Config, error) {
	var cfg Config
	cfg.HTTP.Addr = envOrDefault("SWIFTRIDE_HTTP_ADDR", ":8080")
	cfg.DB.DSN = os.Getenv("SWIFTRIDE_DB_DSN")
	cfg.Redis.Addr = os.Getenv("SWIFTRIDE_REDIS_ADDR")
	cfg.Firebase.ProjectID = os.Getenv("SWIFTRIDE_FIREBASE_PROJECT_ID")
	cfg.Firebase.CredentialsFile = os.Getenv("SWIFTRIDE_FIREBASE_CREDENTIALS_FILE")
	cfg.Maps.APIKey = os.Getenv("SWIFTRIDE_MAPS_API_KEY")
	cfg.Settlement.PlatformFeePercent = envOrDefaultFloat("PLATFORM_FEE_PERCENT", 0.5)
	cfg.Ride.RestoreWindow = envOrDefaultDuration("SWIFTRIDE_RESTORE_WINDOW", 24*time.Hour)
	cfg.Ride.RequestTimeout = envOrDefaultDuration("SWIFTRIDE_REQUEST_TIMEOUT", 5*time.Minute)
	cfg.LogLevel = envOrDefault("SWIFTRIDE_LOG_LEVEL", "info")
	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return n
		}
	}
	return def
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
