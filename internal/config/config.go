package config

import "os"

type Config struct {
	Server   ServerConfig
	Auth     AuthConfig
	Postgres PostgresConfig
}

type ServerConfig struct {
	Port        string
	CORSOrigins string
}

type AuthConfig struct {
	// JWTSecret is optional; when empty a random process-wide key is
	// generated at startup and all tokens verify against that instance.
	JWTSecret        string
	JWTAccessTTL     string
	JWTRefreshTTL    string
	MaxLoginAttempts string
	LockDuration     string
}

type PostgresConfig struct {
	DatabaseURL string
	Host        string
	Port        string
	User        string
	Password    string
	Database    string
	SSLMode     string
}

func Load() Config {
	return Config{
		Server: ServerConfig{
			Port:        getenv("PORT", "8080"),
			CORSOrigins: os.Getenv("CORS_ORIGINS"),
		},
		Auth: AuthConfig{
			JWTSecret:        os.Getenv("JWT_SECRET"),
			JWTAccessTTL:     getenv("JWT_ACCESS_TTL", "3600s"),
			JWTRefreshTTL:    getenv("JWT_REFRESH_TTL", "604800s"),
			MaxLoginAttempts: getenv("MAX_LOGIN_ATTEMPTS", "5"),
			LockDuration:     getenv("LOCK_DURATION", "30m"),
		},
		Postgres: PostgresConfig{
			DatabaseURL: os.Getenv("DATABASE_URL"),
			Host:        getenv("PGHOST", "localhost"),
			Port:        getenv("PGPORT", "5432"),
			User:        os.Getenv("PGUSER"),
			Password:    os.Getenv("PGPASSWORD"),
			Database:    os.Getenv("PGDATABASE"),
			SSLMode:     getenv("PGSSLMODE", "disable"),
		},
	}
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
