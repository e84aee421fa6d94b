// Package config loads application settings from the environment.
// A .env file in the working directory is honoured when present.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/emilythestrangee/qa-forum/backend/internal/apperror"
)

type ServerConfig struct {
	Port         string
	GinMode      string
	CORSOrigins  []string
	CookieSecure bool
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	LogLevel        string // silent, error, warn, info
	AutoMigrate     bool
}

// DSN returns the key/value connection string understood by pgx and lib/pq.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=UTC",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode,
	)
}

// URL returns the postgres:// form used by golang-migrate.
func (d DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

// AuthConfig holds the signing material for the two credential kinds.
type AuthConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// RedisConfig is optional; an empty Addr disables the tag index cache.
type RedisConfig struct {
	Addr        string
	Password    string
	DB          int
	TagIndexTTL time.Duration
}

type AppConfig struct {
	Server   *ServerConfig
	Database *DatabaseConfig
	Auth     *AuthConfig
	Redis    *RedisConfig
}

// loader collects every problem so a misconfigured deployment reports them all at once.
type loader struct {
	problems []string
}

func (l *loader) required(key string) string {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		l.problems = append(l.problems, fmt.Sprintf("missing required environment variable: %s", key))
		return ""
	}
	return value
}

func (l *loader) optional(key, def string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return def
}

func (l *loader) optionalInt(key string, def int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		l.problems = append(l.problems, fmt.Sprintf("invalid value for %s: expected integer, got %q", key, raw))
		return def
	}
	return n
}

func (l *loader) optionalBool(key string, def bool) bool {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return def
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		l.problems = append(l.problems, fmt.Sprintf("invalid value for %s: expected boolean, got %q", key, raw))
		return def
	}
	return b
}

func (l *loader) optionalDuration(key string, def time.Duration) time.Duration {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		l.problems = append(l.problems, fmt.Sprintf("invalid value for %s: expected duration, got %q", key, raw))
		return def
	}
	return d
}

// Load reads .env (if any) and then the process environment.
func Load() (*AppConfig, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds the configuration from the process environment only.
func FromEnv() (*AppConfig, error) {
	l := &loader{}

	server := &ServerConfig{
		Port:         l.optional("PORT", "8080"),
		GinMode:      l.optional("GIN_MODE", "debug"),
		CORSOrigins:  splitList(l.optional("CORS_ORIGIN", "http://localhost:5173")),
		CookieSecure: l.optionalBool("COOKIE_SECURE", false),
	}

	db := &DatabaseConfig{
		Host:            l.optional("DB_HOST", "localhost"),
		Port:            l.optionalInt("DB_PORT", 5432),
		User:            l.required("DB_USER"),
		Password:        l.required("DB_PASSWORD"),
		Name:            l.required("DB_NAME"),
		SSLMode:         l.optional("DB_SSLMODE", "disable"),
		MaxOpenConns:    l.optionalInt("DB_MAX_OPEN_CONNS", 100),
		MaxIdleConns:    l.optionalInt("DB_MAX_IDLE_CONNS", 10),
		ConnMaxLifetime: l.optionalDuration("DB_CONN_MAX_LIFETIME", time.Hour),
		LogLevel:        l.optional("DB_LOG_LEVEL", "warn"),
		AutoMigrate:     l.optionalBool("DB_AUTO_MIGRATE", false),
	}
	if db.MaxOpenConns < 1 {
		l.problems = append(l.problems, "DB_MAX_OPEN_CONNS must be at least 1")
	}

	auth := &AuthConfig{
		AccessSecret:  l.required("ACCESS_TOKEN_SECRET"),
		RefreshSecret: l.required("REFRESH_TOKEN_SECRET"),
		AccessTTL:     l.optionalDuration("ACCESS_TOKEN_LIFETIME", 15*time.Minute),
		RefreshTTL:    l.optionalDuration("REFRESH_TOKEN_LIFETIME", 7*24*time.Hour),
	}
	if auth.AccessSecret != "" && auth.AccessSecret == auth.RefreshSecret {
		l.problems = append(l.problems, "ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must differ")
	}

	redis := &RedisConfig{
		Addr:        l.optional("REDIS_ADDR", ""),
		Password:    l.optional("REDIS_PASSWORD", ""),
		DB:          l.optionalInt("REDIS_DB", 0),
		TagIndexTTL: l.optionalDuration("TAG_INDEX_TTL", 5*time.Minute),
	}

	if len(l.problems) > 0 {
		return nil, apperror.NewConfigError(
			"configuration errors:\n- "+strings.Join(l.problems, "\n- "), nil)
	}

	return &AppConfig{Server: server, Database: db, Auth: auth, Redis: redis}, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
