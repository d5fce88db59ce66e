package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/yeremiapane/restaurant-pos/utils"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Sync     SyncConfig
	Redis    RedisConfig
	Report   ReportConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port            string
	GinMode         string
	AllowedOrigins  []string
	TrustedProxies  []string
	RateLimitRPS    float64
	RateLimitBurst  int
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Driver       string
	URL          string
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	MaxIdleConns int
	MaxOpenConns int
}

type AuthConfig struct {
	JWTSecret     string
	TokenTTL      time.Duration
	AdminEmail    string
	AdminPassword string
}

type SyncConfig struct {
	ReconcileInterval  time.Duration
	KitchenInterval    time.Duration
	ChangePollInterval time.Duration
	HighlightWindow    time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Channel  string
}

type ReportConfig struct {
	UTCOffset string
}

type LogConfig struct {
	Level string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://127.0.0.1:5500,http://localhost:5173")
	v.SetDefault("TRUSTED_PROXIES", "127.0.0.1")
	v.SetDefault("RATE_LIMIT_RPS", 50)
	v.SetDefault("RATE_LIMIT_BURST", 100)
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")

	v.SetDefault("DB_DRIVER", "mysql")
	v.SetDefault("DB_HOST", "127.0.0.1")
	v.SetDefault("DB_PORT", "3306")
	v.SetDefault("DB_USER", "root")
	v.SetDefault("DB_NAME", "restaurant_pos")
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_MAX_OPEN_CONNS", 100)

	v.SetDefault("JWT_TTL", "24h")
	v.SetDefault("ADMIN_EMAIL", "admin@restaurant.local")

	v.SetDefault("SYNC_RECONCILE_INTERVAL", "5s")
	v.SetDefault("SYNC_KITCHEN_INTERVAL", "3s")
	v.SetDefault("SYNC_CHANGE_POLL_INTERVAL", "1s")
	v.SetDefault("KITCHEN_HIGHLIGHT_WINDOW", "15s")

	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_CHANNEL", "pos:changes")

	v.SetDefault("REPORT_UTC_OFFSET", "-03:00")
	v.SetDefault("LOG_LEVEL", "info")
}

// Load membaca .env (jika ada) lalu environment variable.
// envFile kosong berarti ".env".
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		utils.InfoLogger.Printf("Warning: %s not found, using environment variables only", envFile)
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Port:            v.GetString("PORT"),
			GinMode:         v.GetString("GIN_MODE"),
			AllowedOrigins:  splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
			TrustedProxies:  splitList(v.GetString("TRUSTED_PROXIES")),
			RateLimitRPS:    v.GetFloat64("RATE_LIMIT_RPS"),
			RateLimitBurst:  v.GetInt("RATE_LIMIT_BURST"),
			ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
		},
		Database: DatabaseConfig{
			Driver:       strings.ToLower(v.GetString("DB_DRIVER")),
			URL:          v.GetString("DATABASE_URL"),
			Host:         v.GetString("DB_HOST"),
			Port:         v.GetString("DB_PORT"),
			User:         v.GetString("DB_USER"),
			Password:     v.GetString("DB_PASSWORD"),
			Name:         v.GetString("DB_NAME"),
			MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
			MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		},
		Auth: AuthConfig{
			JWTSecret:     v.GetString("JWT_SECRET"),
			TokenTTL:      v.GetDuration("JWT_TTL"),
			AdminEmail:    v.GetString("ADMIN_EMAIL"),
			AdminPassword: v.GetString("ADMIN_PASSWORD"),
		},
		Sync: SyncConfig{
			ReconcileInterval:  v.GetDuration("SYNC_RECONCILE_INTERVAL"),
			KitchenInterval:    v.GetDuration("SYNC_KITCHEN_INTERVAL"),
			ChangePollInterval: v.GetDuration("SYNC_CHANGE_POLL_INTERVAL"),
			HighlightWindow:    v.GetDuration("KITCHEN_HIGHLIGHT_WINDOW"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			Channel:  v.GetString("REDIS_CHANNEL"),
		},
		Report: ReportConfig{
			UTCOffset: v.GetString("REPORT_UTC_OFFSET"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate memeriksa nilai yang wajib ada
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	switch c.Database.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	if _, err := ParseUTCOffset(c.Report.UTCOffset); err != nil {
		return err
	}
	for name, d := range map[string]time.Duration{
		"SYNC_RECONCILE_INTERVAL":   c.Sync.ReconcileInterval,
		"SYNC_KITCHEN_INTERVAL":     c.Sync.KitchenInterval,
		"SYNC_CHANGE_POLL_INTERVAL": c.Sync.ChangePollInterval,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	return nil
}

// ReportLocation mengembalikan zona waktu tetap untuk laporan keuangan
func (c *Config) ReportLocation() *time.Location {
	loc, err := ParseUTCOffset(c.Report.UTCOffset)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ParseUTCOffset mengubah "-03:00" / "+0700" menjadi zona waktu tetap.
func ParseUTCOffset(offset string) (*time.Location, error) {
	if offset == "" || offset == "Z" {
		return time.UTC, nil
	}
	t, err := time.Parse("-07:00", offset)
	if err != nil {
		t, err = time.Parse("-0700", offset)
		if err != nil {
			return nil, fmt.Errorf("invalid REPORT_UTC_OFFSET %q", offset)
		}
	}
	_, seconds := t.Zone()
	return time.FixedZone(offset, seconds), nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
