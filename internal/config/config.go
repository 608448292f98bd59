package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

var (
	// ErrLoadConfig возвращается, когда файл конфигурации не удалось прочитать
	ErrLoadConfig = errors.New("config: failed to load")

	// ErrInvalidConfig возвращается, когда конфигурация не прошла проверку
	ErrInvalidConfig = errors.New("config: invalid")
)

// Config конфигурация приложения
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Logs       LogsConfig       `toml:"logs"`
	Database   DatabaseConfig   `toml:"database"`
	BookingAPI BookingAPIConfig `toml:"booking_api"`
	Redis      RedisConfig      `toml:"redis"`
	Session    SessionConfig    `toml:"session"`
	Metrics    MetricsConfig    `toml:"metrics"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

type BookingAPIConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
	CacheTTL int    `toml:"cache_ttl"` // секунды
}

type SessionConfig struct {
	DefaultMaxPartySize    int    `toml:"default_max_party_size"`
	ConfirmationResetDelay int    `toml:"confirmation_reset_delay"` // секунды, 0 отключает сброс
	DraftTTL               int    `toml:"draft_ttl"`                // часы
	PurgeInterval          int    `toml:"purge_interval"`           // минуты
	Timezone               string `toml:"timezone"`
}

// Location часовой пояс, в котором считается "сегодня"
func (s *SessionConfig) Location() (*time.Location, error) {
	if s.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(s.Timezone)
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// Load читает конфигурацию из toml файла
// Перед чтением подгружается .env, если он есть; секреты из окружения перекрывают файл
func Load(path string) (*Config, error) {
	// .env необязателен
	_ = godotenv.Load()

	cfg := defaults()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, path, err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    30,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		BookingAPI: BookingAPIConfig{
			Timeout: 10,
		},
		Redis: RedisConfig{
			Addr:     "localhost:6379",
			Prefix:   "booking-flow",
			CacheTTL: 300,
		},
		Session: SessionConfig{
			DefaultMaxPartySize:    20,
			ConfirmationResetDelay: 30,
			DraftTTL:               24,
			PurgeInterval:          60,
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "booking_flow",
		},
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("BOOKING_API_URL"); v != "" {
		c.BookingAPI.URL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logs.Level = v
	}
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	var problems []string

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		problems = append(problems, "server.http_port must be in 1..65535")
	}
	switch strings.ToLower(c.Logs.Level) {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("logs.level %q is not one of debug, info, warn, error", c.Logs.Level))
	}
	if c.Database.Host == "" || c.Database.DBName == "" || c.Database.User == "" {
		problems = append(problems, "database.host, database.user and database.dbname are required")
	}
	if c.BookingAPI.URL == "" {
		problems = append(problems, "booking_api.url is required")
	}
	if c.BookingAPI.Timeout <= 0 {
		problems = append(problems, "booking_api.timeout must be positive")
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		problems = append(problems, "redis.addr is required when redis is enabled")
	}
	if c.Session.DefaultMaxPartySize < 1 {
		problems = append(problems, "session.default_max_party_size must be at least 1")
	}
	if c.Session.ConfirmationResetDelay < 0 {
		problems = append(problems, "session.confirmation_reset_delay must not be negative")
	}
	if _, err := c.Session.Location(); err != nil {
		problems = append(problems, fmt.Sprintf("session.timezone: %v", err))
	}
	if c.Metrics.Enabled && c.Metrics.Path == "" {
		problems = append(problems, "metrics.path is required when metrics are enabled")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
