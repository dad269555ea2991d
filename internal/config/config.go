// Package config читает настройки из окружения и необязательного файла.
// Переменные окружения перекрывают файл; изменение файла перечитывается на лету.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

type Config struct {
	ServerPort          string        `mapstructure:"SERVER_PORT"`
	GinMode             string        `mapstructure:"GIN_MODE"`
	DBDriver            string        `mapstructure:"DB_DRIVER"`
	DBDSN               string        `mapstructure:"DB_DSN"`
	DbHost              string        `mapstructure:"POSTGRES_HOST"`
	DbPort              string        `mapstructure:"POSTGRES_PORT"`
	DbUser              string        `mapstructure:"POSTGRES_USER"`
	DbPas               string        `mapstructure:"POSTGRES_PASSWORD"`
	DbName              string        `mapstructure:"POSTGRES_DB"`
	SQLitePath          string        `mapstructure:"SQLITE_PATH"`
	JWTSecret           string        `mapstructure:"JWT_SECRET"`
	LogLevel            string        `mapstructure:"LOG_LEVEL"`
	LogFormat           string        `mapstructure:"LOG_FORMAT"`
	CheckoutMaxAttempts int           `mapstructure:"CHECKOUT_MAX_ATTEMPTS"`
	CORSOrigins         string        `mapstructure:"CORS_ORIGINS"`
	ShutdownTimeout     time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
}

var defaults = map[string]any{
	"SERVER_PORT":           "9091",
	"GIN_MODE":              "release",
	"DB_DRIVER":             "sqlite",
	"DB_DSN":                "",
	"POSTGRES_HOST":         "localhost",
	"POSTGRES_PORT":         "5432",
	"POSTGRES_USER":         "postgres",
	"POSTGRES_PASSWORD":     "",
	"POSTGRES_DB":           "refuge",
	"SQLITE_PATH":           "refuge.db",
	"JWT_SECRET":            "",
	"LOG_LEVEL":             "info",
	"LOG_FORMAT":            "json",
	"CHECKOUT_MAX_ATTEMPTS": 3,
	"CORS_ORIGINS":          "*",
	"SHUTDOWN_TIMEOUT":      "5s",
}

// Load собирает конфигурацию. path может быть пустым: тогда только окружение и значения по умолчанию.
func Load(path string) (*Config, *viper.Viper, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	cf, err := decode(v)
	if err != nil {
		return nil, nil, err
	}
	return cf, v, nil
}

func decode(v *viper.Viper) (*Config, error) {
	cf := &Config{}
	if err := v.Unmarshal(cf); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cf.Validate(); err != nil {
		return nil, err
	}
	return cf, nil
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case "postgres", "sqlite", "memory":
	default:
		return fmt.Errorf("DB_DRIVER must be postgres, sqlite or memory, got %q", c.DBDriver)
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.CheckoutMaxAttempts < 1 {
		return errors.New("CHECKOUT_MAX_ATTEMPTS must be >= 1")
	}
	return nil
}

// PostgresDSN DB_DSN имеет приоритет над отдельными POSTGRES_* ключами
func (c *Config) PostgresDSN() string {
	if c.DBDSN != "" {
		return c.DBDSN
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DbUser, c.DbPas),
		Host:     c.DbHost + ":" + c.DbPort,
		Path:     c.DbName,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Watch перечитывает файл при изменении и передаёт результат в onChange.
// Без файла ничего не делает; ошибочный файл приходит в onChange как err.
func Watch(v *viper.Viper, onChange func(*Config, error)) {
	if v.ConfigFileUsed() == "" {
		return
	}
	v.OnConfigChange(func(fsnotify.Event) {
		onChange(decode(v))
	})
	v.WatchConfig()
}
