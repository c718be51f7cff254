package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	App   AppConfig   `mapstructure:"app"`
	DB    DBConfig    `mapstructure:"db"`
	GRPC  GRPCConfig  `mapstructure:"grpc"`
	HTTP  HTTPConfig  `mapstructure:"http"`
	Redis RedisConfig `mapstructure:"redis"`
	AMQP  AMQPConfig  `mapstructure:"amqp"`
}

type AppConfig struct {
	Env      string `mapstructure:"env"`
	TimeZone string `mapstructure:"timezone"` // таймзона салона, одна на всё приложение
	LogLevel string `mapstructure:"log_level"`
}

type DBConfig struct {
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	Name            string `mapstructure:"name"`
	SSLMode         string `mapstructure:"sslmode"`
	TimeZone        string `mapstructure:"timezone"`
	SQLitePath      string `mapstructure:"sqlite_path"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifeTime int    `mapstructure:"conn_max_lifetime_min"` // минут
}

type GRPCConfig struct {
	Addr string `mapstructure:"addr"`
}

type HTTPConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	AllowOrigins []string      `mapstructure:"allow_origins"` // CORS, через запятую
}

// RedisConfig — кэш занятых слотов. Пустой Addr отключает кэш.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	SlotsTTL time.Duration `mapstructure:"slots_ttl"`
}

// AMQPConfig — публикация событий бронирования. Пустой URL отключает публикацию.
type AMQPConfig struct {
	URL   string `mapstructure:"url"`
	Queue string `mapstructure:"queue"`
}

// Load читает .env (если есть) и переменные окружения. Ключи вида db.host
// берутся из DB_HOST и т.д.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.timezone", "Europe/London")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("db.driver", DriverPostgres)
	v.SetDefault("db.host", "postgres")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "booking")
	v.SetDefault("db.password", "booking")
	v.SetDefault("db.name", "booking_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("db.sqlite_path", "booking.db")
	v.SetDefault("db.max_open_conns", 10)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime_min", 30)

	v.SetDefault("grpc.addr", ":50051")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.read_timeout", 10*time.Second)
	v.SetDefault("http.write_timeout", 30*time.Second)
	v.SetDefault("http.allow_origins", []string{"*"})

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.slots_ttl", 30*time.Second)

	v.SetDefault("amqp.url", "")
	v.SetDefault("amqp.queue", "booking.events")
}

// минимальная валидация
func (c *Config) validate() error {
	switch c.DB.Driver {
	case DriverPostgres:
		if c.DB.Host == "" || c.DB.User == "" || c.DB.Name == "" {
			return fmt.Errorf("invalid DB config: host/user/name must not be empty")
		}
	case DriverSQLite:
		if c.DB.SQLitePath == "" {
			return fmt.Errorf("invalid DB config: sqlite path must not be empty")
		}
	default:
		return fmt.Errorf("invalid DB config: unknown driver %q", c.DB.Driver)
	}

	if len(c.HTTP.AllowOrigins) == 0 {
		return fmt.Errorf("invalid HTTP config: allow_origins must not be empty")
	}

	if _, err := c.App.Location(); err != nil {
		return err
	}
	return nil
}

// Location возвращает таймзону салона.
func (a AppConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(a.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE %q: %w", a.TimeZone, err)
	}
	return loc, nil
}
