package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	envPath  = ".env"
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"

	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

const (
	defaultRunAddress         = "localhost:8080"
	defaultLogLevel           = "info"
	defaultSQLitePath         = "attendform.db"
	defaultMigrationsPath     = "migrations"
	defaultRedisAddr          = "localhost:6379"
	defaultRecordTTL          = 24 * time.Hour
	defaultSessionIdleTTL     = 30 * time.Minute
	defaultMaxAttachmentBytes = 10 << 20
)

type Config struct {
	Env     string
	Server  server
	Logger  logger
	Store   store
	Session session
	Form    form
}

type server struct {
	RunAddress string `mapstructure:"run_address"`
}

type logger struct {
	LogLevel string `mapstructure:"log_level"`
}

type store struct {
	Driver      string `mapstructure:"store_driver"`
	SQLitePath  string `mapstructure:"sqlite_path"`
	DatabaseURI string `mapstructure:"database_uri"`
	Migrations  string `mapstructure:"migrations_path"`
	Redis       redis
	// RecordTTL ограничивает время жизни записей в redis, 0 - без ограничения
	RecordTTL time.Duration `mapstructure:"record_ttl"`
}

type redis struct {
	Addr     string `mapstructure:"redis_addr"`
	Password string `mapstructure:"redis_password"`
	DB       int    `mapstructure:"redis_db"`
}

type session struct {
	IdleTTL time.Duration `mapstructure:"session_idle_ttl"`
}

type form struct {
	MaxAttachmentBytes int64 `mapstructure:"max_attachment_bytes"`
}

// MustLoad загружает конфигурацию сервера и паникует при ошибке
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("ошибка конфигурации: %v", err))
	}
	return cfg
}

// Load читает .env (если есть) и переменные окружения
func Load() (*Config, error) {
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			log.Printf("failed to load %s: %v", envPath, err)
		}
	}

	return LoadFrom(viper.New())
}

// LoadFrom собирает конфигурацию из v. Переменные окружения и значения по
// умолчанию добавляются к тому, что уже задано в v (файл, флаги).
func LoadFrom(v *viper.Viper) (*Config, error) {
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Env:    v.GetString("APP_ENV"),
		Server: server{RunAddress: v.GetString("RUN_ADDRESS")},
		Logger: logger{LogLevel: v.GetString("LOG_LEVEL")},
		Store: store{
			Driver:      v.GetString("STORE_DRIVER"),
			SQLitePath:  v.GetString("SQLITE_PATH"),
			DatabaseURI: v.GetString("DATABASE_URI"),
			Migrations:  v.GetString("MIGRATIONS_PATH"),
			Redis: redis{
				Addr:     v.GetString("REDIS_ADDR"),
				Password: v.GetString("REDIS_PASSWORD"),
				DB:       v.GetInt("REDIS_DB"),
			},
			RecordTTL: v.GetDuration("RECORD_TTL"),
		},
		Session: session{IdleTTL: v.GetDuration("SESSION_IDLE_TTL")},
		Form:    form{MaxAttachmentBytes: v.GetInt64("MAX_ATTACHMENT_BYTES")},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", EnvLocal)
	v.SetDefault("RUN_ADDRESS", defaultRunAddress)
	v.SetDefault("LOG_LEVEL", defaultLogLevel)
	v.SetDefault("STORE_DRIVER", DriverMemory)
	v.SetDefault("SQLITE_PATH", defaultSQLitePath)
	v.SetDefault("MIGRATIONS_PATH", defaultMigrationsPath)
	v.SetDefault("REDIS_ADDR", defaultRedisAddr)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("RECORD_TTL", defaultRecordTTL)
	v.SetDefault("SESSION_IDLE_TTL", defaultSessionIdleTTL)
	v.SetDefault("MAX_ATTACHMENT_BYTES", defaultMaxAttachmentBytes)
}

func (c *Config) validate() error {
	switch c.Env {
	case EnvLocal, EnvDev, EnvProd:
	default:
		return fmt.Errorf("unknown APP_ENV %q", c.Env)
	}
	if c.Server.RunAddress == "" {
		return fmt.Errorf("RUN_ADDRESS не может быть пустым")
	}
	switch c.Store.Driver {
	case DriverMemory:
	case DriverSQLite:
		if c.Store.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH не может быть пустым для драйвера sqlite")
		}
	case DriverPostgres:
		if c.Store.DatabaseURI == "" {
			return fmt.Errorf("DATABASE_URI не может быть пустым для драйвера postgres")
		}
	case DriverRedis:
		if c.Store.Redis.Addr == "" {
			return fmt.Errorf("REDIS_ADDR не может быть пустым для драйвера redis")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}
	if c.Session.IdleTTL <= 0 {
		return fmt.Errorf("SESSION_IDLE_TTL должен быть положительным")
	}
	if c.Form.MaxAttachmentBytes <= 0 {
		return fmt.Errorf("MAX_ATTACHMENT_BYTES должен быть положительным")
	}
	return nil
}

// IsProd проверяет, prod ли окружение
func (c *Config) IsProd() bool {
	return c.Env == EnvProd
}

// IsDev проверяет, dev ли окружение
func (c *Config) IsDev() bool {
	return c.Env == EnvDev
}

// IsLocal проверяет, local ли окружение
func (c *Config) IsLocal() bool {
	return c.Env == EnvLocal || c.Env == ""
}
