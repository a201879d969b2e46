// Package config loads service settings from an optional .env file, an
// optional YAML file and the environment, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/tair/vapt/pkg/database"
)

// Store drivers
const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type AppFile struct {
	Env      string `yaml:"env"`
	LogLevel string `yaml:"log_level"`
	HTTPPort string `yaml:"http_port"`
	Seed     *bool  `yaml:"seed_sample_data"`
}

type StoreFile struct {
	Driver     string `yaml:"driver"`
	KeyPrefix  string `yaml:"key_prefix"`
	SQLitePath string `yaml:"sqlite_path"`
}

type DatabaseFile struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
}

type RedisFile struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaFile struct {
	Brokers []string `yaml:"brokers"`
}

type TracingFile struct {
	Enabled        *bool  `yaml:"enabled"`
	JaegerEndpoint string `yaml:"jaeger_endpoint"`
}

// File mirrors the YAML configuration file
type File struct {
	App      AppFile      `yaml:"app"`
	Store    StoreFile    `yaml:"store"`
	Database DatabaseFile `yaml:"database"`
	Redis    RedisFile    `yaml:"redis"`
	Kafka    KafkaFile    `yaml:"kafka"`
	Tracing  TracingFile  `yaml:"tracing"`
}

// Config is the resolved service configuration
type Config struct {
	ServiceName    string
	AppEnv         string
	LogLevel       string
	HTTPPort       string
	StoreDriver    string
	StoreKeyPrefix string
	SQLitePath     string
	Database       database.Config
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	KafkaBrokers   []string
	TracingEnabled bool
	JaegerEndpoint string
	SeedSampleData bool
}

// Development reports whether the service runs in development mode
func (c *Config) Development() bool {
	return c.AppEnv == "development"
}

// Load reads .env (if present), the YAML file named by VAPT_CONFIG (if set)
// and then applies environment overrides.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var file File
	if path := os.Getenv("VAPT_CONFIG"); path != "" {
		f, err := loadConfigFile(path)
		if err != nil {
			return nil, err
		}
		file = *f
	}

	cfg := &Config{
		ServiceName:    "vapt",
		AppEnv:         getEnv("APP_ENV", or(file.App.Env, "development")),
		LogLevel:       getEnv("LOG_LEVEL", or(file.App.LogLevel, "info")),
		HTTPPort:       getEnv("HTTP_PORT", or(file.App.HTTPPort, "8080")),
		StoreDriver:    strings.ToLower(getEnv("STORE_DRIVER", or(file.Store.Driver, DriverMemory))),
		StoreKeyPrefix: getEnv("STORE_KEY_PREFIX", or(file.Store.KeyPrefix, "vapt")),
		SQLitePath:     getEnv("SQLITE_PATH", or(file.Store.SQLitePath, "vapt.db")),
		Database: database.Config{
			Host:     getEnv("DB_HOST", or(file.Database.Host, "localhost")),
			Port:     getEnv("DB_PORT", or(file.Database.Port, "5432")),
			User:     getEnv("DB_USER", or(file.Database.User, "postgres")),
			Password: getEnv("DB_PASSWORD", or(file.Database.Password, "postgres")),
			DBName:   getEnv("DB_NAME", or(file.Database.Name, "vapt")),
			SSLMode:  getEnv("DB_SSLMODE", or(file.Database.SSLMode, "disable")),
		},
		RedisAddr:      getEnv("REDIS_ADDR", or(file.Redis.Addr, "localhost:6379")),
		RedisPassword:  getEnv("REDIS_PASSWORD", file.Redis.Password),
		KafkaBrokers:   file.Kafka.Brokers,
		JaegerEndpoint: getEnv("JAEGER_ENDPOINT", or(file.Tracing.JaegerEndpoint, "http://localhost:14268/api/traces")),
	}

	var err error
	if cfg.RedisDB, err = strconv.Atoi(getEnv("REDIS_DB", strconv.Itoa(file.Redis.DB))); err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	if cfg.TracingEnabled, err = getBool("TRACING_ENABLED", file.Tracing.Enabled, false); err != nil {
		return nil, err
	}
	if cfg.SeedSampleData, err = getBool("SEED_SAMPLE_DATA", file.App.Seed, true); err != nil {
		return nil, err
	}
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = splitList(brokers)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that have a fixed set of options
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverMemory, DriverRedis, DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.HTTPPort == "" {
		return errors.New("HTTP_PORT is empty")
	}
	return nil
}

func loadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &f, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, fromFile *bool, defaultValue bool) (bool, error) {
	if fromFile != nil {
		defaultValue = *fromFile
	}
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func or(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
