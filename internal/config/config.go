package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/fadedpez/friendbet/pkg/settlement"
	"github.com/joho/godotenv"
)

// Storage backends
const (
	StorageMemory   = "memory"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

// Config holds all configuration for the application
type Config struct {
	// Environment
	Environment string `toml:"environment"` // "development" or "production"

	HTTP          HTTPConfig          `toml:"http"`
	Storage       StorageConfig       `toml:"storage"`
	Settlement    SettlementConfig    `toml:"settlement"`
	Notify        NotifyConfig        `toml:"notify"`
	Elasticsearch ElasticsearchConfig `toml:"elasticsearch"`
	Scheduler     SchedulerConfig     `toml:"scheduler"`

	// Tokens maps bearer tokens to user IDs
	Tokens map[string]string `toml:"tokens"`
}

type HTTPConfig struct {
	Addr string `toml:"addr"`
}

type StorageConfig struct {
	Type        string `toml:"type"`
	SQLitePath  string `toml:"sqlite_path"`
	PostgresDSN string `toml:"postgres_dsn"`
}

// SettlementConfig selects the payout model and the creator reward
type SettlementConfig struct {
	Model               string        `toml:"model"`
	CreatorBonusPercent int64         `toml:"creator_bonus_percent"`
	PowerupValue        int64         `toml:"powerup_value"`
	PowerupDuration     time.Duration `toml:"powerup_duration"`
}

// NotifyConfig configures notification delivery. Every sink with an empty
// address is disabled; the inbox is always on.
type NotifyConfig struct {
	Workers          int      `toml:"workers"`
	QueueSize        int      `toml:"queue_size"`
	RedisAddr        string   `toml:"redis_addr"`
	KafkaBrokers     []string `toml:"kafka_brokers"`
	KafkaTopic       string   `toml:"kafka_topic"`
	DiscordToken     string   `toml:"discord_token"`
	DiscordChannelID string   `toml:"discord_channel_id"`
}

type ElasticsearchConfig struct {
	URL         string `toml:"url"`
	Username    string `toml:"username"`
	Password    string `toml:"password"`
	IndexPrefix string `toml:"index_prefix"`
}

type SchedulerConfig struct {
	PowerupCleanupInterval time.Duration `toml:"powerup_cleanup_interval"`
}

// Default returns the configuration used when nothing overrides it
func Default() *Config {
	return &Config{
		Environment: "development",
		HTTP:        HTTPConfig{Addr: ":8080"},
		Storage: StorageConfig{
			Type:       StorageSQLite,
			SQLitePath: "data/friendbet.db",
		},
		Settlement: SettlementConfig{
			Model:               settlement.ModelPool,
			CreatorBonusPercent: 10,
			PowerupValue:        10,
			PowerupDuration:     7 * 24 * time.Hour,
		},
		Notify: NotifyConfig{
			Workers:    4,
			QueueSize:  256,
			KafkaTopic: "friendbet.notifications",
		},
		Elasticsearch: ElasticsearchConfig{IndexPrefix: "friendbet"},
		Scheduler:     SchedulerConfig{PowerupCleanupInterval: time.Hour},
		Tokens:        map[string]string{},
	}
}

// Load reads .env, then the TOML file named by FRIENDBET_CONFIG if set, then
// environment overrides
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// Only return error if file exists but couldn't be loaded
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	return LoadFile(os.Getenv("FRIENDBET_CONFIG"))
}

// LoadFile builds the configuration from the TOML file at path (skipped when
// empty) and the environment
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Environment = getEnvWithDefault("ENVIRONMENT", c.Environment)
	c.HTTP.Addr = getEnvWithDefault("HTTP_ADDR", c.HTTP.Addr)

	c.Storage.Type = getEnvWithDefault("STORAGE_TYPE", c.Storage.Type)
	c.Storage.SQLitePath = getEnvWithDefault("SQLITE_PATH", c.Storage.SQLitePath)
	c.Storage.PostgresDSN = getEnvWithDefault("DATABASE_URL", c.Storage.PostgresDSN)

	c.Settlement.Model = getEnvWithDefault("SETTLEMENT_MODEL", c.Settlement.Model)
	if v := os.Getenv("CREATOR_BONUS_PERCENT"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("CREATOR_BONUS_PERCENT: %w", err)
		}
		c.Settlement.CreatorBonusPercent = n
	}
	if v := os.Getenv("POWERUP_DURATION"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("POWERUP_DURATION: %w", err)
		}
		c.Settlement.PowerupDuration = d
	}

	c.Notify.RedisAddr = getEnvWithDefault("REDIS_ADDR", c.Notify.RedisAddr)
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Notify.KafkaBrokers = strings.Split(v, ",")
	}
	c.Notify.KafkaTopic = getEnvWithDefault("KAFKA_TOPIC", c.Notify.KafkaTopic)
	c.Notify.DiscordToken = getEnvWithDefault("DISCORD_TOKEN", c.Notify.DiscordToken)
	c.Notify.DiscordChannelID = getEnvWithDefault("DISCORD_CHANNEL_ID", c.Notify.DiscordChannelID)

	c.Elasticsearch.URL = getEnvWithDefault("ELASTICSEARCH_URL", c.Elasticsearch.URL)
	c.Elasticsearch.Username = getEnvWithDefault("ELASTICSEARCH_USERNAME", c.Elasticsearch.Username)
	c.Elasticsearch.Password = getEnvWithDefault("ELASTICSEARCH_PASSWORD", c.Elasticsearch.Password)
	c.Elasticsearch.IndexPrefix = getEnvWithDefault("ELASTICSEARCH_INDEX_PREFIX", c.Elasticsearch.IndexPrefix)

	return nil
}

// Validate checks the configuration is usable
func (c *Config) Validate() error {
	var errs []error

	switch c.Storage.Type {
	case StorageMemory:
	case StorageSQLite:
		if c.Storage.SQLitePath == "" {
			errs = append(errs, errors.New("storage.sqlite_path is required for sqlite storage"))
		}
	case StoragePostgres:
		if c.Storage.PostgresDSN == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for postgres storage"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage type %q", c.Storage.Type))
	}

	if _, err := settlement.ModelByName(c.Settlement.Model); err != nil {
		errs = append(errs, err)
	}
	if c.Settlement.CreatorBonusPercent < 0 || c.Settlement.CreatorBonusPercent > 100 {
		errs = append(errs, errors.New("settlement.creator_bonus_percent must be between 0 and 100"))
	}
	if c.Settlement.PowerupDuration < 0 {
		errs = append(errs, errors.New("settlement.powerup_duration must not be negative"))
	}
	if c.Notify.Workers < 1 {
		errs = append(errs, errors.New("notify.workers must be at least 1"))
	}
	if c.Notify.DiscordToken != "" && c.Notify.DiscordChannelID == "" {
		errs = append(errs, errors.New("DISCORD_CHANNEL_ID is required when DISCORD_TOKEN is set"))
	}

	return errors.Join(errs...)
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// getEnvWithDefault returns environment variable value or default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
