package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/muhammadchandra19/tickfeed/pkg/errors"
	"github.com/muhammadchandra19/tickfeed/pkg/questdb"
	"github.com/muhammadchandra19/tickfeed/pkg/redis"
)

// recordSize mirrors the wire record width; kept local to avoid importing the protocol package.
const recordSize = 17

// Config represents the application configuration.
type Config struct {
	App      AppConfig      `envPrefix:"APP_"`
	Feed     FeedConfig     `envPrefix:"FEED_"`
	Backfill BackfillConfig `envPrefix:"BACKFILL_"`
	Output   OutputConfig   `envPrefix:"OUTPUT_"`
	QuestDB  QuestDBConfig  `envPrefix:"QUESTDB_"`
	Kafka    KafkaConfig    `envPrefix:"KAFKA_"`
	Redis    RedisConfig    `envPrefix:"REDIS_"`
	Server   ServerConfig   `envPrefix:"SERVER_"`
}

// AppConfig represents the application configuration.
type AppConfig struct {
	Name        string `env:"NAME" envDefault:"tick-client"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile     string `env:"LOG_FILE" envDefault:"client_log.txt"`
}

// FeedConfig describes the ABX endpoint.
type FeedConfig struct {
	Host           string        `env:"HOST" envDefault:"127.0.0.1"`
	Port           int           `env:"PORT" envDefault:"3000"`
	DialTimeout    time.Duration `env:"DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout    time.Duration `env:"READ_TIMEOUT" envDefault:"30s"`
	ReadBufferSize int           `env:"READ_BUFFER_SIZE" envDefault:"170"`
}

// Addr returns host:port of the feed.
func (f FeedConfig) Addr() string {
	return fmt.Sprintf("%s:%d", f.Host, f.Port)
}

// BackfillConfig bounds the retry policy of both phases.
type BackfillConfig struct {
	MaxBulkAttempts int           `env:"MAX_BULK_ATTEMPTS" envDefault:"5"`
	MaxAttempts     int           `env:"MAX_ATTEMPTS" envDefault:"5"`
	InitialBackoff  time.Duration `env:"INITIAL_BACKOFF" envDefault:"500ms"`
	MaxBackoff      time.Duration `env:"MAX_BACKOFF" envDefault:"5s"`
}

// OutputConfig describes where the assembled document goes.
type OutputConfig struct {
	Path string `env:"PATH" envDefault:"tick_data.json"`
}

// QuestDBConfig enables the QuestDB sink.
type QuestDBConfig struct {
	Enabled bool `env:"ENABLED" envDefault:"false"`
	questdb.Config
}

// KafkaConfig enables the Kafka sink.
type KafkaConfig struct {
	Enabled      bool          `env:"ENABLED" envDefault:"false"`
	Brokers      []string      `env:"BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	Topic        string        `env:"TOPIC" envDefault:"ticks"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
}

// RedisConfig enables the Redis sink.
type RedisConfig struct {
	Enabled     bool   `env:"ENABLED" envDefault:"false"`
	DocumentKey string `env:"DOCUMENT_KEY" envDefault:"ticks:document"`
	Stream      string `env:"STREAM" envDefault:"ticks:stream"`
	redis.Config
}

// ServerConfig configures the development feed server.
type ServerConfig struct {
	Host  string `env:"HOST" envDefault:"127.0.0.1"`
	Port  int    `env:"PORT" envDefault:"3000"`
	Ticks int    `env:"TICKS" envDefault:"14"`
	Drop  []int  `env:"DROP" envSeparator:"," envDefault:"3,7,11"`
	Seed  int64  `env:"SEED" envDefault:"1"`
}

// Addr returns host:port the server listens on.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Load loads the configuration from the environment.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Feed.Port <= 0 || c.Feed.Port > 65535 {
		return invalid(fmt.Sprintf("invalid feed port: %d", c.Feed.Port), "FEED_PORT", c.Feed.Port)
	}

	if c.Feed.ReadBufferSize < recordSize {
		return invalid(fmt.Sprintf("read buffer size %d is smaller than one record (%d bytes)", c.Feed.ReadBufferSize, recordSize), "FEED_READ_BUFFER_SIZE", c.Feed.ReadBufferSize)
	}

	if c.Feed.ReadTimeout < 0 {
		return invalid("feed read timeout must not be negative", "FEED_READ_TIMEOUT", c.Feed.ReadTimeout)
	}

	if c.Feed.DialTimeout < 0 {
		return invalid("feed dial timeout must not be negative", "FEED_DIAL_TIMEOUT", c.Feed.DialTimeout)
	}

	if c.Backfill.MaxBulkAttempts < 0 {
		return invalid("bulk attempts must not be negative", "BACKFILL_MAX_BULK_ATTEMPTS", c.Backfill.MaxBulkAttempts)
	}

	if c.Backfill.MaxAttempts < 0 {
		return invalid("backfill attempts must not be negative", "BACKFILL_MAX_ATTEMPTS", c.Backfill.MaxAttempts)
	}

	if c.Backfill.InitialBackoff > c.Backfill.MaxBackoff {
		return invalid(fmt.Sprintf("initial backoff %s exceeds max backoff %s", c.Backfill.InitialBackoff, c.Backfill.MaxBackoff), "BACKFILL_INITIAL_BACKOFF", c.Backfill.InitialBackoff)
	}

	if c.Output.Path == "" {
		return invalid("output path is required", "OUTPUT_PATH", c.Output.Path)
	}

	if c.Kafka.Enabled && (len(c.Kafka.Brokers) == 0 || c.Kafka.Topic == "") {
		return invalid("kafka sink requires brokers and topic", "KAFKA_BROKERS", c.Kafka.Brokers)
	}

	if c.Redis.Enabled && c.Redis.DocumentKey == "" {
		return invalid("redis sink requires a document key", "REDIS_DOCUMENT_KEY", c.Redis.DocumentKey)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return invalid(fmt.Sprintf("invalid server port: %d", c.Server.Port), "SERVER_PORT", c.Server.Port)
	}

	return nil
}

func invalid(message, field string, value any) error {
	return errors.NewErrorDetailsWithObject(message, string(errors.ConfigInvalidError), field, value)
}

// String returns a safe string representation (without credentials)
func (c *Config) String() string {
	return fmt.Sprintf(
		"Feed{Addr:%s, ReadBuffer:%d}, Backfill{Bulk:%d, One:%d}, Output{%s}, Sinks{QuestDB:%v, Kafka:%v, Redis:%v}",
		c.Feed.Addr(), c.Feed.ReadBufferSize,
		c.Backfill.MaxBulkAttempts, c.Backfill.MaxAttempts,
		c.Output.Path, c.QuestDB.Enabled, c.Kafka.Enabled, c.Redis.Enabled,
	)
}
