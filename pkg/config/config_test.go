package config

import (
	"testing"
	"time"

	"github.com/muhammadchandra19/tickfeed/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:3000", cfg.Feed.Addr())
	assert.Equal(t, 170, cfg.Feed.ReadBufferSize)
	assert.Equal(t, 30*time.Second, cfg.Feed.ReadTimeout)
	assert.Equal(t, 5, cfg.Backfill.MaxBulkAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.Backfill.InitialBackoff)
	assert.Equal(t, "tick_data.json", cfg.Output.Path)
	assert.Equal(t, "client_log.txt", cfg.App.LogFile)
	assert.False(t, cfg.Kafka.Enabled)
	assert.Equal(t, []int{3, 7, 11}, cfg.Server.Drop)
	assert.Equal(t, "abx:", cfg.Redis.PrefixKey)
}

func TestLoad_Environment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FEED_HOST", "abx.local")
	t.Setenv("FEED_PORT", "4000")
	t.Setenv("BACKFILL_MAX_ATTEMPTS", "0")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("REDIS_ADDRS", "r1:6379")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "abx.local:4000", cfg.Feed.Addr())
	assert.Equal(t, 0, cfg.Backfill.MaxAttempts)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, []string{"r1:6379"}, cfg.Redis.Addrs)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Feed:     FeedConfig{Host: "127.0.0.1", Port: 3000, ReadBufferSize: 170},
			Backfill: BackfillConfig{MaxBulkAttempts: 5, MaxAttempts: 5, InitialBackoff: time.Second, MaxBackoff: 2 * time.Second},
			Output:   OutputConfig{Path: "out.json"},
			Kafka:    KafkaConfig{Topic: "ticks"},
			Server:   ServerConfig{Port: 3000},
		}
	}

	testCases := []struct {
		name     string
		mutateFn func(c *Config)
		wantErr  string
	}{
		{name: "valid", mutateFn: func(c *Config) {}},
		{name: "port out of range", mutateFn: func(c *Config) { c.Feed.Port = 70000 }, wantErr: "FEED_PORT"},
		{name: "buffer smaller than a record", mutateFn: func(c *Config) { c.Feed.ReadBufferSize = 16 }, wantErr: "FEED_READ_BUFFER_SIZE"},
		{name: "buffer of exactly one record", mutateFn: func(c *Config) { c.Feed.ReadBufferSize = 17 }},
		{name: "negative read timeout", mutateFn: func(c *Config) { c.Feed.ReadTimeout = -time.Second }, wantErr: "FEED_READ_TIMEOUT"},
		{name: "negative attempts", mutateFn: func(c *Config) { c.Backfill.MaxAttempts = -1 }, wantErr: "BACKFILL_MAX_ATTEMPTS"},
		{name: "initial backoff above max", mutateFn: func(c *Config) { c.Backfill.InitialBackoff = time.Minute }, wantErr: "BACKFILL_INITIAL_BACKOFF"},
		{name: "empty output path", mutateFn: func(c *Config) { c.Output.Path = "" }, wantErr: "OUTPUT_PATH"},
		{name: "kafka without brokers", mutateFn: func(c *Config) { c.Kafka.Enabled = true }, wantErr: "KAFKA_BROKERS"},
		{name: "redis without key", mutateFn: func(c *Config) { c.Redis.Enabled = true }, wantErr: "REDIS_DOCUMENT_KEY"},
		{name: "negative dial timeout", mutateFn: func(c *Config) { c.Feed.DialTimeout = -time.Second }, wantErr: "FEED_DIAL_TIMEOUT"},
		{name: "negative bulk attempts", mutateFn: func(c *Config) { c.Backfill.MaxBulkAttempts = -1 }, wantErr: "BACKFILL_MAX_BULK_ATTEMPTS"},
		{name: "server port zero", mutateFn: func(c *Config) { c.Server.Port = 0 }, wantErr: "SERVER_PORT"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutateFn(cfg)

			err := cfg.Validate()
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.True(t, errors.ErrorCodeEquals(err, string(errors.ConfigInvalidError)))

				var details *errors.ErrorDetails
				require.ErrorAs(t, err, &details)
				assert.Equal(t, tc.wantErr, details.Field)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestConfig_StringHidesCredentials(t *testing.T) {
	cfg := &Config{Feed: FeedConfig{Host: "h", Port: 1}}
	cfg.QuestDB.Password = "secret"
	cfg.Redis.Password = "secret"

	assert.NotContains(t, cfg.String(), "secret")
	assert.Contains(t, cfg.String(), "h:1")
}
