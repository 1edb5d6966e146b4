package bootstrap

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/muhammadchandra19/tickfeed/internal/feedserver"
	"github.com/muhammadchandra19/tickfeed/pkg/config"
	"github.com/muhammadchandra19/tickfeed/pkg/errors"
	"github.com/muhammadchandra19/tickfeed/pkg/logger"
	"github.com/muhammadchandra19/tickfeed/pkg/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		Feed: config.FeedConfig{
			Host:           "127.0.0.1",
			Port:           3000,
			DialTimeout:    time.Second,
			ReadTimeout:    5 * time.Second,
			ReadBufferSize: 170,
		},
		Backfill: config.BackfillConfig{
			MaxBulkAttempts: 3,
			MaxAttempts:     3,
			InitialBackoff:  time.Millisecond,
			MaxBackoff:      5 * time.Millisecond,
		},
		Output: config.OutputConfig{Path: filepath.Join(t.TempDir(), "tick_data.json")},
		Kafka: config.KafkaConfig{
			Brokers:      []string{"localhost:9092"},
			Topic:        "ticks",
			WriteTimeout: time.Second,
		},
		Redis: config.RedisConfig{
			DocumentKey: "ticks:document",
			Stream:      "ticks:stream",
			Config:      *redis.DefaultConfig(),
		},
	}
}

func sinkNames(b *Bootstrap) []string {
	return b.Usecase.Publisher.Sinks()
}

func TestBootstrap_Init(t *testing.T) {
	testCases := []struct {
		name     string
		configFn func(t *testing.T, cfg *config.Config)
		assertFn func(t *testing.T, b *Bootstrap, err error)
	}{
		{
			name:     "success - document only",
			configFn: func(t *testing.T, cfg *config.Config) {},
			assertFn: func(t *testing.T, b *Bootstrap, err error) {
				require.NoError(t, err)
				assert.Equal(t, []string{"json"}, sinkNames(b))
				assert.Nil(t, b.Redis)
				assert.Nil(t, b.QuestDB)
				assert.NotNil(t, b.App.Client)
			},
		},
		{
			name: "success - kafka and redis sinks",
			configFn: func(t *testing.T, cfg *config.Config) {
				srv := miniredis.RunT(t)
				cfg.Redis.Enabled = true
				cfg.Redis.Addrs = []string{srv.Addr()}
				cfg.Kafka.Enabled = true
			},
			assertFn: func(t *testing.T, b *Bootstrap, err error) {
				require.NoError(t, err)
				assert.Equal(t, []string{"kafka", "redis", "json"}, sinkNames(b))
				assert.NotNil(t, b.Redis)
			},
		},
		{
			name: "error - redis unreachable",
			configFn: func(t *testing.T, cfg *config.Config) {
				srv := miniredis.RunT(t)
				addr := srv.Addr()
				srv.Close()

				cfg.Redis.Enabled = true
				cfg.Redis.Addrs = []string{addr}
				cfg.Redis.MaxRetries = 0
				cfg.Redis.ReconnectMaxRetries = 1
				cfg.Redis.MinRetryBackoff = time.Millisecond
				cfg.Redis.MaxRetryBackoff = time.Millisecond
			},
			assertFn: func(t *testing.T, b *Bootstrap, err error) {
				assert.True(t, errors.ErrorCodeEquals(err, string(errors.RedisConnectionError)))
				assert.Nil(t, b.Redis)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig(t)
			tc.configFn(t, cfg)

			b := &Bootstrap{}
			err := b.Init(context.Background(), BootstrapConfig{Config: cfg, Logger: logger.NewNop()})
			t.Cleanup(func() { b.Close(context.Background()) })

			tc.assertFn(t, b, err)
		})
	}
}

func TestBootstrap_RunAgainstFeedServer(t *testing.T) {
	srv := feedserver.NewServer(feedserver.Config{
		Addr:  "127.0.0.1:0",
		Ticks: feedserver.Generate(14, 1),
		Drop:  []int32{3, 7, 11},
	}, logger.NewNop())
	require.NoError(t, srv.Start(context.Background()))
	t.Cleanup(func() { _ = srv.Stop(context.Background()) })

	redisSrv := miniredis.RunT(t)

	cfg := testConfig(t)
	cfg.Feed.Port = srv.Addr().(*net.TCPAddr).Port
	cfg.Redis.Enabled = true
	cfg.Redis.Addrs = []string{redisSrv.Addr()}

	b := &Bootstrap{}
	require.NoError(t, b.Init(context.Background(), BootstrapConfig{Config: cfg, Logger: logger.NewNop()}))
	t.Cleanup(func() { b.Close(context.Background()) })

	ticks, err := b.App.Client.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, feedserver.Generate(14, 1), ticks)

	raw, err := os.ReadFile(cfg.Output.Path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"packetSequence": 14`)

	cached, err := redisSrv.Get("abx:ticks:document")
	require.NoError(t, err)
	assert.Equal(t, string(raw), cached)

	n, err := b.Redis.XLen(context.Background(), "abx:ticks:stream")
	require.NoError(t, err)
	assert.Equal(t, int64(14), n)
}

func TestBootstrap_RunWithRedisDown(t *testing.T) {
	srv := feedserver.NewServer(feedserver.Config{
		Addr:  "127.0.0.1:0",
		Ticks: feedserver.Generate(4, 1),
	}, logger.NewNop())
	require.NoError(t, srv.Start(context.Background()))
	t.Cleanup(func() { _ = srv.Stop(context.Background()) })

	redisSrv := miniredis.RunT(t)

	cfg := testConfig(t)
	cfg.Feed.Port = srv.Addr().(*net.TCPAddr).Port
	cfg.Redis.Enabled = true
	cfg.Redis.Addrs = []string{redisSrv.Addr()}

	b := &Bootstrap{}
	require.NoError(t, b.Init(context.Background(), BootstrapConfig{Config: cfg, Logger: logger.NewNop()}))
	t.Cleanup(func() { b.Close(context.Background()) })

	redisSrv.Close()

	_, err := b.App.Client.Run(context.Background())
	require.Error(t, err)

	_, statErr := os.Stat(cfg.Output.Path)
	assert.True(t, os.IsNotExist(statErr))
}
