package feedserver

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	tickv1 "github.com/muhammadchandra19/tickfeed/internal/domain/tick/v1"
	"github.com/muhammadchandra19/tickfeed/internal/protocol"
	"github.com/muhammadchandra19/tickfeed/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T, config Config) *Server {
	t.Helper()

	config.Addr = "127.0.0.1:0"
	s := NewServer(config, logger.NewNop())
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.Stop(ctx)
	})

	return s
}

func dial(t *testing.T, s *Server) net.Conn {
	t.Helper()

	conn, err := net.DialTimeout("tcp", s.Addr().String(), time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, conn.SetDeadline(time.Now().Add(5*time.Second)))

	return conn
}

func decodeAll(t *testing.T, raw []byte) []int32 {
	t.Helper()

	require.Zero(t, len(raw)%protocol.RecordSize)
	var seqs []int32
	for off := 0; off < len(raw); off += protocol.RecordSize {
		tick := protocol.Decode(raw[off:])
		require.True(t, protocol.IsValid(tick))
		seqs = append(seqs, tick.Sequence)
	}
	return seqs
}

func TestGenerate(t *testing.T) {
	ticks := Generate(14, 7)

	require.Len(t, ticks, 14)
	for i, tick := range ticks {
		assert.Equal(t, int32(i+1), tick.Sequence)
		assert.True(t, protocol.IsValid(tick), tick.String())
	}
	assert.Equal(t, ticks, Generate(14, 7))
	assert.Empty(t, Generate(0, 7))
}

func TestServer_StreamAll(t *testing.T) {
	s := startServer(t, Config{Ticks: Generate(5, 1), Drop: []int32{2, 4}})
	conn := dial(t, s)

	_, err := conn.Write(protocol.StreamAllRequest())
	require.NoError(t, err)

	raw, err := io.ReadAll(conn)
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 3, 5}, decodeAll(t, raw))
}

func TestServer_Resend(t *testing.T) {
	ticks := Generate(5, 1)
	s := startServer(t, Config{Ticks: ticks, Drop: []int32{2, 4}})
	conn := dial(t, s)

	// Several requests may share one connection.
	for _, seq := range []int32{4, 2} {
		_, err := conn.Write(protocol.ResendRequest(seq))
		require.NoError(t, err)

		buf := make([]byte, protocol.RecordSize)
		_, err = io.ReadFull(conn, buf)
		require.NoError(t, err)
		assert.Equal(t, ticks[seq-1], protocol.Decode(buf))
	}
}

func TestServer_ResendClosesWithoutReply(t *testing.T) {
	testCases := []struct {
		name    string
		config  Config
		request []byte
	}{
		{
			name:    "unknown sequence",
			config:  Config{Ticks: Generate(3, 1)},
			request: protocol.ResendRequest(9),
		},
		{
			name:    "failing resend",
			config:  Config{Ticks: Generate(3, 1), FailResends: 1},
			request: protocol.ResendRequest(1),
		},
		{
			name:    "unknown call type",
			config:  Config{Ticks: Generate(3, 1)},
			request: []byte{7, 0},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := startServer(t, tc.config)
			conn := dial(t, s)

			_, err := conn.Write(tc.request)
			require.NoError(t, err)

			raw, err := io.ReadAll(conn)
			require.NoError(t, err)
			assert.Empty(t, raw)
		})
	}
}

func TestServer_FailResendsRecovers(t *testing.T) {
	ticks := Generate(3, 1)
	s := startServer(t, Config{Ticks: ticks, FailResends: 1})

	first := dial(t, s)
	_, err := first.Write(protocol.ResendRequest(2))
	require.NoError(t, err)
	raw, err := io.ReadAll(first)
	require.NoError(t, err)
	assert.Empty(t, raw)

	second := dial(t, s)
	_, err = second.Write(protocol.ResendRequest(2))
	require.NoError(t, err)
	buf := make([]byte, protocol.RecordSize)
	_, err = io.ReadFull(second, buf)
	require.NoError(t, err)
	assert.Equal(t, ticks[1], protocol.Decode(buf))
}

func TestServer_Stop(t *testing.T) {
	s := NewServer(Config{Addr: "127.0.0.1:0", Ticks: []tickv1.Tick{}}, logger.NewNop())
	assert.Nil(t, s.Addr())
	require.NoError(t, s.Start(context.Background()))

	// An idle client must not block shutdown.
	conn, err := net.Dial("tcp", s.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))

	_, err = net.DialTimeout("tcp", s.Addr().String(), 200*time.Millisecond)
	assert.Error(t, err)
}
