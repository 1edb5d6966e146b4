package session

import (
	"context"
	"errors"
	"io"
	"testing"

	feedmock "github.com/muhammadchandra19/tickfeed/internal/domain/feed/v1/mock"
	"github.com/muhammadchandra19/tickfeed/internal/protocol"
	"github.com/muhammadchandra19/tickfeed/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type testFixture struct {
	ctrl   *gomock.Controller
	dialer *feedmock.MockDialer
	conn   *feedmock.MockConn
}

func setupTestFixture(t *testing.T) *testFixture {
	ctrl := gomock.NewController(t)
	return &testFixture{
		ctrl:   ctrl,
		dialer: feedmock.NewMockDialer(ctrl),
		conn:   feedmock.NewMockConn(ctrl),
	}
}

func (f *testFixture) expectSession(request []byte) {
	f.dialer.EXPECT().Dial(gomock.Any()).Return(f.conn, nil)
	f.conn.EXPECT().Send(gomock.Any(), request).Return(nil)
	f.conn.EXPECT().Close().Return(nil)
}

func TestController_RequestAll(t *testing.T) {
	record := encodeSeqs(1, 2, 3)

	testCases := []struct {
		name     string
		mockFn   func(f *testFixture)
		assertFn func(t *testing.T, n int, state *State, err error)
	}{
		{
			name: "success - contiguous stream",
			mockFn: func(f *testFixture) {
				f.expectSession(protocol.StreamAllRequest())
				f.conn.EXPECT().Receive(gomock.Any(), gomock.Any()).DoAndReturn(chunkReceiver(nil, encodeSeqs(1, 2, 3))).Times(2)
			},
			assertFn: func(t *testing.T, n int, state *State, err error) {
				require.NoError(t, err)
				assert.Equal(t, 3, n)
				assert.Equal(t, []int32{1, 2, 3}, sequences(state.Ticks))
				assert.True(t, state.Gaps.IsEmpty())
			},
		},
		{
			name: "success - gap detected",
			mockFn: func(f *testFixture) {
				f.expectSession(protocol.StreamAllRequest())
				f.conn.EXPECT().Receive(gomock.Any(), gomock.Any()).DoAndReturn(chunkReceiver(nil, encodeSeqs(1, 3))).Times(2)
			},
			assertFn: func(t *testing.T, n int, state *State, err error) {
				require.NoError(t, err)
				assert.Equal(t, 2, n)
				assert.Equal(t, []int32{2}, state.Gaps.Pending())
				assert.Equal(t, int64(4), state.Gaps.Expected())
			},
		},
		{
			name: "success - record split across reads",
			mockFn: func(f *testFixture) {
				f.expectSession(protocol.StreamAllRequest())
				f.conn.EXPECT().Receive(gomock.Any(), gomock.Any()).
					DoAndReturn(chunkReceiver(nil, record[:27], record[27:30], record[30:])).Times(4)
			},
			assertFn: func(t *testing.T, n int, state *State, err error) {
				require.NoError(t, err)
				assert.Equal(t, 3, n)
				assert.Equal(t, newTick(2), state.Ticks[1])
			},
		},
		{
			name: "success - incomplete trailing record discarded",
			mockFn: func(f *testFixture) {
				f.expectSession(protocol.StreamAllRequest())
				f.conn.EXPECT().Receive(gomock.Any(), gomock.Any()).DoAndReturn(chunkReceiver(nil, record[:40])).Times(2)
			},
			assertFn: func(t *testing.T, n int, state *State, err error) {
				require.NoError(t, err)
				assert.Equal(t, 2, n)
				assert.Equal(t, []int32{1, 2}, sequences(state.Ticks))
			},
		},
		{
			name: "error - corrupt second record keeps first only",
			mockFn: func(f *testFixture) {
				bad := newTick(2)
				bad.Quantity = 0
				f.expectSession(protocol.StreamAllRequest())
				f.conn.EXPECT().Receive(gomock.Any(), gomock.Any()).
					DoAndReturn(chunkReceiver(nil, encodeTicks(newTick(1), bad, newTick(3))))
			},
			assertFn: func(t *testing.T, n int, state *State, err error) {
				var corrupt *CorruptRecordError
				require.ErrorAs(t, err, &corrupt)
				assert.ErrorIs(t, err, protocol.ViolationQuantity)
				assert.True(t, IsFatal(err))
				assert.Equal(t, int32(2), corrupt.Tick.Sequence)
				assert.Equal(t, 1, n)
				assert.Len(t, state.Ticks, 1)
			},
		},
		{
			name: "error - gap past the resend range stops before tracking it",
			mockFn: func(f *testFixture) {
				f.expectSession(protocol.StreamAllRequest())
				f.conn.EXPECT().Receive(gomock.Any(), gomock.Any()).
					DoAndReturn(chunkReceiver(nil, encodeSeqs(1, 30_000_000)))
			},
			assertFn: func(t *testing.T, n int, state *State, err error) {
				assert.ErrorIs(t, err, ErrSequenceOutOfRange)
				assert.True(t, IsFatal(err))
				assert.Equal(t, 1, n)
				assert.Equal(t, []int32{1}, sequences(state.Ticks))
				assert.True(t, state.Gaps.IsEmpty())
				assert.Equal(t, int64(2), state.Gaps.Expected())
			},
		},
		{
			name: "error - gap ending just past the resend range",
			mockFn: func(f *testFixture) {
				f.expectSession(protocol.StreamAllRequest())
				f.conn.EXPECT().Receive(gomock.Any(), gomock.Any()).
					DoAndReturn(chunkReceiver(nil, encodeSeqs(1, 2, 257)))
			},
			assertFn: func(t *testing.T, n int, state *State, err error) {
				assert.ErrorIs(t, err, ErrSequenceOutOfRange)
				assert.Equal(t, 2, n)
				assert.True(t, state.Gaps.IsEmpty())
			},
		},
		{
			name: "success - gap ending at the last resendable sequence",
			mockFn: func(f *testFixture) {
				f.expectSession(protocol.StreamAllRequest())
				f.conn.EXPECT().Receive(gomock.Any(), gomock.Any()).
					DoAndReturn(chunkReceiver(nil, encodeSeqs(1, 256))).Times(2)
			},
			assertFn: func(t *testing.T, n int, state *State, err error) {
				require.NoError(t, err)
				assert.Equal(t, 2, n)
				assert.Equal(t, protocol.MaxResendSequence-1, state.Gaps.Len())
			},
		},
		{
			name: "error - closed without data",
			mockFn: func(f *testFixture) {
				f.expectSession(protocol.StreamAllRequest())
				f.conn.EXPECT().Receive(gomock.Any(), gomock.Any()).Return(0, io.EOF)
			},
			assertFn: func(t *testing.T, n int, state *State, err error) {
				assert.ErrorIs(t, err, ErrNoData)
				assert.False(t, IsFatal(err))
				assert.Zero(t, n)
				assert.Empty(t, state.Ticks)
			},
		},
		{
			name: "error - read fails after data",
			mockFn: func(f *testFixture) {
				f.expectSession(protocol.StreamAllRequest())
				f.conn.EXPECT().Receive(gomock.Any(), gomock.Any()).
					DoAndReturn(chunkReceiver(errors.New("connection reset"), encodeSeqs(1))).Times(2)
			},
			assertFn: func(t *testing.T, n int, state *State, err error) {
				var transport *TransportError
				require.ErrorAs(t, err, &transport)
				assert.Equal(t, OpReceive, transport.Op)
				assert.Equal(t, 1, n)
				assert.Len(t, state.Ticks, 1)
			},
		},
		{
			name: "error - dial fails",
			mockFn: func(f *testFixture) {
				f.dialer.EXPECT().Dial(gomock.Any()).Return(nil, errors.New("connection refused"))
			},
			assertFn: func(t *testing.T, n int, state *State, err error) {
				var transport *TransportError
				require.ErrorAs(t, err, &transport)
				assert.Equal(t, OpDial, transport.Op)
			},
		},
		{
			name: "error - send fails and connection is closed",
			mockFn: func(f *testFixture) {
				f.dialer.EXPECT().Dial(gomock.Any()).Return(f.conn, nil)
				f.conn.EXPECT().Send(gomock.Any(), gomock.Any()).Return(errors.New("broken pipe"))
				f.conn.EXPECT().Close().Return(nil)
			},
			assertFn: func(t *testing.T, n int, state *State, err error) {
				var transport *TransportError
				require.ErrorAs(t, err, &transport)
				assert.Equal(t, OpSend, transport.Op)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := setupTestFixture(t)
			tc.mockFn(f)

			state := NewState()
			n, err := NewController(f.dialer, logger.NewNop()).RequestAll(context.Background(), state)
			tc.assertFn(t, n, state, err)
		})
	}
}

func TestController_RequestAll_SmallBuffer(t *testing.T) {
	f := setupTestFixture(t)
	f.expectSession(protocol.StreamAllRequest())
	f.conn.EXPECT().Receive(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, buf []byte) (int, error) {
			assert.Len(t, buf, protocol.RecordSize)
			return 0, io.EOF
		})

	c := NewController(f.dialer, logger.NewNop(), WithReadBufferSize(4))
	_, err := c.RequestAll(context.Background(), NewState())
	assert.ErrorIs(t, err, ErrNoData)
}

func TestController_RequestOne(t *testing.T) {
	testCases := []struct {
		name     string
		seq      int32
		mockFn   func(f *testFixture)
		assertFn func(t *testing.T, state *State, err error)
	}{
		{
			name: "success",
			seq:  2,
			mockFn: func(f *testFixture) {
				f.expectSession([]byte{2, 2})
				f.conn.EXPECT().Receive(gomock.Any(), gomock.Any()).DoAndReturn(chunkReceiver(nil, encodeSeqs(2)))
			},
			assertFn: func(t *testing.T, state *State, err error) {
				require.NoError(t, err)
				assert.Equal(t, []int32{1, 3, 2}, sequences(state.Ticks))
				assert.True(t, state.Gaps.IsEmpty())
			},
		},
		{
			name: "success - record delivered in pieces",
			seq:  2,
			mockFn: func(f *testFixture) {
				rec := encodeSeqs(2)
				f.expectSession([]byte{2, 2})
				f.conn.EXPECT().Receive(gomock.Any(), gomock.Any()).DoAndReturn(chunkReceiver(nil, rec[:5], rec[5:])).Times(2)
			},
			assertFn: func(t *testing.T, state *State, err error) {
				require.NoError(t, err)
				assert.True(t, state.Gaps.IsEmpty())
			},
		},
		{
			name:   "error - sequence does not fit one byte",
			seq:    256,
			mockFn: func(f *testFixture) {},
			assertFn: func(t *testing.T, state *State, err error) {
				assert.ErrorIs(t, err, ErrSequenceOutOfRange)
				assert.True(t, IsFatal(err))
			},
		},
		{
			name: "error - wrong sequence returned",
			seq:  2,
			mockFn: func(f *testFixture) {
				f.expectSession([]byte{2, 2})
				f.conn.EXPECT().Receive(gomock.Any(), gomock.Any()).DoAndReturn(chunkReceiver(nil, encodeSeqs(5)))
			},
			assertFn: func(t *testing.T, state *State, err error) {
				assert.ErrorIs(t, err, ErrUnexpectedSequence)
				assert.False(t, IsFatal(err))
				assert.Len(t, state.Ticks, 2)
				assert.Equal(t, []int32{2}, state.Gaps.Pending())
			},
		},
		{
			name: "error - closed without data",
			seq:  2,
			mockFn: func(f *testFixture) {
				f.expectSession([]byte{2, 2})
				f.conn.EXPECT().Receive(gomock.Any(), gomock.Any()).Return(0, io.EOF)
			},
			assertFn: func(t *testing.T, state *State, err error) {
				assert.ErrorIs(t, err, ErrNoData)
				assert.Equal(t, []int32{2}, state.Gaps.Pending())
			},
		},
		{
			name: "error - truncated record",
			seq:  2,
			mockFn: func(f *testFixture) {
				f.expectSession([]byte{2, 2})
				f.conn.EXPECT().Receive(gomock.Any(), gomock.Any()).DoAndReturn(chunkReceiver(nil, encodeSeqs(2)[:9])).Times(2)
			},
			assertFn: func(t *testing.T, state *State, err error) {
				var transport *TransportError
				require.ErrorAs(t, err, &transport)
				assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
				assert.Equal(t, []int32{2}, state.Gaps.Pending())
			},
		},
		{
			name: "error - corrupt record",
			seq:  2,
			mockFn: func(f *testFixture) {
				bad := newTick(2)
				bad.Side = 'X'
				f.expectSession([]byte{2, 2})
				f.conn.EXPECT().Receive(gomock.Any(), gomock.Any()).DoAndReturn(chunkReceiver(nil, encodeTicks(bad)))
			},
			assertFn: func(t *testing.T, state *State, err error) {
				assert.ErrorIs(t, err, protocol.ViolationSide)
				assert.True(t, IsFatal(err))
				assert.Len(t, state.Ticks, 2)
			},
		},
		{
			name: "error - dial fails",
			seq:  2,
			mockFn: func(f *testFixture) {
				f.dialer.EXPECT().Dial(gomock.Any()).Return(nil, errors.New("refused"))
			},
			assertFn: func(t *testing.T, state *State, err error) {
				var transport *TransportError
				require.ErrorAs(t, err, &transport)
				assert.Equal(t, OpDial, transport.Op)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := setupTestFixture(t)
			tc.mockFn(f)

			state := NewState()
			state.Ticks = append(state.Ticks, newTick(1), newTick(3))
			state.Gaps.Observe(1)
			state.Gaps.Observe(3)

			err := NewController(f.dialer, logger.NewNop()).RequestOne(context.Background(), state, tc.seq)
			tc.assertFn(t, state, err)
		})
	}
}
