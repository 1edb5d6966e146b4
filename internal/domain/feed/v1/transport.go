package v1

import "context"

//go:generate mockgen -source=transport.go -destination=mock/transport_mock.go -package=mock

// Dialer opens connections to the ABX endpoint.
type Dialer interface {
	Dial(ctx context.Context) (Conn, error)
}

// Conn is a single stream connection to the feed.
// Receive returns io.EOF once the server closes the stream cleanly.
type Conn interface {
	Send(ctx context.Context, payload []byte) error
	Receive(ctx context.Context, buf []byte) (int, error)
	Close() error
}
