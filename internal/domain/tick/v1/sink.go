package v1

import "context"

//go:generate mockgen -source=sink.go -destination=mock/sink_mock.go -package=mock

// Sink receives the assembled, sequence-ordered tick collection.
type Sink interface {
	Write(ctx context.Context, ticks []Tick) error
	Name() string
}
