package session

import "github.com/muhammadchandra19/tickfeed/internal/protocol"

// DefaultReadBufferSize holds ten records.
const DefaultReadBufferSize = 10 * protocol.RecordSize

// Options tunes a Controller.
type Options struct {
	ReadBufferSize int
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns the default controller options.
func DefaultOptions() *Options {
	return &Options{ReadBufferSize: DefaultReadBufferSize}
}

// WithReadBufferSize sets the bulk read chunk size. Values below one record
// are raised to one record.
func WithReadBufferSize(size int) Option {
	return func(o *Options) {
		o.ReadBufferSize = max(size, protocol.RecordSize)
	}
}
