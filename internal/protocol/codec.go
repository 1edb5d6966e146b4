// Package protocol implements the ABX wire format: 2-byte request frames and
// fixed 17-byte big-endian tick records.
package protocol

import (
	"encoding/binary"

	tickv1 "github.com/muhammadchandra19/tickfeed/internal/domain/tick/v1"
)

// RecordSize is the width of one tick record on the wire.
const RecordSize = 17

// Request call types.
const (
	CallStreamAll  byte = 1
	CallResendPack byte = 2
)

// MaxResendSequence is the largest sequence a resend request can address;
// the parameter is a single byte.
const MaxResendSequence = 255

// StreamAllRequest returns the request frame for the full feed.
func StreamAllRequest() []byte {
	return []byte{CallStreamAll, 0}
}

// ResendRequest returns the request frame for one record. The caller ensures
// 1 <= seq <= MaxResendSequence.
func ResendRequest(seq int32) []byte {
	return []byte{CallResendPack, byte(seq)}
}

// Decode reads one record from the first RecordSize bytes of buf.
// It never fails; use Validate to check the content.
func Decode(buf []byte) tickv1.Tick {
	_ = buf[RecordSize-1]

	var t tickv1.Tick
	copy(t.Symbol[:], buf[0:4])
	t.Side = buf[4]
	t.Quantity = int32(binary.BigEndian.Uint32(buf[5:9]))
	t.Price = int32(binary.BigEndian.Uint32(buf[9:13]))
	t.Sequence = int32(binary.BigEndian.Uint32(buf[13:17]))
	return t
}

// Encode appends the wire form of t to dst.
func Encode(dst []byte, t tickv1.Tick) []byte {
	dst = append(dst, t.Symbol[:]...)
	dst = append(dst, t.Side)
	dst = binary.BigEndian.AppendUint32(dst, uint32(t.Quantity))
	dst = binary.BigEndian.AppendUint32(dst, uint32(t.Price))
	dst = binary.BigEndian.AppendUint32(dst, uint32(t.Sequence))
	return dst
}
