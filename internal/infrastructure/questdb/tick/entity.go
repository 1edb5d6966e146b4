package tick

import (
	"time"

	tickv1 "github.com/muhammadchandra19/tickfeed/internal/domain/tick/v1"
)

// Row is one row of the ticks table.
type Row struct {
	Timestamp time.Time
	SessionID string
	Symbol    string
	Side      string
	Quantity  int32
	Price     int32
	Sequence  int32
}

// NewRow maps a feed tick to a table row.
func NewRow(t tickv1.Tick, sessionID string, ts time.Time) Row {
	return Row{
		Timestamp: ts,
		SessionID: sessionID,
		Symbol:    t.SymbolString(),
		Side:      string(t.Side),
		Quantity:  t.Quantity,
		Price:     t.Price,
		Sequence:  t.Sequence,
	}
}
