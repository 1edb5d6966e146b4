package v1

import "fmt"

// Tick is a single market-data record as carried on the ABX feed.
type Tick struct {
	Symbol   [4]byte
	Side     byte // 'B' or 'S'
	Quantity int32
	Price    int32
	Sequence int32
}

// SymbolString returns the symbol as a string.
func (t Tick) SymbolString() string {
	return string(t.Symbol[:])
}

// String renders the tick as a fixed-width log line.
func (t Tick) String() string {
	return fmt.Sprintf(
		"Symbol: %s%-10s Buy/Sell Indicator: %-10c Quantity: %-10d Price: %-10d Sequence Number: %-10d",
		t.Symbol[:3], t.Symbol[3:], t.Side, t.Quantity, t.Price, t.Sequence,
	)
}

// Record is the document form of a tick.
type Record struct {
	Symbol           string `json:"symbol"`
	BuySellIndicator string `json:"buysellindicator"`
	Quantity         int32  `json:"quantity"`
	Price            int32  `json:"price"`
	PacketSequence   int32  `json:"packetSequence"`
}

// ToRecord converts the tick to its document form.
func (t Tick) ToRecord() Record {
	return Record{
		Symbol:           t.SymbolString(),
		BuySellIndicator: string(t.Side),
		Quantity:         t.Quantity,
		Price:            t.Price,
		PacketSequence:   t.Sequence,
	}
}
