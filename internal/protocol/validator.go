package protocol

import tickv1 "github.com/muhammadchandra19/tickfeed/internal/domain/tick/v1"

// Violation names the first field of a tick that failed validation.
type Violation int

// Violations in check order.
const (
	ViolationNone Violation = iota
	ViolationSymbol
	ViolationSide
	ViolationQuantity
	ViolationPrice
	ViolationSequence
)

var violationMessages = map[Violation]string{
	ViolationNone:     "valid",
	ViolationSymbol:   "symbol should be uppercase english letters",
	ViolationSide:     "buy/sell indicator should be either B or S",
	ViolationQuantity: "quantity should be a non-zero positive integer",
	ViolationPrice:    "price should be a non-zero positive integer",
	ViolationSequence: "sequence number should be a non-zero positive integer",
}

// Valid reports whether no violation was found.
func (v Violation) Valid() bool {
	return v == ViolationNone
}

func (v Violation) Error() string {
	if msg, ok := violationMessages[v]; ok {
		return msg
	}
	return "unknown violation"
}

// String is an alias of Error for log fields.
func (v Violation) String() string {
	return v.Error()
}

// Validate checks the fields of t in order and reports the first failure.
func Validate(t tickv1.Tick) Violation {
	for _, c := range t.Symbol {
		if c < 'A' || c > 'Z' {
			return ViolationSymbol
		}
	}

	switch {
	case t.Side != 'B' && t.Side != 'S':
		return ViolationSide
	case t.Quantity <= 0:
		return ViolationQuantity
	case t.Price <= 0:
		return ViolationPrice
	case t.Sequence <= 0:
		return ViolationSequence
	}

	return ViolationNone
}

// IsValid reports whether t passes every check.
func IsValid(t tickv1.Tick) bool {
	return Validate(t).Valid()
}
