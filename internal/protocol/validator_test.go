package protocol

import (
	"testing"

	tickv1 "github.com/muhammadchandra19/tickfeed/internal/domain/tick/v1"
	"github.com/stretchr/testify/assert"
)

func validTick() tickv1.Tick {
	return tickv1.Tick{Symbol: [4]byte{'M', 'S', 'F', 'T'}, Side: 'S', Quantity: 50, Price: 100, Sequence: 1}
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name     string
		mutateFn func(tick *tickv1.Tick)
		expect   Violation
	}{
		{name: "valid", mutateFn: func(tick *tickv1.Tick) {}, expect: ViolationNone},
		{name: "lowercase symbol", mutateFn: func(tick *tickv1.Tick) { tick.Symbol[1] = 's' }, expect: ViolationSymbol},
		{name: "digit in symbol", mutateFn: func(tick *tickv1.Tick) { tick.Symbol[3] = '1' }, expect: ViolationSymbol},
		{name: "symbol just above Z", mutateFn: func(tick *tickv1.Tick) { tick.Symbol[0] = '[' }, expect: ViolationSymbol},
		{name: "symbol just below A", mutateFn: func(tick *tickv1.Tick) { tick.Symbol[2] = '@' }, expect: ViolationSymbol},
		{name: "invalid side", mutateFn: func(tick *tickv1.Tick) { tick.Side = 'X' }, expect: ViolationSide},
		{name: "buy side", mutateFn: func(tick *tickv1.Tick) { tick.Side = 'B' }, expect: ViolationNone},
		{name: "zero quantity", mutateFn: func(tick *tickv1.Tick) { tick.Quantity = 0 }, expect: ViolationQuantity},
		{name: "negative quantity", mutateFn: func(tick *tickv1.Tick) { tick.Quantity = -3 }, expect: ViolationQuantity},
		{name: "zero price", mutateFn: func(tick *tickv1.Tick) { tick.Price = 0 }, expect: ViolationPrice},
		{name: "negative price", mutateFn: func(tick *tickv1.Tick) { tick.Price = -1 }, expect: ViolationPrice},
		{name: "zero sequence", mutateFn: func(tick *tickv1.Tick) { tick.Sequence = 0 }, expect: ViolationSequence},
		{name: "negative sequence", mutateFn: func(tick *tickv1.Tick) { tick.Sequence = -9 }, expect: ViolationSequence},
		{
			name: "first violation wins",
			mutateFn: func(tick *tickv1.Tick) {
				tick.Side = 'X'
				tick.Quantity = 0
				tick.Sequence = 0
			},
			expect: ViolationSide,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tick := validTick()
			tc.mutateFn(&tick)

			got := Validate(tick)
			assert.Equal(t, tc.expect, got)
			assert.Equal(t, tc.expect == ViolationNone, got.Valid())
			assert.Equal(t, got.Valid(), IsValid(tick))
		})
	}
}

func TestViolation_Error(t *testing.T) {
	assert.Equal(t, "symbol should be uppercase english letters", ViolationSymbol.Error())
	assert.Equal(t, "quantity should be a non-zero positive integer", ViolationQuantity.Error())
	assert.Equal(t, "unknown violation", Violation(99).Error())
}
