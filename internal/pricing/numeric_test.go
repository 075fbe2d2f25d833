package pricing

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func PtrTo[T any](v T) *T {
	return &v
}

func TestToNumber(t *testing.T) {
	tests := []struct {
		name   string
		input  any
		want   float64
		wantOK bool
	}{
		{"nil", nil, 0, false},
		{"float", 12.5, 12.5, true},
		{"negative float", -3.0, -3, true},
		{"NaN", math.NaN(), 0, false},
		{"positive infinity", math.Inf(1), 0, false},
		{"negative infinity", math.Inf(-1), 0, false},
		{"int", 42, 42, true},
		{"int64", int64(7), 7, true},
		{"uint8", uint8(3), 3, true},
		{"float32", float32(0.5), 0.5, true},
		{"plain numeric string", "1299.50", 1299.5, true},
		{"negative string", "-15", -15, true},
		{"currency prefix", "₹ 499", 499, true},
		{"grouping separator keeps first run", "₹1,234", 1, true},
		{"percent suffix", "3%", 3, true},
		{"no digits", "N/A", 0, false},
		{"empty string", "", 0, false},
		{"json number", json.Number("18.75"), 18.75, true},
		{"float pointer", PtrTo(9.99), 9.99, true},
		{"nil float pointer", (*float64)(nil), 0, false},
		{"string pointer", PtrTo("GST 5"), 5, true},
		{"bool", true, 0, false},
		{"slice", []any{1, 2}, 0, false},
		{"map", map[string]any{"v": 1}, 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ToNumber(tc.input)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestPositiveOrZero(t *testing.T) {
	assert.Equal(t, 250.0, PositiveOrZero("250"))
	assert.Equal(t, 0.0, PositiveOrZero(-10))
	assert.Equal(t, 0.0, PositiveOrZero(0))
	assert.Equal(t, 0.0, PositiveOrZero("free"))
	assert.Equal(t, 0.0, PositiveOrZero(nil))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 62.5, Round2(62.5))
	assert.Equal(t, 160.0, Round2(160.00000000000003))
	assert.Equal(t, 33.33, Round2(100.0/3))
	assert.Equal(t, 0.13, Round2(0.125))
	assert.Equal(t, -0.13, Round2(-0.125))
	assert.Equal(t, 0.0, Round2(math.NaN()))
	assert.Equal(t, 0.0, Round2(math.Inf(1)))
}
