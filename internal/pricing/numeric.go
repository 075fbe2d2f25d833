// Package pricing resolves display prices, discounts and checkout totals
// for catalog products. Every function is pure and safe for concurrent use.
package pricing

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"

	"github.com/shopspring/decimal"
)

var numericRun = regexp.MustCompile(`-?\d+(\.\d+)?`)

// ToNumber coerces a loosely typed value into a finite float64. The boolean
// is false when the value is absent or not numeric.
//
// Strings yield their first signed decimal run, so "₹1,234" yields 1; callers
// that need separator-aware parsing must clean the input first.
func ToNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case nil:
		return 0, false
	case float64:
		return finite(v)
	case float32:
		return finite(float64(v))
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case json.Number:
		return parseNumericRun(string(v))
	case string:
		return parseNumericRun(v)
	case *float64:
		if v == nil {
			return 0, false
		}
		return finite(*v)
	case *int:
		if v == nil {
			return 0, false
		}
		return float64(*v), true
	case *string:
		if v == nil {
			return 0, false
		}
		return parseNumericRun(*v)
	default:
		return 0, false
	}
}

// PositiveOrZero returns the coerced value when it is positive, else 0.
func PositiveOrZero(value any) float64 {
	n, ok := ToNumber(value)
	if !ok || n <= 0 {
		return 0
	}
	return n
}

// Round2 rounds x to two decimal places, half away from zero.
func Round2(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return decimal.NewFromFloat(x).Round(2).InexactFloat64()
}

func parseNumericRun(s string) (float64, bool) {
	run := numericRun.FindString(s)
	if run == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(run, 64)
	if err != nil {
		return 0, false
	}
	return finite(n)
}

func finite(x float64) (float64, bool) {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, false
	}
	return x, true
}

func positive(x float64) float64 {
	if x > 0 {
		return x
	}
	return 0
}
