package intent

import (
	"fmt"
	"strconv"
)

// Value is a sealed interface over the types a condition value may carry.
// Only Text, Number, and Null implement it. The marker method prevents
// external implementations and enables exhaustive type switches in the
// assembler and store.
type Value interface {
	value()
}

// Text is a string value. Text comparisons against text columns fold case
// on both sides.
type Text string

func (Text) value() {}

// Number is a numeric value. Extracted numerics are parsed with ParseFloat
// so "19", "19.5", and "19.0" all coerce.
type Number float64

func (Number) value() {}

// Null marks an IS NULL / IS NOT NULL condition, which binds no parameter.
type Null struct{}

func (Null) value() {}

// Native converts a Value to the driver-native type passed to database/sql.
func Native(v Value) any {
	switch val := v.(type) {
	case Text:
		return string(val)
	case Number:
		return float64(val)
	case Null:
		return nil
	default:
		panic(fmt.Sprintf("unreachable value type %T", v))
	}
}

// Coerce parses raw text into a Number when the target column is numeric,
// falling back to Text when parsing fails. The fallback keeps a value like
// "twenty" comparable as a quoted string rather than failing the request.
func Coerce(raw string, numeric bool) Value {
	if numeric {
		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			return Number(n)
		}
	}
	return Text(raw)
}
