package cgmes

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Number is an optional numeric attribute. It is either absent, a valid
// float, or an invalid value whose raw text is kept for reporting.
type Number struct {
	value float64
	set   bool
	raw   string
}

// Num returns a valid Number.
func Num(v float64) Number {
	return Number{value: v, set: true, raw: strconv.FormatFloat(v, 'g', -1, 64)}
}

// BadNum returns an invalid Number holding raw.
func BadNum(raw string) Number {
	return Number{value: math.NaN(), set: true, raw: raw}
}

// IsSet reports whether the attribute was present.
func (n Number) IsSet() bool {
	return n.set
}

// IsZero reports an absent attribute, for omitempty.
func (n Number) IsZero() bool {
	return !n.set
}

// Raw returns the text the attribute was read from.
func (n Number) Raw() string {
	return n.raw
}

// Or returns the value, or def when absent. An invalid value is NaN.
func (n Number) Or(def float64) float64 {
	if !n.set {
		return def
	}

	return n.value
}

// Float returns the value, NaN when absent or invalid.
func (n Number) Float() float64 {
	return n.Or(math.NaN())
}

// UnmarshalYAML accepts any scalar. Text that does not parse as a float
// yields an invalid Number rather than an error.
func (n *Number) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a number, got %v", node.Line, node.Kind)
	}

	if node.Tag == "!!null" {
		*n = Number{}

		return nil
	}

	raw := strings.TrimSpace(node.Value)

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		*n = BadNum(raw)

		return nil
	}

	*n = Number{value: v, set: true, raw: raw}

	return nil
}

// MarshalYAML writes the value, or the raw text when invalid.
func (n Number) MarshalYAML() (any, error) {
	switch {
	case !n.set:
		return nil, nil
	case math.IsNaN(n.value):
		return n.raw, nil
	default:
		return n.value, nil
	}
}
