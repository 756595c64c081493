package bitform

import (
	"fmt"
	"strconv"
)

// FieldType is the scale/unit/value-table rendering contract for a
// terminal value: the raw parsed integer is not what gets displayed, the
// string this produces is.
type FieldType struct {
	// Factor and Constant linearly scale the raw value: factor*raw + constant.
	Factor float64
	// Constant is added after scaling by Factor.
	Constant float64
	// Unit is appended to the scaled value, when non-empty.
	Unit string
	// ValueTable is either a map[any]string (exact raw-value lookup) or a
	// func(any) string; nil disables table-based rendering entirely.
	ValueTable any
}

// NewFieldType returns a FieldType with Factor defaulted to 1, matching
// the class-attribute default of the rendering contract.
func NewFieldType() *FieldType {
	return &FieldType{Factor: 1}
}

// String renders raw (the scalar's raw value) per the three-rule
// precedence: a matching ValueTable entry, a callable ValueTable, or the
// linear factor/constant/unit rendering.
func (ft *FieldType) String(raw any) string {
	if ft == nil {
		return fmt.Sprintf("%v", raw)
	}

	switch table := ft.ValueTable.(type) {
	case map[any]string:
		if label, ok := table[raw]; ok {
			return label
		}
	case func(any) string:
		return table(raw)
	}

	value := ft.Factor*toFloat(raw) + ft.Constant
	s := strconv.FormatFloat(value, 'g', -1, 64)
	if ft.Unit != "" {
		return s + " " + ft.Unit
	}
	return s
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case uint64:
		return float64(n)
	case int:
		return float64(n)
	case bool:
		if n {
			return 1
		}
		return 0
	default:
		return 0
	}
}
