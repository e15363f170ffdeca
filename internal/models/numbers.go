package models

import (
	"encoding/json"
	"strconv"
)

// AttrNumber returns the numeric value of an attribute.
// Missing or non-numeric values yield 0 so aggregate sums never fail
// on partially populated backend data.
func (d Deal) AttrNumber(field string) float64 {
	v, ok := d.Attributes[field]
	if !ok || v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func stringify(v any) string {
	switch s := v.(type) {
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case bool:
		return strconv.FormatBool(s)
	case json.Number:
		return s.String()
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
