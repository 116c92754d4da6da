package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ToDocument converts a record into its stored form. The JSON round trip drops unset
// optional fields, which document stores reject.
func ToDocument(e *Examiner) (map[string]any, error) {
	raw, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to encode examiner: %w", err)
	}
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to decode examiner: %w", err)
	}
	// Keep the serial integral rather than the float64 the round trip produces.
	if e.Serial > 0 {
		data["sl"] = e.Serial
	}
	return data, nil
}

// FromDocument decodes a stored document. A serial that does not parse as a positive
// integer is left at zero.
func FromDocument(id string, data map[string]any) (*Examiner, error) {
	clean := make(map[string]any, len(data))
	for k, v := range data {
		if k == "sl" {
			continue
		}
		clean[k] = v
	}
	raw, err := json.Marshal(clean)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document %s: %w", id, err)
	}
	e := &Examiner{}
	if err := json.Unmarshal(raw, e); err != nil {
		return nil, fmt.Errorf("failed to decode document %s: %w", id, err)
	}
	e.ID = id
	if sl, ok := ParseSerial(data["sl"]); ok {
		e.Serial = sl
	}
	return e, nil
}

// maxExactSerial bounds float inputs to the range a float64 holds exactly (2^53).
const maxExactSerial = 1 << 53

// ParseSerial interprets a stored serial value numerically. Strings are accepted so that
// "9" and "10" compare as 9 < 10. Absent, non-numeric, non-integral and non-positive
// values are rejected, as are float values too large to be represented exactly.
func ParseSerial(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return positive(int64(n))
	case int32:
		return positive(int64(n))
	case int64:
		return positive(n)
	case float32:
		return serialFromFloat(float64(n))
	case float64:
		return serialFromFloat(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return positive(i)
		}
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return serialFromFloat(f)
	case string:
		text := strings.TrimSpace(n)
		if i, err := strconv.ParseInt(text, 10, 64); err == nil {
			return positive(i)
		}
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return 0, false
		}
		return serialFromFloat(f)
	}
	return 0, false
}

func positive(i int64) (int64, bool) {
	if i <= 0 {
		return 0, false
	}
	return i, true
}

func serialFromFloat(f float64) (int64, bool) {
	if math.IsNaN(f) || f <= 0 || f >= maxExactSerial || f != math.Trunc(f) {
		return 0, false
	}
	return int64(f), true
}

// Sanitize returns a copy of data without nil values, recursing into nested maps.
func Sanitize(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		switch val := v.(type) {
		case nil:
			continue
		case map[string]any:
			out[k] = Sanitize(val)
		default:
			out[k] = val
		}
	}
	return out
}

// StripFields returns a copy of data without the named keys.
func StripFields(data map[string]any, keys ...string) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = v
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

// ValuesEqual compares two stored values, numerically when both are numbers.
func ValuesEqual(a, b any) bool {
	if fa, ok := numeric(a); ok {
		if fb, ok := numeric(b); ok {
			return fa == fb
		}
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

func numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
