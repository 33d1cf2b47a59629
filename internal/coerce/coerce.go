// Package coerce turns loosely typed JSON values into the typed fields the
// policy engine works with. Inputs are expected to come from a decoder with
// UseNumber enabled, so numbers arrive as json.Number.
package coerce

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrNotNumeric is returned when a value cannot be read as a number.
	ErrNotNumeric = errors.New("not a number")

	// ErrNotInteger is returned when a number has a fractional part.
	ErrNotInteger = errors.New("not an integer")

	// ErrNotFinite is returned for NaN and infinite values.
	ErrNotFinite = errors.New("not a finite number")

	// ErrNotSequence is returned when a value is not a JSON array.
	ErrNotSequence = errors.New("not a list")

	// ErrNotMapping is returned when a value is not a JSON object.
	ErrNotMapping = errors.New("not an object")
)

// Float reads v as a float64. A nil value yields def.
func Float(v interface{}, def float64) (float64, error) {
	var f float64
	switch n := v.(type) {
	case nil:
		return def, nil
	case json.Number:
		parsed, err := strconv.ParseFloat(n.String(), 64)
		if err != nil {
			return 0, fmt.Errorf("%q: %w", n.String(), ErrNotNumeric)
		}
		f = parsed
	case float64:
		f = n
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, fmt.Errorf("%q: %w", n, ErrNotNumeric)
		}
		f = parsed
	default:
		return 0, fmt.Errorf("%T: %w", v, ErrNotNumeric)
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%v: %w", f, ErrNotFinite)
	}
	return f, nil
}

// Int reads v as an int. Whole floats such as 2.0 are accepted; 2.5 is not.
// A nil value yields def.
func Int(v interface{}, def int) (int, error) {
	if v == nil {
		return def, nil
	}

	if n, ok := v.(json.Number); ok {
		if i, err := n.Int64(); err == nil {
			if i > math.MaxInt32 || i < math.MinInt32 {
				return 0, fmt.Errorf("%d: out of range: %w", i, ErrNotInteger)
			}
			return int(i), nil
		}
	}

	f, err := Float(v, 0)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%v: %w", f, ErrNotInteger)
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, fmt.Errorf("%v: out of range: %w", f, ErrNotInteger)
	}
	return int(f), nil
}

// Items returns the elements of a JSON array as raw messages. A nil value
// yields an empty slice.
func Items(v interface{}) ([]json.RawMessage, error) {
	if v == nil {
		return []json.RawMessage{}, nil
	}

	list, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%T: %w", v, ErrNotSequence)
	}

	items := make([]json.RawMessage, 0, len(list))
	for _, item := range list {
		data, err := json.Marshal(item)
		if err != nil {
			return nil, err
		}
		items = append(items, data)
	}
	return items, nil
}

// Strings returns the string elements of a JSON array in order, dropping
// repeats after their first occurrence. A nil value yields an empty slice.
func Strings(v interface{}) ([]string, error) {
	if v == nil {
		return []string{}, nil
	}

	list, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%T: %w", v, ErrNotSequence)
	}

	seen := make(map[string]bool, len(list))
	out := make([]string, 0, len(list))
	for i, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("element %d is %T, want string", i, item)
		}
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out, nil
}

// Coverage reads a JSON object of law coverage flags. Only a literal true
// marks a law as covered; every other value is stored as false.
func Coverage(v interface{}) (map[string]bool, error) {
	if v == nil {
		return map[string]bool{}, nil
	}

	m, ok := v.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%T: %w", v, ErrNotMapping)
	}

	out := make(map[string]bool, len(m))
	for law, flag := range m {
		covered, isBool := flag.(bool)
		out[law] = isBool && covered
	}
	return out, nil
}
