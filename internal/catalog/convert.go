package catalog

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ListDelimiter separates items of list fields packed into a single string.
const ListDelimiter = "|"

var nullMoney = map[string]bool{"": true, "na": true, "n/a": true, "null": true, "none": true}

// ParseMoney parses values like "$3,119.39", " $70.38 " or "-$100".
// ok is false for empty, null-like or unparseable input.
func ParseMoney(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if nullMoney[strings.ToLower(s)] {
		return 0, false
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// convertValue turns a decoded JSON value into the Go value for kind.
// A nil result means the field is absent.
func convertValue(kind fieldKind, raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}

	switch kind {
	case kindString:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("expected %s, got %T", kind, raw)
		}
		return strings.TrimSpace(s), nil

	case kindInt:
		return toInt(raw)

	case kindBool:
		switch v := raw.(type) {
		case bool:
			return v, nil
		case string:
			switch strings.ToLower(strings.TrimSpace(v)) {
			case "true", "yes":
				return true, nil
			case "false", "no":
				return false, nil
			}
		}
		return nil, fmt.Errorf("expected %s, got %v", kind, raw)

	case kindMoney:
		switch v := raw.(type) {
		case json.Number:
			f, err := v.Float64()
			if err != nil {
				return nil, nil
			}
			return f, nil
		case float64:
			if math.IsNaN(v) {
				return nil, nil
			}
			return v, nil
		case string:
			if f, ok := ParseMoney(v); ok {
				return f, nil
			}
			return nil, nil
		}
		return nil, fmt.Errorf("expected %s, got %T", kind, raw)

	case kindList:
		return toList(raw)
	}

	return nil, fmt.Errorf("unsupported field kind %d", kind)
}

func toInt(raw any) (int, error) {
	var f float64
	switch v := raw.(type) {
	case json.Number:
		i, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("expected %s, got %q", kindInt, v)
		}
		return int(i), nil
	case float64:
		f = v
	case int:
		return v, nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("expected %s, got %q", kindInt, v)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("expected %s, got %T", kindInt, raw)
	}

	if f != math.Trunc(f) {
		return 0, fmt.Errorf("expected %s, got %v", kindInt, f)
	}
	return int(f), nil
}

// toList accepts a JSON array of strings or a delimiter-packed string and
// returns the ordered, trimmed, non-empty items.
func toList(raw any) ([]string, error) {
	var parts []string
	switch v := raw.(type) {
	case string:
		parts = strings.Split(v, ListDelimiter)
	case []any:
		parts = make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected %s, got item %T", kindList, item)
			}
			parts = append(parts, s)
		}
	case []string:
		parts = v
	default:
		return nil, fmt.Errorf("expected %s, got %T", kindList, raw)
	}

	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			items = append(items, p)
		}
	}
	return items, nil
}
