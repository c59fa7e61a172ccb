package platform

import "fmt"

// toInt64 converts the numeric types a decoded payload may carry to int64.
// JSON numbers decode as float64.
func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), true
	case float32:
		return int64(n), true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}

func parseString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case fmt.Stringer:
		return v.String()
	default:
		return ""
	}
}

// parseStringSlice converts a decoded JSON array of strings. A missing value
// is an empty slice; anything else that is not all strings fails.
func parseStringSlice(value any) ([]string, bool) {
	switch v := value.(type) {
	case nil:
		return nil, true
	case []string:
		return append([]string(nil), v...), true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

// parseArgs returns the positional arguments of a decoded JSON array.
func parseArgs(value any) []any {
	if items, ok := value.([]any); ok {
		return items
	}
	return nil
}
