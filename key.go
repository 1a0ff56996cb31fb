package params

import (
	"math"
	"strconv"
)

// normalizeKey converts key into the stored form: a non-empty string or an
// int. Canonical decimal strings collapse onto the matching int so "1" and 1
// address the same entry.
func normalizeKey(key any) (any, bool) {
	switch k := key.(type) {
	case string:
		if k == "" {
			return nil, false
		}
		if n, ok := canonicalInt(k); ok {
			return n, true
		}
		return k, true
	case int:
		return k, true
	case int8:
		return int(k), true
	case int16:
		return int(k), true
	case int32:
		return int(k), true
	case int64:
		if k < math.MinInt || k > math.MaxInt {
			return nil, false
		}
		return int(k), true
	case uint:
		if k > math.MaxInt {
			return nil, false
		}
		return int(k), true
	case uint8:
		return int(k), true
	case uint16:
		return int(k), true
	case uint32:
		return int(k), true
	case uint64:
		if k > math.MaxInt {
			return nil, false
		}
		return int(k), true
	default:
		return nil, false
	}
}

func canonicalInt(s string) (int, bool) {
	if s == "" || len(s) > 20 {
		return 0, false
	}
	digits := s
	if s[0] == '-' {
		digits = s[1:]
	}
	if digits == "" || (digits[0] == '0' && len(digits) > 1) {
		return 0, false
	}
	if s == "-0" {
		return 0, false
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// keyString renders a stored key the way snapshots and paths spell it.
func keyString(key any) string {
	switch k := key.(type) {
	case string:
		return k
	case int:
		return strconv.Itoa(k)
	default:
		return ""
	}
}

func mustKey(op string, key any) (any, error) {
	normalized, ok := normalizeKey(key)
	if !ok {
		return nil, opError(op, key, ErrInvalidKey)
	}
	return normalized, nil
}

// compareKeys orders ints before strings, each ascending.
func compareKeys(a, b any) int {
	ai, aInt := a.(int)
	bi, bInt := b.(int)
	switch {
	case aInt && bInt:
		switch {
		case ai < bi:
			return -1
		case ai > bi:
			return 1
		}
		return 0
	case aInt:
		return -1
	case bInt:
		return 1
	}
	as, bs := keyString(a), keyString(b)
	switch {
	case as < bs:
		return -1
	case as > bs:
		return 1
	}
	return 0
}
