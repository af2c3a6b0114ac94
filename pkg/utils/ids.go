package utils

import (
	"encoding/json"
	"strconv"
	"strings"
)

// NormalizeID canonicalizes the id representations that arrive at API and
// queue boundaries (numbers, numeric strings, json.Number) into a uint.
// Returns false for anything that does not resolve to a positive integer;
// callers treat false as "no such user", not as an error.
func NormalizeID(v interface{}) (uint, bool) {
	switch id := v.(type) {
	case uint:
		if id == 0 {
			return 0, false
		}
		return id, true
	case uint64:
		if id == 0 {
			return 0, false
		}
		return uint(id), true
	case int:
		if id <= 0 {
			return 0, false
		}
		return uint(id), true
	case int64:
		if id <= 0 {
			return 0, false
		}
		return uint(id), true
	case float64:
		if id <= 0 || id != float64(uint(id)) {
			return 0, false
		}
		return uint(id), true
	case json.Number:
		n, err := strconv.ParseUint(id.String(), 10, 64)
		if err != nil || n == 0 {
			return 0, false
		}
		return uint(n), true
	case string:
		s := strings.TrimSpace(id)
		if s == "" {
			return 0, false
		}
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil || n == 0 {
			return 0, false
		}
		return uint(n), true
	default:
		return 0, false
	}
}
