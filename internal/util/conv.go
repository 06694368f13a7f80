package util

import (
	"strconv"
	"strings"
)

// MustParseUint returns 0 when s is not a valid unsigned integer.
func MustParseUint(s string) uint {
	id, _ := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	return uint(id)
}

func FormatUint(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// FormatNumber prints v without trailing zeros, e.g. 6 or 7.5.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
