package utils

import (
	"math"
	"strconv"
	"strings"
)

// ParseInt parses an integer cell. Spreadsheet exports sometimes write
// years as "2011.0", which is accepted as long as there is no fraction.
func ParseInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if i, err := strconv.Atoi(s); err == nil {
		return i, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, &strconv.NumError{Func: "ParseInt", Num: s, Err: strconv.ErrSyntax}
	}
	return int(f), nil
}

// ParseFloat parses a numeric cell.
func ParseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// ParseJobID parses a positive decimal job id from a path segment.
func ParseJobID(s string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}
