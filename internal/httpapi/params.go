package httpapi

import (
	"strconv"
	"strings"
)

const (
	defaultPage     = 1
	defaultPageSize = 12
	maxPageSize     = 100
)

// parsePageParam reads a 1-indexed page number. Anything that is not a
// positive integer falls back to the default; callers never see a paging
// error for junk input.
func parsePageParam(raw string) int {
	return parseLenientInt(raw, defaultPage, 1, 1_000_000)
}

// parsePageSizeParam reads the page size with the same lenient policy,
// clamped at the upper bound.
func parsePageSizeParam(raw string) int {
	return parseLenientInt(raw, defaultPageSize, 1, maxPageSize)
}

func parseLenientInt(raw string, defaultValue, minValue, maxValue int) int {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(trimmed)
	if err != nil || value < minValue {
		return defaultValue
	}
	if value > maxValue {
		return maxValue
	}
	return value
}
