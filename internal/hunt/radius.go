package hunt

import (
	"errors"
	"strconv"
	"strings"
)

var (
	// ErrRadiusNotInteger is returned for text that is not a base-10 integer.
	ErrRadiusNotInteger = errors.New("hunt: radius is not an integer")
	// ErrRadiusNotPositive is returned for zero or negative radii.
	ErrRadiusNotPositive = errors.New("hunt: radius must be positive")
)

// ParseRadius parses a whitespace-trimmed integer radius in meters.
func ParseRadius(text string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, ErrRadiusNotInteger
	}
	if n <= 0 {
		return 0, ErrRadiusNotPositive
	}
	return n, nil
}
