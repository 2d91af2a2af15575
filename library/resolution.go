package library

import (
	"strconv"

	"github.com/pkg/errors"
)

var ErrInvalidResolution = errors.New("invalid resolution")

// ParseResolution converts a resolution label such as "720p" into its
// vertical pixel count. One trailing unit character is stripped before
// parsing, bare numbers are accepted as is.
func ParseResolution(s string) (int64, error) {
	if s == "" {
		return 0, ErrInvalidResolution
	}
	if c := s[len(s)-1]; c < '0' || c > '9' {
		s = s[:len(s)-1]
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0, errors.Wrap(ErrInvalidResolution, s)
	}
	return n, nil
}

// StripResolution removes the trailing unit character from a resolution
// label, producing the canonical stored form ("720p" becomes "720").
func StripResolution(s string) (string, error) {
	n, err := ParseResolution(s)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n, 10), nil
}
