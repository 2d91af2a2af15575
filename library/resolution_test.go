package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseResolution(t *testing.T) {
	cases := []struct {
		in      string
		out     int64
		wantErr bool
	}{
		{"720p", 720, false},
		{"1080p", 1080, false},
		{"0p", 0, false},
		{"480", 480, false},
		{"", 0, true},
		{"p", 0, true},
		{"abc", 0, true},
		{"-720p", 0, true},
	}
	for _, c := range cases {
		n, err := ParseResolution(c.in)
		if c.wantErr {
			assert.ErrorIs(t, err, ErrInvalidResolution, c.in)
		} else {
			assert.NoError(t, err, c.in)
			assert.EqualValues(t, c.out, n, c.in)
		}
	}
}

func TestStripResolution(t *testing.T) {
	s, err := StripResolution("720p")
	assert.NoError(t, err)
	assert.Equal(t, "720", s)

	_, err = StripResolution("hd")
	assert.ErrorIs(t, err, ErrInvalidResolution)
}
