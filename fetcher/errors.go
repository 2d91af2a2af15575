package fetcher

import "errors"

var (
	ErrVideoNotFound    = errors.New("could not resolve video URL")
	ErrVideoUnavailable = errors.New("video is unavailable")
	ErrNoMatchingStream = errors.New("no stream at requested resolution")
)
