package library

import (
	"time"

	"github.com/c2h5oh/datasize"
)

// Video is a single downloaded video record. Records are insert-only:
// one row is written per completed download and never updated.
type Video struct {
	ID        int64
	CreatedAt string

	Title       string
	Author      string
	Description string
	SourceURL   string

	PublishDate  time.Time
	ThumbnailURL string

	Length     int64
	Size       int64
	Resolution string
}

func (v Video) SizeString() string {
	return datasize.ByteSize(v.Size).HumanReadable()
}
