package fetcher

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"github.com/kkdai/youtube/v2"
	"github.com/pkg/errors"
)

// Metadata holds everything the video source reports about a resolved video.
type Metadata struct {
	ID           string
	Title        string
	Author       string
	Description  string
	SourceURL    string
	PublishDate  time.Time
	ThumbnailURL string
	Length       int64
}

// Result is a resolved video handle with one stream selected for download.
type Result struct {
	Metadata

	StreamSize  int64
	StreamLabel string

	video  *youtube.Video
	format *youtube.Format
}

// Filename is where the stream ends up relative to the media directory.
func (r *Result) Filename() string {
	return fmt.Sprintf("%v_%v.mp4", r.ID, strings.TrimSuffix(r.StreamLabel, "p"))
}

// Fetcher resolves video links and retrieves stream binaries.
type Fetcher interface {
	Fetch(ctx context.Context, link, resolution string) (*Result, error)
	Download(ctx context.Context, r *Result, dir string) (int64, error)
}

// YouTubeFetcher talks to youtube through the client library.
type YouTubeFetcher struct {
	client youtube.Client
}

func NewYouTubeFetcher() *YouTubeFetcher {
	return &YouTubeFetcher{client: youtube.Client{}}
}

// Fetch resolves a video link and selects the stream matching the
// requested resolution label exactly.
func (f *YouTubeFetcher) Fetch(ctx context.Context, link, resolution string) (*Result, error) {
	id, err := youtube.ExtractVideoID(link)
	if err != nil {
		return nil, errors.Wrap(ErrVideoNotFound, err.Error())
	}

	video, err := f.client.GetVideoContext(ctx, id)
	if err != nil {
		logger.Warnw("video resolve failed", "link", link, "err", err)
		return nil, errors.Wrap(ErrVideoUnavailable, err.Error())
	}

	format, err := selectFormat(video.Formats, resolution)
	if err != nil {
		return nil, err
	}

	md := Metadata{
		ID:          video.ID,
		Title:       video.Title,
		Author:      video.Author,
		Description: video.Description,
		SourceURL:   link,
		PublishDate: video.PublishDate,
		Length:      int64(video.Duration.Seconds()),
	}
	if len(video.Thumbnails) > 0 {
		md.ThumbnailURL = video.Thumbnails[0].URL
	}

	return &Result{
		Metadata:    md,
		StreamSize:  format.ContentLength,
		StreamLabel: format.QualityLabel,
		video:       video,
		format:      format,
	}, nil
}

// Download writes the selected stream into dir and returns the number
// of bytes written.
func (f *YouTubeFetcher) Download(ctx context.Context, r *Result, dir string) (int64, error) {
	stream, _, err := f.client.GetStreamContext(ctx, r.video, r.format)
	if err != nil {
		return 0, errors.Wrap(err, "cannot get stream")
	}
	defer stream.Close()

	dst := path.Join(dir, r.Filename())
	out, err := os.Create(dst)
	if err != nil {
		return 0, errors.Wrap(err, "cannot create media file")
	}
	defer out.Close()

	written, err := io.Copy(out, stream)
	if err != nil {
		return written, errors.Wrap(err, "download interrupted")
	}
	logger.Infow("stream downloaded", "file", dst, "size", written)
	return written, nil
}

// selectFormat picks the mp4 stream carrying the requested quality
// label. Formats with an audio track are preferred, but a muted
// stream at the requested label still beats failing the request
// (higher resolutions are often served without audio). An exact label
// match is required, there is no fallback to adjacent resolutions.
func selectFormat(formats youtube.FormatList, label string) (*youtube.Format, error) {
	if f := matchFormat(formats.WithAudioChannels(), label); f != nil {
		return f, nil
	}
	if f := matchFormat(formats, label); f != nil {
		return f, nil
	}
	return nil, errors.Wrap(ErrNoMatchingStream, label)
}

func matchFormat(formats youtube.FormatList, label string) *youtube.Format {
	for i := range formats {
		if !strings.Contains(formats[i].MimeType, "video/mp4") {
			continue
		}
		if formats[i].QualityLabel == label {
			return &formats[i]
		}
	}
	return nil
}
