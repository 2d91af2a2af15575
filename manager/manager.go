package manager

import (
	"context"

	"github.com/pkg/errors"

	"github.com/ytvault/ytvault/fetcher"
	"github.com/ytvault/ytvault/internal/metrics"
	"github.com/ytvault/ytvault/library"
	"github.com/ytvault/ytvault/storage"
)

// VideoManager sequences download requests: resolve the link, pick the
// stream, persist the record, then pull the binary. The record commit
// happens before the binary download starts, so a failed download can
// leave a record pointing at a file that was never written. That
// matches the store-first contract: persistence failure skips the
// download, never the other way around.
type VideoManager struct {
	lib      *library.Library
	fetcher  fetcher.Fetcher
	media    storage.LocalStorage
	pageSize int64
}

func NewManager(lib *library.Library, f fetcher.Fetcher, media storage.LocalStorage, pageSize int64) *VideoManager {
	return &VideoManager{
		lib:      lib,
		fetcher:  f,
		media:    media,
		pageSize: pageSize,
	}
}

// Download runs the full orchestration for one video at the requested
// resolution label ("720p"). Returns the persisted record.
func (m *VideoManager) Download(ctx context.Context, link, resolution string) (*library.Video, error) {
	stored, err := library.StripResolution(resolution)
	if err != nil {
		return nil, err
	}

	r, err := m.fetcher.Fetch(ctx, link, resolution)
	if err != nil {
		metrics.DownloadErrors.WithLabelValues(metrics.StageResolve).Inc()
		return nil, err
	}

	ll := logger.With("link", link, "resolution", resolution)

	v, err := m.lib.Add(library.AddParams{
		Title:        r.Title,
		Author:       r.Author,
		Description:  r.Description,
		SourceURL:    r.SourceURL,
		PublishDate:  r.PublishDate,
		ThumbnailURL: r.ThumbnailURL,
		Length:       r.Length,
		Size:         r.StreamSize,
		Resolution:   stored,
	})
	if err != nil {
		metrics.DownloadErrors.WithLabelValues(metrics.StagePersist).Inc()
		return nil, errors.Wrap(err, "cannot persist video record")
	}

	written, err := m.fetcher.Download(ctx, r, m.media.Path())
	if err != nil {
		metrics.DownloadErrors.WithLabelValues(metrics.StageDownload).Inc()
		ll.Errorw("binary download failed", "id", v.ID, "err", err)
		return nil, err
	}

	metrics.DownloadedCount.Inc()
	metrics.DownloadedSizeMB.Add(float64(written) / 1024 / 1024)
	m.RefreshDiskUsage()

	ll.Infow("download complete", "id", v.ID, "written", written)
	return v, nil
}

// List returns one page of stored records filtered by minimum length
// and minimum resolution label.
func (m *VideoManager) List(minLength int64, minResolution string, page int64) ([]*library.Video, error) {
	minRes, err := library.ParseResolution(minResolution)
	if err != nil {
		return nil, err
	}
	return m.lib.List(minLength, minRes, page, m.pageSize)
}

// RefreshDiskUsage re-measures the media directory and updates the gauge.
func (m *VideoManager) RefreshDiskUsage() {
	size, err := m.media.GetSize()
	if err != nil {
		logger.Warnw("cannot measure media dir", "path", m.media.Path(), "err", err)
		return
	}
	metrics.MediaDiskBytes.Set(float64(size))
}
