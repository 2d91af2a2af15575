package manager

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/ytvault/ytvault/db"
	"github.com/ytvault/ytvault/fetcher"
	"github.com/ytvault/ytvault/library"
	"github.com/ytvault/ytvault/storage"
)

type fakeFetcher struct {
	result      *fetcher.Result
	fetchErr    error
	downloadErr error

	fetchCalls    int
	downloadCalls int
}

func (f *fakeFetcher) Fetch(ctx context.Context, link, resolution string) (*fetcher.Result, error) {
	f.fetchCalls++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.result, nil
}

func (f *fakeFetcher) Download(ctx context.Context, r *fetcher.Result, dir string) (int64, error) {
	f.downloadCalls++
	if f.downloadErr != nil {
		return 0, f.downloadErr
	}
	return r.StreamSize, nil
}

func testResult() *fetcher.Result {
	return &fetcher.Result{
		Metadata: fetcher.Metadata{
			ID:           "dQw4w9WgXcQ",
			Title:        "Never Gonna Give You Up",
			Author:       "Rick Astley",
			Description:  "The official video",
			SourceURL:    "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			PublishDate:  time.Date(2009, 10, 25, 0, 0, 0, 0, time.UTC),
			ThumbnailURL: "https://i.ytimg.com/vi/dQw4w9WgXcQ/hqdefault.jpg",
			Length:       212,
		},
		StreamSize:  45 << 20,
		StreamLabel: "720p",
	}
}

type ManagerSuite struct {
	suite.Suite
	lib     *library.Library
	fetcher *fakeFetcher
	mgr     *VideoManager
}

func TestManagerSuite(t *testing.T) {
	suite.Run(t, new(ManagerSuite))
}

func (s *ManagerSuite) SetupTest() {
	vdb := db.OpenTestDB()
	s.Require().NoError(vdb.MigrateUp(library.InitialMigration))
	s.lib = library.NewLibrary(vdb)
	s.fetcher = &fakeFetcher{result: testResult()}
	s.mgr = NewManager(s.lib, s.fetcher, storage.Local(s.T().TempDir()), 25)
}

func (s *ManagerSuite) TestDownload() {
	v, err := s.mgr.Download(context.Background(), "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "720p")
	s.Require().NoError(err)
	s.Equal("Never Gonna Give You Up", v.Title)
	s.Equal("Rick Astley", v.Author)
	s.Equal("720", v.Resolution, "stored resolution has the unit suffix stripped")
	s.EqualValues(45<<20, v.Size)
	s.EqualValues(212, v.Length)
	s.Equal(1, s.fetcher.downloadCalls)

	videos, err := s.mgr.List(0, "0p", 1)
	s.Require().NoError(err)
	s.Len(videos, 1)
}

func (s *ManagerSuite) TestDownloadInvalidResolution() {
	_, err := s.mgr.Download(context.Background(), "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "potato")
	s.ErrorIs(err, library.ErrInvalidResolution)
	s.Zero(s.fetcher.fetchCalls)
}

func (s *ManagerSuite) TestDownloadNoMatchingStream() {
	s.fetcher.fetchErr = fetcher.ErrNoMatchingStream

	_, err := s.mgr.Download(context.Background(), "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "720p")
	s.ErrorIs(err, fetcher.ErrNoMatchingStream)
	s.Zero(s.fetcher.downloadCalls)

	videos, err := s.mgr.List(0, "0p", 1)
	s.Require().NoError(err)
	s.Empty(videos, "no record on failed resolve")
}

func (s *ManagerSuite) TestDownloadBinaryFailureKeepsRecord() {
	s.fetcher.downloadErr = context.DeadlineExceeded

	_, err := s.mgr.Download(context.Background(), "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "720p")
	s.Error(err)

	// the record is committed before the binary download starts
	videos, err := s.mgr.List(0, "0p", 1)
	s.Require().NoError(err)
	s.Len(videos, 1)
}

func (s *ManagerSuite) TestListFilters() {
	for i := 0; i < 3; i++ {
		_, err := s.mgr.Download(context.Background(), "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "720p")
		s.Require().NoError(err)
	}

	videos, err := s.mgr.List(300, "1080p", 1)
	s.Require().NoError(err)
	s.Empty(videos)

	videos, err = s.mgr.List(200, "480p", 1)
	s.Require().NoError(err)
	s.Len(videos, 3)

	_, err = s.mgr.List(0, "", 1)
	s.ErrorIs(err, library.ErrInvalidResolution)
}
