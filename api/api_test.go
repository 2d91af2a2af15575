package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/valyala/fasthttp"

	"github.com/ytvault/ytvault/auth"
	"github.com/ytvault/ytvault/db"
	"github.com/ytvault/ytvault/fetcher"
	"github.com/ytvault/ytvault/library"
	"github.com/ytvault/ytvault/manager"
	"github.com/ytvault/ytvault/pkg/logging"
	"github.com/ytvault/ytvault/storage"
)

type fakeFetcher struct {
	result   *fetcher.Result
	fetchErr error
}

func (f *fakeFetcher) Fetch(ctx context.Context, link, resolution string) (*fetcher.Result, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.result, nil
}

func (f *fakeFetcher) Download(ctx context.Context, r *fetcher.Result, dir string) (int64, error) {
	return r.StreamSize, nil
}

type ApiSuite struct {
	suite.Suite
	fetcher *fakeFetcher
	handler downloadHandler
}

func TestApiSuite(t *testing.T) {
	suite.Run(t, new(ApiSuite))
}

func (s *ApiSuite) SetupTest() {
	vdb := db.OpenTestDB()
	s.Require().NoError(vdb.MigrateUp(library.InitialMigration))
	s.fetcher = &fakeFetcher{result: &fetcher.Result{
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
	}}
	mgr := manager.NewManager(
		library.NewLibrary(vdb), s.fetcher, storage.Local(s.T().TempDir()), 3)
	s.handler = downloadHandler{manager: mgr, log: logging.NoopKVLogger{}}
}

func (s *ApiSuite) postDownload(body string) *fasthttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(http.MethodPost)
	ctx.Request.SetRequestURI("/download")
	ctx.Request.SetBodyString(body)
	s.handler.handleDownload(ctx)
	return ctx
}

func (s *ApiSuite) getDownloads(body, query string) *fasthttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.SetRequestURI("/download" + query)
	ctx.Request.SetBodyString(body)
	s.handler.handleList(ctx)
	return ctx
}

func (s *ApiSuite) TestDownload() {
	ctx := s.postDownload(`{"link": "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "res": "720p"}`)
	s.Equal(http.StatusOK, ctx.Response.StatusCode())
	s.Equal(`"Video downloaded"`, string(ctx.Response.Body()))

	list := s.getDownloads(`{"length": 0, "res": "0p"}`, "")
	s.Equal(http.StatusOK, list.Response.StatusCode())

	var videos []videoResponse
	s.Require().NoError(json.Unmarshal(list.Response.Body(), &videos))
	s.Require().Len(videos, 1)
	s.Equal("Never Gonna Give You Up", videos[0].Title)
	s.Equal("720", videos[0].Resolution)
	s.Equal("https://www.youtube.com/watch?v=dQw4w9WgXcQ", videos[0].URL)
	s.EqualValues(45<<20, videos[0].Size)
}

func (s *ApiSuite) TestDownloadValidation() {
	ctx := s.postDownload(`{"res": "720p"}`)
	s.Equal(http.StatusBadRequest, ctx.Response.StatusCode())
	s.Equal("missing link", string(ctx.Response.Body()))

	ctx = s.postDownload(`{"link": "https://www.youtube.com/watch?v=dQw4w9WgXcQ"}`)
	s.Equal(http.StatusBadRequest, ctx.Response.StatusCode())
	s.Equal("missing res", string(ctx.Response.Body()))

	ctx = s.postDownload(`{{{`)
	s.Equal(http.StatusBadRequest, ctx.Response.StatusCode())

	ctx = s.postDownload(`{"link": "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "res": "potato"}`)
	s.Equal(http.StatusBadRequest, ctx.Response.StatusCode())
}

func (s *ApiSuite) TestDownloadUpstreamErrors() {
	s.fetcher.fetchErr = fetcher.ErrNoMatchingStream
	ctx := s.postDownload(`{"link": "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "res": "720p"}`)
	s.Equal(http.StatusNotFound, ctx.Response.StatusCode())

	s.fetcher.fetchErr = fetcher.ErrVideoUnavailable
	ctx = s.postDownload(`{"link": "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "res": "720p"}`)
	s.Equal(http.StatusBadGateway, ctx.Response.StatusCode())

	s.fetcher.fetchErr = fetcher.ErrVideoNotFound
	ctx = s.postDownload(`{"link": "https://www.youtube.com/watch?v=bogus0000000", "res": "720p"}`)
	s.Equal(http.StatusNotFound, ctx.Response.StatusCode())
}

func (s *ApiSuite) TestListPagination() {
	for i := 0; i < 5; i++ {
		ctx := s.postDownload(`{"link": "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "res": "720p"}`)
		s.Require().Equal(http.StatusOK, ctx.Response.StatusCode())
	}

	// page size is 3
	var videos []videoResponse
	list := s.getDownloads(`{"length": 0, "res": "0p"}`, "?page=1")
	s.Require().NoError(json.Unmarshal(list.Response.Body(), &videos))
	s.Len(videos, 3)

	list = s.getDownloads(`{"length": 0, "res": "0p"}`, "?page=2")
	s.Require().NoError(json.Unmarshal(list.Response.Body(), &videos))
	s.Len(videos, 2)

	list = s.getDownloads(`{"length": 0, "res": "0p"}`, "?page=3")
	s.Equal(http.StatusOK, list.Response.StatusCode())
	s.Equal("[]", string(list.Response.Body()))
}

func (s *ApiSuite) TestListValidation() {
	list := s.getDownloads(`{"length": 0}`, "")
	s.Equal(http.StatusBadRequest, list.Response.StatusCode())

	list = s.getDownloads(`not json`, "")
	s.Equal(http.StatusBadRequest, list.Response.StatusCode())
}

func (s *ApiSuite) TestProtectedDownloads() {
	sessions := auth.NewStore("test-secret", time.Hour)
	authHandler := auth.NewHandler(sessions, nil)
	srv := NewServer(Configure().
		Addr("127.0.0.1:18080").
		VideoManager(s.handler.manager).
		Sessions(sessions).
		AuthHandler(authHandler).
		ProtectDownloads(true))

	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(http.MethodPost)
	ctx.Request.SetRequestURI(fmt.Sprintf("%v/download", srv.URL()))
	srv.httpServer.Handler(ctx)
	s.Equal(http.StatusUnauthorized, ctx.Response.StatusCode())
}
