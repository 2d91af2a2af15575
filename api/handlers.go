package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/valyala/fasthttp"

	"github.com/ytvault/ytvault/fetcher"
	"github.com/ytvault/ytvault/library"
	"github.com/ytvault/ytvault/manager"
	"github.com/ytvault/ytvault/pkg/logging"
)

type downloadHandler struct {
	manager *manager.VideoManager
	log     logging.KVLogger
}

type downloadRequest struct {
	Link string `json:"link"`
	Res  string `json:"res"`
}

type listRequest struct {
	Length int64  `json:"length"`
	Res    string `json:"res"`
}

type videoResponse struct {
	Title        string    `json:"title"`
	Author       string    `json:"author"`
	PublishDate  time.Time `json:"publish_date"`
	ThumbnailURL string    `json:"thumbnail_url"`
	Length       int64     `json:"length"`
	Size         int64     `json:"size"`
	Description  string    `json:"description"`
	URL          string    `json:"url"`
	Resolution   string    `json:"resolution"`
}

func (h downloadHandler) handleDownload(ctx *fasthttp.RequestCtx) {
	var req downloadRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeError(ctx, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.Link == "" {
		writeError(ctx, http.StatusBadRequest, "missing link")
		return
	}
	if req.Res == "" {
		writeError(ctx, http.StatusBadRequest, "missing res")
		return
	}

	ll := h.log.With("link", req.Link, "res", req.Res)

	v, err := h.manager.Download(ctx, req.Link, req.Res)
	if err != nil {
		statusCode := errorStatusCode(err)
		ll.Info("download failed", "status", statusCode, "err", err)
		writeError(ctx, statusCode, err.Error())
		return
	}

	ll.Info("video downloaded", "id", v.ID)
	writeJSON(ctx, "Video downloaded")
}

func (h downloadHandler) handleList(ctx *fasthttp.RequestCtx) {
	var req listRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeError(ctx, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.Res == "" {
		writeError(ctx, http.StatusBadRequest, "missing res")
		return
	}

	page := int64(ctx.QueryArgs().GetUintOrZero("page"))
	if page < 1 {
		page = 1
	}

	videos, err := h.manager.List(req.Length, req.Res, page)
	if err != nil {
		writeError(ctx, errorStatusCode(err), err.Error())
		return
	}

	out := make([]videoResponse, 0, len(videos))
	for _, v := range videos {
		out = append(out, videoResponse{
			Title:        v.Title,
			Author:       v.Author,
			PublishDate:  v.PublishDate,
			ThumbnailURL: v.ThumbnailURL,
			Length:       v.Length,
			Size:         v.Size,
			Description:  v.Description,
			URL:          v.SourceURL,
			Resolution:   v.Resolution,
		})
	}
	writeJSON(ctx, out)
}

func errorStatusCode(err error) int {
	switch {
	case errors.Is(err, library.ErrInvalidResolution):
		return http.StatusBadRequest
	case errors.Is(err, fetcher.ErrVideoNotFound):
		return http.StatusNotFound
	case errors.Is(err, fetcher.ErrNoMatchingStream):
		return http.StatusNotFound
	case errors.Is(err, fetcher.ErrVideoUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(ctx *fasthttp.RequestCtx, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		writeError(ctx, http.StatusInternalServerError, err.Error())
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetBody(b)
}

func writeError(ctx *fasthttp.RequestCtx, statusCode int, msg string) {
	ctx.SetStatusCode(statusCode)
	fmt.Fprint(ctx, msg)
}
