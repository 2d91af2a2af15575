package api

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/fasthttp/router"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"github.com/ytvault/ytvault/auth"
	"github.com/ytvault/ytvault/internal/metrics"
	"github.com/ytvault/ytvault/manager"
	"github.com/ytvault/ytvault/pkg/logging"
	"github.com/ytvault/ytvault/pkg/logging/zapadapter"
	"github.com/ytvault/ytvault/pkg/timer"
)

// APIServer ties the HTTP API together and allows to start/shutdown the web server.
type APIServer struct {
	*Configuration
	httpServer *fasthttp.Server
	stopChan   chan os.Signal
}

type Configuration struct {
	debug            bool
	addr             string
	videoManager     *manager.VideoManager
	sessions         *auth.Store
	authHandler      *auth.Handler
	protectDownloads bool
	log              logging.KVLogger
}

func Configure() *Configuration {
	return &Configuration{
		addr: ":8080",
		log:  zapadapter.NewKV(nil),
	}
}

func (c *Configuration) Debug(debug bool) *Configuration {
	c.debug = debug
	return c
}

func (c *Configuration) Addr(addr string) *Configuration {
	c.addr = addr
	return c
}

func (c *Configuration) VideoManager(videoManager *manager.VideoManager) *Configuration {
	c.videoManager = videoManager
	return c
}

func (c *Configuration) Sessions(sessions *auth.Store) *Configuration {
	c.sessions = sessions
	return c
}

func (c *Configuration) AuthHandler(h *auth.Handler) *Configuration {
	c.authHandler = h
	return c
}

// ProtectDownloads puts the download endpoints behind the session
// guard instead of leaving them open.
func (c *Configuration) ProtectDownloads(protect bool) *Configuration {
	c.protectDownloads = protect
	return c
}

func (c *Configuration) Log(log logging.KVLogger) *Configuration {
	c.log = log
	return c
}

func handlePanic(ctx *fasthttp.RequestCtx, p interface{}) {
	ctx.SetStatusCode(http.StatusInternalServerError)
	logger.Errorw("panicked", "url", ctx.Request.URI(), "panic", p)
}

func corsMiddleware(h fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		ctx.Response.Header.Set("Access-Control-Allow-Origin", "*")
		h(ctx)
	}
}

func metricsMiddleware(h fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		t := timer.Start()
		h(ctx)
		metrics.HTTPAPIRequests.WithLabelValues(fmt.Sprintf("%v", ctx.Response.StatusCode())).Observe(t.Duration())
	}
}

func NewServer(cfg *Configuration) *APIServer {
	r := router.New()

	s := &APIServer{
		Configuration: cfg,
		stopChan:      make(chan os.Signal, 1),
		httpServer: &fasthttp.Server{
			Handler: metricsMiddleware(corsMiddleware(r.Handler)),
		},
	}

	h := downloadHandler{manager: cfg.videoManager, log: cfg.log}
	postDownload := h.handleDownload
	getDownload := h.handleList
	if cfg.protectDownloads {
		postDownload = cfg.sessions.RequireAuth(postDownload)
		getDownload = cfg.sessions.RequireAuth(getDownload)
	}
	r.POST("/download", postDownload)
	r.GET("/download", getDownload)

	auth.CreateRoutes(r, cfg.authHandler)

	r.GET("/metrics", fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler()))

	if !s.debug {
		r.PanicHandler = handlePanic
	}
	return s
}

func (s *APIServer) Addr() string {
	return s.addr
}

func (s *APIServer) URL() string {
	return "http://" + s.addr
}

func (s *APIServer) Start() error {
	logger.Infow("listening", "bind", s.addr, "debug", s.debug)
	return s.httpServer.ListenAndServe(s.addr)
}

// StartWithShutdown blocks until SIGINT/SIGTERM, then drains the server.
func (s *APIServer) StartWithShutdown() error {
	signal.Notify(s.stopChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-s.stopChan
		logger.Infow("shutting down", "signal", sig)
		s.httpServer.Shutdown()
	}()
	return s.Start()
}

func (s *APIServer) Shutdown() error {
	logger.Info("shutting down...")
	return s.httpServer.Shutdown()
}
