package auth

import (
	"fmt"
	"net/http"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	"github.com/ytvault/ytvault/internal/metrics"
)

// Handler drives the OAuth2 authorization-code dance over HTTP.
type Handler struct {
	sessions *Store
	flow     FlowProvider
}

func NewHandler(sessions *Store, flow FlowProvider) *Handler {
	return &Handler{sessions: sessions, flow: flow}
}

// CreateRoutes attaches the sign-in endpoints.
func CreateRoutes(r *router.Router, h *Handler) {
	r.GET("/login", h.HandleLogin)
	r.GET("/callback", h.HandleCallback)
	r.GET("/logout", h.HandleLogout)
	r.GET("/", h.HandleIndex)
}

func (h *Handler) HandleLogin(ctx *fasthttp.RequestCtx) {
	sess := h.sessions.Get(ctx)
	state := sess.IssueState()
	ctx.Redirect(h.flow.AuthCodeURL(state), http.StatusFound)
}

func (h *Handler) HandleCallback(ctx *fasthttp.RequestCtx) {
	sess := h.sessions.Get(ctx)

	echoed := string(ctx.QueryArgs().Peek("state"))
	if !sess.ConsumeState(echoed) {
		// forged or replayed callback, never authenticate
		logger.Warnw("authorization state mismatch", "sid", sess.ID)
		metrics.AuthFailures.Inc()
		ctx.SetStatusCode(http.StatusInternalServerError)
		fmt.Fprint(ctx, ErrStateMismatch.Error())
		return
	}

	code := string(ctx.QueryArgs().Peek("code"))
	claims, err := h.flow.Exchange(ctx, code)
	if err != nil {
		logger.Errorw("token exchange failed", "sid", sess.ID, "err", err)
		metrics.AuthFailures.Inc()
		ctx.SetStatusCode(http.StatusInternalServerError)
		fmt.Fprint(ctx, "authentication failed")
		return
	}

	sess.Authenticate(claims.Subject, claims.Name)
	metrics.AuthLogins.Inc()
	logger.Infow("session authenticated", "sid", sess.ID, "subject", claims.Subject)
	ctx.Redirect("/", http.StatusFound)
}

func (h *Handler) HandleLogout(ctx *fasthttp.RequestCtx) {
	h.sessions.Clear(ctx)
	ctx.Redirect("/", http.StatusFound)
}

func (h *Handler) HandleIndex(ctx *fasthttp.RequestCtx) {
	if sess, ok := h.sessions.Lookup(ctx); ok && sess.Authenticated() {
		fmt.Fprintf(ctx, "Welcome %v", sess.DisplayName())
		return
	}
	fmt.Fprint(ctx, "Login to see name")
}
