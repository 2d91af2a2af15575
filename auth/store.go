package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/karlseguin/ccache/v2"
	"github.com/oklog/ulid/v2"
	"github.com/valyala/fasthttp"
)

const (
	sessionCookie = "sid"

	storeCacheSize = 100000
)

// Store keeps sessions in an in-process TTL cache, keyed by an
// HMAC-signed session id cookie. Nothing survives a restart.
type Store struct {
	cache  *ccache.Cache
	secret []byte
	ttl    time.Duration
}

func NewStore(secret string, ttl time.Duration) *Store {
	return &Store{
		cache:  ccache.New(ccache.Configure().MaxSize(storeCacheSize)),
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Get returns the session for the request, creating one and setting
// the cookie if the request carries none (or a forged/expired one).
func (s *Store) Get(ctx *fasthttp.RequestCtx) *Session {
	if sess, ok := s.Lookup(ctx); ok {
		return sess
	}

	sess := &Session{ID: ulid.MustNew(ulid.Now(), rand.Reader).String()}
	s.cache.Set(cacheKey(sess.ID), sess, s.ttl)
	s.setCookie(ctx, sess.ID)
	logger.Debugw("session created", "sid", sess.ID)
	return sess
}

// Lookup finds an existing session without creating one. Cookies with
// a bad signature are treated as absent.
func (s *Store) Lookup(ctx *fasthttp.RequestCtx) (*Session, bool) {
	id, ok := s.verifyCookie(string(ctx.Request.Header.Cookie(sessionCookie)))
	if !ok {
		return nil, false
	}
	item := s.cache.Get(cacheKey(id))
	if item == nil || item.Expired() {
		return nil, false
	}
	return item.Value().(*Session), true
}

// Clear drops the session server-side and expires the client cookie.
func (s *Store) Clear(ctx *fasthttp.RequestCtx) {
	if id, ok := s.verifyCookie(string(ctx.Request.Header.Cookie(sessionCookie))); ok {
		s.cache.Delete(cacheKey(id))
		logger.Debugw("session cleared", "sid", id)
	}

	c := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(c)
	c.SetKey(sessionCookie)
	c.SetValue("")
	c.SetPath("/")
	c.SetExpire(fasthttp.CookieExpireDelete)
	ctx.Response.Header.SetCookie(c)
}

// RequireAuth rejects requests from sessions that never reached the
// authenticated state, without invoking the wrapped handler.
func (s *Store) RequireAuth(h fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		sess, ok := s.Lookup(ctx)
		if !ok || !sess.Authenticated() {
			ctx.SetStatusCode(fasthttp.StatusUnauthorized)
			return
		}
		h(ctx)
	}
}

func (s *Store) setCookie(ctx *fasthttp.RequestCtx, id string) {
	c := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(c)
	c.SetKey(sessionCookie)
	c.SetValue(id + "." + s.sign(id))
	c.SetPath("/")
	c.SetHTTPOnly(true)
	c.SetMaxAge(int(s.ttl.Seconds()))
	ctx.Response.Header.SetCookie(c)
}

func (s *Store) verifyCookie(value string) (string, bool) {
	id, sig, found := strings.Cut(value, ".")
	if !found || id == "" {
		return "", false
	}
	if !hmac.Equal([]byte(sig), []byte(s.sign(id))) {
		logger.Warnw("session cookie signature mismatch", "sid", id)
		return "", false
	}
	return id, true
}

func (s *Store) sign(id string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(id))
	return hex.EncodeToString(mac.Sum(nil))
}

func cacheKey(id string) string {
	return "session:" + id
}

// randomState generates an anti-forgery token for the login redirect.
func randomState() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}
