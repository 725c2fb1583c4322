package health

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/reciplore/reciplore/internal/api"
	"github.com/reciplore/reciplore/internal/cookie"
	apperrors "github.com/reciplore/reciplore/internal/errors"
	"github.com/reciplore/reciplore/internal/session"
)

// CategoryLister is the public endpoint used to reach the backend.
type CategoryLister interface {
	ListCategories(ctx context.Context) ([]api.Named, error)
}

// BackendChecker calls a public endpoint that needs no session.
type BackendChecker struct {
	api CategoryLister
}

// NewBackendChecker creates a checker for the configured backend.
func NewBackendChecker(l CategoryLister) *BackendChecker {
	return &BackendChecker{api: l}
}

// Name returns the checker name.
func (c *BackendChecker) Name() string { return "backend" }

// Check reports unhealthy when the backend is unreachable or does not
// speak the Reciplore API, degraded when it answers with an error status.
func (c *BackendChecker) Check(ctx context.Context) *Result {
	start := time.Now()
	categories, err := c.api.ListCategories(ctx)
	latency := time.Since(start)

	if err == nil {
		r := Healthy("backend reachable").WithDetail("categories", len(categories))
		r.Latency = latency
		return r
	}

	var r *Result
	appErr, ok := apperrors.As(err)
	switch {
	case !ok:
		r = Unhealthy(err.Error())
	case appErr.Code == apperrors.ErrCodeTransportFailed:
		r = Unhealthy("backend unreachable: " + appErr.Message)
	case appErr.Kind == apperrors.KindResponseShape:
		r = Unhealthy("unexpected response, is api.base_url the Reciplore API?")
	default:
		r = Degraded(fmt.Sprintf("backend answered %d: %s", appErr.Status, appErr.Message)).
			WithDetail("status", appErr.Status)
	}
	r.Latency = latency
	return r
}

// CookieStoreChecker verifies the credential directory is writable.
type CookieStoreChecker struct {
	path string
}

// NewCookieStoreChecker checks the directory holding path.
func NewCookieStoreChecker(path string) *CookieStoreChecker {
	return &CookieStoreChecker{path: path}
}

// Name returns the checker name.
func (c *CookieStoreChecker) Name() string { return "cookie-store" }

// Check creates and removes a scratch file next to the cookie file.
func (c *CookieStoreChecker) Check(context.Context) *Result {
	dir := filepath.Dir(c.path)
	f, err := os.CreateTemp(dir, ".doctor-*")
	if err != nil {
		return Unhealthy("credential directory is not writable").
			WithDetail("path", dir).
			WithDetail("error", err.Error())
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)

	return Healthy("credential directory is writable").WithDetail("path", c.path)
}

// TokenChecker inspects the stored tokens without calling the backend.
type TokenChecker struct {
	jar cookie.Jar
	now func() time.Time
}

// NewTokenChecker reads tokens from jar.
func NewTokenChecker(jar cookie.Jar) *TokenChecker {
	return &TokenChecker{jar: jar, now: time.Now}
}

// WithClock replaces the time source, for tests.
func (c *TokenChecker) WithClock(now func() time.Time) *TokenChecker {
	c.now = now
	return c
}

// Name returns the checker name.
func (c *TokenChecker) Name() string { return "session" }

// Commands do not refresh an access token that is gone from the jar, so
// the user has to.
const refreshHint = "access token expired, run 'reciplore auth refresh' or log in again"

// Check is degraded when nobody is logged in or the session is about
// to lapse. It is never unhealthy: browsing works without a session.
func (c *TokenChecker) Check(context.Context) *Result {
	access, hasAccess := c.jar.Get(session.AccessTokenCookie)
	_, hasRefresh := c.jar.Get(session.RefreshTokenCookie)

	switch {
	case !hasAccess && !hasRefresh:
		return Degraded("not logged in")
	case !hasAccess:
		return Degraded(refreshHint)
	}

	r := Healthy("logged in")
	if exp, ok := session.TokenExpiry(access); ok {
		r.WithDetail("expiresAt", exp.Format(time.RFC3339))
		if !exp.After(c.now()) {
			r = Degraded(refreshHint).
				WithDetail("expiresAt", exp.Format(time.RFC3339))
		}
	}
	if !hasRefresh {
		r.Status = StatusDegraded
		r.Message = "no refresh token, log in again when the access token expires"
	}
	return r
}
