// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

package browser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"

	"github.com/tomtom215/runboard/internal/config"
	"github.com/tomtom215/runboard/internal/leaderboard"
	"github.com/tomtom215/runboard/internal/logging"
)

// DefaultUserAgent is sent when no user agent is configured.
const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0 Safari/537.36"

// maxErrorBodySize limits how much of an error response is kept for logs
const maxErrorBodySize = 4 * 1024

// HTTPSession loads leaderboard pages over HTTP.
type HTTPSession struct {
	clubURL     *url.URL
	previousURL *url.URL
	userAgent   string
	client      *http.Client
	limiter     *rate.Limiter
	creds       CredentialStore

	credsMu     sync.Mutex
	credsLoaded bool
}

// NewHTTPSession builds a session for cfg. creds may be nil, in which case
// pages are loaded unauthenticated.
func NewHTTPSession(cfg *config.LeaderboardConfig, creds CredentialStore) (*HTTPSession, error) {
	clubURL, err := url.Parse(cfg.ClubURL)
	if err != nil {
		return nil, fmt.Errorf("invalid club url: %w", err)
	}
	var previousURL *url.URL
	if cfg.PreviousURL != "" {
		previousURL, err = url.Parse(cfg.PreviousURL)
		if err != nil {
			return nil, fmt.Errorf("invalid previous url: %w", err)
		}
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	s := &HTTPSession{
		clubURL:     clubURL,
		previousURL: previousURL,
		userAgent:   userAgent,
		limiter:     rate.NewLimiter(limit, 1),
		creds:       creds,
	}
	s.client = &http.Client{
		Jar:           jar,
		Timeout:       60 * time.Second,
		CheckRedirect: checkLoginRedirect,
	}
	return s, nil
}

// checkLoginRedirect stops redirect chains that end on the login page.
func checkLoginRedirect(req *http.Request, via []*http.Request) error {
	if isLoginPath(req.URL) {
		return ErrAuthentication
	}
	if len(via) >= 10 {
		return errors.New("stopped after 10 redirects")
	}
	return nil
}

func isLoginPath(u *url.URL) bool {
	p := strings.ToLower(u.Path)
	return strings.HasPrefix(p, "/login") || strings.HasPrefix(p, "/session")
}

// LoadLeaderboard fetches the page for period and returns its table body.
func (s *HTTPSession) LoadLeaderboard(ctx context.Context, period Period) (string, error) {
	target, err := s.urlFor(period)
	if err != nil {
		return "", err
	}

	s.ensureCredentials(ctx)

	if err := s.limiter.Wait(ctx); err != nil {
		return "", timeoutErr(ctx, period, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), http.NoBody)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	logging.Ctx(ctx).Debug().Str("period", period.String()).Str("url", target.String()).Msg("Loading leaderboard page")

	resp, err := s.client.Do(req)
	if err != nil {
		if errors.Is(err, ErrAuthentication) {
			return "", fmt.Errorf("%s leaderboard: %w", period, ErrAuthentication)
		}
		return "", timeoutErr(ctx, period, fmt.Errorf("HTTP request failed: %w", err))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return "", fmt.Errorf("%s leaderboard: HTTP %d: %w", period, resp.StatusCode, ErrAuthentication)
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("%s leaderboard: unexpected HTTP %d: %s",
			period, resp.StatusCode, readBodyForError(resp.Body))
	case resp.Request != nil && isLoginPath(resp.Request.URL):
		return "", fmt.Errorf("%s leaderboard: %w", period, ErrAuthentication)
	}

	body, err := leaderboard.FindBody(resp.Body)
	if err != nil {
		return "", timeoutErr(ctx, period, fmt.Errorf("%s leaderboard: %w", period, err))
	}
	return body, nil
}

func (s *HTTPSession) urlFor(period Period) (*url.URL, error) {
	switch period {
	case PeriodCurrent:
		return s.clubURL, nil
	case PeriodPrevious:
		if s.previousURL == nil {
			return nil, fmt.Errorf("%s leaderboard: %w", period, ErrPeriodUnsupported)
		}
		return s.previousURL, nil
	default:
		return nil, fmt.Errorf("%s: %w", period, ErrPeriodUnsupported)
	}
}

// ensureCredentials seeds the cookie jar once. Missing or unreadable
// credentials are logged and the session continues unauthenticated.
func (s *HTTPSession) ensureCredentials(ctx context.Context) {
	s.credsMu.Lock()
	defer s.credsMu.Unlock()
	if s.credsLoaded || s.creds == nil {
		return
	}

	cookies, err := s.creds.Load(ctx)
	switch {
	case errors.Is(err, ErrNoCredentials):
		logging.Ctx(ctx).Warn().Msg("No stored leaderboard credentials, continuing unauthenticated")
	case err != nil:
		logging.Ctx(ctx).Warn().Err(err).Msg("Failed to load leaderboard credentials, continuing unauthenticated")
	default:
		s.client.Jar.SetCookies(s.clubURL, cookies)
		if s.previousURL != nil && s.previousURL.Host != s.clubURL.Host {
			s.client.Jar.SetCookies(s.previousURL, cookies)
		}
		logging.Ctx(ctx).Info().Int("cookies", len(cookies)).Msg("Loaded leaderboard credentials")
	}
	s.credsLoaded = true
}

// readBodyForError reads at most maxErrorBodySize bytes of an error body.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	return body
}
