// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

package browser

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/runboard/internal/config"
)

const testPage = `<!DOCTYPE html><html><body>
<div class="leaderboard"><table>
<thead><tr><th>Athlete</th></tr></thead>
<tbody>
<tr><td class="athlete"><a href="/athletes/101" class="athlete-name">Lan Nguyen</a></td>
<td class="distance">42.3 km</td><td class="num-activities">4</td>
<td class="average-pace">5:30 /km</td><td class="elev-gain">120 m</td></tr>
</tbody></table></div></body></html>`

func newTestSession(t *testing.T, srv *httptest.Server, creds CredentialStore) *HTTPSession {
	t.Helper()
	s, err := NewHTTPSession(&config.LeaderboardConfig{
		ClubURL:     srv.URL + "/clubs/test",
		PreviousURL: srv.URL + "/clubs/test?week=last",
		UserAgent:   "runboard-test",
	}, creds)
	if err != nil {
		t.Fatalf("NewHTTPSession failed: %v", err)
	}
	return s
}

func TestHTTPSession_LoadLeaderboard(t *testing.T) {
	var gotUA, gotCookie, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotQuery = r.URL.RawQuery
		if c, err := r.Cookie("_session"); err == nil {
			gotCookie = c.Value
		}
		_, _ = w.Write([]byte(testPage))
	}))
	defer srv.Close()

	creds := credentialFunc(func(context.Context) ([]*http.Cookie, error) {
		return []*http.Cookie{{Name: "_session", Value: "abc", Path: "/"}}, nil
	})
	s := newTestSession(t, srv, creds)

	body, err := s.LoadLeaderboard(context.Background(), PeriodCurrent)
	if err != nil {
		t.Fatalf("LoadLeaderboard failed: %v", err)
	}
	if !strings.HasPrefix(body, "<tbody>") {
		t.Errorf("Expected tbody fragment, got %q", body)
	}
	if !strings.Contains(body, "/athletes/101") {
		t.Errorf("Expected athlete link in fragment, got %q", body)
	}
	if gotUA != "runboard-test" {
		t.Errorf("Expected configured user agent, got %q", gotUA)
	}
	if gotCookie != "abc" {
		t.Errorf("Expected session cookie abc, got %q", gotCookie)
	}

	if _, err := s.LoadLeaderboard(context.Background(), PeriodPrevious); err != nil {
		t.Fatalf("LoadLeaderboard previous failed: %v", err)
	}
	if gotQuery != "week=last" {
		t.Errorf("Expected previous-week query, got %q", gotQuery)
	}
}

func TestHTTPSession_Authentication(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"forbidden", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}},
		{"unauthorized", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}},
		{"login redirect", func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/login" {
				_, _ = w.Write([]byte("<html><form></form></html>"))
				return
			}
			http.Redirect(w, r, "/login", http.StatusFound)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			s := newTestSession(t, srv, nil)
			_, err := s.LoadLeaderboard(context.Background(), PeriodCurrent)
			if !errors.Is(err, ErrAuthentication) {
				t.Errorf("Expected ErrAuthentication, got %v", err)
			}
		})
	}
}

func TestHTTPSession_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	s := newTestSession(t, srv, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := s.LoadLeaderboard(ctx, PeriodCurrent)
	if !errors.Is(err, ErrPageTimeout) {
		t.Errorf("Expected ErrPageTimeout, got %v", err)
	}
}

func TestHTTPSession_MissingLeaderboard(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body><p>maintenance</p></body></html>"))
	}))
	defer srv.Close()

	s := newTestSession(t, srv, nil)
	_, err := s.LoadLeaderboard(context.Background(), PeriodCurrent)
	if err == nil {
		t.Fatal("Expected error for page without leaderboard")
	}
	if errors.Is(err, ErrPageTimeout) || errors.Is(err, ErrAuthentication) {
		t.Errorf("Expected a plain extraction error, got %v", err)
	}
}

func TestHTTPSession_PreviousUnsupported(t *testing.T) {
	s, err := NewHTTPSession(&config.LeaderboardConfig{ClubURL: "http://127.0.0.1:1/club"}, nil)
	if err != nil {
		t.Fatalf("NewHTTPSession failed: %v", err)
	}
	_, err = s.LoadLeaderboard(context.Background(), PeriodPrevious)
	if !errors.Is(err, ErrPeriodUnsupported) {
		t.Errorf("Expected ErrPeriodUnsupported, got %v", err)
	}
}

func TestHTTPSession_CredentialsLoadedOnce(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(testPage))
	}))
	defer srv.Close()

	var calls int32
	creds := credentialFunc(func(context.Context) ([]*http.Cookie, error) {
		atomic.AddInt32(&calls, 1)
		return nil, ErrNoCredentials
	})
	s := newTestSession(t, srv, creds)

	for i := 0; i < 3; i++ {
		if _, err := s.LoadLeaderboard(context.Background(), PeriodCurrent); err != nil {
			t.Fatalf("LoadLeaderboard failed: %v", err)
		}
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("Expected credentials to load once, got %d", n)
	}
}

func TestFileCredentialStore(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := NewFileCredentialStore(filepath.Join(dir, "absent.json")).Load(context.Background())
		if !errors.Is(err, ErrNoCredentials) {
			t.Errorf("Expected ErrNoCredentials, got %v", err)
		}
	})

	t.Run("filters expired cookies", func(t *testing.T) {
		path := filepath.Join(dir, "cookies.json")
		future := time.Now().Add(24 * time.Hour).Unix()
		content := `[
			{"name":"_session","value":"abc","domain":".example.com","path":"/","expires":` +
			itoa(future) + `,"secure":true,"httpOnly":true},
			{"name":"old","value":"x","domain":".example.com","path":"/","expires":1000},
			{"name":"session_only","value":"y","domain":".example.com","path":"/","expires":-1}
		]`
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
		cookies, err := NewFileCredentialStore(path).Load(context.Background())
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if len(cookies) != 2 {
			t.Fatalf("Expected 2 cookies, got %d", len(cookies))
		}
		if cookies[0].Name != "_session" || !cookies[0].HttpOnly || !cookies[0].Secure {
			t.Errorf("Expected secure httpOnly _session cookie, got %+v", cookies[0])
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		path := filepath.Join(dir, "bad.json")
		if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
		_, err := NewFileCredentialStore(path).Load(context.Background())
		if err == nil || errors.Is(err, ErrNoCredentials) {
			t.Errorf("Expected decode error, got %v", err)
		}
	})
}

func TestFixtureSession(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "current.html"), []byte(testPage), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	s := NewFixtureSession(dir)
	body, err := s.LoadLeaderboard(context.Background(), PeriodCurrent)
	if err != nil {
		t.Fatalf("LoadLeaderboard failed: %v", err)
	}
	if !strings.HasPrefix(body, "<tbody>") {
		t.Errorf("Expected tbody fragment, got %q", body)
	}

	_, err = s.LoadLeaderboard(context.Background(), PeriodPrevious)
	if !errors.Is(err, ErrPeriodUnsupported) {
		t.Errorf("Expected ErrPeriodUnsupported for missing previous fixture, got %v", err)
	}

	t.Run("bare fragment", func(t *testing.T) {
		frag := `<tr><td class="athlete"><a href="/athletes/5">A</a></td></tr>`
		if err := os.WriteFile(filepath.Join(dir, "previous.html"), []byte(frag), 0o600); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
		body, err := s.LoadLeaderboard(context.Background(), PeriodPrevious)
		if err != nil {
			t.Fatalf("LoadLeaderboard failed: %v", err)
		}
		if body != frag {
			t.Errorf("Expected fragment to be returned unchanged, got %q", body)
		}
	})
}

func TestBreakerSession_OpensAfterFailures(t *testing.T) {
	var calls int32
	inner := sessionFunc(func(ctx context.Context, p Period) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "", errors.New("connection refused")
	})
	b := NewBreakerSession(inner, "test-open")

	for i := 0; i < 3; i++ {
		if _, err := b.LoadLeaderboard(context.Background(), PeriodCurrent); err == nil {
			t.Fatal("Expected failure")
		}
	}
	if b.State() != gobreaker.StateOpen {
		t.Fatalf("Expected open breaker, got %v", b.State())
	}

	_, err := b.LoadLeaderboard(context.Background(), PeriodCurrent)
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("Expected ErrOpenState, got %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 3 {
		t.Errorf("Expected inner session to be called 3 times, got %d", n)
	}
}

func TestBreakerSession_AuthDoesNotTrip(t *testing.T) {
	inner := sessionFunc(func(ctx context.Context, p Period) (string, error) {
		return "", ErrAuthentication
	})
	b := NewBreakerSession(inner, "test-auth")

	for i := 0; i < 5; i++ {
		_, err := b.LoadLeaderboard(context.Background(), PeriodCurrent)
		if !errors.Is(err, ErrAuthentication) {
			t.Fatalf("Expected ErrAuthentication, got %v", err)
		}
	}
	if b.State() != gobreaker.StateClosed {
		t.Errorf("Expected closed breaker, got %v", b.State())
	}
}

func TestPeriod_String(t *testing.T) {
	if PeriodCurrent.String() != "current" || PeriodPrevious.String() != "previous" {
		t.Errorf("Expected current/previous, got %s/%s", PeriodCurrent, PeriodPrevious)
	}
}

func TestNew_SelectsFixtureSession(t *testing.T) {
	cfg := &config.Config{Leaderboard: config.LeaderboardConfig{FixtureDir: t.TempDir()}}
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, ok := s.inner.(*FixtureSession); !ok {
		t.Errorf("Expected fixture session, got %T", s.inner)
	}
}

type sessionFunc func(ctx context.Context, p Period) (string, error)

func (f sessionFunc) LoadLeaderboard(ctx context.Context, p Period) (string, error) {
	return f(ctx, p)
}

type credentialFunc func(ctx context.Context) ([]*http.Cookie, error)

func (f credentialFunc) Load(ctx context.Context) ([]*http.Cookie, error) {
	return f(ctx)
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
