// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

package browser

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/goccy/go-json"
)

// ErrNoCredentials is returned when no stored session cookies exist.
var ErrNoCredentials = errors.New("no stored credentials")

// CredentialStore supplies the cookies of an authenticated session.
type CredentialStore interface {
	Load(ctx context.Context) ([]*http.Cookie, error)
}

// storedCookie is one entry of a browser cookie export.
type storedCookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires,omitempty"` // unix seconds, 0 or -1 for session cookies
	Secure   bool    `json:"secure"`
	HTTPOnly bool    `json:"httpOnly"`
}

// FileCredentialStore reads a JSON cookie export from disk.
type FileCredentialStore struct {
	path string
	now  func() time.Time
}

// NewFileCredentialStore returns a store reading path.
func NewFileCredentialStore(path string) *FileCredentialStore {
	return &FileCredentialStore{path: path, now: time.Now}
}

// Load returns the unexpired cookies of the export. A missing or empty file
// yields ErrNoCredentials.
func (s *FileCredentialStore) Load(_ context.Context) ([]*http.Cookie, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("read cookie file %s: %w", s.path, err)
	}

	var stored []storedCookie
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("decode cookie file %s: %w", s.path, err)
	}

	now := s.now()
	cookies := make([]*http.Cookie, 0, len(stored))
	for _, sc := range stored {
		if sc.Name == "" {
			continue
		}
		c := &http.Cookie{
			Name:     sc.Name,
			Value:    sc.Value,
			Domain:   sc.Domain,
			Path:     sc.Path,
			Secure:   sc.Secure,
			HttpOnly: sc.HTTPOnly,
		}
		if sc.Expires > 0 {
			c.Expires = time.Unix(int64(sc.Expires), 0)
			if c.Expires.Before(now) {
				continue
			}
		}
		cookies = append(cookies, c)
	}
	if len(cookies) == 0 {
		return nil, ErrNoCredentials
	}
	return cookies, nil
}
