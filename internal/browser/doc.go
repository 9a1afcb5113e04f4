// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

/*
Package browser loads club leaderboard pages and hands their table body to
the extractor.

A BrowserSession returns the rendered <tbody> fragment for a Period. Three
implementations are provided:

  - HTTPSession: fetches the club page over HTTP with a cookie jar seeded
    from a CredentialStore, a rate limiter pacing navigations and
    leaderboard.FindBody isolating the table body.
  - FixtureSession: serves current.html and previous.html from a directory.
    Used for development, demos and tests.
  - BreakerSession: wraps any session in a gobreaker circuit breaker and
    records fetch metrics.

Errors:

  - ErrPageTimeout: the page did not load within the caller's deadline. The
    sync treats this as an empty fetch for that period.
  - ErrAuthentication: the site redirected to its login page or refused
    access. The sync logs a warning and treats the page as empty.
  - ErrPeriodUnsupported: the session cannot navigate to the period, for
    example when no previous-week URL is configured.
*/
package browser
