// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

package logging

import (
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// DefaultCollectorLimit bounds the number of lines a Collector keeps.
const DefaultCollectorLimit = 500

// Collector captures the log lines of a single sync pass so they can be
// returned to the caller that triggered it. Lines are console formatted
// ("15:04:05 INF message key=value"). Once the limit is reached the oldest
// lines are dropped.
//
// A Collector is scoped to one invocation; it never touches the global
// logger configuration.
type Collector struct {
	mu      sync.Mutex
	lines   []string
	limit   int
	dropped int
}

// NewCollector creates a collector keeping at most limit lines.
func NewCollector(limit int) *Collector {
	if limit <= 0 {
		limit = DefaultCollectorLimit
	}
	return &Collector{limit: limit}
}

// Write implements io.Writer. zerolog.ConsoleWriter emits one event per call.
func (c *Collector) Write(p []byte) (int, error) {
	line := strings.TrimRight(string(p), "\n")
	if line == "" {
		return len(p), nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.lines) >= c.limit {
		c.lines = c.lines[1:]
		c.dropped++
	}
	c.lines = append(c.lines, line)
	return len(p), nil
}

// Lines returns a copy of the captured lines.
func (c *Collector) Lines() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.lines))
	copy(out, c.lines)
	return out
}

// Dropped returns how many lines were discarded because of the limit.
func (c *Collector) Dropped() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dropped
}

// Writer wraps the collector in a plain console writer suitable for
// zerolog.MultiLevelWriter.
func (c *Collector) Writer() zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        c,
		TimeFormat: "15:04:05",
		NoColor:    true,
	}
}
