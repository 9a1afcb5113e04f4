// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

/*
Package cache provides a thread-safe in-memory cache with TTL support.

The read path caches computed weekly standings and the list of available
weeks. Standings change only when a sync pass or a goal update writes, so
the cache is cleared on both and otherwise expires after api.cache_ttl.

# Usage Example

	c := cache.New("standings", time.Minute)
	defer c.Close()

	key := cache.GenerateKey("standings", map[string]string{"week": start})
	if v, ok := c.Get(key); ok {
	    return v.(*models.StandingsResponse), nil
	}
	resp := compute()
	c.Set(key, resp)

# Expiry

Entries expire lazily on Get and are swept every five minutes by a
background goroutine that runs until Close.

# Metrics

Hits and misses are exported as cache_hits_total and cache_misses_total
with the cache name as the cache_type label.
*/
package cache
