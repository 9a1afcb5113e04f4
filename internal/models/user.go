// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

package models

import (
	"strconv"
	"strings"
	"time"
)

// Origin records how a user came to exist.
type Origin string

const (
	// OriginLocal users registered themselves through the API.
	OriginLocal Origin = "local"
	// OriginExternal users were provisioned from the club leaderboard.
	OriginExternal Origin = "external"
)

// ExternalHandlePrefix prefixes handles of users provisioned from the
// leaderboard.
const ExternalHandlePrefix = "strava_"

// AthleteProfileURL is the public profile URL template for external users.
const AthleteProfileURL = "https://www.strava.com/athletes/"

// User is a club member.
type User struct {
	ID        int64     `json:"id"`
	Handle    string    `json:"handle"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Origin    Origin    `json:"origin"`
	CreatedAt time.Time `json:"created_at"`
}

// DisplayName joins first and last name.
func (u *User) DisplayName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// ProfileURL returns the leaderboard profile of an external user, or "".
func (u *User) ProfileURL() string {
	return ProfileURLForHandle(u.Handle)
}

// ExternalHandle derives the handle of an externally sourced athlete.
func ExternalHandle(athleteID int64) string {
	return ExternalHandlePrefix + strconv.FormatInt(athleteID, 10)
}

// ProfileURLForHandle returns the athlete profile for an external handle.
func ProfileURLForHandle(handle string) string {
	id, ok := strings.CutPrefix(handle, ExternalHandlePrefix)
	if !ok || id == "" {
		return ""
	}
	return AthleteProfileURL + id
}

// SplitName splits a display name into first name and the remainder.
func SplitName(display string) (first, last string) {
	fields := strings.Fields(display)
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return fields[0], ""
	default:
		return fields[0], strings.Join(fields[1:], " ")
	}
}
