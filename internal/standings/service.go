// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

package standings

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tomtom215/runboard/internal/cache"
	"github.com/tomtom215/runboard/internal/logging"
	"github.com/tomtom215/runboard/internal/models"
	"github.com/tomtom215/runboard/internal/status"
	"github.com/tomtom215/runboard/internal/week"
)

// AvailableWeeksLimit is the number of windows offered by the week picker.
const AvailableWeeksLimit = 10

// Store is the persistence surface of the read path and goal registration.
type Store interface {
	GetUserByHandle(ctx context.Context, handle string) (*models.User, error)
	CreateUser(ctx context.Context, u *models.User) (int64, error)
	SetGoal(ctx context.Context, userID int64, w week.Window, goal float64, now time.Time) error
	GetAggregate(ctx context.Context, userID int64, w week.Window) (*models.Aggregate, error)
	WeekEntries(ctx context.Context, w week.Window) ([]models.WeekEntry, error)
	UsersWithoutEntry(ctx context.Context, w week.Window) ([]models.User, error)
	AvailableWeeks(ctx context.Context, limit int) ([]string, error)
	LatestWeekStatus(ctx context.Context) (*models.SyncStatus, error)
	LastUpdate(ctx context.Context, w week.Window) (*time.Time, error)
}

// Service computes weekly standings and registers users and goals.
type Service struct {
	store Store
	loc   *time.Location
	cache *cache.Cache
	now   func() time.Time

	// cacheMu orders Invalidate against Set; gen counts invalidations so a
	// result computed before an invalidation is never stored after it.
	cacheMu sync.Mutex
	gen     uint64
}

// NewService returns a service reading store in loc. Results are cached
// for ttl; a non-positive ttl disables caching.
func NewService(store Store, loc *time.Location, ttl time.Duration) *Service {
	s := &Service{store: store, loc: loc, now: time.Now}
	if ttl > 0 {
		s.cache = cache.New("standings", ttl)
	}
	return s
}

// Close releases the cache sweeper.
func (s *Service) Close() {
	if s.cache != nil {
		s.cache.Close()
	}
}

// Invalidate drops cached results. Called after every write.
func (s *Service) Invalidate() {
	if s.cache == nil {
		return
	}
	s.cacheMu.Lock()
	s.gen++
	s.cache.Clear()
	s.cacheMu.Unlock()
}

func (s *Service) generation() uint64 {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	return s.gen
}

// cacheResult caches resp unless the cache was invalidated after gen was read.
func (s *Service) cacheResult(key string, gen uint64, resp *models.StandingsResponse) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	if s.gen != gen {
		return
	}
	s.cache.Set(key, resp)
}

// Location returns the canonical challenge timezone.
func (s *Service) Location() *time.Location {
	return s.loc
}

// ResolveWeek returns the window of a YYYY-MM-DD date, falling back to the
// current window when raw is empty or invalid.
func (s *Service) ResolveWeek(raw string) week.Window {
	if raw != "" {
		if w, err := week.Parse(raw, s.loc); err == nil {
			return w
		}
		logging.Debug().Str("week", raw).Msg("Invalid week parameter, using current week")
	}
	return week.Current(s.now(), s.loc)
}

// Standings returns the results table of the window containing weekParam.
// The bool reports whether the response came from the cache.
func (s *Service) Standings(ctx context.Context, weekParam string) (*models.StandingsResponse, bool, error) {
	w := s.ResolveWeek(weekParam)
	key := cache.GenerateKey("standings", w.StartDate())

	var gen uint64
	if s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			if resp, ok := v.(*models.StandingsResponse); ok {
				return resp, true, nil
			}
		}
		gen = s.generation()
	}

	resp, err := s.compute(ctx, w)
	if err != nil {
		return nil, false, err
	}
	if s.cache != nil {
		s.cacheResult(key, gen, resp)
	}
	return resp, false, nil
}

func (s *Service) compute(ctx context.Context, w week.Window) (*models.StandingsResponse, error) {
	now := s.now()
	current := week.Current(now, s.loc)
	isCurrent := w.Equal(current)

	entries, err := s.store.WeekEntries(ctx, w)
	if err != nil {
		return nil, fmt.Errorf("load standings for %s: %w", w, err)
	}

	rows := make([]models.Standing, 0, len(entries))
	for i := range entries {
		rows = append(rows, entryStanding(&entries[i], w, now))
	}
	SortStandings(rows)

	if isCurrent {
		missing, err := s.store.UsersWithoutEntry(ctx, w)
		if err != nil {
			return nil, fmt.Errorf("load unregistered users for %s: %w", w, err)
		}
		for i := range missing {
			rows = append(rows, unregisteredStanding(&missing[i]))
		}
	}

	lastUpdate, err := s.store.LastUpdate(ctx, w)
	if err != nil {
		return nil, fmt.Errorf("load last update for %s: %w", w, err)
	}

	weeks, err := s.Weeks(ctx)
	if err != nil {
		return nil, err
	}

	return &models.StandingsResponse{
		WeekStart:      w.StartDate(),
		WeekEnd:        w.EndDate(),
		IsCurrentWeek:  isCurrent,
		LastUpdate:     lastUpdate,
		AvailableWeeks: weeks,
		Standings:      rows,
	}, nil
}

// Weeks returns the most recent window start dates, newest first. The
// current window is always included.
func (s *Service) Weeks(ctx context.Context) ([]string, error) {
	weeks, err := s.store.AvailableWeeks(ctx, AvailableWeeksLimit)
	if err != nil {
		return nil, fmt.Errorf("load available weeks: %w", err)
	}
	current := week.Current(s.now(), s.loc).StartDate()
	if len(weeks) == 0 || weeks[0] < current {
		weeks = append([]string{current}, weeks...)
		if len(weeks) > AvailableWeeksLimit {
			weeks = weeks[:AvailableWeeksLimit]
		}
	}
	return weeks, nil
}

// SyncStatus reports the freshness of the most recent window.
func (s *Service) SyncStatus(ctx context.Context) (*models.SyncStatus, error) {
	st, err := s.store.LatestWeekStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("load sync status: %w", err)
	}
	return st, nil
}

// RegisterUser creates a locally registered user.
func (s *Service) RegisterUser(ctx context.Context, req *models.RegisterUserRequest) (*models.User, error) {
	u := &models.User{
		Handle:    strings.ToLower(strings.TrimSpace(req.Handle)),
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Origin:    models.OriginLocal,
		CreatedAt: s.now().UTC(),
	}
	id, err := s.store.CreateUser(ctx, u)
	if err != nil {
		return nil, err
	}
	u.ID = id
	s.Invalidate()

	logging.Ctx(ctx).Info().Str("handle", u.Handle).Int64("user_id", id).Msg("Registered user")
	return u, nil
}

// SetGoal sets the current-week goal of the user with handle. It returns
// models.ErrUserNotFound for an unknown handle.
func (s *Service) SetGoal(ctx context.Context, handle string, goal float64) (*models.Aggregate, error) {
	u, err := s.store.GetUserByHandle(ctx, strings.ToLower(strings.TrimSpace(handle)))
	if err != nil {
		return nil, err
	}

	now := s.now()
	w := week.Current(now, s.loc)
	if err := s.store.SetGoal(ctx, u.ID, w, goal, now); err != nil {
		return nil, fmt.Errorf("set goal for %s: %w", u.Handle, err)
	}
	s.Invalidate()

	agg, err := s.store.GetAggregate(ctx, u.ID, w)
	if err != nil {
		if errors.Is(err, models.ErrAggregateNotFound) {
			return nil, fmt.Errorf("goal for %s not visible after write: %w", u.Handle, err)
		}
		return nil, fmt.Errorf("read goal for %s: %w", u.Handle, err)
	}

	logging.Ctx(ctx).Info().
		Str("handle", u.Handle).
		Str("week", w.StartDate()).
		Float64("goal", goal).
		Msg("Goal set")
	return agg, nil
}

func entryStanding(e *models.WeekEntry, w week.Window, now time.Time) models.Standing {
	a := &e.Aggregate
	label := status.Classify(a.DistanceGoal, a.TotalDistance, w.End, now)
	return models.Standing{
		UserID:        e.User.ID,
		Handle:        e.User.Handle,
		Name:          e.User.DisplayName(),
		ProfileURL:    e.User.ProfileURL(),
		DistanceGoal:  a.DistanceGoal,
		TotalDistance: a.TotalDistance,
		Runs:          a.Runs,
		AveragePace:   a.AveragePace,
		ElevationGain: a.ElevationGain,
		Percent:       status.Percent(a.DistanceGoal, a.TotalDistance),
		Status:        string(label),
		StatusText:    label.Description(),
		Registered:    true,
	}
}

func unregisteredStanding(u *models.User) models.Standing {
	return models.Standing{
		UserID:     u.ID,
		Handle:     u.Handle,
		Name:       u.DisplayName(),
		ProfileURL: u.ProfileURL(),
		Status:     string(status.NoGoalSet),
		StatusText: status.NoGoalSet.Description(),
	}
}

// SortStandings orders rows with a goal first, then by completion
// percentage and distance, both descending. Ties keep user id order.
func SortStandings(rows []models.Standing) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		aGoal, bGoal := a.DistanceGoal > 0, b.DistanceGoal > 0
		if aGoal != bGoal {
			return aGoal
		}
		if a.Percent != b.Percent {
			return a.Percent > b.Percent
		}
		if a.TotalDistance != b.TotalDistance {
			return a.TotalDistance > b.TotalDistance
		}
		return a.UserID < b.UserID
	})
}
