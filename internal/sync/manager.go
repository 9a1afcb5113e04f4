// Runboard - Weekly Running Challenge Leaderboard Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runboard

package sync

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/runboard/internal/browser"
	"github.com/tomtom215/runboard/internal/config"
	"github.com/tomtom215/runboard/internal/leaderboard"
	"github.com/tomtom215/runboard/internal/logging"
	"github.com/tomtom215/runboard/internal/metrics"
	"github.com/tomtom215/runboard/internal/week"
)

// Result describes one SyncIfNeeded call.
type Result struct {
	RunID     string                `json:"run_id"`
	StartedAt time.Time             `json:"started_at"`
	Duration  time.Duration         `json:"duration"`
	Decision  Decision              `json:"decision"`
	Current   []leaderboard.Athlete `json:"current"`
	Previous  []leaderboard.Athlete `json:"previous"`
	Summary   Summary               `json:"summary"`
	Logs      []string              `json:"logs"`
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock replaces time.Now. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithRunLocker sets the cross-process pass lock. Stores implementing
// RunLocker are picked up automatically.
func WithRunLocker(l RunLocker) Option {
	return func(m *Manager) {
		m.locker = l
	}
}

// WithCollectorLimit bounds the log lines captured per pass.
func WithCollectorLimit(n int) Option {
	return func(m *Manager) {
		m.collectorLimit = n
	}
}

// Manager runs sync passes and the periodic scheduler.
type Manager struct {
	cfg        *config.SyncConfig
	store      Store
	session    browser.BrowserSession
	policy     Policy
	reconciler *Reconciler
	upserter   *Upserter
	locker     RunLocker

	now            func() time.Time
	collectorLimit int

	passMu sync.Mutex // held for the duration of a pass

	mu              sync.RWMutex
	running         bool
	lastSync        time.Time
	lastResult      *Result
	onSyncCompleted func(*Result)

	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewManager creates a manager syncing session into store.
func NewManager(cfg *config.Config, store Store, session browser.BrowserSession, opts ...Option) *Manager {
	m := &Manager{
		cfg:     &cfg.Sync,
		store:   store,
		session: session,
		policy: Policy{
			StaleAfter: cfg.Sync.StaleAfter,
			CutoffHour: cfg.Sync.CutoffHour,
			Location:   cfg.Location(),
		},
		reconciler:     NewReconciler(store),
		upserter:       NewUpserter(store, cfg.Sync.GoalBrackets),
		now:            time.Now,
		collectorLimit: logging.DefaultCollectorLimit,
		stopChan:       make(chan struct{}),
	}
	if l, ok := store.(RunLocker); ok {
		m.locker = l
	}
	for _, opt := range opts {
		opt(m)
	}
	m.reconciler.now = m.now

	logging.Info().
		Str("timezone", m.policy.Location.String()).
		Dur("stale_after", m.policy.StaleAfter).
		Int("cutoff_hour", m.policy.CutoffHour).
		Dur("interval", m.cfg.Interval).
		Int("workers", m.workers()).
		Bool("run_locker", m.locker != nil).
		Msg("Sync manager config loaded")

	return m
}

func (m *Manager) workers() int {
	if m.cfg.Workers > 0 {
		return m.cfg.Workers
	}
	return 1
}

// SetOnSyncCompleted sets the callback invoked after every pass that
// fetched at least one page.
func (m *Manager) SetOnSyncCompleted(callback func(*Result)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onSyncCompleted = callback
}

// LastSyncTime returns the start of the last pass that fetched data without
// persistence failures.
func (m *Manager) LastSyncTime() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastSync
}

// LastResult returns the result of the most recent pass, or nil.
func (m *Manager) LastResult() *Result {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastResult
}

// Location returns the canonical challenge timezone.
func (m *Manager) Location() *time.Location {
	return m.policy.Location
}

// SyncIfNeeded refreshes the stored aggregates when the policy says they are
// stale. force refreshes regardless of staleness; timeAware suppresses
// passes early on a window's first day. It returns ErrSyncInProgress when
// another pass is running. Persistence failures do not fail the call; they
// are reported in Result.Summary.
func (m *Manager) SyncIfNeeded(ctx context.Context, force, timeAware bool) (*Result, error) {
	if !m.passMu.TryLock() {
		metrics.SyncRejected.Inc()
		return nil, ErrSyncInProgress
	}
	defer m.passMu.Unlock()

	if m.locker != nil {
		release, ok, err := m.locker.TryLockRun(ctx)
		if err != nil {
			return nil, fmt.Errorf("acquire sync lock: %w", err)
		}
		if !ok {
			metrics.SyncRejected.Inc()
			return nil, ErrSyncInProgress
		}
		defer release()
	}

	runID := logging.GenerateRunID()
	collector := logging.NewCollector(m.collectorLimit)
	logger := logging.Tee(collector.Writer()).With().Str("component", "sync").Logger()
	ctx = logging.ContextWithRunID(ctx, runID)
	ctx = logging.ContextWithLogger(ctx, logger)
	log := logging.Ctx(ctx)

	now := m.now()
	res := &Result{
		RunID:     runID,
		StartedAt: now,
		Current:   []leaderboard.Athlete{},
		Previous:  []leaderboard.Athlete{},
	}

	cur, prev := m.policy.Windows(now)
	curSynced, err := m.store.LastSynced(ctx, cur)
	if err != nil {
		return nil, fmt.Errorf("read last sync of %s: %w", cur, err)
	}
	prevSynced, err := m.store.LastSynced(ctx, prev)
	if err != nil {
		return nil, fmt.Errorf("read last sync of %s: %w", prev, err)
	}

	res.Decision = m.policy.Decide(PolicyInput{
		Now:            now,
		CurrentSynced:  curSynced,
		PreviousSynced: prevSynced,
		ForceRefresh:   force,
		TimeAware:      timeAware,
	})
	metrics.SyncDecisions.WithLabelValues(res.Decision.Reason).Inc()

	log.Info().
		Str("reason", res.Decision.Reason).
		Bool("fetch_current", res.Decision.FetchCurrent).
		Bool("fetch_previous", res.Decision.FetchPrevious).
		Str("current_week", cur.String()).
		Bool("force", force).
		Bool("time_aware", timeAware).
		Msg("Sync decision")

	if !res.Decision.Any() {
		res.Logs = collector.Lines()
		m.finish(res, false)
		return res, nil
	}

	if res.Decision.FetchCurrent {
		res.Current = m.fetch(ctx, browser.PeriodCurrent, &res.Summary)
		res.Summary.CurrentCount = len(res.Current)
		m.persist(ctx, browser.PeriodCurrent, cur, res.Current, now, &res.Summary)
	}

	if res.Decision.FetchPrevious {
		year, wk := prev.ISOWeek()
		log.Info().Int("iso_year", year).Int("iso_week", wk).Str("window", prev.String()).Msg("Refreshing previous week")
		res.Previous = m.fetch(ctx, browser.PeriodPrevious, &res.Summary)
		res.Summary.PreviousCount = len(res.Previous)
		m.persist(ctx, browser.PeriodPrevious, prev, res.Previous, now, &res.Summary)
	}

	res.Duration = m.now().Sub(now)
	metrics.RecordSyncOperation(res.Duration, res.Summary.Processed, res.Summary.Err())

	event := log.Info()
	if res.Summary.Failed() > 0 {
		event = log.Warn()
	}
	event.
		Int("current", res.Summary.CurrentCount).
		Int("previous", res.Summary.PreviousCount).
		Int("processed", res.Summary.Processed).
		Int("failed", res.Summary.Failed()).
		Int("skipped_rows", res.Summary.SkippedRows).
		Dur("duration", res.Duration).
		Msg("Sync pass complete")

	res.Logs = collector.Lines()
	m.finish(res, true)
	return res, nil
}

// finish records res and notifies the completion callback when fetched.
func (m *Manager) finish(res *Result, fetched bool) {
	m.mu.Lock()
	m.lastResult = res
	if fetched && res.Summary.Failed() == 0 {
		m.lastSync = res.StartedAt
	}
	callback := m.onSyncCompleted
	m.mu.Unlock()

	if fetched && callback != nil {
		callback(res)
	}
}

// fetch loads and extracts one period. Page failures are soft: they are
// logged, recorded in summary and yield no athletes.
func (m *Manager) fetch(ctx context.Context, period browser.Period, summary *Summary) []leaderboard.Athlete {
	log := logging.Ctx(ctx)

	pctx, cancel := browser.WithPageTimeout(ctx, m.cfg.PageTimeout)
	fragment, err := m.session.LoadLeaderboard(pctx, period)
	cancel()
	if err != nil {
		summary.FetchErrors = append(summary.FetchErrors, err)
		switch {
		case errors.Is(err, browser.ErrPeriodUnsupported):
			log.Info().Str("period", period.String()).Msg("Leaderboard period not available, skipping")
		case errors.Is(err, browser.ErrPageTimeout):
			log.Warn().Err(err).Str("period", period.String()).Msg("Leaderboard page timed out, treating as empty")
		case errors.Is(err, browser.ErrAuthentication):
			log.Warn().Err(err).Str("period", period.String()).Msg("Leaderboard authentication failed, treating as empty")
		default:
			log.Warn().Err(err).Str("period", period.String()).Msg("Failed to load leaderboard, treating as empty")
		}
		return []leaderboard.Athlete{}
	}

	result, err := leaderboard.ExtractString(fragment)
	if err != nil {
		summary.FetchErrors = append(summary.FetchErrors, err)
		log.Warn().Err(err).Str("period", period.String()).Msg("Failed to parse leaderboard, treating as empty")
		return []leaderboard.Athlete{}
	}

	for _, skipped := range result.Skipped {
		log.Warn().
			Str("period", period.String()).
			Int("row", skipped.Row).
			Str("field", skipped.Field).
			Str("value", skipped.Value).
			Err(skipped.Err).
			Msg("Skipping leaderboard row")
		metrics.LeaderboardRowsSkipped.WithLabelValues(period.String(), skipped.Field).Inc()
	}
	summary.SkippedRows += result.SkippedRows()

	log.Info().
		Str("period", period.String()).
		Int("athletes", len(result.Athletes)).
		Int("skipped", result.SkippedRows()).
		Msg("Extracted leaderboard")
	return result.Athletes
}

// persist resolves and upserts every athlete of one window. Athletes are
// processed concurrently; a failure is recorded and never cancels the
// others.
func (m *Manager) persist(ctx context.Context, period browser.Period, w week.Window, athletes []leaderboard.Athlete, now time.Time, summary *Summary) {
	if len(athletes) == 0 {
		return
	}

	var mu sync.Mutex
	var failures []*PersistenceError
	processed := 0

	var g errgroup.Group
	g.SetLimit(m.workers())
	for _, a := range athletes {
		g.Go(func() error {
			if perr := m.persistAthlete(ctx, w, a, now); perr != nil {
				logging.Ctx(ctx).Warn().Err(perr.Err).
					Int64("athlete_id", a.AthleteID).
					Str("op", perr.Op).
					Str("window", w.String()).
					Msg("Failed to persist athlete")
				metrics.AthletesFailed.WithLabelValues(period.String()).Inc()
				mu.Lock()
				failures = append(failures, perr)
				mu.Unlock()
				return nil
			}
			metrics.AthletesUpserted.WithLabelValues(period.String()).Inc()
			mu.Lock()
			processed++
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(failures, func(i, j int) bool { return failures[i].AthleteID < failures[j].AthleteID })
	summary.Processed += processed
	summary.Failures = append(summary.Failures, failures...)
}

func (m *Manager) persistAthlete(ctx context.Context, w week.Window, a leaderboard.Athlete, now time.Time) *PersistenceError {
	userID, err := m.reconciler.Resolve(ctx, a.AthleteID, a.Name)
	if err != nil {
		return &PersistenceError{AthleteID: a.AthleteID, Window: w, Op: OpResolve, Err: err}
	}
	if err := m.upserter.Upsert(ctx, userID, w, a, now); err != nil {
		return &PersistenceError{AthleteID: a.AthleteID, Window: w, Op: OpUpsert, Err: err}
	}
	return nil
}

// Start begins the periodic scheduler. Each tick runs a non-forced pass
// honoring sync.time_aware.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return fmt.Errorf("sync manager is already running")
	}
	m.running = true
	m.stopChan = make(chan struct{})
	m.mu.Unlock()

	logging.Info().Dur("interval", m.cfg.Interval).Msg("Starting sync manager...")

	m.wg.Add(1)
	go m.syncLoop(ctx)
	return nil
}

// Stop halts the scheduler and waits for an in-flight pass to finish.
func (m *Manager) Stop() error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return fmt.Errorf("sync manager is not running")
	}
	m.running = false
	m.mu.Unlock()

	logging.Info().Msg("Stopping sync manager...")
	close(m.stopChan)
	m.wg.Wait()
	logging.Info().Msg("Sync manager stopped")
	return nil
}

// TriggerSync runs a forced pass that ignores the time-aware guard.
func (m *Manager) TriggerSync(ctx context.Context) (*Result, error) {
	return m.SyncIfNeeded(ctx, true, false)
}

// syncLoop runs the periodic synchronization
func (m *Manager) syncLoop(ctx context.Context) {
	defer m.wg.Done()

	if m.cfg.RunOnStartup {
		m.scheduledPass(ctx)
	}

	interval := m.cfg.Interval
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-m.stopChan:
			return
		case <-ticker.C:
			m.scheduledPass(ctx)
		}
	}
}

func (m *Manager) scheduledPass(ctx context.Context) {
	_, err := m.SyncIfNeeded(ctx, false, m.cfg.TimeAware)
	switch {
	case errors.Is(err, ErrSyncInProgress):
		logging.Debug().Msg("Scheduled sync skipped, pass already running")
	case err != nil:
		logging.Error().Err(err).Msg("Sync failed")
	}
}
