// Package portfolio watches a user's simulations and reports the ones that
// conclude between syncs.
package portfolio

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/optionslab/optionslab-client/internal/metrics"
	"github.com/optionslab/optionslab-client/internal/normalize"
)

// Source supplies the user's simulations. InvalidateUser is called before each
// fetch so cached payloads never hide a transition.
type Source interface {
	Simulations(ctx context.Context, userID string) ([]normalize.SimulationRecord, error)
	InvalidateUser(userID string) int
}

// Alerter is told about each newly concluded simulation.
type Alerter interface {
	NotifyConcluded(ctx context.Context, rec normalize.SimulationRecord) error
}

// Tracker periodically syncs simulations and detects conclusions.
type Tracker struct {
	source       Source
	userID       string
	alerter      Alerter
	log          logrus.FieldLogger
	syncInterval time.Duration
	now          func() time.Time

	mu            sync.RWMutex
	status        map[string]normalize.Status
	seeded        bool
	lastSync      time.Time
	concludedSeen int
}

// NewTracker creates a Tracker that syncs at the given interval. alerter may
// be nil.
func NewTracker(source Source, userID string, syncInterval time.Duration, alerter Alerter, log logrus.FieldLogger) *Tracker {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Tracker{
		source:       source,
		userID:       userID,
		alerter:      alerter,
		log:          log.WithField("user", userID),
		syncInterval: syncInterval,
		now:          time.Now,
		status:       make(map[string]normalize.Status),
	}
}

// Sync fetches the current simulations and returns those that concluded since
// the previous sync. The first sync only records a baseline. Records without
// an id cannot be tracked and are ignored.
func (t *Tracker) Sync(ctx context.Context) ([]normalize.SimulationRecord, error) {
	t.source.InvalidateUser(t.userID)
	records, err := t.source.Simulations(ctx, t.userID)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	var concluded []normalize.SimulationRecord
	next := make(map[string]normalize.Status, len(records))
	for _, rec := range records {
		if rec.ID == "" {
			continue
		}
		next[rec.ID] = rec.Status
		if !t.seeded || rec.Status != normalize.StatusConcluded {
			continue
		}
		if prev, ok := t.status[rec.ID]; !ok || prev == normalize.StatusInProgress {
			concluded = append(concluded, rec)
		}
	}
	t.status = next
	t.seeded = true
	t.lastSync = t.now()
	t.concludedSeen += len(concluded)
	t.mu.Unlock()

	metrics.AddConcluded(len(concluded))
	for _, rec := range concluded {
		t.log.WithFields(logrus.Fields{"simulation": rec.ID, "name": rec.Name}).Info("simulation concluded")
		if t.alerter == nil {
			continue
		}
		if err := t.alerter.NotifyConcluded(ctx, rec); err != nil {
			t.log.WithError(err).WithField("simulation", rec.ID).Warn("concluded alert failed")
		}
	}
	return concluded, nil
}

// Tracked returns how many simulations the last sync saw.
func (t *Tracker) Tracked() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.status)
}

// ConcludedSeen returns how many conclusions were reported since start.
func (t *Tracker) ConcludedSeen() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.concludedSeen
}

// LastSync returns the time of the last successful sync.
func (t *Tracker) LastSync() time.Time {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lastSync
}

// Run starts the periodic sync loop. Blocks until ctx is cancelled.
func (t *Tracker) Run(ctx context.Context) error {
	if _, err := t.Sync(ctx); err != nil {
		t.log.WithError(err).Warn("watch initial sync failed")
	}

	ticker := time.NewTicker(t.syncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := t.Sync(ctx); err != nil {
				t.log.WithError(err).Warn("watch sync failed")
			}
		}
	}
}
