// Package factors owns the emission factor table lifecycle: fetching the
// raw catalog rows, building the lookup table, and handing out immutable
// snapshots.
package factors

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Kanokkarn13/carbon-clean-app-sub000/core/emission"
	"github.com/Kanokkarn13/carbon-clean-app-sub000/core/logger"
	"github.com/Kanokkarn13/carbon-clean-app-sub000/core/metrics"
	"github.com/Kanokkarn13/carbon-clean-app-sub000/core/model"
)

// ErrBuildFailed wraps fetch or build failures. Recoverable by retry; a
// previously built table survives a failed refresh.
var ErrBuildFailed = errors.New("factor table build failed")

// Source provides the raw emission factor rows.
type Source interface {
	Fetch(ctx context.Context) ([]model.EmissionFactorRow, error)
}

// Service caches the built table. Concurrent callers of a pending build
// share one in-flight fetch; once built, the table is an immutable snapshot
// replaced atomically on refresh.
type Service struct {
	source Source
	sink   metrics.Sink
	log    logger.Logger

	group singleflight.Group

	mu      sync.RWMutex
	table   emission.Table
	ready   bool
	builtAt time.Time
}

// NewService creates a Service. The table is built lazily on first use. A
// nil sink disables build metrics.
func NewService(source Source, sink metrics.Sink, log logger.Logger) *Service {
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Service{source: source, sink: sink, log: log}
}

// Table returns the current table snapshot, building it on first call.
// Once a build has succeeded, Table never fails: readers keep the last-good
// snapshot even while a refresh is failing.
func (s *Service) Table(ctx context.Context) (emission.Table, error) {
	s.mu.RLock()
	if s.ready {
		t := s.table
		s.mu.RUnlock()
		return t, nil
	}
	s.mu.RUnlock()
	return s.build(ctx)
}

// Refresh rebuilds the table. With force false it only builds when no table
// exists yet. A failed refresh leaves the last-good table in place and
// reports the error to the refresher; stale-but-available beats
// unavailable.
func (s *Service) Refresh(ctx context.Context, force bool) (emission.Table, error) {
	if !force {
		return s.Table(ctx)
	}
	t, err := s.build(ctx)
	if err != nil {
		s.mu.RLock()
		defer s.mu.RUnlock()
		if s.ready {
			return s.table, err
		}
		return nil, err
	}
	return t, nil
}

// BuiltAt reports when the current table was built; zero when no build has
// succeeded yet.
func (s *Service) BuiltAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.builtAt
}

// build funnels all callers through a single in-flight fetch+build. The
// fetch runs under the first caller's context; waiters share its outcome.
func (s *Service) build(ctx context.Context) (emission.Table, error) {
	v, err, _ := s.group.Do("table", func() (any, error) {
		start := time.Now()
		rows, err := s.source.Fetch(ctx)
		if err != nil {
			s.record(metrics.TableBuild{Duration: time.Since(start), Success: false, Time: time.Now()})
			return nil, fmt.Errorf("%w: %v", ErrBuildFailed, err)
		}
		t := emission.BuildTable(rows)
		s.mu.Lock()
		s.table = t
		s.ready = true
		s.builtAt = time.Now()
		s.mu.Unlock()
		s.record(metrics.TableBuild{
			Rows:       len(rows),
			Activities: len(t),
			Duration:   time.Since(start),
			Success:    true,
			Time:       time.Now(),
		})
		s.log.Infof("factor table built: %d activities from %d rows", len(t), len(rows))
		return t, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(emission.Table), nil
}

func (s *Service) record(b metrics.TableBuild) {
	if err := s.sink.RecordTableBuild(b); err != nil {
		s.log.Warnf("record table build: %v", err)
	}
}
