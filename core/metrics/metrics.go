// Package metrics defines the observability sink contract for the scoring
// engine. Concrete sinks live in infra/metrics.
package metrics

import "time"

// EmissionSample is one computed trip emission.
type EmissionSample struct {
	Activity   string
	Class      string
	DistanceKm float64
	KgCO2e     float64
	Time       time.Time
}

// PointSample is one evaluated activity score.
type PointSample struct {
	Activity string
	Points   int
	Valid    bool
	Time     time.Time
}

// TableBuild captures one factor table build attempt.
type TableBuild struct {
	Rows       int
	Activities int
	Duration   time.Duration
	Success    bool
	Time       time.Time
}

// Sink records scoring engine events for observability purposes.
type Sink interface {
	RecordEmission(EmissionSample) error
	RecordPoints(PointSample) error
	RecordTableBuild(TableBuild) error
}

// NopSink implements Sink with no-op methods.
type NopSink struct{}

func (NopSink) RecordEmission(EmissionSample) error { return nil }
func (NopSink) RecordPoints(PointSample) error      { return nil }
func (NopSink) RecordTableBuild(TableBuild) error   { return nil }
