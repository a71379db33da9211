// Package events defines the scoring events emitted on the event bus.
//
// Available event types:
//   - ScoreEvent: a telemetry sample was evaluated to a point score
//   - EmissionEvent: a logged trip was converted to a kgCO2e figure
//   - ReductionEvent: a substitution was computed to a net kgCO2e value
//   - TableRebuilt: the emission factor table was replaced
package events

import "time"

// ScoreEvent reports an evaluated activity.
type ScoreEvent struct {
	UserID   string
	Activity string
	Points   int
	Valid    bool
	Time     time.Time
}

// EmissionEvent reports a directly computed trip emission.
type EmissionEvent struct {
	UserID     string
	Activity   string
	Class      string
	DistanceKm float64
	KgCO2e     float64
	Time       time.Time
}

// ReductionEvent reports a computed substitution.
type ReductionEvent struct {
	UserID     string
	RecordID   string
	KgCO2e     float64
	DistanceKm float64
	Time       time.Time
}

// TableRebuilt reports a factor table replacement.
type TableRebuilt struct {
	Activities int
	Time       time.Time
}
