// Package points derives gamification point scores from activity telemetry
// and keeps the in-process record of awarded points.
package points

import (
	"math"
	"strings"

	"github.com/Kanokkarn13/carbon-clean-app-sub000/core/model"
)

// Plausibility bounds for tracked activities. Samples outside these bounds
// score zero points.
const (
	WalkMinSpeedKmh  = 3
	WalkMaxSpeedKmh  = 15
	CycleMinSpeedKmh = 3
	CycleMaxSpeedKmh = 30
	MinStepsPerSec   = 0.2
	MaxStepsPerMin   = 200
)

// Option adjusts a single evaluation.
type Option func(*evalParams)

type evalParams struct {
	durationOverride *float64
}

// WithDuration overrides the record's own duration fields for this
// evaluation. Backfills use it when the authoritative duration lives
// outside the record.
func WithDuration(sec float64) Option {
	return func(p *evalParams) { p.durationOverride = &sec }
}

// Evaluate derives the point score for an activity record.
//
// A numeric points/point_value/score field (checked in that order) supplies
// the candidate score; otherwise one point per full minute of duration is
// awarded. Either way the plausibility gate applies: walking and cycling
// samples with impossible speed or cadence score zero, whatever the record
// claims. Implausible telemetry is a defined outcome, not an error.
func Evaluate(a model.Activity, opts ...Option) int {
	var p evalParams
	for _, opt := range opts {
		opt(&p)
	}

	candidate, hasCandidate := overrideScore(a)
	dur := duration(a, p.durationOverride)

	if !plausible(a, dur) {
		return 0
	}
	if hasCandidate {
		return candidate
	}
	if dur <= 0 {
		return 0
	}
	score := int(math.Round(dur / 60))
	if score < 0 {
		return 0
	}
	return score
}

// overrideScore picks the first numeric pre-computed score, clamped to a
// non-negative integer.
func overrideScore(a model.Activity) (int, bool) {
	for _, v := range []any{a.Points, a.PointValue, a.Score} {
		if f, ok := model.Number(v); ok {
			score := int(math.Round(f))
			if score < 0 {
				score = 0
			}
			return score, true
		}
	}
	return 0, false
}

func duration(a model.Activity, override *float64) float64 {
	if override != nil {
		return *override
	}
	if a.DurationSec > 0 {
		return a.DurationSec
	}
	return a.Duration
}

// plausible applies the anti-gaming gate. Only walking and cycling samples
// are gated; any other activity type is automatically valid.
func plausible(a model.Activity, dur float64) bool {
	typ := a.Type
	if typ == "" {
		typ = a.Activity
	}
	typ = strings.ToLower(typ)
	switch {
	case strings.Contains(typ, "walk"):
		return plausibleWalk(a.DistanceKm, dur, a.StepTotal)
	case strings.Contains(typ, "cycl"):
		return plausibleCycle(a.DistanceKm, dur)
	}
	return true
}

func plausibleWalk(distanceKm, durationSec, steps float64) bool {
	if durationSec <= 0 || steps < 0 {
		return false
	}
	speed := distanceKm / (durationSec / 3600)
	if speed < WalkMinSpeedKmh || speed > WalkMaxSpeedKmh {
		return false
	}
	stepsPerSec := steps / durationSec
	return stepsPerSec >= MinStepsPerSec && stepsPerSec*60 <= MaxStepsPerMin
}

func plausibleCycle(distanceKm, durationSec float64) bool {
	if durationSec <= 0 || distanceKm < 0 {
		return false
	}
	speed := distanceKm / (durationSec / 3600)
	return speed >= CycleMinSpeedKmh && speed <= CycleMaxSpeedKmh
}
