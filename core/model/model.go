package model

import "time"

// EmissionFactorRow is one factor entry as returned by the emission factor
// catalog. Rows with a nil EfPoint carry no usable factor and are dropped at
// table build time.
type EmissionFactorRow struct {
	Activity string   `json:"activity"`
	Type     string   `json:"type,omitempty"`
	Class    string   `json:"class,omitempty"`
	EfPoint  *float64 `json:"ef_point"`
	Unit     string   `json:"unit,omitempty"`
	Refer    string   `json:"refer,omitempty"`
}

// Activity is one evaluated trip or tracking sample. The Points, PointValue
// and Score fields may carry a pre-computed score in whatever shape the
// producer sent it; use Number to coerce them.
type Activity struct {
	Type        string  `json:"type,omitempty"`
	Activity    string  `json:"activity,omitempty"`
	DistanceKm  float64 `json:"distance_km"`
	DurationSec float64 `json:"duration_sec,omitempty"`
	Duration    float64 `json:"duration,omitempty"`
	StepTotal   float64 `json:"step_total,omitempty"`
	Points      any     `json:"points,omitempty"`
	PointValue  any     `json:"point_value,omitempty"`
	Score       any     `json:"score,omitempty"`
	UserID      string  `json:"user_id,omitempty"`
}

// ReductionRecord captures the net kgCO2e saved by substituting one mode of
// transport for another over a shared distance. PointValue is signed: a
// negative value means the substitute emits more than the baseline.
type ReductionRecord struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id,omitempty"`
	ActivityFrom string    `json:"activity_from"`
	ParamFrom    string    `json:"param_from"`
	ActivityTo   string    `json:"activity_to"`
	ParamTo      string    `json:"param_to"`
	DistanceKm   float64   `json:"distance_km"`
	PointValue   float64   `json:"point_value"`
	CreatedAt    time.Time `json:"created_at"`
}
