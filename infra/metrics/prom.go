package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/Kanokkarn13/carbon-clean-app-sub000/core/metrics"
)

// PromSink records scoring events in Prometheus metrics.
type PromSink struct {
	emissions   *prometheus.CounterVec
	emittedKg   *prometheus.CounterVec
	points      *prometheus.CounterVec
	tableBuilds *prometheus.CounterVec
	buildTime   prometheus.Histogram
}

// NewPromSink registers scoring metrics on the provided Prometheus
// registerer. If reg is nil, the default registerer is used. If the
// collectors are already registered, the existing ones are reused.
func NewPromSink(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		emissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "emission_calculations_total",
			Help: "Total number of computed trip emissions",
		}, []string{"activity", "class"}),
		emittedKg: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "emission_kgco2e_total",
			Help: "Sum of computed kgCO2e by activity",
		}, []string{"activity"}),
		points: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "activity_points_total",
			Help: "Total points awarded by activity and gate outcome",
		}, []string{"activity", "valid"}),
		tableBuilds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "factor_table_builds_total",
			Help: "Total factor table build attempts",
		}, []string{"success"}),
		buildTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "factor_table_build_seconds",
			Help:    "Time spent fetching and building the factor table",
			Buckets: prometheus.DefBuckets,
		}),
	}
	collectors := []prometheus.Collector{s.emissions, s.emittedKg, s.points, s.tableBuilds, s.buildTime}
	for i, col := range collectors {
		if err := reg.Register(col); err != nil {
			are, ok := err.(prometheus.AlreadyRegisteredError)
			if !ok {
				return nil, err
			}
			switch i {
			case 0:
				s.emissions = are.ExistingCollector.(*prometheus.CounterVec)
			case 1:
				s.emittedKg = are.ExistingCollector.(*prometheus.CounterVec)
			case 2:
				s.points = are.ExistingCollector.(*prometheus.CounterVec)
			case 3:
				s.tableBuilds = are.ExistingCollector.(*prometheus.CounterVec)
			case 4:
				s.buildTime = are.ExistingCollector.(prometheus.Histogram)
			}
		}
	}
	return s, nil
}

// RecordEmission increments the calculation counters.
func (s *PromSink) RecordEmission(e coremetrics.EmissionSample) error {
	s.emissions.WithLabelValues(e.Activity, e.Class).Inc()
	s.emittedKg.WithLabelValues(e.Activity).Add(e.KgCO2e)
	return nil
}

// RecordPoints adds the awarded points to the per-activity counter.
func (s *PromSink) RecordPoints(p coremetrics.PointSample) error {
	s.points.WithLabelValues(p.Activity, strconv.FormatBool(p.Valid)).Add(float64(p.Points))
	return nil
}

// RecordTableBuild counts the build attempt and observes its duration.
func (s *PromSink) RecordTableBuild(b coremetrics.TableBuild) error {
	s.tableBuilds.WithLabelValues(strconv.FormatBool(b.Success)).Inc()
	s.buildTime.Observe(b.Duration.Seconds())
	return nil
}
