package metrics

import coremetrics "github.com/Kanokkarn13/carbon-clean-app-sub000/core/metrics"

// MultiSink fans scoring events out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordEmission forwards the sample to all sinks, returning the first
// error encountered.
func (m *MultiSink) RecordEmission(e coremetrics.EmissionSample) error {
	for _, s := range m.Sinks {
		if err := s.RecordEmission(e); err != nil {
			return err
		}
	}
	return nil
}

// RecordPoints forwards the sample to all sinks, returning the first error
// encountered.
func (m *MultiSink) RecordPoints(p coremetrics.PointSample) error {
	for _, s := range m.Sinks {
		if err := s.RecordPoints(p); err != nil {
			return err
		}
	}
	return nil
}

// RecordTableBuild forwards the sample to all sinks, returning the first
// error encountered.
func (m *MultiSink) RecordTableBuild(b coremetrics.TableBuild) error {
	for _, s := range m.Sinks {
		if err := s.RecordTableBuild(b); err != nil {
			return err
		}
	}
	return nil
}
