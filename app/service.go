// Package app wires configuration, transport, metrics and the scoring core
// into a runnable service.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/Kanokkarn13/carbon-clean-app-sub000/config"
	"github.com/Kanokkarn13/carbon-clean-app-sub000/core/events"
	"github.com/Kanokkarn13/carbon-clean-app-sub000/core/factors"
	coremetrics "github.com/Kanokkarn13/carbon-clean-app-sub000/core/metrics"
	"github.com/Kanokkarn13/carbon-clean-app-sub000/core/points"
	"github.com/Kanokkarn13/carbon-clean-app-sub000/core/reduction"
	factorsource "github.com/Kanokkarn13/carbon-clean-app-sub000/infra/factors"
	"github.com/Kanokkarn13/carbon-clean-app-sub000/infra/logger"
	"github.com/Kanokkarn13/carbon-clean-app-sub000/infra/metrics"
	"github.com/Kanokkarn13/carbon-clean-app-sub000/infra/mqtt"
	"github.com/Kanokkarn13/carbon-clean-app-sub000/internal/eventbus"
)

// Service orchestrates the scoring engine and its connectors.
type Service struct {
	Factors    *factors.Service
	Points     *points.MemoryStore
	Reductions *reduction.MemoryStore

	cfg    *config.Config
	client *mqtt.Client
	sink   coremetrics.Sink
	bus    eventbus.EventBus
	log    logger.Logger
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	var sinks []coremetrics.Sink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(nil)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(cfg.Metrics))
	}
	var sink coremetrics.Sink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	source := factorsource.NewHTTPSource(cfg.Factors)
	factorSvc := factors.NewService(source, sink, logger.New("factors"))

	client, err := mqtt.NewClient(cfg.MQTT)
	if err != nil {
		return nil, fmt.Errorf("mqtt client: %w", err)
	}

	svc := &Service{
		Factors:    factorSvc,
		Points:     points.NewMemoryStore(),
		Reductions: reduction.NewMemoryStore(),
		cfg:        cfg,
		client:     client,
		sink:       sink,
		bus:        eventbus.New(),
		log:        logg,
	}
	return svc, nil
}

// Run starts the service and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	// Warm the factor table before accepting traffic; a failed first build
	// is fatal so the caller can retry with a working catalog.
	if _, err := s.Factors.Table(ctx); err != nil {
		return err
	}

	builder := reduction.NewBuilder(s.Factors)
	cfg := s.cfg.MQTT
	if err := s.client.Subscribe(cfg.TelemetryTopic,
		mqtt.TelemetryHandler(s.Points, s.client, cfg.ScoreResultTopic, s.bus, logger.New("telemetry"))); err != nil {
		return fmt.Errorf("subscribe telemetry: %w", err)
	}
	if err := s.client.Subscribe(cfg.EmissionTopic,
		mqtt.EmissionHandler(s.Factors, s.client, cfg.EmissionResultTopic, s.bus, logger.New("emission"))); err != nil {
		return fmt.Errorf("subscribe emission: %w", err)
	}
	if err := s.client.Subscribe(cfg.ReductionTopic,
		mqtt.ReductionHandler(builder, s.Reductions, s.client, cfg.ReductionResultTopic, s.bus, logger.New("reduction"))); err != nil {
		return fmt.Errorf("subscribe reduction: %w", err)
	}

	go s.forwardEvents(ctx)
	go s.refreshLoop(ctx)
	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	<-ctx.Done()
	return nil
}

// forwardEvents drains the bus into the metrics sink.
func (s *Service) forwardEvents(ctx context.Context) {
	sub := s.bus.Subscribe()
	defer s.bus.Unsubscribe(sub)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub:
			if !ok {
				return
			}
			s.recordEvent(ev)
		}
	}
}

func (s *Service) recordEvent(ev eventbus.Event) {
	var err error
	switch e := ev.(type) {
	case events.ScoreEvent:
		err = s.sink.RecordPoints(coremetrics.PointSample{
			Activity: e.Activity, Points: e.Points, Valid: e.Valid, Time: e.Time,
		})
	case events.EmissionEvent:
		err = s.sink.RecordEmission(coremetrics.EmissionSample{
			Activity: e.Activity, Class: e.Class, DistanceKm: e.DistanceKm, KgCO2e: e.KgCO2e, Time: e.Time,
		})
	case events.ReductionEvent:
		err = s.sink.RecordEmission(coremetrics.EmissionSample{
			Activity: "reduction", DistanceKm: e.DistanceKm, KgCO2e: e.KgCO2e, Time: e.Time,
		})
	case events.TableRebuilt:
		s.log.Infof("factor table replaced: %d activities", e.Activities)
	}
	if err != nil {
		s.log.Warnf("record event: %v", err)
	}
}

// refreshLoop rebuilds the factor table on the configured interval. A
// failed refresh keeps the last-good table; the error is only logged.
func (s *Service) refreshLoop(ctx context.Context) {
	interval := time.Duration(s.cfg.Factors.RefreshIntervalMinutes) * time.Minute
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			table, err := s.Factors.Refresh(ctx, true)
			if err != nil {
				s.log.Warnf("factor refresh failed, keeping previous table: %v", err)
				continue
			}
			s.bus.Publish(events.TableRebuilt{Activities: len(table), Time: s.Factors.BuiltAt()})
		}
	}
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	s.client.Close()
	return nil
}
