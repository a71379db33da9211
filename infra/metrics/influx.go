package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	corelogger "github.com/Kanokkarn13/carbon-clean-app-sub000/core/logger"
	coremetrics "github.com/Kanokkarn13/carbon-clean-app-sub000/core/metrics"
	"github.com/Kanokkarn13/carbon-clean-app-sub000/infra/logger"
)

// InfluxSink writes scoring events to an InfluxDB instance using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      corelogger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB
// endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and returns
// a NopSink if the health check fails.
func NewInfluxSinkWithFallback(cfg coremetrics.Config) coremetrics.Sink {
	sink := NewInfluxSink(cfg.InfluxURL, cfg.InfluxToken, cfg.InfluxOrg, cfg.InfluxBucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordEmission writes the computed emission as a point.
func (s *InfluxSink) RecordEmission(e coremetrics.EmissionSample) error {
	p := write.NewPointWithMeasurement("emission_event").
		AddTag("activity", e.Activity).
		AddTag("class", e.Class).
		AddField("distance_km", round3(e.DistanceKm)).
		AddField("kgco2e", round3(e.KgCO2e)).
		SetTime(eventTime(e.Time))
	return s.write(p)
}

// RecordPoints writes the awarded score as a point.
func (s *InfluxSink) RecordPoints(ps coremetrics.PointSample) error {
	p := write.NewPointWithMeasurement("point_event").
		AddTag("activity", ps.Activity).
		AddTag("valid", strconv.FormatBool(ps.Valid)).
		AddField("points", ps.Points).
		SetTime(eventTime(ps.Time))
	return s.write(p)
}

// RecordTableBuild writes the build attempt as a point.
func (s *InfluxSink) RecordTableBuild(b coremetrics.TableBuild) error {
	p := write.NewPointWithMeasurement("factor_table_build").
		AddTag("success", strconv.FormatBool(b.Success)).
		AddField("rows", b.Rows).
		AddField("activities", b.Activities).
		AddField("duration_ms", b.Duration.Milliseconds()).
		SetTime(eventTime(b.Time))
	return s.write(p)
}

func (s *InfluxSink) write(p *write.Point) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the underlying client.
func (s *InfluxSink) Close() {
	s.client.Close()
}

func eventTime(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now()
	}
	return t
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
