package mqtt

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/Kanokkarn13/carbon-clean-app-sub000/core/emission"
	"github.com/Kanokkarn13/carbon-clean-app-sub000/core/events"
	"github.com/Kanokkarn13/carbon-clean-app-sub000/core/points"
	"github.com/Kanokkarn13/carbon-clean-app-sub000/core/reduction"
	"github.com/Kanokkarn13/carbon-clean-app-sub000/infra/logger"
	"github.com/Kanokkarn13/carbon-clean-app-sub000/internal/eventbus"
)

type mockMessage struct {
	payload []byte
}

func (m mockMessage) Duplicate() bool            { return false }
func (m mockMessage) Qos() byte                  { return 1 }
func (m mockMessage) Retained() bool             { return false }
func (m mockMessage) Topic() string              { return "carbon/test" }
func (m mockMessage) MessageID() uint16          { return 0 }
func (m mockMessage) Payload() []byte            { return m.payload }
func (m mockMessage) Ack()                       {}
func (m mockMessage) Read(b []byte) (int, error) { copy(b, m.payload); return len(m.payload), nil }

type capturePublisher struct {
	topics   []string
	payloads [][]byte
}

func (p *capturePublisher) Publish(topic string, payload []byte) error {
	p.topics = append(p.topics, topic)
	p.payloads = append(p.payloads, payload)
	return nil
}

func jsonMsg(t *testing.T, v any) mockMessage {
	t.Helper()
	payload, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return mockMessage{payload: payload}
}

type staticTables struct{ table emission.Table }

func (s staticTables) Table(context.Context) (emission.Table, error) { return s.table, nil }

func TestTelemetryHandlerScoresAndPublishes(t *testing.T) {
	store := points.NewMemoryStore()
	pub := &capturePublisher{}
	bus := eventbus.New()
	sub := bus.Subscribe()
	handler := TelemetryHandler(store, pub, "carbon/activity/score", bus, logger.NopLogger{})

	handler(nil, jsonMsg(t, map[string]any{
		"type": "Cycling", "distance_km": 5.0, "duration_sec": 1200.0, "user_id": "u1",
	}))

	awards := store.List(points.Filter{UserID: "u1"})
	if len(awards) != 1 || awards[0].Points != 20 {
		t.Fatalf("unexpected awards: %+v", awards)
	}
	if len(pub.topics) != 1 || pub.topics[0] != "carbon/activity/score" {
		t.Fatalf("result not published: %v", pub.topics)
	}
	var res ScoreResult
	if err := json.Unmarshal(pub.payloads[0], &res); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if res.Points != 20 || res.UserID != "u1" {
		t.Fatalf("unexpected result: %+v", res)
	}
	ev := (<-sub).(events.ScoreEvent)
	if ev.Points != 20 || !ev.Valid {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestTelemetryHandlerGatesImplausibleSamples(t *testing.T) {
	store := points.NewMemoryStore()
	pub := &capturePublisher{}
	handler := TelemetryHandler(store, pub, "carbon/activity/score", nil, logger.NopLogger{})

	handler(nil, jsonMsg(t, map[string]any{
		"type": "Walking", "distance_km": 50.0, "duration_sec": 600.0,
		"step_total": 100.0, "points": 50, "user_id": "u1",
	}))

	awards := store.List(points.Filter{UserID: "u1"})
	if len(awards) != 1 || awards[0].Points != 0 {
		t.Fatalf("implausible sample must persist a zero award: %+v", awards)
	}
}

func TestTelemetryHandlerRejectsBadPayload(t *testing.T) {
	store := points.NewMemoryStore()
	handler := TelemetryHandler(store, nil, "", nil, logger.NopLogger{})
	handler(nil, mockMessage{payload: []byte("not json")})
	if got := store.List(points.Filter{}); len(got) != 0 {
		t.Fatalf("bad payload must not create awards: %+v", got)
	}
}

func TestEmissionHandler(t *testing.T) {
	tables := staticTables{table: emission.Table{"Bus": {"Local bus": 0.1}}}
	pub := &capturePublisher{}
	handler := EmissionHandler(tables, pub, "carbon/emission/result", nil, logger.NopLogger{})

	handler(nil, jsonMsg(t, EmissionRequest{Activity: "Buses", Param: "Local bus", DistanceKm: 10, UserID: "u1"}))

	if len(pub.payloads) != 1 {
		t.Fatalf("expected one result, got %d", len(pub.payloads))
	}
	var res EmissionResult
	if err := json.Unmarshal(pub.payloads[0], &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Error != "" || res.KgCO2e != 1.0 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestEmissionHandlerReportsLookupFailure(t *testing.T) {
	tables := staticTables{table: emission.Table{}}
	pub := &capturePublisher{}
	handler := EmissionHandler(tables, pub, "carbon/emission/result", nil, logger.NopLogger{})

	handler(nil, jsonMsg(t, EmissionRequest{Activity: "Spaceship", Param: "Large", DistanceKm: 10}))

	var res EmissionResult
	if err := json.Unmarshal(pub.payloads[0], &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Error == "" || res.KgCO2e != 0 {
		t.Fatalf("lookup failure must be reported, not zeroed: %+v", res)
	}
}

func TestReductionHandler(t *testing.T) {
	tables := staticTables{table: emission.Table{
		"Cars": {"Average car": 0.2},
		"Bus":  {"Local bus": 0.05},
	}}
	builder := reduction.NewBuilder(tables)
	store := reduction.NewMemoryStore()
	pub := &capturePublisher{}
	handler := ReductionHandler(builder, store, pub, "carbon/reduction/result", nil, logger.NopLogger{})

	handler(nil, jsonMsg(t, ReductionRequest{
		UserID:       "u1",
		ActivityFrom: "Cars", ParamFrom: "Average car",
		ActivityTo: "Bus", ParamTo: "Local bus",
		DistanceKm: 10,
	}))

	recs := store.List("u1")
	if len(recs) != 1 || recs[0].PointValue != 1.5 {
		t.Fatalf("unexpected records: %+v", recs)
	}
	var res ReductionResult
	if err := json.Unmarshal(pub.payloads[0], &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.PointValue != 1.5 || res.ID != recs[0].ID {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestReductionHandlerPropagatesFailure(t *testing.T) {
	builder := reduction.NewBuilder(staticTables{table: emission.Table{}})
	store := reduction.NewMemoryStore()
	pub := &capturePublisher{}
	handler := ReductionHandler(builder, store, pub, "carbon/reduction/result", nil, logger.NopLogger{})

	handler(nil, jsonMsg(t, ReductionRequest{
		ActivityFrom: "Cars", ParamFrom: "Average car",
		ActivityTo: "Bus", ParamTo: "Local bus",
		DistanceKm: 10,
	}))

	if recs := store.List(""); len(recs) != 0 {
		t.Fatalf("failed lookups must not be stored: %+v", recs)
	}
	var res ReductionResult
	if err := json.Unmarshal(pub.payloads[0], &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Error == "" {
		t.Fatalf("failure must reach the requester: %+v", res)
	}
}
