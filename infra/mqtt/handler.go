package mqtt

import (
	"context"
	"encoding/json"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/Kanokkarn13/carbon-clean-app-sub000/core/emission"
	"github.com/Kanokkarn13/carbon-clean-app-sub000/core/events"
	corelogger "github.com/Kanokkarn13/carbon-clean-app-sub000/core/logger"
	"github.com/Kanokkarn13/carbon-clean-app-sub000/core/model"
	"github.com/Kanokkarn13/carbon-clean-app-sub000/core/points"
	"github.com/Kanokkarn13/carbon-clean-app-sub000/core/reduction"
	"github.com/Kanokkarn13/carbon-clean-app-sub000/internal/eventbus"
)

// Publisher is the outbound surface the handlers need; *Client implements
// it.
type Publisher interface {
	Publish(topic string, payload []byte) error
}

// ScoreResult is published after each evaluated telemetry sample.
type ScoreResult struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id,omitempty"`
	Activity string `json:"activity"`
	Points   int    `json:"points"`
}

// TelemetryHandler scores incoming activity telemetry and records the
// award.
func TelemetryHandler(store points.Store, pub Publisher, resultTopic string, bus eventbus.EventBus, log corelogger.Logger) paho.MessageHandler {
	return func(_ paho.Client, msg paho.Message) {
		var act model.Activity
		if err := json.Unmarshal(msg.Payload(), &act); err != nil {
			log.Errorf("invalid telemetry payload: %v", err)
			return
		}
		score := points.Evaluate(act)
		activity := act.Type
		if activity == "" {
			activity = act.Activity
		}
		award := points.Award{
			ID:         uuid.NewString(),
			UserID:     act.UserID,
			Activity:   activity,
			Points:     score,
			DistanceKm: act.DistanceKm,
			RecordedAt: time.Now(),
		}
		store.Add(award)
		if bus != nil {
			bus.Publish(events.ScoreEvent{
				UserID:   act.UserID,
				Activity: activity,
				Points:   score,
				Valid:    score > 0,
				Time:     award.RecordedAt,
			})
		}
		publishJSON(pub, resultTopic, ScoreResult{
			ID:       award.ID,
			UserID:   award.UserID,
			Activity: award.Activity,
			Points:   award.Points,
		}, log)
	}
}

// EmissionRequest is the inbound shape for a directly logged trip.
type EmissionRequest struct {
	UserID     string  `json:"user_id,omitempty"`
	Activity   string  `json:"activity"`
	Param      string  `json:"param"`
	DistanceKm float64 `json:"distance_km"`
}

// EmissionResult is published after each computed trip emission.
type EmissionResult struct {
	UserID     string  `json:"user_id,omitempty"`
	Activity   string  `json:"activity"`
	Param      string  `json:"param"`
	DistanceKm float64 `json:"distance_km"`
	KgCO2e     float64 `json:"kgco2e"`
	Error      string  `json:"error,omitempty"`
}

// EmissionHandler converts logged trips to kgCO2e figures against the
// current factor table. Lookup failures go back to the requester so the UI
// can distinguish "fix your number" from "no data for this combination".
func EmissionHandler(tables reduction.TableProvider, pub Publisher, resultTopic string, bus eventbus.EventBus, log corelogger.Logger) paho.MessageHandler {
	return func(_ paho.Client, msg paho.Message) {
		var req EmissionRequest
		if err := json.Unmarshal(msg.Payload(), &req); err != nil {
			log.Errorf("invalid emission payload: %v", err)
			return
		}
		res := EmissionResult{
			UserID:     req.UserID,
			Activity:   req.Activity,
			Param:      req.Param,
			DistanceKm: req.DistanceKm,
		}
		table, err := tables.Table(context.Background())
		if err != nil {
			log.Errorf("factor table: %v", err)
			res.Error = err.Error()
			publishJSON(pub, resultTopic, res, log)
			return
		}
		kg, err := emission.NewCalculator(table).Calculate(req.Activity, req.Param, req.DistanceKm)
		if err != nil {
			log.Warnf("emission rejected: %v", err)
			res.Error = err.Error()
			publishJSON(pub, resultTopic, res, log)
			return
		}
		res.KgCO2e = kg
		if bus != nil {
			bus.Publish(events.EmissionEvent{
				UserID:     req.UserID,
				Activity:   req.Activity,
				Class:      req.Param,
				DistanceKm: req.DistanceKm,
				KgCO2e:     kg,
				Time:       time.Now(),
			})
		}
		publishJSON(pub, resultTopic, res, log)
	}
}

// ReductionRequest is the inbound shape for substitution computations.
type ReductionRequest struct {
	UserID       string  `json:"user_id,omitempty"`
	ActivityFrom string  `json:"activity_from"`
	ParamFrom    string  `json:"param_from"`
	ActivityTo   string  `json:"activity_to"`
	ParamTo      string  `json:"param_to"`
	DistanceKm   float64 `json:"distance_km"`
}

// ReductionResult is published after each computed substitution.
type ReductionResult struct {
	ID         string  `json:"id,omitempty"`
	UserID     string  `json:"user_id,omitempty"`
	PointValue float64 `json:"point_value"`
	Error      string  `json:"error,omitempty"`
}

// ReductionHandler computes the net kgCO2e for substitution requests. A
// failed factor lookup is reported back to the requester, never silently
// recorded as zero savings.
func ReductionHandler(builder *reduction.Builder, store reduction.Store, pub Publisher, resultTopic string, bus eventbus.EventBus, log corelogger.Logger) paho.MessageHandler {
	return func(_ paho.Client, msg paho.Message) {
		var req ReductionRequest
		if err := json.Unmarshal(msg.Payload(), &req); err != nil {
			log.Errorf("invalid reduction payload: %v", err)
			return
		}
		rec, err := builder.Build(context.Background(), req.UserID,
			reduction.Leg{Activity: req.ActivityFrom, Param: req.ParamFrom},
			reduction.Leg{Activity: req.ActivityTo, Param: req.ParamTo},
			req.DistanceKm)
		if err != nil {
			log.Warnf("reduction rejected: %v", err)
			publishJSON(pub, resultTopic, ReductionResult{UserID: req.UserID, Error: err.Error()}, log)
			return
		}
		store.Add(rec)
		if bus != nil {
			bus.Publish(events.ReductionEvent{
				UserID:     rec.UserID,
				RecordID:   rec.ID,
				KgCO2e:     rec.PointValue,
				DistanceKm: rec.DistanceKm,
				Time:       rec.CreatedAt,
			})
		}
		publishJSON(pub, resultTopic, ReductionResult{
			ID:         rec.ID,
			UserID:     rec.UserID,
			PointValue: rec.PointValue,
		}, log)
	}
}

func publishJSON(pub Publisher, topic string, v any, log corelogger.Logger) {
	if pub == nil || topic == "" {
		return
	}
	payload, err := json.Marshal(v)
	if err != nil {
		log.Errorf("encode result: %v", err)
		return
	}
	if err := pub.Publish(topic, payload); err != nil {
		log.Errorf("publish %s: %v", topic, err)
	}
}
