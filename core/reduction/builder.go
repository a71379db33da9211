// Package reduction computes the net kgCO2e avoided by substituting one
// mode of transport for another.
package reduction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Kanokkarn13/carbon-clean-app-sub000/core/emission"
	"github.com/Kanokkarn13/carbon-clean-app-sub000/core/model"
)

// Leg identifies one side of a substitution: an activity plus its vehicle
// class parameter, in the same free-text form the calculator accepts.
type Leg struct {
	Activity string `json:"activity"`
	Param    string `json:"param"`
}

// TableProvider hands out the current factor table snapshot. Implemented by
// factors.Service.
type TableProvider interface {
	Table(ctx context.Context) (emission.Table, error)
}

// Builder produces reduction records against the current factor table.
type Builder struct {
	tables TableProvider
	now    func() time.Time
}

// NewBuilder creates a Builder. The clock defaults to time.Now.
func NewBuilder(tables TableProvider) *Builder {
	return &Builder{tables: tables, now: time.Now}
}

// Build computes baseline minus substitute emissions over the shared
// distance. The result is signed: negative means the substitute emits more.
// A failed lookup on either leg propagates as an error; treating a missing
// factor as zero would invisibly misreport large savings.
func (b *Builder) Build(ctx context.Context, userID string, from, to Leg, distanceKm float64) (model.ReductionRecord, error) {
	table, err := b.tables.Table(ctx)
	if err != nil {
		return model.ReductionRecord{}, fmt.Errorf("factor table: %w", err)
	}
	calc := emission.NewCalculator(table)
	baseline, fromErr := calc.Calculate(from.Activity, from.Param, distanceKm)
	substitute, toErr := calc.Calculate(to.Activity, to.Param, distanceKm)
	if fromErr != nil || toErr != nil {
		if fromErr != nil {
			fromErr = fmt.Errorf("baseline %s/%s: %w", from.Activity, from.Param, fromErr)
		}
		if toErr != nil {
			toErr = fmt.Errorf("substitute %s/%s: %w", to.Activity, to.Param, toErr)
		}
		return model.ReductionRecord{}, errors.Join(fromErr, toErr)
	}
	return model.ReductionRecord{
		ID:           uuid.NewString(),
		UserID:       userID,
		ActivityFrom: from.Activity,
		ParamFrom:    from.Param,
		ActivityTo:   to.Activity,
		ParamTo:      to.Param,
		DistanceKm:   distanceKm,
		PointValue:   baseline - substitute,
		CreatedAt:    b.now(),
	}, nil
}
