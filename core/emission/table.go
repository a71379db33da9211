package emission

import (
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/Kanokkarn13/carbon-clean-app-sub000/core/model"
)

// DefaultTaxiFactor is the fixed kgCO2e/km used for "Regular taxi" when the
// catalog carries no taxi data.
const DefaultTaxiFactor = 0.148615

// DefaultLabel is the leaf label used when a row has neither type nor class.
const DefaultLabel = "default"

const wellToTank = "well-to-tank"

// Table maps canonical activity key to human label to kgCO2e per km. A
// built table is treated as an immutable snapshot; rebuilds replace it
// wholesale.
type Table map[string]map[string]float64

// Factor returns the factor stored under the exact activity key and label.
func (t Table) Factor(activity, label string) (float64, bool) {
	labels, ok := t[activity]
	if !ok {
		return 0, false
	}
	f, ok := labels[label]
	return f, ok
}

// Labels returns the sorted labels available under an activity key.
func (t Table) Labels(activity string) []string {
	labels := t[activity]
	out := make([]string, 0, len(labels))
	for l := range labels {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

func (t Table) set(activity, label string, factor float64) {
	labels, ok := t[activity]
	if !ok {
		labels = make(map[string]float64)
		t[activity] = labels
	}
	labels[label] = factor
}

// BuildTable turns raw catalog rows into the normalized lookup table.
// The build is deterministic and order independent: rows are normalized and
// inserted (last write wins on duplicates), then the derived entries are
// synthesized — unknown-fuel car averages, the Motorbike/Motorcycles alias,
// the "Average local bus" alias and the taxi fallback. Malformed rows never
// fail the build; a missing activity simply normalizes to "".
func BuildTable(rows []model.EmissionFactorRow) Table {
	t := make(Table)
	for _, row := range rows {
		if row.EfPoint == nil {
			continue
		}
		if containsWellToTank(row.Activity, row.Type, row.Class) {
			continue
		}
		t.set(CanonicalActivity(row.Activity), leafLabel(row.Type, row.Class), *row.EfPoint)
	}
	deriveUnknownFuel(t)
	applyAliases(t)
	return t
}

func containsWellToTank(labels ...string) bool {
	for _, l := range labels {
		if strings.Contains(strings.ToLower(l), wellToTank) {
			return true
		}
	}
	return false
}

// leafLabel joins the type and class sub-labels with " - ", falling back to
// whichever is present, or "default" when neither is.
func leafLabel(typ, class string) string {
	typ = strings.TrimSpace(typ)
	class = strings.TrimSpace(class)
	switch {
	case typ != "" && class != "":
		return typ + " - " + class
	case typ != "":
		return typ
	case class != "":
		return class
	}
	return DefaultLabel
}

// deriveUnknownFuel fills table[Unknown] with, per vehicle class, the mean
// factor across the fuel variants that carry that class. A user who does
// not know their fuel type still gets a representative estimate.
func deriveUnknownFuel(t Table) {
	classes := make(map[string]struct{})
	for _, fuel := range FuelKeys {
		for class := range t[fuel] {
			classes[class] = struct{}{}
		}
	}
	for class := range classes {
		var vals []float64
		for _, fuel := range FuelKeys {
			if f, ok := t.Factor(fuel, class); ok {
				vals = append(vals, f)
			}
		}
		if len(vals) > 0 {
			t.set(KeyUnknown, class, stat.Mean(vals, nil))
		}
	}
}

// applyAliases reconciles catalog naming with the labels the UI issues.
func applyAliases(t Table) {
	if src, ok := t[KeyMotorbike]; ok {
		if _, exists := t[KeyMotorcycles]; !exists {
			dup := make(map[string]float64, len(src))
			for label, f := range src {
				dup[label] = f
			}
			t[KeyMotorcycles] = dup
		}
	}
	if f, ok := t.Factor(KeyBus, "Local bus"); ok {
		t.set(KeyBus, "Average local bus", f)
	}
	if _, ok := t.Factor(KeyTaxis, "Regular taxi"); !ok {
		t.set(KeyTaxis, "Regular taxi", DefaultTaxiFactor)
	}
}
