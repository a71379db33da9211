package emission

import "strings"

// Canonical activity keys shared by the builder and the calculator.
const (
	KeyCars        = "Cars"
	KeyDiesel      = "Diesel"
	KeyPetrol      = "Petrol"
	KeyHybrid      = "Hybrid"
	KeyCNG         = "CNG"
	KeyUnknown     = "Unknown"
	KeyMotorbike   = "Motorbike"
	KeyMotorcycles = "Motorcycles"
	KeyBus         = "Bus"
	KeyRail        = "Rail"
	KeyFlights     = "Flights"
	KeyFerry       = "Ferry"
	KeyElectricity = "Electricity"
	KeyTaxis       = "Taxis"
)

// FuelKeys are the car fuel variants the unknown-fuel derivation averages
// over. Order is fixed so derived means are reproducible.
var FuelKeys = []string{KeyDiesel, KeyPetrol, KeyHybrid, KeyCNG}

// activityRule maps a free-text activity to its canonical key. Rules are
// evaluated top to bottom; order is semantically significant ("cars" must
// win over the bare fuel substrings).
type activityRule struct {
	match func(s string) bool
	apply func(s string) string
}

func contains(sub string) func(string) bool {
	return func(s string) bool { return strings.Contains(s, sub) }
}

func prefix(p string) func(string) bool {
	return func(s string) bool { return strings.HasPrefix(s, p) }
}

func fixed(key string) func(string) string {
	return func(string) string { return key }
}

// carFuel resolves the fuel variant of a car category, defaulting to the
// generic Cars key.
func carFuel(s string) string {
	switch {
	case strings.Contains(s, "diesel"):
		return KeyDiesel
	case strings.Contains(s, "petrol"):
		return KeyPetrol
	case strings.Contains(s, "hybrid"):
		return KeyHybrid
	case strings.Contains(s, "cng"):
		return KeyCNG
	}
	return KeyCars
}

// catalogRules is the canonicalization cascade applied when building the
// table from raw catalog rows.
var catalogRules = []activityRule{
	{contains("cars"), carFuel},
	{prefix("motorcycle"), fixed(KeyMotorbike)},
	{prefix("bus"), fixed(KeyBus)},
	{prefix("rail"), fixed(KeyRail)},
	{prefix("flight"), fixed(KeyFlights)},
	{prefix("ferry"), fixed(KeyFerry)},
	{prefix("electric"), fixed(KeyElectricity)},
}

// lookupRules extends the catalog cascade with synonyms accepted only at
// lookup time. Callers pass either catalog category names or UI labels;
// both must resolve.
var lookupRules = append(append([]activityRule{}, catalogRules...),
	activityRule{contains("motorbike"), fixed(KeyMotorbike)},
	activityRule{prefix("taxi"), fixed(KeyTaxis)},
	activityRule{contains("diesel"), fixed(KeyDiesel)},
	activityRule{contains("petrol"), fixed(KeyPetrol)},
	activityRule{contains("hybrid"), fixed(KeyHybrid)},
	activityRule{contains("cng"), fixed(KeyCNG)},
	activityRule{contains("unknown"), fixed(KeyUnknown)},
)

func normalize(activity string, rules []activityRule) string {
	trimmed := strings.TrimSpace(activity)
	lower := strings.ToLower(trimmed)
	for _, r := range rules {
		if r.match(lower) {
			return r.apply(lower)
		}
	}
	return trimmed
}

// CanonicalActivity normalizes a raw catalog category into its canonical
// table key. Unrecognized categories pass through trimmed but otherwise
// unchanged.
func CanonicalActivity(activity string) string {
	return normalize(activity, catalogRules)
}

// LookupActivity normalizes a caller-supplied activity for factor lookup,
// accepting the catalog categories plus UI synonyms (standalone fuel names,
// "motorbike", "taxi").
func LookupActivity(activity string) string {
	return normalize(activity, lookupRules)
}

// carLike reports whether a normalized activity selects the car class
// vocabulary (small/medium/large/average sizes).
func carLike(activity string) bool {
	a := strings.ToLower(strings.TrimSpace(activity))
	if strings.Contains(a, "car") {
		return true
	}
	switch a {
	case "diesel", "petrol", "hybrid", "cng", "unknown":
		return true
	}
	return false
}

// NormalizeClass maps a caller-supplied vehicle class onto the catalog's
// label vocabulary. Car-size shorthands only apply when the activity is
// car-like; the bus and electricity synonyms apply regardless.
func NormalizeClass(activity, class string) string {
	trimmed := strings.TrimSpace(class)
	lower := strings.ToLower(trimmed)
	if carLike(activity) {
		switch lower {
		case "small":
			return "Small car"
		case "medium":
			return "Medium car"
		case "large":
			return "Large car"
		case "average":
			return "Average car"
		}
	}
	switch lower {
	case "average local bus":
		return "Local bus"
	case "coach bus":
		return "Coach"
	case "kwh", "kw-h", "kw/h":
		return "Kwh"
	}
	return trimmed
}
