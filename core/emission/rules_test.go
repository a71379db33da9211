package emission

import "testing"

func TestCanonicalActivity(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Cars - Diesel", KeyDiesel},
		{"cars petrol", KeyPetrol},
		{"Cars - Plug-in Hybrid", KeyHybrid},
		{"Cars - CNG", KeyCNG},
		{"Cars (by size)", KeyCars},
		{"Motorcycles", KeyMotorbike},
		{"motorcycle - large", KeyMotorbike},
		{"Buses", KeyBus},
		{"bus", KeyBus},
		{"Rail", KeyRail},
		{"Flights", KeyFlights},
		{"Ferry", KeyFerry},
		{"Electricity generated", KeyElectricity},
		{"  Taxis  ", "Taxis"},
		{"Something else", "Something else"},
		{"", ""},
	}
	for _, c := range cases {
		if got := CanonicalActivity(c.in); got != c.want {
			t.Errorf("CanonicalActivity(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestLookupActivitySynonyms(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Motorbike", KeyMotorbike},
		{"taxi", KeyTaxis},
		{"Taxis", KeyTaxis},
		{"Diesel", KeyDiesel},
		{"petrol", KeyPetrol},
		{"Hybrid", KeyHybrid},
		{"CNG", KeyCNG},
		{"Unknown", KeyUnknown},
		// catalog rules still win over standalone fuels
		{"Cars - Diesel", KeyDiesel},
		{"Buses", KeyBus},
		{"Walking", "Walking"},
	}
	for _, c := range cases {
		if got := LookupActivity(c.in); got != c.want {
			t.Errorf("LookupActivity(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeClass(t *testing.T) {
	cases := []struct {
		activity string
		class    string
		want     string
	}{
		{KeyDiesel, "small", "Small car"},
		{KeyCars, "Medium", "Medium car"},
		{KeyUnknown, "LARGE", "Large car"},
		{KeyHybrid, "average", "Average car"},
		// car shorthands only apply to car-like activities
		{KeyBus, "small", "small"},
		{KeyBus, "average local bus", "Local bus"},
		{KeyBus, "coach bus", "Coach"},
		{KeyElectricity, "kwh", "Kwh"},
		{KeyElectricity, "kw-h", "Kwh"},
		{KeyElectricity, "kw/h", "Kwh"},
		{KeyRail, "National rail", "National rail"},
		{KeyDiesel, " small ", "Small car"},
	}
	for _, c := range cases {
		if got := NormalizeClass(c.activity, c.class); got != c.want {
			t.Errorf("NormalizeClass(%q, %q) = %q, want %q", c.activity, c.class, got, c.want)
		}
	}
}
