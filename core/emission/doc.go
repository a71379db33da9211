// Package emission builds the emission factor lookup table and computes
// kgCO2e figures for trips.
//
// The table maps a canonical activity key (e.g. "Cars", "Motorbike", "Bus")
// to human labels and their factors in kgCO2e per kilometre. Canonical keys
// come from an ordered normalization cascade so that free-text catalog
// categories and UI labels resolve to the same entries.
package emission
