// Package trustband translates between the platform's internal trust rating
// (A..D) and the external FRD bands (T0..T4).
package trustband

import "strings"

const (
	A = "A"
	B = "B"
	C = "C"
	D = "D"

	T0 = "T0"
	T1 = "T1"
	T2 = "T2"
	T3 = "T3"
	T4 = "T4"
)

const unknownDescription = "Unknown"

var internalToFRD = map[string]string{
	A: T4,
	B: T3,
	C: T2,
	D: T1,
}

// T0 has no internal counterpart and floors to D.
var frdToInternal = map[string]string{
	T4: A,
	T3: B,
	T2: C,
	T1: D,
	T0: D,
}

var descriptions = map[string]string{
	A:  "Excellent - highest trust, largest transaction limits",
	B:  "Good - established trust",
	C:  "Fair - limited history",
	D:  "Basic - minimal trust, lowest limits",
	T4: "Tier 4 - highest external trust",
	T3: "Tier 3 - high external trust",
	T2: "Tier 2 - moderate external trust",
	T1: "Tier 1 - low external trust",
	T0: "Tier 0 - unrated",
}

func normalize(band string) string {
	return strings.ToUpper(strings.TrimSpace(band))
}

// ToFRDBand maps an internal band to its external band. Unknown input yields T0.
func ToFRDBand(band string) string {
	if frd, ok := internalToFRD[normalize(band)]; ok {
		return frd
	}
	return T0
}

// ToInternalBand maps an external band to the internal scale. Unknown input yields D.
func ToInternalBand(band string) string {
	if internal, ok := frdToInternal[normalize(band)]; ok {
		return internal
	}
	return D
}

func GetTrustBandDescription(band string) string {
	if desc, ok := descriptions[normalize(band)]; ok {
		return desc
	}
	return unknownDescription
}

func IsValidTrustBand(band string) bool {
	_, ok := descriptions[normalize(band)]
	return ok
}

// IsInternalBand reports whether band belongs to the A..D scale.
func IsInternalBand(band string) bool {
	_, ok := internalToFRD[normalize(band)]
	return ok
}
