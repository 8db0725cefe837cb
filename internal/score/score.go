// Package score maps credibility sub-metrics onto display tiers.
//
// Scores arrive from the verification service as fractions in [0,1]. Everything
// shown to a user goes through Percent first, so a score outside that range (a
// backend contract violation) is clamped instead of breaking a gauge.
package score

import "math"

// Tier is the discrete visual class of a score.
type Tier int

const (
	Low Tier = iota
	Medium
	High
)

// Band is an inclusive percentage range.
type Band struct {
	Min int
	Max int
}

// Contains reports whether p falls inside the band.
func (b Band) Contains(p int) bool {
	return p >= b.Min && p <= b.Max
}

var tiers = [...]Tier{Low, Medium, High}

// bands are adjacent and cover 0..100 without overlap.
var bands = [...]Band{
	Low:    {Min: 0, Max: 50},
	Medium: {Min: 51, Max: 70},
	High:   {Min: 71, Max: 100},
}

// Tiers returns every tier from lowest to highest.
func Tiers() []Tier {
	return append([]Tier(nil), tiers[:]...)
}

// BandOf returns the fixed percentage band of t. Unknown tiers get the zero Band.
func BandOf(t Tier) Band {
	if t < 0 || int(t) >= len(bands) {
		return Band{}
	}
	return bands[t]
}

var tierNames = map[Tier]string{
	Low:    "LOW",
	Medium: "MEDIUM",
	High:   "HIGH",
}

var tierColors = map[Tier]string{
	Low:    "red",
	Medium: "yellow",
	High:   "green",
}

func (t Tier) String() string {
	if name, ok := tierNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// Color returns the color family used for the tier.
func (t Tier) Color() string {
	return tierColors[t]
}

// Percent converts a fraction into a rounded (half-up) percentage in [0,100].
// NaN counts as 0.
func Percent(s float64) int {
	if math.IsNaN(s) {
		return 0
	}
	p := math.Floor(s*100 + 0.5)
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return int(p)
}

// Width is the bar fill percentage for s. It does not depend on the tier.
func Width(s float64) int {
	return Percent(s)
}

// TierOf classifies an integer percentage. Values outside 0..100 are clamped.
func TierOf(p int) Tier {
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	switch {
	case p >= bands[High].Min:
		return High
	case p >= bands[Medium].Min:
		return Medium
	default:
		return Low
	}
}

// Classify returns the tier for a fractional score.
func Classify(s float64) Tier {
	return TierOf(Percent(s))
}
