package character

import "github.com/finishlast/officesim/internal/game/rng"

// Need names. Effects in the action catalog are keyed by these strings.
const (
	NeedHunger  = "hunger"
	NeedEnergy  = "energy"
	NeedSocial  = "social"
	NeedComfort = "comfort"
	NeedFun     = "fun"
	NeedHygiene = "hygiene"
	NeedBladder = "bladder"
)

// NeedNames is the canonical iteration order for all need updates and
// serialization. Keeping a fixed order keeps tick output deterministic.
var NeedNames = []string{
	NeedHunger, NeedEnergy, NeedSocial, NeedComfort, NeedFun, NeedHygiene, NeedBladder,
}

// decayRates are per-game-minute decay amounts.
var decayRates = map[string]float64{
	NeedHunger:  0.08,
	NeedEnergy:  0.05,
	NeedSocial:  0.03,
	NeedComfort: 0.02,
	NeedFun:     0.06,
	NeedHygiene: 0.02,
	NeedBladder: 0.1,
}

// moodWeights weight each need's contribution to the overall mood score.
var moodWeights = map[string]float64{
	NeedHunger:  1.2,
	NeedEnergy:  1.1,
	NeedSocial:  0.8,
	NeedComfort: 0.7,
	NeedFun:     1.0,
	NeedHygiene: 0.6,
	NeedBladder: 0.9,
}

// Needs tracks the seven character drives, each in [0, 100]
// (0 = desperate, 100 = satisfied).
//
// Invariant: every value stays within [0, 100] after any sequence of
// Update/Modify calls.
type Needs struct {
	values map[string]float64
}

// NewNeeds creates a Needs set with randomized starting values in the same
// ranges the office hands new hires.
func NewNeeds(src rng.Source) *Needs {
	return &Needs{values: map[string]float64{
		NeedHunger:  80 + src.Float64()*20,
		NeedEnergy:  70 + src.Float64()*30,
		NeedSocial:  50 + src.Float64()*30,
		NeedComfort: 60 + src.Float64()*30,
		NeedFun:     40 + src.Float64()*40,
		NeedHygiene: 70 + src.Float64()*30,
		NeedBladder: 60 + src.Float64()*40,
	}}
}

// Get returns the current value of the named need, or 0 for unknown names.
func (n *Needs) Get(name string) float64 {
	return n.values[name]
}

// Update decays every need by its per-game-minute rate.
//
// Postcondition: no value drops below 0.
func (n *Needs) Update(deltaMinutes float64) {
	for _, name := range NeedNames {
		v := n.values[name] - decayRates[name]*deltaMinutes
		if v < 0 {
			v = 0
		}
		n.values[name] = v
	}
}

// Modify adjusts a need by amount, clamped to [0, 100]. Unknown need names
// are ignored.
func (n *Needs) Modify(name string, amount float64) {
	v, ok := n.values[name]
	if !ok {
		return
	}
	v += amount
	if v < 0 {
		v = 0
	} else if v > 100 {
		v = 100
	}
	n.values[name] = v
}

// Lowest returns the name and value of the most desperate need.
func (n *Needs) Lowest() (string, float64) {
	name, value := "", 100.0
	for _, candidate := range NeedNames {
		if n.values[candidate] < value {
			name, value = candidate, n.values[candidate]
		}
	}
	return name, value
}

// OverallMood collapses all needs into a weighted 0-100 score.
func (n *Needs) OverallMood() float64 {
	total, weightSum := 0.0, 0.0
	for _, name := range NeedNames {
		w := moodWeights[name]
		total += n.values[name] * w
		weightSum += w * 100
	}
	return (total / weightSum) * 100
}
