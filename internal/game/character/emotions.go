package character

// Emotion names. Effects in the action catalog are keyed by these strings.
const (
	EmotionHappiness  = "happiness"
	EmotionAnger      = "anger"
	EmotionSadness    = "sadness"
	EmotionAnxiety    = "anxiety"
	EmotionBoredom    = "boredom"
	EmotionExcitement = "excitement"

	// EmotionNeutral is the dominant-emotion label when nothing rises above
	// the 30-point threshold. It is never a stored emotion.
	EmotionNeutral = "neutral"
)

// EmotionNames is the canonical iteration order for emotion updates.
var EmotionNames = []string{
	EmotionHappiness, EmotionAnger, EmotionSadness, EmotionAnxiety, EmotionBoredom, EmotionExcitement,
}

var emotionEmojis = map[string]string{
	EmotionHappiness:  "😊",
	EmotionAnger:      "😠",
	EmotionSadness:    "😢",
	EmotionAnxiety:    "😰",
	EmotionBoredom:    "😑",
	EmotionExcitement: "🤩",
	EmotionNeutral:    "😐",
}

// EmotionalState tracks six affect scalars in [0, 100]. Emotions are nudged
// by need thresholds every tick and decay toward a neutral baseline
// (happiness toward 50, everything else multiplicatively toward 0).
//
// Invariant: every value stays within [0, 100] after any sequence of
// UpdateFromNeeds/Modify calls.
type EmotionalState struct {
	values map[string]float64
}

// NewEmotionalState returns the baseline state of a fresh hire.
func NewEmotionalState() *EmotionalState {
	return &EmotionalState{values: map[string]float64{
		EmotionHappiness:  50,
		EmotionAnger:      0,
		EmotionSadness:    0,
		EmotionAnxiety:    20,
		EmotionBoredom:    30,
		EmotionExcitement: 20,
	}}
}

// Get returns the current intensity of the named emotion, or 0 for unknown names.
func (e *EmotionalState) Get(name string) float64 {
	return e.values[name]
}

// Dominant returns the highest-intensity emotion strictly above 30, or
// (EmotionNeutral, 0) when nothing qualifies.
func (e *EmotionalState) Dominant() (string, float64) {
	name, intensity := EmotionNeutral, 0.0
	for _, candidate := range EmotionNames {
		if e.values[candidate] > intensity && e.values[candidate] > 30 {
			name, intensity = candidate, e.values[candidate]
		}
	}
	return name, intensity
}

// Emoji returns the expression emoji for the current dominant emotion.
func (e *EmotionalState) Emoji() string {
	name, _ := e.Dominant()
	return emotionEmojis[name]
}

// UpdateFromNeeds nudges emotions from need thresholds, clamps everything,
// then applies the natural decay toward neutral.
func (e *EmotionalState) UpdateFromNeeds(n *Needs) {
	// Low needs create negative emotions.
	if n.Get(NeedHunger) < 30 {
		e.values[EmotionAnger] += 0.5
		e.values[EmotionHappiness] -= 0.3
	}
	if n.Get(NeedEnergy) < 30 {
		e.values[EmotionSadness] += 0.3
		e.values[EmotionHappiness] -= 0.2
	}
	if n.Get(NeedSocial) < 30 {
		e.values[EmotionSadness] += 0.4
		e.values[EmotionBoredom] += 0.3
	}
	if n.Get(NeedFun) < 30 {
		e.values[EmotionBoredom] += 0.5
		e.values[EmotionHappiness] -= 0.3
	}

	// High needs create positive emotions.
	if n.Get(NeedHunger) > 80 {
		e.values[EmotionHappiness] += 0.2
	}
	if n.Get(NeedSocial) > 70 {
		e.values[EmotionHappiness] += 0.3
		e.values[EmotionExcitement] += 0.2
	}
	if n.Get(NeedFun) > 70 {
		e.values[EmotionHappiness] += 0.4
		e.values[EmotionBoredom] -= 0.5
	}

	for _, name := range EmotionNames {
		v := e.values[name]
		if v < 0 {
			v = 0
		} else if v > 100 {
			v = 100
		}
		e.values[name] = v
	}

	// Natural decay toward neutral.
	for _, name := range EmotionNames {
		if name == EmotionHappiness {
			e.values[name] += (50 - e.values[name]) * 0.01
		} else {
			e.values[name] *= 0.99
		}
	}
}

// Modify adjusts an emotion by amount, clamped to [0, 100]. Unknown emotion
// names are ignored.
func (e *EmotionalState) Modify(name string, amount float64) {
	v, ok := e.values[name]
	if !ok {
		return
	}
	v += amount
	if v < 0 {
		v = 0
	} else if v > 100 {
		v = 100
	}
	e.values[name] = v
}
