package character

import "github.com/finishlast/officesim/internal/game/rng"

// Personality holds Big Five trait scalars in [0.0, 1.0].
//
// Invariant: values are set once at creation and never mutated afterwards.
type Personality struct {
	Openness          float64
	Conscientiousness float64
	Extraversion      float64
	Agreeableness     float64
	Neuroticism       float64
}

// PersonalityConfig supplies optional fixed trait values; nil pointers are
// filled with uniform random values.
type PersonalityConfig struct {
	Openness          *float64 `yaml:"openness"`
	Conscientiousness *float64 `yaml:"conscientiousness"`
	Extraversion      *float64 `yaml:"extraversion"`
	Agreeableness     *float64 `yaml:"agreeableness"`
	Neuroticism       *float64 `yaml:"neuroticism"`
}

// NewPersonality builds a Personality from cfg, randomizing any unset trait.
func NewPersonality(cfg PersonalityConfig, src rng.Source) Personality {
	pick := func(p *float64) float64 {
		if p != nil {
			return *p
		}
		return src.Float64()
	}
	return Personality{
		Openness:          pick(cfg.Openness),
		Conscientiousness: pick(cfg.Conscientiousness),
		Extraversion:      pick(cfg.Extraversion),
		Agreeableness:     pick(cfg.Agreeableness),
		Neuroticism:       pick(cfg.Neuroticism),
	}
}

// TraitDescriptions derives human-readable labels from trait thresholds.
// Traits in the middle band contribute no label.
func (p Personality) TraitDescriptions() []string {
	var traits []string
	high := func(v float64) bool { return v > 0.7 }
	low := func(v float64) bool { return v < 0.3 }

	if high(p.Openness) {
		traits = append(traits, "Creative")
	} else if low(p.Openness) {
		traits = append(traits, "Practical")
	}
	if high(p.Conscientiousness) {
		traits = append(traits, "Organized")
	} else if low(p.Conscientiousness) {
		traits = append(traits, "Carefree")
	}
	if high(p.Extraversion) {
		traits = append(traits, "Outgoing")
	} else if low(p.Extraversion) {
		traits = append(traits, "Introverted")
	}
	if high(p.Agreeableness) {
		traits = append(traits, "Friendly")
	} else if low(p.Agreeableness) {
		traits = append(traits, "Competitive")
	}
	if high(p.Neuroticism) {
		traits = append(traits, "Sensitive")
	} else if low(p.Neuroticism) {
		traits = append(traits, "Confident")
	}
	return traits
}
