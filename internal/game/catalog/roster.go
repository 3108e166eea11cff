package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// NPCPersonality holds the fixed Big Five values for a rostered NPC.
// All five are required in the roster file.
type NPCPersonality struct {
	Openness          float64 `yaml:"openness"`
	Conscientiousness float64 `yaml:"conscientiousness"`
	Extraversion      float64 `yaml:"extraversion"`
	Agreeableness     float64 `yaml:"agreeableness"`
	Neuroticism       float64 `yaml:"neuroticism"`
}

// NPCConfig describes one default office inhabitant.
type NPCConfig struct {
	ID   string  `yaml:"id"`
	Name string  `yaml:"name"`
	Role string  `yaml:"role"`
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`

	SkinTone   string `yaml:"skin_tone"`
	HairColor  string `yaml:"hair_color"`
	HairStyle  string `yaml:"hair_style"`
	ShirtColor string `yaml:"shirt_color"`
	PantsColor string `yaml:"pants_color"`
	EyeColor   string `yaml:"eye_color"`

	Personality NPCPersonality `yaml:"personality"`
}

// Validate checks one roster entry's invariants.
func (n *NPCConfig) Validate() error {
	if n.ID == "" {
		return fmt.Errorf("npc roster: id must not be empty")
	}
	if n.Name == "" {
		return fmt.Errorf("npc %q: name must not be empty", n.ID)
	}
	check := func(trait string, v float64) error {
		if v < 0 || v > 1 {
			return fmt.Errorf("npc %q: personality.%s must be in [0,1], got %v", n.ID, trait, v)
		}
		return nil
	}
	p := n.Personality
	for trait, v := range map[string]float64{
		"openness":          p.Openness,
		"conscientiousness": p.Conscientiousness,
		"extraversion":      p.Extraversion,
		"agreeableness":     p.Agreeableness,
		"neuroticism":       p.Neuroticism,
	} {
		if err := check(trait, v); err != nil {
			return err
		}
	}
	return nil
}

type rosterFile struct {
	NPCs []*NPCConfig `yaml:"npcs"`
}

// LoadRosterFromBytes parses and validates the NPC roster from YAML bytes.
//
// Postcondition: Returns roster entries with unique IDs, or a non-nil error.
func LoadRosterFromBytes(data []byte) ([]*NPCConfig, error) {
	var file rosterFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing npc roster YAML: %w", err)
	}
	seen := make(map[string]bool, len(file.NPCs))
	for _, n := range file.NPCs {
		if err := n.Validate(); err != nil {
			return nil, err
		}
		if seen[n.ID] {
			return nil, fmt.Errorf("npc roster: duplicate id %q", n.ID)
		}
		seen[n.ID] = true
	}
	return file.NPCs, nil
}

// LoadRosterFromFile reads and validates the NPC roster file at path.
func LoadRosterFromFile(path string) ([]*NPCConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading npc roster file %s: %w", path, err)
	}
	return LoadRosterFromBytes(data)
}
