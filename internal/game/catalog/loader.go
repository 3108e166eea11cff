package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// validNeeds and validEmotions gate the effect-map keys actions may name.
// They mirror the character package's canonical name lists; the catalog is
// a leaf package and keeps its own copy.
var validNeeds = map[string]bool{
	"hunger": true, "energy": true, "social": true, "comfort": true,
	"fun": true, "hygiene": true, "bladder": true,
}

var validEmotions = map[string]bool{
	"happiness": true, "anger": true, "sadness": true,
	"anxiety": true, "boredom": true, "excitement": true,
}

var validStates = map[string]bool{
	"idle": true, "walking": true, "sitting": true,
	"working": true, "talking": true, "standing": true,
}

var validCategories = map[string]bool{
	CategoryWork: true, CategorySlack: true, CategorySocial: true,
	CategoryFun: true, CategoryNeed: true, CategoryChaos: true,
	CategoryEmotional: true, CategoryCoworkerWork: true,
}

// actionsFile is the top-level YAML structure for the action catalog.
type actionsFile struct {
	Actions []*Action `yaml:"actions"`
}

// Validate checks one action definition's invariants.
//
// Postcondition: Returns nil iff the action has a non-empty id and name, a
// known category and state, duration > 0, and every effect key names a known
// need or emotion.
func (a *Action) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("action: id must not be empty")
	}
	if a.Name == "" {
		return fmt.Errorf("action %q: name must not be empty", a.ID)
	}
	if !validCategories[a.Category] {
		return fmt.Errorf("action %q: unknown category %q", a.ID, a.Category)
	}
	if a.Duration <= 0 {
		return fmt.Errorf("action %q: duration must be > 0, got %v", a.ID, a.Duration)
	}
	if a.State != "" && !validStates[a.State] {
		return fmt.Errorf("action %q: unknown state %q", a.ID, a.State)
	}
	for need := range a.NeedEffects {
		if !validNeeds[need] {
			return fmt.Errorf("action %q: unknown need %q in need_effects", a.ID, need)
		}
	}
	for need := range a.ContinuousEffects {
		if !validNeeds[need] {
			return fmt.Errorf("action %q: unknown need %q in continuous_effects", a.ID, need)
		}
	}
	for emotion := range a.EmotionEffects {
		if !validEmotions[emotion] {
			return fmt.Errorf("action %q: unknown emotion %q in emotion_effects", a.ID, emotion)
		}
	}
	if a.MakesYouLookBad && !a.Coworker {
		return fmt.Errorf("action %q: makes_you_look_bad requires coworker", a.ID)
	}
	return nil
}

// LoadActionsFromBytes parses and validates the action catalog from YAML bytes.
//
// Postcondition: Returns a catalog with unique action IDs, or a non-nil error.
func LoadActionsFromBytes(data []byte) (*Catalog, error) {
	var file actionsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing actions YAML: %w", err)
	}
	if len(file.Actions) == 0 {
		return nil, fmt.Errorf("action catalog: no actions defined")
	}

	seen := make(map[string]bool, len(file.Actions))
	for _, a := range file.Actions {
		if err := a.Validate(); err != nil {
			return nil, err
		}
		if seen[a.ID] {
			return nil, fmt.Errorf("action catalog: duplicate id %q", a.ID)
		}
		seen[a.ID] = true
		if a.State == "" {
			a.State = "working"
		}
	}
	return NewCatalog(file.Actions), nil
}

// LoadActionsFromFile reads and validates the action catalog file at path.
func LoadActionsFromFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading actions file %s: %w", path, err)
	}
	return LoadActionsFromBytes(data)
}
