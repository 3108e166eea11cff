// Package catalog provides the immutable content catalogs consumed by the
// simulation: the action database and the default NPC roster. Catalogs are
// loaded once at startup and never mutated afterwards.
package catalog

// Action categories.
const (
	CategoryWork         = "work"
	CategorySlack        = "slack"
	CategorySocial       = "social"
	CategoryFun          = "fun"
	CategoryNeed         = "need"
	CategoryChaos        = "chaos"
	CategoryEmotional    = "emotional"
	CategoryCoworkerWork = "coworker_work"
)

// Action is one timed, effect-bearing activity a character can perform.
// Need and emotion effect maps are keyed by the need/emotion names the
// character package defines; the loader validates the keys.
type Action struct {
	ID       string  `yaml:"id"`
	Name     string  `yaml:"name"`
	Category string  `yaml:"category"`
	Duration float64 `yaml:"duration"` // game minutes

	// RequiresArea is the area type the character must stand in; empty
	// means performable anywhere.
	RequiresArea string `yaml:"requires_area"`
	// RequiresOther means another character must be within social range.
	RequiresOther bool `yaml:"requires_other"`

	NeedEffects       map[string]float64 `yaml:"need_effects"`
	EmotionEffects    map[string]float64 `yaml:"emotion_effects"`
	ContinuousEffects map[string]float64 `yaml:"continuous_effects"` // per game minute, applied while in progress

	SlackPoints int `yaml:"slack_points"`

	// State is the activity state the character enters while performing.
	State string `yaml:"state"`

	Speech []string `yaml:"speech"`

	// Coworker marks NPC-only actions; MakesYouLookBad additionally shames
	// every connected player when an NPC completes one.
	Coworker        bool `yaml:"coworker"`
	MakesYouLookBad bool `yaml:"makes_you_look_bad"`
}

// Catalog is the loaded, immutable action database.
type Catalog struct {
	actions  []*Action
	byID     map[string]*Action
	ordinary []*Action
	coworker []*Action
}

// NewCatalog indexes a validated action list.
//
// Precondition: actions have passed Validate (unique non-empty IDs).
func NewCatalog(actions []*Action) *Catalog {
	c := &Catalog{
		actions: actions,
		byID:    make(map[string]*Action, len(actions)),
	}
	for _, a := range actions {
		c.byID[a.ID] = a
		if a.Coworker {
			c.coworker = append(c.coworker, a)
		} else {
			c.ordinary = append(c.ordinary, a)
		}
	}
	return c
}

// All returns every action in catalog order.
func (c *Catalog) All() []*Action { return c.actions }

// ByID looks up an action by id.
func (c *Catalog) ByID(id string) (*Action, bool) {
	a, ok := c.byID[id]
	return a, ok
}

// Ordinary returns every non-coworker action in catalog order.
func (c *Catalog) Ordinary() []*Action { return c.ordinary }

// Coworker returns the coworker-only ("makes you look bad") actions.
func (c *Catalog) Coworker() []*Action { return c.coworker }

// Len returns the number of actions.
func (c *Catalog) Len() int { return len(c.actions) }
