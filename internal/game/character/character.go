// Package character implements the mutable unit of simulation: a player or
// NPC aggregating transform, activity state, needs, emotions, personality,
// memory, and the in-progress action.
package character

import (
	"math"
	"time"

	"github.com/finishlast/officesim/internal/game/catalog"
	"github.com/finishlast/officesim/internal/game/office"
	"github.com/finishlast/officesim/internal/game/rng"
)

// Activity states.
const (
	StateIdle     = "idle"
	StateWalking  = "walking"
	StateSitting  = "sitting"
	StateWorking  = "working"
	StateTalking  = "talking"
	StateStanding = "standing"
)

const (
	// moveSpeed is in canvas units per game minute.
	moveSpeed = 30
	// arrivalThreshold snaps a walking character onto its target.
	arrivalThreshold = 5
	// animFrameMs is the animation frame cadence.
	animFrameMs = 200
	animFrames  = 4
	// speechChance is the probability an action opens with a speech line.
	speechChance = 0.5
)

// Appearance holds the cosmetic fields relayed to clients.
type Appearance struct {
	SkinTone   string
	HairColor  string
	HairStyle  string
	ShirtColor string
	PantsColor string
	EyeColor   string
}

// Config seeds a new character.
type Config struct {
	ID          string
	Name        string
	IsPlayer    bool
	Role        string
	X, Y        float64
	Appearance  Appearance
	Personality PersonalityConfig
}

// Character is one simulated office inhabitant.
//
// Invariant: at most one non-nil CurrentAction at a time; ActionProgress is
// 0 immediately after CurrentAction changes.
type Character struct {
	ID       string
	Name     string
	IsPlayer bool
	Role     string

	Appearance Appearance

	// Transform. Target coordinates are nil when the character is not
	// walking anywhere.
	X, Y             float64
	TargetX, TargetY *float64
	Speed            float64
	FacingRight      bool

	State string

	Personality Personality
	Needs       *Needs
	Emotions    *EmotionalState
	Memory      *Memory
	Schedule    Schedule

	CurrentAction  *catalog.Action
	ActionProgress float64 // game minutes
	// QueuedAction holds an action id awaiting arrival at its area.
	QueuedAction string

	AnimFrame  int
	Expression string

	SpeechBubble string

	SlackPoints int

	animTimerMs   float64
	speechTimerMs float64
}

// New creates a character from cfg, randomizing unset personality traits,
// needs, and the daily schedule from src.
func New(cfg Config, src rng.Source) *Character {
	appearance := cfg.Appearance
	if appearance.SkinTone == "" {
		appearance.SkinTone = "#f5d0b0"
	}
	if appearance.HairColor == "" {
		appearance.HairColor = "#2a1a0a"
	}
	if appearance.HairStyle == "" {
		appearance.HairStyle = "short"
	}
	if appearance.ShirtColor == "" {
		appearance.ShirtColor = "#3498db"
	}
	if appearance.PantsColor == "" {
		appearance.PantsColor = "#2c3e50"
	}
	if appearance.EyeColor == "" {
		appearance.EyeColor = "#4a3a2a"
	}

	role := cfg.Role
	if role == "" {
		role = "Employee"
	}

	personality := NewPersonality(cfg.Personality, src)
	return &Character{
		ID:          cfg.ID,
		Name:        cfg.Name,
		IsPlayer:    cfg.IsPlayer,
		Role:        role,
		Appearance:  appearance,
		X:           cfg.X,
		Y:           cfg.Y,
		Speed:       moveSpeed,
		FacingRight: true,
		State:       StateIdle,
		Personality: personality,
		Needs:       NewNeeds(src),
		Emotions:    NewEmotionalState(),
		Memory:      NewMemory(),
		Schedule:    NewSchedule(personality, src),
		Expression:  EmotionNeutral,
	}
}

// CurrentArea returns the office area the character stands in, or nil.
func (c *Character) CurrentArea(layout *office.Layout) *office.Area {
	return layout.FindAt(c.X, c.Y)
}

// MoveTo sets a walk target.
func (c *Character) MoveTo(x, y float64) {
	c.TargetX, c.TargetY = &x, &y
	c.State = StateWalking
}

// UpdateMovement integrates straight-line motion toward the target, snapping
// onto it within the arrival threshold.
func (c *Character) UpdateMovement(deltaMinutes float64) {
	if c.TargetX == nil || c.TargetY == nil {
		return
	}

	dx := *c.TargetX - c.X
	dy := *c.TargetY - c.Y
	dist := math.Hypot(dx, dy)

	if dist < arrivalThreshold {
		c.X, c.Y = *c.TargetX, *c.TargetY
		c.TargetX, c.TargetY = nil, nil
		if c.State == StateWalking {
			c.State = StateIdle
		}
		return
	}

	step := math.Min(c.Speed*deltaMinutes, dist)
	c.X += dx / dist * step
	c.Y += dy / dist * step
	c.FacingRight = dx > 0
	c.State = StateWalking
}

// StartAction begins an action: sets the current action, resets progress,
// enters the action's activity state, records a memory event, and speaks one
// of the action's lines half the time.
//
// Precondition: action must not be nil; the caller has validated the action.
// Postcondition: CurrentAction == action and ActionProgress == 0.
func (c *Character) StartAction(action *catalog.Action, areaID string, now time.Time, src rng.Source) {
	c.CurrentAction = action
	c.ActionProgress = 0
	c.State = action.State

	c.Memory.AddEvent(MemoryEvent{
		Type:     "action_start",
		Action:   action.ID,
		Location: areaID,
		At:       now,
	})

	if len(action.Speech) > 0 && src.Float64() < speechChance {
		c.Say(action.Speech[src.Intn(len(action.Speech))], 3000)
	}
}

// UpdateAction advances the in-progress action, applying continuous effects
// and completing it once progress reaches its duration. Returns the
// completed action, or nil.
func (c *Character) UpdateAction(deltaMinutes float64, now time.Time) *catalog.Action {
	if c.CurrentAction == nil {
		return nil
	}

	c.ActionProgress += deltaMinutes

	for need, rate := range c.CurrentAction.ContinuousEffects {
		c.Needs.Modify(need, rate*deltaMinutes)
	}

	if c.ActionProgress >= c.CurrentAction.Duration {
		return c.CompleteAction(now)
	}
	return nil
}

// CompleteAction applies the action's final need/emotion effects and slack
// points, records a memory event, and clears the action state. Calling it
// with no action in progress is a no-op returning nil, so redundant
// completion never double-applies effects.
//
// Postcondition: CurrentAction == nil and ActionProgress == 0.
func (c *Character) CompleteAction(now time.Time) *catalog.Action {
	action := c.CurrentAction
	if action == nil {
		return nil
	}

	for need, effect := range action.NeedEffects {
		c.Needs.Modify(need, effect)
	}
	for emotion, effect := range action.EmotionEffects {
		c.Emotions.Modify(emotion, effect)
	}
	c.SlackPoints += action.SlackPoints

	c.Memory.AddEvent(MemoryEvent{
		Type:   "action_complete",
		Action: action.ID,
		Impact: float64(action.SlackPoints),
		At:     now,
	})

	c.State = StateIdle
	c.CurrentAction = nil
	c.ActionProgress = 0

	return action
}

// CancelAction drops the in-progress action immediately. Continuous effects
// already applied are not rolled back and completion effects are not
// pro-rated.
func (c *Character) CancelAction() {
	c.CurrentAction = nil
	c.ActionProgress = 0
	c.State = StateIdle
}

// Say shows a speech bubble for durationMs of simulated time.
func (c *Character) Say(text string, durationMs float64) {
	c.SpeechBubble = text
	c.speechTimerMs = durationMs
}

// UpdateAnimation advances the animation frame, expires the speech bubble,
// and syncs the facial expression to the dominant emotion.
func (c *Character) UpdateAnimation(deltaMs float64) {
	c.animTimerMs += deltaMs
	if c.animTimerMs > animFrameMs {
		c.animTimerMs = 0
		c.AnimFrame = (c.AnimFrame + 1) % animFrames
	}

	if c.speechTimerMs > 0 {
		c.speechTimerMs -= deltaMs
		if c.speechTimerMs <= 0 {
			c.SpeechBubble = ""
		}
	}

	dominant, _ := c.Emotions.Dominant()
	c.Expression = dominant
}
