package action

import (
	"errors"
	"math"

	"github.com/finishlast/officesim/internal/game/catalog"
	"github.com/finishlast/officesim/internal/game/character"
	"github.com/finishlast/officesim/internal/game/office"
)

// Validation failures returned inside Result. These are outcomes, not
// faults: they never abort a tick.
var (
	ErrUnknownAction = errors.New("unknown action")
	ErrBusy          = errors.New("already performing an action")
	ErrNoArea        = errors.New("no suitable area found")
	ErrNoCompanion   = errors.New("need someone nearby")
)

// Result reports the outcome of a TryPerform call.
type Result struct {
	Success bool
	// NeedsMove means the action is valid but the character must first
	// walk to Target inside TargetArea, then re-attempt ActionID.
	NeedsMove  bool
	Target     office.Point
	TargetArea string
	ActionID   string
	// Err holds the validation failure when Success and NeedsMove are
	// both false.
	Err error
}

// Processor validates and executes actions against one catalog and layout.
type Processor struct {
	catalog *catalog.Catalog
	layout  *office.Layout
}

// NewProcessor creates a Processor.
//
// Precondition: cat and layout must not be nil.
func NewProcessor(cat *catalog.Catalog, layout *office.Layout) *Processor {
	if cat == nil || layout == nil {
		panic("action.NewProcessor: catalog and layout must not be nil")
	}
	return &Processor{catalog: cat, layout: layout}
}

// TryPerform validates actionID for c and executes it when every check
// passes. Checks run in order: unknown id, already busy, area requirement,
// companion requirement. An unmet area requirement is not a failure: the
// result carries a target point inside a valid area and the caller is
// expected to move the character and re-attempt.
//
// Postcondition: on any non-Success result the character is unmodified.
func (p *Processor) TryPerform(c *character.Character, actionID string, ctx *Context) Result {
	act, ok := p.catalog.ByID(actionID)
	if !ok {
		return Result{Err: ErrUnknownAction}
	}

	if c.CurrentAction != nil {
		return Result{Err: ErrBusy}
	}

	if act.RequiresArea != "" && !office.Satisfies(ctx.Area, act.RequiresArea) {
		target := p.layout.ResolveFor(act.RequiresArea)
		if target == nil {
			return Result{Err: ErrNoArea}
		}
		return Result{
			NeedsMove:  true,
			Target:     office.RandomPointIn(target, ctx.RNG),
			TargetArea: target.Type,
			ActionID:   actionID,
		}
	}

	if act.RequiresOther && len(ctx.Nearby) == 0 {
		return Result{Err: ErrNoCompanion}
	}

	p.Execute(c, act, ctx)
	return Result{Success: true, ActionID: actionID}
}

// Execute starts act on c without validation. AI decisions land here after
// the engine's own checks. Social actions performed near a target nudge both
// relationships, the actor's more than the target's.
func (p *Processor) Execute(c *character.Character, act *catalog.Action, ctx *Context) {
	areaID := ""
	if area := c.CurrentArea(p.layout); area != nil {
		areaID = area.ID
	}
	c.StartAction(act, areaID, ctx.Now, ctx.RNG)

	if act.Category == catalog.CategorySocial && ctx.Target != nil {
		friendDelta := 3.0
		if happiness, ok := act.EmotionEffects[character.EmotionHappiness]; ok && happiness != 0 {
			friendDelta = math.Round(happiness * 0.3)
		}
		c.Memory.ModifyRelationship(ctx.Target.ID, friendDelta, 0, ctx.Now)
		ctx.Target.Memory.ModifyRelationship(c.ID, friendDelta*0.5, 0, ctx.Now)
	}
}
