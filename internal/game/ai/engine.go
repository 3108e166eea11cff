package ai

import (
	"math"

	"github.com/finishlast/officesim/internal/game/action"
	"github.com/finishlast/officesim/internal/game/catalog"
	"github.com/finishlast/officesim/internal/game/character"
	"github.com/finishlast/officesim/internal/game/office"
)

const (
	// coworkerChance is the probability an NPC short-circuits straight
	// into a "makes you look bad" action.
	coworkerChance = 0.25
	// criticalNeedThreshold triggers the survival branch.
	criticalNeedThreshold = 15
	// socialExtraversionGate is the minimum extraversion to join nearby talk.
	socialExtraversionGate = 0.4
	// lunchWindowMinutes is the half-width of the lunch routine window.
	lunchWindowMinutes = 30
	// emotionalReactionThreshold triggers the emotional branch.
	emotionalReactionThreshold = 60
	// utilityTopN actions compete in the weighted random pick.
	utilityTopN = 5
)

// needAreas maps each need to the area type that relieves it.
var needAreas = map[string]string{
	character.NeedHunger:  office.TypeKitchen,
	character.NeedBladder: office.TypeBathroom,
	character.NeedEnergy:  office.TypeLounge,
	character.NeedSocial:  office.TypeKitchen,
	character.NeedFun:     office.TypeLounge,
	character.NeedComfort: office.TypeLounge,
	character.NeedHygiene: office.TypeBathroom,
}

// emotionActions maps a dominant emotion to the action ids an NPC reaches
// for when it runs hot.
var emotionActions = map[string][]string{
	character.EmotionSadness:    {"bathroom_cry", "bean_bag_therapy", "gossip"},
	character.EmotionAnger:      {"prank_coworker", "microwave_fish", "long_walk"},
	character.EmotionAnxiety:    {"supply_closet_hide", "bathroom_break_extended", "coffee"},
	character.EmotionBoredom:    {"browse_reddit", "office_olympics", "games", "phone_scroll"},
	character.EmotionExcitement: {"office_olympics", "prank_coworker", "gossip"},
}

// Engine decides what one NPC does next. One engine per NPC; the catalog is
// split once at construction into ordinary and coworker-only subsets.
type Engine struct {
	ordinary []*catalog.Action
	coworker []*catalog.Action
	layout   *office.Layout
	tree     Node
}

// NewEngine creates an Engine over the injected catalogs.
//
// Precondition: cat and layout must not be nil.
func NewEngine(cat *catalog.Catalog, layout *office.Layout) *Engine {
	if cat == nil || layout == nil {
		panic("ai.NewEngine: catalog and layout must not be nil")
	}
	e := &Engine{
		ordinary: cat.Ordinary(),
		coworker: cat.Coworker(),
		layout:   layout,
	}
	e.tree = e.buildTree()
	return e
}

// Think produces the NPC's next intent, or nil when no branch applies.
//
// With 25% probability the engine samples one coworker action first; if that
// single pick is compatible with the NPC's current area it short-circuits
// the whole priority tree. An area-incompatible pick is not retried.
func (e *Engine) Think(c *character.Character, ctx *action.Context) *Decision {
	if len(e.coworker) > 0 && ctx.RNG.Float64() < coworkerChance {
		pick := e.coworker[ctx.RNG.Intn(len(e.coworker))]
		if pick.RequiresArea == "" || (ctx.Area != nil && ctx.Area.Type == pick.RequiresArea) {
			return &Decision{Action: pick}
		}
	}

	d, _ := e.tree.Evaluate(c, ctx, e)
	return d
}

// buildTree assembles the priority selector. Branch order is the contract:
// critical need, social response, scheduled routine, emotional reaction,
// general utility.
func (e *Engine) buildTree() Node {
	return &Selector{Children: []Node{
		&Sequence{Children: []Node{
			&Condition{Predicate: func(c *character.Character, _ *action.Context, _ *Engine) bool {
				_, value := c.Needs.Lowest()
				return value < criticalNeedThreshold
			}},
			&Leaf{Fn: func(c *character.Character, ctx *action.Context, e *Engine) *Decision {
				return e.criticalNeed(c, ctx)
			}},
		}},
		&Sequence{Children: []Node{
			&Condition{Predicate: func(c *character.Character, ctx *action.Context, _ *Engine) bool {
				if c.Personality.Extraversion <= socialExtraversionGate {
					return false
				}
				for _, other := range ctx.Nearby {
					if other.State == character.StateTalking {
						return true
					}
				}
				return false
			}},
			&Leaf{Fn: func(c *character.Character, ctx *action.Context, e *Engine) *Decision {
				return e.socialResponse(c, ctx)
			}},
		}},
		&Sequence{Children: []Node{
			&Condition{Predicate: func(c *character.Character, ctx *action.Context, _ *Engine) bool {
				return math.Abs(ctx.TimeOfDay-float64(c.Schedule.LunchTime)) < lunchWindowMinutes &&
					c.Needs.Get(character.NeedHunger) < 60
			}},
			&Leaf{Fn: func(c *character.Character, ctx *action.Context, e *Engine) *Decision {
				return e.lunchRoutine(c, ctx)
			}},
		}},
		&Sequence{Children: []Node{
			&Condition{Predicate: func(c *character.Character, _ *action.Context, _ *Engine) bool {
				_, intensity := c.Emotions.Dominant()
				return intensity > emotionalReactionThreshold
			}},
			&Leaf{Fn: func(c *character.Character, ctx *action.Context, e *Engine) *Decision {
				return e.emotionalReaction(c, ctx)
			}},
		}},
		&Leaf{Fn: func(c *character.Character, ctx *action.Context, e *Engine) *Decision {
			return e.utilityDecision(c, ctx)
		}},
	}}
}

// criticalNeed serves whichever need has fallen below the survival
// threshold: walk to its area, doing the best-scoring action there.
func (e *Engine) criticalNeed(c *character.Character, ctx *action.Context) *Decision {
	need, _ := c.Needs.Lowest()
	targetType, ok := needAreas[need]
	if !ok {
		return nil
	}
	targetArea := e.layout.FirstOfType(targetType)
	if targetArea == nil {
		return nil
	}

	var candidates []*catalog.Action
	for _, act := range e.ordinary {
		if act.RequiresArea != "" && act.RequiresArea != targetType {
			continue
		}
		if act.NeedEffects[need] > 0 {
			candidates = append(candidates, act)
		}
	}

	point := office.RandomPointIn(targetArea, ctx.RNG)
	d := &Decision{MoveTo: &point}
	if scored := scoreSort(c, candidates, ctx); len(scored) > 0 {
		d.Action = scored[0].Action
	}
	return d
}

// socialResponse joins a nearby conversation with the best social action.
func (e *Engine) socialResponse(c *character.Character, ctx *action.Context) *Decision {
	var social []*catalog.Action
	for _, act := range e.ordinary {
		if act.Category == catalog.CategorySocial {
			social = append(social, act)
		}
	}
	scored := scoreSort(c, social, ctx)
	if len(scored) == 0 {
		return nil
	}
	return &Decision{Action: scored[0].Action}
}

// lunchRoutine drifts toward the kitchen around the personal lunch slot.
// No action is forced; the next think cycle picks one there.
func (e *Engine) lunchRoutine(_ *character.Character, ctx *action.Context) *Decision {
	kitchen := e.layout.FirstOfType(office.TypeKitchen)
	if kitchen == nil {
		return nil
	}
	point := office.RandomPointIn(kitchen, ctx.RNG)
	return &Decision{MoveTo: &point}
}

// emotionalReaction picks uniformly among the preferred outlets for the
// dominant emotion.
func (e *Engine) emotionalReaction(c *character.Character, ctx *action.Context) *Decision {
	dominant, _ := c.Emotions.Dominant()
	preferredIDs := emotionActions[dominant]
	if len(preferredIDs) == 0 {
		return nil
	}

	var preferred []*catalog.Action
	for _, act := range e.ordinary {
		for _, id := range preferredIDs {
			if act.ID == id {
				preferred = append(preferred, act)
				break
			}
		}
	}
	if len(preferred) == 0 {
		return nil
	}

	pick := preferred[ctx.RNG.Intn(len(preferred))]
	if pick.RequiresArea != "" {
		if area := e.layout.FirstOfType(pick.RequiresArea); area != nil {
			point := office.RandomPointIn(area, ctx.RNG)
			return &Decision{MoveTo: &point, Action: pick}
		}
	}
	return &Decision{Action: pick}
}

// utilityDecision scores every ordinary action and picks among the top five
// by score-weighted random selection.
func (e *Engine) utilityDecision(c *character.Character, ctx *action.Context) *Decision {
	scored := scoreSort(c, e.ordinary, ctx)
	if len(scored) > utilityTopN {
		scored = scored[:utilityTopN]
	}
	if len(scored) == 0 {
		return nil
	}

	total := 0.0
	for _, s := range scored {
		total += s.Score
	}
	if total <= 0 {
		return nil
	}

	roll := ctx.RNG.Float64() * total
	picked := scored[0].Action
	for _, s := range scored {
		roll -= s.Score
		if roll <= 0 {
			picked = s.Action
			break
		}
	}

	areaType := ""
	if ctx.Area != nil {
		areaType = ctx.Area.Type
	}
	if picked.RequiresArea != "" && picked.RequiresArea != areaType {
		if target := e.layout.FirstOfType(picked.RequiresArea); target != nil {
			point := office.RandomPointIn(target, ctx.RNG)
			return &Decision{MoveTo: &point, Action: picked}
		}
	}
	return &Decision{Action: picked}
}
