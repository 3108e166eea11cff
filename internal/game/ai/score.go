package ai

import (
	"sort"
	"time"

	"github.com/finishlast/officesim/internal/game/action"
	"github.com/finishlast/officesim/internal/game/catalog"
	"github.com/finishlast/officesim/internal/game/character"
	"github.com/finishlast/officesim/internal/game/rng"
)

// repetitionWindow is how recently an action must appear in short-term
// memory to incur the repetition penalty.
const repetitionWindow = 30 * time.Second

// Scored pairs an action with its utility score for one character/context.
type Scored struct {
	Action *catalog.Action
	Score  float64
}

// Score estimates how desirable act is for c right now. The final score is
// multiplied by uniform noise in [0.85, 1.15) and floored at 0.
func Score(c *character.Character, act *catalog.Action, ctx *action.Context) float64 {
	score := 0.0

	// Need fulfillment, weighted by urgency. Deficit effects are cheap;
	// desperately low needs triple the payoff.
	for need, effect := range act.NeedEffects {
		current := c.Needs.Get(need)
		urgency := (100 - current) / 100
		if effect > 0 {
			score += effect * urgency * 2
		} else {
			score += effect * 0.5
		}
		if current < 20 && effect > 0 {
			score += effect * 3
		}
	}

	// Personality alignment.
	p := c.Personality
	switch act.Category {
	case catalog.CategoryWork:
		score += (p.Conscientiousness - 0.5) * 20
		score -= (p.Extraversion - 0.5) * 10
	case catalog.CategorySocial:
		score += (p.Extraversion - 0.5) * 30
		score += (p.Agreeableness - 0.5) * 15
	}
	if act.Category == catalog.CategorySlack || act.Category == catalog.CategoryFun {
		score -= (p.Conscientiousness - 0.5) * 25
		score += (p.Openness - 0.5) * 10
	}

	// Emotional modifiers.
	if act.Category == catalog.CategoryFun && c.Emotions.Get(character.EmotionBoredom) > 50 {
		score += c.Emotions.Get(character.EmotionBoredom) * 0.5
	}
	if act.Category == catalog.CategorySocial && c.Emotions.Get(character.EmotionSadness) > 30 {
		score += 15
	}

	// Social availability.
	if act.RequiresOther && len(ctx.Nearby) == 0 {
		score -= 50
	}

	// Avoid repetition.
	if c.Memory.RememberedActionSince(act.ID, ctx.Now.Add(-repetitionWindow)) {
		score -= 20
	}

	// Noise for variety.
	score *= rng.Between(ctx.RNG, 0.85, 1.15)

	if score < 0 {
		return 0
	}
	return score
}

// scoreSort scores every action and returns them sorted by descending
// score. The sort is stable so ties keep catalog order, which keeps
// seeded runs reproducible.
func scoreSort(c *character.Character, actions []*catalog.Action, ctx *action.Context) []Scored {
	scored := make([]Scored, 0, len(actions))
	for _, act := range actions {
		scored = append(scored, Scored{Action: act, Score: Score(c, act, ctx)})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}
