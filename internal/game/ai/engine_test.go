package ai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finishlast/officesim/internal/game/action"
	"github.com/finishlast/officesim/internal/game/catalog"
	"github.com/finishlast/officesim/internal/game/character"
	"github.com/finishlast/officesim/internal/game/office"
	"github.com/finishlast/officesim/internal/game/rng"
)

// scriptedSource replays fixed values, falling back to a seeded stream when
// the script runs out.
type scriptedSource struct {
	floats   []float64
	ints     []int
	fallback rng.Source
}

func (s *scriptedSource) Float64() float64 {
	if len(s.floats) > 0 {
		v := s.floats[0]
		s.floats = s.floats[1:]
		return v
	}
	return s.fallback.Float64()
}

func (s *scriptedSource) Intn(n int) int {
	if len(s.ints) > 0 {
		v := s.ints[0] % n
		s.ints = s.ints[1:]
		return v
	}
	return s.fallback.Intn(n)
}

func newScripted(floats []float64, ints []int) *scriptedSource {
	return &scriptedSource{floats: floats, ints: ints, fallback: rng.NewSeeded(7)}
}

func testLayout() *office.Layout {
	return &office.Layout{
		Areas: []*office.Area{
			{ID: "kitchen", Type: office.TypeKitchen, Name: "Kitchen", X: 400, Y: 50, W: 150, H: 100, Interactive: true},
			{ID: "lounge", Type: office.TypeLounge, Name: "Lounge", X: 400, Y: 300, W: 150, H: 100, Interactive: true},
			{ID: "bathroom", Type: office.TypeBathroom, Name: "Bathroom", X: 50, Y: 300, W: 80, H: 80, Interactive: true},
			{ID: "cubicle-1", Type: office.TypeCubicle, Name: "Cubicle", X: 50, Y: 50, W: 120, H: 100, Interactive: true},
		},
		CanvasW: 720,
		CanvasH: 450,
	}
}

func testActions() []*catalog.Action {
	return []*catalog.Action{
		{ID: "eat_snack", Name: "Eat a Snack", Category: catalog.CategoryNeed, Duration: 3,
			RequiresArea: office.TypeKitchen, State: character.StateStanding,
			NeedEffects: map[string]float64{character.NeedHunger: 40}},
		{ID: "work", Name: "Do Actual Work", Category: catalog.CategoryWork, Duration: 10,
			RequiresArea: office.TypeCubicle, State: character.StateWorking,
			NeedEffects: map[string]float64{character.NeedFun: -5}},
		{ID: "phone_scroll", Name: "Scroll Phone", Category: catalog.CategorySlack, Duration: 4,
			State: character.StateStanding, SlackPoints: 3,
			NeedEffects: map[string]float64{character.NeedFun: 10}},
		{ID: "gossip", Name: "Gossip", Category: catalog.CategorySocial, Duration: 5,
			RequiresOther: true, State: character.StateTalking,
			NeedEffects: map[string]float64{character.NeedSocial: 25}},
	}
}

func newTestCharacter(t *testing.T, src rng.Source) *character.Character {
	t.Helper()
	half := 0.5
	return character.New(character.Config{
		ID:   "npc-1",
		Name: "Testy",
		X:    110, Y: 100,
		Personality: character.PersonalityConfig{
			Openness:          &half,
			Conscientiousness: &half,
			Extraversion:      &half,
			Agreeableness:     &half,
			Neuroticism:       &half,
		},
	}, src)
}

// settle raises every need high enough that neither the critical-need nor
// the lunch branch fires.
func settle(c *character.Character) {
	for _, need := range character.NeedNames {
		c.Needs.Modify(need, 100)
	}
}

func testContext(c *character.Character, layout *office.Layout, src rng.Source) *action.Context {
	return &action.Context{
		Characters: []*character.Character{c},
		Area:       layout.FindAt(c.X, c.Y),
		TimeOfDay:  600,
		Day:        1,
		Now:        time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC),
		RNG:        src,
	}
}

func TestThinkCriticalHungerHeadsForKitchen(t *testing.T) {
	layout := testLayout()
	engine := NewEngine(catalog.NewCatalog(testActions()), layout)
	src := rng.NewSeeded(42)
	c := newTestCharacter(t, src)
	settle(c)
	c.Needs.Modify(character.NeedHunger, -100)

	ctx := testContext(c, layout, src)
	d := engine.Think(c, ctx)

	require.NotNil(t, d)
	require.NotNil(t, d.MoveTo)
	kitchen := layout.FirstOfType(office.TypeKitchen)
	assert.True(t, kitchen.Contains(d.MoveTo.X, d.MoveTo.Y), "target %v should lie inside the kitchen", *d.MoveTo)
	require.NotNil(t, d.Action)
	assert.Greater(t, d.Action.NeedEffects[character.NeedHunger], 0.0)
}

func TestThinkCriticalBladderHeadsForBathroom(t *testing.T) {
	layout := testLayout()
	actions := append(testActions(), &catalog.Action{
		ID: "bathroom_break", Name: "Bathroom Break", Category: catalog.CategoryNeed,
		Duration: 2, RequiresArea: office.TypeBathroom, State: character.StateStanding,
		NeedEffects: map[string]float64{character.NeedBladder: 100},
	})
	engine := NewEngine(catalog.NewCatalog(actions), layout)
	src := rng.NewSeeded(42)
	c := newTestCharacter(t, src)
	settle(c)
	c.Needs.Modify(character.NeedBladder, -100)

	d := engine.Think(c, testContext(c, layout, src))

	require.NotNil(t, d)
	require.NotNil(t, d.MoveTo)
	bathroom := layout.FirstOfType(office.TypeBathroom)
	assert.True(t, bathroom.Contains(d.MoveTo.X, d.MoveTo.Y))
}

func TestThinkCoworkerShortCircuit(t *testing.T) {
	layout := testLayout()
	actions := append(testActions(), &catalog.Action{
		ID: "loud_call", Name: "Loud Sales Call", Category: catalog.CategoryCoworkerWork,
		Duration: 6, State: character.StateTalking, Coworker: true, MakesYouLookBad: true,
	})
	engine := NewEngine(catalog.NewCatalog(actions), layout)
	c := newTestCharacter(t, rng.NewSeeded(1))
	settle(c)

	d := engine.Think(c, testContext(c, layout, newScripted([]float64{0.1}, []int{0})))

	require.NotNil(t, d)
	require.NotNil(t, d.Action)
	assert.Equal(t, "loud_call", d.Action.ID)
	assert.Nil(t, d.MoveTo)
}

func TestThinkCoworkerPickNotRetriedWhenAreaMismatch(t *testing.T) {
	layout := testLayout()
	actions := append(testActions(), &catalog.Action{
		ID: "microwave_fish", Name: "Microwave Fish", Category: catalog.CategoryCoworkerWork,
		Duration: 4, RequiresArea: office.TypeKitchen, State: character.StateStanding,
		Coworker: true, MakesYouLookBad: true,
	})
	engine := NewEngine(catalog.NewCatalog(actions), layout)
	// Roll triggers the short circuit, but the character stands in a
	// cubicle, so the single pick is discarded and the tree runs.
	c := newTestCharacter(t, rng.NewSeeded(1))
	settle(c)

	d := engine.Think(c, testContext(c, layout, newScripted([]float64{0.1}, []int{0})))

	if d != nil && d.Action != nil {
		assert.NotEqual(t, "microwave_fish", d.Action.ID)
	}
}

func TestThinkCoworkerSkippedAboveThreshold(t *testing.T) {
	layout := testLayout()
	actions := append(testActions(), &catalog.Action{
		ID: "loud_call", Name: "Loud Sales Call", Category: catalog.CategoryCoworkerWork,
		Duration: 6, State: character.StateTalking, Coworker: true, MakesYouLookBad: true,
	})
	engine := NewEngine(catalog.NewCatalog(actions), layout)
	c := newTestCharacter(t, rng.NewSeeded(1))
	settle(c)

	d := engine.Think(c, testContext(c, layout, newScripted([]float64{0.9}, nil)))

	if d != nil && d.Action != nil {
		assert.NotEqual(t, "loud_call", d.Action.ID)
	}
}

func TestThinkSocialResponseJoinsConversation(t *testing.T) {
	layout := testLayout()
	engine := NewEngine(catalog.NewCatalog(testActions()), layout)
	src := rng.NewSeeded(42)

	high := 0.9
	half := 0.5
	c := character.New(character.Config{
		ID: "npc-social", Name: "Chatty", X: 110, Y: 100,
		Personality: character.PersonalityConfig{
			Openness:          &half,
			Conscientiousness: &half,
			Extraversion:      &high,
			Agreeableness:     &half,
			Neuroticism:       &half,
		},
	}, src)
	settle(c)

	talker := newTestCharacter(t, src)
	talker.ID = "npc-talker"
	talker.State = character.StateTalking

	ctx := testContext(c, layout, src)
	ctx.Nearby = []*character.Character{talker}
	ctx.Target = talker

	d := engine.Think(c, ctx)

	require.NotNil(t, d)
	require.NotNil(t, d.Action)
	assert.Equal(t, catalog.CategorySocial, d.Action.Category)
}

func TestThinkLunchRoutineMovesToKitchen(t *testing.T) {
	layout := testLayout()
	engine := NewEngine(catalog.NewCatalog(testActions()), layout)
	src := rng.NewSeeded(42)
	c := newTestCharacter(t, src)
	settle(c)
	c.Needs.Modify(character.NeedHunger, -50)
	c.Schedule.LunchTime = 720

	ctx := testContext(c, layout, src)
	ctx.TimeOfDay = 725

	d := engine.Think(c, ctx)

	require.NotNil(t, d)
	require.NotNil(t, d.MoveTo)
	kitchen := layout.FirstOfType(office.TypeKitchen)
	assert.True(t, kitchen.Contains(d.MoveTo.X, d.MoveTo.Y))
	assert.Nil(t, d.Action, "lunch drift should not force an action")
}

func TestThinkEmotionalReactionUsesPreferredOutlet(t *testing.T) {
	layout := testLayout()
	engine := NewEngine(catalog.NewCatalog(testActions()), layout)
	src := rng.NewSeeded(42)
	c := newTestCharacter(t, src)
	settle(c)
	c.Emotions.Modify(character.EmotionBoredom, 100)

	d := engine.Think(c, testContext(c, layout, src))

	require.NotNil(t, d)
	require.NotNil(t, d.Action)
	assert.Equal(t, "phone_scroll", d.Action.ID)
}

func TestThinkUtilityFallbackPicksSomething(t *testing.T) {
	layout := testLayout()
	engine := NewEngine(catalog.NewCatalog(testActions()), layout)
	src := rng.NewSeeded(42)
	c := newTestCharacter(t, src)
	settle(c)
	// Leave some appetite for fun so at least one action scores above zero.
	c.Needs.Modify(character.NeedFun, -40)

	d := engine.Think(c, testContext(c, layout, src))

	require.NotNil(t, d)
	require.NotNil(t, d.Action)
	assert.False(t, d.Action.Coworker)
}

func TestThinkUtilityAddsMoveForAreaBoundAction(t *testing.T) {
	layout := testLayout()
	// One action only, area-bound, so the weighted pick is forced.
	actions := []*catalog.Action{
		{ID: "eat_snack", Name: "Eat a Snack", Category: catalog.CategoryNeed, Duration: 3,
			RequiresArea: office.TypeKitchen, State: character.StateStanding,
			NeedEffects: map[string]float64{character.NeedHunger: 40}},
	}
	engine := NewEngine(catalog.NewCatalog(actions), layout)
	src := rng.NewSeeded(42)
	c := newTestCharacter(t, src)
	settle(c)
	c.Needs.Modify(character.NeedHunger, -60) // hungry but not critical

	d := engine.Think(c, testContext(c, layout, src))

	require.NotNil(t, d)
	require.NotNil(t, d.Action)
	assert.Equal(t, "eat_snack", d.Action.ID)
	require.NotNil(t, d.MoveTo, "area-bound pick outside its area should include a move")
	kitchen := layout.FirstOfType(office.TypeKitchen)
	assert.True(t, kitchen.Contains(d.MoveTo.X, d.MoveTo.Y))
}

func TestScoreFloorsAtZero(t *testing.T) {
	layout := testLayout()
	src := rng.NewSeeded(42)
	c := newTestCharacter(t, src)
	settle(c)

	act := &catalog.Action{ID: "drain", Category: catalog.CategoryNeed,
		NeedEffects: map[string]float64{character.NeedFun: -80}}
	s := Score(c, act, testContext(c, layout, src))
	assert.GreaterOrEqual(t, s, 0.0)
}

func TestScoreRepetitionPenalty(t *testing.T) {
	layout := testLayout()
	src := rng.NewSeeded(42)
	c := newTestCharacter(t, src)
	settle(c)
	c.Needs.Modify(character.NeedFun, -40)

	act := &catalog.Action{ID: "phone_scroll", Category: catalog.CategorySlack,
		NeedEffects: map[string]float64{character.NeedFun: 10}}
	ctx := testContext(c, layout, src)

	// Scripting the noise roll to 0.5 makes the multiplier exactly 1.0,
	// so the two scores differ only by the penalty.
	fresh := Score(c, act, &action.Context{Now: ctx.Now, RNG: newScripted([]float64{0.5}, nil)})
	c.Memory.AddEvent(character.MemoryEvent{
		Type: "action", Action: "phone_scroll", At: ctx.Now.Add(-10 * time.Second),
	})
	repeated := Score(c, act, &action.Context{Now: ctx.Now, RNG: newScripted([]float64{0.5}, nil)})

	assert.Less(t, repeated, fresh)
}
