package room

import (
	"math"
	"time"

	"github.com/finishlast/officesim/internal/game/catalog"
	"github.com/finishlast/officesim/internal/game/character"
	"github.com/finishlast/officesim/internal/protocol"
)

// Serializer builds snapshot and delta payloads for one room. The needs
// section of a delta is throttled to NeedsBroadcastInterval of simulation
// time rather than sent every tick.
type Serializer struct {
	clientActions      []protocol.ActionInfo
	lastNeedsBroadcast time.Time
}

// NewSerializer pre-builds the client-facing action list once; the catalog
// never changes after load.
func NewSerializer(cat *catalog.Catalog) *Serializer {
	actions := make([]protocol.ActionInfo, 0, cat.Len())
	for _, a := range cat.All() {
		actions = append(actions, protocol.ActionInfo{
			ID:               a.ID,
			Name:             a.Name,
			Category:         a.Category,
			Duration:         a.Duration,
			RequiresArea:     a.RequiresArea,
			SlackPoints:      a.SlackPoints,
			IsCoworkerAction: a.Coworker,
		})
	}
	return &Serializer{clientActions: actions}
}

// Snapshot builds the full room state.
func (s *Serializer) Snapshot(r *Room, now time.Time) *protocol.Snapshot {
	snap := &protocol.Snapshot{
		Timestamp: now.UnixMilli(),
		Game: protocol.GameClock{
			Day:   r.clock.Day,
			Time:  int(math.Round(r.clock.Time)),
			Speed: r.clock.Speed,
		},
		Characters: make([]protocol.CharacterState, 0, len(r.order)),
		Players:    make([]protocol.PlayerRef, 0, len(r.players)),
		Actions:    s.clientActions,
	}

	for _, id := range r.order {
		snap.Characters = append(snap.Characters, serializeCharacter(r.characters[id]))
	}
	for _, id := range r.playerOrder {
		p := r.players[id]
		snap.Players = append(snap.Players, protocol.PlayerRef{ID: p.id, CharacterID: p.characterID})
	}
	return snap
}

// Delta builds the compact per-tick update.
func (s *Serializer) Delta(r *Room, now time.Time) *protocol.Delta {
	delta := &protocol.Delta{
		T: now.UnixMilli(),
		G: protocol.DeltaClock{
			Day:     r.clock.Day,
			Minutes: int(math.Round(r.clock.Time)),
		},
		C: make([]protocol.CharacterCompact, 0, len(r.order)),
	}

	for _, id := range r.order {
		delta.C = append(delta.C, serializeCompact(r.characters[id]))
	}

	if now.Sub(s.lastNeedsBroadcast) >= NeedsBroadcastInterval {
		s.lastNeedsBroadcast = now
		delta.Needs = make([]protocol.CharacterNeeds, 0, len(r.order))
		for _, id := range r.order {
			delta.Needs = append(delta.Needs, serializeNeeds(r.characters[id]))
		}
	}

	return delta
}

func serializeCharacter(c *character.Character) protocol.CharacterState {
	needs := make(map[string]int, len(character.NeedNames))
	for _, name := range character.NeedNames {
		needs[name] = int(math.Round(c.Needs.Get(name)))
	}

	emotionValues := make(map[string]float64, len(character.EmotionNames))
	for _, name := range character.EmotionNames {
		emotionValues[name] = math.Round(c.Emotions.Get(name))
	}
	dominant, _ := c.Emotions.Dominant()

	state := protocol.CharacterState{
		ID:          c.ID,
		Name:        c.Name,
		IsPlayer:    c.IsPlayer,
		Role:        c.Role,
		X:           int(math.Round(c.X)),
		Y:           int(math.Round(c.Y)),
		FacingRight: c.FacingRight,
		State:       c.State,
		Expression:  c.Expression,
		AnimFrame:   c.AnimFrame,
		Appearance: protocol.AppearanceState{
			SkinTone:   c.Appearance.SkinTone,
			HairColor:  c.Appearance.HairColor,
			HairStyle:  c.Appearance.HairStyle,
			ShirtColor: c.Appearance.ShirtColor,
			PantsColor: c.Appearance.PantsColor,
			EyeColor:   c.Appearance.EyeColor,
		},
		Needs: needs,
		Emotion: protocol.EmotionState{
			Dominant: dominant,
			Emoji:    c.Emotions.Emoji(),
			Values:   emotionValues,
		},
		Personality:  protocol.PersonalityState{Traits: c.Personality.TraitDescriptions()},
		SpeechBubble: c.SpeechBubble,
		SlackPoints:  c.SlackPoints,
	}

	if c.CurrentAction != nil {
		state.CurrentAction = &protocol.CurrentAction{
			ID:       c.CurrentAction.ID,
			Name:     c.CurrentAction.Name,
			Progress: int(math.Round(c.ActionProgress)),
			Duration: c.CurrentAction.Duration,
		}
	}
	return state
}

func serializeCompact(c *character.Character) protocol.CharacterCompact {
	compact := protocol.CharacterCompact{
		ID:         c.ID,
		X:          int(math.Round(c.X)),
		Y:          int(math.Round(c.Y)),
		State:      c.State,
		Speech:     c.SpeechBubble,
		Expression: c.Expression,
		AnimFrame:  c.AnimFrame,
	}
	if c.FacingRight {
		compact.FacingRight = 1
	}
	if c.CurrentAction != nil {
		compact.ActionID = c.CurrentAction.ID
		compact.ActionProgress = int(math.Round(c.ActionProgress / c.CurrentAction.Duration * 100))
	}
	return compact
}

func serializeNeeds(c *character.Character) protocol.CharacterNeeds {
	round := func(name string) int { return int(math.Round(c.Needs.Get(name))) }
	return protocol.CharacterNeeds{
		ID:      c.ID,
		Hunger:  round(character.NeedHunger),
		Energy:  round(character.NeedEnergy),
		Social:  round(character.NeedSocial),
		Comfort: round(character.NeedComfort),
		Fun:     round(character.NeedFun),
		Hygiene: round(character.NeedHygiene),
		Bladder: round(character.NeedBladder),
	}
}
