package room

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/finishlast/officesim/internal/game/catalog"
	"github.com/finishlast/officesim/internal/game/character"
	"github.com/finishlast/officesim/internal/game/office"
	"github.com/finishlast/officesim/internal/game/rng"
	"github.com/finishlast/officesim/internal/protocol"
)

// recordingSender captures outbound messages for assertions.
type recordingSender struct {
	mu       sync.Mutex
	messages []sentMessage
}

type sentMessage struct {
	Type    string
	Payload any
}

func (s *recordingSender) Send(msgType string, payload any) {
	s.mu.Lock()
	s.messages = append(s.messages, sentMessage{Type: msgType, Payload: payload})
	s.mu.Unlock()
}

func (s *recordingSender) byType(msgType string) []sentMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []sentMessage
	for _, m := range s.messages {
		if m.Type == msgType {
			out = append(out, m)
		}
	}
	return out
}

func testLayout() *office.Layout {
	return &office.Layout{
		Areas: []*office.Area{
			{ID: "reception", Type: office.TypeReception, Name: "Reception", X: 150, Y: 240, W: 160, H: 80, Interactive: true},
			{ID: "kitchen", Type: office.TypeKitchen, Name: "Kitchen", X: 400, Y: 50, W: 150, H: 100, Interactive: true},
			{ID: "meeting", Type: office.TypeMeeting, Name: "Meeting Room", X: 50, Y: 50, W: 120, H: 100, Interactive: true},
			{ID: "bathroom", Type: office.TypeBathroom, Name: "Bathroom", X: 600, Y: 300, W: 80, H: 80, Interactive: true},
		},
		CanvasW: 720,
		CanvasH: 450,
	}
}

func testCatalog() *catalog.Catalog {
	return catalog.NewCatalog([]*catalog.Action{
		{ID: "coffee", Name: "Coffee", Category: catalog.CategoryNeed, Duration: 2,
			RequiresArea: office.TypeKitchen, State: character.StateStanding,
			NeedEffects: map[string]float64{character.NeedEnergy: 20}},
		{ID: "phone_scroll", Name: "Scroll Phone", Category: catalog.CategorySlack, Duration: 4,
			State: character.StateStanding, SlackPoints: 3,
			NeedEffects: map[string]float64{character.NeedFun: 10}},
		{ID: "zone_out", Name: "Zone Out", Category: catalog.CategorySlack, Duration: 5,
			RequiresArea: office.TypeMeeting, State: character.StateSitting, SlackPoints: 5,
			NeedEffects: map[string]float64{character.NeedComfort: 5}},
		{ID: "loud_call", Name: "Loud Sales Call", Category: catalog.CategoryCoworkerWork, Duration: 1,
			State: character.StateTalking, Coworker: true, MakesYouLookBad: true,
			Speech: []string{"closed ANOTHER deal"}},
	})
}

func testRoster() []*catalog.NPCConfig {
	return []*catalog.NPCConfig{
		{ID: "npc-chad", Name: "Chad", Role: "Sales", X: 450, Y: 100,
			Personality: catalog.NPCPersonality{Openness: 0.5, Conscientiousness: 0.5,
				Extraversion: 0.5, Agreeableness: 0.5, Neuroticism: 0.5}},
	}
}

func newTestRoom(t *testing.T, seed int64) *Room {
	t.Helper()
	return New(Options{
		ID:      "test",
		Catalog: testCatalog(),
		Layout:  testLayout(),
		Roster:  testRoster(),
		RNG:     rng.NewSeeded(seed),
		Logger:  zap.NewNop(),
		Start:   time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC),
	})
}

func join() protocol.JoinCharacter {
	return protocol.JoinCharacter{Name: "Pam", Role: "Reception"}
}

func TestTickAdvancesClock(t *testing.T) {
	r := newTestRoom(t, 1)
	start := r.lastTick

	r.Tick(start.Add(100 * time.Millisecond))

	// 100 ms at 15 game-minutes per second is 1.5 game minutes.
	assert.InDelta(t, DayStartMinutes+1.5, r.clock.Time, 1e-9)
	assert.Equal(t, 1, r.clock.Day)
}

func TestTickClampsStallDelta(t *testing.T) {
	r := newTestRoom(t, 1)
	start := r.lastTick

	r.Tick(start.Add(10 * time.Second))

	// The 10 s stall is clamped to 200 ms, so at most 3 game minutes pass.
	assert.InDelta(t, DayStartMinutes+3, r.clock.Time, 1e-9)
	assert.Equal(t, start.Add(200*time.Millisecond), r.simNow)
}

func TestDayRollsOverAtFivePM(t *testing.T) {
	r := newTestRoom(t, 1)
	r.clock.Time = DayEndMinutes - 1

	r.Tick(r.lastTick.Add(100 * time.Millisecond))

	assert.Equal(t, 2, r.clock.Day)
	assert.InDelta(t, DayStartMinutes, r.clock.Time, 1e-9)
}

func TestWeeklySummarySentAtWeekEnd(t *testing.T) {
	r := newTestRoom(t, 1)
	sender := &recordingSender{}
	r.AddPlayer("player-1", sender, join())

	r.mu.Lock()
	r.clock.Day = 5
	r.clock.Time = DayEndMinutes - 0.1
	r.stats["player-1"].SlackPoints = 75
	r.stats["player-1"].CoworkerShame = []string{"Chad closed ANOTHER deal", "Chad closed ANOTHER deal"}
	r.mu.Unlock()

	r.Tick(r.lastTick.Add(100 * time.Millisecond))

	weeklies := sender.byType(protocol.TypeWeekly)
	require.Len(t, weeklies, 1)
	weekly := weeklies[0].Payload.(protocol.Weekly)
	// The clock has already rolled onto day 6 when the summary fires.
	assert.Equal(t, 2, weekly.Week)
	assert.NotEmpty(t, weekly.Quote)
	assert.Equal(t, "Slack Artisan", weekly.Rank.Name)
	assert.Equal(t, []string{"Chad closed ANOTHER deal"}, weekly.Stats.CoworkerShame)

	// Counters reset for the new week.
	r.mu.Lock()
	assert.Equal(t, 0, r.stats["player-1"].SlackPoints)
	r.mu.Unlock()
}

func TestAddPlayerSendsSnapshotAndNotifiesOthers(t *testing.T) {
	r := newTestRoom(t, 1)
	first := &recordingSender{}
	second := &recordingSender{}

	r.AddPlayer("player-1", first, join())
	r.AddPlayer("player-2", second, protocol.JoinCharacter{Name: "Jim", Role: "Sales"})

	snaps := first.byType(protocol.TypeSnapshot)
	require.Len(t, snaps, 1)
	snap := snaps[0].Payload.(*protocol.Snapshot)
	assert.Len(t, snap.Players, 1)
	assert.Len(t, snap.Characters, 2) // one NPC plus the joining player
	assert.NotEmpty(t, snap.Actions)
	assert.Equal(t, 1, snap.Game.Day)

	joined := first.byType(protocol.TypePlayerJoined)
	require.Len(t, joined, 1)
	assert.Equal(t, "Jim", joined[0].Payload.(protocol.PlayerJoined).CharacterName)

	// The joiner does not get its own join notice.
	assert.Empty(t, second.byType(protocol.TypePlayerJoined))
}

func TestRemovePlayerNotifiesAndFiresOnEmpty(t *testing.T) {
	var emptied []string
	r := New(Options{
		ID:      "test",
		Catalog: testCatalog(),
		Layout:  testLayout(),
		Roster:  testRoster(),
		RNG:     rng.NewSeeded(1),
		Logger:  zap.NewNop(),
		Start:   time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC),
		OnEmpty: func(id string) { emptied = append(emptied, id) },
	})
	first := &recordingSender{}
	second := &recordingSender{}
	r.AddPlayer("player-1", first, join())
	r.AddPlayer("player-2", second, protocol.JoinCharacter{Name: "Jim", Role: "Sales"})

	r.RemovePlayer("player-1")
	require.Len(t, second.byType(protocol.TypePlayerLeft), 1)
	assert.Empty(t, emptied)

	r.RemovePlayer("player-2")
	assert.Equal(t, []string{"test"}, emptied)

	// Unknown player is a no-op.
	r.RemovePlayer("player-1")
	assert.Len(t, emptied, 1)
}

func TestPerformActionQueuesWalkWhenAreaRequired(t *testing.T) {
	r := newTestRoom(t, 1)
	sender := &recordingSender{}
	r.AddPlayer("player-1", sender, join())

	r.QueueInput(Command{PlayerID: "player-1", Type: protocol.TypeActionPerform, ActionID: "coffee"})
	r.Tick(r.lastTick.Add(100 * time.Millisecond))

	r.mu.Lock()
	c := r.characters["player-1"]
	assert.Equal(t, "coffee", c.QueuedAction)
	assert.Equal(t, character.StateWalking, c.State)
	require.NotNil(t, c.TargetX)
	kitchen := r.layout.FirstOfType(office.TypeKitchen)
	assert.True(t, kitchen.Contains(*c.TargetX, *c.TargetY))
	r.mu.Unlock()
}

func TestQueuedActionStartsOnArrival(t *testing.T) {
	r := newTestRoom(t, 1)
	sender := &recordingSender{}
	r.AddPlayer("player-1", sender, join())

	r.mu.Lock()
	c := r.characters["player-1"]
	kitchen := r.layout.FirstOfType(office.TypeKitchen)
	c.X, c.Y = kitchen.X+20, kitchen.Y+20
	c.QueuedAction = "coffee"
	r.mu.Unlock()

	r.Tick(r.lastTick.Add(100 * time.Millisecond))

	r.mu.Lock()
	assert.Empty(t, c.QueuedAction)
	require.NotNil(t, c.CurrentAction)
	assert.Equal(t, "coffee", c.CurrentAction.ID)
	r.mu.Unlock()
}

func TestUnknownActionReportsError(t *testing.T) {
	r := newTestRoom(t, 1)
	sender := &recordingSender{}
	r.AddPlayer("player-1", sender, join())

	r.QueueInput(Command{PlayerID: "player-1", Type: protocol.TypeActionPerform, ActionID: "teleport"})
	r.Tick(r.lastTick.Add(100 * time.Millisecond))

	errs := sender.byType(protocol.TypeError)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Payload.(protocol.ErrorMsg).Message, "unknown action")
}

func TestMoveIgnoredWhileActing(t *testing.T) {
	r := newTestRoom(t, 1)
	sender := &recordingSender{}
	r.AddPlayer("player-1", sender, join())

	r.mu.Lock()
	c := r.characters["player-1"]
	act, _ := r.catalog.ByID("phone_scroll")
	c.StartAction(act, "", r.simNow, r.rng)
	r.mu.Unlock()

	r.QueueInput(Command{PlayerID: "player-1", Type: protocol.TypePlayerMove, TargetX: 600, TargetY: 320})
	r.Tick(r.lastTick.Add(100 * time.Millisecond))

	r.mu.Lock()
	assert.Nil(t, c.TargetX)
	r.mu.Unlock()
}

func TestSpeakBroadcastsToRoom(t *testing.T) {
	r := newTestRoom(t, 1)
	first := &recordingSender{}
	second := &recordingSender{}
	r.AddPlayer("player-1", first, join())
	r.AddPlayer("player-2", second, protocol.JoinCharacter{Name: "Jim", Role: "Sales"})

	r.QueueInput(Command{PlayerID: "player-1", Type: protocol.TypePlayerSpeak, Text: "lunch?"})
	r.Tick(r.lastTick.Add(100 * time.Millisecond))

	for _, sender := range []*recordingSender{first, second} {
		speeches := sender.byType(protocol.TypeSpeech)
		require.Len(t, speeches, 1)
		speech := speeches[0].Payload.(protocol.Speech)
		assert.Equal(t, "player-1", speech.CharID)
		assert.Equal(t, "lunch?", speech.Text)
	}
}

func TestCancelActionDiscardsAppliedEffects(t *testing.T) {
	r := newTestRoom(t, 1)
	sender := &recordingSender{}
	r.AddPlayer("player-1", sender, join())

	r.mu.Lock()
	c := r.characters["player-1"]
	act, _ := r.catalog.ByID("phone_scroll")
	c.StartAction(act, "", r.simNow, r.rng)
	before := c.Needs.Get(character.NeedFun)
	r.mu.Unlock()

	r.QueueInput(Command{PlayerID: "player-1", Type: protocol.TypeActionCancel})
	r.Tick(r.lastTick.Add(100 * time.Millisecond))

	r.mu.Lock()
	assert.Nil(t, c.CurrentAction)
	assert.Equal(t, character.StateIdle, c.State)
	// Completion effects were never applied; only passive decay moved fun.
	assert.LessOrEqual(t, c.Needs.Get(character.NeedFun), before)
	assert.Equal(t, 0, c.SlackPoints)
	r.mu.Unlock()
}

func TestCoworkerCompletionShamesEveryPlayer(t *testing.T) {
	r := newTestRoom(t, 1)
	first := &recordingSender{}
	second := &recordingSender{}
	r.AddPlayer("player-1", first, join())
	r.AddPlayer("player-2", second, protocol.JoinCharacter{Name: "Jim", Role: "Sales"})

	r.mu.Lock()
	npc := r.characters["npc-chad"]
	act, _ := r.catalog.ByID("loud_call")
	npc.StartAction(act, "", r.simNow, r.rng)
	npc.ActionProgress = act.Duration // completes on next update
	r.mu.Unlock()

	r.Tick(r.lastTick.Add(100 * time.Millisecond))

	r.mu.Lock()
	for _, playerID := range []string{"player-1", "player-2"} {
		stats := r.stats[playerID]
		assert.Equal(t, -5, stats.SlackPoints, playerID)
		require.Len(t, stats.CoworkerShame, 1, playerID)
		assert.Equal(t, "Chad closed ANOTHER deal", stats.CoworkerShame[0])
	}
	r.mu.Unlock()
}

func TestPlayerCompletionTracksStats(t *testing.T) {
	r := newTestRoom(t, 1)
	sender := &recordingSender{}
	r.AddPlayer("player-1", sender, join())

	r.mu.Lock()
	c := r.characters["player-1"]
	act, _ := r.catalog.ByID("zone_out")
	c.StartAction(act, "", r.simNow, r.rng)
	c.ActionProgress = act.Duration
	r.mu.Unlock()

	r.Tick(r.lastTick.Add(100 * time.Millisecond))

	r.mu.Lock()
	stats := r.stats["player-1"]
	assert.Equal(t, 5, stats.SlackPoints)
	assert.Equal(t, 1, stats.MeetingsAvoided)
	assert.Equal(t, 0, stats.WorkDone)
	r.mu.Unlock()
}

func TestDeltaThrottlesNeeds(t *testing.T) {
	r := newTestRoom(t, 1)
	sender := &recordingSender{}
	r.AddPlayer("player-1", sender, join())

	// First tick: needs included (never broadcast before).
	r.Tick(r.lastTick.Add(100 * time.Millisecond))
	// Second tick 100 ms later: inside the throttle window.
	r.Tick(r.lastTick.Add(100 * time.Millisecond))

	deltas := sender.byType(protocol.TypeDelta)
	require.Len(t, deltas, 2)
	assert.NotEmpty(t, deltas[0].Payload.(*protocol.Delta).Needs)
	assert.Empty(t, deltas[1].Payload.(*protocol.Delta).Needs)

	// Four more ticks push simulation time exactly to the 500 ms window.
	for i := 0; i < 4; i++ {
		r.Tick(r.lastTick.Add(100 * time.Millisecond))
	}
	deltas = sender.byType(protocol.TypeDelta)
	assert.NotEmpty(t, deltas[len(deltas)-1].Payload.(*protocol.Delta).Needs)
}

func TestSeededRoomsReplayIdentically(t *testing.T) {
	run := func() []json.RawMessage {
		r := newTestRoom(t, 99)
		sender := &recordingSender{}
		r.AddPlayer("player-1", sender, join())

		for i := 0; i < 40; i++ {
			r.Tick(r.lastTick.Add(100 * time.Millisecond))
			if i%10 == 9 {
				r.RunAI()
			}
		}

		var payloads []json.RawMessage
		for _, m := range sender.byType(protocol.TypeDelta) {
			b, err := json.Marshal(m.Payload)
			require.NoError(t, err)
			payloads = append(payloads, b)
		}
		return payloads
	}

	first := run()
	second := run()
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.JSONEq(t, string(first[i]), string(second[i]), "tick %d", i)
	}
}

func TestRunAISkipsBusyNPCs(t *testing.T) {
	r := newTestRoom(t, 1)

	r.mu.Lock()
	npc := r.characters["npc-chad"]
	act, _ := r.catalog.ByID("phone_scroll")
	npc.StartAction(act, "", r.simNow, r.rng)
	r.mu.Unlock()

	r.RunAI()

	r.mu.Lock()
	assert.Equal(t, "phone_scroll", npc.CurrentAction.ID)
	assert.Zero(t, npc.ActionProgress)
	r.mu.Unlock()
}
