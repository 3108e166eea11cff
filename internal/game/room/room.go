package room

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/finishlast/officesim/internal/game/action"
	"github.com/finishlast/officesim/internal/game/ai"
	"github.com/finishlast/officesim/internal/game/catalog"
	"github.com/finishlast/officesim/internal/game/character"
	"github.com/finishlast/officesim/internal/game/office"
	"github.com/finishlast/officesim/internal/game/rng"
	"github.com/finishlast/officesim/internal/protocol"
)

// Sender delivers one outbound message to a connected player. Send must not
// block; slow clients drop messages rather than stalling the tick loop.
type Sender interface {
	Send(msgType string, payload any)
}

// WeeklyRecorder persists end-of-week results. Recording is best-effort:
// the room logs failures and moves on.
type WeeklyRecorder interface {
	RecordWeekly(ctx context.Context, roomID, playerID string, week int, stats protocol.WeeklyStats, rank string) error
}

// playerConn is one connected player inside a room.
type playerConn struct {
	id          string
	characterID string
	sender      Sender
}

// Options configures a new room.
type Options struct {
	ID      string
	Catalog *catalog.Catalog
	Layout  *office.Layout
	Roster  []*catalog.NPCConfig
	RNG     rng.Source
	Logger  *zap.Logger
	// Start anchors the simulation timestamp; tests pass a fixed time.
	Start time.Time
	// Recorder is optional weekly-stats persistence.
	Recorder WeeklyRecorder
	// OnEmpty is called after the last player leaves.
	OnEmpty func(roomID string)
}

// Room is one live office simulation. All game state is owned by the tick
// loop; transport goroutines only touch the input queue and the player map
// through the mutex-guarded entry points.
type Room struct {
	id  string
	log *zap.Logger

	catalog   *catalog.Catalog
	layout    *office.Layout
	processor *action.Processor
	rng       rng.Source

	mu          sync.Mutex
	clock       *Clock
	characters  map[string]*character.Character
	order       []string
	npcs        map[string]*ai.Engine
	players     map[string]*playerConn
	playerOrder []string
	stats       map[string]*protocol.WeeklyStats
	inputs      inputQueue
	serializer  *Serializer

	// simNow is the simulation timestamp, advanced by clamped real-time
	// deltas so stall recovery and timestamps stay deterministic in tests.
	simNow   time.Time
	lastTick time.Time

	recorder WeeklyRecorder
	onEmpty  func(roomID string)
}

// New creates a room and spawns its default NPC roster.
//
// Precondition: opts.Catalog, opts.Layout, opts.RNG, and opts.Logger must
// not be nil.
func New(opts Options) *Room {
	if opts.Catalog == nil || opts.Layout == nil || opts.RNG == nil || opts.Logger == nil {
		panic("room.New: catalog, layout, rng, and logger must not be nil")
	}

	start := opts.Start
	if start.IsZero() {
		start = time.Now()
	}

	r := &Room{
		id:         opts.ID,
		log:        opts.Logger.With(zap.String("room", opts.ID)),
		catalog:    opts.Catalog,
		layout:     opts.Layout,
		processor:  action.NewProcessor(opts.Catalog, opts.Layout),
		rng:        opts.RNG,
		clock:      NewClock(),
		characters: make(map[string]*character.Character),
		npcs:       make(map[string]*ai.Engine),
		players:    make(map[string]*playerConn),
		stats:      make(map[string]*protocol.WeeklyStats),
		serializer: NewSerializer(opts.Catalog),
		simNow:     start,
		lastTick:   start,
		recorder:   opts.Recorder,
		onEmpty:    opts.OnEmpty,
	}

	for _, npc := range opts.Roster {
		r.spawnNPC(npc)
	}

	return r
}

// ID returns the room identifier.
func (r *Room) ID() string { return r.id }

// PlayerCount returns the number of connected players.
func (r *Room) PlayerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players)
}

func (r *Room) spawnNPC(cfg *catalog.NPCConfig) {
	c := character.New(character.Config{
		ID:   cfg.ID,
		Name: cfg.Name,
		Role: cfg.Role,
		X:    cfg.X,
		Y:    cfg.Y,
		Appearance: character.Appearance{
			SkinTone:   cfg.SkinTone,
			HairColor:  cfg.HairColor,
			HairStyle:  cfg.HairStyle,
			ShirtColor: cfg.ShirtColor,
			PantsColor: cfg.PantsColor,
			EyeColor:   cfg.EyeColor,
		},
		Personality: character.PersonalityConfig{
			Openness:          &cfg.Personality.Openness,
			Conscientiousness: &cfg.Personality.Conscientiousness,
			Extraversion:      &cfg.Personality.Extraversion,
			Agreeableness:     &cfg.Personality.Agreeableness,
			Neuroticism:       &cfg.Personality.Neuroticism,
		},
	}, r.rng)

	r.characters[c.ID] = c
	r.order = append(r.order, c.ID)
	r.npcs[c.ID] = ai.NewEngine(r.catalog, r.layout)
}

// AddPlayer spawns a character for a joining player near reception and
// sends them a full snapshot. Everyone already present is told who joined.
func (r *Room) AddPlayer(playerID string, sender Sender, join protocol.JoinCharacter) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := character.New(character.Config{
		ID:       playerID,
		Name:     join.Name,
		IsPlayer: true,
		Role:     join.Role,
		X:        180 + r.rng.Float64()*100,
		Y:        260 + r.rng.Float64()*40,
		Appearance: character.Appearance{
			SkinTone:   join.SkinTone,
			HairColor:  join.HairColor,
			HairStyle:  join.HairStyle,
			ShirtColor: join.ShirtColor,
		},
	}, r.rng)

	r.characters[playerID] = c
	r.order = append(r.order, playerID)
	r.players[playerID] = &playerConn{id: playerID, characterID: playerID, sender: sender}
	r.playerOrder = append(r.playerOrder, playerID)
	r.stats[playerID] = freshStats()

	sender.Send(protocol.TypeSnapshot, r.serializer.Snapshot(r, r.simNow))

	for _, id := range r.playerOrder {
		if id == playerID {
			continue
		}
		r.players[id].sender.Send(protocol.TypePlayerJoined, protocol.PlayerJoined{
			PlayerID:      playerID,
			CharacterName: c.Name,
		})
	}

	r.log.Info("player joined",
		zap.String("player", playerID),
		zap.String("name", c.Name),
		zap.Int("players", len(r.players)))
}

// RemovePlayer drops a player and their character. Removing an unknown
// player is a no-op. When the room empties the OnEmpty hook fires.
func (r *Room) RemovePlayer(playerID string) {
	r.mu.Lock()

	p, ok := r.players[playerID]
	if !ok {
		r.mu.Unlock()
		return
	}

	delete(r.characters, p.characterID)
	delete(r.stats, playerID)
	delete(r.players, playerID)
	r.order = removeID(r.order, p.characterID)
	r.playerOrder = removeID(r.playerOrder, playerID)

	for _, id := range r.playerOrder {
		r.players[id].sender.Send(protocol.TypePlayerLeft, protocol.PlayerLeft{PlayerID: playerID})
	}

	empty := len(r.players) == 0
	r.log.Info("player left", zap.String("player", playerID), zap.Int("players", len(r.players)))
	r.mu.Unlock()

	if empty && r.onEmpty != nil {
		r.onEmpty(r.id)
	}
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

// QueueInput enqueues a player command for the next tick. Safe to call from
// transport goroutines.
func (r *Room) QueueInput(cmd Command) {
	r.inputs.push(cmd)
}

// Run drives the room loop until ctx is cancelled.
func (r *Room) Run(ctx context.Context) {
	tick := time.NewTicker(TickInterval)
	snapshot := time.NewTicker(SnapshotInterval)
	think := time.NewTicker(AIThinkInterval)
	defer tick.Stop()
	defer snapshot.Stop()
	defer think.Stop()

	r.log.Info("room started", zap.Int("tick_rate_hz", TickRate), zap.Int("npcs", len(r.npcs)))

	for {
		select {
		case <-ctx.Done():
			r.log.Info("room stopped")
			return
		case now := <-tick.C:
			r.Tick(now)
		case <-snapshot.C:
			r.BroadcastSnapshot()
		case <-think.C:
			r.RunAI()
		}
	}
}

// Tick advances the simulation by one frame: inputs, clock, characters,
// then the delta broadcast. The real-time delta is clamped so a stalled
// host cannot warp the simulation on resume.
func (r *Room) Tick(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	realDelta := now.Sub(r.lastTick)
	if realDelta > maxTickDelta {
		realDelta = maxTickDelta
	}
	if realDelta < 0 {
		realDelta = 0
	}
	r.lastTick = now
	r.simNow = r.simNow.Add(realDelta)

	gameMinutes := r.clock.GameMinutes(realDelta)

	r.processInputs()

	if weekEnded := r.clock.Advance(gameMinutes); weekEnded {
		r.weeklySummary()
	}

	for _, id := range r.order {
		r.updateCharacter(r.characters[id], gameMinutes, realDelta)
	}

	if len(r.players) > 0 {
		delta := r.serializer.Delta(r, r.simNow)
		r.broadcast(protocol.TypeDelta, delta)
	}
}

// updateCharacter runs one character's frame. A panic in one character's
// update is logged and isolated so the rest of the room keeps running.
func (r *Room) updateCharacter(c *character.Character, gameMinutes float64, realDelta time.Duration) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("character update panicked",
				zap.String("character", c.ID),
				zap.Any("panic", rec))
		}
	}()

	c.Needs.Update(gameMinutes)
	c.Emotions.UpdateFromNeeds(c.Needs)
	c.UpdateMovement(gameMinutes)
	completed := c.UpdateAction(gameMinutes, r.simNow)
	c.UpdateAnimation(float64(realDelta.Milliseconds()))

	if completed != nil {
		if c.IsPlayer {
			r.trackPlayerCompletion(c, completed)
		} else if completed.MakesYouLookBad {
			r.spreadShame(c, completed)
		}
	}

	// A queued action fires once the walk to its area finishes.
	if c.IsPlayer && c.QueuedAction != "" && c.State == character.StateIdle {
		ctx := r.buildContext(c)
		result := r.processor.TryPerform(c, c.QueuedAction, ctx)
		if result.Success {
			c.QueuedAction = ""
		} else if !result.NeedsMove {
			// Target area moved out from under us or a companion left;
			// drop the intent rather than retry forever.
			c.QueuedAction = ""
		}
	}
}

// spreadShame charges every connected player for an NPC's disruptive
// stunt: a shame line plus a five-point deduction each.
func (r *Room) spreadShame(npc *character.Character, completed *catalog.Action) {
	line := "worked harder than you"
	if len(completed.Speech) > 0 {
		line = completed.Speech[0]
	}
	entry := fmt.Sprintf("%s %s", npc.Name, line)
	for _, stats := range r.stats {
		stats.CoworkerShame = append(stats.CoworkerShame, entry)
		stats.SlackPoints -= 5
	}
}

// trackPlayerCompletion bumps the player's weekly counters for a finished
// action.
func (r *Room) trackPlayerCompletion(c *character.Character, completed *catalog.Action) {
	stats, ok := r.stats[c.ID]
	if !ok {
		return
	}

	stats.SlackPoints += completed.SlackPoints
	if completed.Category == catalog.CategoryWork {
		stats.WorkDone++
	}
	if completed.RequiresArea == office.TypeMeeting && completed.Category == catalog.CategorySlack {
		stats.MeetingsAvoided++
	}
	if completed.ID == "coffee" {
		stats.CoffeeDrunk++
	}
	if completed.RequiresArea == office.TypeBathroom {
		stats.BathroomTrips++
	}
}

// processInputs applies every queued command in arrival order.
func (r *Room) processInputs() {
	for _, cmd := range r.inputs.drain() {
		c, ok := r.characters[cmd.PlayerID]
		if !ok {
			continue
		}

		switch cmd.Type {
		case protocol.TypeActionPerform:
			ctx := r.buildContext(c)
			result := r.processor.TryPerform(c, cmd.ActionID, ctx)
			if result.NeedsMove {
				c.QueuedAction = cmd.ActionID
				c.MoveTo(result.Target.X, result.Target.Y)
			} else if result.Err != nil {
				if p, ok := r.players[cmd.PlayerID]; ok {
					p.sender.Send(protocol.TypeError, protocol.ErrorMsg{Message: result.Err.Error()})
				}
			}

		case protocol.TypeActionCancel:
			c.CancelAction()

		case protocol.TypePlayerMove:
			if c.CurrentAction == nil {
				c.MoveTo(clampCoord(cmd.TargetX, r.layout.CanvasW), clampCoord(cmd.TargetY, r.layout.CanvasH))
			}

		case protocol.TypePlayerSpeak:
			c.Say(cmd.Text, 3000)
			r.broadcast(protocol.TypeSpeech, protocol.Speech{
				CharID:   c.ID,
				Text:     cmd.Text,
				Duration: 3000,
			})
		}
	}
}

func clampCoord(v, max float64) float64 {
	return math.Max(0, math.Min(v, max))
}

// RunAI gives every idle NPC a decision. Busy or walking NPCs are skipped
// so in-progress intents play out.
func (r *Room) RunAI() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range r.order {
		engine, ok := r.npcs[id]
		if !ok {
			continue
		}
		c := r.characters[id]
		if c.CurrentAction != nil || c.State == character.StateWalking {
			continue
		}

		ctx := r.buildContext(c)
		decision := engine.Think(c, ctx)
		if decision == nil {
			continue
		}
		if decision.MoveTo != nil {
			c.MoveTo(decision.MoveTo.X, decision.MoveTo.Y)
		}
		if decision.Action != nil {
			r.processor.Execute(c, decision.Action, ctx)
		}
	}
}

// BroadcastSnapshot pushes the full state to every player.
func (r *Room) BroadcastSnapshot() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.players) == 0 {
		return
	}
	r.broadcast(protocol.TypeSnapshot, r.serializer.Snapshot(r, r.simNow))
}

// buildContext assembles the surroundings for one character. Iteration
// follows the stable character order so identical seeds replay identically.
func (r *Room) buildContext(c *character.Character) *action.Context {
	all := make([]*character.Character, 0, len(r.order))
	var nearby []*character.Character
	for _, id := range r.order {
		other := r.characters[id]
		all = append(all, other)
		if other.ID != c.ID && math.Hypot(other.X-c.X, other.Y-c.Y) < action.SocialRange {
			nearby = append(nearby, other)
		}
	}

	var target *character.Character
	if len(nearby) > 0 {
		target = nearby[0]
	}

	return &action.Context{
		Characters: all,
		Nearby:     nearby,
		Target:     target,
		Area:       c.CurrentArea(r.layout),
		TimeOfDay:  r.clock.Time,
		Day:        r.clock.Day,
		Now:        r.simNow,
		RNG:        r.rng,
	}
}

// weeklySummary closes out the week: every player gets a quote, their
// deduplicated stats, and a performance rank, then counters reset.
func (r *Room) weeklySummary() {
	quote := pickQuote(r.rng)
	week := r.clock.Week()

	for _, id := range r.playerOrder {
		p := r.players[id]
		stats, ok := r.stats[id]
		if !ok {
			continue
		}

		rank := rankFor(stats.SlackPoints)
		summary := *stats
		summary.CoworkerShame = dedupeShame(stats.CoworkerShame)

		p.sender.Send(protocol.TypeWeekly, protocol.Weekly{
			Week:  week,
			Quote: quote,
			Stats: summary,
			Rank:  protocol.WeeklyRank{Name: rank.Name, Color: rank.Color},
		})

		if r.recorder != nil {
			go r.recordWeekly(id, week, summary, rank.Name)
		}

		r.stats[id] = freshStats()
	}
}

func (r *Room) recordWeekly(playerID string, week int, stats protocol.WeeklyStats, rank string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.recorder.RecordWeekly(ctx, r.id, playerID, week, stats, rank); err != nil {
		r.log.Warn("weekly stats not recorded",
			zap.String("player", playerID),
			zap.Int("week", week),
			zap.Error(err))
	}
}

// broadcast sends to every connected player. Callers hold the room lock.
func (r *Room) broadcast(msgType string, payload any) {
	for _, id := range r.playerOrder {
		r.players[id].sender.Send(msgType, payload)
	}
}
