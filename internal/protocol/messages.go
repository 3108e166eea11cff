package protocol

// ---------- Inbound payloads ----------

// JoinRoom asks to enter (or create) a room with a customized character.
type JoinRoom struct {
	RoomID     string        `json:"roomId"`
	PlayerName string        `json:"playerName"`
	Character  JoinCharacter `json:"character"`
}

// JoinCharacter is the client-chosen character customization.
type JoinCharacter struct {
	Name       string `json:"name"`
	Role       string `json:"role"`
	SkinTone   string `json:"skinTone"`
	HairColor  string `json:"hairColor"`
	HairStyle  string `json:"hairStyle"`
	ShirtColor string `json:"shirtColor"`
}

// PerformAction requests starting a catalog action.
type PerformAction struct {
	ActionID string `json:"actionId"`
}

// Move requests walking to a canvas position.
type Move struct {
	TargetX float64 `json:"targetX"`
	TargetY float64 `json:"targetY"`
}

// Speak requests a speech bubble visible to the whole room.
type Speak struct {
	Text string `json:"text"`
}

// ---------- Outbound payloads ----------

// Snapshot is the full room state, sent on join and periodically.
type Snapshot struct {
	Timestamp  int64            `json:"timestamp"`
	Game       GameClock        `json:"game"`
	Characters []CharacterState `json:"characters"`
	Players    []PlayerRef      `json:"players"`
	Actions    []ActionInfo     `json:"actions"`
}

// GameClock is the room clock as shown to clients.
type GameClock struct {
	Day   int     `json:"day"`
	Time  int     `json:"time"` // minutes after midnight, rounded
	Speed float64 `json:"speed"`
}

// PlayerRef links a connected player to its character.
type PlayerRef struct {
	ID          string `json:"id"`
	CharacterID string `json:"characterId"`
}

// ActionInfo is the client-facing slice of a catalog action.
type ActionInfo struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Category         string  `json:"category"`
	Duration         float64 `json:"duration"`
	RequiresArea     string  `json:"requiresArea,omitempty"`
	SlackPoints      int     `json:"slackPoints"`
	IsCoworkerAction bool    `json:"isCoworkerAction"`
}

// CharacterState is the full per-character snapshot record.
type CharacterState struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	IsPlayer      bool              `json:"isPlayer"`
	Role          string            `json:"role"`
	X             int               `json:"x"`
	Y             int               `json:"y"`
	FacingRight   bool              `json:"facingRight"`
	State         string            `json:"state"`
	Expression    string            `json:"expression"`
	AnimFrame     int               `json:"animFrame"`
	Appearance    AppearanceState   `json:"appearance"`
	Needs         map[string]int    `json:"needs"`
	Emotion       EmotionState      `json:"emotion"`
	Personality   PersonalityState  `json:"personality"`
	CurrentAction *CurrentAction    `json:"currentAction"`
	SpeechBubble  string            `json:"speechBubble,omitempty"`
	SlackPoints   int               `json:"slackPoints"`
}

// AppearanceState mirrors the cosmetic character fields.
type AppearanceState struct {
	SkinTone   string `json:"skinTone"`
	HairColor  string `json:"hairColor"`
	HairStyle  string `json:"hairStyle"`
	ShirtColor string `json:"shirtColor"`
	PantsColor string `json:"pantsColor"`
	EyeColor   string `json:"eyeColor"`
}

// EmotionState is the dominant emotion plus the raw intensity table.
type EmotionState struct {
	Dominant string             `json:"dominant"`
	Emoji    string             `json:"emoji"`
	Values   map[string]float64 `json:"values"`
}

// PersonalityState exposes only human-readable trait descriptions; raw
// trait numbers stay server-side.
type PersonalityState struct {
	Traits []string `json:"traits"`
}

// CurrentAction describes an in-progress action.
type CurrentAction struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Progress int     `json:"progress"` // game minutes, rounded
	Duration float64 `json:"duration"`
}

// Delta is the compact per-tick update. Needs is only populated on the
// throttled needs broadcast.
type Delta struct {
	T     int64              `json:"t"`
	G     DeltaClock         `json:"g"`
	C     []CharacterCompact `json:"c"`
	Needs []CharacterNeeds   `json:"n,omitempty"`
}

// DeltaClock is the compact clock record inside a delta.
type DeltaClock struct {
	Day     int `json:"d"`
	Minutes int `json:"m"`
}

// CharacterCompact is the per-tick character record. Field keys are single
// letters to keep tick payloads small at 10 updates per second.
type CharacterCompact struct {
	ID             string `json:"i"`
	X              int    `json:"x"`
	Y              int    `json:"y"`
	FacingRight    int    `json:"f"` // 1 or 0
	State          string `json:"s"`
	ActionProgress int    `json:"ap"` // percent of duration
	ActionID       string `json:"ac,omitempty"`
	Speech         string `json:"sp,omitempty"`
	Expression     string `json:"ex"`
	AnimFrame      int    `json:"af"`
}

// CharacterNeeds is the compact needs record, rounded to integers.
type CharacterNeeds struct {
	ID      string `json:"i"`
	Hunger  int    `json:"h"`
	Energy  int    `json:"e"`
	Social  int    `json:"s"`
	Comfort int    `json:"c"`
	Fun     int    `json:"f"`
	Hygiene int    `json:"y"`
	Bladder int    `json:"b"`
}

// Weekly is the end-of-week performance review.
type Weekly struct {
	Week  int         `json:"week"`
	Quote string      `json:"quote"`
	Stats WeeklyStats `json:"stats"`
	Rank  WeeklyRank  `json:"rank"`
}

// WeeklyStats is a player's accumulated weekly counters.
type WeeklyStats struct {
	SlackPoints     int      `json:"slackPoints"`
	MeetingsAvoided int      `json:"meetingsAvoided"`
	WorkDone        int      `json:"workDone"`
	CoffeeDrunk     int      `json:"coffeeDrunk"`
	BathroomTrips   int      `json:"bathroomTrips"`
	CoworkerShame   []string `json:"coworkerShame"`
}

// WeeklyRank is the performance rank assigned from slack points.
type WeeklyRank struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Speech announces a speech bubble to the room.
type Speech struct {
	CharID   string `json:"charId"`
	Text     string `json:"text"`
	Duration int    `json:"duration"` // milliseconds
}

// PlayerJoined announces a new player to everyone already in the room.
type PlayerJoined struct {
	PlayerID      string `json:"playerId"`
	CharacterName string `json:"characterName"`
}

// PlayerLeft announces a departure.
type PlayerLeft struct {
	PlayerID string `json:"playerId"`
}

// ErrorMsg reports a rejected request.
type ErrorMsg struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}
