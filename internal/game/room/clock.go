// Package room hosts the live simulation instances: each room runs its own
// tick loop over a roster of characters, processes player input, drives NPC
// decisions, and broadcasts state to connected players.
package room

import "time"

// Tick cadence and broadcast intervals.
const (
	TickRate               = 10
	TickInterval           = time.Second / TickRate
	SnapshotInterval       = 5 * time.Second
	AIThinkInterval        = 3 * time.Second
	NeedsBroadcastInterval = 500 * time.Millisecond

	// maxTickDelta caps the per-tick real-time delta so a stalled process
	// does not fast-forward the simulation when it resumes.
	maxTickDelta = 200 * time.Millisecond
)

// Game-time constants. One real second equals fifteen game minutes at 1x
// speed; the office day runs 9:00 to 17:00.
const (
	MinutesPerSecond = 15.0
	DayStartMinutes  = 540.0
	DayEndMinutes    = 1020.0
	DaysPerWeek      = 5
)

// Clock tracks the in-game calendar for one room.
type Clock struct {
	// Day is 1-based and never resets.
	Day int
	// Time is minutes after midnight, always within [DayStart, DayEnd).
	Time float64
	// Speed scales game-time progression; 1 is normal.
	Speed float64
}

// NewClock starts at 9:00 on day one.
func NewClock() *Clock {
	return &Clock{Day: 1, Time: DayStartMinutes, Speed: 1}
}

// GameMinutes converts a real-time delta to game minutes at current speed.
func (c *Clock) GameMinutes(realDelta time.Duration) float64 {
	return realDelta.Seconds() * MinutesPerSecond * c.Speed
}

// Advance adds gameMinutes to the clock and rolls day boundaries. It
// reports whether the advance crossed into a new week, which ends exactly
// when a day past the first rolls over onto a week boundary.
func (c *Clock) Advance(gameMinutes float64) (weekEnded bool) {
	c.Time += gameMinutes
	if c.Time >= DayEndMinutes {
		c.Day++
		c.Time = DayStartMinutes
		if c.Day%DaysPerWeek == 1 && c.Day > 1 {
			weekEnded = true
		}
	}
	return weekEnded
}

// Week is the 1-based week number of the current day.
func (c *Clock) Week() int {
	return (c.Day + DaysPerWeek - 1) / DaysPerWeek
}
