package character

import "github.com/finishlast/officesim/internal/game/rng"

// Work-day anchors in minutes after midnight (9:00 and 17:00).
const (
	workStartMinutes = 540
	workEndMinutes   = 1020
)

// Schedule is a character's personal daily routine, fixed at creation.
type Schedule struct {
	WakeUp    int // minutes after midnight
	WorkStart int
	LunchTime int
	WorkEnd   int
	// PreferredBreakSpots orders the area types this character drifts to
	// when off-task.
	PreferredBreakSpots []string
}

// NewSchedule derives a routine from personality: the conscientious wake
// early, extraverts break where people are.
func NewSchedule(p Personality, src rng.Source) Schedule {
	spots := []string{"bathroom", "cubicle"}
	if p.Extraversion > 0.5 {
		spots = []string{"lounge", "kitchen"}
	}
	return Schedule{
		WakeUp:              workStartMinutes + int((1-p.Conscientiousness)*60),
		WorkStart:           workStartMinutes,
		LunchTime:           720 + src.Intn(60),
		WorkEnd:             workEndMinutes,
		PreferredBreakSpots: spots,
	}
}
