// Package action validates and executes character actions against the
// immutable catalog. The processor is server-authoritative: clients and NPCs
// alike go through it.
package action

import (
	"time"

	"github.com/finishlast/officesim/internal/game/character"
	"github.com/finishlast/officesim/internal/game/office"
	"github.com/finishlast/officesim/internal/game/rng"
)

// SocialRange is the distance within which characters count as nearby.
const SocialRange = 100

// Context carries the per-tick surroundings an action is evaluated in.
// Rooms build one per character per evaluation.
type Context struct {
	// Characters is every character in the room.
	Characters []*character.Character
	// Nearby is every other character within SocialRange, nearest not
	// guaranteed first.
	Nearby []*character.Character
	// Target is the first nearby character, or nil.
	Target *character.Character
	// Area is the area the character currently stands in, or nil.
	Area *office.Area
	// TimeOfDay is the game clock in minutes after midnight.
	TimeOfDay float64
	// Day is the current game day (1-based).
	Day int
	// Now is the room's simulation timestamp.
	Now time.Time
	// RNG is the room's randomness source.
	RNG rng.Source
}
