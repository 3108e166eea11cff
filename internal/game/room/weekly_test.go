package room

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestRankForBrackets(t *testing.T) {
	cases := map[int]string{
		-500: "Corporate Casualty",
		-100: "Corporate Casualty",
		-50:  "Warm Body",
		-1:   "Suspiciously Quiet",
		0:    "Perfectly Adequate",
		29:   "Perfectly Adequate",
		30:   "Professional Slacker",
		99:   "Slack Artisan",
		100:  "Stealth Expert",
		150:  "Corporate Ninja",
		200:  "Absolute Legend",
		9999: "Absolute Legend",
	}
	for points, want := range cases {
		assert.Equal(t, want, rankFor(points).Name, "points=%d", points)
	}
}

func TestRankForAlwaysAssigns(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		points := rapid.IntRange(-10000, 10000).Draw(t, "points")
		rank := rankFor(points)
		assert.NotEmpty(t, rank.Name)
		if points >= performanceRanks[0].Min {
			assert.LessOrEqual(t, rank.Min, points, "rank bracket must not exceed the score")
		}
	})
}

func TestDedupeShame(t *testing.T) {
	in := []string{"a", "b", "a", "c", "b", "d", "e", "f", "g"}
	out := dedupeShame(in)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, out)

	assert.Empty(t, dedupeShame(nil))
}
