package room

import (
	"github.com/finishlast/officesim/internal/game/rng"
	"github.com/finishlast/officesim/internal/protocol"
)

// weeklyQuotes are the motivational review quotes, one picked at random per
// week-end summary.
var weeklyQuotes = []string{
	`"Another week of pretending to work. Nailed it."`,
	`"I survived 40 hours of corporate America. Where's my medal?"`,
	`"They say hard work pays off. They clearly haven't met you."`,
	`"Your contribution this week was... present. You were present."`,
	`"Work smarter, not harder. You chose option C: barely."`,
	`"In a world of overachievers, you chose peace."`,
	`"Your desk misses you. You were never there."`,
	`"Productivity is overrated. You proved that this week."`,
	`"If doing nothing was an Olympic sport..."`,
	`"The office plant outperformed you. And it's fake."`,
}

// performanceRank is one slack-point bracket. Ranks are ordered by
// ascending Min; the highest bracket at or below the score wins.
type performanceRank struct {
	Min   int
	Name  string
	Color string
}

var performanceRanks = []performanceRank{
	{Min: -100, Name: "Corporate Casualty", Color: "#e94560"},
	{Min: -50, Name: "Warm Body", Color: "#e97045"},
	{Min: -10, Name: "Suspiciously Quiet", Color: "#e99545"},
	{Min: 0, Name: "Perfectly Adequate", Color: "#ffd700"},
	{Min: 30, Name: "Professional Slacker", Color: "#a0d060"},
	{Min: 60, Name: "Slack Artisan", Color: "#60d080"},
	{Min: 100, Name: "Stealth Expert", Color: "#40c0c0"},
	{Min: 150, Name: "Corporate Ninja", Color: "#4090d0"},
	{Min: 200, Name: "Absolute Legend", Color: "#9060d0"},
}

// rankFor returns the performance rank for a weekly slack-point total.
// Scores below every bracket still land in the lowest one.
func rankFor(slackPoints int) performanceRank {
	rank := performanceRanks[0]
	for _, r := range performanceRanks {
		if slackPoints >= r.Min {
			rank = r
		}
	}
	return rank
}

// pickQuote selects a weekly quote.
func pickQuote(src rng.Source) string {
	return weeklyQuotes[src.Intn(len(weeklyQuotes))]
}

// freshStats returns a zeroed weekly counter set.
func freshStats() *protocol.WeeklyStats {
	return &protocol.WeeklyStats{CoworkerShame: []string{}}
}

// shameCap limits how many distinct shame entries a summary carries.
const shameCap = 5

// dedupeShame removes repeated shame lines, keeping first-seen order, and
// caps the result.
func dedupeShame(entries []string) []string {
	seen := make(map[string]struct{}, len(entries))
	unique := make([]string, 0, len(entries))
	for _, e := range entries {
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		unique = append(unique, e)
		if len(unique) == shameCap {
			break
		}
	}
	return unique
}
