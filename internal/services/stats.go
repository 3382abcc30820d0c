package services

import (
	"math"

	"github.com/quizdeck/quizdeck-be/internal/models"
)

// StatsAggregator recomputes the derived Stats aggregate from a user's game
// history. It is the only sanctioned way to bring stats back in line with
// history; the direct stats-patch path deliberately bypasses it.
type StatsAggregator struct{}

// Recompute rebuilds GamesPlayed, AverageScore and HighScore from
// u.GameHistory. It must only be called after a record has been appended, so
// the history is never empty here and the mean is always defined.
func (StatsAggregator) Recompute(u *models.User) {
	var sum, high float64
	for _, rec := range u.GameHistory {
		sum += rec.Percentage
		if rec.Percentage > high {
			high = rec.Percentage
		}
	}

	u.Stats.GamesPlayed = len(u.GameHistory)
	// math.Round rounds half away from zero, matching the original scoring.
	u.Stats.AverageScore = int(math.Round(sum / float64(len(u.GameHistory))))
	u.Stats.HighScore = high
}
