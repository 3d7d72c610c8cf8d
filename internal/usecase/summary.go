package usecase

import (
	"github.com/montanaflynn/stats"

	"github.com/naka-gawa/github-favorites/internal/domain"
)

// Summary computes aggregate figures over the current list.
func (f *Favorites) Summary() domain.Summary {
	entries := f.Entries()
	summary := domain.Summary{Count: len(entries)}
	if len(entries) == 0 {
		return summary
	}

	repos := make(stats.Float64Data, 0, len(entries))
	followers := make(stats.Float64Data, 0, len(entries))
	for _, e := range entries {
		summary.TotalRepos += e.PublicRepos
		summary.TotalFollowers += e.Followers
		repos = append(repos, float64(e.PublicRepos))
		followers = append(followers, float64(e.Followers))
	}

	// The data is never empty here, which is the only error these return.
	summary.MeanRepos, _ = stats.Mean(repos)
	summary.MedianRepos, _ = stats.Median(repos)
	summary.MeanFollowers, _ = stats.Mean(followers)
	summary.MedianFollowers, _ = stats.Median(followers)
	return summary
}
