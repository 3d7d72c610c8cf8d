package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/naka-gawa/github-favorites/internal/domain"
)

func TestFavorites_Summary(t *testing.T) {
	testCases := []struct {
		name     string
		seed     []domain.FavoriteEntry
		expected domain.Summary
	}{
		{
			name:     "empty list",
			expected: domain.Summary{},
		},
		{
			name: "three accounts",
			seed: []domain.FavoriteEntry{octocat, hubot, monalisa},
			expected: domain.Summary{
				Count:           3,
				TotalRepos:      23,
				TotalFollowers:  6020,
				MeanRepos:       23.0 / 3.0,
				MedianRepos:     8,
				MeanFollowers:   6020.0 / 3.0,
				MedianFollowers: 900,
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			favorites, _ := newTestFavorites(t, new(mockLookuper), tc.seed...)

			got := favorites.Summary()

			assert.Equal(t, tc.expected.Count, got.Count)
			assert.Equal(t, tc.expected.TotalRepos, got.TotalRepos)
			assert.Equal(t, tc.expected.TotalFollowers, got.TotalFollowers)
			assert.InDelta(t, tc.expected.MeanRepos, got.MeanRepos, 1e-9)
			assert.InDelta(t, tc.expected.MedianRepos, got.MedianRepos, 1e-9)
			assert.InDelta(t, tc.expected.MeanFollowers, got.MeanFollowers, 1e-9)
			assert.InDelta(t, tc.expected.MedianFollowers, got.MedianFollowers, 1e-9)
		})
	}
}
