package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/github-favorites/internal/domain"
)

// TestFavorites_Refresh uses a table-driven approach to test refreshing.
func TestFavorites_Refresh(t *testing.T) {
	updatedOctocat := domain.FavoriteEntry{Login: "octocat", Name: "The Octocat", PublicRepos: 9, Followers: 5100}
	updatedHubot := domain.FavoriteEntry{Login: "hubot", Name: "Hubot", PublicRepos: 4, Followers: 121}

	testCases := []struct {
		name            string
		seed            []domain.FavoriteEntry
		mockResults     map[string]domain.FavoriteEntry
		mockErrs        map[string]error
		expectedEntries []domain.FavoriteEntry
		expectError     bool
	}{
		{
			name: "happy path - updates every entry and keeps order",
			seed: []domain.FavoriteEntry{octocat, hubot},
			mockResults: map[string]domain.FavoriteEntry{
				"octocat": updatedOctocat,
				"hubot":   updatedHubot,
			},
			expectedEntries: []domain.FavoriteEntry{updatedOctocat, updatedHubot},
		},
		{
			name: "unresolved account keeps its cached data",
			seed: []domain.FavoriteEntry{octocat, hubot},
			mockResults: map[string]domain.FavoriteEntry{
				"octocat": updatedOctocat,
				"hubot":   {},
			},
			expectedEntries: []domain.FavoriteEntry{updatedOctocat, hubot},
		},
		{
			name: "error case - a failed lookup aborts the refresh",
			seed: []domain.FavoriteEntry{octocat, hubot},
			mockResults: map[string]domain.FavoriteEntry{
				"octocat": updatedOctocat,
				"hubot":   {},
			},
			mockErrs:        map[string]error{"hubot": errors.New("github api error")},
			expectedEntries: []domain.FavoriteEntry{octocat, hubot},
			expectError:     true,
		},
		{
			name: "renamed account colliding with a listed login keeps its cached data",
			seed: []domain.FavoriteEntry{octocat, hubot},
			mockResults: map[string]domain.FavoriteEntry{
				"octocat": updatedOctocat,
				"hubot":   updatedOctocat,
			},
			expectedEntries: []domain.FavoriteEntry{updatedOctocat, hubot},
		},
		{
			name: "two accounts renamed to the same login keep one copy",
			seed: []domain.FavoriteEntry{octocat, hubot},
			mockResults: map[string]domain.FavoriteEntry{
				"octocat": monalisa,
				"hubot":   monalisa,
			},
			expectedEntries: []domain.FavoriteEntry{monalisa, hubot},
		},
		{
			name:            "empty case - nothing to refresh",
			seed:            nil,
			expectedEntries: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// --- Arrange ---
			lookup := new(mockLookuper)
			for login, result := range tc.mockResults {
				lookup.On("LookupUser", mock.Anything, login).Return(result, tc.mockErrs[login]).Maybe()
			}
			favorites, kv := newTestFavorites(t, lookup, tc.seed...)
			favorites.SetRefreshConcurrency(2)
			notified := 0
			favorites.OnChange(func([]domain.FavoriteEntry) { notified++ })

			// --- Act ---
			err := favorites.Refresh(context.Background())

			// --- Assert ---
			if tc.expectError {
				assert.Error(t, err)
				assert.Equal(t, 0, notified)
			} else {
				require.NoError(t, err)
				assert.Equal(t, 1, notified)
				assert.Equal(t, logins(tc.expectedEntries), storedLogins(t, kv))
			}
			if tc.expectedEntries == nil {
				assert.Empty(t, favorites.Entries())
			} else {
				assert.Equal(t, tc.expectedEntries, favorites.Entries())
			}
		})
	}
}
