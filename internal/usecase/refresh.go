package usecase

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/naka-gawa/github-favorites/internal/domain"
)

const defaultRefreshLimit = 4

// SetRefreshConcurrency bounds the number of lookups Refresh runs at once.
func (f *Favorites) SetRefreshConcurrency(n int) {
	if n < 1 {
		n = 1
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshLimit = n
}

// Refresh re-fetches the profile of every entry and stores the new data.
// It fetches concurrently from the gateway, keeps the list order and keeps
// entries the gateway no longer resolves as they were. Any lookup error
// aborts the refresh and leaves the list untouched.
func (f *Favorites) Refresh(ctx context.Context) error {
	f.logger.Println("Usecase: Starting refresh...")

	f.mu.Lock()
	current := append([]domain.FavoriteEntry(nil), f.entries...)
	limit := f.refreshLimit
	f.mu.Unlock()

	refreshed := make([]domain.FavoriteEntry, len(current))

	// Use an errgroup to fetch all profiles concurrently.
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(limit)
	for i, entry := range current {
		eg.Go(func() error {
			latest, err := f.lookup.LookupUser(egCtx, entry.Login)
			if err != nil {
				return fmt.Errorf("failed to refresh %s: %w", entry.Login, err)
			}
			if latest.Login == "" {
				f.logger.Printf("Usecase: %s no longer resolves, keeping cached data.", entry.Login)
				refreshed[i] = entry
				return nil
			}
			refreshed[i] = latest
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}
	f.logger.Println("Usecase: All profiles fetched successfully.")

	// Entries may have been added or deleted while fetching, so merge into
	// the list as it is now rather than the snapshot.
	byLogin := make(map[string]domain.FavoriteEntry, len(current))
	for i, entry := range current {
		byLogin[entry.Login] = refreshed[i]
	}

	f.mu.Lock()
	taken := make(map[string]bool, len(f.entries))
	for _, entry := range f.entries {
		taken[entry.Login] = true
	}
	next := make([]domain.FavoriteEntry, len(f.entries))
	for i, entry := range f.entries {
		latest, ok := byLogin[entry.Login]
		switch {
		case !ok:
			next[i] = entry
		case latest.Login != entry.Login && taken[latest.Login]:
			// A renamed account must not duplicate a login already listed.
			f.logger.Printf("Usecase: %s now resolves to %s, which is already listed; keeping cached data.", entry.Login, latest.Login)
			next[i] = entry
		default:
			taken[latest.Login] = true
			next[i] = latest
		}
	}
	snapshot := f.commitLocked(next)
	f.mu.Unlock()

	f.logger.Println("Usecase: Refresh complete.")
	f.notify(snapshot)
	return nil
}
