// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"slices"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/naka-gawa/github-favorites/internal/domain"
	"github.com/naka-gawa/github-favorites/internal/gateway"
	"github.com/naka-gawa/github-favorites/internal/storage"
)

// StorageKey is the single key the whole favorites list is stored under.
const StorageKey = "@github-favorites:"

var (
	// ErrDuplicateEntry is returned by Add when the account is already in the list.
	ErrDuplicateEntry = errors.New("account already registered")
	// ErrAccountNotFound is returned by Add when the lookup resolves no account.
	ErrAccountNotFound = errors.New("account not found")
)

// Favorites is the use case owning the persisted favorites list.
// The list is replaced, never mutated in place, and written back to
// storage after every change. Listeners registered with OnChange are
// told about each new list.
type Favorites struct {
	kv     storage.KV
	lookup gateway.Lookuper
	logger *log.Logger

	mu        sync.Mutex
	entries   []domain.FavoriteEntry
	listeners []func([]domain.FavoriteEntry)

	inflight     singleflight.Group
	refreshLimit int
}

// NewFavorites creates a Favorites use case and loads the stored list.
func NewFavorites(kv storage.KV, lookup gateway.Lookuper, logger *log.Logger) *Favorites {
	f := &Favorites{
		kv:           kv,
		lookup:       lookup,
		logger:       logger,
		refreshLimit: defaultRefreshLimit,
	}
	f.Load()
	return f
}

// Load replaces the in-memory list with the stored one. Missing or
// unreadable data yields an empty list.
func (f *Favorites) Load() {
	entries := []domain.FavoriteEntry{}

	raw, err := f.kv.Get(StorageKey)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		f.logger.Println("Usecase: No stored favorites, starting empty.")
	case err != nil:
		f.logger.Printf("Usecase: Failed to read stored favorites, starting empty: %v", err)
	default:
		var stored []domain.FavoriteEntry
		if err := json.Unmarshal(raw, &stored); err != nil {
			f.logger.Printf("Usecase: Stored favorites are not valid JSON, starting empty: %v", err)
		} else if stored != nil {
			entries = stored
		}
	}

	f.mu.Lock()
	f.entries = entries
	f.mu.Unlock()
	f.logger.Printf("Usecase: Loaded %d favorites.", len(entries))
}

// Save writes the current list to storage. Failures are logged only.
func (f *Favorites) Save() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saveLocked()
}

func (f *Favorites) saveLocked() {
	data, err := json.Marshal(f.entries)
	if err != nil {
		f.logger.Printf("Usecase: Failed to encode favorites: %v", err)
		return
	}
	if err := f.kv.Set(StorageKey, data); err != nil {
		f.logger.Printf("Usecase: Failed to save favorites: %v", err)
	}
}

// Entries returns a copy of the current list, most recent first.
func (f *Favorites) Entries() []domain.FavoriteEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.FavoriteEntry(nil), f.entries...)
}

// OnChange registers fn to be called with the new list after every change.
func (f *Favorites) OnChange(fn func([]domain.FavoriteEntry)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listeners = append(f.listeners, fn)
}

// Add looks up username and puts the account at the head of the list.
//
// Concurrent calls for the same username share one lookup; only the first
// to commit succeeds and the rest get ErrDuplicateEntry. The duplicate
// check is repeated against the resolved login, which catches a username
// typed in a different case than the stored one.
func (f *Favorites) Add(ctx context.Context, username string) error {
	f.mu.Lock()
	exists := indexOf(f.entries, username) >= 0
	f.mu.Unlock()
	if exists {
		return ErrDuplicateEntry
	}

	v, err, shared := f.inflight.Do(username, func() (interface{}, error) {
		return f.lookup.LookupUser(ctx, username)
	})
	if err != nil {
		return fmt.Errorf("failed to look up %s: %w", username, err)
	}
	if shared {
		f.logger.Printf("Usecase: Lookup of %s was shared with a concurrent add.", username)
	}
	entry := v.(domain.FavoriteEntry)
	if entry.Login == "" {
		return ErrAccountNotFound
	}

	f.mu.Lock()
	if indexOf(f.entries, entry.Login) >= 0 {
		f.mu.Unlock()
		return ErrDuplicateEntry
	}
	next := make([]domain.FavoriteEntry, 0, len(f.entries)+1)
	next = append(next, entry)
	next = append(next, f.entries...)
	snapshot := f.commitLocked(next)
	f.mu.Unlock()

	f.logger.Printf("Usecase: Added %s.", entry.Login)
	f.notify(snapshot)
	return nil
}

// Delete removes every entry with the same login as entry.
// Deleting a login that is not in the list leaves it unchanged.
func (f *Favorites) Delete(entry domain.FavoriteEntry) {
	f.mu.Lock()
	next := make([]domain.FavoriteEntry, 0, len(f.entries))
	for _, e := range f.entries {
		if e.Login != entry.Login {
			next = append(next, e)
		}
	}
	snapshot := f.commitLocked(next)
	f.mu.Unlock()

	f.logger.Printf("Usecase: Deleted %s.", entry.Login)
	f.notify(snapshot)
}

// commitLocked installs next as the list, persists it and returns a copy
// for listeners. f.mu must be held.
func (f *Favorites) commitLocked(next []domain.FavoriteEntry) []domain.FavoriteEntry {
	f.entries = next
	f.saveLocked()
	return append([]domain.FavoriteEntry(nil), next...)
}

func (f *Favorites) notify(snapshot []domain.FavoriteEntry) {
	f.mu.Lock()
	listeners := slices.Clone(f.listeners)
	f.mu.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
}

func indexOf(entries []domain.FavoriteEntry, login string) int {
	for i, e := range entries {
		if e.Login == login {
			return i
		}
	}
	return -1
}
