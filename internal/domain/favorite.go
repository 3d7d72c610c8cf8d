// Package domain contains the core data structures and domain logic for the application.
package domain

import (
	"encoding/json"
	"fmt"
)

const githubWebURL = "https://github.com"

// FavoriteEntry is one tracked GitHub account and its cached profile metrics.
// It is the core domain entity of this application.
//
// Only the fields the application reads are modelled. Everything else the
// lookup returned is kept in Extra and written back unchanged, so a stored
// entry carries the full upstream profile.
type FavoriteEntry struct {
	Login       string `json:"login"`
	Name        string `json:"name"`
	PublicRepos int    `json:"public_repos"`
	Followers   int    `json:"followers"`

	Extra map[string]json.RawMessage `json:"-"`
}

// entryFields aliases FavoriteEntry without its JSON methods.
type entryFields FavoriteEntry

var knownFields = []string{"login", "name", "public_repos", "followers"}

// UnmarshalJSON decodes the modelled fields and keeps the rest in Extra.
func (e *FavoriteEntry) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var fields entryFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("failed to decode favorite entry: %w", err)
	}
	for _, key := range knownFields {
		delete(raw, key)
	}
	fields.Extra = nil
	if len(raw) > 0 {
		fields.Extra = raw
	}
	*e = FavoriteEntry(fields)
	return nil
}

// MarshalJSON writes the modelled fields merged over Extra.
func (e FavoriteEntry) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(e.Extra)+len(knownFields))
	for key, value := range e.Extra {
		out[key] = value
	}
	out["login"] = e.Login
	out["name"] = e.Name
	out["public_repos"] = e.PublicRepos
	out["followers"] = e.Followers
	return json.Marshal(out)
}

// AvatarURL is the avatar image derived from the login.
func (e FavoriteEntry) AvatarURL() string {
	return fmt.Sprintf("%s/%s.png", githubWebURL, e.Login)
}

// ProfileURL is the public profile page derived from the login.
func (e FavoriteEntry) ProfileURL() string {
	return fmt.Sprintf("%s/%s", githubWebURL, e.Login)
}
