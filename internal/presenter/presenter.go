// Package presenter projects the favorites list onto a rendering surface
// and turns user gestures on that surface into store calls.
//
// The presenter never touches the list itself. It re-renders whenever the
// store reports a change, so the surface always shows the latest list.
package presenter

import (
	"context"
	"errors"
	"log"
	"strconv"
	"sync"

	"github.com/naka-gawa/github-favorites/internal/domain"
)

// ConfirmDeletePrompt is asked before a row is removed.
const ConfirmDeletePrompt = "Are you sure you want to delete this row?"

var (
	// ErrNoTableBody is returned by Initialize when the surface has no table body.
	ErrNoTableBody = errors.New("surface has no table body")
	// ErrNoAddControl is returned by Initialize when the surface has no add control.
	ErrNoAddControl = errors.New("surface has no add control")
)

// Confirm asks the user a yes/no question.
type Confirm func(prompt string) bool

// Store is the part of usecase.Favorites the presenter depends on.
type Store interface {
	Entries() []domain.FavoriteEntry
	Add(ctx context.Context, username string) error
	Delete(entry domain.FavoriteEntry)
	OnChange(fn func([]domain.FavoriteEntry))
}

// Row is one rendered favorite.
type Row struct {
	AvatarURL    string
	AvatarAlt    string
	ProfileURL   string
	Name         string
	Login        string
	Repositories string
	Followers    string

	// Remove is the row's remove trigger.
	Remove func()
}

// TableBody is the region rows are appended to.
type TableBody interface {
	Clear()
	Append(row Row)
}

// AddControl is a text input plus a trigger for submitting it.
type AddControl interface {
	Value() string
	OnSubmit(fn func(ctx context.Context))
}

// Surface is the rendering target the presenter attaches to.
// TableBody and AddControl return nil when the surface lacks them.
type Surface interface {
	TableBody() TableBody
	AddControl() AddControl
	Alert(message string)
}

// Presenter renders a Store onto a Surface.
type Presenter struct {
	store   Store
	confirm Confirm
	logger  *log.Logger

	mu      sync.Mutex
	surface Surface
	body    TableBody
}

// New returns a Presenter for store. confirm is asked before every
// removal; logger receives diagnostics.
func New(store Store, confirm Confirm, logger *log.Logger) *Presenter {
	return &Presenter{
		store:   store,
		confirm: confirm,
		logger:  logger,
	}
}

// Initialize attaches the presenter to surface, renders the current list
// and starts listening for add gestures and store changes.
func (p *Presenter) Initialize(surface Surface) error {
	body := surface.TableBody()
	if body == nil {
		return ErrNoTableBody
	}
	add := surface.AddControl()
	if add == nil {
		return ErrNoAddControl
	}

	p.mu.Lock()
	p.surface = surface
	p.body = body
	p.mu.Unlock()

	p.Render()
	add.OnSubmit(func(ctx context.Context) {
		p.onAdd(ctx, add.Value())
	})
	p.store.OnChange(func([]domain.FavoriteEntry) {
		p.Render()
	})
	return nil
}

// Render clears every row and rebuilds one per entry, in list order.
func (p *Presenter) Render() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.body == nil {
		return
	}

	entries := p.store.Entries()
	p.body.Clear()
	for _, entry := range entries {
		p.body.Append(p.row(entry))
	}
	p.logger.Printf("Presenter: Rendered %d rows.", len(entries))
}

func (p *Presenter) row(entry domain.FavoriteEntry) Row {
	return Row{
		AvatarURL:    entry.AvatarURL(),
		AvatarAlt:    "Image of " + entry.Name,
		ProfileURL:   entry.ProfileURL(),
		Name:         entry.Name,
		Login:        entry.Login,
		Repositories: strconv.Itoa(entry.PublicRepos),
		Followers:    strconv.Itoa(entry.Followers),
		Remove: func() {
			p.onRemove(entry)
		},
	}
}

// onAdd forwards the input verbatim; validation is the store's job.
func (p *Presenter) onAdd(ctx context.Context, username string) {
	if err := p.store.Add(ctx, username); err != nil {
		p.logger.Printf("Presenter: Add of %q failed: %v", username, err)
		p.alert(err.Error())
	}
}

func (p *Presenter) onRemove(entry domain.FavoriteEntry) {
	if p.confirm == nil || !p.confirm(ConfirmDeletePrompt) {
		return
	}
	p.store.Delete(entry)
}

func (p *Presenter) alert(message string) {
	p.mu.Lock()
	surface := p.surface
	p.mu.Unlock()
	if surface != nil {
		surface.Alert(message)
	}
}
