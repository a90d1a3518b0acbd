package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/iliyamo/hall-seating/internal/model"
)

// Keys owned by the bridge.  Each is loaded and saved on its own; a missing
// key means "use the built-in default".
const (
	KeyHall            = "hall"
	KeyGroups          = "groups"
	KeyAvailablePeople = "availablePeople"
	KeyLanguage        = "language"
	KeyZoom            = "zoom"
)

// DefaultLanguage is the UI language used until one is saved.
const DefaultLanguage = "en"

// MaxZoom bounds the saved canvas zoom.
const MaxZoom = 10

// Prefs are the saved UI preferences.
type Prefs struct {
	Language string  `json:"language"`
	Zoom     float64 `json:"zoom"`
}

// DefaultPrefs returns the preferences of a fresh install.
func DefaultPrefs() Prefs { return Prefs{Language: DefaultLanguage, Zoom: 1} }

// Validate checks that the language is set and the zoom is positive and
// at most MaxZoom.
func (p Prefs) Validate() error {
	if strings.TrimSpace(p.Language) == "" {
		return fmt.Errorf("%w: empty language", model.ErrInvalidFormat)
	}
	if p.Zoom <= 0 || p.Zoom > MaxZoom {
		return fmt.Errorf("%w: zoom %v out of range", model.ErrInvalidFormat, p.Zoom)
	}
	return nil
}

// Bridge encodes planner state as JSON and keeps it in a Store.  With a
// prefix every key is stored as "prefix:key".
type Bridge struct {
	store  Store
	prefix string
}

// NewBridge returns a bridge over store.
func NewBridge(store Store, prefix string) *Bridge {
	return &Bridge{store: store, prefix: strings.TrimSpace(prefix)}
}

func (b *Bridge) key(k string) string {
	if b.prefix == "" {
		return k
	}
	return b.prefix + ":" + k
}

func (b *Bridge) load(ctx context.Context, k string) ([]byte, bool, error) {
	raw, found, err := b.store.Get(ctx, b.key(k))
	if err != nil {
		return nil, false, fmt.Errorf("storage: get %s: %w", k, err)
	}
	return raw, found, nil
}

func (b *Bridge) save(ctx context.Context, k string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("storage: encode %s: %w", k, err)
	}
	if err := b.store.Set(ctx, b.key(k), raw); err != nil {
		return fmt.Errorf("storage: set %s: %w", k, err)
	}
	return nil
}

// LoadDocument returns the saved hall, or nil when none was saved.
func (b *Bridge) LoadDocument(ctx context.Context) (*model.Document, error) {
	raw, found, err := b.load(ctx, KeyHall)
	if err != nil || !found {
		return nil, err
	}
	return model.ParseDocument(raw)
}

// SaveDocument stores the hall.
func (b *Bridge) SaveDocument(ctx context.Context, doc *model.Document) error {
	return b.save(ctx, KeyHall, doc)
}

// LoadRoster returns the saved groups, or nil when none were saved.
func (b *Bridge) LoadRoster(ctx context.Context) ([]*model.Group, error) {
	raw, found, err := b.load(ctx, KeyGroups)
	if err != nil || !found {
		return nil, err
	}
	return model.ParseRoster(raw)
}

// SaveRoster stores the groups.
func (b *Bridge) SaveRoster(ctx context.Context, groups []*model.Group) error {
	return b.save(ctx, KeyGroups, groups)
}

// LoadAvailablePeople returns the saved walk-in names, or nil.
func (b *Bridge) LoadAvailablePeople(ctx context.Context) ([]string, error) {
	raw, found, err := b.load(ctx, KeyAvailablePeople)
	if err != nil || !found {
		return nil, err
	}
	var names []string
	if err := json.Unmarshal(raw, &names); err != nil {
		return nil, fmt.Errorf("%w: available people: %v", model.ErrInvalidFormat, err)
	}
	return names, nil
}

// SaveAvailablePeople stores the walk-in names.
func (b *Bridge) SaveAvailablePeople(ctx context.Context, names []string) error {
	if names == nil {
		names = []string{}
	}
	return b.save(ctx, KeyAvailablePeople, names)
}

// LoadPrefs returns the saved preferences.  Each missing or unreadable key
// falls back to its default.
func (b *Bridge) LoadPrefs(ctx context.Context) (Prefs, error) {
	prefs := DefaultPrefs()
	raw, found, err := b.load(ctx, KeyLanguage)
	if err != nil {
		return prefs, err
	}
	var lang string
	if found && json.Unmarshal(raw, &lang) == nil && strings.TrimSpace(lang) != "" {
		prefs.Language = lang
	}
	raw, found, err = b.load(ctx, KeyZoom)
	if err != nil {
		return prefs, err
	}
	var zoom float64
	if found && json.Unmarshal(raw, &zoom) == nil && zoom > 0 && zoom <= MaxZoom {
		prefs.Zoom = zoom
	}
	return prefs, nil
}

// SavePrefs validates and stores both preference keys.
func (b *Bridge) SavePrefs(ctx context.Context, p Prefs) error {
	p.Language = strings.TrimSpace(p.Language)
	if err := p.Validate(); err != nil {
		return err
	}
	if err := b.save(ctx, KeyLanguage, p.Language); err != nil {
		return err
	}
	return b.save(ctx, KeyZoom, p.Zoom)
}
