// Package theme tracks the UI color-scheme preference. The chosen mode is
// persisted through the key-value port; the effective dark flag also folds
// in the host's last reported scheme when the mode is "system".
package theme

import (
	"context"
	"encoding/json"
	"sync"
)

type Mode string

const (
	ModeLight  Mode = "light"
	ModeDark   Mode = "dark"
	ModeSystem Mode = "system"
)

func (m Mode) valid() bool {
	return m == ModeLight || m == ModeDark || m == ModeSystem
}

// StorageKey is the fixed key the theme snapshot is persisted under.
const StorageKey = "theme-storage"

// State is the externally visible theme: the selected mode plus the
// resolved dark flag.
type State struct {
	Theme  Mode `json:"theme"`
	IsDark bool `json:"is_dark"`
}

// Store is the subset of the key-value port the service needs.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// SubscribeFunc attaches a listener for host scheme changes and reports
// whether the subscription was established.
type SubscribeFunc func(apply func(dark bool)) error

type Service struct {
	Store     Store
	Subscribe SubscribeFunc

	once       sync.Once
	mu         sync.Mutex
	mode       Mode
	systemDark bool
}

func NewService(store Store) *Service {
	return &Service{Store: store, mode: ModeSystem}
}

// Initialize restores the persisted mode and, when a subscribe hook is
// configured, starts following host scheme changes. Repeated calls only
// subscribe once. A missing or unreadable snapshot keeps the default.
func (s *Service) Initialize(ctx context.Context) {
	raw, err := s.Store.Get(ctx, StorageKey)
	if err == nil {
		var snap struct {
			Theme Mode `json:"theme"`
		}
		if json.Unmarshal(raw, &snap) == nil && snap.Theme.valid() {
			s.mu.Lock()
			s.mode = snap.Theme
			s.mu.Unlock()
		}
	}
	if s.Subscribe != nil {
		s.once.Do(func() {
			_ = s.Subscribe(s.SystemChanged)
		})
	}
}

func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{Theme: s.mode, IsDark: s.isDarkLocked()}
}

// SetTheme selects a mode. An unknown mode is ignored and the current
// state returned unchanged.
func (s *Service) SetTheme(ctx context.Context, mode Mode) (State, error) {
	if !mode.valid() {
		return s.State(), nil
	}
	s.mu.Lock()
	s.mode = mode
	state := State{Theme: s.mode, IsDark: s.isDarkLocked()}
	s.mu.Unlock()
	return state, s.persist(ctx)
}

// Toggle flips between light and dark. From system it lands on dark.
func (s *Service) Toggle(ctx context.Context) (State, error) {
	s.mu.Lock()
	if s.mode == ModeLight {
		s.mode = ModeDark
	} else if s.mode == ModeDark {
		s.mode = ModeLight
	} else {
		s.mode = ModeDark
	}
	state := State{Theme: s.mode, IsDark: s.isDarkLocked()}
	s.mu.Unlock()
	return state, s.persist(ctx)
}

// SystemChanged records the host scheme. It only shows through while the
// mode is system, but the value is kept either way so a later switch to
// system resolves correctly.
func (s *Service) SystemChanged(dark bool) {
	s.mu.Lock()
	s.systemDark = dark
	s.mu.Unlock()
}

func (s *Service) isDarkLocked() bool {
	switch s.mode {
	case ModeDark:
		return true
	case ModeSystem:
		return s.systemDark
	default:
		return false
	}
}

func (s *Service) persist(ctx context.Context) error {
	s.mu.Lock()
	snap := struct {
		Theme Mode `json:"theme"`
	}{Theme: s.mode}
	s.mu.Unlock()

	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return s.Store.Set(ctx, StorageKey, raw)
}
