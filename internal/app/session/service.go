// Package session holds the single current user and the mock sign-in flow
// around it. The session snapshot is persisted through the key-value port
// on every change and restored leniently at startup.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Navin-04/Katomaran-To-Do-App/internal/platform/auth"
	"github.com/Navin-04/Katomaran-To-Do-App/internal/platform/kvstore"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoSession          = errors.New("no user logged in")
	ErrInvalidInput       = errors.New("invalid password data")
)

// StorageKey is the fixed key the session snapshot is persisted under.
const StorageKey = "auth-storage"

type Notifications struct {
	Email         bool `json:"email"`
	Push          bool `json:"push"`
	TaskReminders bool `json:"task_reminders"`
	SharedTasks   bool `json:"shared_tasks"`
}

type Preferences struct {
	Theme       string `json:"theme"`
	Language    string `json:"language"`
	DateFormat  string `json:"date_format"`
	StartOfWeek string `json:"start_of_week"`
}

type User struct {
	ID            string        `json:"id"`
	Email         string        `json:"email"`
	Name          string        `json:"name"`
	Bio           string        `json:"bio"`
	Timezone      string        `json:"timezone"`
	Notifications Notifications `json:"notifications"`
	Preferences   Preferences   `json:"preferences"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// ProfileUpdate carries a partial profile; nil fields are left untouched.
type ProfileUpdate struct {
	Name          *string        `json:"name"`
	Bio           *string        `json:"bio"`
	Timezone      *string        `json:"timezone"`
	Notifications *Notifications `json:"notifications"`
	Preferences   *Preferences   `json:"preferences"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// snapshot is the full serialized state written to the key-value store.
type snapshot struct {
	User         *User  `json:"user"`
	PasswordHash string `json:"password_hash,omitempty"`
}

type Service struct {
	Store  kvstore.Store
	Tokens auth.Manager
	Now    func() time.Time
	NewID  func() string

	mu           sync.Mutex
	user         *User
	passwordHash string
}

func NewService(store kvstore.Store, tokens auth.Manager) *Service {
	return &Service{
		Store:  store,
		Tokens: tokens,
		Now:    func() time.Time { return time.Now().UTC() },
		NewID:  uuid.NewString,
	}
}

// Restore loads a previously persisted session. A missing or unreadable
// snapshot means "no session"; it is never an error.
func (s *Service) Restore(ctx context.Context) {
	raw, err := s.Store.Get(ctx, StorageKey)
	if err != nil {
		return
	}
	var snap snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return
	}
	if snap.User == nil {
		return
	}
	s.mu.Lock()
	s.user = snap.User
	s.passwordHash = snap.PasswordHash
	s.mu.Unlock()
}

func (s *Service) SignIn(ctx context.Context, email, password string) (AuthResponse, error) {
	return s.startSession(ctx, email, password)
}

func (s *Service) SignUp(ctx context.Context, email, password string) (AuthResponse, error) {
	return s.startSession(ctx, email, password)
}

func (s *Service) startSession(ctx context.Context, email, password string) (AuthResponse, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return AuthResponse{}, ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResponse{}, err
	}

	now := s.Now()
	user := demoUser(s.NewID(), email, now)

	s.mu.Lock()
	s.user = &user
	s.passwordHash = string(hash)
	s.mu.Unlock()

	if err := s.persist(ctx); err != nil {
		return AuthResponse{}, fmt.Errorf("persist session: %w", err)
	}

	token, err := s.Tokens.Sign(user.ID, user.Email)
	if err != nil {
		return AuthResponse{}, err
	}
	return AuthResponse{Token: token, User: user}, nil
}

// SignOut clears the session unconditionally, including the persisted
// snapshot.
func (s *Service) SignOut(ctx context.Context) error {
	s.mu.Lock()
	s.user = nil
	s.passwordHash = ""
	s.mu.Unlock()
	return s.Store.Delete(ctx, StorageKey)
}

func (s *Service) UpdateProfile(ctx context.Context, patch ProfileUpdate) (User, error) {
	s.mu.Lock()
	if s.user == nil {
		s.mu.Unlock()
		return User{}, ErrNoSession
	}
	if patch.Name != nil {
		s.user.Name = *patch.Name
	}
	if patch.Bio != nil {
		s.user.Bio = *patch.Bio
	}
	if patch.Timezone != nil {
		s.user.Timezone = *patch.Timezone
	}
	if patch.Notifications != nil {
		s.user.Notifications = *patch.Notifications
	}
	if patch.Preferences != nil {
		s.user.Preferences = *patch.Preferences
	}
	s.user.UpdatedAt = s.Now()
	updated := *s.user
	s.mu.Unlock()

	if err := s.persist(ctx); err != nil {
		return User{}, fmt.Errorf("persist session: %w", err)
	}
	return updated, nil
}

// UpdatePassword requires both fields non-empty and, when a hash is on
// record, the current password to match it.
func (s *Service) UpdatePassword(ctx context.Context, current, next string) error {
	if current == "" || next == "" {
		return ErrInvalidInput
	}

	s.mu.Lock()
	if s.user == nil {
		s.mu.Unlock()
		return ErrNoSession
	}
	storedHash := s.passwordHash
	s.mu.Unlock()

	if storedHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(current)); err != nil {
			return ErrInvalidCredentials
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.passwordHash = string(hash)
	if s.user != nil {
		s.user.UpdatedAt = s.Now()
	}
	s.mu.Unlock()

	if err := s.persist(ctx); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

// Current returns the signed-in user, if any.
func (s *Service) Current() (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

func (s *Service) persist(ctx context.Context) error {
	s.mu.Lock()
	snap := snapshot{PasswordHash: s.passwordHash}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	s.mu.Unlock()

	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return s.Store.Set(ctx, StorageKey, raw)
}

// demoUser is the mock profile every successful sign-in/up produces; only
// the email comes from the caller.
func demoUser(id, email string, now time.Time) User {
	return User{
		ID:       id,
		Email:    email,
		Name:     "Demo User",
		Bio:      "Product manager passionate about productivity and team collaboration.",
		Timezone: "America/New_York",
		Notifications: Notifications{
			Email:         true,
			Push:          true,
			TaskReminders: true,
			SharedTasks:   true,
		},
		Preferences: Preferences{
			Theme:       "system",
			Language:    "en",
			DateFormat:  "MM/dd/yyyy",
			StartOfWeek: "monday",
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
