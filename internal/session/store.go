// Package session owns the authentication token and the user profile. It is
// the single source of truth for "who is logged in": the flow controller
// writes tokens into it, the gateway reads its credential through an explicit
// sink, and sibling stores converge through the change bus.
package session

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/newsroomhq/newsroom/internal/api"
	"github.com/newsroomhq/newsroom/internal/log"
)

// CredentialSink receives every token transition before any dependent request
// can be issued. The API client implements it.
type CredentialSink interface {
	SetCredential(token string)
}

// ProfileSource fetches the authenticated user's profile. The API client
// implements it.
type ProfileSource interface {
	CurrentUser(ctx context.Context) (*api.User, error)
}

// Store holds the current token and profile snapshot
type Store struct {
	mu    sync.RWMutex
	token string
	user  *api.User

	slot     Slot
	sink     CredentialSink
	profiles ProfileSource
	bus      *Bus
	origin   string

	log *log.Logger
}

// New creates a store bound to a durable slot, a credential sink and a change
// bus. A token already present in the slot is adopted and pushed into the
// sink; the profile stays empty until RefreshProfile runs. The bus
// subscription lives until Close.
func New(slot Slot, sink CredentialSink, profiles ProfileSource, bus *Bus, logger *log.Logger) (*Store, error) {
	if logger == nil {
		logger = log.DefaultLogger()
	}

	s := &Store{
		slot:     slot,
		sink:     sink,
		profiles: profiles,
		bus:      bus,
		origin:   uuid.NewString(),
		log:      logger.With("component", "session"),
	}

	token, err := slot.Read()
	if err != nil {
		return nil, err
	}
	s.token = token
	s.sink.SetCredential(token)

	s.bus.Subscribe(s.origin, s.applyExternal)

	return s, nil
}

// Close releases the bus subscription
func (s *Store) Close() {
	s.bus.Unsubscribe(s.origin)
}

// Token returns the current bearer token, or "" when anonymous
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the current profile snapshot, or nil. It is advisory for
// rendering only, never an authorization source.
func (s *Store) User() *api.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// SetUser replaces the profile snapshot (after a profile edit round-trips)
func (s *Store) SetUser(user *api.User) {
	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
}

// SetToken installs a new token or, with "", clears the session. The order is
// fixed: the slot and the sink credential are committed before the dependent
// profile fetch starts, so no request can fire with a stale credential.
// A failed profile fetch clears the profile but keeps the token; only the
// gateway's 401 policy decides that a credential is actually invalid.
func (s *Store) SetToken(ctx context.Context, token string) error {
	if token == "" {
		s.clear()
		return nil
	}

	if err := s.slot.Write(token); err != nil {
		return err
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	s.sink.SetCredential(token)

	s.bus.Publish(s.origin, token)

	s.refresh(ctx)
	return nil
}

// Logout drops the token, the profile and the persisted slot
func (s *Store) Logout() {
	s.clear()
}

// RefreshProfile refetches the profile for an already-installed token
func (s *Store) RefreshProfile(ctx context.Context) {
	if s.Token() == "" {
		return
	}
	s.refresh(ctx)
}

func (s *Store) refresh(ctx context.Context) {
	user, err := s.profiles.CurrentUser(ctx)
	if err != nil {
		s.log.WithError(err).Warn("profile fetch failed, keeping token")
		s.SetUser(nil)
		return
	}
	s.SetUser(user)
}

func (s *Store) clear() {
	if err := s.slot.Clear(); err != nil {
		s.log.WithError(err).Warn("clearing credential slot failed")
	}

	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()
	s.sink.SetCredential("")

	s.bus.Publish(s.origin, "")
}

// applyExternal handles a token change published by another store on the same
// slot: applied like a local set, but without re-writing the slot (the
// originator already did) and without re-publishing.
func (s *Store) applyExternal(token string) {
	if token == "" {
		s.mu.Lock()
		s.token = ""
		s.user = nil
		s.mu.Unlock()
		s.sink.SetCredential("")
		return
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	s.sink.SetCredential(token)

	s.refresh(context.Background())
}
