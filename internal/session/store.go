// Package session owns the client-side authentication state.
//
// A single Store instance is the only writer of the session snapshot. UI
// surfaces (commands, TUI views) subscribe to observe it and never hold
// authentication state of their own.
package session

import (
	"context"
	"sync"

	"github.com/lapdeck/lapdeck/internal/api"
	apperrors "github.com/lapdeck/lapdeck/internal/errors"
	"github.com/lapdeck/lapdeck/internal/log"
)

// State is the authentication snapshot. Authenticated and User are replaced
// together as one unit: Authenticated is true iff User is present. Listeners
// receive value copies and never a half-updated combination.
type State struct {
	Authenticated bool
	User          *api.User
}

// Listener observes state transitions. It runs synchronously on the
// goroutine that completed the transition and must not call back into the
// store's mutating operations.
type Listener func(State)

// Store is the single source of truth for the session state. It performs the
// network calls that observe or change authentication and is the only
// component permitted to mutate the snapshot.
type Store struct {
	client *api.Client
	logger *log.Logger

	mu        sync.RWMutex
	state     State
	listeners []*Subscription

	// notifyMu serializes the mutate+notify step so that every listener
	// sees transitions in the order they completed.
	notifyMu sync.Mutex

	ready     chan struct{}
	readyOnce sync.Once
}

// NewStore creates a Store and immediately fires the startup probe: one
// asynchronous CurrentUser call that asks whether an existing session cookie
// is still valid. The initial snapshot is unauthenticated and must be
// treated as potentially stale until Ready is closed.
func NewStore(client *api.Client, logger *log.Logger) *Store {
	s := newStore(client, logger)
	go s.FetchCurrentUser(context.Background())
	return s
}

// newStore creates a Store without the startup probe. Tests drive the probe
// explicitly.
func newStore(client *api.Client, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.DefaultLogger()
	}
	return &Store{
		client: client,
		logger: logger,
		ready:  make(chan struct{}),
	}
}

// Ready is closed once the first state transition has completed, i.e. once
// the startup probe (or any earlier operation) has resolved. Consumers that
// would otherwise act on the initial snapshot wait on it.
func (s *Store) Ready() <-chan struct{} {
	return s.ready
}

// Snapshot returns the current state without subscribing.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe registers the listener and immediately replays the current
// snapshot to it, so late subscribers do not miss the latest value. The
// returned subscription's Cancel is idempotent.
func (s *Store) Subscribe(listener Listener) *Subscription {
	sub := &Subscription{store: s, listener: listener}

	// Taking notifyMu keeps the replay ordered against concurrent
	// transitions: the listener never sees an older value after a newer one.
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	s.listeners = append(s.listeners, sub)
	current := s.state
	s.mu.Unlock()

	listener(current)
	return sub
}

// setState replaces the snapshot and notifies all current subscribers, in
// registration order, as one indivisible step.
func (s *Store) setState(next State) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	s.state = next
	subs := make([]*Subscription, len(s.listeners))
	copy(subs, s.listeners)
	s.mu.Unlock()

	s.readyOnce.Do(func() { close(s.ready) })

	for _, sub := range subs {
		sub.listener(next)
	}
}

// Register creates a new account. It does not log the user in and does not
// touch the session state; a rejection is surfaced to the caller verbatim.
func (s *Store) Register(ctx context.Context, req api.RegisterRequest) error {
	if err := s.client.Register(ctx, req); err != nil {
		return apperrors.NewRegistrationFailedError(err.Error())
	}
	return nil
}

// Login authenticates with the service. On success the snapshot becomes
// authenticated with the returned user; on any failure (bad credentials,
// network, server error alike) it resets to logged-out and the failure is
// signaled to the caller for display.
func (s *Store) Login(ctx context.Context, email, password string) error {
	user, err := s.client.Login(ctx, email, password)
	if err != nil {
		s.setState(State{})
		return apperrors.NewAuthFailedError(err.Error())
	}

	s.setState(State{Authenticated: true, User: user})
	s.logger.Debug("logged in", "email", user.Email)
	return nil
}

// Logout asks the service to invalidate the session and clears the local
// state regardless of the outcome. The user's intent to stop being treated
// as logged in is honored even when the network call fails.
func (s *Store) Logout(ctx context.Context) {
	if err := s.client.Logout(ctx); err != nil {
		s.logger.WithError(err).Warn("server logout failed, clearing local session anyway")
	}
	s.setState(State{})
}

// FetchCurrentUser asks the service who the session cookie belongs to and
// absorbs the answer into the state: authenticated with the returned user on
// success, logged-out on any failure. A failure is a normal outcome (no
// cookie, expired cookie) and is never propagated; the resulting snapshot is
// returned instead.
//
// Overlapping calls are not deduplicated: each completion updates the state
// and notifies, and the last to complete determines the final value.
func (s *Store) FetchCurrentUser(ctx context.Context) State {
	user, err := s.client.CurrentUser(ctx)
	if err != nil {
		s.logger.Debug("current user probe resolved negative", "cause", err.Error())
		next := State{}
		s.setState(next)
		return next
	}

	next := State{Authenticated: true, User: user}
	s.setState(next)
	return next
}

// UpdateUserData replaces the held user record with the server-confirmed one
// after a successful profile edit or picture upload. It performs no network
// call; it is the completion step of an externally confirmed change. Ignored
// while logged out, which keeps the snapshot invariant intact.
func (s *Store) UpdateUserData(user api.User) {
	s.notifyMu.Lock()

	s.mu.Lock()
	if !s.state.Authenticated {
		s.mu.Unlock()
		s.notifyMu.Unlock()
		return
	}
	u := user
	next := State{Authenticated: true, User: &u}
	s.state = next
	subs := make([]*Subscription, len(s.listeners))
	copy(subs, s.listeners)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.listener(next)
	}
	s.notifyMu.Unlock()
}

// Clear resets the state to logged-out without a network call. Used when the
// service reports that a profile change invalidated the session.
func (s *Store) Clear() {
	s.setState(State{})
}

func (s *Store) removeSubscription(sub *Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, candidate := range s.listeners {
		if candidate == sub {
			s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
			return
		}
	}
}

// Subscription is the handle returned by Subscribe.
type Subscription struct {
	store    *Store
	listener Listener
	once     sync.Once
}

// Cancel permanently removes the listener. Calling it more than once is safe
// and has no further effect.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.store.removeSubscription(s)
	})
}
