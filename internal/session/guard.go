package session

import "context"

// Decision is the guard's verdict on a navigation attempt.
type Decision int

const (
	// Allow lets the navigation proceed.
	Allow Decision = iota
	// RedirectToLogin denies the navigation and sends the user to the
	// login view. This is routine, not an error: no message is shown.
	RedirectToLogin
)

// Guard gates navigation into protected views. It is stateless beyond its
// store reference: each Check takes exactly one reading and does not stay
// subscribed, so losing authentication while a protected view is already
// open is handled by that view's own calls failing, not by the guard.
type Guard struct {
	store *Store
}

// NewGuard creates a guard over the store.
func NewGuard(store *Store) *Guard {
	return &Guard{store: store}
}

// Check decides a pending navigation into a protected view.
//
// If the startup probe has not resolved yet, Check waits for the first
// transition instead of acting on the initial logged-out snapshot, so a
// still-valid session is not bounced to login on startup. The context bounds
// the wait; on cancellation the safe answer is RedirectToLogin.
func (g *Guard) Check(ctx context.Context) Decision {
	select {
	case <-g.store.Ready():
	case <-ctx.Done():
		return RedirectToLogin
	}

	if g.store.Snapshot().Authenticated {
		return Allow
	}
	return RedirectToLogin
}
