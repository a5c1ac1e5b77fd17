package gateway

import (
	"sync"

	"equiprent/internal/domain"
)

type AuthEvent string

const (
	EventInitialSession AuthEvent = "INITIAL_SESSION"
	EventSignedIn       AuthEvent = "SIGNED_IN"
	EventSignedOut      AuthEvent = "SIGNED_OUT"
	EventUserDeleted    AuthEvent = "USER_DELETED"
)

// AuthListener receives auth state changes. session is nil after sign-out.
type AuthListener func(event AuthEvent, session *domain.Session)

// AuthEvents fans auth state changes out to subscribers in subscription order.
type AuthEvents struct {
	mu        sync.Mutex
	nextID    int
	listeners []subscriber
}

type subscriber struct {
	id int
	fn AuthListener
}

func NewAuthEvents() *AuthEvents {
	return &AuthEvents{}
}

func (b *AuthEvents) Subscribe(fn AuthListener) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.listeners = append(b.listeners, subscriber{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() { b.unsubscribe(id) })
	}
}

func (b *AuthEvents) unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.listeners {
		if s.id == id {
			b.listeners = append(b.listeners[:i], b.listeners[i+1:]...)
			return
		}
	}
}

// Publish delivers synchronously. Listeners may subscribe or unsubscribe from
// inside a callback.
func (b *AuthEvents) Publish(event AuthEvent, session *domain.Session) {
	b.mu.Lock()
	snapshot := make([]subscriber, len(b.listeners))
	copy(snapshot, b.listeners)
	b.mu.Unlock()

	for _, s := range snapshot {
		s.fn(event, session)
	}
}

func (b *AuthEvents) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.listeners)
}
