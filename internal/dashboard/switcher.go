package dashboard

import (
	"context"
	"fmt"
	"sync"

	"equiprent/internal/domain"
	"equiprent/internal/session"
)

// SessionReader is the part of the session store the switcher needs.
type SessionReader interface {
	State() session.State
}

// Switcher mounts one role dashboard at a time for the signed-in identity.
type Switcher struct {
	parent  context.Context
	session SessionReader
	deps    Deps

	mu      sync.Mutex
	current Dashboard
}

func NewSwitcher(parent context.Context, sess SessionReader, deps Deps) *Switcher {
	return &Switcher{parent: parent, session: sess, deps: deps}
}

// Mount loads the first-granted role's dashboard.
func (s *Switcher) Mount(ctx context.Context) (Dashboard, error) {
	st := s.session.State()
	if !st.SignedIn() {
		return nil, ErrNotSignedIn
	}
	if len(st.Roles) == 0 {
		return nil, ErrNoRoles
	}
	return s.Switch(ctx, st.Roles[0])
}

// Switch closes the mounted dashboard and mounts role's. The new dashboard
// loads its own data; the returned error is that load's error, and the
// dashboard stays mounted either way.
func (s *Switcher) Switch(ctx context.Context, role domain.Role) (Dashboard, error) {
	st := s.session.State()
	if !st.SignedIn() {
		return nil, ErrNotSignedIn
	}
	if !st.HasRole(role) {
		return nil, fmt.Errorf("%s: %w", role, ErrRoleNotHeld)
	}

	var d Dashboard
	switch role {
	case domain.RoleOwner:
		d = NewOwner(s.parent, st.Identity.ID, s.deps)
	case domain.RoleRenter:
		d = NewRenter(s.parent, st.Identity.ID, s.deps)
	}

	s.mu.Lock()
	prev := s.current
	s.current = d
	s.mu.Unlock()
	if prev != nil {
		prev.Close()
	}

	return d, d.Load(ctx)
}

func (s *Switcher) Current() Dashboard {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Roles lists the roles a view may offer switching to.
func (s *Switcher) Roles() []domain.Role {
	return s.session.State().Roles
}

func (s *Switcher) Close() {
	s.mu.Lock()
	prev := s.current
	s.current = nil
	s.mu.Unlock()
	if prev != nil {
		prev.Close()
	}
}
