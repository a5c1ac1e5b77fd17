// Package session holds the signed-in identity and its roles.
package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"equiprent/internal/domain"
	"equiprent/internal/gateway"
	"equiprent/internal/logger"
)

const compensationTimeout = 10 * time.Second

// Manager is the operation set views depend on.
type Manager interface {
	State() State
	SetIdentity(identity *domain.Identity)
	FetchRoles(ctx context.Context, identityID string) error
	SignIn(ctx context.Context, email, password string) error
	SignUp(ctx context.Context, email, password string, roles []domain.Role) error
	SignOut(ctx context.Context) error
}

// State is a copy of the store contents.
type State struct {
	Identity *domain.Identity
	Roles    []domain.Role
	Loading  bool
}

// SignedIn reports whether an identity is present.
func (s State) SignedIn() bool { return s.Identity != nil }

func (s State) HasRole(r domain.Role) bool { return containsRole(s.Roles, r) }

type Store struct {
	auth     gateway.Auth
	roles    gateway.RoleTable
	profiles gateway.ProfileTable
	log      *slog.Logger

	mu       sync.RWMutex
	identity *domain.Identity
	roleSet  []domain.Role
	loading  int
}

var _ Manager = (*Store)(nil)

func NewStore(auth gateway.Auth, roles gateway.RoleTable, profiles gateway.ProfileTable) *Store {
	return &Store{
		auth:     auth,
		roles:    roles,
		profiles: profiles,
		log:      logger.WithComponent("session"),
	}
}

// FromGateway wires a store to the gateway bundle.
func FromGateway(gw *gateway.Gateway) *Store {
	return NewStore(gw.Auth, gw.Roles, gw.Profiles)
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := State{Loading: s.loading > 0}
	if s.identity != nil {
		id := *s.identity
		st.Identity = &id
	}
	st.Roles = append([]domain.Role(nil), s.roleSet...)
	return st
}

func (s *Store) SetIdentity(identity *domain.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = cloneIdentity(identity)
}

// FetchRoles loads the identity's roles, first-granted first. Any failure
// leaves the role set empty. Results for an identity that is no longer
// current are discarded.
func (s *Store) FetchRoles(ctx context.Context, identityID string) error {
	assignments, err := s.roles.List(ctx, identityID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil || s.identity.ID != identityID {
		s.log.Debug("Discarding roles for stale identity", "user_id", identityID)
		return err
	}
	if err != nil {
		s.roleSet = nil
		s.log.Error("Failed to fetch roles", "user_id", identityID, "error", err)
		return err
	}

	roles := make([]domain.Role, 0, len(assignments))
	for _, a := range assignments {
		if !a.Role.Valid() || containsRole(roles, a.Role) {
			continue
		}
		roles = append(roles, a.Role)
	}
	s.roleSet = roles
	return nil
}

func (s *Store) SignIn(ctx context.Context, email, password string) error {
	logger.EnterMethod("Store.SignIn", "email", email)
	done := s.begin()
	defer done()

	sess, err := s.auth.SignInWithPassword(ctx, email, password)
	if err != nil {
		logger.ExitMethodWithError("Store.SignIn", err)
		return &AuthError{Op: "sign in", Err: err}
	}

	s.SetIdentity(&sess.Identity)
	if err := s.FetchRoles(ctx, sess.Identity.ID); err != nil {
		s.log.Warn("Signed in without roles", "user_id", sess.Identity.ID, "error", err)
	}

	logger.ExitMethod("Store.SignIn", "user_id", sess.Identity.ID)
	return nil
}

// SignUp creates an identity, its profile and one role row per role. A failure
// after the identity exists deletes the identity again, so the caller either
// gets a usable account or none.
func (s *Store) SignUp(ctx context.Context, email, password string, roles []domain.Role) error {
	logger.EnterMethod("Store.SignUp", "email", email, "roles", roles)

	wanted, err := validateSignUp(email, password, roles)
	if err != nil {
		logger.ExitMethodWithError("Store.SignUp", err)
		return err
	}

	done := s.begin()
	defer done()

	identity, err := s.auth.SignUp(ctx, email, password)
	if err != nil {
		logger.ExitMethodWithError("Store.SignUp", err)
		return &AuthError{Op: "sign up", Err: err}
	}

	if err := s.profiles.Insert(ctx, domain.Profile{UserID: identity.ID, Email: identity.Email}); err != nil {
		return s.compensate(ctx, identity.ID, "create profile", err)
	}
	for _, r := range wanted {
		if err := s.roles.Insert(ctx, domain.RoleAssignment{UserID: identity.ID, Role: r}); err != nil {
			return s.compensate(ctx, identity.ID, "assign role "+string(r), err)
		}
	}

	s.mu.Lock()
	s.identity = cloneIdentity(identity)
	s.roleSet = wanted
	s.mu.Unlock()

	logger.ExitMethod("Store.SignUp", "user_id", identity.ID)
	return nil
}

func (s *Store) compensate(ctx context.Context, identityID, step string, cause error) error {
	s.log.Warn("Sign up incomplete, deleting identity", "user_id", identityID, "step", step, "error", cause)

	// The original ctx may be the reason the step failed.
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
	defer cancel()

	delErr := s.auth.DeleteIdentity(cctx, identityID)
	s.clearIf(identityID)

	if delErr != nil {
		if err := s.auth.SignOut(cctx); err != nil {
			s.log.Warn("Sign out after failed compensation", "user_id", identityID, "error", err)
		}
		err := &CompensationFailedError{Step: step, IdentityID: identityID, Cause: cause, CompensationErr: delErr}
		logger.ExitMethodWithError("Store.SignUp", err)
		return err
	}

	err := &SignupError{Step: step, IdentityID: identityID, Err: cause}
	logger.ExitMethodWithError("Store.SignUp", err)
	return err
}

// SignOut always clears local state, even when the gateway call fails.
func (s *Store) SignOut(ctx context.Context) error {
	done := s.begin()
	defer done()

	err := s.auth.SignOut(ctx)

	s.mu.Lock()
	s.identity = nil
	s.roleSet = nil
	s.mu.Unlock()

	if err != nil {
		s.log.Warn("Remote sign out failed, local session cleared", "error", err)
		return &AuthError{Op: "sign out", Err: err}
	}
	return nil
}

// Start checks for an existing session and follows auth-state changes until
// the returned stop function is called.
func (s *Store) Start(ctx context.Context) (stop func(), err error) {
	unsubscribe := s.auth.OnAuthStateChange(func(event gateway.AuthEvent, sess *domain.Session) {
		s.log.Debug("Auth state changed", "event", event)
		s.apply(ctx, sess)
	})

	done := s.begin()
	defer done()

	sess, err := s.auth.GetSession(ctx)
	if err != nil {
		return unsubscribe, &AuthError{Op: "get session", Err: err}
	}
	s.apply(ctx, sess)
	return unsubscribe, nil
}

func (s *Store) apply(ctx context.Context, sess *domain.Session) {
	if sess == nil {
		s.mu.Lock()
		s.identity = nil
		s.roleSet = nil
		s.mu.Unlock()
		return
	}
	s.SetIdentity(&sess.Identity)
	if ctx.Err() != nil {
		return
	}
	_ = s.FetchRoles(ctx, sess.Identity.ID)
}

func (s *Store) clearIf(identityID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity != nil && s.identity.ID == identityID {
		s.identity = nil
		s.roleSet = nil
	}
}

// begin raises the loading flag; the returned func lowers it.
func (s *Store) begin() func() {
	s.mu.Lock()
	s.loading++
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		s.loading--
		s.mu.Unlock()
	}
}

func validateSignUp(email, password string, roles []domain.Role) ([]domain.Role, error) {
	if strings.TrimSpace(email) == "" {
		return nil, &ValidationError{Field: "email", Reason: "required"}
	}
	if password == "" {
		return nil, &ValidationError{Field: "password", Reason: "required"}
	}
	if len(roles) == 0 {
		return nil, &ValidationError{Field: "roles", Reason: "select at least one role"}
	}
	out := make([]domain.Role, 0, len(roles))
	for _, r := range roles {
		if !r.Valid() {
			return nil, &ValidationError{Field: "roles", Reason: "unknown role " + string(r)}
		}
		if !containsRole(out, r) {
			out = append(out, r)
		}
	}
	return out, nil
}

func containsRole(roles []domain.Role, r domain.Role) bool {
	for _, have := range roles {
		if have == r {
			return true
		}
	}
	return false
}

func cloneIdentity(identity *domain.Identity) *domain.Identity {
	if identity == nil {
		return nil
	}
	c := *identity
	return &c
}

// IsValidation reports whether err rejected the input before any remote call.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
