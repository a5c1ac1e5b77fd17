package service

import (
	"context"
	"strings"

	"equiprent/internal/domain"
	"equiprent/internal/repository"
)

type accountService struct {
	roleRepo    repository.RoleRepository
	profileRepo repository.ProfileRepository
}

func NewAccountService(roleRepo repository.RoleRepository, profileRepo repository.ProfileRepository) AccountService {
	return &accountService{
		roleRepo:    roleRepo,
		profileRepo: profileRepo,
	}
}

func (s *accountService) ListRoles(ctx context.Context, actorID, userID string) ([]domain.RoleAssignment, error) {
	if userID == "" {
		return nil, invalid("user_id is required")
	}
	if actorID != userID {
		return nil, forbidden("roles of another user")
	}
	roles, err := s.roleRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fromRepo(err)
	}
	if roles == nil {
		roles = []domain.RoleAssignment{}
	}
	return roles, nil
}

func (s *accountService) AssignRole(ctx context.Context, actorID string, a *domain.RoleAssignment) error {
	if a.UserID == "" {
		a.UserID = actorID
	}
	if a.UserID != actorID {
		return forbidden("role for another user")
	}
	if !a.Role.Valid() {
		return invalid("unknown role %q", a.Role)
	}
	return fromRepo(s.roleRepo.Create(ctx, a))
}

func (s *accountService) CreateProfile(ctx context.Context, actorID string, p *domain.Profile) error {
	if p.UserID == "" {
		p.UserID = actorID
	}
	if p.UserID != actorID {
		return forbidden("profile for another user")
	}
	p.Email = strings.TrimSpace(p.Email)
	if p.Email == "" {
		return invalid("email is required")
	}
	return fromRepo(s.profileRepo.Create(ctx, p))
}

// hasRole reports whether userID holds role.
func hasRole(ctx context.Context, roleRepo repository.RoleRepository, userID string, role domain.Role) (bool, error) {
	roles, err := roleRepo.ListByUser(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, r := range roles {
		if r.Role == role {
			return true, nil
		}
	}
	return false, nil
}

func requireRole(ctx context.Context, roleRepo repository.RoleRepository, userID string, role domain.Role) error {
	ok, err := hasRole(ctx, roleRepo, userID, role)
	if err != nil {
		return err
	}
	if !ok {
		return forbidden("%s role required", role)
	}
	return nil
}
