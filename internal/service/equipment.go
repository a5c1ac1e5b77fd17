package service

import (
	"context"
	"strings"

	"equiprent/internal/domain"
	"equiprent/internal/repository"
)

const maxSearchLimit = 500

type equipmentService struct {
	equipmentRepo repository.EquipmentRepository
	roleRepo      repository.RoleRepository
}

func NewEquipmentService(equipmentRepo repository.EquipmentRepository, roleRepo repository.RoleRepository) EquipmentService {
	return &equipmentService{
		equipmentRepo: equipmentRepo,
		roleRepo:      roleRepo,
	}
}

func (s *equipmentService) Search(ctx context.Context, f domain.EquipmentFilter) ([]domain.Equipment, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, invalid("unknown status %q", f.Status)
	}
	if f.MaxRate < 0 || f.Limit < 0 || f.Offset < 0 {
		return nil, invalid("negative paging or rate filter")
	}
	if f.Limit > maxSearchLimit {
		f.Limit = maxSearchLimit
	}
	items, err := s.equipmentRepo.Search(ctx, f)
	return items, fromRepo(err)
}

func (s *equipmentService) Get(ctx context.Context, id string) (*domain.Equipment, error) {
	e, err := s.equipmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err)
	}
	return e, nil
}

func (s *equipmentService) Create(ctx context.Context, actorID string, e *domain.Equipment) error {
	if e.OwnerID == "" {
		e.OwnerID = actorID
	}
	if e.OwnerID != actorID {
		return forbidden("listing for another owner")
	}
	e.Title = strings.TrimSpace(e.Title)
	e.Type = strings.ToLower(strings.TrimSpace(e.Type))
	switch {
	case e.Title == "":
		return invalid("title is required")
	case e.Type == "":
		return invalid("type is required")
	case e.DailyRateCents < 0:
		return invalid("rate must not be negative")
	}
	if e.Status == "" {
		e.Status = domain.EquipmentStatusAvailable
	}
	if !e.Status.Valid() {
		return invalid("unknown status %q", e.Status)
	}
	if err := requireRole(ctx, s.roleRepo, actorID, domain.RoleOwner); err != nil {
		return err
	}
	return fromRepo(s.equipmentRepo.Create(ctx, e))
}

func (s *equipmentService) UpdateStatus(ctx context.Context, actorID, id string, status domain.EquipmentStatus) error {
	if !status.Valid() {
		return invalid("unknown status %q", status)
	}
	e, err := s.equipmentRepo.GetByID(ctx, id)
	if err != nil {
		return fromRepo(err)
	}
	if e.OwnerID != actorID {
		return forbidden("not the owner of this listing")
	}
	return fromRepo(s.equipmentRepo.UpdateStatus(ctx, id, status))
}
