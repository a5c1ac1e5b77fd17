// Package equipment manages an owner's inventory and public browsing.
package equipment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"equiprent/internal/domain"
	"equiprent/internal/gateway"
	"equiprent/internal/logger"
)

var (
	ErrToggleNotOffered = errors.New("status toggle is only offered for available or maintenance listings")
	ErrOwnerRequired    = errors.New("owner is required")
	ErrTitleRequired    = errors.New("title is required")
	ErrTypeRequired     = errors.New("type is required")
	ErrNegativeRate     = errors.New("daily rate must not be negative")
)

// Toggled returns the status a toggle moves current to.
func Toggled(current domain.EquipmentStatus) (domain.EquipmentStatus, bool) {
	switch current {
	case domain.EquipmentStatusAvailable:
		return domain.EquipmentStatusMaintenance, true
	case domain.EquipmentStatusMaintenance:
		return domain.EquipmentStatusAvailable, true
	}
	return "", false
}

// CanToggle is the guard views use before offering the toggle.
func CanToggle(current domain.EquipmentStatus) bool {
	_, ok := Toggled(current)
	return ok
}

type Listing struct {
	table   gateway.EquipmentTable
	storage gateway.Storage
	log     *slog.Logger
}

func NewListing(table gateway.EquipmentTable, storage gateway.Storage) *Listing {
	return &Listing{
		table:   table,
		storage: storage,
		log:     logger.WithComponent("equipment"),
	}
}

// ToggleStatus flips a listing between available and maintenance, then
// re-fetches the owner's listings so callers see gateway-confirmed state.
func (l *Listing) ToggleStatus(ctx context.Context, ownerID, id string, current domain.EquipmentStatus) ([]domain.Equipment, error) {
	next, ok := Toggled(current)
	if !ok {
		return nil, fmt.Errorf("toggle %s (%s): %w", id, current, ErrToggleNotOffered)
	}

	if err := l.table.UpdateStatus(ctx, id, next); err != nil {
		l.log.Error("Failed to toggle equipment status", "equipment_id", id, "to", next, "error", err)
		return nil, err
	}
	l.log.Info("Equipment status toggled", "equipment_id", id, "from", current, "to", next)

	return l.ListOwned(ctx, ownerID)
}

// ListOwned returns the owner's listings, newest first.
func (l *Listing) ListOwned(ctx context.Context, ownerID string) ([]domain.Equipment, error) {
	if ownerID == "" {
		return nil, ErrOwnerRequired
	}
	return l.table.ListByOwner(ctx, ownerID)
}

// Browse is the public, unscoped listing view.
func (l *Listing) Browse(ctx context.Context, filter domain.EquipmentFilter) ([]domain.Equipment, error) {
	return l.table.Browse(ctx, filter)
}

func (l *Listing) Get(ctx context.Context, id string) (*domain.Equipment, error) {
	return l.table.Get(ctx, id)
}

// Image is an optional picture attached to a new listing.
type Image struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

type Draft struct {
	OwnerID        string
	Title          string
	Type           string
	Description    string
	Location       string
	DailyRateCents int64
	Image          *Image
}

func (d Draft) validate() error {
	switch {
	case d.OwnerID == "":
		return ErrOwnerRequired
	case strings.TrimSpace(d.Title) == "":
		return ErrTitleRequired
	case strings.TrimSpace(d.Type) == "":
		return ErrTypeRequired
	case d.DailyRateCents < 0:
		return ErrNegativeRate
	}
	return nil
}

// Create uploads the image, if any, and inserts an available listing.
func (l *Listing) Create(ctx context.Context, d Draft) (*domain.Equipment, error) {
	logger.EnterMethod("Listing.Create", "owner_id", d.OwnerID, "title", d.Title)
	if err := d.validate(); err != nil {
		logger.ExitMethodWithError("Listing.Create", err)
		return nil, err
	}

	e := &domain.Equipment{
		OwnerID:        d.OwnerID,
		Title:          strings.TrimSpace(d.Title),
		Type:           strings.ToLower(strings.TrimSpace(d.Type)),
		Description:    d.Description,
		Location:       d.Location,
		DailyRateCents: d.DailyRateCents,
		Status:         domain.EquipmentStatusAvailable,
	}

	if d.Image != nil {
		url, err := l.storage.UploadImage(ctx, d.Image.Filename, d.Image.ContentType, d.Image.Body)
		if err != nil {
			logger.ExitMethodWithError("Listing.Create", err)
			return nil, fmt.Errorf("upload image: %w", err)
		}
		e.ImageURL = url
	}

	if err := l.table.Insert(ctx, e); err != nil {
		logger.ExitMethodWithError("Listing.Create", err)
		return nil, err
	}

	logger.ExitMethod("Listing.Create", "equipment_id", e.ID)
	return e, nil
}
