package domain

import "time"

type EquipmentStatus string

const (
	EquipmentStatusAvailable   EquipmentStatus = "available"
	EquipmentStatusMaintenance EquipmentStatus = "maintenance"
	EquipmentStatusUnavailable EquipmentStatus = "unavailable"
	EquipmentStatusRented      EquipmentStatus = "rented"
)

func (s EquipmentStatus) Valid() bool {
	switch s {
	case EquipmentStatusAvailable, EquipmentStatusMaintenance, EquipmentStatusUnavailable, EquipmentStatusRented:
		return true
	}
	return false
}

type Equipment struct {
	ID             string          `json:"id"`
	OwnerID        string          `json:"owner_id"`
	Title          string          `json:"title"`
	Type           string          `json:"type"`
	Description    string          `json:"description"`
	Location       string          `json:"location"`
	DailyRateCents int64           `json:"rate"`
	Status         EquipmentStatus `json:"status"`
	ImageURL       string          `json:"image_url"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// EquipmentFilter narrows public browsing. Zero values mean "any".
type EquipmentFilter struct {
	OwnerID string
	Type    string
	Status  EquipmentStatus
	MaxRate int64
	Query   string
	Limit   int
	Offset  int
}
