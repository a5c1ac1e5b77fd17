package gateway

import "equiprent/internal/domain"

// Wire types shared by the REST client and the gateway HTTP handlers.

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest is the body of a refresh_token grant.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type TokenResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	TokenType    string          `json:"token_type"`
	ExpiresIn    int64           `json:"expires_in"`
	User         domain.Identity `json:"user"`
}

type UserResponse struct {
	User domain.Identity `json:"user"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type EquipmentStatusPatch struct {
	Status domain.EquipmentStatus `json:"status"`
}

type BookingStatusPatch struct {
	Status         domain.BookingStatus `json:"status"`
	ExpectedStatus domain.BookingStatus `json:"expected_status,omitempty"`
}

type UploadResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

const (
	HeaderAPIKey = "apikey"

	TableEquipment = "equipment"
	TableBookings  = "bookings"
	TableRoles     = "user_roles"
	TableProfiles  = "user_profiles"
)
