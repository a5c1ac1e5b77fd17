package http

import (
	"context"
	"io"
	"time"

	"equiprent/internal/domain"
	"equiprent/internal/security"
	"equiprent/internal/service"

	"github.com/stretchr/testify/mock"
)

type mockAuthService struct {
	mock.Mock
}

func (m *mockAuthService) SignUp(ctx context.Context, email, password string) (*service.Tokens, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Tokens), args.Error(1)
}
func (m *mockAuthService) SignIn(ctx context.Context, email, password string) (*service.Tokens, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Tokens), args.Error(1)
}
func (m *mockAuthService) Refresh(ctx context.Context, refreshToken string) (*service.Tokens, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Tokens), args.Error(1)
}
func (m *mockAuthService) SignOut(ctx context.Context, claims *security.UserClaims) error {
	args := m.Called(ctx, claims)
	return args.Error(0)
}
func (m *mockAuthService) Authenticate(ctx context.Context, token string) (*security.UserClaims, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*security.UserClaims), args.Error(1)
}
func (m *mockAuthService) GetUser(ctx context.Context, userID string) (*domain.Identity, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Identity), args.Error(1)
}
func (m *mockAuthService) DeleteUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type mockAccountService struct {
	mock.Mock
}

func (m *mockAccountService) ListRoles(ctx context.Context, actorID, userID string) ([]domain.RoleAssignment, error) {
	args := m.Called(ctx, actorID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RoleAssignment), args.Error(1)
}
func (m *mockAccountService) AssignRole(ctx context.Context, actorID string, a *domain.RoleAssignment) error {
	args := m.Called(ctx, actorID, a)
	return args.Error(0)
}
func (m *mockAccountService) CreateProfile(ctx context.Context, actorID string, p *domain.Profile) error {
	args := m.Called(ctx, actorID, p)
	return args.Error(0)
}

type mockEquipmentService struct {
	mock.Mock
}

func (m *mockEquipmentService) Search(ctx context.Context, f domain.EquipmentFilter) ([]domain.Equipment, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Equipment), args.Error(1)
}
func (m *mockEquipmentService) Get(ctx context.Context, id string) (*domain.Equipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Equipment), args.Error(1)
}
func (m *mockEquipmentService) Create(ctx context.Context, actorID string, e *domain.Equipment) error {
	args := m.Called(ctx, actorID, e)
	return args.Error(0)
}
func (m *mockEquipmentService) UpdateStatus(ctx context.Context, actorID, id string, status domain.EquipmentStatus) error {
	args := m.Called(ctx, actorID, id, status)
	return args.Error(0)
}

type mockBookingService struct {
	mock.Mock
}

func (m *mockBookingService) ListForOwner(ctx context.Context, actorID, ownerID string) ([]domain.Booking, error) {
	args := m.Called(ctx, actorID, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *mockBookingService) ListForRenter(ctx context.Context, actorID, renterID string) ([]domain.Booking, error) {
	args := m.Called(ctx, actorID, renterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *mockBookingService) Create(ctx context.Context, actorID string, b *domain.Booking) error {
	args := m.Called(ctx, actorID, b)
	return args.Error(0)
}
func (m *mockBookingService) UpdateStatus(ctx context.Context, actorID, id string, to, expected domain.BookingStatus) error {
	args := m.Called(ctx, actorID, id, to, expected)
	return args.Error(0)
}
func (m *mockBookingService) CompleteElapsed(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}

type mockImageService struct {
	mock.Mock
}

func (m *mockImageService) Upload(ctx context.Context, actorID, filename, contentType string, body io.Reader) (string, string, error) {
	args := m.Called(ctx, actorID, filename, contentType, body)
	return args.String(0), args.String(1), args.Error(2)
}
func (m *mockImageService) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}
