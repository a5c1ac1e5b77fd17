// Package mocks holds testify doubles of the gateway interfaces.
package mocks

import (
	"context"
	"io"

	"equiprent/internal/domain"
	"equiprent/internal/gateway"

	"github.com/stretchr/testify/mock"
)

// MockAuth
type MockAuth struct {
	mock.Mock
	Events *gateway.AuthEvents
}

func NewMockAuth() *MockAuth {
	return &MockAuth{Events: gateway.NewAuthEvents()}
}

func (m *MockAuth) SignInWithPassword(ctx context.Context, email, password string) (*domain.Session, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockAuth) SignUp(ctx context.Context, email, password string) (*domain.Identity, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Identity), args.Error(1)
}

func (m *MockAuth) SignOut(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockAuth) GetSession(ctx context.Context) (*domain.Session, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockAuth) DeleteIdentity(ctx context.Context, identityID string) error {
	args := m.Called(ctx, identityID)
	return args.Error(0)
}

// OnAuthStateChange is not recorded; tests drive events through m.Events.
func (m *MockAuth) OnAuthStateChange(fn gateway.AuthListener) func() {
	if m.Events == nil {
		m.Events = gateway.NewAuthEvents()
	}
	return m.Events.Subscribe(fn)
}

// MockEquipmentTable
type MockEquipmentTable struct {
	mock.Mock
}

func (m *MockEquipmentTable) ListByOwner(ctx context.Context, ownerID string) ([]domain.Equipment, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Equipment), args.Error(1)
}

func (m *MockEquipmentTable) Browse(ctx context.Context, filter domain.EquipmentFilter) ([]domain.Equipment, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Equipment), args.Error(1)
}

func (m *MockEquipmentTable) Get(ctx context.Context, id string) (*domain.Equipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Equipment), args.Error(1)
}

func (m *MockEquipmentTable) Insert(ctx context.Context, e *domain.Equipment) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEquipmentTable) UpdateStatus(ctx context.Context, id string, status domain.EquipmentStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// MockBookingTable
type MockBookingTable struct {
	mock.Mock
}

func (m *MockBookingTable) ListForOwner(ctx context.Context, ownerID string) ([]domain.Booking, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingTable) ListForRenter(ctx context.Context, renterID string) ([]domain.Booking, error) {
	args := m.Called(ctx, renterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingTable) Insert(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBookingTable) UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}

// MockRoleTable
type MockRoleTable struct {
	mock.Mock
}

func (m *MockRoleTable) List(ctx context.Context, userID string) ([]domain.RoleAssignment, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RoleAssignment), args.Error(1)
}

func (m *MockRoleTable) Insert(ctx context.Context, a domain.RoleAssignment) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

// MockProfileTable
type MockProfileTable struct {
	mock.Mock
}

func (m *MockProfileTable) Insert(ctx context.Context, p domain.Profile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

// MockStorage
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) UploadImage(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	args := m.Called(ctx, filename, contentType, body)
	return args.String(0), args.Error(1)
}

var (
	_ gateway.Auth           = (*MockAuth)(nil)
	_ gateway.EquipmentTable = (*MockEquipmentTable)(nil)
	_ gateway.BookingTable   = (*MockBookingTable)(nil)
	_ gateway.RoleTable      = (*MockRoleTable)(nil)
	_ gateway.ProfileTable   = (*MockProfileTable)(nil)
	_ gateway.Storage        = (*MockStorage)(nil)
)
