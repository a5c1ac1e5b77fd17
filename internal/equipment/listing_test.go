package equipment

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"equiprent/internal/domain"
	"equiprent/internal/gateway"
	"equiprent/internal/gateway/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestToggled(t *testing.T) {
	next, ok := Toggled(domain.EquipmentStatusAvailable)
	assert.True(t, ok)
	assert.Equal(t, domain.EquipmentStatusMaintenance, next)

	next, ok = Toggled(domain.EquipmentStatusMaintenance)
	assert.True(t, ok)
	assert.Equal(t, domain.EquipmentStatusAvailable, next)

	for _, s := range []domain.EquipmentStatus{domain.EquipmentStatusRented, domain.EquipmentStatusUnavailable, ""} {
		assert.False(t, CanToggle(s), s)
	}
}

func TestListing_ToggleStatus(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("Writes once then re-fetches", func(t *testing.T) {
		table := new(mocks.MockEquipmentTable)
		refetched := []domain.Equipment{
			{ID: "e2", OwnerID: "o1", Status: domain.EquipmentStatusAvailable, CreatedAt: now},
			{ID: "e1", OwnerID: "o1", Status: domain.EquipmentStatusMaintenance, CreatedAt: now.Add(-time.Hour)},
		}
		table.On("UpdateStatus", ctx, "e1", domain.EquipmentStatusMaintenance).Return(nil).Once()
		table.On("ListByOwner", ctx, "o1").Return(refetched, nil).Once()

		got, err := NewListing(table, nil).ToggleStatus(ctx, "o1", "e1", domain.EquipmentStatusAvailable)
		require.NoError(t, err)
		assert.Equal(t, refetched, got)
		table.AssertExpectations(t)
	})

	t.Run("Maintenance goes back to available", func(t *testing.T) {
		table := new(mocks.MockEquipmentTable)
		table.On("UpdateStatus", ctx, "e1", domain.EquipmentStatusAvailable).Return(nil)
		table.On("ListByOwner", ctx, "o1").Return([]domain.Equipment{}, nil)

		_, err := NewListing(table, nil).ToggleStatus(ctx, "o1", "e1", domain.EquipmentStatusMaintenance)
		require.NoError(t, err)
		table.AssertExpectations(t)
	})

	t.Run("Rented is not offered", func(t *testing.T) {
		table := new(mocks.MockEquipmentTable)
		_, err := NewListing(table, nil).ToggleStatus(ctx, "o1", "e1", domain.EquipmentStatusRented)
		assert.ErrorIs(t, err, ErrToggleNotOffered)
		table.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
		table.AssertNotCalled(t, "ListByOwner", mock.Anything, mock.Anything)
	})

	t.Run("Write failure skips the re-fetch", func(t *testing.T) {
		table := new(mocks.MockEquipmentTable)
		table.On("UpdateStatus", ctx, "e1", domain.EquipmentStatusMaintenance).
			Return(&gateway.QueryError{Op: "update", Table: "equipment", Status: 403, Err: gateway.ErrForbidden})

		_, err := NewListing(table, nil).ToggleStatus(ctx, "o1", "e1", domain.EquipmentStatusAvailable)
		assert.ErrorIs(t, err, gateway.ErrForbidden)
		table.AssertNotCalled(t, "ListByOwner", mock.Anything, mock.Anything)
	})
}

func TestListing_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("With image", func(t *testing.T) {
		table := new(mocks.MockEquipmentTable)
		storage := new(mocks.MockStorage)
		body := strings.NewReader("png-bytes")
		storage.On("UploadImage", ctx, "drill.png", "image/png", body).Return("http://gw/storage/v1/object/equipment/x.png", nil)
		table.On("Insert", ctx, mock.MatchedBy(func(e *domain.Equipment) bool {
			return e.Title == "Drill" && e.Type == "power-tool" && e.Status == domain.EquipmentStatusAvailable &&
				e.ImageURL == "http://gw/storage/v1/object/equipment/x.png" && e.DailyRateCents == 2500
		})).Run(func(args mock.Arguments) { args.Get(1).(*domain.Equipment).ID = "e1" }).Return(nil)

		e, err := NewListing(table, storage).Create(ctx, Draft{
			OwnerID:        "o1",
			Title:          " Drill ",
			Type:           "Power-Tool",
			DailyRateCents: 2500,
			Image:          &Image{Filename: "drill.png", ContentType: "image/png", Body: body},
		})
		require.NoError(t, err)
		assert.Equal(t, "e1", e.ID)
		table.AssertExpectations(t)
		storage.AssertExpectations(t)
	})

	t.Run("Upload failure inserts nothing", func(t *testing.T) {
		table := new(mocks.MockEquipmentTable)
		storage := new(mocks.MockStorage)
		storage.On("UploadImage", ctx, "a.gif", "image/gif", mock.Anything).Return("", errors.New("too large"))

		_, err := NewListing(table, storage).Create(ctx, Draft{
			OwnerID: "o1", Title: "Ladder", Type: "ladder",
			Image: &Image{Filename: "a.gif", ContentType: "image/gif", Body: strings.NewReader("x")},
		})
		assert.Error(t, err)
		table.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	})

	cases := []struct {
		name  string
		draft Draft
		want  error
	}{
		{"no owner", Draft{Title: "t", Type: "x"}, ErrOwnerRequired},
		{"no title", Draft{OwnerID: "o1", Title: " ", Type: "x"}, ErrTitleRequired},
		{"no type", Draft{OwnerID: "o1", Title: "t"}, ErrTypeRequired},
		{"negative rate", Draft{OwnerID: "o1", Title: "t", Type: "x", DailyRateCents: -1}, ErrNegativeRate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			table := new(mocks.MockEquipmentTable)
			_, err := NewListing(table, nil).Create(ctx, tc.draft)
			assert.ErrorIs(t, err, tc.want)
			table.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
		})
	}
}

func TestListing_ListOwnedRequiresOwner(t *testing.T) {
	_, err := NewListing(new(mocks.MockEquipmentTable), nil).ListOwned(context.Background(), "")
	assert.ErrorIs(t, err, ErrOwnerRequired)
}
