package rest

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"equiprent/internal/domain"
	"equiprent/internal/gateway"
)

type equipmentTable struct {
	c *Client
}

func (t *equipmentTable) ListByOwner(ctx context.Context, ownerID string) ([]domain.Equipment, error) {
	var rows []domain.Equipment
	status, err := t.c.do(ctx, request{
		method: http.MethodGet,
		path:   "/rest/v1/equipment",
		query:  url.Values{"owner_id": {ownerID}, "order": {"created_at.desc"}},
		cred:   credSession,
	}, &rows)
	if err != nil {
		return nil, queryErr("select", gateway.TableEquipment, status, err)
	}
	return rows, nil
}

func (t *equipmentTable) Browse(ctx context.Context, f domain.EquipmentFilter) ([]domain.Equipment, error) {
	q := url.Values{"order": {"created_at.desc"}}
	if f.OwnerID != "" {
		q.Set("owner_id", f.OwnerID)
	}
	if f.Type != "" {
		q.Set("type", f.Type)
	}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.MaxRate > 0 {
		q.Set("max_rate", strconv.FormatInt(f.MaxRate, 10))
	}
	if f.Query != "" {
		q.Set("q", f.Query)
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Offset > 0 {
		q.Set("offset", strconv.Itoa(f.Offset))
	}

	var rows []domain.Equipment
	status, err := t.c.do(ctx, request{
		method: http.MethodGet,
		path:   "/rest/v1/equipment",
		query:  q,
	}, &rows)
	if err != nil {
		return nil, queryErr("select", gateway.TableEquipment, status, err)
	}
	return rows, nil
}

func (t *equipmentTable) Get(ctx context.Context, id string) (*domain.Equipment, error) {
	var e domain.Equipment
	status, err := t.c.do(ctx, request{
		method: http.MethodGet,
		path:   "/rest/v1/equipment/" + url.PathEscape(id),
	}, &e)
	if err != nil {
		return nil, queryErr("select", gateway.TableEquipment, status, err)
	}
	return &e, nil
}

func (t *equipmentTable) Insert(ctx context.Context, e *domain.Equipment) error {
	status, err := t.c.do(ctx, request{
		method: http.MethodPost,
		path:   "/rest/v1/equipment",
		body:   e,
		cred:   credSession,
	}, e)
	if err != nil {
		return queryErr("insert", gateway.TableEquipment, status, err)
	}
	return nil
}

func (t *equipmentTable) UpdateStatus(ctx context.Context, id string, s domain.EquipmentStatus) error {
	status, err := t.c.do(ctx, request{
		method: http.MethodPatch,
		path:   "/rest/v1/equipment/" + url.PathEscape(id),
		body:   gateway.EquipmentStatusPatch{Status: s},
		cred:   credSession,
	}, nil)
	if err != nil {
		return queryErr("update", gateway.TableEquipment, status, err)
	}
	return nil
}

type bookingTable struct {
	c *Client
}

func (t *bookingTable) ListForOwner(ctx context.Context, ownerID string) ([]domain.Booking, error) {
	return t.list(ctx, url.Values{"owner_id": {ownerID}, "order": {"created_at.desc"}})
}

func (t *bookingTable) ListForRenter(ctx context.Context, renterID string) ([]domain.Booking, error) {
	return t.list(ctx, url.Values{"user_id": {renterID}, "order": {"created_at.desc"}})
}

func (t *bookingTable) list(ctx context.Context, q url.Values) ([]domain.Booking, error) {
	var rows []domain.Booking
	status, err := t.c.do(ctx, request{
		method: http.MethodGet,
		path:   "/rest/v1/bookings",
		query:  q,
		cred:   credSession,
	}, &rows)
	if err != nil {
		return nil, queryErr("select", gateway.TableBookings, status, err)
	}
	return rows, nil
}

func (t *bookingTable) Insert(ctx context.Context, b *domain.Booking) error {
	status, err := t.c.do(ctx, request{
		method: http.MethodPost,
		path:   "/rest/v1/bookings",
		body:   b,
		cred:   credSession,
	}, b)
	if err != nil {
		return queryErr("insert", gateway.TableBookings, status, err)
	}
	return nil
}

func (t *bookingTable) UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus) error {
	status, err := t.c.do(ctx, request{
		method: http.MethodPatch,
		path:   "/rest/v1/bookings/" + url.PathEscape(id),
		body:   gateway.BookingStatusPatch{Status: to, ExpectedStatus: from},
		cred:   credSession,
	}, nil)
	if err != nil {
		return queryErr("update", gateway.TableBookings, status, err)
	}
	return nil
}

type roleTable struct {
	c *Client
}

func (t *roleTable) List(ctx context.Context, userID string) ([]domain.RoleAssignment, error) {
	var rows []domain.RoleAssignment
	status, err := t.c.do(ctx, request{
		method: http.MethodGet,
		path:   "/rest/v1/user_roles",
		query:  url.Values{"user_id": {userID}, "order": {"created_at.asc"}},
		cred:   credSession,
	}, &rows)
	if err != nil {
		return nil, queryErr("select", gateway.TableRoles, status, err)
	}
	return rows, nil
}

func (t *roleTable) Insert(ctx context.Context, a domain.RoleAssignment) error {
	status, err := t.c.do(ctx, request{
		method: http.MethodPost,
		path:   "/rest/v1/user_roles",
		body:   a,
		cred:   credSession,
	}, nil)
	if err != nil {
		return queryErr("insert", gateway.TableRoles, status, err)
	}
	return nil
}

type profileTable struct {
	c *Client
}

func (t *profileTable) Insert(ctx context.Context, p domain.Profile) error {
	status, err := t.c.do(ctx, request{
		method: http.MethodPost,
		path:   "/rest/v1/user_profiles",
		body:   p,
		cred:   credSession,
	}, nil)
	if err != nil {
		return queryErr("insert", gateway.TableProfiles, status, err)
	}
	return nil
}
