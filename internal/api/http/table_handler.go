package http

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"equiprent/internal/domain"
	"equiprent/internal/gateway"
	"equiprent/internal/service"

	"github.com/gorilla/mux"
)

type tableHandler struct {
	equipmentSvc service.EquipmentService
	bookingSvc   service.BookingService
	accountSvc   service.AccountService
}

// checkOrder accepts only the orderings the tables support.
func checkOrder(q url.Values, allowed string) error {
	if o := q.Get("order"); o != "" && o != allowed {
		return fmt.Errorf("%w: unsupported order %q", service.ErrInvalidInput, o)
	}
	return nil
}

func intParam(q url.Values, name string) (int64, error) {
	v := q.Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", service.ErrInvalidInput, name)
	}
	return n, nil
}

func parseEquipmentFilter(q url.Values) (domain.EquipmentFilter, error) {
	f := domain.EquipmentFilter{
		OwnerID: q.Get("owner_id"),
		Type:    q.Get("type"),
		Status:  domain.EquipmentStatus(q.Get("status")),
		Query:   q.Get("q"),
	}
	if err := checkOrder(q, "created_at.desc"); err != nil {
		return f, err
	}
	maxRate, err := intParam(q, "max_rate")
	if err != nil {
		return f, err
	}
	limit, err := intParam(q, "limit")
	if err != nil {
		return f, err
	}
	offset, err := intParam(q, "offset")
	if err != nil {
		return f, err
	}
	f.MaxRate, f.Limit, f.Offset = maxRate, int(limit), int(offset)
	return f, nil
}

func (h *tableHandler) listEquipment(w http.ResponseWriter, r *http.Request) {
	f, err := parseEquipmentFilter(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}
	items, err := h.equipmentSvc.Search(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *tableHandler) getEquipment(w http.ResponseWriter, r *http.Request) {
	e, err := h.equipmentSvc.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *tableHandler) createEquipment(w http.ResponseWriter, r *http.Request) {
	var e domain.Equipment
	if err := decodeJSON(w, r, &e); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.equipmentSvc.Create(r.Context(), userID(r.Context()), &e); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (h *tableHandler) updateEquipment(w http.ResponseWriter, r *http.Request) {
	var patch gateway.EquipmentStatusPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.equipmentSvc.UpdateStatus(r.Context(), userID(r.Context()), mux.Vars(r)["id"], patch.Status); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// listBookings serves exactly one of owner_id (bookings on the owner's
// equipment) or user_id (the renter's own bookings).
func (h *tableHandler) listBookings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if err := checkOrder(q, "created_at.desc"); err != nil {
		writeError(w, r, err)
		return
	}
	ownerID, renterID := q.Get("owner_id"), q.Get("user_id")

	var (
		bookings []domain.Booking
		err      error
	)
	switch {
	case ownerID != "" && renterID == "":
		bookings, err = h.bookingSvc.ListForOwner(r.Context(), userID(r.Context()), ownerID)
	case renterID != "" && ownerID == "":
		bookings, err = h.bookingSvc.ListForRenter(r.Context(), userID(r.Context()), renterID)
	default:
		err = fmt.Errorf("%w: exactly one of owner_id or user_id is required", service.ErrInvalidInput)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (h *tableHandler) createBooking(w http.ResponseWriter, r *http.Request) {
	var b domain.Booking
	if err := decodeJSON(w, r, &b); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.bookingSvc.Create(r.Context(), userID(r.Context()), &b); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (h *tableHandler) updateBooking(w http.ResponseWriter, r *http.Request) {
	var patch gateway.BookingStatusPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, r, err)
		return
	}
	err := h.bookingSvc.UpdateStatus(r.Context(), userID(r.Context()), mux.Vars(r)["id"], patch.Status, patch.ExpectedStatus)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *tableHandler) listRoles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if err := checkOrder(q, "created_at.asc"); err != nil {
		writeError(w, r, err)
		return
	}
	roles, err := h.accountSvc.ListRoles(r.Context(), userID(r.Context()), q.Get("user_id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, roles)
}

func (h *tableHandler) createRole(w http.ResponseWriter, r *http.Request) {
	var a domain.RoleAssignment
	if err := decodeJSON(w, r, &a); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.accountSvc.AssignRole(r.Context(), userID(r.Context()), &a); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (h *tableHandler) createProfile(w http.ResponseWriter, r *http.Request) {
	var p domain.Profile
	if err := decodeJSON(w, r, &p); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.accountSvc.CreateProfile(r.Context(), userID(r.Context()), &p); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}
