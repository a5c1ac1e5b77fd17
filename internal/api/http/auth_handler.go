package http

import (
	"net/http"

	"equiprent/internal/gateway"
	"equiprent/internal/service"

	"github.com/gorilla/mux"
)

type authHandler struct {
	authSvc service.AuthService
}

func tokenResponse(t *service.Tokens) gateway.TokenResponse {
	return gateway.TokenResponse{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    "bearer",
		ExpiresIn:    int64(t.ExpiresIn.Seconds()),
		User:         t.User,
	}
}

// signUp creates the identity and signs it in.
func (h *authHandler) signUp(w http.ResponseWriter, r *http.Request) {
	var creds gateway.Credentials
	if err := decodeJSON(w, r, &creds); err != nil {
		writeError(w, r, err)
		return
	}
	tokens, err := h.authSvc.SignUp(r.Context(), creds.Email, creds.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse(tokens))
}

func (h *authHandler) token(w http.ResponseWriter, r *http.Request) {
	var (
		tokens *service.Tokens
		err    error
	)
	switch grant := r.URL.Query().Get("grant_type"); grant {
	case "password":
		var creds gateway.Credentials
		if err := decodeJSON(w, r, &creds); err != nil {
			writeError(w, r, err)
			return
		}
		tokens, err = h.authSvc.SignIn(r.Context(), creds.Email, creds.Password)
	case "refresh_token":
		var req gateway.RefreshRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		tokens, err = h.authSvc.Refresh(r.Context(), req.RefreshToken)
	default:
		writeErrorCode(w, http.StatusBadRequest, "unsupported_grant_type", "unsupported grant_type "+grant)
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse(tokens))
}

func (h *authHandler) logout(w http.ResponseWriter, r *http.Request) {
	p := PrincipalFrom(r.Context())
	if err := h.authSvc.SignOut(r.Context(), p.Claims); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *authHandler) user(w http.ResponseWriter, r *http.Request) {
	u, err := h.authSvc.GetUser(r.Context(), userID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, gateway.UserResponse{User: *u})
}

// deleteUser removes any identity for service callers, and only the caller's
// own identity for session callers, whose session is revoked with it.
func (h *authHandler) deleteUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	p := PrincipalFrom(r.Context())
	if !p.Service && p.UserID != id {
		writeErrorCode(w, http.StatusForbidden, "forbidden", "only the service key can delete other identities")
		return
	}
	if err := h.authSvc.DeleteUser(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	if !p.Service {
		if err := h.authSvc.SignOut(r.Context(), p.Claims); err != nil {
			writeError(w, r, err)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}
