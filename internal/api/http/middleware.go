package http

import (
	"crypto/subtle"
	"net/http"
	"strconv"
	"strings"

	"equiprent/internal/config"
	"equiprent/internal/gateway"
	"equiprent/internal/logger"
	"equiprent/internal/metrics"
	"equiprent/internal/service"

	"github.com/felixge/httpsnoop"
	"github.com/gorilla/mux"
)

func routeName(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil && route.GetName() != "" {
		return route.GetName()
	}
	return "unmatched"
}

// AuthMiddleware enforces the security level of the matched route.
//
//	Public:  nothing
//	APIKey:  apikey header holds the project key (or the service key)
//	Access:  apikey header plus a session access token as bearer
//	Service: apikey header plus the service key as bearer; a session token is
//	         also let through and handlers restrict it to the caller's own rows
type AuthMiddleware struct {
	authSvc    service.AuthService
	apiKey     string
	serviceKey string
}

func NewAuthMiddleware(authSvc service.AuthService, apiKey, serviceKey string) *AuthMiddleware {
	return &AuthMiddleware{authSvc: authSvc, apiKey: apiKey, serviceKey: serviceKey}
}

func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		level := config.GetSecurityLevel(routeName(r))

		// Public endpoint - skip auth
		if level == config.SecurityPublic {
			next.ServeHTTP(w, r)
			return
		}

		key := r.Header.Get(gateway.HeaderAPIKey)
		if !m.isAPIKey(key) && !m.isServiceKey(key) {
			writeErrorCode(w, http.StatusUnauthorized, "invalid_api_key", "missing or invalid api key")
			return
		}
		if level == config.SecurityAPIKey {
			next.ServeHTTP(w, r)
			return
		}

		bearer := extractBearer(r)
		if bearer == "" {
			writeErrorCode(w, http.StatusUnauthorized, "invalid_token", "authorization token is not provided")
			return
		}

		if level == config.SecurityService && m.isServiceKey(bearer) {
			next.ServeHTTP(w, r.WithContext(withPrincipal(r.Context(), &Principal{Service: true})))
			return
		}
		if m.isAPIKey(bearer) || m.isServiceKey(bearer) {
			writeErrorCode(w, http.StatusUnauthorized, "invalid_token", "a session token is required")
			return
		}

		claims, err := m.authSvc.Authenticate(r.Context(), bearer)
		if err != nil {
			writeError(w, r, err)
			return
		}
		p := &Principal{UserID: claims.UserID(), Email: claims.Email, Claims: claims}
		next.ServeHTTP(w, r.WithContext(withPrincipal(r.Context(), p)))
	})
}

func (m *AuthMiddleware) isAPIKey(s string) bool {
	return s != "" && subtle.ConstantTimeCompare([]byte(s), []byte(m.apiKey)) == 1
}

func (m *AuthMiddleware) isServiceKey(s string) bool {
	return s != "" && m.serviceKey != "" && subtle.ConstantTimeCompare([]byte(s), []byte(m.serviceKey)) == 1
}

func extractBearer(r *http.Request) string {
	token := r.Header.Get("Authorization")
	// Remove Bearer prefix if present
	if len(token) > 7 && strings.ToUpper(token[0:7]) == "BEARER " {
		token = token[7:]
	}
	return strings.TrimSpace(token)
}

// InstrumentMiddleware logs each request and records its latency and status.
func InstrumentMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := routeName(r)
		m := httpsnoop.CaptureMetrics(next, w, r)

		metrics.HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(m.Code)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(route).Observe(m.Duration.Seconds())
		logger.HTTPRequest(r.Method, r.URL.Path, m.Code, m.Duration, "route", route, "bytes", m.Written)
	})
}
