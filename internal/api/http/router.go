// Package http is the gateway's REST surface: the auth, table and storage
// routes the client talks to.
package http

import (
	"log/slog"
	"net/http"

	"equiprent/internal/logger"
	"equiprent/internal/metrics"
	"equiprent/internal/service"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

type Deps struct {
	Auth       service.AuthService
	Accounts   service.AccountService
	Equipment  service.EquipmentService
	Bookings   service.BookingService
	Images     service.ImageService
	APIKey     string
	ServiceKey string
	// AllowedOrigins for CORS. Empty allows any origin.
	AllowedOrigins []string
}

// NewRouter wires every route. Route names key the security levels in
// config.EndpointSecurityConfig.
func NewRouter(d Deps) http.Handler {
	auth := &authHandler{authSvc: d.Auth}
	tables := &tableHandler{equipmentSvc: d.Equipment, bookingSvc: d.Bookings, accountSvc: d.Accounts}
	objects := &storageHandler{imageSvc: d.Images}

	router := mux.NewRouter()
	router.Use(InstrumentMiddleware, NewAuthMiddleware(d.Auth, d.APIKey, d.ServiceKey).Handler)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet).Name("health")
	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet).Name("metrics")

	a := router.PathPrefix("/auth/v1").Subrouter()
	a.HandleFunc("/signup", auth.signUp).Methods(http.MethodPost).Name("auth.signup")
	a.HandleFunc("/token", auth.token).Methods(http.MethodPost).Name("auth.token")
	a.HandleFunc("/logout", auth.logout).Methods(http.MethodPost).Name("auth.logout")
	a.HandleFunc("/user", auth.user).Methods(http.MethodGet).Name("auth.user")
	a.HandleFunc("/admin/users/{id}", auth.deleteUser).Methods(http.MethodDelete).Name("auth.admin.delete_user")

	rest := router.PathPrefix("/rest/v1").Subrouter()
	rest.HandleFunc("/equipment", tables.listEquipment).Methods(http.MethodGet).Name("rest.equipment.list")
	rest.HandleFunc("/equipment", tables.createEquipment).Methods(http.MethodPost).Name("rest.equipment.create")
	rest.HandleFunc("/equipment/{id}", tables.getEquipment).Methods(http.MethodGet).Name("rest.equipment.get")
	rest.HandleFunc("/equipment/{id}", tables.updateEquipment).Methods(http.MethodPatch).Name("rest.equipment.update")
	rest.HandleFunc("/bookings", tables.listBookings).Methods(http.MethodGet).Name("rest.bookings.list")
	rest.HandleFunc("/bookings", tables.createBooking).Methods(http.MethodPost).Name("rest.bookings.create")
	rest.HandleFunc("/bookings/{id}", tables.updateBooking).Methods(http.MethodPatch).Name("rest.bookings.update")
	rest.HandleFunc("/user_roles", tables.listRoles).Methods(http.MethodGet).Name("rest.user_roles.list")
	rest.HandleFunc("/user_roles", tables.createRole).Methods(http.MethodPost).Name("rest.user_roles.create")
	rest.HandleFunc("/user_profiles", tables.createProfile).Methods(http.MethodPost).Name("rest.user_profiles.create")

	obj := router.PathPrefix("/storage/v1/object").Subrouter()
	obj.HandleFunc("/equipment/{name}", objects.upload).Methods(http.MethodPut).Name("storage.object.upload")
	obj.HandleFunc("/{key:.+}", objects.download).Methods(http.MethodGet).Name("storage.object.download")

	cors := []handlers.CORSOption{
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type", "apikey"}),
	}
	if len(d.AllowedOrigins) > 0 {
		cors = append(cors, handlers.AllowedOrigins(d.AllowedOrigins))
	}

	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(slog.NewLogLogger(logger.Get().Handler(), slog.LevelError)),
	)
	return recovery(handlers.CORS(cors...)(router))
}
