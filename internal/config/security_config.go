package config

type SecurityLevel int

const (
	SecurityPublic  SecurityLevel = iota // No key, no token
	SecurityAPIKey                       // Project API key only
	SecurityAccess                       // API key + access token
	SecurityService                      // Service-role key (admin endpoints)
)

// EndpointSecurityConfig maps gateway route names to their required security level.
// Route names are set on the mux routes in internal/api/http.
var EndpointSecurityConfig = map[string]SecurityLevel{
	// Auth
	"auth.signup": SecurityAPIKey,
	"auth.token":  SecurityAPIKey,
	"auth.logout": SecurityAccess,
	"auth.user":   SecurityAccess,

	// Admin
	"auth.admin.delete_user": SecurityService,

	// Equipment (browsing is public to anyone holding the project key)
	"rest.equipment.list":   SecurityAPIKey,
	"rest.equipment.get":    SecurityAPIKey,
	"rest.equipment.create": SecurityAccess,
	"rest.equipment.update": SecurityAccess,

	// Bookings
	"rest.bookings.list":   SecurityAccess,
	"rest.bookings.create": SecurityAccess,
	"rest.bookings.update": SecurityAccess,

	// Roles and profiles
	"rest.user_roles.list":      SecurityAccess,
	"rest.user_roles.create":    SecurityAccess,
	"rest.user_profiles.create": SecurityAccess,

	// Storage
	"storage.object.upload":   SecurityAccess,
	"storage.object.download": SecurityPublic,

	// Ops
	"health":  SecurityPublic,
	"metrics": SecurityPublic,
}

// GetSecurityLevel returns the level for a route name. Unknown routes require
// an access token.
func GetSecurityLevel(routeName string) SecurityLevel {
	if level, ok := EndpointSecurityConfig[routeName]; ok {
		return level
	}
	return SecurityAccess
}
