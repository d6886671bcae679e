package config

type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota // No authentication
	SecurityAccess                      // Access token required
)

// EndpointSecurityConfig maps HTTP route names and gRPC methods to their required
// security level.
var EndpointSecurityConfig = map[string]SecurityLevel{
	// Probes and static files - Public
	"health":                                                         SecurityPublic,
	"files":                                                          SecurityPublic,
	"/grpc.health.v1.Health/Check":                                   SecurityPublic,
	"/grpc.health.v1.Health/Watch":                                   SecurityPublic,
	"/grpc.reflection.v1.ServerReflection/ServerReflectionInfo":      SecurityPublic,
	"/grpc.reflection.v1alpha.ServerReflection/ServerReflectionInfo": SecurityPublic,

	// Rentals - Access Protected
	"rentals.create":         SecurityAccess,
	"rentals.list":           SecurityAccess,
	"rentals.get":            SecurityAccess,
	"rentals.payment_status": SecurityAccess,
	"rentals.history":        SecurityAccess,
	"rentals.approve":        SecurityAccess,
	"rentals.reject":         SecurityAccess,
	"rentals.payment_proof":  SecurityAccess,
	"rentals.verify_payment": SecurityAccess,
	"rentals.cancel":         SecurityAccess,
	"rentals.return":         SecurityAccess,

	// Renter - Access Protected
	"renter.dashboard": SecurityAccess,
	"renter.rentals":   SecurityAccess,

	// Notifications - Access Protected
	"notifications.list": SecurityAccess,
	"notifications.read": SecurityAccess,
}

// GetSecurityLevel returns the security level for a given route or method
func GetSecurityLevel(name string) SecurityLevel {
	if level, exists := EndpointSecurityConfig[name]; exists {
		return level
	}
	// Default to highest security for unknown endpoints
	return SecurityAccess
}
