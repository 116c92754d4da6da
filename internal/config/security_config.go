// config/security_config.go
package config

type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota // No authentication
	SecurityAdmin                       // Admin access token required
)

// EndpointSecurityConfig maps "METHOD /route/template" to its required security level
var EndpointSecurityConfig = map[string]SecurityLevel{
	// Health and metrics
	"GET /healthz": SecurityPublic,
	"GET /metrics": SecurityPublic,

	// Applicant facing - Public
	"POST /api/v1/applications":    SecurityPublic,
	"POST /api/v1/results/lookup":  SecurityPublic,
	"POST /api/v1/update-requests": SecurityPublic,

	// Pending applications - Admin
	"GET /api/v1/admin/applications":               SecurityAdmin,
	"PATCH /api/v1/admin/applications/{id}":        SecurityAdmin,
	"DELETE /api/v1/admin/applications/{id}":       SecurityAdmin,
	"POST /api/v1/admin/applications/{id}/promote": SecurityAdmin,
	"POST /api/v1/admin/applications/promote":      SecurityAdmin,
	"POST /api/v1/admin/import":                    SecurityAdmin,

	// Approved examiners - Admin
	"GET /api/v1/admin/examiners":            SecurityAdmin,
	"GET /api/v1/admin/examiners/search":     SecurityAdmin,
	"PATCH /api/v1/admin/examiners/{id}":     SecurityAdmin,
	"DELETE /api/v1/admin/examiners/{id}":    SecurityAdmin,
	"POST /api/v1/admin/examiners/{id}/tpin": SecurityAdmin,
	"GET /api/v1/admin/tpin/candidates":      SecurityAdmin,
	"GET /api/v1/admin/serials/next":         SecurityAdmin,
	"GET /api/v1/admin/thresholds":           SecurityAdmin,
	"POST /api/v1/admin/reports/thresholds":  SecurityAdmin,
	"GET /api/v1/admin/reports/options":      SecurityAdmin,

	// Update requests - Admin
	"GET /api/v1/admin/update-requests":               SecurityAdmin,
	"POST /api/v1/admin/update-requests/{id}/approve": SecurityAdmin,
	"DELETE /api/v1/admin/update-requests/{id}":       SecurityAdmin,
}

// GetSecurityLevel returns the security level for a given method and route template
func GetSecurityLevel(method, route string) SecurityLevel {
	if level, exists := EndpointSecurityConfig[method+" "+route]; exists {
		return level
	}
	// Default to highest security for unknown endpoints
	return SecurityAdmin
}
