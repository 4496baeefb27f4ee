package model

import "github.com/golang-jwt/jwt"

// TenantClaims is the JWT payload the dashboard issues for API calls. Only
// the tenant identifier matters here; staff/session handling lives upstream.
type TenantClaims struct {
	TenantID string `json:"tenant_id"`
	Role     string `json:"role,omitempty"`
	jwt.StandardClaims
}
