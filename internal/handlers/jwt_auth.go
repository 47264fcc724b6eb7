package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/CTU-F-2025/forum-service/internal/auth"
	"github.com/CTU-F-2025/forum-service/internal/models"
)

const identityContextKey = "identity"

// JWTAuthMiddleware authenticates requests with the service's own bearer
// tokens and threads the caller identity into the request context.
type JWTAuthMiddleware struct {
	tokens *auth.TokenManager
}

func NewJWTAuthMiddleware(tokens *auth.TokenManager) *JWTAuthMiddleware {
	return &JWTAuthMiddleware{tokens: tokens}
}

// AuthMiddleware rejects requests without a valid bearer token.
func (m *JWTAuthMiddleware) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := m.identityFromHeader(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Message: err.Error()})
			c.Abort()
			return
		}

		setIdentity(c, identity)
		c.Next()
	}
}

// OptionalAuthMiddleware resolves the identity when a valid token is
// present and continues anonymously otherwise.
func (m *JWTAuthMiddleware) OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if identity, err := m.identityFromHeader(c); err == nil {
			setIdentity(c, identity)
		}
		c.Next()
	}
}

// RequireRoleMiddleware checks the caller's role after AuthMiddleware ran.
// Admins pass every role gate.
func (m *JWTAuthMiddleware) RequireRoleMiddleware(requiredRoles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentityFromContext(c)
		if !ok {
			c.JSON(http.StatusForbidden, ErrorResponse{Message: "caller identity not found in context"})
			c.Abort()
			return
		}

		hasRequiredRole := false
		for _, requiredRole := range requiredRoles {
			if identity.Role == requiredRole || identity.IsAdmin() {
				hasRequiredRole = true
				break
			}
		}

		if !hasRequiredRole {
			c.JSON(http.StatusForbidden, ErrorResponse{
				Message: fmt.Sprintf("insufficient permissions, required role: %v", requiredRoles),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

func (m *JWTAuthMiddleware) identityFromHeader(c *gin.Context) (*auth.Identity, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, fmt.Errorf("authorization header missing")
	}

	tokenParts := strings.Split(authHeader, " ")
	if len(tokenParts) != 2 || !strings.EqualFold(tokenParts[0], "bearer") {
		return nil, fmt.Errorf("invalid authorization header format")
	}

	identity, err := m.tokens.Parse(tokenParts[1])
	if err != nil {
		return nil, fmt.Errorf("invalid or expired token")
	}
	return identity, nil
}

func setIdentity(c *gin.Context, identity *auth.Identity) {
	c.Set(identityContextKey, identity)
}

// GetIdentityFromContext extracts the authenticated caller set by the auth
// middleware. The second return is false for anonymous requests.
func GetIdentityFromContext(c *gin.Context) (*auth.Identity, bool) {
	value, exists := c.Get(identityContextKey)
	if !exists {
		return nil, false
	}

	identity, ok := value.(*auth.Identity)
	if !ok {
		return nil, false
	}
	return identity, ok
}

// MustGetIdentity is for endpoints behind AuthMiddleware; it writes the 401
// itself when the identity is unexpectedly missing.
func MustGetIdentity(c *gin.Context) (*auth.Identity, bool) {
	identity, ok := GetIdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
	}
	return identity, ok
}
