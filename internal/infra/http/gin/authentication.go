package ginserver

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	gin "github.com/gin-gonic/gin"

	"freeshare/internal/app/services/auth"
	domainauth "freeshare/internal/domain/auth"
	"freeshare/internal/domain/shared/fault"
)

const principalContextKey = "freeshare.principal"

type principal struct {
	ID        string
	Email     string
	Name      string
	Token     string
	CreatedAt time.Time
}

type AuthMiddleware struct {
	Service *auth.Service
	Logger  *slog.Logger
}

// Handle attaches the principal for a valid bearer token and otherwise
// passes through; per-route guards decide whether auth is mandatory.
func (m AuthMiddleware) Handle(c *gin.Context) {
	token := extractBearerToken(c.GetHeader("Authorization"))
	if token == "" || m.Service == nil {
		c.Next()
		return
	}
	resolved, err := m.Service.Resolve(c.Request.Context(), domainauth.Token(token))
	if err != nil {
		if !fault.IsUnauthorized(err) && m.Logger != nil {
			m.Logger.Debug("token validation failed", "error", err)
		}
		c.Next()
		return
	}
	setPrincipal(c, principal{
		ID:        string(resolved.ID),
		Email:     resolved.Email,
		Name:      resolved.Name,
		Token:     token,
		CreatedAt: resolved.CreatedAt,
	})
	c.Next()
}

func setPrincipal(c *gin.Context, p principal) {
	c.Set(principalContextKey, p)
}

func currentPrincipal(c *gin.Context) (principal, bool) {
	val, exists := c.Get(principalContextKey)
	if !exists {
		return principal{}, false
	}
	p, ok := val.(principal)
	return p, ok
}

func requireUser(c *gin.Context) (principal, bool) {
	p, ok := currentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "auth required"})
		return principal{}, false
	}
	return p, true
}

func bearerTokenFromContext(c *gin.Context) domainauth.Token {
	if p, ok := currentPrincipal(c); ok {
		return domainauth.Token(p.Token)
	}
	return domainauth.Token(extractBearerToken(c.GetHeader("Authorization")))
}

func extractBearerToken(header string) string {
	if header == "" {
		return ""
	}
	if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}
