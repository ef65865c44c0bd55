package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vexaai/vexa/internal/auth/token"
)

const claimsContextKey = "auth_claims"

// AuthRequired gates a route behind a valid bearer token.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := s.authenticate(c)
		if err != nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		c.Set(claimsContextKey, claims)
		c.Next()
	}
}

// AdminRequired additionally requires the admin claim.
func (s *Server) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := s.authenticate(c)
		if err != nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		if !claims.Admin {
			AbortWithError(c, ErrForbidden)
			return
		}
		c.Set(claimsContextKey, claims)
		c.Next()
	}
}

func (s *Server) authenticate(c *gin.Context) (*token.Claims, error) {
	raw := bearerToken(c.GetHeader("Authorization"))
	if raw == "" {
		return nil, ErrUnauthorized
	}
	return s.authSvc.Authenticate(c.Request.Context(), raw)
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func claimsFromContext(c *gin.Context) *token.Claims {
	value, ok := c.Get(claimsContextKey)
	if !ok {
		return nil
	}
	claims, _ := value.(*token.Claims)
	return claims
}
