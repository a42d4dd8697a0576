package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"lapor-fasilitas/internal/core/auth"
)

const KeyClaims = "claims"

// VerifyToken gates protected routes behind a bearer access token.
// Missing token → 401, malformed/expired → 403; on success the decoded
// claims are attached to the request context.
func VerifyToken(j *auth.JWTer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Akses token tidak ditemukan"})
			return
		}
		claims, err := j.ParseAccess(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Token tidak valid"})
			return
		}
		c.Set(KeyClaims, claims)
		c.Next()
	}
}

// ClaimsFrom returns the identity attached by VerifyToken, nil outside a
// protected route.
func ClaimsFrom(c *gin.Context) *auth.Claims {
	v, ok := c.Get(KeyClaims)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}
