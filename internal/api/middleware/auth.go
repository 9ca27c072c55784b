package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sensusai/sensus-server/pkg/logger"
	"github.com/sensusai/sensus-server/pkg/wallet"
)

const AddressKey = "address"

// Auth requires a bearer session token and exposes the wallet address it was
// issued for under AddressKey.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token is required"})
			return
		}

		claims, err := wallet.VerifyToken(token, secret)
		if err != nil {
			log := logger.WithComponent("auth_middleware")
			log.Debug().Err(err).Msg("Rejected session token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(AddressKey, claims.Address)
		c.Next()
	}
}

func Address(c *gin.Context) string {
	return c.GetString(AddressKey)
}
