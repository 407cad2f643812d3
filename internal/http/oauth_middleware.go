package http

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const oauthSecretHeader = "X-OAuth-Callback-Secret"

// OAuthCallbackMiddleware limita /auth/oauth al callback del proveedor
// externo, que comparte un secreto con este servicio. Sin secreto
// configurado la ruta queda deshabilitada.
func OAuthCallbackMiddleware(secret string) gin.HandlerFunc {
	expected := []byte(secret)
	return func(c *gin.Context) {
		if secret == "" {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "oauth not configured"})
			c.Abort()
			return
		}

		got := []byte(strings.TrimSpace(c.GetHeader(oauthSecretHeader)))
		if subtle.ConstantTimeCompare(got, expected) != 1 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}
		c.Next()
	}
}
