package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"artist-platform/internal/domains/artist/model"
	"artist-platform/internal/shared/response"
	"artist-platform/pkg/jwt"
	"artist-platform/pkg/logger"
)

// ContextUserID holds the caller's hex key once the token is verified
const ContextUserID = "user_id"

// AuthMiddleware verifies the bearer token and stores the signer key in the context
func AuthMiddleware(tokens *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing authorization header")
			return
		}

		// 2. "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid authorization header format")
			return
		}

		// 3. Verify the token
		claims, err := tokens.ValidateAccessToken(parts[1])
		if err != nil {
			logger.Debug("rejected token: " + err.Error())
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid token")
			return
		}

		// 4. The subject must be a 32-byte key
		key, err := model.ParseKey(claims.UserID)
		if err != nil || key.IsZero() {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid signer key in token")
			return
		}

		c.Set(ContextUserID, key.String())
		c.Next()
	}
}
