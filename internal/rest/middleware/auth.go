package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/dealhive/dealhive/domain"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

const (
	// CtxUserKey is where the resolved caller identity lives in the gin context.
	CtxUserKey = "user"
)

// AuthMiddleware extracts the caller identity from a bearer token issued by
// the account service and resolves it against the user store. This service
// never issues tokens itself; it only consumes them.
func AuthMiddleware(secret string, users domain.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		sub, err := token.Claims.GetSubject()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
		uid, err := strconv.ParseInt(sub, 10, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		user, err := users.GetByID(c.Request.Context(), uid)
		if err != nil {
			logrus.Warnf("token for unknown user %d: %v", uid, err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}

		c.Set(CtxUserKey, &user)
		c.Set("user_id", user.ID)
		c.Next()
	}
}

// AdminOnly guards moderation routes; it assumes AuthMiddleware ran first.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		val, exists := c.Get(CtxUserKey)
		user, _ := val.(*domain.User)
		if !exists || !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin role required"})
			return
		}
		c.Next()
	}
}
