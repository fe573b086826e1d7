package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/pingjob/pkg/auth"
	"github.com/d60-Lab/pingjob/pkg/response"
)

const UsernameKey = "username"

// TokenParser is satisfied by *auth.Manager.
type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// JWTAuth 校验 Bearer 令牌
func JWTAuth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			response.Unauthorized(c, "missing bearer token")
			return
		}
		claims, err := parser.Parse(strings.TrimSpace(token))
		if err != nil {
			response.Unauthorized(c, err.Error())
			return
		}
		c.Set(UsernameKey, claims.Username)
		c.Next()
	}
}
