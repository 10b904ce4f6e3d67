package middleware

import (
	"net/http"
	"strings"

	"github.com/junaydArshad/Green-Campus/internal/api/token"

	"github.com/gin-gonic/gin"
)

// 上下文键，handlers 通过这些键取回请求身份。
const (
	CtxUserID    = "userID"
	CtxUserEmail = "userEmail"
	CtxIsAdmin   = "isAdmin"
	CtxAdminUser = "adminUser"
)

// AuthMiddleware 校验 Bearer token 并将身份写入上下文。
//
// 普通用户 token 写入 userID/userEmail；管理员 token 写入
// isAdmin/adminUser。缺失或无效一律 401。
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	secret := []byte(jwtSecret)
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization"})
			c.Abort()
			return
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			c.Abort()
			return
		}

		claims, err := token.Parse(secret, parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		if claims.Admin {
			c.Set(CtxIsAdmin, true)
			c.Set(CtxAdminUser, claims.Subject)
			c.Next()
			return
		}

		uid, err := claims.UserID()
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user id"})
			c.Abort()
			return
		}
		c.Set(CtxUserID, uid)
		c.Set(CtxUserEmail, claims.Email)
		c.Next()
	}
}

// AdminOnly 只放行携带管理员 token 的请求。
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(CtxIsAdmin) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			c.Abort()
			return
		}
		c.Next()
	}
}
