package middleware

import (
	"strings"

	"blog-backend/internal/errors"
	"blog-backend/internal/util"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// AuthMiddleware 验证 Bearer 令牌并把身份声明放入请求上下文。
// 核心逻辑只信任从已验证令牌中提取的声明，从不自行解析令牌
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := claimsFromHeader(c)
		if err != nil {
			errors.HandleError(c, err)
			c.Abort()
			return
		}

		c.Set(identityKey, claims)
		c.Next()
	}
}

// OptionalAuthMiddleware 与 AuthMiddleware 相同，但允许匿名访问：
// 没有令牌时继续处理，无效令牌仍然拒绝
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}

		claims, err := claimsFromHeader(c)
		if err != nil {
			errors.HandleError(c, err)
			c.Abort()
			return
		}

		c.Set(identityKey, claims)
		c.Next()
	}
}

// Identity 从请求上下文中取出身份声明，未认证时返回 nil
func Identity(c *gin.Context) *util.Claims {
	value, exists := c.Get(identityKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*util.Claims)
	if !ok {
		return nil
	}
	return claims
}

func claimsFromHeader(c *gin.Context) (*util.Claims, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, errors.New(errors.ErrUnauthorized, "需要认证")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if !(len(parts) == 2 && parts[0] == "Bearer") {
		return nil, errors.New(errors.ErrUnauthorized, "无效的认证格式")
	}

	claims, err := util.ParseToken(parts[1])
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidToken, "无效或过期的令牌", err)
	}
	return claims, nil
}
