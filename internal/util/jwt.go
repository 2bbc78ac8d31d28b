package util

import (
	"blog-backend/config"
	"errors"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// Claims 是从已验证令牌中提取的身份声明
type Claims struct {
	UserID string
	Email  string
	Role   string
}

// GenerateToken 签发包含 user_id/email/role 的 HS256 令牌
func GenerateToken(userID, email, role string) (string, error) {
	ttl := time.Duration(config.AppConfig.TokenTTLHours) * time.Hour
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"role":    role,
		"exp":     time.Now().Add(ttl).Unix(),
	})

	return token.SignedString([]byte(config.AppConfig.JWTSecret))
}

// ParseToken 验证令牌并提取身份声明
func ParseToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, errors.New("令牌为空")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("意外的签名算法")
		}
		return []byte(config.AppConfig.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("无效的令牌")
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return nil, errors.New("无效的用户ID")
	}

	result := &Claims{UserID: userID}
	if email, ok := claims["email"].(string); ok {
		result.Email = email
	}
	if role, ok := claims["role"].(string); ok {
		result.Role = role
	} else {
		result.Role = "user"
	}

	return result, nil
}
