package model

// 用户角色
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User 结构体表示用户文档
// 时间戳统一存储为 RFC3339 格式的字符串
type User struct {
	UserID       string `json:"user_id" dynamodbav:"user_id"`
	Email        string `json:"email" dynamodbav:"email"`
	Username     string `json:"username" dynamodbav:"username"`
	PasswordHash string `json:"-" dynamodbav:"password_hash"` // 密码哈希不应在JSON中暴露
	DisplayName  string `json:"display_name" dynamodbav:"display_name"`
	Role         string `json:"role" dynamodbav:"role"`
	IsActive     bool   `json:"is_active" dynamodbav:"is_active"`
	CreatedAt    string `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt    string `json:"updated_at" dynamodbav:"updated_at"`
}

// IsAdmin 判断用户角色是否为管理员
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// PublicProfile 返回可对外暴露的用户信息
func (u *User) PublicProfile() map[string]interface{} {
	return map[string]interface{}{
		"user_id":      u.UserID,
		"username":     u.Username,
		"display_name": u.DisplayName,
	}
}
