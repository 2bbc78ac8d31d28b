package interfaces

import (
	"context"

	"blog-backend/internal/model"
)

// UserRepository 接口定义了用户仓库应该实现的方法
type UserRepository interface {
	// Create 写入新用户，user_id 冲突时返回 ErrConditionFailed
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// UpdateFields 按字段集合更新，只写改动的字段，
	// 并发的资料更新互不覆盖
	UpdateFields(ctx context.Context, id string, sets map[string]interface{}) (*model.User, error)
	// Deactivate 软删除：置 is_active=false，用户永不物理删除
	Deactivate(ctx context.Context, id string) error
}
