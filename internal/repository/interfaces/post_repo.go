package interfaces

import (
	"context"

	"blog-backend/internal/model"
)

// PostPage 是帖子列表的一页，NextToken 为不透明的继续令牌
type PostPage struct {
	Posts     []*model.Post
	NextToken string
}

// PostRepository 接口定义了帖子仓库应该实现的方法
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	FindByID(ctx context.Context, id string) (*model.Post, error)
	// FindBySlug 只匹配已发布的帖子
	FindBySlug(ctx context.Context, slug string) (*model.Post, error)
	ListByStatus(ctx context.Context, status string, limit int64, startToken string) (*PostPage, error)
	ListByAuthor(ctx context.Context, authorID string, limit int64, startToken string) (*PostPage, error)
	// UpdateFields 按字段集合更新，调用方负责白名单过滤
	UpdateFields(ctx context.Context, id string, sets map[string]interface{}) (*model.Post, error)
	// AddViews 对浏览计数做原子加法
	AddViews(ctx context.Context, id string, delta int64) error
	HardDelete(ctx context.Context, id string) error
}
