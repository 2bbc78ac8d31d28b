package interfaces

import (
	"context"

	"blog-backend/internal/model"
)

// CommentPage 是评论列表的一页
type CommentPage struct {
	Comments  []*model.Comment
	NextToken string
}

// CommentRepository 接口定义了评论仓库应该实现的方法
type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	FindByID(ctx context.Context, id string) (*model.Comment, error)
	// ListByPost 按帖子查询，新评论在前
	ListByPost(ctx context.Context, postID string, limit int64, startToken string) (*CommentPage, error)
	CountByPost(ctx context.Context, postID string) (int64, error)
	Delete(ctx context.Context, id string) error
}
