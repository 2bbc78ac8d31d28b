package interfaces

import (
	"context"

	"blog-backend/internal/model"
)

// LikePage 是点赞列表的一页
type LikePage struct {
	Likes     []*model.Like
	NextToken string
}

// LikeRepository 接口定义了点赞仓库应该实现的方法
// 点赞的主键是 (post_id, user_id) 组合键
type LikeRepository interface {
	// Find 不存在时返回 (nil, nil)
	Find(ctx context.Context, postID, userID string) (*model.Like, error)
	// Create 条件写入：同键记录已存在时返回 ErrConditionFailed，
	// 并发的重复插入由该条件拦截
	Create(ctx context.Context, like *model.Like) error
	// Delete 条件删除：记录不存在时返回 ErrConditionFailed
	Delete(ctx context.Context, postID, userID string) error
	ListByPost(ctx context.Context, postID string, limit int64, startToken string) (*LikePage, error)
	ListByUser(ctx context.Context, userID string, limit int64, startToken string) (*LikePage, error)
	CountByPost(ctx context.Context, postID string) (int64, error)
}
