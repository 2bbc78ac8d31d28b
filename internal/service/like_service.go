package service

import (
	"context"

	"blog-backend/internal/errors"
	"blog-backend/internal/model"
	"blog-backend/internal/repository/interfaces"
	"blog-backend/internal/store"
	"blog-backend/internal/util"

	"go.uber.org/zap"
)

// 点赞切换的结果动作
const (
	ActionLiked   = "liked"
	ActionUnliked = "unliked"
)

// LikeService 处理与点赞相关的业务逻辑
type LikeService struct {
	likeRepo interfaces.LikeRepository
	postRepo interfaces.PostRepository
	counters interfaces.CounterEngine
}

// NewLikeService 创建一个新的 LikeService 实例
func NewLikeService(likeRepo interfaces.LikeRepository, postRepo interfaces.PostRepository, counters interfaces.CounterEngine) *LikeService {
	return &LikeService{
		likeRepo: likeRepo,
		postRepo: postRepo,
		counters: counters,
	}
}

// ToggleResult 是一次点赞切换的结果
type ToggleResult struct {
	Action     string `json:"action"`
	PostID     string `json:"post_id"`
	LikesCount int64  `json:"likes_count"`
}

// Toggle 切换点赞状态：已点赞则取消，未点赞则点赞。
// 读取-判断-写入不是原子的；同一用户并发的重复点赞依赖
// 组合主键上的条件写入拦截，被拦截的一方返回 409 且不增计数。
// 两个分支都先操作点赞记录、再调计数器，计数器失败只记漂移风险
func (s *LikeService) Toggle(ctx context.Context, postID, userID string) (*ToggleResult, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrStore, "查询帖子失败", err)
	}
	if post == nil || post.IsDeleted {
		return nil, errors.New(errors.ErrPostNotFound, "帖子不存在")
	}

	existing, err := s.likeRepo.Find(ctx, postID, userID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrStore, "查询点赞失败", err)
	}

	if existing != nil {
		return s.unlike(ctx, post, userID)
	}
	return s.like(ctx, post, userID)
}

// Unlike 仅执行取消分支，点赞不存在时报错而不是反向点赞
func (s *LikeService) Unlike(ctx context.Context, postID, userID string) (*ToggleResult, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrStore, "查询帖子失败", err)
	}
	if post == nil || post.IsDeleted {
		return nil, errors.New(errors.ErrPostNotFound, "帖子不存在")
	}

	existing, err := s.likeRepo.Find(ctx, postID, userID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrStore, "查询点赞失败", err)
	}
	if existing == nil {
		return nil, errors.New(errors.ErrNotLiked, "尚未点赞该帖子")
	}
	return s.unlike(ctx, post, userID)
}

func (s *LikeService) like(ctx context.Context, post *model.Post, userID string) (*ToggleResult, error) {
	like := &model.Like{
		PostID:       post.PostID,
		UserID:       userID,
		ReactionType: model.ReactionLike,
		CreatedAt:    util.NowISO(),
	}

	if err := s.likeRepo.Create(ctx, like); err != nil {
		if err == store.ErrConditionFailed {
			// 并发的重复点赞：键唯一性条件拒绝了第二次插入
			return nil, errors.New(errors.ErrAlreadyLiked, "已经点赞过该帖子")
		}
		return nil, errors.Wrap(errors.ErrStore, "写入点赞失败", err)
	}

	count := post.LikesCount + 1
	if value, err := s.counters.Apply(ctx, post.PostID, model.FieldLikesCount, 1); err != nil {
		util.Logger.Warn("计数器漂移风险：点赞已写入但 likes_count 更新失败",
			zap.Error(err),
			zap.String("post_id", post.PostID),
			zap.String("user_id", userID))
	} else {
		count = value
	}

	return &ToggleResult{Action: ActionLiked, PostID: post.PostID, LikesCount: count}, nil
}

func (s *LikeService) unlike(ctx context.Context, post *model.Post, userID string) (*ToggleResult, error) {
	if err := s.likeRepo.Delete(ctx, post.PostID, userID); err != nil {
		if err == store.ErrConditionFailed {
			// 已被并发请求取消
			return nil, errors.New(errors.ErrNotLiked, "尚未点赞该帖子")
		}
		return nil, errors.Wrap(errors.ErrStore, "删除点赞失败", err)
	}

	count := post.LikesCount - 1
	if count < 0 {
		count = 0
	}
	if value, err := s.counters.Apply(ctx, post.PostID, model.FieldLikesCount, -1); err != nil {
		util.Logger.Warn("计数器漂移风险：点赞已删除但 likes_count 更新失败",
			zap.Error(err),
			zap.String("post_id", post.PostID),
			zap.String("user_id", userID))
	} else {
		count = value
	}

	return &ToggleResult{Action: ActionUnliked, PostID: post.PostID, LikesCount: count}, nil
}

// HasLiked 查询用户是否点赞过帖子
func (s *LikeService) HasLiked(ctx context.Context, postID, userID string) (bool, error) {
	like, err := s.likeRepo.Find(ctx, postID, userID)
	if err != nil {
		return false, errors.Wrap(errors.ErrStore, "查询点赞失败", err)
	}
	return like != nil, nil
}

// ListPostLikes 列出点赞了帖子的记录
func (s *LikeService) ListPostLikes(ctx context.Context, postID string, limit int64, startToken string) (*interfaces.LikePage, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	page, err := s.likeRepo.ListByPost(ctx, postID, limit, startToken)
	if err != nil {
		return nil, errors.Wrap(errors.ErrStore, "查询点赞列表失败", err)
	}
	return page, nil
}

// ListUserLikes 列出用户点赞过的记录，新点赞在前
func (s *LikeService) ListUserLikes(ctx context.Context, userID string, limit int64, startToken string) (*interfaces.LikePage, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	page, err := s.likeRepo.ListByUser(ctx, userID, limit, startToken)
	if err != nil {
		return nil, errors.Wrap(errors.ErrStore, "查询点赞列表失败", err)
	}
	return page, nil
}

// LikeServiceInterface 定义 LikeService 对外的方法
type LikeServiceInterface interface {
	Toggle(ctx context.Context, postID, userID string) (*ToggleResult, error)
	Unlike(ctx context.Context, postID, userID string) (*ToggleResult, error)
	HasLiked(ctx context.Context, postID, userID string) (bool, error)
	ListPostLikes(ctx context.Context, postID string, limit int64, startToken string) (*interfaces.LikePage, error)
	ListUserLikes(ctx context.Context, userID string, limit int64, startToken string) (*interfaces.LikePage, error)
}

// 确保 LikeService 实现了 LikeServiceInterface
var _ LikeServiceInterface = (*LikeService)(nil)
