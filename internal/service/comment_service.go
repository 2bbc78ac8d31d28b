package service

import (
	"context"
	"strings"

	"blog-backend/internal/errors"
	"blog-backend/internal/model"
	"blog-backend/internal/repository/interfaces"
	"blog-backend/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CommentService 处理与评论相关的业务逻辑
type CommentService struct {
	commentRepo interfaces.CommentRepository
	postRepo    interfaces.PostRepository
	userRepo    interfaces.UserRepository
	counters    interfaces.CounterEngine
}

// NewCommentService 创建一个新的 CommentService 实例
func NewCommentService(
	commentRepo interfaces.CommentRepository,
	postRepo interfaces.PostRepository,
	userRepo interfaces.UserRepository,
	counters interfaces.CounterEngine,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		userRepo:    userRepo,
		counters:    counters,
	}
}

// Create 创建评论。只允许评论已发布的帖子；父评论必须存在
// 且属于同一帖子。评论写入成功后对 comments_count 做原子加一，
// 计数器失败不回滚评论，只记录漂移风险
func (s *CommentService) Create(ctx context.Context, actor *util.Claims, postID, text, parentCommentID string) (*model.Comment, error) {
	// 所有校验在任何写入之前完成
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New(errors.ErrValidation, "评论内容不能为空")
	}
	if len([]rune(text)) > model.MaxCommentLength {
		return nil, errors.New(errors.ErrValidation, "评论过长（最多5000字符）")
	}

	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrStore, "查询帖子失败", err)
	}
	if post == nil || post.IsDeleted || post.Status != model.PostStatusPublished {
		return nil, errors.New(errors.ErrPostNotFound, "帖子不存在或未发布")
	}

	user, err := s.userRepo.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrStore, "查询用户失败", err)
	}
	if user == nil || !user.IsActive {
		return nil, errors.New(errors.ErrUserInactive, "用户不存在或已被停用")
	}

	if parentCommentID != "" {
		parent, err := s.commentRepo.FindByID(ctx, parentCommentID)
		if err != nil {
			return nil, errors.Wrap(errors.ErrStore, "查询父评论失败", err)
		}
		if parent == nil || parent.PostID != postID {
			return nil, errors.New(errors.ErrCommentNotFound, "父评论不存在")
		}
	}

	now := util.NowISO()
	comment := &model.Comment{
		CommentID:       uuid.NewString(),
		PostID:          postID,
		UserID:          actor.UserID,
		Text:            text,
		ParentCommentID: parentCommentID,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	// 先写子记录，再调计数器，两步之间没有原子性
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, errors.Wrap(errors.ErrStore, "保存评论失败", err)
	}

	if _, err := s.counters.Apply(ctx, postID, model.FieldCommentsCount, 1); err != nil {
		util.Logger.Warn("计数器漂移风险：评论已写入但 comments_count 更新失败",
			zap.Error(err),
			zap.String("post_id", postID),
			zap.String("comment_id", comment.CommentID))
	}

	comment.AuthorInfo = user.PublicProfile()
	return comment, nil
}

// ListByPost 列出帖子下的评论，新评论在前
func (s *CommentService) ListByPost(ctx context.Context, postID string, limit int64, startToken string) (*interfaces.CommentPage, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrStore, "查询帖子失败", err)
	}
	if post == nil || post.IsDeleted {
		return nil, errors.New(errors.ErrPostNotFound, "帖子不存在")
	}

	page, err := s.commentRepo.ListByPost(ctx, postID, limit, startToken)
	if err != nil {
		return nil, errors.Wrap(errors.ErrStore, "查询评论失败", err)
	}
	return page, nil
}

// CommentServiceInterface 定义 CommentService 对外的方法
type CommentServiceInterface interface {
	Create(ctx context.Context, actor *util.Claims, postID, text, parentCommentID string) (*model.Comment, error)
	ListByPost(ctx context.Context, postID string, limit int64, startToken string) (*interfaces.CommentPage, error)
}

// 确保 CommentService 实现了 CommentServiceInterface
var _ CommentServiceInterface = (*CommentService)(nil)
