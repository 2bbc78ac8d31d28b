package service

import (
	"context"

	"blog-backend/internal/errors"
	"blog-backend/internal/model"
	"blog-backend/internal/repository/interfaces"
	"blog-backend/internal/util"

	"go.uber.org/zap"
)

// MaintenanceService 承担两类后台维护：
// 计数器对账（修复热路径留下的漂移）和到期帖子的物理清除。
// 由 main 中的定时任务驱动，永远不在请求路径上执行
type MaintenanceService struct {
	postRepo    interfaces.PostRepository
	commentRepo interfaces.CommentRepository
	likeRepo    interfaces.LikeRepository
	counters    interfaces.CounterEngine
}

// NewMaintenanceService 创建一个新的 MaintenanceService 实例
func NewMaintenanceService(
	postRepo interfaces.PostRepository,
	commentRepo interfaces.CommentRepository,
	likeRepo interfaces.LikeRepository,
	counters interfaces.CounterEngine,
) *MaintenanceService {
	return &MaintenanceService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		likeRepo:    likeRepo,
		counters:    counters,
	}
}

// ReconcileCounters 对账所有帖子的反规范化计数器：
// 从子记录重新计数，与存储的计数器不一致时覆盖并记录
func (s *MaintenanceService) ReconcileCounters(ctx context.Context) error {
	statuses := []string{model.PostStatusPublished, model.PostStatusDraft, model.PostStatusArchived}
	for _, status := range statuses {
		token := ""
		for {
			page, err := s.postRepo.ListByStatus(ctx, status, maxPageSize, token)
			if err != nil {
				return errors.Wrap(errors.ErrStore, "查询帖子列表失败", err)
			}
			for _, post := range page.Posts {
				s.reconcilePost(ctx, post)
			}
			if page.NextToken == "" {
				break
			}
			token = page.NextToken
		}
	}
	return nil
}

func (s *MaintenanceService) reconcilePost(ctx context.Context, post *model.Post) {
	likes, err := s.likeRepo.CountByPost(ctx, post.PostID)
	if err != nil {
		util.Logger.Warn("对账失败：点赞计数查询出错", zap.Error(err), zap.String("post_id", post.PostID))
		return
	}
	if likes != post.LikesCount {
		util.Logger.Info("发现计数器漂移",
			zap.String("post_id", post.PostID),
			zap.String("field", model.FieldLikesCount),
			zap.Int64("stored", post.LikesCount),
			zap.Int64("actual", likes))
		if err := s.counters.Set(ctx, post.PostID, model.FieldLikesCount, likes); err != nil {
			util.Logger.Warn("修复点赞计数失败", zap.Error(err), zap.String("post_id", post.PostID))
		}
	}

	comments, err := s.commentRepo.CountByPost(ctx, post.PostID)
	if err != nil {
		util.Logger.Warn("对账失败：评论计数查询出错", zap.Error(err), zap.String("post_id", post.PostID))
		return
	}
	if comments != post.CommentsCount {
		util.Logger.Info("发现计数器漂移",
			zap.String("post_id", post.PostID),
			zap.String("field", model.FieldCommentsCount),
			zap.Int64("stored", post.CommentsCount),
			zap.Int64("actual", comments))
		if err := s.counters.Set(ctx, post.PostID, model.FieldCommentsCount, comments); err != nil {
			util.Logger.Warn("修复评论计数失败", zap.Error(err), zap.String("post_id", post.PostID))
		}
	}
}

// PurgeExpired 物理清除保留期已过的软删除帖子，连同其
// 评论和点赞记录一起删除
func (s *MaintenanceService) PurgeExpired(ctx context.Context) error {
	now := util.NowISO()
	token := ""
	for {
		page, err := s.postRepo.ListByStatus(ctx, model.PostStatusDeleted, maxPageSize, token)
		if err != nil {
			return errors.Wrap(errors.ErrStore, "查询已删除帖子失败", err)
		}
		for _, post := range page.Posts {
			// RFC3339 的 UTC 字符串可直接按字典序比较
			if post.PermanentDeleteAt == "" || post.PermanentDeleteAt > now {
				continue
			}
			if err := s.purgePost(ctx, post); err != nil {
				util.Logger.Warn("清除帖子失败", zap.Error(err), zap.String("post_id", post.PostID))
			}
		}
		if page.NextToken == "" {
			break
		}
		token = page.NextToken
	}
	return nil
}

func (s *MaintenanceService) purgePost(ctx context.Context, post *model.Post) error {
	// 先删子记录，最后删父记录：中途失败时帖子仍可被下轮任务发现
	for {
		comments, err := s.commentRepo.ListByPost(ctx, post.PostID, maxPageSize, "")
		if err != nil {
			return err
		}
		if len(comments.Comments) == 0 {
			break
		}
		for _, comment := range comments.Comments {
			if err := s.commentRepo.Delete(ctx, comment.CommentID); err != nil {
				return err
			}
		}
	}

	for {
		likes, err := s.likeRepo.ListByPost(ctx, post.PostID, maxPageSize, "")
		if err != nil {
			return err
		}
		if len(likes.Likes) == 0 {
			break
		}
		for _, like := range likes.Likes {
			if err := s.likeRepo.Delete(ctx, like.PostID, like.UserID); err != nil {
				return err
			}
		}
	}

	if err := s.postRepo.HardDelete(ctx, post.PostID); err != nil {
		return err
	}
	util.Logger.Info("保留期已过，帖子已物理清除", zap.String("post_id", post.PostID))
	return nil
}
