package docstore

import (
	"context"

	"blog-backend/internal/model"
	"blog-backend/internal/repository/interfaces"
	"blog-backend/internal/store"
	"blog-backend/internal/util"

	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"go.uber.org/zap"
)

type likeRepository struct {
	store store.Store
}

func NewLikeRepository(s store.Store) *likeRepository {
	return &likeRepository{store: s}
}

func (r *likeRepository) Find(ctx context.Context, postID, userID string) (*model.Like, error) {
	item, err := r.store.Get(ctx, model.TableLikes,
		store.CompositeKey("post_id", postID, "user_id", userID))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	var like model.Like
	if err := dynamodbattribute.UnmarshalMap(item, &like); err != nil {
		return nil, err
	}
	return &like, nil
}

func (r *likeRepository) Create(ctx context.Context, like *model.Like) error {
	item, err := dynamodbattribute.MarshalMap(like)
	if err != nil {
		return err
	}

	// 组合主键上的条件写入：同一 (post_id, user_id) 的第二次插入
	// 会命中 ErrConditionFailed，并发的重复点赞由此拦截
	err = r.store.Put(ctx, model.TableLikes, item, &store.Cond{NotExists: []string{"post_id"}})
	if err != nil {
		if err != store.ErrConditionFailed {
			util.Logger.Error("写入点赞失败", zap.Error(err),
				zap.String("post_id", like.PostID), zap.String("user_id", like.UserID))
		}
		return err
	}
	return nil
}

func (r *likeRepository) Delete(ctx context.Context, postID, userID string) error {
	err := r.store.Delete(ctx, model.TableLikes,
		store.CompositeKey("post_id", postID, "user_id", userID),
		&store.Cond{Exists: []string{"post_id"}})
	if err != nil {
		if err != store.ErrConditionFailed {
			util.Logger.Error("删除点赞失败", zap.Error(err),
				zap.String("post_id", postID), zap.String("user_id", userID))
		}
		return err
	}
	return nil
}

func (r *likeRepository) ListByPost(ctx context.Context, postID string, limit int64, startToken string) (*interfaces.LikePage, error) {
	result, err := r.store.Query(ctx, model.TableLikes, "", "post_id", postID,
		store.Page{Limit: limit, StartToken: startToken})
	if err != nil {
		return nil, err
	}
	return unmarshalLikePage(result)
}

func (r *likeRepository) ListByUser(ctx context.Context, userID string, limit int64, startToken string) (*interfaces.LikePage, error) {
	// 新点赞在前
	result, err := r.store.Query(ctx, model.TableLikes, model.IndexLikesUser, "user_id", userID,
		store.Page{Limit: limit, StartToken: startToken, Backward: true})
	if err != nil {
		return nil, err
	}
	return unmarshalLikePage(result)
}

func (r *likeRepository) CountByPost(ctx context.Context, postID string) (int64, error) {
	return r.store.Count(ctx, model.TableLikes, "", "post_id", postID)
}

func unmarshalLikePage(result store.Result) (*interfaces.LikePage, error) {
	page := &interfaces.LikePage{NextToken: result.NextToken}
	for _, item := range result.Items {
		var like model.Like
		if err := dynamodbattribute.UnmarshalMap(item, &like); err != nil {
			return nil, err
		}
		page.Likes = append(page.Likes, &like)
	}
	return page, nil
}
