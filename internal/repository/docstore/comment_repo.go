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

type commentRepository struct {
	store store.Store
}

func NewCommentRepository(s store.Store) *commentRepository {
	return &commentRepository{store: s}
}

func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) error {
	item, err := dynamodbattribute.MarshalMap(comment)
	if err != nil {
		return err
	}

	err = r.store.Put(ctx, model.TableComments, item, &store.Cond{NotExists: []string{"comment_id"}})
	if err != nil {
		util.Logger.Error("创建评论失败", zap.Error(err),
			zap.String("post_id", comment.PostID))
		return err
	}
	return nil
}

func (r *commentRepository) FindByID(ctx context.Context, id string) (*model.Comment, error) {
	item, err := r.store.Get(ctx, model.TableComments, store.Key("comment_id", id))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	var comment model.Comment
	if err := dynamodbattribute.UnmarshalMap(item, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) ListByPost(ctx context.Context, postID string, limit int64, startToken string) (*interfaces.CommentPage, error) {
	// 新评论在前
	result, err := r.store.Query(ctx, model.TableComments, model.IndexCommentsPost, "post_id", postID,
		store.Page{Limit: limit, StartToken: startToken, Backward: true})
	if err != nil {
		return nil, err
	}

	page := &interfaces.CommentPage{NextToken: result.NextToken}
	for _, item := range result.Items {
		var comment model.Comment
		if err := dynamodbattribute.UnmarshalMap(item, &comment); err != nil {
			return nil, err
		}
		page.Comments = append(page.Comments, &comment)
	}
	return page, nil
}

func (r *commentRepository) CountByPost(ctx context.Context, postID string) (int64, error) {
	return r.store.Count(ctx, model.TableComments, model.IndexCommentsPost, "post_id", postID)
}

func (r *commentRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, model.TableComments, store.Key("comment_id", id), nil)
}
