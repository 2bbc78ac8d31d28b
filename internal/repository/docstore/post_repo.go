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

type postRepository struct {
	store store.Store
}

func NewPostRepository(s store.Store) *postRepository {
	return &postRepository{store: s}
}

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	item, err := dynamodbattribute.MarshalMap(post)
	if err != nil {
		return err
	}

	err = r.store.Put(ctx, model.TablePosts, item, &store.Cond{NotExists: []string{"post_id"}})
	if err != nil {
		util.Logger.Error("创建帖子失败", zap.Error(err))
		return err
	}
	util.Logger.Info("帖子创建成功", zap.String("post_id", post.PostID))
	return nil
}

func (r *postRepository) FindByID(ctx context.Context, id string) (*model.Post, error) {
	item, err := r.store.Get(ctx, model.TablePosts, store.Key("post_id", id))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	return unmarshalPost(item)
}

func (r *postRepository) FindBySlug(ctx context.Context, slug string) (*model.Post, error) {
	// slug 不保证全局唯一，取第一条已发布的匹配
	result, err := r.store.Scan(ctx, model.TablePosts, map[string]interface{}{
		"slug":   slug,
		"status": model.PostStatusPublished,
	}, store.Page{})
	if err != nil {
		return nil, err
	}
	if len(result.Items) == 0 {
		return nil, nil
	}
	return unmarshalPost(result.Items[0])
}

func (r *postRepository) ListByStatus(ctx context.Context, status string, limit int64, startToken string) (*interfaces.PostPage, error) {
	result, err := r.store.Scan(ctx, model.TablePosts, map[string]interface{}{
		"status": status,
	}, store.Page{Limit: limit, StartToken: startToken})
	if err != nil {
		return nil, err
	}
	return unmarshalPostPage(result)
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID string, limit int64, startToken string) (*interfaces.PostPage, error) {
	result, err := r.store.Scan(ctx, model.TablePosts, map[string]interface{}{
		"author_id": authorID,
	}, store.Page{Limit: limit, StartToken: startToken})
	if err != nil {
		return nil, err
	}
	return unmarshalPostPage(result)
}

func (r *postRepository) UpdateFields(ctx context.Context, id string, sets map[string]interface{}) (*model.Post, error) {
	item, err := r.store.Update(ctx, model.TablePosts, store.Key("post_id", id), store.UpdateInput{
		Sets: sets,
		Cond: &store.Cond{Exists: []string{"post_id"}},
	})
	if err != nil {
		if err != store.ErrConditionFailed {
			util.Logger.Error("更新帖子失败", zap.Error(err), zap.String("post_id", id))
		}
		return nil, err
	}
	return unmarshalPost(item)
}

func (r *postRepository) AddViews(ctx context.Context, id string, delta int64) error {
	_, err := r.store.Update(ctx, model.TablePosts, store.Key("post_id", id), store.UpdateInput{
		Adds: map[string]int64{model.FieldViewsCount: delta},
		Cond: &store.Cond{Exists: []string{"post_id"}},
	})
	return err
}

func (r *postRepository) HardDelete(ctx context.Context, id string) error {
	err := r.store.Delete(ctx, model.TablePosts, store.Key("post_id", id), nil)
	if err != nil {
		util.Logger.Error("物理删除帖子失败", zap.Error(err), zap.String("post_id", id))
		return err
	}
	util.Logger.Info("帖子已物理删除", zap.String("post_id", id))
	return nil
}

func unmarshalPost(item store.Item) (*model.Post, error) {
	var post model.Post
	if err := dynamodbattribute.UnmarshalMap(item, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func unmarshalPostPage(result store.Result) (*interfaces.PostPage, error) {
	page := &interfaces.PostPage{NextToken: result.NextToken}
	for _, item := range result.Items {
		post, err := unmarshalPost(item)
		if err != nil {
			return nil, err
		}
		page.Posts = append(page.Posts, post)
	}
	return page, nil
}
