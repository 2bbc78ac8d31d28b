package docstore

import (
	"context"

	"blog-backend/internal/model"
	"blog-backend/internal/store"
	"blog-backend/internal/util"

	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"go.uber.org/zap"
)

type userRepository struct {
	store store.Store
}

func NewUserRepository(s store.Store) *userRepository {
	return &userRepository{store: s}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	item, err := dynamodbattribute.MarshalMap(user)
	if err != nil {
		return err
	}

	err = r.store.Put(ctx, model.TableUsers, item, &store.Cond{NotExists: []string{"user_id"}})
	if err != nil {
		util.Logger.Error("创建用户失败", zap.Error(err))
		return err
	}
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	item, err := r.store.Get(ctx, model.TableUsers, store.Key("user_id", id))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	var user model.User
	if err := dynamodbattribute.UnmarshalMap(item, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	result, err := r.store.Query(ctx, model.TableUsers, model.IndexUserEmail, "email", email, store.Page{Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(result.Items) == 0 {
		return nil, nil
	}

	var user model.User
	if err := dynamodbattribute.UnmarshalMap(result.Items[0], &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdateFields(ctx context.Context, id string, sets map[string]interface{}) (*model.User, error) {
	item, err := r.store.Update(ctx, model.TableUsers, store.Key("user_id", id), store.UpdateInput{
		Sets: sets,
		Cond: &store.Cond{Exists: []string{"user_id"}},
	})
	if err != nil {
		if err != store.ErrConditionFailed {
			util.Logger.Error("更新用户失败", zap.Error(err), zap.String("user_id", id))
		}
		return nil, err
	}

	var user model.User
	if err := dynamodbattribute.UnmarshalMap(item, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Deactivate(ctx context.Context, id string) error {
	_, err := r.store.Update(ctx, model.TableUsers, store.Key("user_id", id), store.UpdateInput{
		Sets: map[string]interface{}{
			"is_active":  false,
			"updated_at": util.NowISO(),
		},
		Cond: &store.Cond{Exists: []string{"user_id"}},
	})
	if err != nil {
		util.Logger.Error("停用用户失败", zap.Error(err), zap.String("user_id", id))
		return err
	}
	return nil
}
