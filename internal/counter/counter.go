// Package counter 维护帖子上的反规范化计数器。
//
// 子记录写入和父记录计数器更新是两次独立操作，存储不提供跨记录
// 事务。约定的顺序是：先写/删子记录，再调整计数器。计数器更新
// 失败时子记录不回滚，计数器留下漂移，由独立的对账任务修复。
package counter

import (
	"context"
	"errors"
	"strconv"

	apperrors "blog-backend/internal/errors"
	"blog-backend/internal/model"
	"blog-backend/internal/store"
)

// Engine 对帖子的计数器字段执行原子增减
type Engine struct {
	store store.Store
}

// NewEngine 创建计数器引擎
func NewEngine(s store.Store) *Engine {
	return &Engine{store: s}
}

// Apply 对指定帖子的计数器字段原子地加 delta，返回新值。
// 使用存储端的原子加法原语而不是读改写，并发调用不会丢失更新。
// 帖子不存在时返回 NotFound
func (e *Engine) Apply(ctx context.Context, postID, field string, delta int64) (int64, error) {
	item, err := e.store.Update(ctx, model.TablePosts, store.Key("post_id", postID), store.UpdateInput{
		Adds: map[string]int64{field: delta},
		Cond: &store.Cond{Exists: []string{"post_id"}},
	})
	if err != nil {
		if errors.Is(err, store.ErrConditionFailed) {
			return 0, apperrors.New(apperrors.ErrPostNotFound, "帖子不存在")
		}
		return 0, apperrors.Wrap(apperrors.ErrStore, "更新计数器失败", err)
	}

	av, ok := item[field]
	if !ok || av.N == nil {
		return 0, apperrors.New(apperrors.ErrStore, "计数器字段缺失")
	}
	value, err := strconv.ParseInt(*av.N, 10, 64)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrStore, "计数器值无法解析", err)
	}
	return value, nil
}

// Set 把计数器直接设置为给定值，仅供对账任务使用，
// 请求处理路径上永远走 Apply
func (e *Engine) Set(ctx context.Context, postID, field string, value int64) error {
	_, err := e.store.Update(ctx, model.TablePosts, store.Key("post_id", postID), store.UpdateInput{
		Sets: map[string]interface{}{field: value},
		Cond: &store.Cond{Exists: []string{"post_id"}},
	})
	if err != nil {
		if errors.Is(err, store.ErrConditionFailed) {
			return apperrors.New(apperrors.ErrPostNotFound, "帖子不存在")
		}
		return apperrors.Wrap(apperrors.ErrStore, "重置计数器失败", err)
	}
	return nil
}
