package counter

import (
	"context"
	"sync"
	"testing"

	apperrors "blog-backend/internal/errors"
	"blog-backend/internal/model"
	"blog-backend/internal/store"
	"blog-backend/internal/store/inmemory"

	"github.com/stretchr/testify/assert"
)

func newEngineWithPost(t *testing.T, postID string) (*Engine, *inmemory.Store) {
	s := inmemory.New(map[string][]string{
		model.TablePosts: {"post_id"},
	})
	// 计数器字段有意缺省，首次 Apply 从零开始
	err := s.Put(context.Background(), model.TablePosts, store.Item{
		"post_id":    store.S(postID),
		"status":     store.S(model.PostStatusPublished),
		"created_at": store.S("2026-01-01T00:00:00Z"),
	}, nil)
	assert.NoError(t, err)
	return NewEngine(s), s
}

func TestApplyIncrementsAndReturnsNewValue(t *testing.T) {
	engine, _ := newEngineWithPost(t, "p1")
	ctx := context.Background()

	value, err := engine.Apply(ctx, "p1", model.FieldLikesCount, 1)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), value)

	value, err = engine.Apply(ctx, "p1", model.FieldLikesCount, 1)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), value)

	value, err = engine.Apply(ctx, "p1", model.FieldLikesCount, -1)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), value)
}

func TestApplyConcurrentLosesNoUpdates(t *testing.T) {
	engine, _ := newEngineWithPost(t, "p1")
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := engine.Apply(ctx, "p1", model.FieldCommentsCount, 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	value, err := engine.Apply(ctx, "p1", model.FieldCommentsCount, 0)
	assert.NoError(t, err)
	assert.Equal(t, int64(40), value)
}

func TestApplyMissingPost(t *testing.T) {
	engine, _ := newEngineWithPost(t, "p1")

	_, err := engine.Apply(context.Background(), "ghost", model.FieldLikesCount, 1)
	assert.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrPostNotFound))
}

func TestSetOverwritesCounter(t *testing.T) {
	engine, _ := newEngineWithPost(t, "p1")
	ctx := context.Background()

	_, err := engine.Apply(ctx, "p1", model.FieldViewsCount, 7)
	assert.NoError(t, err)

	assert.NoError(t, engine.Set(ctx, "p1", model.FieldViewsCount, 3))

	value, err := engine.Apply(ctx, "p1", model.FieldViewsCount, 0)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), value)
}

func TestSetMissingPost(t *testing.T) {
	engine, _ := newEngineWithPost(t, "p1")

	err := engine.Set(context.Background(), "ghost", model.FieldLikesCount, 0)
	assert.True(t, apperrors.Is(err, apperrors.ErrPostNotFound))
}
