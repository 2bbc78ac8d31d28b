package docstore

import (
	"context"
	"testing"

	"blog-backend/internal/model"
	"blog-backend/internal/store"
	"blog-backend/internal/store/inmemory"

	"github.com/stretchr/testify/assert"
)

func newPostRepo() *postRepository {
	return NewPostRepository(inmemory.New(map[string][]string{
		model.TablePosts: {"post_id"},
	}))
}

func newPost(id, status, createdAt string) *model.Post {
	return &model.Post{
		PostID:    id,
		AuthorID:  "u1",
		Title:     "Заголовок",
		Text:      "текст",
		Slug:      "zagolovok",
		Status:    status,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestPostCreateFindRoundTrip(t *testing.T) {
	repo := newPostRepo()
	ctx := context.Background()

	assert.NoError(t, repo.Create(ctx, newPost("p1", model.PostStatusDraft, "2026-01-01T00:00:00Z")))

	post, err := repo.FindByID(ctx, "p1")
	assert.NoError(t, err)
	assert.Equal(t, "p1", post.PostID)
	assert.Equal(t, model.PostStatusDraft, post.Status)
	assert.Zero(t, post.LikesCount)
	assert.Zero(t, post.ViewsCount)
}

func TestPostCreateDuplicateID(t *testing.T) {
	repo := newPostRepo()
	ctx := context.Background()

	assert.NoError(t, repo.Create(ctx, newPost("p1", model.PostStatusDraft, "2026-01-01T00:00:00Z")))
	err := repo.Create(ctx, newPost("p1", model.PostStatusDraft, "2026-01-02T00:00:00Z"))
	assert.ErrorIs(t, err, store.ErrConditionFailed)
}

func TestPostFindByIDAbsent(t *testing.T) {
	repo := newPostRepo()

	post, err := repo.FindByID(context.Background(), "ghost")
	assert.NoError(t, err)
	assert.Nil(t, post)
}

func TestPostFindBySlugOnlyPublished(t *testing.T) {
	repo := newPostRepo()
	ctx := context.Background()

	draft := newPost("p1", model.PostStatusDraft, "2026-01-01T00:00:00Z")
	assert.NoError(t, repo.Create(ctx, draft))

	post, err := repo.FindBySlug(ctx, "zagolovok")
	assert.NoError(t, err)
	assert.Nil(t, post)

	published := newPost("p2", model.PostStatusPublished, "2026-01-02T00:00:00Z")
	assert.NoError(t, repo.Create(ctx, published))

	post, err = repo.FindBySlug(ctx, "zagolovok")
	assert.NoError(t, err)
	assert.Equal(t, "p2", post.PostID)
}

func TestPostListByStatusPagination(t *testing.T) {
	repo := newPostRepo()
	ctx := context.Background()

	for _, p := range []struct{ id, created string }{
		{"p1", "2026-01-01T00:00:00Z"},
		{"p2", "2026-01-02T00:00:00Z"},
		{"p3", "2026-01-03T00:00:00Z"},
	} {
		assert.NoError(t, repo.Create(ctx, newPost(p.id, model.PostStatusPublished, p.created)))
	}

	first, err := repo.ListByStatus(ctx, model.PostStatusPublished, 2, "")
	assert.NoError(t, err)
	assert.Len(t, first.Posts, 2)
	assert.NotEmpty(t, first.NextToken)

	rest, err := repo.ListByStatus(ctx, model.PostStatusPublished, 2, first.NextToken)
	assert.NoError(t, err)
	assert.Len(t, rest.Posts, 1)
	assert.Empty(t, rest.NextToken)

	seen := map[string]bool{}
	for _, post := range append(first.Posts, rest.Posts...) {
		seen[post.PostID] = true
	}
	assert.Len(t, seen, 3)
}

func TestPostUpdateFields(t *testing.T) {
	repo := newPostRepo()
	ctx := context.Background()

	assert.NoError(t, repo.Create(ctx, newPost("p1", model.PostStatusDraft, "2026-01-01T00:00:00Z")))

	post, err := repo.UpdateFields(ctx, "p1", map[string]interface{}{
		"status":     model.PostStatusPublished,
		"updated_at": "2026-01-02T00:00:00Z",
	})
	assert.NoError(t, err)
	assert.Equal(t, model.PostStatusPublished, post.Status)
	assert.Equal(t, "2026-01-02T00:00:00Z", post.UpdatedAt)
	// 未列出的字段保持原值
	assert.Equal(t, "Заголовок", post.Title)
}

func TestPostUpdateFieldsAbsent(t *testing.T) {
	repo := newPostRepo()

	_, err := repo.UpdateFields(context.Background(), "ghost", map[string]interface{}{
		"status": model.PostStatusArchived,
	})
	assert.ErrorIs(t, err, store.ErrConditionFailed)
}

func TestPostAddViews(t *testing.T) {
	repo := newPostRepo()
	ctx := context.Background()

	assert.NoError(t, repo.Create(ctx, newPost("p1", model.PostStatusPublished, "2026-01-01T00:00:00Z")))

	for i := 0; i < 3; i++ {
		assert.NoError(t, repo.AddViews(ctx, "p1", 1))
	}

	post, err := repo.FindByID(ctx, "p1")
	assert.NoError(t, err)
	assert.Equal(t, int64(3), post.ViewsCount)
}

func TestPostHardDelete(t *testing.T) {
	repo := newPostRepo()
	ctx := context.Background()

	assert.NoError(t, repo.Create(ctx, newPost("p1", model.PostStatusDeleted, "2026-01-01T00:00:00Z")))
	assert.NoError(t, repo.HardDelete(ctx, "p1"))

	post, err := repo.FindByID(ctx, "p1")
	assert.NoError(t, err)
	assert.Nil(t, post)
}
