package service

import (
	"context"
	"strings"
	"testing"

	"blog-backend/internal/errors"
	"blog-backend/internal/model"
	"blog-backend/internal/repository/interfaces"
	"blog-backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newPostService() (*PostService, *MockPostRepository, *MockUserRepository, *MockLikeRepository) {
	postRepo := new(MockPostRepository)
	userRepo := new(MockUserRepository)
	likeRepo := new(MockLikeRepository)
	return NewPostService(postRepo, userRepo, likeRepo), postRepo, userRepo, likeRepo
}

func activeUser(id string) *model.User {
	return &model.User{UserID: id, Email: id + "@example.com", IsActive: true}
}

func TestCreatePostDefaults(t *testing.T) {
	svc, postRepo, userRepo, _ := newPostService()

	userRepo.On("FindByID", mock.Anything, "u1").Return(activeUser("u1"), nil)
	postRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Post")).Return(nil)

	post, err := svc.Create(context.Background(), "u1", CreatePostInput{
		Title: "Hello, World!",
		Text:  "первый пост",
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, post.PostID)
	assert.Equal(t, "u1", post.AuthorID)
	assert.Equal(t, model.PostStatusDraft, post.Status)
	assert.Equal(t, "hello-world", post.Slug)
	assert.Zero(t, post.LikesCount)
	assert.Zero(t, post.CommentsCount)
	assert.Zero(t, post.ViewsCount)
	assert.Empty(t, post.PublishedAt)
	assert.Equal(t, post.CreatedAt, post.UpdatedAt)
}

func TestCreatePostPublishedSetsPublishedAt(t *testing.T) {
	svc, postRepo, userRepo, _ := newPostService()

	userRepo.On("FindByID", mock.Anything, "u1").Return(activeUser("u1"), nil)
	postRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Post")).Return(nil)

	post, err := svc.Create(context.Background(), "u1", CreatePostInput{
		Title:  "Published Right Away",
		Status: model.PostStatusPublished,
	})

	assert.NoError(t, err)
	assert.Equal(t, model.PostStatusPublished, post.Status)
	assert.NotEmpty(t, post.PublishedAt)
}

func TestCreatePostValidation(t *testing.T) {
	svc, postRepo, _, _ := newPostService()
	ctx := context.Background()

	_, err := svc.Create(ctx, "u1", CreatePostInput{Title: "   "})
	assert.True(t, errors.Is(err, errors.ErrValidation))

	_, err = svc.Create(ctx, "u1", CreatePostInput{Title: strings.Repeat("a", 201)})
	assert.True(t, errors.Is(err, errors.ErrValidation))

	_, err = svc.Create(ctx, "u1", CreatePostInput{Title: "ok", Status: "bogus"})
	assert.True(t, errors.Is(err, errors.ErrValidation))

	// 不允许直接以 deleted 状态创建
	_, err = svc.Create(ctx, "u1", CreatePostInput{Title: "ok", Status: model.PostStatusDeleted})
	assert.True(t, errors.Is(err, errors.ErrValidation))

	postRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreatePostInactiveAuthor(t *testing.T) {
	svc, postRepo, userRepo, _ := newPostService()

	inactive := activeUser("u1")
	inactive.IsActive = false
	userRepo.On("FindByID", mock.Anything, "u1").Return(inactive, nil)

	_, err := svc.Create(context.Background(), "u1", CreatePostInput{Title: "ok"})
	assert.True(t, errors.Is(err, errors.ErrUserInactive))
	postRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGetPostIncrementsViews(t *testing.T) {
	svc, postRepo, _, _ := newPostService()

	postRepo.On("FindByID", mock.Anything, "p1").Return(&model.Post{
		PostID:     "p1",
		Status:     model.PostStatusPublished,
		ViewsCount: 5,
	}, nil)
	postRepo.On("AddViews", mock.Anything, "p1", int64(1)).Return(nil)

	post, err := svc.Get(context.Background(), "p1", "")
	assert.NoError(t, err)
	assert.Equal(t, int64(6), post.ViewsCount)
	postRepo.AssertExpectations(t)
}

func TestGetPostViewFailureIsNonFatal(t *testing.T) {
	svc, postRepo, _, _ := newPostService()

	postRepo.On("FindByID", mock.Anything, "p1").Return(&model.Post{
		PostID:     "p1",
		ViewsCount: 5,
	}, nil)
	postRepo.On("AddViews", mock.Anything, "p1", int64(1)).Return(assert.AnError)

	post, err := svc.Get(context.Background(), "p1", "")
	assert.NoError(t, err)
	assert.Equal(t, int64(5), post.ViewsCount)
}

func TestGetPostFillsUserLiked(t *testing.T) {
	svc, postRepo, _, likeRepo := newPostService()

	postRepo.On("FindByID", mock.Anything, "p1").Return(&model.Post{PostID: "p1"}, nil)
	postRepo.On("AddViews", mock.Anything, "p1", int64(1)).Return(nil)
	likeRepo.On("Find", mock.Anything, "p1", "u1").Return(&model.Like{PostID: "p1", UserID: "u1"}, nil)

	post, err := svc.Get(context.Background(), "p1", "u1")
	assert.NoError(t, err)
	assert.True(t, post.UserLiked)
}

func TestGetDeletedPostIsInvisible(t *testing.T) {
	svc, postRepo, _, _ := newPostService()

	postRepo.On("FindByID", mock.Anything, "p1").Return(&model.Post{
		PostID:    "p1",
		IsDeleted: true,
	}, nil)

	_, err := svc.Get(context.Background(), "p1", "")
	assert.True(t, errors.Is(err, errors.ErrPostNotFound))
	postRepo.AssertNotCalled(t, "AddViews", mock.Anything, mock.Anything, mock.Anything)
}

func TestListRejectsDeletedStatus(t *testing.T) {
	svc, postRepo, _, _ := newPostService()

	_, err := svc.List(context.Background(), model.PostStatusDeleted, "", 10, "")
	assert.True(t, errors.Is(err, errors.ErrValidation))
	postRepo.AssertNotCalled(t, "ListByStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestListFiltersSoftDeleted(t *testing.T) {
	svc, postRepo, _, _ := newPostService()

	postRepo.On("ListByAuthor", mock.Anything, "u1", int64(10), "").Return(&interfaces.PostPage{
		Posts: []*model.Post{
			{PostID: "p1"},
			{PostID: "p2", IsDeleted: true},
			{PostID: "p3"},
		},
	}, nil)

	page, err := svc.List(context.Background(), "", "u1", 10, "")
	assert.NoError(t, err)
	assert.Len(t, page.Posts, 2)
	for _, post := range page.Posts {
		assert.False(t, post.IsDeleted)
	}
}

func TestListClampsLimit(t *testing.T) {
	svc, postRepo, _, _ := newPostService()

	postRepo.On("ListByStatus", mock.Anything, model.PostStatusPublished, int64(100), "").
		Return(&interfaces.PostPage{}, nil)

	_, err := svc.List(context.Background(), "", "", 9999, "")
	assert.NoError(t, err)
	postRepo.AssertExpectations(t)
}

func TestUpdatePostForbiddenForStranger(t *testing.T) {
	svc, postRepo, _, _ := newPostService()

	postRepo.On("FindByID", mock.Anything, "p1").Return(&model.Post{
		PostID:   "p1",
		AuthorID: "owner",
	}, nil)

	title := "New Title"
	_, err := svc.Update(context.Background(),
		&util.Claims{UserID: "stranger", Role: model.RoleUser},
		"p1", UpdatePostInput{Title: &title})

	assert.True(t, errors.Is(err, errors.ErrForbidden))
	postRepo.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdatePostAdminAllowed(t *testing.T) {
	svc, postRepo, _, _ := newPostService()

	postRepo.On("FindByID", mock.Anything, "p1").Return(&model.Post{
		PostID:   "p1",
		AuthorID: "owner",
		Title:    "Old",
	}, nil)
	postRepo.On("UpdateFields", mock.Anything, "p1", mock.MatchedBy(func(sets map[string]interface{}) bool {
		return sets["title"] == "New Title" && sets["slug"] == "new-title"
	})).Return(&model.Post{PostID: "p1", Title: "New Title", Slug: "new-title"}, nil)

	title := "New Title"
	post, err := svc.Update(context.Background(),
		&util.Claims{UserID: "admin-1", Role: model.RoleAdmin},
		"p1", UpdatePostInput{Title: &title})

	assert.NoError(t, err)
	assert.Equal(t, "new-title", post.Slug)
}

func TestUpdatePostUnchangedTitleKeepsSlug(t *testing.T) {
	svc, postRepo, _, _ := newPostService()

	postRepo.On("FindByID", mock.Anything, "p1").Return(&model.Post{
		PostID:   "p1",
		AuthorID: "u1",
		Title:    "Same Title",
		Slug:     "custom-slug",
	}, nil)
	// 标题未变化时不得重新生成 slug，手工设置的值保持不动
	postRepo.On("UpdateFields", mock.Anything, "p1", mock.MatchedBy(func(sets map[string]interface{}) bool {
		_, hasSlug := sets["slug"]
		return sets["title"] == "Same Title" && !hasSlug
	})).Return(&model.Post{PostID: "p1", Title: "Same Title", Slug: "custom-slug"}, nil)

	title := "Same Title"
	post, err := svc.Update(context.Background(),
		&util.Claims{UserID: "u1", Role: model.RoleUser},
		"p1", UpdatePostInput{Title: &title})

	assert.NoError(t, err)
	assert.Equal(t, "custom-slug", post.Slug)
	postRepo.AssertExpectations(t)
}

func TestUpdatePostNoFields(t *testing.T) {
	svc, postRepo, _, _ := newPostService()

	postRepo.On("FindByID", mock.Anything, "p1").Return(&model.Post{
		PostID:   "p1",
		AuthorID: "u1",
	}, nil)

	_, err := svc.Update(context.Background(),
		&util.Claims{UserID: "u1", Role: model.RoleUser},
		"p1", UpdatePostInput{})
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

func TestUpdatePostFirstPublishSetsPublishedAt(t *testing.T) {
	svc, postRepo, _, _ := newPostService()

	postRepo.On("FindByID", mock.Anything, "p1").Return(&model.Post{
		PostID:   "p1",
		AuthorID: "u1",
		Status:   model.PostStatusDraft,
	}, nil)
	postRepo.On("UpdateFields", mock.Anything, "p1", mock.MatchedBy(func(sets map[string]interface{}) bool {
		_, hasPublishedAt := sets["published_at"]
		return sets["status"] == model.PostStatusPublished && hasPublishedAt
	})).Return(&model.Post{PostID: "p1", Status: model.PostStatusPublished}, nil)

	status := model.PostStatusPublished
	_, err := svc.Update(context.Background(),
		&util.Claims{UserID: "u1", Role: model.RoleUser},
		"p1", UpdatePostInput{Status: &status})
	assert.NoError(t, err)
	postRepo.AssertExpectations(t)
}

func TestSoftDelete(t *testing.T) {
	svc, postRepo, _, _ := newPostService()

	postRepo.On("FindByID", mock.Anything, "p1").Return(&model.Post{
		PostID:   "p1",
		AuthorID: "u1",
		Status:   model.PostStatusPublished,
	}, nil)
	postRepo.On("UpdateFields", mock.Anything, "p1", mock.MatchedBy(func(sets map[string]interface{}) bool {
		return sets["status"] == model.PostStatusDeleted &&
			sets["is_deleted"] == true &&
			sets["deleted_by"] == "u1" &&
			sets["permanent_delete_at"] != "" &&
			sets["deleted_at"] != ""
	})).Return(&model.Post{PostID: "p1", IsDeleted: true}, nil)

	post, err := svc.SoftDelete(context.Background(),
		&util.Claims{UserID: "u1", Role: model.RoleUser}, "p1")
	assert.NoError(t, err)
	assert.True(t, post.IsDeleted)
}

func TestSoftDeleteTwice(t *testing.T) {
	svc, postRepo, _, _ := newPostService()

	postRepo.On("FindByID", mock.Anything, "p1").Return(&model.Post{
		PostID:    "p1",
		AuthorID:  "u1",
		IsDeleted: true,
		DeletedAt: "2026-01-01T00:00:00Z",
	}, nil)

	_, err := svc.SoftDelete(context.Background(),
		&util.Claims{UserID: "u1", Role: model.RoleUser}, "p1")

	// 重复删除报错且不再写存储，保留期不被刷新
	assert.True(t, errors.Is(err, errors.ErrAlreadyDeleted))
	postRepo.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything, mock.Anything)
}

func TestTopPostsOrdering(t *testing.T) {
	svc, postRepo, _, _ := newPostService()

	postRepo.On("ListByStatus", mock.Anything, model.PostStatusPublished, int64(100), "").
		Return(&interfaces.PostPage{Posts: []*model.Post{
			{PostID: "low", LikesCount: 1, ViewsCount: 1},
			{PostID: "high", LikesCount: 10, ViewsCount: 0},
			{PostID: "mid", LikesCount: 0, ViewsCount: 15},
		}}, nil)

	posts, err := svc.TopPosts(context.Background(), 2)
	assert.NoError(t, err)
	assert.Len(t, posts, 2)
	assert.Equal(t, "high", posts[0].PostID)
	assert.Equal(t, "mid", posts[1].PostID)
}
