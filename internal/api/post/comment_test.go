package post

import (
	"encoding/json"
	"net/http"
	"testing"

	"blog-backend/internal/errors"
	"blog-backend/internal/model"
	"blog-backend/internal/repository/interfaces"
	"blog-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func commentRouter(svc service.CommentServiceInterface, authed bool) *gin.Engine {
	handler := NewCommentHandler(svc)
	router := gin.New()
	group := router.Group("/posts")
	if authed {
		group.Use(identityFor("u1", model.RoleUser))
	}
	group.POST("/:id/comments", handler.Create)
	group.GET("/:id/comments", handler.List)
	return router
}

func TestCreateCommentEndpoint(t *testing.T) {
	svc := new(MockCommentService)
	router := commentRouter(svc, true)

	svc.On("Create", mock.Anything, mock.Anything, "p1", "отличный пост", "").
		Return(&model.Comment{CommentID: "c1", PostID: "p1", Text: "отличный пост"}, nil)

	w := doRequest(router, http.MethodPost, "/posts/p1/comments", gin.H{
		"text": "отличный пост",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}

func TestCreateCommentEndpointUnauthenticated(t *testing.T) {
	svc := new(MockCommentService)
	router := commentRouter(svc, false)

	w := doRequest(router, http.MethodPost, "/posts/p1/comments", gin.H{"text": "hi"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateCommentEndpointMissingText(t *testing.T) {
	svc := new(MockCommentService)
	router := commentRouter(svc, true)

	w := doRequest(router, http.MethodPost, "/posts/p1/comments", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateCommentEndpointReply(t *testing.T) {
	svc := new(MockCommentService)
	router := commentRouter(svc, true)

	svc.On("Create", mock.Anything, mock.Anything, "p1", "reply", "c1").
		Return(&model.Comment{CommentID: "c2", PostID: "p1", ParentCommentID: "c1"}, nil)

	w := doRequest(router, http.MethodPost, "/posts/p1/comments", gin.H{
		"text":              "reply",
		"parent_comment_id": "c1",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCreateCommentEndpointUnpublishedPost(t *testing.T) {
	svc := new(MockCommentService)
	router := commentRouter(svc, true)

	svc.On("Create", mock.Anything, mock.Anything, "p1", "hi", "").
		Return(nil, errors.New(errors.ErrPostNotFound, "帖子不存在或未发布"))

	w := doRequest(router, http.MethodPost, "/posts/p1/comments", gin.H{"text": "hi"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListCommentsEndpoint(t *testing.T) {
	svc := new(MockCommentService)
	router := commentRouter(svc, false)

	svc.On("ListByPost", mock.Anything, "p1", int64(10), "").
		Return(&interfaces.CommentPage{
			Comments: []*model.Comment{
				{CommentID: "c2", CreatedAt: "2026-01-02T00:00:00Z"},
				{CommentID: "c1", CreatedAt: "2026-01-01T00:00:00Z"},
			},
			NextToken: "next",
		}, nil)

	w := doRequest(router, http.MethodGet, "/posts/p1/comments", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Comments   []*model.Comment `json:"comments"`
			NextCursor string           `json:"next_cursor"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data.Comments, 2)
	assert.Equal(t, "next", resp.Data.NextCursor)
}
