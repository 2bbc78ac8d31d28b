package post

import (
	"net/http"

	"blog-backend/internal/errors"
	"blog-backend/internal/middleware"
	"blog-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// CommentHandler 处理与评论相关的HTTP请求
type CommentHandler struct {
	commentService service.CommentServiceInterface
}

// NewCommentHandler 创建一个新的 CommentHandler 实例
func NewCommentHandler(commentService service.CommentServiceInterface) *CommentHandler {
	return &CommentHandler{commentService}
}

// Create 处理创建评论请求
func (h *CommentHandler) Create(c *gin.Context) {
	claims := middleware.Identity(c)
	if claims == nil {
		errors.HandleError(c, errors.New(errors.ErrUnauthorized, "需要认证"))
		return
	}

	var commentData struct {
		Text            string `json:"text" binding:"required"`
		ParentCommentID string `json:"parent_comment_id"`
	}
	if err := c.ShouldBindJSON(&commentData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	comment, err := h.commentService.Create(c.Request.Context(), claims,
		c.Param("id"), commentData.Text, commentData.ParentCommentID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, http.StatusCreated, comment, "评论发表成功")
}

// List 处理评论列表请求，新评论在前
func (h *CommentHandler) List(c *gin.Context) {
	page, err := h.commentService.ListByPost(c.Request.Context(),
		c.Param("id"), queryLimit(c), c.Query("cursor"))
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, http.StatusOK, gin.H{
		"comments":    page.Comments,
		"next_cursor": page.NextToken,
	}, "")
}
