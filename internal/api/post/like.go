package post

import (
	"net/http"

	"blog-backend/internal/errors"
	"blog-backend/internal/middleware"
	"blog-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// LikeHandler 处理与点赞相关的HTTP请求
// 点赞必须来自已验证的身份，不接受匿名点赞
type LikeHandler struct {
	likeService service.LikeServiceInterface
}

// NewLikeHandler 创建一个新的 LikeHandler 实例
func NewLikeHandler(likeService service.LikeServiceInterface) *LikeHandler {
	return &LikeHandler{likeService}
}

// Toggle 处理点赞切换请求：已点赞则取消，未点赞则点赞
func (h *LikeHandler) Toggle(c *gin.Context) {
	claims := middleware.Identity(c)
	if claims == nil {
		errors.HandleError(c, errors.New(errors.ErrUnauthorized, "需要认证"))
		return
	}

	result, err := h.likeService.Toggle(c.Request.Context(), c.Param("id"), claims.UserID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, http.StatusOK, result, "")
}

// Unlike 处理取消点赞请求
func (h *LikeHandler) Unlike(c *gin.Context) {
	claims := middleware.Identity(c)
	if claims == nil {
		errors.HandleError(c, errors.New(errors.ErrUnauthorized, "需要认证"))
		return
	}

	result, err := h.likeService.Unlike(c.Request.Context(), c.Param("id"), claims.UserID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, http.StatusOK, result, "")
}

// ListPostLikes 列出点赞了帖子的用户
func (h *LikeHandler) ListPostLikes(c *gin.Context) {
	page, err := h.likeService.ListPostLikes(c.Request.Context(),
		c.Param("id"), queryLimit(c), c.Query("cursor"))
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, http.StatusOK, gin.H{
		"likes":       page.Likes,
		"next_cursor": page.NextToken,
	}, "")
}

// ListUserLikes 列出用户点赞过的帖子记录
func (h *LikeHandler) ListUserLikes(c *gin.Context) {
	page, err := h.likeService.ListUserLikes(c.Request.Context(),
		c.Param("id"), queryLimit(c), c.Query("cursor"))
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, http.StatusOK, gin.H{
		"likes":       page.Likes,
		"next_cursor": page.NextToken,
	}, "")
}
