package post

import (
	"net/http"
	"strconv"

	"blog-backend/internal/errors"
	"blog-backend/internal/middleware"
	"blog-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// PostHandler 处理与帖子相关的HTTP请求
type PostHandler struct {
	postService service.PostServiceInterface
}

// NewPostHandler 创建一个新的 PostHandler 实例
func NewPostHandler(postService service.PostServiceInterface) *PostHandler {
	return &PostHandler{postService}
}

// Create 处理创建帖子请求
func (h *PostHandler) Create(c *gin.Context) {
	claims := middleware.Identity(c)
	if claims == nil {
		errors.HandleError(c, errors.New(errors.ErrUnauthorized, "需要认证"))
		return
	}

	var postData struct {
		Title    string `json:"title" binding:"required"`
		Text     string `json:"text"`
		Excerpt  string `json:"excerpt"`
		ImageURL string `json:"image_url"`
		Status   string `json:"status" binding:"omitempty,post_status"`
	}
	if err := c.ShouldBindJSON(&postData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	post, err := h.postService.Create(c.Request.Context(), claims.UserID, service.CreatePostInput{
		Title:    postData.Title,
		Text:     postData.Text,
		Excerpt:  postData.Excerpt,
		ImageURL: postData.ImageURL,
		Status:   postData.Status,
	})
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, http.StatusCreated, post, "帖子创建成功")
}

// Get 处理按ID读取帖子请求，带身份时返回 user_liked
func (h *PostHandler) Get(c *gin.Context) {
	viewerID := ""
	if claims := middleware.Identity(c); claims != nil {
		viewerID = claims.UserID
	}

	post, err := h.postService.Get(c.Request.Context(), c.Param("id"), viewerID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, http.StatusOK, post, "")
}

// GetBySlug 处理按 slug 读取帖子请求
func (h *PostHandler) GetBySlug(c *gin.Context) {
	viewerID := ""
	if claims := middleware.Identity(c); claims != nil {
		viewerID = claims.UserID
	}

	post, err := h.postService.GetBySlug(c.Request.Context(), c.Param("slug"), viewerID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, http.StatusOK, post, "")
}

// List 处理帖子列表请求，支持 status/author_id 过滤和游标分页
func (h *PostHandler) List(c *gin.Context) {
	page, err := h.postService.List(c.Request.Context(),
		c.Query("status"),
		c.Query("author_id"),
		queryLimit(c),
		c.Query("cursor"))
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, http.StatusOK, gin.H{
		"posts":       page.Posts,
		"next_cursor": page.NextToken,
	}, "")
}

// Top 处理热门帖子请求
func (h *PostHandler) Top(c *gin.Context) {
	posts, err := h.postService.TopPosts(c.Request.Context(), queryLimit(c))
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, http.StatusOK, gin.H{"posts": posts}, "")
}

// Update 处理编辑帖子请求
func (h *PostHandler) Update(c *gin.Context) {
	claims := middleware.Identity(c)
	if claims == nil {
		errors.HandleError(c, errors.New(errors.ErrUnauthorized, "需要认证"))
		return
	}

	var updateData struct {
		Title    *string `json:"title"`
		Text     *string `json:"text"`
		ImageURL *string `json:"image_url"`
		Status   *string `json:"status" binding:"omitempty"`
		Slug     *string `json:"slug"`
	}
	if err := c.ShouldBindJSON(&updateData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	post, err := h.postService.Update(c.Request.Context(), claims, c.Param("id"), service.UpdatePostInput{
		Title:    updateData.Title,
		Text:     updateData.Text,
		ImageURL: updateData.ImageURL,
		Status:   updateData.Status,
		Slug:     updateData.Slug,
	})
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, http.StatusOK, post, "帖子更新成功")
}

// Delete 处理软删除帖子请求
func (h *PostHandler) Delete(c *gin.Context) {
	claims := middleware.Identity(c)
	if claims == nil {
		errors.HandleError(c, errors.New(errors.ErrUnauthorized, "需要认证"))
		return
	}

	post, err := h.postService.SoftDelete(c.Request.Context(), claims, c.Param("id"))
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, http.StatusOK, gin.H{
		"post":                  post,
		"permanent_delete_date": post.PermanentDeleteAt,
	}, "帖子已标记删除，保留期满后将被彻底清除")
}

func queryLimit(c *gin.Context) int64 {
	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "10"), 10, 64)
	if err != nil || limit <= 0 {
		return 10
	}
	return limit
}
