package user

import (
	"net/http"

	"blog-backend/internal/errors"
	"blog-backend/internal/middleware"
	"blog-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// ProfileHandler 处理用户资料相关的HTTP请求
type ProfileHandler struct {
	userService service.UserServiceInterface
}

// NewProfileHandler 创建一个新的 ProfileHandler 实例
func NewProfileHandler(userService service.UserServiceInterface) *ProfileHandler {
	return &ProfileHandler{userService}
}

// GetMe 返回当前登录用户的信息
func (h *ProfileHandler) GetMe(c *gin.Context) {
	claims := middleware.Identity(c)
	if claims == nil {
		errors.HandleError(c, errors.New(errors.ErrUnauthorized, "需要认证"))
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), claims.UserID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, http.StatusOK, user, "")
}

// UpdateProfile 更新当前用户的资料
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	claims := middleware.Identity(c)
	if claims == nil {
		errors.HandleError(c, errors.New(errors.ErrUnauthorized, "需要认证"))
		return
	}

	var profileData struct {
		Username    string `json:"username"`
		DisplayName string `json:"display_name"`
	}
	if err := c.ShouldBindJSON(&profileData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), claims.UserID,
		profileData.Username, profileData.DisplayName)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, http.StatusOK, user, "资料已更新")
}

// DeleteAccount 停用当前用户的账号（软删除）
func (h *ProfileHandler) DeleteAccount(c *gin.Context) {
	claims := middleware.Identity(c)
	if claims == nil {
		errors.HandleError(c, errors.New(errors.ErrUnauthorized, "需要认证"))
		return
	}

	if err := h.userService.DeactivateAccount(c.Request.Context(), claims.UserID); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, http.StatusOK, nil, "账号已停用")
}
