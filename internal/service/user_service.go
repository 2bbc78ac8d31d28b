package service

import (
	"context"
	"strings"

	"blog-backend/internal/errors"
	"blog-backend/internal/model"
	"blog-backend/internal/repository/interfaces"
	"blog-backend/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserService 处理与用户相关的业务逻辑
type UserService struct {
	userRepo interfaces.UserRepository
}

// NewUserService 创建一个新的 UserService 实例
func NewUserService(userRepo interfaces.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// RegisterInput 是注册请求的输入
type RegisterInput struct {
	Email       string
	Username    string
	Password    string
	DisplayName string
}

// Register 注册新用户并签发令牌
// 邮箱唯一性通过二级索引查询校验，冲突返回 409
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*model.User, string, error) {
	existing, err := s.userRepo.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrStore, "查询用户失败", err)
	}
	if existing != nil {
		return nil, "", errors.New(errors.ErrUserExists, "该邮箱已被注册")
	}

	// 未提供用户名时取邮箱的本地部分
	username := strings.TrimSpace(in.Username)
	if username == "" {
		username = strings.SplitN(in.Email, "@", 2)[0]
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrInternal, "生成密码哈希失败", err)
	}

	now := util.NowISO()
	user := &model.User{
		UserID:       uuid.NewString(),
		Email:        in.Email,
		Username:     username,
		PasswordHash: string(hashed),
		DisplayName:  in.DisplayName,
		Role:         model.RoleUser,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", errors.Wrap(errors.ErrStore, "创建用户失败", err)
	}

	token, err := util.GenerateToken(user.UserID, user.Email, user.Role)
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrInternal, "生成令牌失败", err)
	}

	util.Logger.Info("用户注册成功", zap.String("user_id", user.UserID))
	return user, token, nil
}

// Login 用户登录，校验密码并签发令牌
func (s *UserService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrStore, "查询用户失败", err)
	}
	if user == nil {
		return nil, "", errors.New(errors.ErrInvalidCredentials, "邮箱或密码错误")
	}
	if !user.IsActive {
		return nil, "", errors.New(errors.ErrUserInactive, "账号已被停用")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", errors.New(errors.ErrInvalidCredentials, "邮箱或密码错误")
	}

	token, err := util.GenerateToken(user.UserID, user.Email, user.Role)
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrInternal, "生成令牌失败", err)
	}

	util.Logger.Info("用户登录成功", zap.String("user_id", user.UserID))
	return user, token, nil
}

// GetUserByID 通过ID获取用户信息
func (s *UserService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrStore, "查询用户失败", err)
	}
	if user == nil {
		return nil, errors.New(errors.ErrNotFound, "用户不存在")
	}
	return user, nil
}

// UpdateProfile 更新用户资料。只写改动的字段，
// 并发修改不同字段的请求互不覆盖
func (s *UserService) UpdateProfile(ctx context.Context, userID, username, displayName string) (*model.User, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	sets := map[string]interface{}{}
	if username = strings.TrimSpace(username); username != "" {
		sets["username"] = username
	}
	if displayName = strings.TrimSpace(displayName); displayName != "" {
		sets["display_name"] = displayName
	}
	if len(sets) == 0 {
		return user, nil
	}
	sets["updated_at"] = util.NowISO()

	updated, err := s.userRepo.UpdateFields(ctx, userID, sets)
	if err != nil {
		return nil, errors.Wrap(errors.ErrStore, "更新用户失败", err)
	}
	return updated, nil
}

// DeactivateAccount 停用账号（软删除，用户记录永不物理删除）
func (s *UserService) DeactivateAccount(ctx context.Context, userID string) error {
	if _, err := s.GetUserByID(ctx, userID); err != nil {
		return err
	}
	if err := s.userRepo.Deactivate(ctx, userID); err != nil {
		return errors.Wrap(errors.ErrStore, "停用账号失败", err)
	}
	util.Logger.Info("账号已停用", zap.String("user_id", userID))
	return nil
}

// UserServiceInterface 定义 UserService 对外的方法
type UserServiceInterface interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, string, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	UpdateProfile(ctx context.Context, userID, username, displayName string) (*model.User, error)
	DeactivateAccount(ctx context.Context, userID string) error
}

// 确保 UserService 实现了 UserServiceInterface
var _ UserServiceInterface = (*UserService)(nil)
