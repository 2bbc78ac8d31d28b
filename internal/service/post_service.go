package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"blog-backend/internal/errors"
	"blog-backend/internal/model"
	"blog-backend/internal/repository/interfaces"
	"blog-backend/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	maxTitleLength = 200
	maxTextLength  = 50000

	// 软删除后的保留期，到期由维护任务物理清除
	deleteRetention = 30 * 24 * time.Hour

	defaultPageSize = 10
	maxPageSize     = 100
)

// PostService 处理与帖子相关的业务逻辑
type PostService struct {
	postRepo interfaces.PostRepository
	userRepo interfaces.UserRepository
	likeRepo interfaces.LikeRepository
}

// NewPostService 创建一个新的 PostService 实例
func NewPostService(postRepo interfaces.PostRepository, userRepo interfaces.UserRepository, likeRepo interfaces.LikeRepository) *PostService {
	return &PostService{
		postRepo: postRepo,
		userRepo: userRepo,
		likeRepo: likeRepo,
	}
}

// CreatePostInput 是创建帖子的输入
type CreatePostInput struct {
	Title    string
	Text     string
	Excerpt  string
	ImageURL string
	Status   string
}

// UpdatePostInput 是编辑帖子的输入，nil 表示不更新该字段
// 可更新字段是白名单：title/text/image_url/status/slug
type UpdatePostInput struct {
	Title    *string
	Text     *string
	ImageURL *string
	Status   *string
	Slug     *string
}

// Create 创建帖子。slug 由标题确定性生成，状态默认为草稿，
// 计数器从零开始
func (s *PostService) Create(ctx context.Context, authorID string, in CreatePostInput) (*model.Post, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, errors.New(errors.ErrValidation, "标题不能为空")
	}
	if len(title) > maxTitleLength {
		return nil, errors.New(errors.ErrValidation, "标题过长")
	}
	if len(in.Text) > maxTextLength {
		return nil, errors.New(errors.ErrValidation, "正文过长")
	}

	status := in.Status
	if status == "" {
		status = model.PostStatusDraft
	}
	if !model.ValidPostStatus(status) || status == model.PostStatusDeleted {
		return nil, errors.New(errors.ErrValidation, "无效的帖子状态")
	}

	// author_id 的引用完整性由存储之外保证，这里显式校验
	author, err := s.userRepo.FindByID(ctx, authorID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrStore, "查询作者失败", err)
	}
	if author == nil || !author.IsActive {
		return nil, errors.New(errors.ErrUserInactive, "作者不存在或已被停用")
	}

	now := util.NowISO()
	post := &model.Post{
		PostID:    uuid.NewString(),
		AuthorID:  authorID,
		Title:     title,
		Text:      in.Text,
		Slug:      util.Slugify(title),
		Excerpt:   strings.TrimSpace(in.Excerpt),
		ImageURL:  in.ImageURL,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if status == model.PostStatusPublished {
		post.PublishedAt = now
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, errors.Wrap(errors.ErrStore, "创建帖子失败", err)
	}
	return post, nil
}

// Get 按ID读取帖子，并尽力递增浏览计数（原子加法，失败只记日志）。
// 带身份读取时填充 user_liked
func (s *PostService) Get(ctx context.Context, id, viewerID string) (*model.Post, error) {
	post, err := s.findVisible(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.postRepo.AddViews(ctx, id, 1); err != nil {
		util.Logger.Warn("浏览计数更新失败", zap.Error(err), zap.String("post_id", id))
	} else {
		post.ViewsCount++
	}

	s.fillUserLiked(ctx, post, viewerID)
	return post, nil
}

// GetBySlug 按 slug 读取已发布的帖子
func (s *PostService) GetBySlug(ctx context.Context, slug, viewerID string) (*model.Post, error) {
	post, err := s.postRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, errors.Wrap(errors.ErrStore, "查询帖子失败", err)
	}
	if post == nil || post.IsDeleted {
		return nil, errors.New(errors.ErrPostNotFound, "帖子不存在")
	}

	if err := s.postRepo.AddViews(ctx, post.PostID, 1); err != nil {
		util.Logger.Warn("浏览计数更新失败", zap.Error(err), zap.String("post_id", post.PostID))
	} else {
		post.ViewsCount++
	}

	s.fillUserLiked(ctx, post, viewerID)
	return post, nil
}

// List 按状态或作者列出帖子。分页令牌来自存储、原样传回，
// 软删除的帖子不出现在任何列表里
func (s *PostService) List(ctx context.Context, status, authorID string, limit int64, startToken string) (*interfaces.PostPage, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	var (
		page *interfaces.PostPage
		err  error
	)
	if authorID != "" {
		page, err = s.postRepo.ListByAuthor(ctx, authorID, limit, startToken)
	} else {
		if status == "" {
			status = model.PostStatusPublished
		}
		if !model.ValidPostStatus(status) || status == model.PostStatusDeleted {
			return nil, errors.New(errors.ErrValidation, "无效的帖子状态")
		}
		page, err = s.postRepo.ListByStatus(ctx, status, limit, startToken)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrStore, "查询帖子列表失败", err)
	}

	visible := page.Posts[:0]
	for _, post := range page.Posts {
		if !post.IsDeleted {
			visible = append(visible, post)
		}
	}
	page.Posts = visible
	return page, nil
}

// Update 编辑帖子，仅作者或管理员可操作。
// 标题变化且未显式给出 slug 时自动重新生成 slug
func (s *PostService) Update(ctx context.Context, actor *util.Claims, postID string, in UpdatePostInput) (*model.Post, error) {
	post, err := s.findVisible(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != actor.UserID && actor.Role != model.RoleAdmin {
		return nil, errors.New(errors.ErrForbidden, "只有作者或管理员可以编辑帖子")
	}

	sets := map[string]interface{}{}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, errors.New(errors.ErrValidation, "标题不能为空")
		}
		if len(title) > maxTitleLength {
			return nil, errors.New(errors.ErrValidation, "标题过长")
		}
		sets["title"] = title
		// 只有标题真的变了才重新生成 slug，
		// 原样重发标题不覆盖手工设置的 slug
		if in.Slug == nil && title != post.Title {
			sets["slug"] = util.Slugify(title)
		}
	}
	if in.Text != nil {
		if len(*in.Text) > maxTextLength {
			return nil, errors.New(errors.ErrValidation, "正文过长")
		}
		sets["text"] = *in.Text
	}
	if in.ImageURL != nil {
		sets["image_url"] = strings.TrimSpace(*in.ImageURL)
	}
	if in.Slug != nil {
		sets["slug"] = util.Slugify(*in.Slug)
	}
	if in.Status != nil {
		status := *in.Status
		if !model.ValidPostStatus(status) || status == model.PostStatusDeleted {
			return nil, errors.New(errors.ErrValidation, "无效的帖子状态")
		}
		sets["status"] = status
		if status == model.PostStatusPublished && post.PublishedAt == "" {
			sets["published_at"] = util.NowISO()
		}
	}

	if len(sets) == 0 {
		return nil, errors.New(errors.ErrValidation, "没有可更新的字段")
	}
	sets["updated_at"] = util.NowISO()

	updated, err := s.postRepo.UpdateFields(ctx, postID, sets)
	if err != nil {
		return nil, errors.Wrap(errors.ErrStore, "更新帖子失败", err)
	}
	return updated, nil
}

// SoftDelete 软删除帖子：标记 deleted 状态并设置保留期限，
// 重复删除返回 AlreadyDeleted 且不改动 deleted_at
func (s *PostService) SoftDelete(ctx context.Context, actor *util.Claims, postID string) (*model.Post, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrStore, "查询帖子失败", err)
	}
	if post == nil {
		return nil, errors.New(errors.ErrPostNotFound, "帖子不存在")
	}
	if post.AuthorID != actor.UserID && actor.Role != model.RoleAdmin {
		return nil, errors.New(errors.ErrForbidden, "只有作者或管理员可以删除帖子")
	}
	if post.IsDeleted {
		return nil, errors.New(errors.ErrAlreadyDeleted, "帖子已被删除")
	}

	now := time.Now().UTC()
	sets := map[string]interface{}{
		"status":              model.PostStatusDeleted,
		"is_deleted":          true,
		"deleted_at":          now.Format(time.RFC3339),
		"deleted_by":          actor.UserID,
		"permanent_delete_at": now.Add(deleteRetention).Format(time.RFC3339),
		"updated_at":          now.Format(time.RFC3339),
	}

	updated, err := s.postRepo.UpdateFields(ctx, postID, sets)
	if err != nil {
		return nil, errors.Wrap(errors.ErrStore, "删除帖子失败", err)
	}
	util.Logger.Info("帖子已软删除",
		zap.String("post_id", postID),
		zap.String("deleted_by", actor.UserID))
	return updated, nil
}

// TopPosts 返回最热门的已发布帖子，点赞权重是浏览的两倍
func (s *PostService) TopPosts(ctx context.Context, limit int64) ([]*model.Post, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}

	var all []*model.Post
	token := ""
	for {
		page, err := s.postRepo.ListByStatus(ctx, model.PostStatusPublished, maxPageSize, token)
		if err != nil {
			return nil, errors.Wrap(errors.ErrStore, "查询帖子列表失败", err)
		}
		all = append(all, page.Posts...)
		if page.NextToken == "" {
			break
		}
		token = page.NextToken
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].LikesCount*2+all[i].ViewsCount > all[j].LikesCount*2+all[j].ViewsCount
	})
	if int64(len(all)) > limit {
		all = all[:limit]
	}
	return all, nil
}

// findVisible 读取未被软删除的帖子
func (s *PostService) findVisible(ctx context.Context, id string) (*model.Post, error) {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrStore, "查询帖子失败", err)
	}
	if post == nil || post.IsDeleted {
		return nil, errors.New(errors.ErrPostNotFound, "帖子不存在")
	}
	return post, nil
}

func (s *PostService) fillUserLiked(ctx context.Context, post *model.Post, viewerID string) {
	if viewerID == "" {
		return
	}
	like, err := s.likeRepo.Find(ctx, post.PostID, viewerID)
	if err != nil {
		util.Logger.Warn("查询点赞状态失败", zap.Error(err), zap.String("post_id", post.PostID))
		return
	}
	post.UserLiked = like != nil
}

// PostServiceInterface 定义 PostService 对外的方法
type PostServiceInterface interface {
	Create(ctx context.Context, authorID string, in CreatePostInput) (*model.Post, error)
	Get(ctx context.Context, id, viewerID string) (*model.Post, error)
	GetBySlug(ctx context.Context, slug, viewerID string) (*model.Post, error)
	List(ctx context.Context, status, authorID string, limit int64, startToken string) (*interfaces.PostPage, error)
	Update(ctx context.Context, actor *util.Claims, postID string, in UpdatePostInput) (*model.Post, error)
	SoftDelete(ctx context.Context, actor *util.Claims, postID string) (*model.Post, error)
	TopPosts(ctx context.Context, limit int64) ([]*model.Post, error)
}

// 确保 PostService 实现了 PostServiceInterface
var _ PostServiceInterface = (*PostService)(nil)
