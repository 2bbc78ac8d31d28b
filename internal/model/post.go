package model

// 帖子状态
const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
	PostStatusDeleted   = "deleted"
	PostStatusArchived  = "archived"
)

// 帖子上的反规范化计数器字段名
const (
	FieldLikesCount    = "likes_count"
	FieldCommentsCount = "comments_count"
	FieldViewsCount    = "views_count"
)

// Post 结构体表示帖子文档
// likes_count/comments_count/views_count 是反规范化计数器，
// 由计数器引擎增量维护，最终一致
type Post struct {
	PostID            string `json:"post_id" dynamodbav:"post_id"`
	AuthorID          string `json:"author_id" dynamodbav:"author_id"`
	Title             string `json:"title" dynamodbav:"title"`
	Text              string `json:"text" dynamodbav:"text"`
	Slug              string `json:"slug" dynamodbav:"slug"`
	Excerpt           string `json:"excerpt,omitempty" dynamodbav:"excerpt,omitempty"`
	ImageURL          string `json:"image_url,omitempty" dynamodbav:"image_url,omitempty"`
	Status            string `json:"status" dynamodbav:"status"`
	LikesCount        int64  `json:"likes_count" dynamodbav:"likes_count"`
	CommentsCount     int64  `json:"comments_count" dynamodbav:"comments_count"`
	ViewsCount        int64  `json:"views_count" dynamodbav:"views_count"`
	IsDeleted         bool   `json:"is_deleted" dynamodbav:"is_deleted"`
	DeletedAt         string `json:"deleted_at,omitempty" dynamodbav:"deleted_at,omitempty"`
	DeletedBy         string `json:"deleted_by,omitempty" dynamodbav:"deleted_by,omitempty"`
	PermanentDeleteAt string `json:"permanent_delete_at,omitempty" dynamodbav:"permanent_delete_at,omitempty"`
	PublishedAt       string `json:"published_at,omitempty" dynamodbav:"published_at,omitempty"`
	CreatedAt         string `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt         string `json:"updated_at" dynamodbav:"updated_at"`

	// UserLiked 仅在带身份读取时填充，不落库
	UserLiked bool `json:"user_liked,omitempty" dynamodbav:"-"`
}

// ValidPostStatus 判断状态值是否合法
func ValidPostStatus(status string) bool {
	switch status {
	case PostStatusDraft, PostStatusPublished, PostStatusDeleted, PostStatusArchived:
		return true
	}
	return false
}
