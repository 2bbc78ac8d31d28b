package model

// MaxCommentLength 评论文本的最大长度
const MaxCommentLength = 5000

// Comment 结构体表示评论文档
// parent_comment_id 可选，指向同一帖子下的另一条评论，形成树结构
type Comment struct {
	CommentID       string `json:"comment_id" dynamodbav:"comment_id"`
	PostID          string `json:"post_id" dynamodbav:"post_id"`
	UserID          string `json:"user_id" dynamodbav:"user_id"`
	Text            string `json:"text" dynamodbav:"text"`
	ParentCommentID string `json:"parent_comment_id,omitempty" dynamodbav:"parent_comment_id,omitempty"`
	IsActive        bool   `json:"is_active" dynamodbav:"is_active"`
	CreatedAt       string `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt       string `json:"updated_at" dynamodbav:"updated_at"`

	// AuthorInfo 仅在响应中填充，不落库
	AuthorInfo map[string]interface{} `json:"author_info,omitempty" dynamodbav:"-"`
}
