package model

// ReactionLike 默认的反应类型
const ReactionLike = "like"

// Like 结构体表示点赞文档
// 组合主键 (post_id, user_id)：同一用户对同一帖子至多一条记录，
// 记录的存在本身即代表点赞
type Like struct {
	PostID       string `json:"post_id" dynamodbav:"post_id"`
	UserID       string `json:"user_id" dynamodbav:"user_id"`
	ReactionType string `json:"reaction_type" dynamodbav:"reaction_type"`
	CreatedAt    string `json:"created_at" dynamodbav:"created_at"`
}
