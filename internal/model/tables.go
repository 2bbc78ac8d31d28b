package model

// 逻辑表名，物理表名由存储客户端加前缀得到
const (
	TableUsers    = "users"
	TablePosts    = "posts"
	TableComments = "comments"
	TableLikes    = "post_likes"
)

// 二级索引名
const (
	IndexUserEmail    = "idx_email"
	IndexCommentsPost = "idx_comments_post"
	IndexLikesUser    = "idx_post_likes_user"
)
