package transport

type CreateCommentRequest struct {
	PostID  uint64 `json:"postId"`
	Content string `json:"content"`
	Author  string `json:"author"`
}
