package models

import "time"

type Comment struct {
	ID        uint64    `db:"id"         json:"id"`
	PostID    uint64    `db:"post_id"    json:"postId"`
	Author    string    `db:"author"     json:"author"`
	Content   string    `db:"content"    json:"content"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
