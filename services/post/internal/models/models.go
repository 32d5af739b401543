package models

import "time"

type Post struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Title     string    `gorm:"not null"                       json:"title"`
	Slug      string    `gorm:"index;not null"                 json:"slug"`
	Content   string    `gorm:"type:text;not null"             json:"content"`
	Author    string    `gorm:"index;not null"                 json:"author"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
