package models

import (
	"database/sql"
	"time"
)

// Post statuses
const (
	PostStatusActive  = "active"
	PostStatusLocked  = "locked"
	PostStatusDeleted = "deleted"
)

// Post represents a forum post
type Post struct {
	ID        int64        `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	AuthorID  string       `gorm:"type:varchar(64);not null;index;column:author_id" json:"author_id"`
	Category  string       `gorm:"type:varchar(64);not null;index;column:category" json:"category"`
	Title     string       `gorm:"type:varchar(255);not null;column:title" json:"title"`
	Content   string       `gorm:"type:text;not null;column:content" json:"content"`
	Score     int          `gorm:"not null;default:0;column:score" json:"score"`
	Status    string       `gorm:"type:varchar(16);not null;default:'active';index;column:status" json:"status"`
	LockedAt  sql.NullTime `gorm:"column:locked_at" json:"-"`
	DeletedAt sql.NullTime `gorm:"column:deleted_at" json:"-"`
	CreatedAt time.Time    `gorm:"not null;column:created_at" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;column:updated_at" json:"updated_at"`
}

// TableName specifies the table name for Post
func (Post) TableName() string {
	return "forum_posts"
}

// IsDeleted reports whether the post has been soft-deleted
func (p *Post) IsDeleted() bool {
	return p.Status == PostStatusDeleted
}

// IsLocked reports whether the post rejects new comments
func (p *Post) IsLocked() bool {
	return p.Status == PostStatusLocked
}
