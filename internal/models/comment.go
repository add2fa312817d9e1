package models

import (
	"database/sql"
	"time"
)

// Comment statuses
const (
	CommentStatusActive  = "active"
	CommentStatusDeleted = "deleted"
)

// DeletedCommentBody replaces the content of soft-deleted comments so the
// thread stays structurally intact for descendant replies.
const DeletedCommentBody = "[deleted]"

// Comment represents a comment on a forum post, optionally threaded under
// a parent comment on the same post.
type Comment struct {
	ID        int64        `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	PostID    int64        `gorm:"not null;index;column:post_id" json:"post_id"`
	ParentID  *int64       `gorm:"index;column:parent_id" json:"parent_id"`
	AuthorID  string       `gorm:"type:varchar(64);not null;index;column:author_id" json:"author_id"`
	Content   string       `gorm:"type:text;not null;column:content" json:"content"`
	Score     int          `gorm:"not null;default:0;column:score" json:"score"`
	Status    string       `gorm:"type:varchar(16);not null;default:'active';column:status" json:"status"`
	DeletedAt sql.NullTime `gorm:"column:deleted_at" json:"-"`
	CreatedAt time.Time    `gorm:"not null;column:created_at" json:"created_at"`
}

// TableName specifies the table name for Comment
func (Comment) TableName() string {
	return "forum_comments"
}

// IsDeleted reports whether the comment has been soft-deleted
func (c *Comment) IsDeleted() bool {
	return c.Status == CommentStatusDeleted
}
