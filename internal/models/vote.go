package models

import "time"

// Vote values
const (
	VoteUp   int16 = 1
	VoteDown int16 = -1
)

// ValidVoteValue reports whether v is an accepted vote value
func ValidVoteValue(v int16) bool {
	return v == VoteUp || v == VoteDown
}

// PostVote records a single user's vote on a post. Exactly one row may
// exist per (post, voter) pair.
type PostVote struct {
	PostID    int64     `gorm:"primaryKey;autoIncrement:false;column:post_id" json:"post_id"`
	VoterID   string    `gorm:"primaryKey;type:varchar(64);column:voter_id" json:"voter_id"`
	Value     int16     `gorm:"type:smallint;not null;column:value" json:"value"`
	CreatedAt time.Time `gorm:"not null;column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;column:updated_at" json:"updated_at"`
}

// TableName specifies the table name for PostVote
func (PostVote) TableName() string {
	return "forum_post_votes"
}

// CommentVote records a single user's vote on a comment. Exactly one row
// may exist per (comment, voter) pair.
type CommentVote struct {
	CommentID int64     `gorm:"primaryKey;autoIncrement:false;column:comment_id" json:"comment_id"`
	VoterID   string    `gorm:"primaryKey;type:varchar(64);column:voter_id" json:"voter_id"`
	Value     int16     `gorm:"type:smallint;not null;column:value" json:"value"`
	CreatedAt time.Time `gorm:"not null;column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;column:updated_at" json:"updated_at"`
}

// TableName specifies the table name for CommentVote
func (CommentVote) TableName() string {
	return "forum_comment_votes"
}
