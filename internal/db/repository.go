package db

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/onestop/forum-service/internal/models"
)

// Repository provides database access methods
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// PostRepository provides post-related database operations
type PostRepository struct {
	*Repository
}

// NewPostRepository creates a new post repository
func NewPostRepository(repo *Repository) *PostRepository {
	return &PostRepository{Repository: repo}
}

// GetByID retrieves a post by ID
func (r *PostRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// Create creates a new post
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// Save persists all fields of a post
func (r *PostRepository) Save(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Save(post).Error
}

// List retrieves posts matching the filter, newest first, with the total
// number of matching rows.
func (r *PostRepository) List(ctx context.Context, f *Filter, offset, limit int) ([]*models.Post, int64, error) {
	base := f.Apply(r.db.WithContext(ctx).Model(&models.Post{})).Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []*models.Post
	if err := base.
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// RecomputeScore sets the post's score to the sum of its current vote rows
// in a single server-side statement.
func (r *PostRepository) RecomputeScore(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE forum_posts
		 SET score = COALESCE((SELECT SUM(value) FROM forum_post_votes WHERE post_id = ?), 0)
		 WHERE id = ?`, id, id).Error
}

// CommentRepository provides comment-related database operations
type CommentRepository struct {
	*Repository
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(repo *Repository) *CommentRepository {
	return &CommentRepository{Repository: repo}
}

// GetByID retrieves a comment by ID
func (r *CommentRepository) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &comment, nil
}

// Create creates a new comment
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// Save persists all fields of a comment
func (r *CommentRepository) Save(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Save(comment).Error
}

// ListByPost retrieves the non-deleted comments of a post in chronological
// order for thread display.
func (r *CommentRepository) ListByPost(ctx context.Context, postID int64) ([]*models.Comment, error) {
	var comments []*models.Comment
	if err := r.db.WithContext(ctx).
		Where("post_id = ? AND status <> ?", postID, models.CommentStatusDeleted).
		Order("created_at ASC, id ASC").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// CountByPostIDs returns the number of non-deleted comments per post for
// the given post ids in one aggregate query.
func (r *CommentRepository) CountByPostIDs(ctx context.Context, postIDs []int64) (map[int64]int64, error) {
	counts := make(map[int64]int64, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		PostID int64 `gorm:"column:post_id"`
		Count  int64 `gorm:"column:count"`
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Select("post_id, COUNT(*) AS count").
		Where("post_id IN ? AND status <> ?", postIDs, models.CommentStatusDeleted).
		Group("post_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.PostID] = row.Count
	}
	return counts, nil
}

// RecomputeScore sets the comment's score to the sum of its current vote
// rows in a single server-side statement.
func (r *CommentRepository) RecomputeScore(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE forum_comments
		 SET score = COALESCE((SELECT SUM(value) FROM forum_comment_votes WHERE comment_id = ?), 0)
		 WHERE id = ?`, id, id).Error
}

// PostVoteRepository provides post-vote database operations
type PostVoteRepository struct {
	*Repository
}

// NewPostVoteRepository creates a new post-vote repository
func NewPostVoteRepository(repo *Repository) *PostVoteRepository {
	return &PostVoteRepository{Repository: repo}
}

// Get retrieves a voter's vote on a post, nil when none exists
func (r *PostVoteRepository) Get(ctx context.Context, postID int64, voterID string) (*models.PostVote, error) {
	var vote models.PostVote
	if err := r.db.WithContext(ctx).
		Where("post_id = ? AND voter_id = ?", postID, voterID).
		First(&vote).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vote, nil
}

// Create inserts a vote row
func (r *PostVoteRepository) Create(ctx context.Context, vote *models.PostVote) error {
	return r.db.WithContext(ctx).Create(vote).Error
}

// SetValue flips an existing vote to the given value
func (r *PostVoteRepository) SetValue(ctx context.Context, postID int64, voterID string, value int16) error {
	return r.db.WithContext(ctx).
		Model(&models.PostVote{}).
		Where("post_id = ? AND voter_id = ?", postID, voterID).
		Update("value", value).Error
}

// Delete removes a voter's vote on a post
func (r *PostVoteRepository) Delete(ctx context.Context, postID int64, voterID string) error {
	return r.db.WithContext(ctx).
		Where("post_id = ? AND voter_id = ?", postID, voterID).
		Delete(&models.PostVote{}).Error
}

// CommentVoteRepository provides comment-vote database operations
type CommentVoteRepository struct {
	*Repository
}

// NewCommentVoteRepository creates a new comment-vote repository
func NewCommentVoteRepository(repo *Repository) *CommentVoteRepository {
	return &CommentVoteRepository{Repository: repo}
}

// Get retrieves a voter's vote on a comment, nil when none exists
func (r *CommentVoteRepository) Get(ctx context.Context, commentID int64, voterID string) (*models.CommentVote, error) {
	var vote models.CommentVote
	if err := r.db.WithContext(ctx).
		Where("comment_id = ? AND voter_id = ?", commentID, voterID).
		First(&vote).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vote, nil
}

// Create inserts a vote row
func (r *CommentVoteRepository) Create(ctx context.Context, vote *models.CommentVote) error {
	return r.db.WithContext(ctx).Create(vote).Error
}

// SetValue flips an existing vote to the given value
func (r *CommentVoteRepository) SetValue(ctx context.Context, commentID int64, voterID string, value int16) error {
	return r.db.WithContext(ctx).
		Model(&models.CommentVote{}).
		Where("comment_id = ? AND voter_id = ?", commentID, voterID).
		Update("value", value).Error
}

// Delete removes a voter's vote on a comment
func (r *CommentVoteRepository) Delete(ctx context.Context, commentID int64, voterID string) error {
	return r.db.WithContext(ctx).
		Where("comment_id = ? AND voter_id = ?", commentID, voterID).
		Delete(&models.CommentVote{}).Error
}

// NotificationRepository provides notification-related database operations
type NotificationRepository struct {
	*Repository
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(repo *Repository) *NotificationRepository {
	return &NotificationRepository{Repository: repo}
}

// Create creates a new notification
func (r *NotificationRepository) Create(ctx context.Context, notif *models.Notification) error {
	return r.db.WithContext(ctx).Create(notif).Error
}

// GetByID retrieves a notification by ID
func (r *NotificationRepository) GetByID(ctx context.Context, id int64) (*models.Notification, error) {
	var notif models.Notification
	if err := r.db.WithContext(ctx).First(&notif, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &notif, nil
}

// Save persists all fields of a notification
func (r *NotificationRepository) Save(ctx context.Context, notif *models.Notification) error {
	return r.db.WithContext(ctx).Save(notif).Error
}

// ListByRecipient retrieves a recipient's notifications, newest first,
// with the total number of rows.
func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID string, offset, limit int) ([]*models.Notification, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("recipient_id = ?", recipientID).
		Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifs []*models.Notification
	if err := base.
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&notifs).Error; err != nil {
		return nil, 0, err
	}
	return notifs, total, nil
}

// CountUnread returns the number of unread notifications for a recipient
func (r *NotificationRepository) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("recipient_id = ? AND read_at IS NULL", recipientID).
		Count(&count).Error
	return count, err
}
