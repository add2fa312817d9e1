package forum

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/onestop/forum-service/internal/db"
	"github.com/onestop/forum-service/internal/models"
	"github.com/onestop/forum-service/pkg/config"
	"github.com/onestop/forum-service/pkg/logging"
)

// Threads manages posts and comments: creation, edits, soft deletion and
// the locked-state rules.
type Threads struct {
	db       *db.DB
	gate     *Gate
	notifier *Notifier
	pageSize int
	pageMax  int
	logger   *zap.Logger
}

// NewThreads creates a thread manager
func NewThreads(database *db.DB, gate *Gate, notifier *Notifier, cfg *config.ForumConfig) *Threads {
	return &Threads{
		db:       database,
		gate:     gate,
		notifier: notifier,
		pageSize: cfg.DefaultPageSize,
		pageMax:  cfg.MaxPageSize,
		logger:   logging.WithComponent("threads"),
	}
}

// ListPostsInput carries the optional list filters
type ListPostsInput struct {
	Category string
	Search   string
	Page     int
	Limit    int
}

// PostSummary is a post with its non-deleted comment count attached
type PostSummary struct {
	*models.Post
	CommentCount int64 `json:"comment_count"`
}

// CreatePostInput carries the required post fields
type CreatePostInput struct {
	Category string
	Title    string
	Content  string
}

// UpdatePostInput carries the optional edit fields; nil fields retain
// their prior values.
type UpdatePostInput struct {
	Category *string
	Title    *string
	Content  *string
}

// CreateCommentInput carries a new comment's fields
type CreateCommentInput struct {
	ParentID *int64
	Content  string
}

// ListPosts returns non-deleted posts, newest first, with comment counts
// and the total number of matching rows.
func (t *Threads) ListPosts(ctx context.Context, in ListPostsInput) ([]*PostSummary, int64, Page, error) {
	p := NewPage(in.Page, in.Limit, t.pageSize, t.pageMax)

	f := db.NewFilter().Where("status", "<>", models.PostStatusDeleted)
	if in.Category != "" {
		f.Where("category", "=", in.Category)
	}
	if in.Search != "" {
		pattern := "%" + strings.ToLower(in.Search) + "%"
		f.WhereAny(
			db.Predicate{Column: "LOWER(title)", Op: "LIKE", Value: pattern},
			db.Predicate{Column: "LOWER(content)", Op: "LIKE", Value: pattern},
		)
	}

	repo := db.NewRepository(t.db.DB)
	posts, total, err := db.NewPostRepository(repo).List(ctx, f, p.Offset(), p.Limit)
	if err != nil {
		t.logger.Error("Failed to list posts", zap.Error(err))
		return nil, 0, p, err
	}

	ids := make([]int64, len(posts))
	for i, post := range posts {
		ids[i] = post.ID
	}
	counts, err := db.NewCommentRepository(repo).CountByPostIDs(ctx, ids)
	if err != nil {
		t.logger.Error("Failed to count comments", zap.Error(err))
		return nil, 0, p, err
	}

	summaries := make([]*PostSummary, len(posts))
	for i, post := range posts {
		summaries[i] = &PostSummary{Post: post, CommentCount: counts[post.ID]}
	}
	return summaries, total, p, nil
}

// GetPost returns a non-deleted post with its non-deleted comments in
// chronological order.
func (t *Threads) GetPost(ctx context.Context, id int64) (*models.Post, []*models.Comment, error) {
	repo := db.NewRepository(t.db.DB)

	post, err := db.NewPostRepository(repo).GetByID(ctx, id)
	if err != nil {
		t.logger.Error("Failed to load post", zap.Int64("post_id", id), zap.Error(err))
		return nil, nil, err
	}
	if post == nil || post.IsDeleted() {
		return nil, nil, NotFound("Post not found")
	}

	comments, err := db.NewCommentRepository(repo).ListByPost(ctx, id)
	if err != nil {
		t.logger.Error("Failed to load comments", zap.Int64("post_id", id), zap.Error(err))
		return nil, nil, err
	}
	return post, comments, nil
}

// CreatePost creates a post authored by the authenticated user
func (t *Threads) CreatePost(ctx context.Context, author User, in CreatePostInput) (*models.Post, error) {
	if strings.TrimSpace(in.Category) == "" ||
		strings.TrimSpace(in.Title) == "" ||
		strings.TrimSpace(in.Content) == "" {
		return nil, Invalid("Category, title, and content are required")
	}

	post := &models.Post{
		AuthorID: author.ID,
		Category: in.Category,
		Title:    in.Title,
		Content:  in.Content,
		Status:   models.PostStatusActive,
	}
	if err := db.NewPostRepository(db.NewRepository(t.db.DB)).Create(ctx, post); err != nil {
		t.logger.Error("Failed to create post", zap.String("author_id", author.ID), zap.Error(err))
		return nil, err
	}
	return post, nil
}

// UpdatePost edits a post's fields; only the owner or a moderator may
// edit, and at least one field must be supplied.
func (t *Threads) UpdatePost(ctx context.Context, id int64, caller User, in UpdatePostInput) (*models.Post, error) {
	if in.Category == nil && in.Title == nil && in.Content == nil {
		return nil, Invalid("At least one of category, title, or content is required")
	}

	posts := db.NewPostRepository(db.NewRepository(t.db.DB))
	post, err := posts.GetByID(ctx, id)
	if err != nil {
		t.logger.Error("Failed to load post", zap.Int64("post_id", id), zap.Error(err))
		return nil, err
	}
	if post == nil || post.IsDeleted() {
		return nil, NotFound("Post not found")
	}
	if !t.gate.CanModify(caller.ID, post.AuthorID) {
		return nil, Forbidden("You may only edit your own posts")
	}

	if in.Category != nil {
		post.Category = *in.Category
	}
	if in.Title != nil {
		post.Title = *in.Title
	}
	if in.Content != nil {
		post.Content = *in.Content
	}
	if err := posts.Save(ctx, post); err != nil {
		t.logger.Error("Failed to update post", zap.Int64("post_id", id), zap.Error(err))
		return nil, err
	}
	return post, nil
}

// DeletePost soft-deletes a post; the row is retained and the post is
// returned in its deleted state. Deletion is terminal.
func (t *Threads) DeletePost(ctx context.Context, id int64, caller User) (*models.Post, error) {
	posts := db.NewPostRepository(db.NewRepository(t.db.DB))
	post, err := posts.GetByID(ctx, id)
	if err != nil {
		t.logger.Error("Failed to load post", zap.Int64("post_id", id), zap.Error(err))
		return nil, err
	}
	if post == nil || post.IsDeleted() {
		return nil, NotFound("Post not found")
	}
	if !t.gate.CanModify(caller.ID, post.AuthorID) {
		return nil, Forbidden("You may only delete your own posts")
	}

	post.Status = models.PostStatusDeleted
	post.DeletedAt = sql.NullTime{Time: time.Now().UTC(), Valid: true}
	if err := posts.Save(ctx, post); err != nil {
		t.logger.Error("Failed to delete post", zap.Int64("post_id", id), zap.Error(err))
		return nil, err
	}
	return post, nil
}

// LockPost closes a post to new comments; moderators only
func (t *Threads) LockPost(ctx context.Context, id int64, caller User) (*models.Post, error) {
	return t.setLocked(ctx, id, caller, true)
}

// UnlockPost reopens a locked post; moderators only
func (t *Threads) UnlockPost(ctx context.Context, id int64, caller User) (*models.Post, error) {
	return t.setLocked(ctx, id, caller, false)
}

func (t *Threads) setLocked(ctx context.Context, id int64, caller User, locked bool) (*models.Post, error) {
	if !t.gate.IsModerator(caller.ID) {
		return nil, Forbidden("Only moderators may lock or unlock posts")
	}

	posts := db.NewPostRepository(db.NewRepository(t.db.DB))
	post, err := posts.GetByID(ctx, id)
	if err != nil {
		t.logger.Error("Failed to load post", zap.Int64("post_id", id), zap.Error(err))
		return nil, err
	}
	if post == nil || post.IsDeleted() {
		return nil, NotFound("Post not found")
	}

	if locked {
		post.Status = models.PostStatusLocked
		post.LockedAt = sql.NullTime{Time: time.Now().UTC(), Valid: true}
	} else {
		post.Status = models.PostStatusActive
		post.LockedAt = sql.NullTime{}
	}
	if err := posts.Save(ctx, post); err != nil {
		t.logger.Error("Failed to change post lock state", zap.Int64("post_id", id), zap.Error(err))
		return nil, err
	}
	return post, nil
}

// CreateComment adds a comment to an open post and notifies the replied-to
// author. A parent comment, when given, must be a live comment on the
// same post.
func (t *Threads) CreateComment(ctx context.Context, author User, postID int64, in CreateCommentInput) (*models.Comment, error) {
	if strings.TrimSpace(in.Content) == "" {
		return nil, Invalid("Content is required")
	}

	repo := db.NewRepository(t.db.DB)
	post, err := db.NewPostRepository(repo).GetByID(ctx, postID)
	if err != nil {
		t.logger.Error("Failed to load post", zap.Int64("post_id", postID), zap.Error(err))
		return nil, err
	}
	if post == nil || post.IsDeleted() {
		return nil, NotFound("Post not found")
	}
	if post.IsLocked() {
		return nil, Forbidden("This post is locked")
	}

	comments := db.NewCommentRepository(repo)
	var parent *models.Comment
	if in.ParentID != nil {
		parent, err = comments.GetByID(ctx, *in.ParentID)
		if err != nil {
			t.logger.Error("Failed to load parent comment", zap.Int64("parent_id", *in.ParentID), zap.Error(err))
			return nil, err
		}
		if parent == nil || parent.IsDeleted() || parent.PostID != postID {
			return nil, Invalid("Parent comment must be a comment on the same post")
		}
	}

	comment := &models.Comment{
		PostID:   postID,
		AuthorID: author.ID,
		Content:  in.Content,
		Status:   models.CommentStatusActive,
	}
	if parent != nil {
		comment.ParentID = &parent.ID
	}
	if err := comments.Create(ctx, comment); err != nil {
		t.logger.Error("Failed to create comment", zap.Int64("post_id", postID), zap.Error(err))
		return nil, err
	}

	t.notifier.CommentCreated(ctx, author, comment, post, parent)

	return comment, nil
}

// DeleteComment soft-deletes a comment, replacing its content with the
// redaction marker so descendant replies keep their place in the thread.
func (t *Threads) DeleteComment(ctx context.Context, id int64, caller User) (*models.Comment, error) {
	comments := db.NewCommentRepository(db.NewRepository(t.db.DB))
	comment, err := comments.GetByID(ctx, id)
	if err != nil {
		t.logger.Error("Failed to load comment", zap.Int64("comment_id", id), zap.Error(err))
		return nil, err
	}
	if comment == nil || comment.IsDeleted() {
		return nil, NotFound("Comment not found")
	}
	if !t.gate.CanModify(caller.ID, comment.AuthorID) {
		return nil, Forbidden("You may only delete your own comments")
	}

	comment.Status = models.CommentStatusDeleted
	comment.Content = models.DeletedCommentBody
	comment.DeletedAt = sql.NullTime{Time: time.Now().UTC(), Valid: true}
	if err := comments.Save(ctx, comment); err != nil {
		t.logger.Error("Failed to delete comment", zap.Int64("comment_id", id), zap.Error(err))
		return nil, err
	}
	return comment, nil
}
