package forum

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/onestop/forum-service/internal/db"
	"github.com/onestop/forum-service/internal/models"
	"github.com/onestop/forum-service/pkg/logging"
)

// Ledger is the source of truth for votes. Exactly one vote row may exist
// per (voter, target); submitting the same value again retracts the vote,
// submitting the opposite value flips it. After every mutation the
// target's denormalized score is recomputed from the vote rows inside the
// same transaction, so the stored score can never drift.
type Ledger struct {
	db     *db.DB
	logger *zap.Logger
}

// NewLedger creates a vote ledger
func NewLedger(database *db.DB) *Ledger {
	return &Ledger{
		db:     database,
		logger: logging.WithComponent("vote-ledger"),
	}
}

// VotePost applies a user's vote to a post and returns the post with its
// recomputed score.
func (l *Ledger) VotePost(ctx context.Context, postID int64, voter User, value int16) (*models.Post, error) {
	if !models.ValidVoteValue(value) {
		return nil, Invalid("Vote value must be 1 or -1")
	}

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := db.NewRepository(tx)
		posts := db.NewPostRepository(repo)

		post, err := posts.GetByID(ctx, postID)
		if err != nil {
			return err
		}
		if post == nil || post.IsDeleted() {
			return NotFound("Post not found")
		}

		votes := db.NewPostVoteRepository(repo)
		existing, err := votes.Get(ctx, postID, voter.ID)
		if err != nil {
			return err
		}

		switch {
		case existing == nil:
			err = votes.Create(ctx, &models.PostVote{PostID: postID, VoterID: voter.ID, Value: value})
		case existing.Value == value:
			// Same value again retracts the vote
			err = votes.Delete(ctx, postID, voter.ID)
		default:
			err = votes.SetValue(ctx, postID, voter.ID, value)
		}
		if err != nil {
			return err
		}

		return posts.RecomputeScore(ctx, postID)
	})
	if err != nil {
		if KindOf(err) == KindUnexpected {
			l.logger.Error("Post vote failed",
				zap.Int64("post_id", postID),
				zap.String("voter_id", voter.ID),
				zap.Error(err))
		}
		return nil, err
	}

	post, err := db.NewPostRepository(db.NewRepository(l.db.DB)).GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, NotFound("Post not found")
	}
	return post, nil
}

// VoteComment applies a user's vote to a comment and returns the comment
// with its recomputed score.
func (l *Ledger) VoteComment(ctx context.Context, commentID int64, voter User, value int16) (*models.Comment, error) {
	if !models.ValidVoteValue(value) {
		return nil, Invalid("Vote value must be 1 or -1")
	}

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := db.NewRepository(tx)
		comments := db.NewCommentRepository(repo)

		comment, err := comments.GetByID(ctx, commentID)
		if err != nil {
			return err
		}
		if comment == nil || comment.IsDeleted() {
			return NotFound("Comment not found")
		}

		votes := db.NewCommentVoteRepository(repo)
		existing, err := votes.Get(ctx, commentID, voter.ID)
		if err != nil {
			return err
		}

		switch {
		case existing == nil:
			err = votes.Create(ctx, &models.CommentVote{CommentID: commentID, VoterID: voter.ID, Value: value})
		case existing.Value == value:
			err = votes.Delete(ctx, commentID, voter.ID)
		default:
			err = votes.SetValue(ctx, commentID, voter.ID, value)
		}
		if err != nil {
			return err
		}

		return comments.RecomputeScore(ctx, commentID)
	})
	if err != nil {
		if KindOf(err) == KindUnexpected {
			l.logger.Error("Comment vote failed",
				zap.Int64("comment_id", commentID),
				zap.String("voter_id", voter.ID),
				zap.Error(err))
		}
		return nil, err
	}

	comment, err := db.NewCommentRepository(db.NewRepository(l.db.DB)).GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, NotFound("Comment not found")
	}
	return comment, nil
}
