package forum

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/onestop/forum-service/internal/cache"
	"github.com/onestop/forum-service/internal/db"
	"github.com/onestop/forum-service/internal/models"
	"github.com/onestop/forum-service/pkg/config"
	"github.com/onestop/forum-service/pkg/logging"
)

// Notifier produces reply notifications as a best-effort side effect of
// comment creation and serves the notification read path.
type Notifier struct {
	db        *db.DB
	cache     *cache.Cache
	unreadTTL time.Duration
	pageSize  int
	pageMax   int
	logger    *zap.Logger
}

// NewNotifier creates a notifier
func NewNotifier(database *db.DB, c *cache.Cache, cfg *config.ForumConfig) *Notifier {
	return &Notifier{
		db:        database,
		cache:     c,
		unreadTTL: cfg.UnreadCacheTTL,
		pageSize:  cfg.DefaultPageSize,
		pageMax:   cfg.MaxPageSize,
		logger:    logging.WithComponent("notifier"),
	}
}

// CommentCreated emits at most one notification for a freshly created
// comment: to the parent comment's author for replies, otherwise to the
// post's author. Self-notifications are suppressed. Failures are logged
// and swallowed so comment creation never fails on the notification path.
func (n *Notifier) CommentCreated(ctx context.Context, actor User, comment *models.Comment, post *models.Post, parent *models.Comment) {
	var notif *models.Notification

	if parent != nil {
		if parent.AuthorID == actor.ID {
			return
		}
		notif = &models.Notification{
			RecipientID: parent.AuthorID,
			ActorID:     actor.ID,
			Type:        models.NotifyTypeReply,
			EntityType:  models.NotifyEntityComment,
			EntityID:    comment.ID,
			Message:     fmt.Sprintf("%s replied to your comment", actor.DisplayName()),
			CreatedAt:   comment.CreatedAt,
		}
	} else {
		if post.AuthorID == actor.ID {
			return
		}
		notif = &models.Notification{
			RecipientID: post.AuthorID,
			ActorID:     actor.ID,
			Type:        models.NotifyTypeReply,
			EntityType:  models.NotifyEntityPost,
			EntityID:    post.ID,
			Message:     fmt.Sprintf("%s replied to your post", actor.DisplayName()),
			CreatedAt:   comment.CreatedAt,
		}
	}

	notifRepo := db.NewNotificationRepository(db.NewRepository(n.db.DB))
	if err := notifRepo.Create(ctx, notif); err != nil {
		n.logger.Error("Failed to create reply notification",
			zap.String("actor_id", actor.ID),
			zap.String("recipient_id", notif.RecipientID),
			zap.Int64("comment_id", comment.ID),
			zap.Error(err))
		return
	}

	n.invalidateUnread(ctx, notif.RecipientID)
}

// List returns a user's notifications, newest first
func (n *Notifier) List(ctx context.Context, userID string, page, limit int) ([]*models.Notification, int64, Page, error) {
	p := NewPage(page, limit, n.pageSize, n.pageMax)

	notifRepo := db.NewNotificationRepository(db.NewRepository(n.db.DB))
	notifs, total, err := notifRepo.ListByRecipient(ctx, userID, p.Offset(), p.Limit)
	if err != nil {
		n.logger.Error("Failed to list notifications", zap.String("user_id", userID), zap.Error(err))
		return nil, 0, p, err
	}
	return notifs, total, p, nil
}

// MarkRead sets read_at on the user's own notification. Marking an
// already-read notification is a no-op. A notification owned by another
// user is reported as missing, not forbidden, to avoid leaking existence.
func (n *Notifier) MarkRead(ctx context.Context, id int64, userID string) (*models.Notification, error) {
	notifRepo := db.NewNotificationRepository(db.NewRepository(n.db.DB))

	notif, err := notifRepo.GetByID(ctx, id)
	if err != nil {
		n.logger.Error("Failed to load notification", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	if notif == nil || notif.RecipientID != userID {
		return nil, NotFound("Notification not found")
	}
	if notif.IsRead() {
		return notif, nil
	}

	now := time.Now().UTC()
	notif.ReadAt = &now
	if err := notifRepo.Save(ctx, notif); err != nil {
		n.logger.Error("Failed to mark notification read", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	n.invalidateUnread(ctx, userID)
	return notif, nil
}

// UnreadCount returns the number of unread notifications for a user,
// cached in Redis for a short interval.
func (n *Notifier) UnreadCount(ctx context.Context, userID string) (int64, error) {
	key := unreadKey(userID)

	var cached int64
	if err := n.cache.GetJSON(ctx, key, &cached); err == nil {
		return cached, nil
	}

	notifRepo := db.NewNotificationRepository(db.NewRepository(n.db.DB))
	count, err := notifRepo.CountUnread(ctx, userID)
	if err != nil {
		n.logger.Error("Failed to count unread notifications", zap.String("user_id", userID), zap.Error(err))
		return 0, err
	}

	if err := n.cache.SetJSON(ctx, key, count, n.unreadTTL); err != nil && err != cache.ErrCacheDisabled {
		n.logger.Warn("Failed to cache unread count", zap.String("user_id", userID), zap.Error(err))
	}
	return count, nil
}

func (n *Notifier) invalidateUnread(ctx context.Context, userID string) {
	if err := n.cache.Delete(ctx, unreadKey(userID)); err != nil && err != cache.ErrCacheDisabled {
		n.logger.Warn("Failed to invalidate unread count", zap.String("user_id", userID), zap.Error(err))
	}
}

func unreadKey(userID string) string {
	return "unread:" + cache.HashKey(userID)
}
