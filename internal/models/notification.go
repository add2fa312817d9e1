package models

import "time"

// Notification types
const (
	NotifyTypeReply = "reply"
)

// Notification entity types
const (
	NotifyEntityPost    = "post"
	NotifyEntityComment = "comment"
)

// Notification records that an actor replied to an entity owned by the
// recipient. Never created when actor == recipient.
type Notification struct {
	ID          int64      `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	RecipientID string     `gorm:"type:varchar(64);not null;index;column:recipient_id" json:"recipient_id"`
	ActorID     string     `gorm:"type:varchar(64);not null;column:actor_id" json:"actor_id"`
	Type        string     `gorm:"type:varchar(16);not null;column:type" json:"type"`
	EntityType  string     `gorm:"type:varchar(16);not null;column:entity_type" json:"entity_type"`
	EntityID    int64      `gorm:"not null;column:entity_id" json:"entity_id"`
	Message     string     `gorm:"type:varchar(255);not null;column:message" json:"message"`
	ReadAt      *time.Time `gorm:"column:read_at" json:"read_at"`
	CreatedAt   time.Time  `gorm:"not null;column:created_at" json:"created_at"`
}

// TableName specifies the table name for Notification
func (Notification) TableName() string {
	return "forum_notifications"
}

// IsRead reports whether the notification has been marked read
func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}
