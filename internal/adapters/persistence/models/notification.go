package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification is a fan-out side record stored in MongoDB. A nil UserID
// means broadcast: the notification shows in every operator's inbox.
type Notification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title     string             `bson:"title" json:"title"`
	Message   string             `bson:"message" json:"message"`
	Type      string             `bson:"type" json:"type"`
	RelatedID *uint              `bson:"related_id,omitempty" json:"related_id,omitempty"`
	UserID    *uint              `bson:"user_id,omitempty" json:"user_id,omitempty"`
	IsRead    bool               `bson:"is_read" json:"is_read"`
	ReadBy    []ReadReceipt      `bson:"read_by" json:"read_by"`
	Priority  string             `bson:"priority" json:"priority"`
	ExpiresAt *time.Time         `bson:"expires_at,omitempty" json:"expires_at,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// ReadReceipt marks that one user has seen a notification
type ReadReceipt struct {
	UserID uint      `bson:"user_id" json:"user_id"`
	ReadAt time.Time `bson:"read_at" json:"read_at"`
}

// ReadByUser reports whether the given user already has a read receipt
func (n *Notification) ReadByUser(userID uint) bool {
	for _, r := range n.ReadBy {
		if r.UserID == userID {
			return true
		}
	}
	return false
}

// IsExpired reports whether the notification has passed its expiry
func (n *Notification) IsExpired(now time.Time) bool {
	return n.ExpiresAt != nil && now.After(*n.ExpiresAt)
}
