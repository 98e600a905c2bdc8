package repositories

import (
	"context"
	"errors"
	"time"

	"spsc-alumni/internal/adapters/persistence/models"
	"spsc-alumni/internal/core/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const notificationCollection = "notifications"

// MongoNotificationRepository stores the notification inbox in MongoDB.
// Expired documents are expunged by a TTL index on expires_at.
type MongoNotificationRepository struct {
	coll *mongo.Collection
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *mongo.Database) *MongoNotificationRepository {
	return &MongoNotificationRepository{coll: db.Collection(notificationCollection)}
}

// EnsureIndexes creates the TTL and lookup indexes. Safe to call on startup.
func (r *MongoNotificationRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
		},
	})
	return err
}

// Create inserts a new notification
func (r *MongoNotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	if n.ReadBy == nil {
		n.ReadBy = []models.ReadReceipt{}
	}
	res, err := r.coll.InsertOne(ctx, n)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		n.ID = oid
	}
	return nil
}

// GetByID fetches a notification by its hex id
func (r *MongoNotificationRepository) GetByID(ctx context.Context, id string) (*models.Notification, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotificationNotFound
	}

	var n models.Notification
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&n)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotificationNotFound
		}
		return nil, err
	}
	return &n, nil
}

// inboxFilter matches a user's own notifications plus broadcasts, unexpired
func inboxFilter(userID uint, now time.Time) bson.M {
	return bson.M{
		"$and": bson.A{
			bson.M{"$or": bson.A{
				bson.M{"user_id": userID},
				bson.M{"user_id": bson.M{"$exists": false}},
				bson.M{"user_id": nil},
			}},
			bson.M{"$or": bson.A{
				bson.M{"expires_at": bson.M{"$exists": false}},
				bson.M{"expires_at": nil},
				bson.M{"expires_at": bson.M{"$gt": now}},
			}},
		},
	}
}

// ListForUser lists a user's inbox (own + broadcast), newest first
func (r *MongoNotificationRepository) ListForUser(ctx context.Context, userID uint, offset, limit int) ([]*models.Notification, int64, error) {
	filter := inboxFilter(userID, time.Now())

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var items []*models.Notification
	if err := cursor.All(ctx, &items); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ListUnreadForUser lists inbox entries the user has no read receipt on
func (r *MongoNotificationRepository) ListUnreadForUser(ctx context.Context, userID uint) ([]*models.Notification, error) {
	filter := inboxFilter(userID, time.Now())
	filter["read_by.user_id"] = bson.M{"$ne": userID}

	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []*models.Notification
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// AppendReadReceipt pushes a read receipt and flags the document read
func (r *MongoNotificationRepository) AppendReadReceipt(ctx context.Context, id string, receipt models.ReadReceipt) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrNotificationNotFound
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{
			"$push": bson.M{"read_by": receipt},
			"$set":  bson.M{"is_read": true},
		})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotificationNotFound
	}
	return nil
}

// Delete removes a notification
func (r *MongoNotificationRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrNotificationNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotificationNotFound
	}
	return nil
}

// DeleteExpired removes notifications whose expiry passed before the cutoff.
// The TTL index normally does this; the sweep covers restores from backups
// taken without index metadata.
func (r *MongoNotificationRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lte": before}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
