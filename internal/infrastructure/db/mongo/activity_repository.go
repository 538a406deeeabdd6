package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/socialconnect/social-api/internal/core/domain"
	"github.com/socialconnect/social-api/internal/core/ports"
)

const activityCollection = "activity_events"

type activityDocument struct {
	ID         string    `bson:"_id"`
	Kind       string    `bson:"kind"`
	UserID     int64     `bson:"user_id"`
	PostID     int64     `bson:"post_id,omitempty"`
	CommentID  int64     `bson:"comment_id,omitempty"`
	OccurredAt time.Time `bson:"occurred_at"`
	RecordedAt time.Time `bson:"recorded_at"`
}

// ActivityRepository implements ports.ActivityRepository using MongoDB.
type ActivityRepository struct {
	col *mongo.Collection
}

func NewActivityRepository(db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{col: db.Collection(activityCollection)}
}

var _ ports.ActivityRepository = (*ActivityRepository)(nil)

// Insert stores a record. Replaying an already stored id is not an error, so
// a retried delivery does not duplicate the trail.
func (r *ActivityRepository) Insert(ctx context.Context, a *domain.Activity) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := activityDocument{
		ID:         a.ID,
		Kind:       string(a.Kind),
		UserID:     a.UserID,
		PostID:     a.PostID,
		CommentID:  a.CommentID,
		OccurredAt: a.OccurredAt.UTC(),
		RecordedAt: time.Now().UTC(),
	}

	_, err := r.col.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

// ListByUser returns the newest records for userID.
func (r *ActivityRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*domain.Activity, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "occurred_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find activity: %w", err)
	}
	defer cur.Close(ctx)

	var docs []activityDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode activity: %w", err)
	}

	out := make([]*domain.Activity, 0, len(docs))
	for _, d := range docs {
		out = append(out, &domain.Activity{
			ID:         d.ID,
			Kind:       domain.ActivityKind(d.Kind),
			UserID:     d.UserID,
			PostID:     d.PostID,
			CommentID:  d.CommentID,
			OccurredAt: d.OccurredAt.UTC(),
		})
	}
	return out, nil
}

// EnsureIndexes creates the index backing ListByUser.
func (r *ActivityRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "occurred_at", Value: -1}},
	})
	return err
}
