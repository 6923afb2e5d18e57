package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/famcare/caregiving-api/internal/core/domain"
)

// MessageRepository implements ports.MessageRepository on the family_members
// collection.
type MessageRepository struct {
	col *mongo.Collection
	now func() time.Time
}

func NewMessageRepository(db *mongo.Database) *MessageRepository {
	return &MessageRepository{
		col: db.Collection(messagesCollection),
		now: func() time.Time { return time.Now().UTC() },
	}
}

type messageDocument struct {
	ID         string     `bson:"_id"`
	Helper     string     `bson:"helper"`
	User       string     `bson:"user"`
	Patient    string     `bson:"patient,omitempty"`
	Email      string     `bson:"email,omitempty"`
	Body       string     `bson:"body,omitempty"`
	Status     string     `bson:"status"`
	Suspicious bool       `bson:"suspicious"`
	CreatedAt  time.Time  `bson:"created_at"`
	UpdatedAt  time.Time  `bson:"updated_at"`
	DeletedAt  *time.Time `bson:"deleted_at"`
}

func toMessageDocument(m *domain.Message) messageDocument {
	return messageDocument{
		ID:         m.ID,
		Helper:     m.Helper,
		User:       m.User,
		Patient:    m.Patient,
		Email:      m.Email,
		Body:       m.Body,
		Status:     m.Status,
		Suspicious: m.Suspicious,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
		DeletedAt:  m.DeletedAt,
	}
}

func (d messageDocument) toDomain() *domain.Message {
	return &domain.Message{
		ID:         d.ID,
		Helper:     d.Helper,
		User:       d.User,
		Patient:    d.Patient,
		Email:      d.Email,
		Body:       d.Body,
		Status:     d.Status,
		Suspicious: d.Suspicious,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
		DeletedAt:  d.DeletedAt,
	}
}

func (r *MessageRepository) Create(ctx context.Context, m *domain.Message) (*domain.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toMessageDocument(m)
	doc.DeletedAt = nil
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *MessageRepository) FindAll(ctx context.Context) ([]*domain.Message, error) {
	return r.find(ctx, bson.M{})
}

func (r *MessageRepository) FindByUserID(ctx context.Context, userID string) ([]*domain.Message, error) {
	return r.find(ctx, bson.M{"user": userID})
}

func (r *MessageRepository) find(ctx context.Context, filter bson.M) ([]*domain.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, active(filter), newestFirst())
	if err != nil {
		return nil, fmt.Errorf("find messages: %w", err)
	}
	var docs []messageDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}

	out := make([]*domain.Message, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *MessageRepository) FindByID(ctx context.Context, id string) (*domain.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc messageDocument
	if err := r.col.FindOne(ctx, active(bson.M{"_id": id})).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrMessageNotFound
		}
		return nil, fmt.Errorf("find message: %w", err)
	}
	return doc.toDomain(), nil
}

// Update sets the mutable fields. The owner is never part of the update.
func (r *MessageRepository) Update(ctx context.Context, id string, patch domain.MessagePatch) (*domain.Message, error) {
	set := bson.M{"updated_at": r.now()}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	if patch.Helper != nil {
		set["helper"] = *patch.Helper
	}

	updateCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	res, err := r.col.UpdateOne(updateCtx, active(bson.M{"_id": id}), bson.M{"$set": set})
	cancel()
	if err != nil {
		return nil, fmt.Errorf("update message: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrMessageNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *MessageRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := r.now()
	res, err := r.col.UpdateOne(ctx, active(bson.M{"_id": id}),
		bson.M{"$set": bson.M{"deleted_at": now, "updated_at": now}})
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrMessageNotFound
	}
	return nil
}

func (r *MessageRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, active(bson.M{"user": userID}))
	if err != nil {
		return 0, fmt.Errorf("count messages: %w", err)
	}
	return n, nil
}

func (r *MessageRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}, Options: options.Index().SetName("created_at_desc")},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
