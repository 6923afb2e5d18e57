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

// UserRepository implements ports.UserRepository on the users collection.
type UserRepository struct {
	col *mongo.Collection
	now func() time.Time
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		col: db.Collection(usersCollection),
		now: func() time.Time { return time.Now().UTC() },
	}
}

// userDocument is the stored shape of a user. deleted_at is always written,
// as null while the account is active, so the partial unique index on email
// only covers active accounts.
type userDocument struct {
	ID              string     `bson:"_id"`
	FirstName       string     `bson:"first_name"`
	LastName        string     `bson:"last_name"`
	PhoneNo         string     `bson:"phone_no"`
	Address         string     `bson:"address,omitempty"`
	Email           string     `bson:"email"`
	PasswordHash    string     `bson:"password"`
	Role            string     `bson:"role"`
	Status          string     `bson:"status"`
	Confirmed       bool       `bson:"confirmed"`
	Credit          int64      `bson:"credit"`
	EmailVerifiedAt *time.Time `bson:"email_verified_at"`
	CreatedAt       time.Time  `bson:"created_at"`
	UpdatedAt       time.Time  `bson:"updated_at"`
	DeletedAt       *time.Time `bson:"deleted_at"`
}

func toUserDocument(u *domain.User) userDocument {
	return userDocument{
		ID:              u.ID,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		PhoneNo:         u.PhoneNo,
		Address:         u.Address,
		Email:           u.Email,
		PasswordHash:    u.PasswordHash,
		Role:            string(u.Role),
		Status:          u.Status,
		Confirmed:       u.Confirmed,
		Credit:          u.Credit,
		EmailVerifiedAt: u.EmailVerifiedAt,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
		DeletedAt:       u.DeletedAt,
	}
}

func (d userDocument) toDomain() *domain.User {
	return &domain.User{
		ID:              d.ID,
		FirstName:       d.FirstName,
		LastName:        d.LastName,
		PhoneNo:         d.PhoneNo,
		Address:         d.Address,
		Email:           d.Email,
		PasswordHash:    d.PasswordHash,
		Role:            domain.Role(d.Role),
		Status:          d.Status,
		Confirmed:       d.Confirmed,
		Credit:          d.Credit,
		EmailVerifiedAt: d.EmailVerifiedAt,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
		DeletedAt:       d.DeletedAt,
	}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toUserDocument(user)
	doc.DeletedAt = nil
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// FindByUsername resolves the login identifier. Accounts have no separate
// username, so it is the email.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.FindByEmail(ctx, username)
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDocument
	if err := r.col.FindOne(ctx, active(filter)).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

// Update applies patch and re-reads the user. Two updates racing on the same
// user resolve as last write wins.
func (r *UserRepository) Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	set := userPatchSet(patch)
	set["updated_at"] = r.now()

	updateCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	res, err := r.col.UpdateOne(updateCtx, active(bson.M{"_id": id}), bson.M{"$set": set})
	cancel()
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrUserNotFound
	}
	return r.FindByID(ctx, id)
}

func userPatchSet(p domain.UserPatch) bson.M {
	set := bson.M{}
	if p.FirstName != nil {
		set["first_name"] = *p.FirstName
	}
	if p.LastName != nil {
		set["last_name"] = *p.LastName
	}
	if p.PhoneNo != nil {
		set["phone_no"] = *p.PhoneNo
	}
	if p.Address != nil {
		set["address"] = *p.Address
	}
	if p.Email != nil {
		set["email"] = *p.Email
	}
	if p.PasswordHash != nil {
		set["password"] = *p.PasswordHash
	}
	if p.Role != nil {
		set["role"] = string(*p.Role)
	}
	if p.Status != nil {
		set["status"] = *p.Status
	}
	if p.Confirmed != nil {
		set["confirmed"] = *p.Confirmed
	}
	if p.Credit != nil {
		set["credit"] = *p.Credit
	}
	if p.EmailVerifiedAt != nil {
		set["email_verified_at"] = p.EmailVerifiedAt.UTC()
	}
	return set
}

func (r *UserRepository) SoftDelete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := r.now()
	res, err := r.col.UpdateOne(ctx, active(bson.M{"_id": id}),
		bson.M{"$set": bson.M{"deleted_at": now, "updated_at": now}})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) FindAll(ctx context.Context) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, active(bson.M{}), newestFirst())
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	var docs []userDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	users := make([]*domain.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, d.toDomain())
	}
	return users, nil
}

// EnsureIndexes creates a unique email index limited to active accounts, so a
// deleted account does not block re-registration.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "email", Value: 1}},
			Options: options.Index().
				SetName("uniq_active_email").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"deleted_at": bson.M{"$type": "null"}}),
		},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
