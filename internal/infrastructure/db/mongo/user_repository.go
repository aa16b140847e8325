package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mindforge/mindforge-api/internal/core/domain"
	"github.com/mindforge/mindforge-api/internal/core/ports"
)

const collectionUsers = "users"

// UserRepository implements ports.UserRepository using MongoDB.
type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

type mongoUser struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty"`
	Username            string             `bson:"username"`
	PasswordHash        string             `bson:"password_hash"`
	Email               string             `bson:"email,omitempty"`
	FirstName           string             `bson:"first_name,omitempty"`
	LastName            string             `bson:"last_name,omitempty"`
	AvatarURL           string             `bson:"avatar_url,omitempty"`
	Role                string             `bson:"role"`
	AccountLocked       bool               `bson:"account_locked"`
	FailedLoginAttempts int                `bson:"failed_login_attempts"`
	LastLoginAttempt    *time.Time         `bson:"last_login_attempt,omitempty"`
	CreatedAt           time.Time          `bson:"created_at"`
	UpdatedAt           time.Time          `bson:"updated_at"`
}

func (mu *mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:                  mu.ID.Hex(),
		Username:            mu.Username,
		PasswordHash:        mu.PasswordHash,
		Email:               mu.Email,
		FirstName:           mu.FirstName,
		LastName:            mu.LastName,
		AvatarURL:           mu.AvatarURL,
		Role:                mu.Role,
		AccountLocked:       mu.AccountLocked,
		FailedLoginAttempts: mu.FailedLoginAttempts,
		LastLoginAttempt:    mu.LastLoginAttempt,
		CreatedAt:           mu.CreatedAt,
		UpdatedAt:           mu.UpdatedAt,
	}
}

// Create inserts a new user. A duplicate username violates the unique index
// and surfaces as domain.ErrUserExists.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now().UTC()
	doc := mongoUser{
		Username:            user.Username,
		PasswordHash:        user.PasswordHash,
		Email:               user.Email,
		FirstName:           user.FirstName,
		LastName:            user.LastName,
		AvatarURL:           user.AvatarURL,
		Role:                user.Role,
		AccountLocked:       user.AccountLocked,
		FailedLoginAttempts: user.FailedLoginAttempts,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.findOne(ctx, bson.M{"username": username})
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var mu mongoUser
	if err := r.col.FindOne(ctx, filter).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

// List returns users matching the filter, ordered by username.
func (r *UserRepository) List(ctx context.Context, filter ports.UserFilter) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.Search != "" {
		query["username"] = primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
	}
	if filter.Role != "" {
		query["role"] = filter.Role
	}

	cur, err := r.col.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "username", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cur.Close(ctx)

	users := make([]*domain.User, 0)
	for cur.Next(ctx) {
		var mu mongoUser
		if err := cur.Decode(&mu); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		users = append(users, mu.toDomain())
	}
	return users, cur.Err()
}

// UpdateProfile applies the non-nil fields and returns the updated document.
func (r *UserRepository) UpdateProfile(ctx context.Context, username string, update ports.ProfileUpdate) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{"updated_at": time.Now().UTC()}
	if update.Email != nil {
		set["email"] = *update.Email
	}
	if update.FirstName != nil {
		set["first_name"] = *update.FirstName
	}
	if update.LastName != nil {
		set["last_name"] = *update.LastName
	}
	if update.AvatarURL != nil {
		set["avatar_url"] = *update.AvatarURL
	}
	if update.PasswordHash != nil {
		set["password_hash"] = *update.PasswordHash
	}

	return r.findOneAndUpdate(ctx, bson.M{"username": username}, bson.M{"$set": set})
}

// RecordFailedLogin increments the failed-attempt counter and flips the lock
// flag once the counter reaches threshold. The whole transition runs as one
// FindOneAndUpdate with an aggregation pipeline, so concurrent failures on
// the same account cannot lose increments or skip the lock.
func (r *UserRepository) RecordFailedLogin(ctx context.Context, username string, threshold int) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	bumped := bson.M{"$add": bson.A{bson.M{"$ifNull": bson.A{"$failed_login_attempts", 0}}, 1}}
	pipeline := bson.A{
		bson.M{"$set": bson.M{
			"failed_login_attempts": bumped,
			"account_locked": bson.M{"$or": bson.A{
				"$account_locked",
				bson.M{"$gte": bson.A{bumped, threshold}},
			}},
			"last_login_attempt": "$$NOW",
			"updated_at":         "$$NOW",
		}},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var mu mongoUser
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"username": username}, pipeline, opts).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("record failed login: %w", err)
	}
	return mu.toDomain(), nil
}

// ResetFailedLogins zeroes the failed-attempt counter after a successful login.
func (r *UserRepository) ResetFailedLogins(ctx context.Context, username string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now().UTC()
	res, err := r.col.UpdateOne(ctx, bson.M{"username": username}, bson.M{"$set": bson.M{
		"failed_login_attempts": 0,
		"last_login_attempt":    now,
		"updated_at":            now,
	}})
	if err != nil {
		return fmt.Errorf("reset failed logins: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// SetLocked sets the lock flag. Unlocking also clears the failed-attempt
// counter so the account starts from a clean slate.
func (r *UserRepository) SetLocked(ctx context.Context, id string, locked bool) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	set := bson.M{
		"account_locked": locked,
		"updated_at":     time.Now().UTC(),
	}
	if !locked {
		set["failed_login_attempts"] = 0
	}
	return r.findOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
}

func (r *UserRepository) SetRole(ctx context.Context, id, role string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"role":       role,
		"updated_at": time.Now().UTC(),
	}})
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}
	return r.deleteOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) DeleteByUsername(ctx context.Context, username string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.deleteOne(ctx, bson.M{"username": username})
}

func (r *UserRepository) deleteOne(ctx context.Context, filter bson.M) error {
	res, err := r.col.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*domain.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var mu mongoUser
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return mu.toDomain(), nil
}

// EnsureIndexes creates the unique username index. Uniqueness at the store
// level is what makes duplicate registration detection race-free.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
