package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/camlink/camera-registry/internal/core/domain"
)

const (
	usersCollection    = "users"
	countersCollection = "counters"
	usernameIndex      = "username_1"
	emailIndex         = "email_1"
	queryTimeout       = 5 * time.Second
)

type MongoUserRepository struct {
	users    *mongo.Collection
	counters *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{
		users:    db.Collection(usersCollection),
		counters: db.Collection(countersCollection),
	}
}

type mongoUser struct {
	ID                int64      `bson:"_id"`
	Username          string     `bson:"username"`
	Email             string     `bson:"email"`
	PasswordHash      string     `bson:"password_hash"`
	Role              string     `bson:"role"`
	SessionActive     bool       `bson:"session_active"`
	CameraActive      bool       `bson:"camera_active"`
	CameraIP          *string    `bson:"camera_ip"`
	CameraPort        *string    `bson:"camera_port"`
	PublicURL         *string    `bson:"public_url"`
	CameraActivatedAt *time.Time `bson:"camera_activated_at"`
	CreatedAt         time.Time  `bson:"created_at"`
	UpdatedAt         time.Time  `bson:"updated_at"`
}

func (r *MongoUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	id, err := r.nextID(ctx)
	if err != nil {
		return nil, err
	}

	doc := toDocument(user)
	doc.ID = id
	if _, err := r.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, duplicateKey(err)
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := *user
	created.ID = id
	return &created, nil
}

// nextID allocates a sequential integer id from the counters collection.
func (r *MongoUserRepository) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": usersCollection},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("allocate user id: %w", err)
	}
	return counter.Seq, nil
}

func duplicateKey(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, usernameIndex):
		return domain.ErrUsernameTaken
	case strings.Contains(msg, emailIndex):
		return domain.ErrEmailTaken
	default:
		return domain.ErrConflict
	}
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoUserRepository) FindActiveServer(ctx context.Context) (*domain.User, error) {
	filter := bson.M{
		"role":           string(domain.RoleServer),
		"session_active": true,
		"camera_active":  true,
		"camera_ip":      bson.M{"$ne": nil},
		"camera_port":    bson.M{"$ne": nil},
	}
	opts := options.FindOne().SetSort(bson.D{
		{Key: "camera_activated_at", Value: -1},
		{Key: "_id", Value: 1},
	})
	return r.findOne(ctx, filter, opts)
}

func (r *MongoUserRepository) Save(ctx context.Context, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.users.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": bson.M{
		"session_active":      user.SessionActive,
		"camera_active":       user.CameraActive,
		"camera_ip":           user.CameraIP,
		"camera_port":         user.CameraPort,
		"public_url":          user.PublicURL,
		"camera_activated_at": user.CameraActivatedAt,
		"updated_at":          user.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var mu mongoUser
	if err := r.users.FindOne(ctx, filter, opts...).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return toDomain(&mu), nil
}

func toDocument(u *domain.User) mongoUser {
	return mongoUser{
		ID:                u.ID,
		Username:          u.Username,
		Email:             u.Email,
		PasswordHash:      u.PasswordHash,
		Role:              string(u.Role),
		SessionActive:     u.SessionActive,
		CameraActive:      u.CameraActive,
		CameraIP:          u.CameraIP,
		CameraPort:        u.CameraPort,
		PublicURL:         u.PublicURL,
		CameraActivatedAt: u.CameraActivatedAt,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
}

func toDomain(mu *mongoUser) *domain.User {
	return &domain.User{
		ID:                mu.ID,
		Username:          mu.Username,
		Email:             mu.Email,
		PasswordHash:      mu.PasswordHash,
		Role:              domain.Role(mu.Role),
		SessionActive:     mu.SessionActive,
		CameraActive:      mu.CameraActive,
		CameraIP:          mu.CameraIP,
		CameraPort:        mu.CameraPort,
		PublicURL:         mu.PublicURL,
		CameraActivatedAt: mu.CameraActivatedAt,
		CreatedAt:         mu.CreatedAt.UTC(),
		UpdatedAt:         mu.UpdatedAt.UTC(),
	}
}
