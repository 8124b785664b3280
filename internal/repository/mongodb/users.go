package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fabstash/backend/internal/domain/models"
)

// UserStore is the persistence contract of the auth service.
type UserStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
	UpsertByOpenID(ctx context.Context, openID, sessionKey string) (models.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, nickname, avatarURL string) (models.User, error)
}

// UserRepository persists users.
type UserRepository struct {
	coll *mongo.Collection
}

// NewUserRepository builds the user collection adapter.
func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{coll: store.db.Collection(collUsers)}
}

// FindByID loads a user by id.
func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var user models.User
	err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// UpsertByOpenID finds a user by openid and refreshes their login state,
// creating the user on first login.
func (r *UserRepository) UpsertByOpenID(ctx context.Context, openID, sessionKey string) (models.User, error) {
	now := time.Now()
	update := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "sessionKey", Value: sessionKey},
			{Key: "lastLoginTime", Value: now},
			{Key: "isActive", Value: true},
		}},
		{Key: "$setOnInsert", Value: bson.D{
			{Key: "openid", Value: openID},
			{Key: "createdAt", Value: now},
			{Key: "isMember", Value: false},
		}},
	}

	var user models.User
	err := r.coll.FindOneAndUpdate(ctx,
		bson.D{{Key: "openid", Value: openID}},
		update,
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		return models.User{}, fmt.Errorf("upsert user: %w", err)
	}
	return user, nil
}

// UpdateProfile sets the user's display fields.
func (r *UserRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, nickname, avatarURL string) (models.User, error) {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "nickname", Value: nickname},
		{Key: "avatarUrl", Value: avatarURL},
		{Key: "lastLoginTime", Value: time.Now()},
	}}}

	var user models.User
	err := r.coll.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: id}},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("update user profile: %w", err)
	}
	return user, nil
}
