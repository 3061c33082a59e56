package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bharatparcel/config"
	"bharatparcel/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoUserRepo struct {
	mongoBase
	collection *mongo.Collection
}

func NewMongoUserRepo(client *mongo.Client, cfg *config.Config) *MongoUserRepo {
	base := newMongoBase(client, cfg)
	return &MongoUserRepo{mongoBase: base, collection: base.db.Collection(usersCollection)}
}

func (r *MongoUserRepo) CreateUser(ctx context.Context, user *models.AppUser) error {
	ctx, cancel := r.write(ctx)
	defer cancel()

	if user.ID == "" {
		user.ID = newHexID()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	if _, err := r.collection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: user %s", ErrDuplicate, user.Email)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *MongoUserRepo) GetUserByEmail(ctx context.Context, email string) (*models.AppUser, error) {
	ctx, cancel := r.read(ctx)
	defer cancel()

	user := &models.AppUser{}
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, email)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}
