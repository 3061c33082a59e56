package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"bharatparcel/config"
	"bharatparcel/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoCustomerRepo struct {
	mongoBase
	collection *mongo.Collection
}

func NewMongoCustomerRepo(client *mongo.Client, cfg *config.Config) *MongoCustomerRepo {
	base := newMongoBase(client, cfg)
	return &MongoCustomerRepo{mongoBase: base, collection: base.db.Collection(customersCollection)}
}

func (r *MongoCustomerRepo) Create(ctx context.Context, c *models.Customer) error {
	ctx, cancel := r.write(ctx)
	defer cancel()

	if c.ID == "" {
		c.ID = newHexID()
	}
	c.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	if _, err := r.collection.InsertOne(ctx, c); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: customer %s", ErrDuplicate, c.EmailID)
		}
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

func (r *MongoCustomerRepo) FindAll(ctx context.Context) ([]models.Customer, error) {
	ctx, cancel := r.read(ctx)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer cursor.Close(ctx)

	out := []models.Customer{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode customers: %w", err)
	}
	return out, nil
}

func (r *MongoCustomerRepo) findOne(ctx context.Context, filter any, what string) (*models.Customer, error) {
	ctx, cancel := r.read(ctx)
	defer cancel()

	var c models.Customer
	if err := r.collection.FindOne(ctx, filter).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: customer %s", ErrNotFound, what)
		}
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}
	return &c, nil
}

func (r *MongoCustomerRepo) FindByID(ctx context.Context, id string) (*models.Customer, error) {
	return r.findOne(ctx, bson.M{"_id": id}, id)
}

func (r *MongoCustomerRepo) FindByEmail(ctx context.Context, email string) (*models.Customer, error) {
	return r.findOne(ctx, bson.M{"emailId": email}, email)
}

func (r *MongoCustomerRepo) FindByName(ctx context.Context, firstName, lastName string) (*models.Customer, error) {
	return r.findOne(ctx, bson.M{"firstName": firstName, "lastName": lastName}, firstName+" "+lastName)
}

func (r *MongoCustomerRepo) SearchByName(ctx context.Context, term string) (*models.Customer, error) {
	filter := bson.M{"$expr": bson.M{"$regexMatch": bson.M{
		"input":   fullNameExpr(""),
		"regex":   regexp.QuoteMeta(strings.TrimSpace(term)),
		"options": "i",
	}}}
	return r.findOne(ctx, filter, term)
}
