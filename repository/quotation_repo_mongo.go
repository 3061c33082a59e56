package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bharatparcel/config"
	"bharatparcel/filters"
	"bharatparcel/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoQuotationRepo struct {
	mongoBase
	collection *mongo.Collection
}

func NewMongoQuotationRepo(client *mongo.Client, cfg *config.Config) *MongoQuotationRepo {
	base := newMongoBase(client, cfg)
	return &MongoQuotationRepo{mongoBase: base, collection: base.db.Collection(quotationsCollection)}
}

func (r *MongoQuotationRepo) Create(ctx context.Context, q *models.Quotation) error {
	ctx, cancel := r.write(ctx)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	seq, err := r.nextSequence(ctx, sequenceKey(quotationPrefix, now))
	if err != nil {
		return err
	}
	if q.ID == "" {
		q.ID = newHexID()
	}
	q.BookingID = FormatSequenceID(quotationPrefix, now, seq)
	q.CreatedAt = now

	if _, err := r.collection.InsertOne(ctx, q); err != nil {
		return fmt.Errorf("failed to create quotation: %w", err)
	}
	return nil
}

func (r *MongoQuotationRepo) FindByBookingID(ctx context.Context, bookingID string) (*models.Quotation, error) {
	ctx, cancel := r.read(ctx)
	defer cancel()

	var q models.Quotation
	if err := r.collection.FindOne(ctx, bson.M{"bookingId": bookingID}).Decode(&q); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: quotation %s", ErrNotFound, bookingID)
		}
		return nil, fmt.Errorf("failed to find quotation: %w", err)
	}
	return &q, nil
}

func (r *MongoQuotationRepo) Find(ctx context.Context, p filters.Predicate, opts FindOptions) ([]models.Quotation, error) {
	ctx, cancel := r.read(ctx)
	defer cancel()

	cursor, err := r.collection.Find(ctx, p.ToBSON(), findOptions(opts))
	if err != nil {
		return nil, fmt.Errorf("failed to query quotations: %w", err)
	}
	defer cursor.Close(ctx)

	out := []models.Quotation{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode quotations: %w", err)
	}
	return out, nil
}

func (r *MongoQuotationRepo) Count(ctx context.Context, p filters.Predicate) (int64, error) {
	ctx, cancel := r.read(ctx)
	defer cancel()

	n, err := r.collection.CountDocuments(ctx, p.ToBSON())
	if err != nil {
		return 0, fmt.Errorf("failed to count quotations: %w", err)
	}
	return n, nil
}

func (r *MongoQuotationRepo) Update(ctx context.Context, bookingID string, fields map[string]any) (*models.Quotation, error) {
	if len(fields) == 0 {
		return r.FindByBookingID(ctx, bookingID)
	}
	ctx, cancel := r.write(ctx)
	defer cancel()

	var q models.Quotation
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"bookingId": bookingID},
		bson.M{"$set": fields},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&q)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: quotation %s", ErrNotFound, bookingID)
		}
		return nil, fmt.Errorf("failed to update quotation: %w", err)
	}
	return &q, nil
}

func (r *MongoQuotationRepo) Delete(ctx context.Context, bookingID string) error {
	ctx, cancel := r.write(ctx)
	defer cancel()

	res, err := r.collection.DeleteOne(ctx, bson.M{"bookingId": bookingID})
	if err != nil {
		return fmt.Errorf("failed to delete quotation: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: quotation %s", ErrNotFound, bookingID)
	}
	return nil
}
