package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"bharatparcel/config"
	"bharatparcel/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoStationRepo struct {
	mongoBase
	collection *mongo.Collection
}

func NewMongoStationRepo(client *mongo.Client, cfg *config.Config) *MongoStationRepo {
	base := newMongoBase(client, cfg)
	return &MongoStationRepo{mongoBase: base, collection: base.db.Collection(stationsCollection)}
}

func (r *MongoStationRepo) Create(ctx context.Context, s *models.Station) error {
	ctx, cancel := r.write(ctx)
	defer cancel()

	seq, err := r.nextSequence(ctx, "station")
	if err != nil {
		return err
	}
	if s.ID == "" {
		s.ID = newHexID()
	}
	s.StationID = strconv.FormatInt(seq, 10)

	if _, err := r.collection.InsertOne(ctx, s); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: station %s", ErrDuplicate, s.StationName)
		}
		return fmt.Errorf("failed to create station: %w", err)
	}
	return nil
}

func (r *MongoStationRepo) FindAll(ctx context.Context) ([]models.Station, error) {
	ctx, cancel := r.read(ctx)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query stations: %w", err)
	}
	defer cursor.Close(ctx)

	out := []models.Station{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode stations: %w", err)
	}
	return out, nil
}

func (r *MongoStationRepo) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.read(ctx)
	defer cancel()

	n, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count stations: %w", err)
	}
	return n, nil
}

func (r *MongoStationRepo) findOne(ctx context.Context, filter any, what string) (*models.Station, error) {
	ctx, cancel := r.read(ctx)
	defer cancel()

	var s models.Station
	if err := r.collection.FindOne(ctx, filter).Decode(&s); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", ErrStationNotFound, what)
		}
		return nil, fmt.Errorf("failed to find station: %w", err)
	}
	return &s, nil
}

func (r *MongoStationRepo) FindByStationID(ctx context.Context, stationID string) (*models.Station, error) {
	return r.findOne(ctx, bson.M{"stationId": stationID}, stationID)
}

func (r *MongoStationRepo) FindByName(ctx context.Context, name string) (*models.Station, error) {
	return r.findOne(ctx, bson.M{"stationName": name}, name)
}

func (r *MongoStationRepo) ResolveName(ctx context.Context, name string) (*models.Station, error) {
	return r.findOne(ctx, bson.M{"stationName": exactNameRegex(name)}, name)
}

func (r *MongoStationRepo) FindConflict(ctx context.Context, s *models.Station) (*models.Station, error) {
	ctx, cancel := r.read(ctx)
	defer cancel()

	filter := bson.M{"$or": bson.A{
		bson.M{"stationName": s.StationName},
		bson.M{"emailId": s.EmailID},
		bson.M{"gst": s.GST},
		bson.M{"contact": s.Contact},
	}}
	var existing models.Station
	if err := r.collection.FindOne(ctx, filter).Decode(&existing); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to check station conflicts: %w", err)
	}
	return &existing, nil
}

func (r *MongoStationRepo) Update(ctx context.Context, stationID string, fields map[string]any) (*models.Station, error) {
	if len(fields) == 0 {
		return r.FindByStationID(ctx, stationID)
	}
	ctx, cancel := r.write(ctx)
	defer cancel()

	var s models.Station
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"stationId": stationID},
		bson.M{"$set": fields},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&s)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", ErrStationNotFound, stationID)
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: station %s", ErrDuplicate, stationID)
		}
		return nil, fmt.Errorf("failed to update station: %w", err)
	}
	return &s, nil
}

func (r *MongoStationRepo) Delete(ctx context.Context, stationID string) error {
	ctx, cancel := r.write(ctx)
	defer cancel()

	res, err := r.collection.DeleteOne(ctx, bson.M{"stationId": stationID})
	if err != nil {
		return fmt.Errorf("failed to delete station: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", ErrStationNotFound, stationID)
	}
	return nil
}
