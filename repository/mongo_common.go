package repository

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"bharatparcel/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	bookingsCollection   = "bookings"
	quotationsCollection = "quotations"
	stationsCollection   = "stations"
	customersCollection  = "customers"
	usersCollection      = "app_user"
	countersCollection   = "counters"
)

// mongoBase carries what every Mongo repository needs.
type mongoBase struct {
	db           *mongo.Database
	readTimeout  time.Duration
	writeTimeout time.Duration
}

func newMongoBase(client *mongo.Client, cfg *config.Config) mongoBase {
	return mongoBase{
		db:           client.Database(cfg.MongoDB),
		readTimeout:  cfg.ReadTimeout,
		writeTimeout: cfg.WriteTimeout,
	}
}

func (m mongoBase) read(ctx context.Context) (context.Context, context.CancelFunc) {
	return withTimeout(ctx, m.readTimeout)
}

func (m mongoBase) write(ctx context.Context) (context.Context, context.CancelFunc) {
	return withTimeout(ctx, m.writeTimeout)
}

// nextSequence atomically increments and returns the counter named key.
func (m mongoBase) nextSequence(ctx context.Context, key string) (int64, error) {
	var doc struct {
		Seq int64 `bson:"seq"`
	}
	err := m.db.Collection(countersCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": key},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("failed to advance sequence %s: %w", key, err)
	}
	return doc.Seq, nil
}

func newHexID() string {
	return primitive.NewObjectID().Hex()
}

// exactNameRegex matches name in full, ignoring case, with metacharacters escaped.
func exactNameRegex(name string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(strings.TrimSpace(name)) + "$", Options: "i"}
}

func findOptions(opts FindOptions) *options.FindOptions {
	o := options.Find()
	if opts.SortBy != "" {
		dir := 1
		if opts.Desc {
			dir = -1
		}
		o.SetSort(bson.D{{Key: opts.SortBy, Value: dir}})
	}
	if opts.Limit > 0 {
		o.SetLimit(opts.Limit)
	}
	return o
}

// fullNameExpr builds "first [middle ]last" from fields under prefix,
// skipping an empty or missing middle name.
func fullNameExpr(prefix string) bson.D {
	middle := bson.D{{Key: "$ifNull", Value: bson.A{"$" + prefix + "middleName", ""}}}
	return bson.D{{Key: "$concat", Value: bson.A{
		bson.D{{Key: "$ifNull", Value: bson.A{"$" + prefix + "firstName", ""}}},
		bson.D{{Key: "$cond", Value: bson.A{
			bson.D{{Key: "$gt", Value: bson.A{bson.D{{Key: "$strLenCP", Value: middle}}, 0}}},
			bson.D{{Key: "$concat", Value: bson.A{" ", middle}}},
			"",
		}}},
		" ",
		bson.D{{Key: "$ifNull", Value: bson.A{"$" + prefix + "lastName", ""}}},
	}}}
}

// EnsureIndexes creates the unique indexes the repositories rely on.
func EnsureIndexes(ctx context.Context, client *mongo.Client, cfg *config.Config) error {
	db := client.Database(cfg.MongoDB)
	unique := func(keys bson.D) mongo.IndexModel {
		return mongo.IndexModel{Keys: keys, Options: options.Index().SetUnique(true)}
	}
	specs := map[string][]mongo.IndexModel{
		bookingsCollection: {
			unique(bson.D{{Key: "bookingId", Value: 1}}),
			{Keys: bson.D{{Key: "bookingDate", Value: -1}}},
			{Keys: bson.D{{Key: "createdByUser", Value: 1}}},
		},
		quotationsCollection: {unique(bson.D{{Key: "bookingId", Value: 1}})},
		stationsCollection: {
			unique(bson.D{{Key: "stationId", Value: 1}}),
			unique(bson.D{{Key: "stationName", Value: 1}}),
		},
		customersCollection: {unique(bson.D{{Key: "emailId", Value: 1}})},
		usersCollection:     {unique(bson.D{{Key: "email", Value: 1}})},
	}
	for name, idx := range specs {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", name, err)
		}
	}
	return nil
}
