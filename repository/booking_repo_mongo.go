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

type MongoBookingRepo struct {
	mongoBase
	collection *mongo.Collection
	stations   *mongo.Collection
}

func NewMongoBookingRepo(client *mongo.Client, cfg *config.Config) *MongoBookingRepo {
	base := newMongoBase(client, cfg)
	return &MongoBookingRepo{
		mongoBase:  base,
		collection: base.db.Collection(bookingsCollection),
		stations:   base.db.Collection(stationsCollection),
	}
}

func (r *MongoBookingRepo) Create(ctx context.Context, b *models.Booking) error {
	ctx, cancel := r.write(ctx)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	seq, err := r.nextSequence(ctx, sequenceKey(bookingPrefix, now))
	if err != nil {
		return err
	}
	if b.ID == "" {
		b.ID = newHexID()
	}
	b.BookingID = FormatSequenceID(bookingPrefix, now, seq)
	b.CreatedAt = now

	if _, err := r.collection.InsertOne(ctx, b); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: booking %s", ErrDuplicate, b.BookingID)
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (r *MongoBookingRepo) FindByBookingID(ctx context.Context, bookingID string) (*models.Booking, error) {
	ctx, cancel := r.read(ctx)
	defer cancel()

	var b models.Booking
	if err := r.collection.FindOne(ctx, bson.M{"bookingId": bookingID}).Decode(&b); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: booking %s", ErrNotFound, bookingID)
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}
	if err := r.populate(ctx, []*models.Booking{&b}); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *MongoBookingRepo) Find(ctx context.Context, p filters.Predicate, opts FindOptions) ([]models.Booking, error) {
	ctx, cancel := r.read(ctx)
	defer cancel()

	cursor, err := r.collection.Find(ctx, p.ToBSON(), findOptions(opts))
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := []models.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	ptrs := make([]*models.Booking, len(bookings))
	for i := range bookings {
		ptrs[i] = &bookings[i]
	}
	if err := r.populate(ctx, ptrs); err != nil {
		return nil, err
	}
	return bookings, nil
}

// populate attaches start and end station documents in one round trip.
// References that no longer resolve are left nil.
func (r *MongoBookingRepo) populate(ctx context.Context, bookings []*models.Booking) error {
	ids := map[string]struct{}{}
	for _, b := range bookings {
		ids[b.StartStation] = struct{}{}
		ids[b.EndStation] = struct{}{}
	}
	if len(ids) == 0 {
		return nil
	}
	list := make(bson.A, 0, len(ids))
	for id := range ids {
		list = append(list, id)
	}

	cursor, err := r.stations.Find(ctx, bson.M{"_id": bson.M{"$in": list}})
	if err != nil {
		return fmt.Errorf("failed to load stations: %w", err)
	}
	var stations []models.Station
	if err := cursor.All(ctx, &stations); err != nil {
		return fmt.Errorf("failed to decode stations: %w", err)
	}

	byID := make(map[string]*models.Station, len(stations))
	for i := range stations {
		byID[stations[i].ID] = &stations[i]
	}
	for _, b := range bookings {
		b.StartStationDoc = byID[b.StartStation]
		b.EndStationDoc = byID[b.EndStation]
	}
	return nil
}

func (r *MongoBookingRepo) Count(ctx context.Context, p filters.Predicate) (int64, error) {
	ctx, cancel := r.read(ctx)
	defer cancel()

	n, err := r.collection.CountDocuments(ctx, p.ToBSON())
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return n, nil
}

func (r *MongoBookingRepo) Exists(ctx context.Context, p filters.Predicate) (bool, error) {
	ctx, cancel := r.read(ctx)
	defer cancel()

	err := r.collection.FindOne(ctx, p.ToBSON(), options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to probe bookings: %w", err)
	}
	return true, nil
}

func (r *MongoBookingRepo) Update(ctx context.Context, bookingID string, fields map[string]any) (*models.Booking, error) {
	if len(fields) == 0 {
		return r.FindByBookingID(ctx, bookingID)
	}
	return r.findOneAndUpdate(ctx, bookingID, bson.M{"$set": fields})
}

// Cancel increments totalCancelled and clears activeDelivery in one update.
func (r *MongoBookingRepo) Cancel(ctx context.Context, bookingID string) (*models.Booking, error) {
	return r.findOneAndUpdate(ctx, bookingID, bson.M{
		"$inc": bson.M{"totalCancelled": 1},
		"$set": bson.M{"activeDelivery": false},
	})
}

func (r *MongoBookingRepo) findOneAndUpdate(ctx context.Context, bookingID string, update bson.M) (*models.Booking, error) {
	ctx, cancel := r.write(ctx)
	defer cancel()

	var b models.Booking
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"bookingId": bookingID},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&b)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: booking %s", ErrNotFound, bookingID)
		}
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}
	if err := r.populate(ctx, []*models.Booking{&b}); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *MongoBookingRepo) Delete(ctx context.Context, bookingID string) (*models.Booking, error) {
	ctx, cancel := r.write(ctx)
	defer cancel()

	var b models.Booking
	if err := r.collection.FindOneAndDelete(ctx, bson.M{"bookingId": bookingID}).Decode(&b); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: booking %s", ErrNotFound, bookingID)
		}
		return nil, fmt.Errorf("failed to delete booking: %w", err)
	}
	return &b, nil
}

func customerPipeline(match bson.D) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$customerId"},
			{Key: "totalBookings", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "billTotal", Value: bson.D{{Key: "$sum", Value: "$billTotal"}}},
		}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: customersCollection},
			{Key: "localField", Value: "_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "customerDetails"},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$customerDetails"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "totalBookings", Value: 1},
			{Key: "billTotal", Value: 1},
			{Key: "firstName", Value: "$customerDetails.firstName"},
			{Key: "middleName", Value: "$customerDetails.middleName"},
			{Key: "lastName", Value: "$customerDetails.lastName"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "billTotal", Value: -1}}}},
	}
}

func overallPipeline(match bson.D) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "totalBookings", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "billTotal", Value: bson.D{{Key: "$sum", Value: "$billTotal"}}},
		}}},
	}
}

// taxPipeline sums rates and taxable value over the set; amounts are derived
// from these sums by the caller.
func taxPipeline(match bson.D) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "voucherCount", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "taxableValue", Value: bson.D{{Key: "$sum", Value: "$billTotal"}}},
			{Key: "totalCgstPercent", Value: bson.D{{Key: "$sum", Value: "$cgst"}}},
			{Key: "totalSgstPercent", Value: bson.D{{Key: "$sum", Value: "$sgst"}}},
			{Key: "totalIgstPercent", Value: bson.D{{Key: "$sum", Value: "$igst"}}},
			{Key: "senderNames", Value: bson.D{{Key: "$addToSet", Value: "$senderName"}}},
			{Key: "customerNames", Value: bson.D{{Key: "$addToSet", Value: fullNameExpr("")}}},
		}}},
	}
}

func (r *MongoBookingRepo) AggregateByCustomer(ctx context.Context, p filters.Predicate) ([]models.CustomerAggregate, error) {
	ctx, cancel := r.read(ctx)
	defer cancel()

	rows := []models.CustomerAggregate{}
	if err := r.aggregate(ctx, customerPipeline(p.ToBSON()), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *MongoBookingRepo) AggregateOverall(ctx context.Context, p filters.Predicate) (*models.OverallAggregate, error) {
	ctx, cancel := r.read(ctx)
	defer cancel()

	var rows []models.OverallAggregate
	if err := r.aggregate(ctx, overallPipeline(p.ToBSON()), &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (r *MongoBookingRepo) AggregateTax(ctx context.Context, p filters.Predicate) (*models.TaxAggregate, error) {
	ctx, cancel := r.read(ctx)
	defer cancel()

	var rows []models.TaxAggregate
	if err := r.aggregate(ctx, taxPipeline(p.ToBSON()), &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (r *MongoBookingRepo) aggregate(ctx context.Context, pipeline mongo.Pipeline, out any) error {
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return fmt.Errorf("failed to aggregate bookings: %w", err)
	}
	defer cursor.Close(ctx)
	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("failed to decode aggregation: %w", err)
	}
	return nil
}
