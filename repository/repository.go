package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bharatparcel/filters"
	"bharatparcel/models"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrStationNotFound = errors.New("station not found")
	ErrDuplicate       = errors.New("duplicate record")
)

// FindOptions orders a listing by a store field name.
type FindOptions struct {
	SortBy string
	Desc   bool
	Limit  int64
}

type BookingRepository interface {
	Create(ctx context.Context, b *models.Booking) error
	FindByBookingID(ctx context.Context, bookingID string) (*models.Booking, error)
	Find(ctx context.Context, p filters.Predicate, opts FindOptions) ([]models.Booking, error)
	Count(ctx context.Context, p filters.Predicate) (int64, error)
	Exists(ctx context.Context, p filters.Predicate) (bool, error)
	Update(ctx context.Context, bookingID string, fields map[string]any) (*models.Booking, error)
	Cancel(ctx context.Context, bookingID string) (*models.Booking, error)
	Delete(ctx context.Context, bookingID string) (*models.Booking, error)

	AggregateByCustomer(ctx context.Context, p filters.Predicate) ([]models.CustomerAggregate, error)
	// AggregateOverall and AggregateTax return nil when nothing matched.
	AggregateOverall(ctx context.Context, p filters.Predicate) (*models.OverallAggregate, error)
	AggregateTax(ctx context.Context, p filters.Predicate) (*models.TaxAggregate, error)
}

type QuotationRepository interface {
	Create(ctx context.Context, q *models.Quotation) error
	FindByBookingID(ctx context.Context, bookingID string) (*models.Quotation, error)
	Find(ctx context.Context, p filters.Predicate, opts FindOptions) ([]models.Quotation, error)
	Count(ctx context.Context, p filters.Predicate) (int64, error)
	Update(ctx context.Context, bookingID string, fields map[string]any) (*models.Quotation, error)
	Delete(ctx context.Context, bookingID string) error
}

type StationRepository interface {
	Create(ctx context.Context, s *models.Station) error
	FindAll(ctx context.Context) ([]models.Station, error)
	Count(ctx context.Context) (int64, error)
	FindByStationID(ctx context.Context, stationID string) (*models.Station, error)
	FindByName(ctx context.Context, name string) (*models.Station, error)
	// ResolveName matches the whole name case-insensitively.
	ResolveName(ctx context.Context, name string) (*models.Station, error)
	// FindConflict returns a station sharing name, email, GST or contact with s,
	// or nil when there is none.
	FindConflict(ctx context.Context, s *models.Station) (*models.Station, error)
	Update(ctx context.Context, stationID string, fields map[string]any) (*models.Station, error)
	Delete(ctx context.Context, stationID string) error
}

type CustomerRepository interface {
	Create(ctx context.Context, c *models.Customer) error
	FindAll(ctx context.Context) ([]models.Customer, error)
	FindByID(ctx context.Context, id string) (*models.Customer, error)
	FindByEmail(ctx context.Context, email string) (*models.Customer, error)
	FindByName(ctx context.Context, firstName, lastName string) (*models.Customer, error)
	// SearchByName matches term case-insensitively anywhere in the full name.
	SearchByName(ctx context.Context, term string) (*models.Customer, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.AppUser) error
	GetUserByEmail(ctx context.Context, email string) (*models.AppUser, error)
}

// withTimeout bounds ctx by timeout, keeping an earlier caller deadline.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < timeout {
		return context.WithDeadline(ctx, deadline)
	}
	return context.WithTimeout(ctx, timeout)
}

// FormatSequenceID renders a human-readable id such as BPS-202405-17.
func FormatSequenceID(prefix string, at time.Time, n int64) string {
	return fmt.Sprintf("%s-%s-%d", prefix, at.Format("200601"), n)
}

func sequenceKey(kind string, at time.Time) string {
	return kind + "-" + at.Format("200601")
}

const (
	bookingPrefix   = "BPS"
	quotationPrefix = "QTN"
)
