package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bharatparcel/config"
	"bharatparcel/filters"
	"bharatparcel/models"

	"github.com/lib/pq"
)

// bookingColumns maps document field names to booking columns.
var bookingColumns = map[string]string{
	"bookingId":        "b.booking_id",
	"customerId":       "b.customer_id",
	"startStation":     "b.start_station",
	"endStation":       "b.end_station",
	"firstName":        "b.first_name",
	"middleName":       "b.middle_name",
	"lastName":         "b.last_name",
	"mobile":           "b.mobile",
	"email":            "b.email",
	"bookingDate":      "b.booking_date",
	"deliveryDate":     "b.delivery_date",
	"senderName":       "b.sender_name",
	"senderGgt":        "b.sender_ggt",
	"senderLocality":   "b.sender_locality",
	"fromState":        "b.from_state",
	"fromCity":         "b.from_city",
	"senderPincode":    "b.sender_pincode",
	"receiverName":     "b.receiver_name",
	"receiverGgt":      "b.receiver_ggt",
	"receiverLocality": "b.receiver_locality",
	"toState":          "b.to_state",
	"toCity":           "b.to_city",
	"toPincode":        "b.to_pincode",
	"items":            "b.items",
	"addComment":       "b.add_comment",
	"freight":          "b.freight",
	"ins_vpp":          "b.ins_vpp",
	"cgst":             "b.cgst",
	"sgst":             "b.sgst",
	"igst":             "b.igst",
	"billTotal":        "b.bill_total",
	"grandTotal":       "b.grand_total",
	"activeDelivery":   "b.active_delivery",
	"totalCancelled":   "b.total_cancelled",
	"isDelivered":      "b.is_delivered",
	"isApproved":       "b.is_approved",
	"createdByUser":    "b.created_by_user",
	"createdByRole":    "b.created_by_role",
	"requestedByRole":  "b.requested_by_role",
	"approvedBy":       "b.approved_by",
	"approvedAt":       "b.approved_at",
	"createdAt":        "b.created_at",
}

const bookingSelect = `
	SELECT b.id, b.booking_id, COALESCE(b.customer_id, ''), b.start_station, b.end_station,
		b.first_name, b.middle_name, b.last_name, b.mobile, b.email,
		b.booking_date, b.delivery_date,
		b.sender_name, b.sender_ggt, b.sender_locality, b.from_state, b.from_city, b.sender_pincode,
		b.receiver_name, b.receiver_ggt, b.receiver_locality, b.to_state, b.to_city, b.to_pincode,
		b.items, b.add_comment,
		b.freight, b.ins_vpp, b.cgst, b.sgst, b.igst, b.bill_total, b.grand_total,
		b.active_delivery, b.total_cancelled, b.is_delivered, b.is_approved,
		b.created_by_user, b.created_by_role, b.requested_by_role, b.approved_by, b.approved_at, b.created_at,
		s1.station_name, s1.gst, s1.address, s1.contact, s2.station_name
	FROM bookings b
	LEFT JOIN stations s1 ON s1.id = b.start_station
	LEFT JOIN stations s2 ON s2.id = b.end_station`

type PostgresBookingRepo struct {
	postgresBase
}

func NewPostgresBookingRepo(db *sql.DB, cfg *config.Config) *PostgresBookingRepo {
	return &PostgresBookingRepo{postgresBase: newPostgresBase(db, cfg)}
}

func (r *PostgresBookingRepo) Create(ctx context.Context, b *models.Booking) error {
	ctx, cancel := r.write(ctx)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	seq, err := r.nextSequence(ctx, sequenceKey(bookingPrefix, now))
	if err != nil {
		return err
	}
	if b.ID == "" {
		b.ID = newUUID()
	}
	b.BookingID = FormatSequenceID(bookingPrefix, now, seq)
	b.CreatedAt = now

	items, err := json.Marshal(b.Items)
	if err != nil {
		return fmt.Errorf("failed to encode items: %w", err)
	}

	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO bookings (
			id, booking_id, customer_id, start_station, end_station,
			first_name, middle_name, last_name, mobile, email,
			booking_date, delivery_date,
			sender_name, sender_ggt, sender_locality, from_state, from_city, sender_pincode,
			receiver_name, receiver_ggt, receiver_locality, to_state, to_city, to_pincode,
			items, add_comment,
			freight, ins_vpp, cgst, sgst, igst, bill_total, grand_total,
			active_delivery, total_cancelled, is_delivered, is_approved,
			created_by_user, created_by_role, requested_by_role, approved_by, approved_at, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24,
			$25, $26, $27, $28, $29, $30, $31, $32, $33,
			$34, $35, $36, $37, $38, $39, $40, $41, $42, $43
		)`,
		b.ID, b.BookingID, nullString(b.CustomerID), b.StartStation, b.EndStation,
		b.FirstName, b.MiddleName, b.LastName, b.Mobile, b.Email,
		b.BookingDate, b.DeliveryDate,
		b.SenderName, b.SenderGgt, b.SenderLocality, b.FromState, b.FromCity, b.SenderPincode,
		b.ReceiverName, b.ReceiverGgt, b.ReceiverLocality, b.ToState, b.ToCity, b.ToPincode,
		items, b.AddComment,
		b.Freight, b.InsVPP, b.CGST, b.SGST, b.IGST, b.BillTotal, b.GrandTotal,
		b.ActiveDelivery, b.TotalCancelled, b.IsDelivered, b.IsApproved,
		b.CreatedByUser, b.CreatedByRole, b.RequestedByRole, b.ApprovedBy, b.ApprovedAt, b.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: booking %s", ErrDuplicate, b.BookingID)
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*models.Booking, error) {
	var (
		b          models.Booking
		items      []byte
		approvedAt sql.NullTime
		s1Name     sql.NullString
		s1GST      sql.NullString
		s1Address  sql.NullString
		s1Contact  sql.NullString
		s2Name     sql.NullString
	)
	err := row.Scan(
		&b.ID, &b.BookingID, &b.CustomerID, &b.StartStation, &b.EndStation,
		&b.FirstName, &b.MiddleName, &b.LastName, &b.Mobile, &b.Email,
		&b.BookingDate, &b.DeliveryDate,
		&b.SenderName, &b.SenderGgt, &b.SenderLocality, &b.FromState, &b.FromCity, &b.SenderPincode,
		&b.ReceiverName, &b.ReceiverGgt, &b.ReceiverLocality, &b.ToState, &b.ToCity, &b.ToPincode,
		&items, &b.AddComment,
		&b.Freight, &b.InsVPP, &b.CGST, &b.SGST, &b.IGST, &b.BillTotal, &b.GrandTotal,
		&b.ActiveDelivery, &b.TotalCancelled, &b.IsDelivered, &b.IsApproved,
		&b.CreatedByUser, &b.CreatedByRole, &b.RequestedByRole, &b.ApprovedBy, &approvedAt, &b.CreatedAt,
		&s1Name, &s1GST, &s1Address, &s1Contact, &s2Name,
	)
	if err != nil {
		return nil, err
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &b.Items); err != nil {
			return nil, fmt.Errorf("failed to decode items: %w", err)
		}
	}
	if approvedAt.Valid {
		t := approvedAt.Time
		b.ApprovedAt = &t
	}
	if s1Name.Valid {
		b.StartStationDoc = &models.Station{
			ID: b.StartStation, StationName: s1Name.String,
			GST: s1GST.String, Address: s1Address.String, Contact: s1Contact.String,
		}
	}
	if s2Name.Valid {
		b.EndStationDoc = &models.Station{ID: b.EndStation, StationName: s2Name.String}
	}
	return &b, nil
}

func (r *PostgresBookingRepo) FindByBookingID(ctx context.Context, bookingID string) (*models.Booking, error) {
	ctx, cancel := r.read(ctx)
	defer cancel()

	b, err := scanBooking(r.DB.QueryRowContext(ctx, bookingSelect+" WHERE b.booking_id = $1", bookingID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: booking %s", ErrNotFound, bookingID)
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}
	return b, nil
}

func (r *PostgresBookingRepo) Find(ctx context.Context, p filters.Predicate, opts FindOptions) ([]models.Booking, error) {
	ctx, cancel := r.read(ctx)
	defer cancel()

	where, args, err := p.ToSQL(bookingColumns, 1)
	if err != nil {
		return nil, err
	}
	rows, err := r.DB.QueryContext(ctx, bookingSelect+" WHERE "+where+orderClause(opts, bookingColumns), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	out := []models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to decode booking: %w", err)
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

func (r *PostgresBookingRepo) Count(ctx context.Context, p filters.Predicate) (int64, error) {
	ctx, cancel := r.read(ctx)
	defer cancel()

	where, args, err := p.ToSQL(bookingColumns, 1)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM bookings b WHERE "+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return n, nil
}

func (r *PostgresBookingRepo) Exists(ctx context.Context, p filters.Predicate) (bool, error) {
	ctx, cancel := r.read(ctx)
	defer cancel()

	where, args, err := p.ToSQL(bookingColumns, 1)
	if err != nil {
		return false, err
	}
	var ok bool
	if err := r.DB.QueryRowContext(ctx, "SELECT EXISTS (SELECT 1 FROM bookings b WHERE "+where+")", args...).Scan(&ok); err != nil {
		return false, fmt.Errorf("failed to probe bookings: %w", err)
	}
	return ok, nil
}

func encodeBookingField(field string, v any) (any, error) {
	if field != "items" {
		return v, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode items: %w", err)
	}
	return raw, nil
}

func (r *PostgresBookingRepo) Update(ctx context.Context, bookingID string, fields map[string]any) (*models.Booking, error) {
	if len(fields) == 0 {
		return r.FindByBookingID(ctx, bookingID)
	}
	set, args, err := setClause(fields, bookingColumns, 1, encodeBookingField)
	if err != nil {
		return nil, err
	}
	args = append(args, bookingID)
	query := fmt.Sprintf("UPDATE bookings SET %s WHERE booking_id = $%d", set, len(args))
	return r.exec(ctx, bookingID, query, args...)
}

func (r *PostgresBookingRepo) Cancel(ctx context.Context, bookingID string) (*models.Booking, error) {
	return r.exec(ctx, bookingID,
		"UPDATE bookings SET total_cancelled = total_cancelled + 1, active_delivery = FALSE WHERE booking_id = $1",
		bookingID)
}

func (r *PostgresBookingRepo) exec(ctx context.Context, bookingID, query string, args ...any) (*models.Booking, error) {
	wctx, cancel := r.write(ctx)
	defer cancel()

	res, err := r.DB.ExecContext(wctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("%w: booking %s", ErrNotFound, bookingID)
	}
	return r.FindByBookingID(ctx, bookingID)
}

func (r *PostgresBookingRepo) Delete(ctx context.Context, bookingID string) (*models.Booking, error) {
	b, err := r.FindByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	ctx, cancel := r.write(ctx)
	defer cancel()

	if _, err := r.DB.ExecContext(ctx, "DELETE FROM bookings WHERE booking_id = $1", bookingID); err != nil {
		return nil, fmt.Errorf("failed to delete booking: %w", err)
	}
	return b, nil
}

func (r *PostgresBookingRepo) AggregateByCustomer(ctx context.Context, p filters.Predicate) ([]models.CustomerAggregate, error) {
	ctx, cancel := r.read(ctx)
	defer cancel()

	where, args, err := p.ToSQL(bookingColumns, 1)
	if err != nil {
		return nil, err
	}
	rows, err := r.DB.QueryContext(ctx, `
		SELECT COALESCE(b.customer_id, ''), COUNT(*), COALESCE(SUM(b.bill_total), 0),
			COALESCE(c.first_name, ''), COALESCE(c.middle_name, ''), COALESCE(c.last_name, '')
		FROM bookings b
		LEFT JOIN customers c ON c.id = b.customer_id
		WHERE `+where+`
		GROUP BY b.customer_id, c.first_name, c.middle_name, c.last_name
		ORDER BY 3 DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate bookings: %w", err)
	}
	defer rows.Close()

	out := []models.CustomerAggregate{}
	for rows.Next() {
		var a models.CustomerAggregate
		if err := rows.Scan(&a.CustomerID, &a.TotalBookings, &a.BillTotal, &a.FirstName, &a.MiddleName, &a.LastName); err != nil {
			return nil, fmt.Errorf("failed to decode aggregation: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PostgresBookingRepo) AggregateOverall(ctx context.Context, p filters.Predicate) (*models.OverallAggregate, error) {
	ctx, cancel := r.read(ctx)
	defer cancel()

	where, args, err := p.ToSQL(bookingColumns, 1)
	if err != nil {
		return nil, err
	}
	var a models.OverallAggregate
	err = r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(b.bill_total), 0) FROM bookings b WHERE "+where, args...,
	).Scan(&a.TotalBookings, &a.BillTotal)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate bookings: %w", err)
	}
	if a.TotalBookings == 0 {
		return nil, nil
	}
	return &a, nil
}

func (r *PostgresBookingRepo) AggregateTax(ctx context.Context, p filters.Predicate) (*models.TaxAggregate, error) {
	ctx, cancel := r.read(ctx)
	defer cancel()

	where, args, err := p.ToSQL(bookingColumns, 1)
	if err != nil {
		return nil, err
	}
	var a models.TaxAggregate
	err = r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(b.bill_total), 0),
			COALESCE(SUM(b.cgst), 0), COALESCE(SUM(b.sgst), 0), COALESCE(SUM(b.igst), 0),
			COALESCE(array_agg(DISTINCT b.sender_name), '{}'),
			COALESCE(array_agg(DISTINCT concat_ws(' ', b.first_name, NULLIF(b.middle_name, ''), b.last_name)), '{}')
		FROM bookings b
		WHERE `+where, args...,
	).Scan(&a.VoucherCount, &a.TaxableValue,
		&a.TotalCGSTPercent, &a.TotalSGSTPercent, &a.TotalIGSTPercent,
		pq.Array(&a.SenderNames), pq.Array(&a.CustomerNames))
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate bookings: %w", err)
	}
	if a.VoucherCount == 0 {
		return nil, nil
	}
	return &a, nil
}
