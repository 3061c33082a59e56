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
)

var quotationColumns = map[string]string{
	"bookingId":            "q.booking_id",
	"customerId":           "q.customer_id",
	"startStation":         "q.start_station",
	"startStationName":     "q.start_station_name",
	"endStation":           "q.end_station",
	"firstName":            "q.first_name",
	"middleName":           "q.middle_name",
	"lastName":             "q.last_name",
	"mobile":               "q.mobile",
	"email":                "q.email",
	"locality":             "q.locality",
	"quotationDate":        "q.quotation_date",
	"proposedDeliveryDate": "q.proposed_delivery_date",
	"fromCustomerName":     "q.from_customer_name",
	"fromAddress":          "q.from_address",
	"fromCity":             "q.from_city",
	"fromState":            "q.from_state",
	"fromPincode":          "q.from_pincode",
	"toCustomerName":       "q.to_customer_name",
	"toAddress":            "q.to_address",
	"toCity":               "q.to_city",
	"toState":              "q.to_state",
	"toPincode":            "q.to_pincode",
	"additionalCmt":        "q.additional_cmt",
	"productDetails":       "q.product_details",
	"amount":               "q.amount",
	"sTax":                 "q.s_tax",
	"grandTotal":           "q.grand_total",
	"cancelReason":         "q.cancel_reason",
	"activeDelivery":       "q.active_delivery",
	"totalCancelled":       "q.total_cancelled",
	"isDelivered":          "q.is_delivered",
	"isApproved":           "q.is_approved",
	"createdByUser":        "q.created_by_user",
	"createdByRole":        "q.created_by_role",
	"requestedByRole":      "q.requested_by_role",
	"approvedBy":           "q.approved_by",
	"approvedAt":           "q.approved_at",
	"createdAt":            "q.created_at",
}

const quotationSelect = `
	SELECT q.id, q.booking_id, COALESCE(q.customer_id, ''),
		q.start_station, q.start_station_name, q.end_station,
		q.first_name, q.middle_name, q.last_name, q.mobile, q.email, q.locality,
		q.quotation_date, q.proposed_delivery_date,
		q.from_customer_name, q.from_address, q.from_city, q.from_state, q.from_pincode,
		q.to_customer_name, q.to_address, q.to_city, q.to_state, q.to_pincode,
		q.additional_cmt, q.product_details, q.amount, q.s_tax, q.grand_total, q.cancel_reason,
		q.active_delivery, q.total_cancelled, q.is_delivered, q.is_approved,
		q.created_by_user, q.created_by_role, q.requested_by_role, q.approved_by, q.approved_at, q.created_at
	FROM quotations q`

type PostgresQuotationRepo struct {
	postgresBase
}

func NewPostgresQuotationRepo(db *sql.DB, cfg *config.Config) *PostgresQuotationRepo {
	return &PostgresQuotationRepo{postgresBase: newPostgresBase(db, cfg)}
}

func (r *PostgresQuotationRepo) Create(ctx context.Context, q *models.Quotation) error {
	ctx, cancel := r.write(ctx)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	seq, err := r.nextSequence(ctx, sequenceKey(quotationPrefix, now))
	if err != nil {
		return err
	}
	if q.ID == "" {
		q.ID = newUUID()
	}
	q.BookingID = FormatSequenceID(quotationPrefix, now, seq)
	q.CreatedAt = now

	products, err := json.Marshal(q.ProductDetails)
	if err != nil {
		return fmt.Errorf("failed to encode products: %w", err)
	}

	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO quotations (
			id, booking_id, customer_id, start_station, start_station_name, end_station,
			first_name, middle_name, last_name, mobile, email, locality,
			quotation_date, proposed_delivery_date,
			from_customer_name, from_address, from_city, from_state, from_pincode,
			to_customer_name, to_address, to_city, to_state, to_pincode,
			additional_cmt, product_details, amount, s_tax, grand_total, cancel_reason,
			active_delivery, total_cancelled, is_delivered, is_approved,
			created_by_user, created_by_role, requested_by_role, approved_by, approved_at, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24,
			$25, $26, $27, $28, $29, $30, $31, $32, $33, $34,
			$35, $36, $37, $38, $39, $40
		)`,
		q.ID, q.BookingID, nullString(q.CustomerID), q.StartStation, q.StartStationName, q.EndStation,
		q.FirstName, q.MiddleName, q.LastName, q.Mobile, q.Email, q.Locality,
		q.QuotationDate, q.ProposedDeliveryDate,
		q.FromCustomerName, q.FromAddress, q.FromCity, q.FromState, q.FromPincode,
		q.ToCustomerName, q.ToAddress, q.ToCity, q.ToState, q.ToPincode,
		q.AdditionalCmt, products, q.Amount, q.STax, q.GrandTotal, q.CancelReason,
		q.ActiveDelivery, q.TotalCancelled, q.IsDelivered, q.IsApproved,
		q.CreatedByUser, q.CreatedByRole, q.RequestedByRole, q.ApprovedBy, q.ApprovedAt, q.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: quotation %s", ErrDuplicate, q.BookingID)
		}
		return fmt.Errorf("failed to create quotation: %w", err)
	}
	return nil
}

func scanQuotation(row rowScanner) (*models.Quotation, error) {
	var (
		q          models.Quotation
		products   []byte
		approvedAt sql.NullTime
	)
	err := row.Scan(
		&q.ID, &q.BookingID, &q.CustomerID,
		&q.StartStation, &q.StartStationName, &q.EndStation,
		&q.FirstName, &q.MiddleName, &q.LastName, &q.Mobile, &q.Email, &q.Locality,
		&q.QuotationDate, &q.ProposedDeliveryDate,
		&q.FromCustomerName, &q.FromAddress, &q.FromCity, &q.FromState, &q.FromPincode,
		&q.ToCustomerName, &q.ToAddress, &q.ToCity, &q.ToState, &q.ToPincode,
		&q.AdditionalCmt, &products, &q.Amount, &q.STax, &q.GrandTotal, &q.CancelReason,
		&q.ActiveDelivery, &q.TotalCancelled, &q.IsDelivered, &q.IsApproved,
		&q.CreatedByUser, &q.CreatedByRole, &q.RequestedByRole, &q.ApprovedBy, &approvedAt, &q.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(products) > 0 {
		if err := json.Unmarshal(products, &q.ProductDetails); err != nil {
			return nil, fmt.Errorf("failed to decode products: %w", err)
		}
	}
	if approvedAt.Valid {
		t := approvedAt.Time
		q.ApprovedAt = &t
	}
	return &q, nil
}

func (r *PostgresQuotationRepo) FindByBookingID(ctx context.Context, bookingID string) (*models.Quotation, error) {
	ctx, cancel := r.read(ctx)
	defer cancel()

	q, err := scanQuotation(r.DB.QueryRowContext(ctx, quotationSelect+" WHERE q.booking_id = $1", bookingID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: quotation %s", ErrNotFound, bookingID)
		}
		return nil, fmt.Errorf("failed to find quotation: %w", err)
	}
	return q, nil
}

func (r *PostgresQuotationRepo) Find(ctx context.Context, p filters.Predicate, opts FindOptions) ([]models.Quotation, error) {
	ctx, cancel := r.read(ctx)
	defer cancel()

	where, args, err := p.ToSQL(quotationColumns, 1)
	if err != nil {
		return nil, err
	}
	rows, err := r.DB.QueryContext(ctx, quotationSelect+" WHERE "+where+orderClause(opts, quotationColumns), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query quotations: %w", err)
	}
	defer rows.Close()

	out := []models.Quotation{}
	for rows.Next() {
		q, err := scanQuotation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to decode quotation: %w", err)
		}
		out = append(out, *q)
	}
	return out, rows.Err()
}

func (r *PostgresQuotationRepo) Count(ctx context.Context, p filters.Predicate) (int64, error) {
	ctx, cancel := r.read(ctx)
	defer cancel()

	where, args, err := p.ToSQL(quotationColumns, 1)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM quotations q WHERE "+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count quotations: %w", err)
	}
	return n, nil
}

func encodeQuotationField(field string, v any) (any, error) {
	if field != "productDetails" {
		return v, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode products: %w", err)
	}
	return raw, nil
}

func (r *PostgresQuotationRepo) Update(ctx context.Context, bookingID string, fields map[string]any) (*models.Quotation, error) {
	if len(fields) == 0 {
		return r.FindByBookingID(ctx, bookingID)
	}
	set, args, err := setClause(fields, quotationColumns, 1, encodeQuotationField)
	if err != nil {
		return nil, err
	}
	args = append(args, bookingID)

	wctx, cancel := r.write(ctx)
	defer cancel()

	res, err := r.DB.ExecContext(wctx, fmt.Sprintf("UPDATE quotations SET %s WHERE booking_id = $%d", set, len(args)), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update quotation: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("%w: quotation %s", ErrNotFound, bookingID)
	}
	return r.FindByBookingID(ctx, bookingID)
}

func (r *PostgresQuotationRepo) Delete(ctx context.Context, bookingID string) error {
	ctx, cancel := r.write(ctx)
	defer cancel()

	res, err := r.DB.ExecContext(ctx, "DELETE FROM quotations WHERE booking_id = $1", bookingID)
	if err != nil {
		return fmt.Errorf("failed to delete quotation: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: quotation %s", ErrNotFound, bookingID)
	}
	return nil
}
