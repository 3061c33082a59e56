package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"bharatparcel/config"
	"bharatparcel/models"
)

const customerSelect = `
	SELECT id, first_name, middle_name, last_name, contact_number, email_id,
		address, state, city, district, pincode, created_at
	FROM customers`

type PostgresCustomerRepo struct {
	postgresBase
}

func NewPostgresCustomerRepo(db *sql.DB, cfg *config.Config) *PostgresCustomerRepo {
	return &PostgresCustomerRepo{postgresBase: newPostgresBase(db, cfg)}
}

func scanCustomer(row rowScanner) (*models.Customer, error) {
	var c models.Customer
	err := row.Scan(&c.ID, &c.FirstName, &c.MiddleName, &c.LastName, &c.ContactNumber, &c.EmailID,
		&c.Address, &c.State, &c.City, &c.District, &c.Pincode, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PostgresCustomerRepo) Create(ctx context.Context, c *models.Customer) error {
	ctx, cancel := r.write(ctx)
	defer cancel()

	if c.ID == "" {
		c.ID = newUUID()
	}
	c.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO customers (id, first_name, middle_name, last_name, contact_number, email_id,
			address, state, city, district, pincode, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		c.ID, c.FirstName, c.MiddleName, c.LastName, c.ContactNumber, c.EmailID,
		c.Address, c.State, c.City, c.District, c.Pincode, c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: customer %s", ErrDuplicate, c.EmailID)
		}
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

func (r *PostgresCustomerRepo) FindAll(ctx context.Context) ([]models.Customer, error) {
	ctx, cancel := r.read(ctx)
	defer cancel()

	rows, err := r.DB.QueryContext(ctx, customerSelect+" ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	out := []models.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to decode customer: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *PostgresCustomerRepo) findOne(ctx context.Context, what, where string, args ...any) (*models.Customer, error) {
	ctx, cancel := r.read(ctx)
	defer cancel()

	c, err := scanCustomer(r.DB.QueryRowContext(ctx, customerSelect+" WHERE "+where, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: customer %s", ErrNotFound, what)
		}
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}
	return c, nil
}

func (r *PostgresCustomerRepo) FindByID(ctx context.Context, id string) (*models.Customer, error) {
	return r.findOne(ctx, id, "id = $1", id)
}

func (r *PostgresCustomerRepo) FindByEmail(ctx context.Context, email string) (*models.Customer, error) {
	return r.findOne(ctx, email, "email_id = $1", email)
}

func (r *PostgresCustomerRepo) FindByName(ctx context.Context, firstName, lastName string) (*models.Customer, error) {
	return r.findOne(ctx, firstName+" "+lastName, "first_name = $1 AND last_name = $2", firstName, lastName)
}

// likeEscaper neutralises LIKE wildcards in user input.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *PostgresCustomerRepo) SearchByName(ctx context.Context, term string) (*models.Customer, error) {
	pattern := "%" + likeEscaper.Replace(strings.TrimSpace(term)) + "%"
	return r.findOne(ctx, term,
		`concat_ws(' ', first_name, NULLIF(middle_name, ''), last_name) ILIKE $1 LIMIT 1`, pattern)
}
