package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"bharatparcel/config"
	"bharatparcel/models"
)

var stationColumns = map[string]string{
	"stationName": "station_name",
	"contact":     "contact",
	"emailId":     "email_id",
	"address":     "address",
	"state":       "state",
	"city":        "city",
	"pincode":     "pincode",
	"gst":         "gst",
}

const stationSelect = `SELECT id, station_id, station_name, contact, email_id, address, state, city, pincode, gst FROM stations`

type PostgresStationRepo struct {
	postgresBase
}

func NewPostgresStationRepo(db *sql.DB, cfg *config.Config) *PostgresStationRepo {
	return &PostgresStationRepo{postgresBase: newPostgresBase(db, cfg)}
}

func scanStation(row rowScanner) (*models.Station, error) {
	var s models.Station
	err := row.Scan(&s.ID, &s.StationID, &s.StationName, &s.Contact, &s.EmailID,
		&s.Address, &s.State, &s.City, &s.Pincode, &s.GST)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *PostgresStationRepo) Create(ctx context.Context, s *models.Station) error {
	ctx, cancel := r.write(ctx)
	defer cancel()

	seq, err := r.nextSequence(ctx, "station")
	if err != nil {
		return err
	}
	if s.ID == "" {
		s.ID = newUUID()
	}
	s.StationID = strconv.FormatInt(seq, 10)

	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO stations (id, station_id, station_name, contact, email_id, address, state, city, pincode, gst)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		s.ID, s.StationID, s.StationName, s.Contact, s.EmailID, s.Address, s.State, s.City, s.Pincode, s.GST)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: station %s", ErrDuplicate, s.StationName)
		}
		return fmt.Errorf("failed to create station: %w", err)
	}
	return nil
}

func (r *PostgresStationRepo) FindAll(ctx context.Context) ([]models.Station, error) {
	ctx, cancel := r.read(ctx)
	defer cancel()

	rows, err := r.DB.QueryContext(ctx, stationSelect+" ORDER BY station_id::bigint")
	if err != nil {
		return nil, fmt.Errorf("failed to query stations: %w", err)
	}
	defer rows.Close()

	out := []models.Station{}
	for rows.Next() {
		s, err := scanStation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to decode station: %w", err)
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func (r *PostgresStationRepo) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.read(ctx)
	defer cancel()

	var n int64
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM stations").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count stations: %w", err)
	}
	return n, nil
}

func (r *PostgresStationRepo) findOne(ctx context.Context, what, where string, args ...any) (*models.Station, error) {
	ctx, cancel := r.read(ctx)
	defer cancel()

	s, err := scanStation(r.DB.QueryRowContext(ctx, stationSelect+" WHERE "+where, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrStationNotFound, what)
		}
		return nil, fmt.Errorf("failed to find station: %w", err)
	}
	return s, nil
}

func (r *PostgresStationRepo) FindByStationID(ctx context.Context, stationID string) (*models.Station, error) {
	return r.findOne(ctx, stationID, "station_id = $1", stationID)
}

func (r *PostgresStationRepo) FindByName(ctx context.Context, name string) (*models.Station, error) {
	return r.findOne(ctx, name, "station_name = $1", name)
}

func (r *PostgresStationRepo) ResolveName(ctx context.Context, name string) (*models.Station, error) {
	return r.findOne(ctx, name, "lower(station_name) = lower($1)", strings.TrimSpace(name))
}

func (r *PostgresStationRepo) FindConflict(ctx context.Context, s *models.Station) (*models.Station, error) {
	existing, err := r.findOne(ctx, s.StationName,
		"station_name = $1 OR email_id = $2 OR gst = $3 OR contact = $4 LIMIT 1",
		s.StationName, s.EmailID, s.GST, s.Contact)
	if errors.Is(err, ErrStationNotFound) {
		return nil, nil
	}
	return existing, err
}

func (r *PostgresStationRepo) Update(ctx context.Context, stationID string, fields map[string]any) (*models.Station, error) {
	if len(fields) == 0 {
		return r.FindByStationID(ctx, stationID)
	}
	set, args, err := setClause(fields, stationColumns, 1, nil)
	if err != nil {
		return nil, err
	}
	args = append(args, stationID)

	wctx, cancel := r.write(ctx)
	defer cancel()

	s, err := scanStation(r.DB.QueryRowContext(wctx,
		fmt.Sprintf("UPDATE stations SET %s WHERE station_id = $%d RETURNING id, station_id, station_name, contact, email_id, address, state, city, pincode, gst", set, len(args)),
		args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrStationNotFound, stationID)
		}
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: station %s", ErrDuplicate, stationID)
		}
		return nil, fmt.Errorf("failed to update station: %w", err)
	}
	return s, nil
}

func (r *PostgresStationRepo) Delete(ctx context.Context, stationID string) error {
	ctx, cancel := r.write(ctx)
	defer cancel()

	res, err := r.DB.ExecContext(ctx, "DELETE FROM stations WHERE station_id = $1", stationID)
	if err != nil {
		return fmt.Errorf("failed to delete station: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrStationNotFound, stationID)
	}
	return nil
}
