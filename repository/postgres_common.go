package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"bharatparcel/config"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type postgresBase struct {
	DB           *sql.DB
	readTimeout  time.Duration
	writeTimeout time.Duration
}

func newPostgresBase(db *sql.DB, cfg *config.Config) postgresBase {
	return postgresBase{DB: db, readTimeout: cfg.ReadTimeout, writeTimeout: cfg.WriteTimeout}
}

func (p postgresBase) read(ctx context.Context) (context.Context, context.CancelFunc) {
	return withTimeout(ctx, p.readTimeout)
}

func (p postgresBase) write(ctx context.Context) (context.Context, context.CancelFunc) {
	return withTimeout(ctx, p.writeTimeout)
}

func (p postgresBase) nextSequence(ctx context.Context, key string) (int64, error) {
	var seq int64
	err := p.DB.QueryRowContext(ctx, `
		INSERT INTO counters (name, seq) VALUES ($1, 1)
		ON CONFLICT (name) DO UPDATE SET seq = counters.seq + 1
		RETURNING seq
	`, key).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("failed to advance sequence %s: %w", key, err)
	}
	return seq, nil
}

func newUUID() string {
	return uuid.NewString()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// setClause renders "col = $n, ..." for fields in a stable order, mapping
// names through columns and values through encode.
func setClause(fields map[string]any, columns map[string]string, argStart int, encode func(string, any) (any, error)) (string, []any, error) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys))
	for i, k := range keys {
		col, ok := columns[k]
		if !ok {
			return "", nil, fmt.Errorf("no column mapped for field %q", k)
		}
		v := fields[k]
		if encode != nil {
			var err error
			if v, err = encode(k, v); err != nil {
				return "", nil, err
			}
		}
		parts = append(parts, fmt.Sprintf("%s = $%d", unqualified(col), argStart+i))
		args = append(args, v)
	}
	return strings.Join(parts, ", "), args, nil
}

func unqualified(col string) string {
	if i := strings.LastIndex(col, "."); i >= 0 {
		return col[i+1:]
	}
	return col
}

func orderClause(opts FindOptions, columns map[string]string) string {
	clause := ""
	if col, ok := columns[opts.SortBy]; ok {
		clause = " ORDER BY " + col
		if opts.Desc {
			clause += " DESC"
		}
	}
	if opts.Limit > 0 {
		clause += fmt.Sprintf(" LIMIT %d", opts.Limit)
	}
	return clause
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
