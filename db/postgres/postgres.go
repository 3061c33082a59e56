package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"bharatparcel/config"
	"bharatparcel/logger"

	_ "github.com/lib/pq"
)

type PostgresDB struct {
	Conn *sql.DB
	cfg  *config.Config
	log  *logger.Logger
}

func NewPostgresDB(cfg *config.Config, log *logger.Logger) *PostgresDB {
	return &PostgresDB{cfg: cfg, log: log}
}

func (p *PostgresDB) Connect(ctx context.Context) error {
	conn, err := sql.Open("postgres", p.cfg.PostgresURL)
	if err != nil {
		return fmt.Errorf("failed to open postgres: %w", err)
	}

	// Pool sized for a small managed instance.
	conn.SetMaxOpenConns(5)
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(ctx, p.cfg.WriteTimeout)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return fmt.Errorf("failed to ping postgres: %w", err)
	}
	p.Conn = conn
	p.log.Info("connected to postgres")
	return nil
}

func (p *PostgresDB) Disconnect(context.Context) error {
	if p.Conn != nil {
		return p.Conn.Close()
	}
	return nil
}

func (p *PostgresDB) Ping(ctx context.Context) error {
	if p.Conn == nil {
		return fmt.Errorf("postgres not connected")
	}
	return p.Conn.PingContext(ctx)
}
