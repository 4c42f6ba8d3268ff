package postgresql

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/liftedinit/gopay/internal/models"
)

//go:embed migrations/*
var migrationsFS embed.FS

const (
	insertSubmissionQuery = `
		INSERT INTO gopay.kyc_submissions (
			user_id, first_name, last_name, date_of_birth, address, document_type, document_number, verified
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	countSubmissionsQuery = `SELECT COUNT(*) FROM gopay.kyc_submissions`
)

// Store persists KYC submissions in PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
	db   *sql.DB
}

func NewStore(ctx context.Context, connString string) (*Store, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PostgreSQL connection string: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	store := &Store{
		pool: pool,
		db:   stdlib.OpenDBFromPool(pool),
	}

	// Run migrations. This is idempotent.
	if err = store.runMigrations(); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// DB returns a database/sql handle sharing the store's pool.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) Save(ctx context.Context, userID string, data models.KYCData) error {
	_, err := s.pool.Exec(ctx, insertSubmissionQuery,
		userID, data.FirstName, data.LastName, data.DateOfBirth, data.Address,
		data.DocumentType, data.DocumentNumber, data.Verified)
	if err != nil {
		return fmt.Errorf("failed to write KYC submission: %w", err)
	}
	return nil
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.pool.QueryRow(ctx, countSubmissionsQuery).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count KYC submissions: %w", err)
	}
	return count, nil
}

func (s *Store) runMigrations() error {
	slog.Info("Running PostgreSQL migrations...")

	d, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	driver, err := migratepgx.WithInstance(s.db, &migratepgx.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", d, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	if err = m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

func (s *Store) Close() error {
	slog.Info("Closing PostgreSQL connection pool")
	err := s.db.Close()
	s.pool.Close()
	slog.Info("PostgreSQL connection pool closed")
	return err
}
