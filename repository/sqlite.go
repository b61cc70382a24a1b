package repository

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"bikefit/domain"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// SQLiteStore keeps the bike dataset and the calculation log in one SQLite
// database. It implements BikeRepository and CalculationRepository.
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// OpenSQLite opens the database at path and migrates it to the latest schema.
func OpenSQLite(path string, logger *zap.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// One writer at a time; SQLite serialises writes anyway.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, logger: logger.Named("sqlite")}
	if err := s.migrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) migrateUp() error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}
	driver, err := sqlite.WithInstance(s.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to create sqlite driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	m.Log = &migrateLogger{logger: s.logger}
	// m is not closed: that would close the shared *sql.DB.

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) All(ctx context.Context) ([]domain.BikeRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT brand, model, size, reach, stack, style, material, fields FROM bikes ORDER BY bike_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query bikes: %w", err)
	}
	defer rows.Close()

	records := []domain.BikeRecord{}
	for rows.Next() {
		var (
			rec    domain.BikeRecord
			fields string
		)
		if err := rows.Scan(&rec.Brand, &rec.Model, &rec.Size, &rec.Reach, &rec.Stack, &rec.Style, &rec.Material, &fields); err != nil {
			return nil, fmt.Errorf("failed to scan bike: %w", err)
		}
		if err := json.Unmarshal([]byte(fields), &rec.Fields); err != nil {
			return nil, fmt.Errorf("failed to decode fields of %s %s %s: %w", rec.Brand, rec.Model, rec.Size, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// Replace swaps the whole dataset in one transaction.
func (s *SQLiteStore) Replace(ctx context.Context, records []domain.BikeRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM bikes`); err != nil {
		return fmt.Errorf("failed to clear bikes: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO bikes (brand, model, size, reach, stack, style, material, fields) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		fields, err := json.Marshal(rec.Fields)
		if err != nil {
			return fmt.Errorf("failed to encode fields: %w", err)
		}
		if rec.Fields == nil {
			fields = []byte("{}")
		}
		if _, err := stmt.ExecContext(ctx, rec.Brand, rec.Model, rec.Size, rec.Reach, rec.Stack, rec.Style, rec.Material, string(fields)); err != nil {
			return fmt.Errorf("failed to insert bike: %w", err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Save(ctx context.Context, rec domain.CalculationRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO calculations (calculation_id, kind, input, result, created_at) VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.Kind, string(rec.Input), string(rec.Result), rec.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to save calculation: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]domain.CalculationRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT calculation_id, kind, input, result, created_at FROM calculations ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query calculations: %w", err)
	}
	defer rows.Close()

	out := []domain.CalculationRecord{}
	for rows.Next() {
		var (
			rec           domain.CalculationRecord
			input, result string
			createdAt     time.Time
		)
		if err := rows.Scan(&rec.ID, &rec.Kind, &input, &result, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan calculation: %w", err)
		}
		rec.Input = []byte(input)
		rec.Result = []byte(result)
		rec.CreatedAt = createdAt
		out = append(out, rec)
	}
	return out, rows.Err()
}

type migrateLogger struct {
	logger *zap.Logger
}

func (l *migrateLogger) Printf(format string, v ...interface{}) {
	l.logger.Sugar().Infof("[migrate] "+format, v...)
}

func (l *migrateLogger) Verbose() bool {
	return false
}
