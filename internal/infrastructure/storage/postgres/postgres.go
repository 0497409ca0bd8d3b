package postgres

import (
	"context"
	"errors"
	"fmt"

	"attendform/internal/domain/form"
	"attendform/internal/infrastructure/migration"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"
)

const table = "form_records"

// Querier - часть pgxpool.Pool, нужная хранилищу
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var builder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

type Storage struct {
	q    Querier
	pool *pgxpool.Pool
	log  *slog.Logger
}

// New подключается к базе и применяет миграции из каталога migrations.
func New(ctx context.Context, databaseURI, migrations string, log *slog.Logger) (*Storage, error) {
	pool, err := pgxpool.New(ctx, databaseURI)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	mg := migration.NewMigration(migrations, databaseURI, migration.DefaultEngine)
	if err := mg.Up(); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}
	s := NewWithQuerier(pool, log)
	s.pool = pool
	return s, nil
}

func NewWithQuerier(q Querier, log *slog.Logger) *Storage {
	return &Storage{
		q:   q,
		log: log.With("component", "postgres_storage"),
	}
}

func (s *Storage) Get(ctx context.Context, key string) ([]byte, error) {
	query, args, err := builder.
		Select("data").
		From(table).
		Where(squirrel.Eq{"key": key}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var data []byte
	if err := s.q.QueryRow(ctx, query, args...).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, form.ErrNotFound
		}
		s.log.Error("failed to get record", "key", key, "error", err)
		return nil, fmt.Errorf("get record: %w", err)
	}
	return data, nil
}

func (s *Storage) Put(ctx context.Context, key string, value []byte) error {
	query, args, err := builder.
		Insert(table).
		Columns("key", "data", "updated_at").
		Values(key, value, squirrel.Expr("now()")).
		Suffix("ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	if _, err := s.q.Exec(ctx, query, args...); err != nil {
		s.log.Error("failed to put record", "key", key, "error", err)
		return fmt.Errorf("put record: %w", err)
	}
	return nil
}

func (s *Storage) Delete(ctx context.Context, key string) error {
	query, args, err := builder.
		Delete(table).
		Where(squirrel.Eq{"key": key}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	if _, err := s.q.Exec(ctx, query, args...); err != nil {
		s.log.Error("failed to delete record", "key", key, "error", err)
		return fmt.Errorf("delete record: %w", err)
	}
	return nil
}

func (s *Storage) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}
