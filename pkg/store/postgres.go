package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/matzehuels/gridcalc/pkg/config"
	errs "github.com/matzehuels/gridcalc/pkg/errors"
)

// PostgresStore keeps one row per sheet in a key/value table.
type PostgresStore struct {
	db    *sql.DB
	table string // quoted identifier
}

// NewPostgresStore opens the database, verifies the connection and creates
// the table if needed.
func NewPostgresStore(ctx context.Context, cfg config.Postgres) (*PostgresStore, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(cfg.DSN))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeReadWrite, err, "open postgres")
	}
	if err := ping(ctx, db.PingContext); err != nil {
		_ = db.Close()
		return nil, errs.Wrap(errs.ErrCodeReadWrite, err, "ping postgres")
	}

	s := &PostgresStore{db: db, table: pgx.Identifier{cfg.Table}.Sanitize()}
	if err := s.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
  id TEXT PRIMARY KEY,
  data TEXT NOT NULL,
  updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
)`, s.table))
	if err != nil {
		return errs.Wrap(errs.ErrCodeReadWrite, err, "create table %s", s.table)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) ([]byte, error) {
	if err := errs.ValidateID(id); err != nil {
		return nil, err
	}
	var data string
	err := s.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT data FROM %s WHERE id = $1`, s.table), id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, backendErr("read", id, err)
	}
	return []byte(data), nil
}

func (s *PostgresStore) Put(ctx context.Context, id string, data []byte) error {
	if err := errs.ValidateID(id); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(`
INSERT INTO %s (id, data, updated_at) VALUES ($1, $2, NOW())
ON CONFLICT (id)
DO UPDATE SET data=EXCLUDED.data,
  updated_at=EXCLUDED.updated_at`, s.table), id, string(data))
	if err != nil {
		return backendErr("write", id, err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	if err := errs.ValidateID(id); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, s.table), id)
	if err != nil {
		return backendErr("remove", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return backendErr("remove", id, err)
	}
	if n == 0 {
		return notFound(id)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`SELECT id FROM %s ORDER BY id`, s.table))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeReadWrite, err, "list sheets")
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errs.Wrap(errs.ErrCodeReadWrite, err, "scan sheet id")
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeReadWrite, err, "list sheets")
	}
	return ids, nil
}

func (s *PostgresStore) Close() error { return s.db.Close() }

var _ Store = (*PostgresStore)(nil)
