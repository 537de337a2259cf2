// Package store persists serialized spreadsheets under string ids.
//
// Every backend stores the JSON document produced by sheet.WriteJSON
// verbatim; the store never interprets it. Backends:
//   - memory: process-local map, for tests and throwaway servers
//   - file: one JSON file per sheet in a directory (~/.config/gridcalc/sheets)
//   - redis: one string key per sheet under a prefix
//   - mongo: one document per sheet in a collection
//   - postgres: one row per sheet in a key/value table
//
// # Usage
//
//	st, err := store.Open(ctx, cfg.Store)
//	if err != nil {
//	    return err
//	}
//	defer st.Close()
//
//	s, err := store.LoadSheet(ctx, st, "budget")
//	...
//	err = store.SaveSheet(ctx, st, "budget", s)
package store

import (
	"context"
	"errors"

	"github.com/matzehuels/gridcalc/pkg/config"
	errs "github.com/matzehuels/gridcalc/pkg/errors"
	"github.com/matzehuels/gridcalc/pkg/observability"
)

// ErrNotFound is returned (wrapped with the NOT_FOUND code) when an id has
// no stored sheet.
var ErrNotFound = errors.New("sheet not found")

// Store is the interface for sheet storage backends.
// Implementations are safe for concurrent use.
type Store interface {
	// Get returns the stored document for id.
	Get(ctx context.Context, id string) ([]byte, error)

	// Put creates or replaces the document for id.
	Put(ctx context.Context, id string, data []byte) error

	// Delete removes the document for id. Deleting a missing id
	// returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	// List returns all stored ids in ascending order.
	List(ctx context.Context) ([]string, error)

	Close() error
}

// Open connects the backend selected by cfg.Driver. Every operation on the
// returned store reports to observability.Store().
func Open(ctx context.Context, cfg config.Store) (Store, error) {
	var (
		st  Store
		err error
	)
	switch cfg.Driver {
	case config.DriverMemory:
		st = NewMemoryStore()
	case config.DriverFile, "":
		st, err = NewFileStore(cfg.Dir)
	case config.DriverRedis:
		st, err = NewRedisStore(ctx, cfg.Redis, cfg.Prefix)
	case config.DriverMongo:
		st, err = NewMongoStore(ctx, cfg.Mongo)
	case config.DriverPostgres:
		st, err = NewPostgresStore(ctx, cfg.Postgres)
	default:
		return nil, errs.New(errs.ErrCodeUnsupported, "unknown store driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	name := cfg.Driver
	if name == "" {
		name = config.DriverFile
	}
	return &instrumented{Store: st, backend: name}, nil
}

// Unwrap returns the backend behind a store returned by Open.
func Unwrap(st Store) Store {
	if in, ok := st.(*instrumented); ok {
		return in.Store
	}
	return st
}

type instrumented struct {
	Store
	backend string
}

func (s *instrumented) Get(ctx context.Context, id string) ([]byte, error) {
	data, err := s.Store.Get(ctx, id)
	observability.Store().OnGet(ctx, s.backend, id, err)
	return data, err
}

func (s *instrumented) Put(ctx context.Context, id string, data []byte) error {
	err := s.Store.Put(ctx, id, data)
	observability.Store().OnPut(ctx, s.backend, id, err)
	return err
}

func (s *instrumented) Delete(ctx context.Context, id string) error {
	err := s.Store.Delete(ctx, id)
	observability.Store().OnDelete(ctx, s.backend, id, err)
	return err
}

func notFound(id string) error {
	return errs.Wrap(errs.ErrCodeNotFound, ErrNotFound, "sheet %q", id)
}

func backendErr(op, id string, err error) error {
	return errs.Wrap(errs.ErrCodeReadWrite, err, "%s sheet %q", op, id)
}
