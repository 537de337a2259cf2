// Package server exposes spreadsheets over a JSON HTTP API.
//
// Sheets live in a store.Store. Recently used sheets are kept open in an LRU
// so edits do not replay the whole document; every successful edit is
// written back to the store before the response is sent.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/matzehuels/gridcalc/pkg/config"
	errs "github.com/matzehuels/gridcalc/pkg/errors"
	"github.com/matzehuels/gridcalc/pkg/sheet"
	"github.com/matzehuels/gridcalc/pkg/store"
)

// Server serves the sheet API.
type Server struct {
	cfg    config.Server
	store  store.Store
	logger *log.Logger

	openMu sync.Mutex // serializes cache misses so a sheet is loaded once
	sheets *lru.Cache[string, *openSheet]
}

// openSheet is a cached sheet. A Spreadsheet is not safe for concurrent use,
// so every access goes through mu.
type openSheet struct {
	mu      sync.Mutex
	s       *sheet.Spreadsheet
	deleted bool // set under mu once the sheet is gone from the store
}

// New creates a server over st.
func New(st store.Store, cfg config.Server, logger *log.Logger) (*Server, error) {
	if logger == nil {
		logger = log.Default()
	}
	sheets, err := lru.New[string, *openSheet](cfg.CacheSize)
	if err != nil {
		return nil, err
	}
	return &Server{cfg: cfg, store: st, logger: logger, sheets: sheets}, nil
}

// ListenAndServe serves on cfg.Addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// open returns the cached sheet for id, loading it from the store on a miss.
func (s *Server) open(ctx context.Context, id string) (*openSheet, error) {
	if o, ok := s.sheets.Get(id); ok {
		return o, nil
	}

	s.openMu.Lock()
	defer s.openMu.Unlock()
	if o, ok := s.sheets.Get(id); ok {
		return o, nil
	}

	sh, err := store.LoadSheet(ctx, s.store, id)
	if err != nil {
		return nil, err
	}
	o := &openSheet{s: sh}
	s.sheets.Add(id, o)
	s.logger.Debug("opened sheet", "id", id, "cells", sh.Len())
	return o, nil
}

// lock opens id and returns it with mu held. A sheet deleted while the
// caller waited for mu is reported as not found.
func (s *Server) lock(ctx context.Context, id string) (*openSheet, error) {
	o, err := s.open(ctx, id)
	if err != nil {
		return nil, err
	}
	o.mu.Lock()
	if o.deleted {
		o.mu.Unlock()
		return nil, errs.Wrap(errs.ErrCodeNotFound, store.ErrNotFound, "sheet %q", id)
	}
	return o, nil
}

func (s *Server) forget(id string) {
	s.sheets.Remove(id)
}
