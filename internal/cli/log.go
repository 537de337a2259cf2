package cli

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gridcalc/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Loaded 42 cells (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Observability hooks
// =============================================================================

// logHooks reports edits, persistence and store calls at debug level.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnEdit(_ context.Context, sheetID, cell string, affected []string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("edit rejected", "sheet", sheetID, "cell", cell, "err", err)
		return
	}
	h.logger.Debug("edit", "sheet", sheetID, "cell", cell,
		"recalculated", strings.Join(affected, ","), "took", d.Round(time.Microsecond))
}

func (h *logHooks) OnSave(_ context.Context, target string, cells int, d time.Duration, err error) {
	h.persisted("save", target, cells, d, err)
}

func (h *logHooks) OnLoad(_ context.Context, target string, cells int, d time.Duration, err error) {
	h.persisted("load", target, cells, d, err)
}

func (h *logHooks) persisted(op, target string, cells int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug(op+" failed", "target", target, "err", err)
		return
	}
	h.logger.Debug(op, "target", target, "cells", cells, "took", d.Round(time.Microsecond))
}

func (h *logHooks) OnGet(_ context.Context, backend, id string, err error) {
	h.stored("get", backend, id, err)
}

func (h *logHooks) OnPut(_ context.Context, backend, id string, err error) {
	h.stored("put", backend, id, err)
}

func (h *logHooks) OnDelete(_ context.Context, backend, id string, err error) {
	h.stored("delete", backend, id, err)
}

func (h *logHooks) stored(op, backend, id string, err error) {
	if err != nil {
		h.logger.Debug("store "+op, "backend", backend, "id", id, "err", err)
		return
	}
	h.logger.Debug("store "+op, "backend", backend, "id", id)
}

var (
	_ observability.EditHooks    = (*logHooks)(nil)
	_ observability.PersistHooks = (*logHooks)(nil)
	_ observability.StoreHooks   = (*logHooks)(nil)
)
