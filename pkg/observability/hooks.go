// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers register hooks at startup to
// receive events about sheet edits, persistence and store operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// The core packages (depgraph, formula, sheet) never call hooks; the layers
// that own a sheet (the CLI, the HTTP server and the store) do.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetEditHooks(&myEditHooks{})
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    // ... run application
//	}
//
// Callers emit events around the operation they time:
//
//	start := time.Now()
//	affected, err := s.SetContentsOfCell(name, raw)
//	observability.Edit().OnEdit(ctx, id, name, affected, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Edit Hooks
// =============================================================================

// EditHooks receives events from cell edits.
type EditHooks interface {
	// OnEdit records one SetContentsOfCell call. affected is the
	// recalculation order; it is nil when err is non-nil.
	OnEdit(ctx context.Context, sheetID, cell string, affected []string, duration time.Duration, err error)
}

// =============================================================================
// Persist Hooks
// =============================================================================

// PersistHooks receives events when a sheet is saved or loaded.
// target is a file path or a store id.
type PersistHooks interface {
	OnSave(ctx context.Context, target string, cells int, duration time.Duration, err error)
	OnLoad(ctx context.Context, target string, cells int, duration time.Duration, err error)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from document store operations.
type StoreHooks interface {
	OnGet(ctx context.Context, backend, id string, err error)
	OnPut(ctx context.Context, backend, id string, err error)
	OnDelete(ctx context.Context, backend, id string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopEditHooks is a no-op implementation of EditHooks.
type NoopEditHooks struct{}

func (NoopEditHooks) OnEdit(context.Context, string, string, []string, time.Duration, error) {}

// NoopPersistHooks is a no-op implementation of PersistHooks.
type NoopPersistHooks struct{}

func (NoopPersistHooks) OnSave(context.Context, string, int, time.Duration, error) {}
func (NoopPersistHooks) OnLoad(context.Context, string, int, time.Duration, error) {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnGet(context.Context, string, string, error)    {}
func (NoopStoreHooks) OnPut(context.Context, string, string, error)    {}
func (NoopStoreHooks) OnDelete(context.Context, string, string, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	editHooks    EditHooks    = NoopEditHooks{}
	persistHooks PersistHooks = NoopPersistHooks{}
	storeHooks   StoreHooks   = NoopStoreHooks{}
	hooksMu      sync.RWMutex
)

// SetEditHooks registers custom edit hooks.
// This should be called once at application startup.
func SetEditHooks(h EditHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		editHooks = h
	}
}

// SetPersistHooks registers custom persistence hooks.
func SetPersistHooks(h PersistHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		persistHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// Edit returns the registered edit hooks.
func Edit() EditHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return editHooks
}

// Persist returns the registered persistence hooks.
func Persist() PersistHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return persistHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	editHooks = NoopEditHooks{}
	persistHooks = NoopPersistHooks{}
	storeHooks = NoopStoreHooks{}
}
