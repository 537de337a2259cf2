package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/gridcalc/pkg/config"
	errs "github.com/matzehuels/gridcalc/pkg/errors"
	"github.com/matzehuels/gridcalc/pkg/observability"
	"github.com/matzehuels/gridcalc/pkg/sheet"
)

// testStore runs the behaviour every backend shares.
func testStore(t *testing.T, st Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing", func(t *testing.T) {
		_, err := st.Get(ctx, "nope")
		if !errors.Is(err, ErrNotFound) || !errs.Is(err, errs.ErrCodeNotFound) {
			t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
		}
		if err := st.Delete(ctx, "nope"); !errors.Is(err, ErrNotFound) {
			t.Errorf("Delete(missing) error = %v, want ErrNotFound", err)
		}
	})

	t.Run("put get replace", func(t *testing.T) {
		if err := st.Put(ctx, "budget", []byte(`{"Cells":{}}`)); err != nil {
			t.Fatalf("Put() error: %v", err)
		}
		if err := st.Put(ctx, "budget", []byte(`{"Cells":{"A1":{"StringForm":"1"}}}`)); err != nil {
			t.Fatalf("Put() error: %v", err)
		}
		got, err := st.Get(ctx, "budget")
		if err != nil {
			t.Fatalf("Get() error: %v", err)
		}
		if want := `{"Cells":{"A1":{"StringForm":"1"}}}`; string(got) != want {
			t.Errorf("Get() = %s, want %s", got, want)
		}
	})

	t.Run("list", func(t *testing.T) {
		if err := st.Put(ctx, "alpha", []byte("{}")); err != nil {
			t.Fatal(err)
		}
		ids, err := st.List(ctx)
		if err != nil {
			t.Fatalf("List() error: %v", err)
		}
		if !slices.IsSorted(ids) {
			t.Errorf("List() = %v, want sorted", ids)
		}
		for _, want := range []string{"alpha", "budget"} {
			if !slices.Contains(ids, want) {
				t.Errorf("List() = %v, missing %s", ids, want)
			}
		}
	})

	t.Run("delete", func(t *testing.T) {
		for _, id := range []string{"alpha", "budget"} {
			if err := st.Delete(ctx, id); err != nil {
				t.Errorf("Delete(%s) error: %v", id, err)
			}
		}
		if _, err := st.Get(ctx, "budget"); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get(deleted) error = %v, want ErrNotFound", err)
		}
	})

	t.Run("invalid ids", func(t *testing.T) {
		for _, id := range []string{"", "../etc", "a/b", ".hidden", "tab\tid"} {
			if err := st.Put(ctx, id, []byte("{}")); !errs.Is(err, errs.ErrCodeInvalidInput) {
				t.Errorf("Put(%q) error = %v, want INVALID_INPUT", id, err)
			}
			if _, err := st.Get(ctx, id); !errs.Is(err, errs.ErrCodeInvalidInput) {
				t.Errorf("Get(%q) error = %v, want INVALID_INPUT", id, err)
			}
		}
	})
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestMemoryStoreCopiesData(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	data := []byte("{}")
	if err := st.Put(ctx, "s", data); err != nil {
		t.Fatal(err)
	}
	data[0] = 'X'
	got, _ := st.Get(ctx, "s")
	got[1] = 'Y'
	again, _ := st.Get(ctx, "s")
	if string(again) != "{}" {
		t.Errorf("stored data = %s, want {}", again)
	}
}

func TestFileStore(t *testing.T) {
	st, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	testStore(t, st)
}

func TestFileStoreLayout(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	st, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if st.Path() != dir {
		t.Errorf("Path() = %v, want %v", st.Path(), dir)
	}
	if err := st.Put(ctx, "budget", []byte("{}")); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(filepath.Join(dir, "budget.json"))
	if err != nil {
		t.Fatalf("sheet file missing: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("file mode = %o, want 600", perm)
	}

	// Stray files are not sheets.
	os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0o600)
	os.WriteFile(filepath.Join(dir, ".budget.123.tmp"), nil, 0o600)
	os.Mkdir(filepath.Join(dir, "sub.json"), 0o700)

	ids, err := st.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(ids, []string{"budget"}) {
		t.Errorf("List() = %v, want [budget]", ids)
	}
}

func TestFileStoreDefaultDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	st, err := NewFileStore("")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(home, ".config", "gridcalc", "sheets"); st.Path() != want {
		t.Errorf("Path() = %v, want %v", st.Path(), want)
	}
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("GRIDCALC_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("GRIDCALC_TEST_REDIS_ADDR not set")
	}
	st, err := NewRedisStore(context.Background(), config.Redis{Addr: addr}, "gridcalc:test:"+t.Name()+":")
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	testStore(t, st)

	// A prefix that is also a glob must not list keys of another prefix.
	ctx := context.Background()
	glob, err := NewRedisStore(ctx, config.Redis{Addr: addr}, "gridcalc:test:[ab]:")
	if err != nil {
		t.Fatal(err)
	}
	defer glob.Close()
	other, err := NewRedisStore(ctx, config.Redis{Addr: addr}, "gridcalc:test:a:")
	if err != nil {
		t.Fatal(err)
	}
	defer other.Close()
	if err := other.Put(ctx, "stray", []byte("{}")); err != nil {
		t.Fatal(err)
	}
	defer other.Delete(ctx, "stray")
	if ids, err := glob.List(ctx); err != nil || slices.Contains(ids, "stray") {
		t.Errorf("List() = %v, %v, want no keys from gridcalc:test:a:", ids, err)
	}
}

func TestScanPattern(t *testing.T) {
	tests := []struct {
		prefix, want string
	}{
		{"gridcalc:sheet:", "gridcalc:sheet:*"},
		{"", "*"},
		{"team*:", `team\*:*`},
		{"a?b:", `a\?b:*`},
		{"[ab]:", `\[ab\]:*`},
		{`back\slash:`, `back\\slash:*`},
	}
	for _, tt := range tests {
		if got := scanPattern(tt.prefix); got != tt.want {
			t.Errorf("scanPattern(%q) = %q, want %q", tt.prefix, got, tt.want)
		}
	}
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("GRIDCALC_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("GRIDCALC_TEST_MONGO_URI not set")
	}
	ctx := context.Background()
	st, err := NewMongoStore(ctx, config.Mongo{URI: uri, Database: "gridcalc_test", Collection: "sheets"})
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	defer st.coll.Drop(ctx)
	testStore(t, st)
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("GRIDCALC_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("GRIDCALC_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()
	st, err := NewPostgresStore(ctx, config.Postgres{DSN: dsn, Table: "gridcalc_test_sheets"})
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	defer st.db.ExecContext(ctx, "DROP TABLE IF EXISTS "+st.table)
	testStore(t, st)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	st, err := Open(ctx, config.Store{Driver: config.DriverMemory})
	if err != nil {
		t.Fatalf("Open(memory) error: %v", err)
	}
	if _, ok := Unwrap(st).(*MemoryStore); !ok {
		t.Errorf("Unwrap(Open(memory)) = %T, want *MemoryStore", Unwrap(st))
	}

	st, err = Open(ctx, config.Store{Driver: config.DriverFile, Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("Open(file) error: %v", err)
	}
	if _, ok := Unwrap(st).(*FileStore); !ok {
		t.Errorf("Unwrap(Open(file)) = %T, want *FileStore", Unwrap(st))
	}

	if _, err := Open(ctx, config.Store{Driver: "sqlite"}); !errs.Is(err, errs.ErrCodeUnsupported) {
		t.Errorf("Open(sqlite) error = %v, want UNSUPPORTED", err)
	}
}

type recordingStoreHooks struct {
	observability.NoopStoreHooks
	mu     sync.Mutex
	events []string
}

func (h *recordingStoreHooks) record(op, backend, id string, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	e := op + " " + backend + " " + id
	if err != nil {
		e += " err"
	}
	h.events = append(h.events, e)
}

func (h *recordingStoreHooks) OnGet(_ context.Context, b, id string, err error) { h.record("get", b, id, err) }
func (h *recordingStoreHooks) OnPut(_ context.Context, b, id string, err error) { h.record("put", b, id, err) }
func (h *recordingStoreHooks) OnDelete(_ context.Context, b, id string, err error) {
	h.record("delete", b, id, err)
}

func TestOpenEmitsStoreHooks(t *testing.T) {
	observability.Reset()
	defer observability.Reset()
	hooks := &recordingStoreHooks{}
	observability.SetStoreHooks(hooks)

	ctx := context.Background()
	st, err := Open(ctx, config.Store{Driver: config.DriverMemory})
	if err != nil {
		t.Fatal(err)
	}
	st.Put(ctx, "s", []byte("{}"))
	st.Get(ctx, "s")
	st.Delete(ctx, "s")
	st.Get(ctx, "s")

	want := []string{"put memory s", "get memory s", "delete memory s", "get memory s err"}
	if !slices.Equal(hooks.events, want) {
		t.Errorf("events = %v, want %v", hooks.events, want)
	}
}

func TestSaveLoadSheet(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	s := sheet.New()
	for _, edit := range [][2]string{{"A1", "2"}, {"B1", "=A1*3"}, {"C1", "total"}} {
		if _, err := s.SetContentsOfCell(edit[0], edit[1]); err != nil {
			t.Fatal(err)
		}
	}
	if err := SaveSheet(ctx, st, "budget", s); err != nil {
		t.Fatalf("SaveSheet() error: %v", err)
	}

	got, err := LoadSheet(ctx, st, "budget")
	if err != nil {
		t.Fatalf("LoadSheet() error: %v", err)
	}
	if got.Changed() {
		t.Error("loaded sheet reports Changed()")
	}
	v, _ := got.GetCellValue("B1")
	if v != sheet.Number(6) {
		t.Errorf("B1 = %v, want 6", v)
	}

	if _, err := LoadSheet(ctx, st, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadSheet(missing) error = %v, want ErrNotFound", err)
	}

	st.Put(ctx, "broken", []byte("{not json"))
	if _, err := LoadSheet(ctx, st, "broken"); !errs.Is(err, errs.ErrCodeReadWrite) {
		t.Errorf("LoadSheet(broken) error = %v, want READ_WRITE", err)
	}
}

func TestRetryWithBackoff(t *testing.T) {
	old := retryDelay
	retryDelay = time.Millisecond
	defer func() { retryDelay = old }()
	ctx := context.Background()

	t.Run("retries retryable errors", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(ctx, func() error {
			calls++
			if calls < 3 {
				return Retryable(errors.New("transient"))
			}
			return nil
		})
		if err != nil || calls != 3 {
			t.Errorf("RetryWithBackoff() = %v after %d calls, want nil after 3", err, calls)
		}
	})

	t.Run("stops on permanent errors", func(t *testing.T) {
		calls := 0
		perm := errors.New("permanent")
		err := RetryWithBackoff(ctx, func() error {
			calls++
			return perm
		})
		if err != perm || calls != 1 {
			t.Errorf("RetryWithBackoff() = %v after %d calls, want permanent after 1", err, calls)
		}
	})

	t.Run("returns unwrapped last error", func(t *testing.T) {
		last := errors.New("still down")
		err := RetryWithBackoff(ctx, func() error { return Retryable(last) })
		if err != last {
			t.Errorf("RetryWithBackoff() = %v, want %v", err, last)
		}
	})

	t.Run("honours cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(ctx)
		cancel()
		err := RetryWithBackoff(ctx, func() error { return Retryable(errors.New("x")) })
		if !errors.Is(err, context.Canceled) {
			t.Errorf("RetryWithBackoff() = %v, want context.Canceled", err)
		}
	})
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length = %d, want 64", len(h1))
	}
}
