package depgraph

import (
	"errors"
	"fmt"
	"slices"
	"testing"
)

func TestOrder(t *testing.T) {
	tests := []struct {
		name   string
		pairs  []Pair
		origin string
		want   []string
	}{
		{
			name:   "isolated node",
			origin: "A1",
			want:   []string{"A1"},
		},
		{
			name:   "chain",
			pairs:  []Pair{{"A1", "B1"}, {"B1", "C1"}},
			origin: "A1",
			want:   []string{"A1", "B1", "C1"},
		},
		{
			name:   "middle of chain",
			pairs:  []Pair{{"A1", "B1"}, {"B1", "C1"}},
			origin: "B1",
			want:   []string{"B1", "C1"},
		},
		{
			name:   "diamond",
			pairs:  []Pair{{"A1", "B1"}, {"A1", "C1"}, {"B1", "D1"}, {"C1", "D1"}},
			origin: "A1",
			want:   []string{"A1", "C1", "B1", "D1"},
		},
		{
			name:   "unrelated cycle is ignored",
			pairs:  []Pair{{"A1", "B1"}, {"X1", "Y1"}, {"Y1", "X1"}},
			origin: "A1",
			want:   []string{"A1", "B1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New()
			for _, p := range tt.pairs {
				g.AddDependency(p.Dependee, p.Dependent)
			}
			got, err := g.Order(tt.origin)
			if err != nil {
				t.Fatalf("Order(%s) error = %v", tt.origin, err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Order(%s) = %v, want %v", tt.origin, got, tt.want)
			}
			assertTopological(t, g, got)
		})
	}
}

func TestOrderCycle(t *testing.T) {
	tests := []struct {
		name   string
		pairs  []Pair
		origin string
		from   string
	}{
		{
			name:   "self reference",
			pairs:  []Pair{{"A1", "A1"}},
			origin: "A1",
			from:   "A1",
		},
		{
			name:   "indirect",
			pairs:  []Pair{{"A1", "B1"}, {"B1", "C1"}, {"C1", "A1"}},
			origin: "A1",
			from:   "C1",
		},
		{
			name:   "from the middle",
			pairs:  []Pair{{"A1", "B1"}, {"B1", "C1"}, {"C1", "A1"}},
			origin: "B1",
			from:   "A1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New()
			for _, p := range tt.pairs {
				g.AddDependency(p.Dependee, p.Dependent)
			}
			got, err := g.Order(tt.origin)
			if got != nil {
				t.Errorf("Order(%s) = %v, want nil", tt.origin, got)
			}
			if !errors.Is(err, ErrCycle) {
				t.Fatalf("Order(%s) error = %v, want ErrCycle", tt.origin, err)
			}
			var ce *CycleError
			if !errors.As(err, &ce) {
				t.Fatalf("error %T is not *CycleError", err)
			}
			if ce.Origin != tt.origin || ce.From != tt.from {
				t.Errorf("CycleError = {%s %s}, want {%s %s}", ce.Origin, ce.From, tt.origin, tt.from)
			}
		})
	}
}

func TestOrderLongChain(t *testing.T) {
	const depth = 100000
	g := New()
	for i := 1; i < depth; i++ {
		g.AddDependency(fmt.Sprintf("A%d", i), fmt.Sprintf("A%d", i+1))
	}

	got, err := g.Order("A1")
	if err != nil {
		t.Fatalf("Order() error = %v", err)
	}
	if len(got) != depth {
		t.Fatalf("len(Order()) = %d, want %d", len(got), depth)
	}
	for i, name := range got {
		if want := fmt.Sprintf("A%d", i+1); name != want {
			t.Fatalf("Order()[%d] = %s, want %s", i, name, want)
		}
	}
}

func TestCycleErrorMessage(t *testing.T) {
	self := &CycleError{Origin: "A1", From: "A1"}
	if got, want := self.Error(), "circular dependency: A1 depends on itself"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	indirect := &CycleError{Origin: "A1", From: "C1"}
	if got, want := indirect.Error(), "circular dependency: A1 depends on C1, which depends on A1"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

// assertTopological checks that every pair between nodes of order points
// forward.
func assertTopological(t *testing.T, g *Graph, order []string) {
	t.Helper()
	pos := make(map[string]int, len(order))
	for i, n := range order {
		pos[n] = i
	}
	for _, p := range g.Pairs() {
		i, ok1 := pos[p.Dependee]
		j, ok2 := pos[p.Dependent]
		if ok1 && ok2 && i >= j {
			t.Errorf("%s appears at %d, after its dependent %s at %d", p.Dependee, i, p.Dependent, j)
		}
	}
}
