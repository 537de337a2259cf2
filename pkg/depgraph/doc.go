// Package depgraph provides the bidirectional dependency graph behind
// spreadsheet recalculation.
//
// # Overview
//
// A [Graph] is a set of ordered pairs (dependee, dependent), read as
// "dependent's value depends on dependee". Both directions are indexed, so
// [Graph.Dependents] and [Graph.Dependees] are map lookups. The graph knows
// nothing about cells or formulas; node names are opaque strings.
//
//	g := depgraph.New()
//	g.AddDependency("A1", "B1") // B1 reads A1
//	g.AddDependency("B1", "C1") // C1 reads B1
//
//	order, err := g.Order("A1") // [A1 B1 C1]
//
// # Invariants
//
// A pair is stored once or not at all, in both indexes at the same time.
// Adjacency sets that become empty are removed, so [Graph.HasDependents]
// and [Graph.HasDependees] are exact. [Graph.Size] is a maintained counter
// of distinct pairs.
//
// # Ordering
//
// [Graph.Order] walks dependents depth-first and returns nodes in reverse
// post-order: every node appears after all nodes it (transitively) depends
// on within the walk. The walk is iterative, so long chains do not grow the
// goroutine stack. Reaching the origin again is reported as a [*CycleError]
// that matches [ErrCycle] with errors.Is.
//
// # Concurrency
//
// Graph is not safe for concurrent use without external synchronization.
package depgraph
