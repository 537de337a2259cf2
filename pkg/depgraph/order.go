package depgraph

import (
	"errors"
	"fmt"
	"slices"
)

// ErrCycle is matched by every [*CycleError].
var ErrCycle = errors.New("circular dependency")

// CycleError reports that the walk from Origin came back to Origin through
// an edge leaving From.
type CycleError struct {
	Origin string
	From   string
}

func (e *CycleError) Error() string {
	if e.From == e.Origin {
		return fmt.Sprintf("circular dependency: %s depends on itself", e.Origin)
	}
	return fmt.Sprintf("circular dependency: %s depends on %s, which depends on %s", e.Origin, e.From, e.Origin)
}

func (e *CycleError) Unwrap() error { return ErrCycle }

// Order returns origin followed by every node that transitively depends on
// it, arranged so that each node comes after the nodes it depends on.
// Dependents are visited in sorted order, so the result is deterministic.
//
// If a dependent equal to origin is reached the walk stops and a
// *CycleError is returned. Cycles that do not pass through origin are not
// reported.
func (g *Graph) Order(origin string) ([]string, error) {
	type frame struct {
		node     string
		children []string
		next     int
	}

	visited := map[string]bool{origin: true}
	stack := []*frame{{node: origin, children: g.Dependents(origin)}}
	var post []string

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.next == len(top.children) {
			stack = stack[:len(stack)-1]
			post = append(post, top.node)
			continue
		}
		child := top.children[top.next]
		top.next++
		if child == origin {
			return nil, &CycleError{Origin: origin, From: top.node}
		}
		if visited[child] {
			continue
		}
		visited[child] = true
		stack = append(stack, &frame{node: child, children: g.Dependents(child)})
	}

	slices.Reverse(post)
	return post, nil
}
