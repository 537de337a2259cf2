package depgraph_test

import (
	"errors"
	"fmt"

	"github.com/matzehuels/gridcalc/pkg/depgraph"
)

func ExampleGraph_Order() {
	// B1 = A1 + 2, C1 = B1 * 2, D1 = A1 + C1
	g := depgraph.New()
	g.AddDependency("A1", "B1")
	g.AddDependency("B1", "C1")
	g.AddDependency("A1", "D1")
	g.AddDependency("C1", "D1")

	order, _ := g.Order("A1")
	fmt.Println(order)
	// Output:
	// [A1 B1 C1 D1]
}

func ExampleGraph_Order_cycle() {
	g := depgraph.New()
	g.AddDependency("A1", "B1")
	g.AddDependency("B1", "A1")

	_, err := g.Order("A1")
	fmt.Println(errors.Is(err, depgraph.ErrCycle))
	fmt.Println(err)
	// Output:
	// true
	// circular dependency: A1 depends on B1, which depends on A1
}

func ExampleGraph_ReplaceDependees() {
	g := depgraph.New()
	g.AddDependency("A1", "C1")
	g.AddDependency("B1", "C1")

	// C1 is edited from "=A1+B1" to "=B1*E1".
	g.ReplaceDependees("C1", []string{"B1", "E1"})
	fmt.Println(g.Dependees("C1"), g.Size())
	// Output:
	// [B1 E1] 2
}
