package stack_test

import (
	"fmt"
	"time"

	"github.com/matzehuels/streamstack/pkg/series"
	"github.com/matzehuels/streamstack/pkg/stack"
)

func ExampleStack() {
	start := time.Date(2013, 12, 1, 0, 0, 0, 0, time.UTC)
	ds, err := series.FromValues(start, 24*time.Hour,
		[]string{"Heating", "Noise"},
		[][]float64{{4, 5, 6}, {1, 2, 3}},
	)
	if err != nil {
		fmt.Println(err)
		return
	}

	extents, err := stack.Stack(ds, stack.Zero)
	if err != nil {
		fmt.Println(err)
		return
	}
	for k, key := range ds.Keys() {
		fmt.Println(key, extents[k])
	}
	fmt.Println("max", stack.Max(extents))
	// Output:
	// Heating [{0 4} {0 5} {0 6}]
	// Noise [{4 5} {5 7} {6 9}]
	// max 9
}
