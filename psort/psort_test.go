package psort

import (
	"math/rand"
	"sort"
	"testing"
)

func TestSortSmallSlice(t *testing.T) {
	items := []int{5, 3, 1, 4, 2}
	Sort(items, func(a, b int) bool { return a < b })
	if !sort.IntsAreSorted(items) {
		t.Fatalf("expected sorted slice, got %v", items)
	}
}

func TestSortLargeSliceParallelPath(t *testing.T) {
	n := minParallelLen * 3
	items := make([]int, n)
	rng := rand.New(rand.NewSource(42))
	for i := range items {
		items[i] = rng.Intn(n * 10)
	}
	Sort(items, func(a, b int) bool { return a < b })
	if !sort.IntsAreSorted(items) {
		t.Fatalf("expected sorted slice of length %d", n)
	}
}

func TestSortStructs(t *testing.T) {
	type pair struct{ k, v int }
	items := []pair{{3, 1}, {1, 2}, {2, 3}}
	Sort(items, func(a, b pair) bool { return a.k < b.k })
	for i := 0; i < len(items)-1; i++ {
		if items[i].k > items[i+1].k {
			t.Fatalf("not sorted: %v", items)
		}
	}
}
