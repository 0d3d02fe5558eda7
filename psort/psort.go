package psort

import (
	"container/heap"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
)

// minParallelLen is the smallest slice length worth splitting; below this,
// Sort falls back to a plain sequential sort.
const minParallelLen = 1 << 14

// Sort sorts items in place using less as the ordering predicate. For large
// slices it splits the work into runtime.GOMAXPROCS(0) chunks, sorts each
// chunk concurrently, then performs a k-way merge back into items.
func Sort[T any](items []T, less func(a, b T) bool) {
	n := len(items)
	if n < minParallelLen {
		sort.Slice(items, func(i, j int) bool { return less(items[i], items[j]) })
		return
	}

	workers := runtime.GOMAXPROCS(0)
	if workers < 1 {
		workers = 1
	}
	chunkSize := (n + workers - 1) / workers
	if chunkSize < 1 {
		chunkSize = 1
	}

	var chunks [][]T
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		chunks = append(chunks, items[start:end])
	}

	var g errgroup.Group
	for _, c := range chunks {
		c := c
		g.Go(func() error {
			sort.Slice(c, func(i, j int) bool { return less(c[i], c[j]) })
			return nil
		})
	}
	_ = g.Wait() // chunk sorts never error

	merged := make([]T, 0, n)
	mh := &mergeHeap[T]{chunks: chunks, less: less}
	for i := range chunks {
		if len(chunks[i]) > 0 {
			mh.items = append(mh.items, cursor{chunk: i, idx: 0})
		}
	}
	heap.Init(mh)
	for mh.Len() > 0 {
		top := mh.items[0]
		merged = append(merged, chunks[top.chunk][top.idx])
		if top.idx+1 < len(chunks[top.chunk]) {
			mh.items[0] = cursor{chunk: top.chunk, idx: top.idx + 1}
			heap.Fix(mh, 0)
		} else {
			heap.Pop(mh)
		}
	}
	copy(items, merged)
}

type cursor struct {
	chunk, idx int
}

// mergeHeap is a container/heap min-heap over the current head of each
// sorted chunk, used to perform the final k-way merge.
type mergeHeap[T any] struct {
	items  []cursor
	chunks [][]T
	less   func(a, b T) bool
}

func (h *mergeHeap[T]) Len() int { return len(h.items) }
func (h *mergeHeap[T]) Less(i, j int) bool {
	a := h.chunks[h.items[i].chunk][h.items[i].idx]
	b := h.chunks[h.items[j].chunk][h.items[j].idx]
	return h.less(a, b)
}
func (h *mergeHeap[T]) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }
func (h *mergeHeap[T]) Push(x any)    { h.items = append(h.items, x.(cursor)) }
func (h *mergeHeap[T]) Pop() any {
	old := h.items
	n := len(old)
	item := old[n-1]
	h.items = old[:n-1]
	return item
}
