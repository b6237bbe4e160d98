package search

import (
	"container/heap"
	"logistics-sim/internal/domain"
)

type frontierItem struct {
	node domain.Node
	cost int
	seq  uint64
}

// frontier is a binary min-heap keyed by accumulated cost. Equal costs pop
// in insertion order. Superseded entries are left in place and filtered
// when popped.
type frontier struct {
	items []frontierItem
	next  uint64
}

func (f *frontier) Len() int { return len(f.items) }

func (f *frontier) Less(i, j int) bool {
	if f.items[i].cost != f.items[j].cost {
		return f.items[i].cost < f.items[j].cost
	}
	return f.items[i].seq < f.items[j].seq
}

func (f *frontier) Swap(i, j int) { f.items[i], f.items[j] = f.items[j], f.items[i] }

func (f *frontier) Push(x any) { f.items = append(f.items, x.(frontierItem)) }

func (f *frontier) Pop() any {
	old := f.items
	n := len(old)
	item := old[n-1]
	f.items = old[:n-1]
	return item
}

func (f *frontier) add(cost int, n domain.Node) {
	heap.Push(f, frontierItem{node: n, cost: cost, seq: f.next})
	f.next++
}

func (f *frontier) pop() frontierItem {
	return heap.Pop(f).(frontierItem)
}
