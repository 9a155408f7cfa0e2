package transducer

import "container/heap"

// nullPathItem is one entry of the longest-null-chain search's open list:
// a visited state, the accumulated count of null hops taken to reach it,
// and its heap index.
type nullPathItem struct {
	state StateIdx
	prev  *nullPathItem
	hops  int
	index int
}

// nullPathQueue implements container/heap.Interface as a max-heap ordered
// by hops, so Pop always returns the currently-longest known null chain.
type nullPathQueue []*nullPathItem

func (q nullPathQueue) Len() int            { return len(q) }
func (q nullPathQueue) Less(i, j int) bool  { return q[i].hops > q[j].hops }
func (q nullPathQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i]; q[i].index = i; q[j].index = j }
func (q *nullPathQueue) Push(x interface{}) {
	item := x.(*nullPathItem)
	item.index = len(*q)
	*q = append(*q, item)
}
func (q *nullPathQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*q = old[:n-1]
	return item
}

// ShortestNullPath finds the longest chain of null transitions reachable
// from the start state, as a best-first search over nullPathQueue. Its
// point isn't speed (nullOrder already gives a valid topological order in
// O(states+transitions)) but value: it surfaces the null-subgraph
// acyclicity invariant as an inspectable witness path rather than a bare
// boolean, which is useful for fuzz/property tests that want to assert a
// bound on how deep a null closure can ever run for a given machine.
//
// Returns the path of state names from start to the deepest reachable
// state along null transitions only, and the number of null hops taken.
func (m *Machine) ShortestNullPath() (path []string, hops int) {
	best := make(map[StateIdx]*nullPathItem, len(m.states))
	start := &nullPathItem{state: m.start, hops: 0}
	best[m.start] = start

	pq := &nullPathQueue{start}
	heap.Init(pq)

	var deepest *nullPathItem
	for pq.Len() > 0 {
		cur := heap.Pop(pq).(*nullPathItem)
		if deepest == nil || cur.hops > deepest.hops {
			deepest = cur
		}
		for _, t := range m.states[cur.state].Out {
			if !t.IsNull() {
				continue
			}
			if existing, ok := best[t.Dest]; ok && existing.hops >= cur.hops+1 {
				continue
			}
			next := &nullPathItem{state: t.Dest, prev: cur, hops: cur.hops + 1}
			best[t.Dest] = next
			heap.Push(pq, next)
		}
	}

	if deepest == nil {
		return nil, 0
	}
	var names []string
	for cur := deepest; cur != nil; cur = cur.prev {
		names = append([]string{m.states[cur.state].Name}, names...)
	}
	return names, deepest.hops
}
