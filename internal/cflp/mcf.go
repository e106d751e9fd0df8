package cflp

import (
	"container/heap"
	"math"
)

type arc struct {
	to   int
	rev  int
	base int64
	cap  int64
	cost float64
}

// network is a residual graph for successive shortest paths with Johnson
// potentials. Input arc costs must be non-negative.
type network struct {
	g        [][]arc
	pot      []float64
	dist     []float64
	prevNode []int
	prevArc  []int
	pq       distHeap
}

func newNetwork(n int) *network {
	return &network{
		g:        make([][]arc, n),
		pot:      make([]float64, n),
		dist:     make([]float64, n),
		prevNode: make([]int, n),
		prevArc:  make([]int, n),
	}
}

// addArc returns the position of the forward arc in g[u].
func (nw *network) addArc(u, v int, capacity int64, cost float64) int {
	nw.g[u] = append(nw.g[u], arc{to: v, rev: len(nw.g[v]), base: capacity, cap: capacity, cost: cost})
	nw.g[v] = append(nw.g[v], arc{to: u, rev: len(nw.g[u]) - 1, cost: -cost})
	return len(nw.g[u]) - 1
}

func (nw *network) reset() {
	for u := range nw.g {
		for k := range nw.g[u] {
			nw.g[u][k].cap = nw.g[u][k].base
		}
		nw.pot[u] = 0
	}
}

const costEps = 1e-9

// minCostFlow pushes up to want units from s to t and returns the flow and its cost.
func (nw *network) minCostFlow(s, t int, want int64) (int64, float64) {
	var flow int64
	var cost float64

	for flow < want {
		nw.shortestPaths(s)
		if math.IsInf(nw.dist[t], 1) {
			break
		}
		// Capping at dist[t] keeps reduced costs non-negative for unreached nodes.
		for v := range nw.pot {
			d := nw.dist[v]
			if d > nw.dist[t] {
				d = nw.dist[t]
			}
			nw.pot[v] += d
		}

		push := want - flow
		for v := t; v != s; v = nw.prevNode[v] {
			a := nw.g[nw.prevNode[v]][nw.prevArc[v]]
			if a.cap < push {
				push = a.cap
			}
		}
		for v := t; v != s; v = nw.prevNode[v] {
			a := &nw.g[nw.prevNode[v]][nw.prevArc[v]]
			a.cap -= push
			nw.g[v][a.rev].cap += push
			cost += float64(push) * a.cost
		}
		flow += push
	}
	return flow, cost
}

func (nw *network) shortestPaths(s int) {
	for v := range nw.dist {
		nw.dist[v] = math.Inf(1)
		nw.prevNode[v] = -1
	}
	nw.dist[s] = 0
	nw.pq = nw.pq[:0]
	heap.Push(&nw.pq, distItem{node: s})

	for nw.pq.Len() > 0 {
		it := heap.Pop(&nw.pq).(distItem)
		if it.dist > nw.dist[it.node]+costEps {
			continue
		}
		u := it.node
		for k, a := range nw.g[u] {
			if a.cap <= 0 {
				continue
			}
			reduced := a.cost + nw.pot[u] - nw.pot[a.to]
			if reduced < 0 {
				reduced = 0
			}
			nd := nw.dist[u] + reduced
			if nd+costEps < nw.dist[a.to] {
				nw.dist[a.to] = nd
				nw.prevNode[a.to] = u
				nw.prevArc[a.to] = k
				heap.Push(&nw.pq, distItem{node: a.to, dist: nd})
			}
		}
	}
}

type distItem struct {
	node int
	dist float64
}

type distHeap []distItem

func (h distHeap) Len() int           { return len(h) }
func (h distHeap) Less(i, j int) bool { return h[i].dist < h[j].dist }
func (h distHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *distHeap) Push(x any)        { *h = append(*h, x.(distItem)) }
func (h *distHeap) Pop() any {
	old := *h
	it := old[len(old)-1]
	*h = old[:len(old)-1]
	return it
}
