// Copyright 2015 the GoSpatial Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// licence that can be found in the LICENCE.txt file.

// File created by John Lindsay, March 2015 based on code originally found at
// https://github.com/oleiade/lane/blob/master/pqueue.go

package structures

// PQType represents a priority queue ordering kind (see MAXPQ and MINPQ)
type PQType int

const (
	MAXPQ PQType = iota
	MINPQ
)

type item struct {
	value    int
	priority float64
	seq      int
}

// PQueue is a binary heap of flat cell indices keyed by elevation. Items of
// equal priority pop in insertion order so that floods are reproducible.
// It is not safe for concurrent use; each flood owns its own queue.
type PQueue struct {
	items      []item
	pushed     int
	comparator func(a, b item) bool
}

// NewPQueue creates a new priority queue with the provided pqtype
// ordering type
func NewPQueue(pqType PQType) *PQueue {
	cmp := higher
	if pqType == MINPQ {
		cmp = lower
	}
	return &PQueue{comparator: cmp}
}

// Push the value into the priority queue with provided priority.
func (pq *PQueue) Push(value int, priority float64) {
	pq.items = append(pq.items, item{value: value, priority: priority, seq: pq.pushed})
	pq.pushed++
	pq.swim(len(pq.items) - 1)
}

// Pop returns the highest/lowest priority value (depending on whether
// you're using a MINPQ or MAXPQ) together with its priority.
func (pq *PQueue) Pop() (int, float64, bool) {
	n := len(pq.items)
	if n == 0 {
		return 0, 0, false
	}
	top := pq.items[0]
	pq.items[0] = pq.items[n-1]
	pq.items = pq.items[:n-1]
	pq.sink(0)
	return top.value, top.priority, true
}

func (pq *PQueue) Len() int {
	return len(pq.items)
}

// a precedes b in a max queue
func higher(a, b item) bool {
	if a.priority != b.priority {
		return a.priority > b.priority
	}
	return a.seq < b.seq
}

// a precedes b in a min queue
func lower(a, b item) bool {
	if a.priority != b.priority {
		return a.priority < b.priority
	}
	return a.seq < b.seq
}

func (pq *PQueue) swim(k int) {
	for k > 0 {
		parent := (k - 1) / 2
		if !pq.comparator(pq.items[k], pq.items[parent]) {
			break
		}
		pq.items[k], pq.items[parent] = pq.items[parent], pq.items[k]
		k = parent
	}
}

func (pq *PQueue) sink(k int) {
	n := len(pq.items)
	for {
		j := 2*k + 1
		if j >= n {
			break
		}
		if j+1 < n && pq.comparator(pq.items[j+1], pq.items[j]) {
			j++
		}
		if !pq.comparator(pq.items[j], pq.items[k]) {
			break
		}
		pq.items[k], pq.items[j] = pq.items[j], pq.items[k]
		k = j
	}
}
