// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lflist

import (
	"iter"

	"code.hybscloud.com/lflist/internal/epoch"
)

// Queue is an unbounded lock-free FIFO queue.
//
// Based on the two-pointer queue by Michael and Scott (PODC 1996). Head
// references a dummy node one step behind the oldest element; tail references
// the newest node or lags behind it by the pushes still finishing. Any
// operation that sees a lagging tail advances it instead of waiting.
//
// Elements enter at the back and leave at the front. Each node also carries
// a prev link to its predecessor, maintained on push for symmetry with
// [Deque] and never read by the queue's operations.
//
// Memory: one node per element plus the dummy; popped nodes are recycled
// after the collector's grace period unless the builder disabled it.
type Queue[T any] struct {
	chain chain[T]
	c     *epoch.Collector
}

// NewQueue creates an empty queue with default options.
func NewQueue[T any]() *Queue[T] {
	return BuildQueue[T](New())
}

func newQueue[T any](opts Options) *Queue[T] {
	q := &Queue[T]{c: epoch.NewCollector(opts.collectEvery)}
	q.chain.init(q.c, opts.recycle)
	return q
}

// PushBack appends v to the queue.
func (q *Queue[T]) PushBack(v T) {
	q.chain.push(v, back)
}

// PopFront removes and returns the oldest element.
// Returns (zero-value, ErrWouldBlock) if the queue is empty.
func (q *Queue[T]) PopFront() (T, error) {
	return q.chain.pop(back)
}

// Len returns the number of elements. The count is exact at quiescent
// points and an estimate while operations are in flight.
func (q *Queue[T]) Len() int {
	return q.chain.size()
}

// Drain pops until the queue reports empty.
func (q *Queue[T]) Drain() iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			v, err := q.PopFront()
			if err != nil || !yield(v) {
				return
			}
		}
	}
}

// Close drains the queue and releases every retired node through the
// collector. The dummy node stays with the queue. The queue must not be used
// afterwards.
func (q *Queue[T]) Close() {
	if q.c.Closed() {
		return
	}
	for range q.Drain() {
	}
	q.c.Close()
}

// Stats returns a snapshot of the queue's length and reclamation counters.
func (q *Queue[T]) Stats() Stats {
	return newStats(q.Len(), q.c, &q.chain.nodes)
}
