// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lflist

import (
	"iter"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/lflist/internal/epoch"
)

// List is an unbounded lock-free singly-linked list with access at the front
// only, i.e. a Treiber stack.
//
// There is no sentinel: a nil head means empty. Nodes use only their next
// link.
type List[T any] struct {
	_      pad
	head   atomix.Pointer[node[T]]
	_      pad
	length atomix.Int64
	_      pad
	nodes  nodePool[T]
	c      *epoch.Collector
}

// NewList creates an empty list with default options.
func NewList[T any]() *List[T] {
	return BuildList[T](New())
}

func newList[T any](opts Options) *List[T] {
	l := &List[T]{c: epoch.NewCollector(opts.collectEvery)}
	l.nodes.init(l.c, opts.recycle)
	return l
}

// PushFront inserts v at the head.
func (l *List[T]) PushFront(v T) {
	n := l.nodes.get(v)

	g := l.c.Enter()
	defer g.Exit()
	for {
		head := epoch.Protect(g, &l.head)
		n.link[back].StoreRelaxed(head)
		if l.head.CompareAndSwapAcqRel(head, n) {
			l.length.AddAcqRel(1)
			return
		}
	}
}

// PopFront removes and returns the head element.
// Returns (zero-value, ErrWouldBlock) if the list is empty.
func (l *List[T]) PopFront() (T, error) {
	g := l.c.Enter()
	defer g.Exit()
	for {
		head := epoch.Protect(g, &l.head)
		if head == nil {
			var zero T
			return zero, ErrWouldBlock
		}
		next := epoch.Protect(g, &head.link[back])
		if l.head.CompareAndSwapAcqRel(head, next) {
			v := head.slot.take()
			l.nodes.retire(g, head)
			l.length.AddAcqRel(-1)
			return v, nil
		}
	}
}

// Len returns the number of elements. The count is exact at quiescent
// points and an estimate while operations are in flight.
func (l *List[T]) Len() int {
	n := l.length.LoadAcquire()
	if n < 0 {
		return 0
	}
	return int(n)
}

// Drain pops until the list reports empty.
func (l *List[T]) Drain() iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			v, err := l.PopFront()
			if err != nil || !yield(v) {
				return
			}
		}
	}
}

// Close drains the list and releases every retired node through the
// collector. The list must not be used afterwards.
func (l *List[T]) Close() {
	if l.c.Closed() {
		return
	}
	for range l.Drain() {
	}
	l.c.Close()
}

// Stats returns a snapshot of the list's length and reclamation counters.
func (l *List[T]) Stats() Stats {
	return newStats(l.Len(), l.c, &l.nodes)
}
