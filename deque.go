// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lflist

import (
	"iter"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/lflist/internal/epoch"
)

// Deque is an unbounded lock-free double-ended queue.
//
// Based on the CAS-based deque by Michael (Euro-Par 2003). Head, tail and a
// status word live in one immutable anchor that is replaced by a single CAS,
// so both ends always change consistently. A push first installs the new end
// with status pushFront or pushBack, then links the old end's outward
// pointer to it; any operation that finds an unstable anchor finishes that
// link before retrying, so no thread ever waits on another.
//
// There is no sentinel: an empty deque is an anchor with both ends nil, so
// head and tail are nil exactly when the deque is empty.
//
// Anchors are fresh allocations compared by identity, which rules out ABA on
// the anchor. Deque nodes are poisoned after the collector's grace period but
// never reused: stabilization CASes an outward link whose expected value may
// be a node retired before the caller entered its guard, and only the garbage
// collector keeps that address from being handed to a new node.
//
// A pop clears the new end's outward link to the popped node, so at any
// quiescent point the chain from head via next is the reverse of the chain
// from tail via prev and no retired node is reachable from either end.
type Deque[T any] struct {
	_      pad
	anchor atomix.Pointer[anchor[T]]
	_      pad
	length atomix.Int64
	_      pad
	nodes  nodePool[T]
	c      *epoch.Collector
}

// anchorStatus records which end, if any, still has an unset outward link.
type anchorStatus uint8

const (
	stable anchorStatus = iota
	pushFront
	pushBack
)

// pushing returns the unstable status for a push at dir.
func pushing(dir int) anchorStatus {
	return anchorStatus(1 + dir)
}

// anchor is an immutable snapshot of both ends. ends are both nil when the
// deque is empty and equal when it holds one element.
type anchor[T any] struct {
	ends   [2]*node[T]
	status anchorStatus
}

// NewDeque creates an empty deque with default options.
func NewDeque[T any]() *Deque[T] {
	return BuildDeque[T](New())
}

func newDeque[T any](opts Options) *Deque[T] {
	d := &Deque[T]{c: epoch.NewCollector(opts.collectEvery)}
	d.nodes.init(d.c, false)
	d.anchor.StoreRelease(&anchor[T]{})
	return d
}

// PushFront inserts v at the front.
func (d *Deque[T]) PushFront(v T) {
	d.push(v, front)
}

// PushBack inserts v at the back.
func (d *Deque[T]) PushBack(v T) {
	d.push(v, back)
}

// PopFront removes and returns the front element.
// Returns (zero-value, ErrWouldBlock) if the deque is empty.
func (d *Deque[T]) PopFront() (T, error) {
	return d.pop(front)
}

// PopBack removes and returns the back element.
// Returns (zero-value, ErrWouldBlock) if the deque is empty.
func (d *Deque[T]) PopBack() (T, error) {
	return d.pop(back)
}

// Len returns the number of elements. The count is exact at quiescent
// points and an estimate while operations are in flight.
func (d *Deque[T]) Len() int {
	n := d.length.LoadAcquire()
	if n < 0 {
		return 0
	}
	return int(n)
}

func (d *Deque[T]) push(v T, dir int) {
	n := d.nodes.get(v)
	in := opposite(dir)

	g := d.c.Enter()
	defer g.Exit()
	for {
		a := epoch.Protect(g, &d.anchor)
		switch {
		case a.ends[dir] == nil:
			if d.anchor.CompareAndSwapAcqRel(a, &anchor[T]{ends: [2]*node[T]{n, n}}) {
				d.length.AddAcqRel(1)
				return
			}
		case a.status == stable:
			n.link[in].StoreRelaxed(a.ends[dir])
			na := &anchor[T]{status: pushing(dir)}
			na.ends[dir] = n
			na.ends[in] = a.ends[in]
			if d.anchor.CompareAndSwapAcqRel(a, na) {
				d.stabilize(g, na, dir)
				d.length.AddAcqRel(1)
				return
			}
		default:
			d.stabilizeAny(g, a)
		}
	}
}

func (d *Deque[T]) pop(dir int) (T, error) {
	in := opposite(dir)

	g := d.c.Enter()
	defer g.Exit()
	for {
		a := epoch.Protect(g, &d.anchor)
		end := a.ends[dir]
		switch {
		case end == nil:
			var zero T
			return zero, ErrWouldBlock
		case a.ends[front] == a.ends[back]:
			if d.anchor.CompareAndSwapAcqRel(a, &anchor[T]{}) {
				return d.consume(g, end), nil
			}
		case a.status == stable:
			na := &anchor[T]{}
			na.ends[dir] = epoch.Protect(g, &end.link[in])
			na.ends[in] = a.ends[in]
			if d.anchor.CompareAndSwapAcqRel(a, na) {
				// Best effort: a push that already replaced the link has
				// dropped the popped node from the chain itself.
				na.ends[dir].link[dir].CompareAndSwapAcqRel(end, nil)
				return d.consume(g, end), nil
			}
		default:
			d.stabilizeAny(g, a)
		}
	}
}

// consume takes the payload of a node the caller has just unlinked and
// retires the node.
func (d *Deque[T]) consume(g *epoch.Guard, n *node[T]) T {
	v := n.slot.take()
	d.nodes.retire(g, n)
	d.length.AddAcqRel(-1)
	return v
}

func (d *Deque[T]) stabilizeAny(g *epoch.Guard, a *anchor[T]) {
	if a.status == pushFront {
		d.stabilize(g, a, front)
	} else {
		d.stabilize(g, a, back)
	}
}

// stabilize links the previous dir end to the node a installed there, then
// marks a stable. It gives up as soon as the anchor moves past a. A failed
// link CAS is retried: a pop that finished just before a may still be
// clearing the same link.
func (d *Deque[T]) stabilize(g *epoch.Guard, a *anchor[T], dir int) {
	newest := a.ends[dir]
	inner := epoch.Protect(g, &newest.link[opposite(dir)])
	for {
		if d.anchor.LoadAcquire() != a {
			return
		}
		out := epoch.Protect(g, &inner.link[dir])
		if out == newest {
			break
		}
		if inner.link[dir].CompareAndSwapAcqRel(out, newest) {
			break
		}
	}
	d.anchor.CompareAndSwapAcqRel(a, &anchor[T]{ends: a.ends})
}

// Drain pops from the front until the deque reports empty.
func (d *Deque[T]) Drain() iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			v, err := d.PopFront()
			if err != nil || !yield(v) {
				return
			}
		}
	}
}

// Close drains the deque and releases every retired node through the
// collector. The deque must not be used afterwards.
func (d *Deque[T]) Close() {
	if d.c.Closed() {
		return
	}
	for range d.Drain() {
	}
	d.c.Close()
}

// Stats returns a snapshot of the deque's length and reclamation counters.
func (d *Deque[T]) Stats() Stats {
	return newStats(d.Len(), d.c, &d.nodes)
}
