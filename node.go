// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lflist

import (
	"sync"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/lflist/internal/epoch"
)

// Link directions. link[front] is the prev pointer, link[back] is next.
const (
	front = 0
	back  = 1
)

// opposite returns the other direction.
func opposite(dir int) int {
	return dir ^ 1
}

// slotState tags what a node's payload slot holds.
type slotState uint8

const (
	slotDummy    slotState = iota // Sentinel: never held a payload
	slotHeld                      // Payload written, not yet consumed
	slotTaken                     // Payload moved out by the winning pop
	slotPoisoned                  // Reclaimed by the collector
)

func (s slotState) String() string {
	switch s {
	case slotDummy:
		return "dummy"
	case slotHeld:
		return "held"
	case slotTaken:
		return "taken"
	case slotPoisoned:
		return "poisoned"
	}
	return "invalid"
}

// slot is the payload of a node. Only the goroutine that owns the node
// touches it: the pusher before linking, the winning popper after
// unlinking, the collector after the grace period.
type slot[T any] struct {
	state slotState
	value T
}

// fill initializes the payload exactly once.
func (s *slot[T]) fill(v T) {
	if s.state == slotHeld {
		panic("lflist: fill of a node that already holds a payload")
	}
	s.value = v
	s.state = slotHeld
}

// take moves the payload out. Taking from anything but a held slot is a
// reclamation defect.
func (s *slot[T]) take() T {
	if s.state != slotHeld {
		panic("lflist: payload read from " + s.state.String() + " node")
	}
	v := s.value
	var zero T
	s.value = zero
	s.state = slotTaken
	return v
}

// node is a heap-allocated link cell shared by every structure in the
// package. The List only uses link[back].
type node[T any] struct {
	link [2]atomix.Pointer[node[T]]
	slot slot[T]
}

// poison clears the node so a stale reader would trip on it.
func (n *node[T]) poison() {
	n.link[front].StoreRelease(nil)
	n.link[back].StoreRelease(nil)
	var zero T
	n.slot.value = zero
	n.slot.state = slotPoisoned
}

// nodePool allocates nodes and routes retired ones through the collector.
// With recycling enabled a reclaimed node returns to a sync.Pool and may be
// handed to a later push; the collector's grace period is what makes that
// reuse ABA-safe.
type nodePool[T any] struct {
	c         *epoch.Collector
	pool      sync.Pool
	recycle   bool
	allocated atomix.Uint64
}

func (p *nodePool[T]) init(c *epoch.Collector, recycle bool) {
	p.c = c
	p.recycle = recycle
	p.pool.New = func() any { return new(node[T]) }
}

// get returns an unlinked node holding v.
func (p *nodePool[T]) get(v T) *node[T] {
	n := p.alloc()
	n.slot.fill(v)
	return n
}

// sentinel returns an unlinked dummy node.
func (p *nodePool[T]) sentinel() *node[T] {
	n := p.alloc()
	n.slot.state = slotDummy
	return n
}

func (p *nodePool[T]) alloc() *node[T] {
	p.allocated.Add(1)
	if p.recycle {
		return p.pool.Get().(*node[T])
	}
	return new(node[T])
}

// retire hands an unlinked node to the collector.
func (p *nodePool[T]) retire(g *epoch.Guard, n *node[T]) {
	epoch.Retire(g, n, p.reclaim)
}

func (p *nodePool[T]) reclaim(n *node[T]) {
	n.poison()
	if p.recycle {
		p.pool.Put(n)
	}
}

// =============================================================================
// Sentinel-anchored chain
// =============================================================================

// chain is the sentinel-anchored linked core: ends[front] is head,
// ends[back] is tail, and both always reference a node. Pushes link new
// nodes at the end they travel toward; pops unlink at the other end, where
// the end node is the dummy one step behind the first payload.
//
// Pushing toward back and popping from front is the classic two-pointer
// queue; the mirror direction is the same algorithm with the links swapped.
type chain[T any] struct {
	_      pad
	ends   [2]atomix.Pointer[node[T]]
	_      pad
	length atomix.Int64
	_      pad
	nodes  nodePool[T]
}

func (ch *chain[T]) init(c *epoch.Collector, recycle bool) {
	ch.nodes.init(c, recycle)
	s := ch.nodes.sentinel()
	ch.ends[front].StoreRelease(s)
	ch.ends[back].StoreRelease(s)
}

// push links v at the dir end.
func (ch *chain[T]) push(v T, dir int) {
	n := ch.nodes.get(v)

	g := ch.nodes.c.Enter()
	defer g.Exit()
	for {
		onto := epoch.Protect(g, &ch.ends[dir])
		if ch.linkOnto(g, onto, n, dir) {
			ch.length.AddAcqRel(1)
			return
		}
	}
}

// linkOnto tries to link n after onto in direction dir. It reports false if
// onto is no longer the last node, after helping the end reference past it.
func (ch *chain[T]) linkOnto(g *epoch.Guard, onto, n *node[T], dir int) bool {
	next := epoch.Protect(g, &onto.link[dir])
	if next != nil {
		ch.ends[dir].CompareAndSwapAcqRel(onto, next)
		return false
	}

	// n is private until the CAS below publishes it.
	n.link[opposite(dir)].StoreRelaxed(onto)
	if !onto.link[dir].CompareAndSwapAcqRel(nil, n) {
		return false
	}
	ch.ends[dir].CompareAndSwapAcqRel(onto, n)
	return true
}

// pop unlinks the payload nearest the end opposite to dir, where dir is the
// direction pushes travel.
func (ch *chain[T]) pop(dir int) (T, error) {
	out := opposite(dir)

	g := ch.nodes.c.Enter()
	defer g.Exit()
	for {
		head := epoch.Protect(g, &ch.ends[out])
		tail := epoch.Protect(g, &ch.ends[dir])
		next := epoch.Protect(g, &head.link[dir])
		if head != ch.ends[out].LoadAcquire() {
			continue
		}
		if next == nil {
			var zero T
			return zero, ErrWouldBlock
		}
		if head == tail {
			// The in end lags behind a linked node. Move it first so it never
			// references the node about to be retired.
			ch.ends[dir].CompareAndSwapAcqRel(tail, next)
			continue
		}
		if ch.ends[out].CompareAndSwapAcqRel(head, next) {
			v := next.slot.take()
			ch.nodes.retire(g, head)
			ch.length.AddAcqRel(-1)
			return v, nil
		}
	}
}

// size returns the length counter clamped at zero.
func (ch *chain[T]) size() int {
	n := ch.length.LoadAcquire()
	if n < 0 {
		return 0
	}
	return int(n)
}
