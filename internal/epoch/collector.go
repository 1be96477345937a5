// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package epoch

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
	"github.com/eapache/queue"
	"golang.org/x/sys/cpu"
)

// DefaultCollectEvery is the number of retirements between reclamation passes
// when the collector is created with a non-positive threshold.
const DefaultCollectEvery = 64

// Record states. An idle record has state 0; a pinned record stores
// epoch<<1 | pinnedBit.
const (
	idle      = 0
	pinnedBit = 1
)

// Collector tracks the global epoch, the registered participants and the
// retired entries awaiting reclamation.
//
// A Collector must not be copied after first use.
type Collector struct {
	_       cpu.CacheLinePad
	epoch   atomix.Uint64 // Global epoch
	_       cpu.CacheLinePad
	records atomix.Pointer[record] // Append-only participant registry
	_       cpu.CacheLinePad
	bag     atomix.Pointer[entry] // Retired entries not yet seen by a reclaimer
	_       cpu.CacheLinePad
	since   atomix.Uint64 // Retirements since the last triggered pass
	_       cpu.CacheLinePad

	reclaiming atomix.Uint64 // 1 while a goroutine owns pending
	pending    *queue.Queue  // *entry, oldest first; owned by the reclaimer
	closed     atomix.Bool
	every      uint64

	retired      atomix.Uint64
	reclaimed    atomix.Uint64
	participants atomix.Uint64
}

// record is one participant slot. next is immutable once the record is
// published in the registry.
type record struct {
	state atomix.Uint64
	next  *record
	_     cpu.CacheLinePad
}

// entry is one retired object with the epoch observed at retirement.
type entry struct {
	epoch   uint64
	reclaim func()
	next    *entry
}

// Stats is a point-in-time snapshot of collector counters.
type Stats struct {
	Epoch        uint64 // Current global epoch
	Retired      uint64 // Entries handed to Retire
	Reclaimed    uint64 // Entries whose reclaim function has run
	Participants int    // Registered participant records
}

// Pending returns the number of retired entries not yet reclaimed.
func (s Stats) Pending() uint64 {
	return s.Retired - s.Reclaimed
}

// NewCollector creates a collector that runs a reclamation pass every
// collectEvery retirements. A non-positive value selects DefaultCollectEvery.
func NewCollector(collectEvery int) *Collector {
	if collectEvery <= 0 {
		collectEvery = DefaultCollectEvery
	}
	return &Collector{
		pending: queue.New(),
		every:   uint64(collectEvery),
	}
}

// Enter pins the calling goroutine to the current epoch and returns the
// guard for the protected region. The guard must be released with Exit,
// normally via defer.
//
// Enter panics if the collector has been closed.
func (c *Collector) Enter() *Guard {
	r := c.claim()
	for {
		e := c.epoch.LoadAcquire()
		r.state.StoreRelease(e<<1 | pinnedBit)
		// The pin must be visible before the epoch is read again.
		atomix.BarrierAcqRel()
		// Republish until the pin matches the epoch seen after it became
		// visible: the global epoch can then run at most one step ahead.
		if c.epoch.LoadAcquire() == e {
			break
		}
	}
	if c.closed.LoadAcquire() {
		r.state.StoreRelease(idle)
		panic("epoch: enter on closed collector")
	}
	return &Guard{c: c, rec: r}
}

// claim takes an idle record from the registry or registers a new one.
func (c *Collector) claim() *record {
	// The claimed state is provisional; Enter overwrites it with the real pin.
	const claimed = pinnedBit
	for r := c.records.LoadAcquire(); r != nil; r = r.next {
		if r.state.LoadRelaxed() == idle && r.state.CompareAndSwapAcqRel(idle, claimed) {
			return r
		}
	}

	r := &record{}
	r.state.StoreRelaxed(claimed)
	for {
		head := c.records.LoadAcquire()
		r.next = head
		if c.records.CompareAndSwapAcqRel(head, r) {
			c.participants.Add(1)
			return r
		}
	}
}

// retire pushes e onto the retired bag.
func (c *Collector) retire(e *entry) {
	// Order the caller's unlink before the stamp read so the stamp is never
	// older than the pin of a guard that could still reach the entry.
	atomix.BarrierAcqRel()
	e.epoch = c.epoch.LoadAcquire()
	for {
		head := c.bag.LoadAcquire()
		e.next = head
		if c.bag.CompareAndSwapAcqRel(head, e) {
			break
		}
	}
	c.retired.Add(1)
}

// noteRetired is called by an exiting guard that retired n entries.
func (c *Collector) noteRetired(n uint64) {
	if c.since.AddAcqRel(n) < c.every {
		return
	}
	c.since.StoreRelaxed(0)
	c.Collect()
}

// Collect tries to advance the global epoch and runs every reclaim function
// that has become safe. It returns immediately if another goroutine is
// already collecting.
func (c *Collector) Collect() {
	if !c.reclaiming.CompareAndSwapAcqRel(0, 1) {
		return
	}
	defer c.reclaiming.StoreRelease(0)

	// Two advances retire a full grace period when no guard lags behind.
	if c.tryAdvance() {
		c.tryAdvance()
	}
	c.reclaimSafe(false)
}

// tryAdvance moves the global epoch forward by one if every pinned record
// has observed the current epoch.
func (c *Collector) tryAdvance() bool {
	atomix.BarrierAcqRel()
	e := c.epoch.LoadAcquire()
	for r := c.records.LoadAcquire(); r != nil; r = r.next {
		s := r.state.LoadAcquire()
		if s&pinnedBit != 0 && s>>1 != e {
			return false
		}
	}
	return c.epoch.CompareAndSwapAcqRel(e, e+1)
}

// reclaimSafe moves the bag into pending and reclaims from the oldest end.
// With force set every pending entry is reclaimed regardless of epoch.
// The caller must own the reclaiming flag.
func (c *Collector) reclaimSafe(force bool) {
	c.takeBag()

	e := c.epoch.LoadAcquire()
	for c.pending.Length() > 0 {
		ent := c.pending.Peek().(*entry)
		if !force && ent.epoch+2 > e {
			break
		}
		c.pending.Remove()
		ent.reclaim()
		c.reclaimed.Add(1)
	}
}

// takeBag detaches the whole bag and appends it to pending oldest first.
func (c *Collector) takeBag() {
	chain := c.bag.SwapAcqRel(nil)
	if chain == nil {
		return
	}

	// The bag is LIFO; reverse it so pending stays roughly epoch-ordered.
	var rev *entry
	for chain != nil {
		next := chain.next
		chain.next = rev
		rev = chain
		chain = next
	}
	for ; rev != nil; rev = rev.next {
		c.pending.Add(rev)
	}
}

// Close tears the collector down. New guards are refused, in-flight guards
// are waited for, and every outstanding reclaim function runs before Close
// returns. Close is idempotent.
func (c *Collector) Close() {
	c.closed.StoreRelease(true)
	atomix.BarrierAcqRel()

	sw := spin.Wait{}
	for !c.reclaiming.CompareAndSwapAcqRel(0, 1) {
		sw.Once()
	}
	defer c.reclaiming.StoreRelease(0)

	for !c.quiescent() {
		sw.Once()
	}
	c.reclaimSafe(true)
}

// quiescent reports whether no record is pinned.
func (c *Collector) quiescent() bool {
	for r := c.records.LoadAcquire(); r != nil; r = r.next {
		if r.state.LoadAcquire() != idle {
			return false
		}
	}
	return true
}

// Closed reports whether Close has been called.
func (c *Collector) Closed() bool {
	return c.closed.LoadAcquire()
}

// Stats returns a snapshot of the collector counters.
func (c *Collector) Stats() Stats {
	return Stats{
		Epoch:        c.epoch.LoadAcquire(),
		Retired:      c.retired.Load(),
		Reclaimed:    c.reclaimed.Load(),
		Participants: int(c.participants.Load()),
	}
}
