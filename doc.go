// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package lflist provides unbounded lock-free linked containers.
//
// Three structures cover the usual pipeline building blocks:
//
//   - List: singly-linked, push and pop at the front (Treiber stack)
//   - Queue: push at the back, pop at the front (Michael-Scott queue)
//   - Deque: push and pop at both ends (Michael's CAS deque)
//
// Every operation is safe for any number of concurrent goroutines. No
// operation takes a lock; contended operations retry their CAS until one
// wins, so the system as a whole always makes progress (lock-free, not
// wait-free).
//
// # Quick Start
//
// Direct constructors use default options:
//
//	q := lflist.NewQueue[Event]()
//	d := lflist.NewDeque[*Request]()
//	s := lflist.NewList[Task]()
//
// Builder API for reclamation tuning:
//
//	q := lflist.BuildQueue[Event](lflist.New().CollectEvery(256))
//	s := lflist.BuildList[Task](lflist.New().NoRecycle())
//
// # Basic Usage
//
//	q := lflist.NewQueue[int]()
//
//	// Push never fails: the structures are unbounded
//	q.PushBack(42)
//
//	// Pop (non-blocking)
//	v, err := q.PopFront()
//	if lflist.IsWouldBlock(err) {
//	    // Queue is empty - try again later
//	}
//
// # Common Patterns
//
// Work queue (Queue):
//
//	jobs := lflist.NewQueue[Job]()
//
//	for range numWorkers {
//	    go func() {
//	        backoff := iox.Backoff{}
//	        for {
//	            job, err := jobs.PopFront()
//	            if err != nil {
//	                backoff.Wait()
//	                continue
//	            }
//	            backoff.Reset()
//	            job.Run()
//	        }
//	    }()
//	}
//
//	jobs.PushBack(Job{...}) // from anywhere
//
// Free list (List):
//
//	free := lflist.NewList[*Buffer]()
//	buf, err := free.PopFront()
//	if err != nil {
//	    buf = newBuffer()
//	}
//	...
//	free.PushFront(buf)
//
// Ready list with priority insert (Deque):
//
//	ready := lflist.NewDeque[*Task]()
//	ready.PushBack(t)      // normal
//	ready.PushFront(urgent) // runs next
//	next, err := ready.PopFront()
//
// # Memory Reclamation
//
// Each structure owns an epoch-based collector. Every operation runs inside a
// guard; nodes it unlinks are retired to the collector, which poisons them
// (and, for List and Queue, recycles them for later pushes) only after every
// guard that could still hold a reference has exited. A node's payload is read
// exactly once, by the goroutine whose CAS unlinked it.
//
// Reclamation runs inline on the way out of an operation once
// CollectEvery retirements have accumulated; no background goroutine is
// started. [Queue.Stats], [Deque.Stats] and [List.Stats] expose the
// counters.
//
// # Length
//
// Len is maintained with separate increments and decrements around each
// linking CAS. It is exact at quiescent points and an estimate while
// operations are in flight; it never reports a negative value.
//
// # Teardown
//
// Close drains the structure and releases every retired node through the
// collector before shutting it down. Use [Queue.Drain] (and the List and
// Deque equivalents) to consume the remaining elements first if they matter:
//
//	for v := range q.Drain() {
//	    handle(v)
//	}
//	q.Close()
//
// A structure must not be used after Close. Dropping a structure without
// Close is also fine; the garbage collector reclaims it.
//
// # Error Handling
//
// Pops return [ErrWouldBlock] when the structure is empty. This error is
// sourced from [code.hybscloud.com/iox] for ecosystem consistency and is a
// control flow signal, not a failure:
//
//	lflist.IsWouldBlock(err)  // true if empty
//	lflist.IsSemantic(err)    // true if control flow signal
//	lflist.IsNonFailure(err)  // true if nil or ErrWouldBlock
//
// Misuse (operating on a closed structure, invalid builder options) panics.
//
// # Race Detection
//
// Node links and counters use atomix with explicit memory ordering. The race
// detector does not see atomix operations as synchronization, so the
// concurrent tests are skipped under -race (see [RaceEnabled]).
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors,
// [code.hybscloud.com/atomix] for links and counters with explicit memory ordering,
// [code.hybscloud.com/spin] for CPU pause while tearing down a collector,
// [github.com/eapache/queue] for the collector's pending list and
// [golang.org/x/sys/cpu] for cache line padding.
package lflist
