// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package epoch provides epoch-based deferred reclamation for lock-free
// linked structures.
//
// A [Collector] hands out [Guard]s. While a guard is live, every node loaded
// through [Protect] stays valid: a concurrent [Retire] of that node defers its
// reclaim function until the global epoch has advanced two steps past the
// retirement, which cannot happen while any guard pinned at or before the
// retirement epoch is still live.
//
//	g := c.Enter()
//	defer g.Exit()
//	for {
//	    head := epoch.Protect(g, &s.head)
//	    ...
//	    if s.head.CompareAndSwap(head, next) {
//	        epoch.Retire(g, head, recycle)
//	        return
//	    }
//	}
//
// In Go the garbage collector owns memory, so "reclaim" means handing the
// node back to its owner for reuse. Reuse is what makes early reclamation
// unsafe (ABA on CAS, payload overwrite), and the epoch rule is what rules it
// out.
//
// Participants are kept in an append-only registry of records. A guard claims
// an idle record for its lifetime, so the registry grows to the peak number of
// concurrently live guards and no further.
//
// Reclamation is non-blocking: [Collector.Collect] is a no-op when another
// goroutine is already reclaiming. Only [Collector.Close] waits, and only for
// in-flight guards to finish.
package epoch
