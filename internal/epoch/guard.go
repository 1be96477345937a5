// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package epoch

import "code.hybscloud.com/atomix"

// Guard is a live protected region obtained from [Collector.Enter].
//
// A Guard belongs to the goroutine that entered it and must not be shared.
// Pointers obtained through [Protect] are valid until Exit.
type Guard struct {
	c       *Collector
	rec     *record
	retired uint64
}

// Exit unpins the guard. Entries retired through the guard count toward the
// collector's reclamation threshold; crossing it runs a pass on the way out.
// Calling Exit more than once has no effect.
func (g *Guard) Exit() {
	if g.rec == nil {
		return
	}
	g.rec.state.StoreRelease(idle)
	g.rec = nil
	if g.retired > 0 {
		g.c.noteRetired(g.retired)
		g.retired = 0
	}
}

// Live reports whether the guard has not yet exited.
func (g *Guard) Live() bool {
	return g.rec != nil
}

// Protect loads p under g with acquire ordering, so everything written
// before the pointer was published is visible through it. The returned node
// stays valid for the lifetime of g even if another goroutine unlinks and
// retires it concurrently.
//
// Protect panics if g has already exited.
func Protect[T any](g *Guard, p *atomix.Pointer[T]) *T {
	if g.rec == nil {
		panic("epoch: protect outside a live guard")
	}
	return p.LoadAcquire()
}

// Retire schedules reclaim(p) to run once no guard that could have loaded p
// is still live. The caller must have unlinked p from every location a new
// traversal could reach it through, and must retire it exactly once.
//
// Retire panics if g has already exited.
func Retire[T any](g *Guard, p *T, reclaim func(*T)) {
	if g.rec == nil {
		panic("epoch: retire outside a live guard")
	}
	g.c.retire(&entry{reclaim: func() { reclaim(p) }})
	g.retired++
}
