// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package epoch_test

import (
	"sync"
	"testing"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/lflist/internal/epoch"
)

// =============================================================================
// Guards
// =============================================================================

func TestEnterExitReusesRecord(t *testing.T) {
	c := epoch.NewCollector(0)

	for range 100 {
		g := c.Enter()
		if !g.Live() {
			t.Fatal("guard not live after Enter")
		}
		g.Exit()
		if g.Live() {
			t.Fatal("guard live after Exit")
		}
	}

	if got := c.Stats().Participants; got != 1 {
		t.Fatalf("Participants: got %d, want 1", got)
	}
}

func TestNestedGuardsRegisterSeparateRecords(t *testing.T) {
	c := epoch.NewCollector(0)

	g1 := c.Enter()
	g2 := c.Enter()
	g3 := c.Enter()
	g3.Exit()
	g2.Exit()
	g1.Exit()

	if got := c.Stats().Participants; got != 3 {
		t.Fatalf("Participants: got %d, want 3", got)
	}
}

func TestExitIdempotent(t *testing.T) {
	c := epoch.NewCollector(0)

	g := c.Enter()
	g.Exit()
	g.Exit()

	// The record released by the first Exit must be claimable exactly once.
	a := c.Enter()
	b := c.Enter()
	defer a.Exit()
	defer b.Exit()

	if got := c.Stats().Participants; got != 2 {
		t.Fatalf("Participants: got %d, want 2", got)
	}
}

func TestProtectLoadsCurrentValue(t *testing.T) {
	c := epoch.NewCollector(0)
	var p atomix.Pointer[int]
	v := 7
	p.Store(&v)

	g := c.Enter()
	defer g.Exit()

	if got := epoch.Protect(g, &p); got != &v {
		t.Fatalf("Protect: got %p, want %p", got, &v)
	}
}

// =============================================================================
// Reclamation
// =============================================================================

func TestRetireDeferredWhileGuardLive(t *testing.T) {
	c := epoch.NewCollector(1)

	holder := c.Enter()

	var reclaimed atomix.Bool
	x := new(int)
	g := c.Enter()
	epoch.Retire(g, x, func(*int) { reclaimed.Store(true) })
	g.Exit()

	for range 10 {
		c.Collect()
	}
	if reclaimed.Load() {
		t.Fatal("reclaimed while an older guard is still live")
	}
	if got := c.Stats().Pending(); got != 1 {
		t.Fatalf("Pending: got %d, want 1", got)
	}

	holder.Exit()
	for range 3 {
		c.Collect()
	}
	if !reclaimed.Load() {
		t.Fatal("not reclaimed after every guard exited")
	}
}

func TestRetireWithoutReadersReclaims(t *testing.T) {
	c := epoch.NewCollector(1)

	var count atomix.Int64
	g := c.Enter()
	for range 10 {
		epoch.Retire(g, new(int), func(*int) { count.Add(1) })
	}
	g.Exit()
	c.Collect()

	if got := count.Load(); got != 10 {
		t.Fatalf("reclaimed: got %d, want 10", got)
	}
	st := c.Stats()
	if st.Retired != 10 || st.Reclaimed != 10 {
		t.Fatalf("Stats: got retired=%d reclaimed=%d, want 10/10", st.Retired, st.Reclaimed)
	}
	if st.Epoch < 2 {
		t.Fatalf("Epoch: got %d, want >= 2", st.Epoch)
	}
}

func TestReclaimReceivesRetiredPointer(t *testing.T) {
	c := epoch.NewCollector(0)

	x := new(int)
	var got *int
	g := c.Enter()
	epoch.Retire(g, x, func(p *int) { got = p })
	g.Exit()
	c.Close()

	if got != x {
		t.Fatalf("reclaim arg: got %p, want %p", got, x)
	}
}

func TestConcurrentRetireReclaimsExactlyOnce(t *testing.T) {
	if epoch.RaceEnabled {
		t.Skip("skip: atomix ordering is invisible to the race detector")
	}

	const (
		workers   = 8
		perWorker = 5000
	)

	c := epoch.NewCollector(16)
	counts := make([]atomix.Int32, workers*perWorker)

	var wg sync.WaitGroup
	for w := range workers {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := range perWorker {
				idx := id*perWorker + i
				g := c.Enter()
				epoch.Retire(g, &idx, func(p *int) { counts[*p].Add(1) })
				g.Exit()
			}
		}(w)
	}
	wg.Wait()
	c.Close()

	for i := range counts {
		if n := counts[i].Load(); n != 1 {
			t.Fatalf("entry %d reclaimed %d times, want 1", i, n)
		}
	}
	if st := c.Stats(); st.Pending() != 0 {
		t.Fatalf("Pending after Close: got %d, want 0", st.Pending())
	}
}

// =============================================================================
// Teardown and misuse
// =============================================================================

func TestCloseReclaimsOutstanding(t *testing.T) {
	c := epoch.NewCollector(1 << 20) // never collect on the way out

	var count atomix.Int64
	g := c.Enter()
	for range 100 {
		epoch.Retire(g, new(int), func(*int) { count.Add(1) })
	}
	g.Exit()

	if got := count.Load(); got != 0 {
		t.Fatalf("reclaimed before Close: got %d, want 0", got)
	}
	c.Close()
	c.Close()

	if got := count.Load(); got != 100 {
		t.Fatalf("reclaimed after Close: got %d, want 100", got)
	}
	if !c.Closed() {
		t.Fatal("Closed: got false, want true")
	}
}

func TestEnterAfterClosePanics(t *testing.T) {
	c := epoch.NewCollector(0)
	c.Close()

	defer func() {
		if recover() == nil {
			t.Fatal("Enter on closed collector did not panic")
		}
	}()
	c.Enter()
}

func TestProtectAfterExitPanics(t *testing.T) {
	c := epoch.NewCollector(0)
	var p atomix.Pointer[int]

	g := c.Enter()
	g.Exit()

	defer func() {
		if recover() == nil {
			t.Fatal("Protect after Exit did not panic")
		}
	}()
	epoch.Protect(g, &p)
}

func TestRetireAfterExitPanics(t *testing.T) {
	c := epoch.NewCollector(0)

	g := c.Enter()
	g.Exit()

	defer func() {
		if recover() == nil {
			t.Fatal("Retire after Exit did not panic")
		}
	}()
	epoch.Retire(g, new(int), func(*int) {})
}
