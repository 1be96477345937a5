// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lflist

import "code.hybscloud.com/lflist/internal/epoch"

// Stats is a point-in-time snapshot of a structure's length and its
// reclamation counters. Fields are read independently and are only mutually
// consistent at quiescent points.
type Stats struct {
	Len          int    // Approximate element count
	Epoch        uint64 // Collector's global epoch
	Allocated    uint64 // Nodes handed out, sentinels included
	Retired      uint64 // Nodes unlinked and handed to the collector
	Reclaimed    uint64 // Retired nodes poisoned (and recycled if enabled)
	Participants int    // Guard records registered with the collector
}

// Live returns the number of nodes allocated and not yet reclaimed.
// After Close it is zero for List and Deque and one (the dummy) for Queue.
func (s Stats) Live() uint64 {
	return s.Allocated - s.Reclaimed
}

// Pending returns the number of retired nodes awaiting reclamation.
func (s Stats) Pending() uint64 {
	return s.Retired - s.Reclaimed
}

func newStats[T any](n int, c *epoch.Collector, p *nodePool[T]) Stats {
	cs := c.Stats()
	return Stats{
		Len:          n,
		Epoch:        cs.Epoch,
		Allocated:    p.allocated.Load(),
		Retired:      cs.Retired,
		Reclaimed:    cs.Reclaimed,
		Participants: cs.Participants,
	}
}
