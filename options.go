// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lflist

import (
	"code.hybscloud.com/lflist/internal/epoch"
	"golang.org/x/sys/cpu"
)

// Options configures structure creation.
type Options struct {
	// Reclamation
	collectEvery int  // Retirements between reclamation passes
	recycle      bool // Reuse reclaimed nodes for later pushes
}

// Builder creates structures with fluent configuration.
//
// Example:
//
//	// Defaults: reclaim every 64 retirements, recycle nodes
//	q := lflist.BuildQueue[Event](lflist.New())
//
//	// Reclaim in larger batches
//	d := lflist.BuildDeque[*Request](lflist.New().CollectEvery(1024))
//
//	// Let the garbage collector take every popped node
//	s := lflist.BuildList[Task](lflist.New().NoRecycle())
type Builder struct {
	opts Options
}

// New creates a builder with default options.
func New() *Builder {
	return &Builder{opts: Options{
		collectEvery: epoch.DefaultCollectEvery,
		recycle:      true,
	}}
}

// CollectEvery sets how many retirements accumulate before a reclamation
// pass runs. Larger values amortize the pass; smaller values bound the number
// of unlinked nodes held back.
//
// Panics if n < 1.
func (b *Builder) CollectEvery(n int) *Builder {
	if n < 1 {
		panic("lflist: collect interval must be >= 1")
	}
	b.opts.collectEvery = n
	return b
}

// NoRecycle disables node reuse. Reclaimed nodes are still poisoned but are
// left to the garbage collector instead of serving later pushes.
//
// Deque never recycles regardless of this setting.
func (b *Builder) NoRecycle() *Builder {
	b.opts.recycle = false
	return b
}

// BuildDeque creates a [Deque] with the builder's options.
func BuildDeque[T any](b *Builder) *Deque[T] {
	return newDeque[T](b.opts)
}

// BuildQueue creates a [Queue] with the builder's options.
func BuildQueue[T any](b *Builder) *Queue[T] {
	return newQueue[T](b.opts)
}

// BuildList creates a [List] with the builder's options.
func BuildList[T any](b *Builder) *List[T] {
	return newList[T](b.opts)
}

// pad is cache line padding to prevent false sharing.
type pad = cpu.CacheLinePad
