// Copyright 2026 The gogpu Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package arena provides a frame-scoped slab allocator.
//
// Objects baked during deferral (op states, batches, serialized clips)
// live exactly as long as one frame. The arena allocates them from
// per-type slabs and releases the whole frame with a single [Arena.Reset],
// which keeps the slabs for reuse so steady-state frames allocate
// nothing new.
package arena

import "reflect"

const (
	firstBlockLen = 64
	maxBlockLen   = 4096
)

// Arena is a frame-scoped allocator. It is not safe for concurrent use;
// each frame builder owns its own arena.
type Arena struct {
	slabs map[reflect.Type]resetter
}

type resetter interface {
	reset()
}

// New returns an empty arena.
func New() *Arena {
	return &Arena{slabs: make(map[reflect.Type]resetter)}
}

// Reset releases every object allocated since the previous Reset.
// Slab memory is retained, so subsequent frames reuse it.
func (a *Arena) Reset() {
	for _, s := range a.slabs {
		s.reset()
	}
}

// slab holds all allocations of a single type. Blocks grow
// geometrically up to maxBlockLen.
type slab[T any] struct {
	blocks [][]T
	// block/index locate the next free slot.
	block, index int
}

func (s *slab[T]) reset() {
	s.block = 0
	s.index = 0
}

func (s *slab[T]) alloc() *T {
	if s.block == len(s.blocks) {
		n := firstBlockLen << s.block
		if n > maxBlockLen {
			n = maxBlockLen
		}
		s.blocks = append(s.blocks, make([]T, n))
	}
	b := s.blocks[s.block]
	p := &b[s.index]
	var zero T
	*p = zero
	s.index++
	if s.index == len(b) {
		s.block++
		s.index = 0
	}
	return p
}

// rewind releases p if and only if p was the most recent allocation
// from this slab.
func (s *slab[T]) rewind(p *T) bool {
	block, index := s.block, s.index
	if index == 0 {
		if block == 0 {
			return false
		}
		block--
		index = len(s.blocks[block])
	}
	if &s.blocks[block][index-1] != p {
		return false
	}
	s.block = block
	s.index = index - 1
	return true
}

func slabFor[T any](a *Arena) *slab[T] {
	t := reflect.TypeFor[T]()
	if s, ok := a.slabs[t]; ok {
		return s.(*slab[T])
	}
	s := &slab[T]{}
	a.slabs[t] = s
	return s
}

// Alloc returns a zeroed *T that lives until the next [Arena.Reset].
func Alloc[T any](a *Arena) *T {
	return slabFor[T](a).alloc()
}

// Rewind returns p's slot to the arena if p was the most recent
// allocation of its type, reporting whether the slot was reclaimed.
// Baking uses this to return rejected op states.
func Rewind[T any](a *Arena, p *T) bool {
	return slabFor[T](a).rewind(p)
}
