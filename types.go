// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lflist

// FrontPusher inserts at the front.
type FrontPusher[T any] interface {
	// PushFront inserts v at the front. It never fails; the structures are
	// unbounded.
	PushFront(v T)
}

// BackPusher inserts at the back.
type BackPusher[T any] interface {
	// PushBack inserts v at the back. It never fails; the structures are
	// unbounded.
	PushBack(v T)
}

// FrontPopper removes from the front.
type FrontPopper[T any] interface {
	// PopFront removes and returns the front element.
	// Returns (zero-value, ErrWouldBlock) if the structure is empty.
	PopFront() (T, error)
}

// BackPopper removes from the back.
type BackPopper[T any] interface {
	// PopBack removes and returns the back element.
	// Returns (zero-value, ErrWouldBlock) if the structure is empty.
	PopBack() (T, error)
}

// Stack is a LIFO container: elements pushed at the front come back out of
// the front in reverse order.
//
// Implemented by [*List] and [*Deque].
//
// Example:
//
//	var s lflist.Stack[int] = lflist.NewList[int]()
//	s.PushFront(1)
//	s.PushFront(2)
//	v, _ := s.PopFront() // 2
type Stack[T any] interface {
	FrontPusher[T]
	FrontPopper[T]
	Len() int
}

// FIFO is a first-in first-out container: elements pushed at the back come
// out of the front in push order.
//
// Implemented by [*Queue] and [*Deque].
type FIFO[T any] interface {
	BackPusher[T]
	FrontPopper[T]
	Len() int
}

// DoubleEnded allows push and pop at both ends.
//
// Implemented by [*Deque].
type DoubleEnded[T any] interface {
	FIFO[T]
	FrontPusher[T]
	BackPopper[T]
}

var (
	_ Stack[int]       = (*List[int])(nil)
	_ Stack[int]       = (*Deque[int])(nil)
	_ FIFO[int]        = (*Queue[int])(nil)
	_ FIFO[int]        = (*Deque[int])(nil)
	_ DoubleEnded[int] = (*Deque[int])(nil)
)
