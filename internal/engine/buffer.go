package engine

import "sync/atomic"

// Buffer is engine-owned output. Bytes is valid until Release.
type Buffer interface {
	Bytes() []byte
	Len() int
	Release()
}

// HeapBuffer is a Buffer backed by a Go slice. Release drops the slice and
// runs the release hook at most once.
type HeapBuffer struct {
	data     []byte
	released atomic.Bool
	onFree   func()
}

// NewHeapBuffer wraps data. onFree, if non-nil, runs on the first Release.
func NewHeapBuffer(data []byte, onFree func()) *HeapBuffer {
	return &HeapBuffer{data: data, onFree: onFree}
}

// Bytes returns the content, or nil after Release.
func (b *HeapBuffer) Bytes() []byte {
	if b == nil || b.released.Load() {
		return nil
	}

	return b.data
}

// Len returns the content length, or 0 after Release.
func (b *HeapBuffer) Len() int {
	return len(b.Bytes())
}

// Release frees the buffer. Subsequent calls are no-ops.
func (b *HeapBuffer) Release() {
	if b == nil || !b.released.CompareAndSwap(false, true) {
		return
	}

	b.data = nil
	if b.onFree != nil {
		b.onFree()
	}
}

// Released reports whether Release has been called.
func (b *HeapBuffer) Released() bool {
	return b.released.Load()
}

// ReleaseAll releases every non-nil buffer.
func ReleaseAll(bufs ...Buffer) {
	for _, b := range bufs {
		if b != nil {
			b.Release()
		}
	}
}
