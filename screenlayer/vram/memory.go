package vram

import "unsafe"

// Memory is the only place the compositor touches raw video memory. All
// coordinate math and validation happen in Writer; implementations just move
// bytes at an offset.
type Memory interface {
	// Len is the size of the region in bytes.
	Len() int
	// WritePixel copies b to the region starting at offset.
	WritePixel(offset int, b []byte)
	// ReadPixel fills b from the region starting at offset.
	ReadPixel(offset int, b []byte)
}

// Buffer is a Memory backed by a byte slice. Every access is bounds checked by
// the runtime, so a bad offset panics instead of corrupting memory.
type Buffer []byte

// FromAddress maps length bytes of memory starting at base, such as a linear
// framebuffer handed over by firmware.
//
// This is unsafe: base must be the address of at least length bytes of live,
// writable memory for as long as the Buffer is used. Nothing here can verify
// that.
func FromAddress(base uintptr, length int) Buffer {
	return unsafe.Slice((*byte)(unsafe.Pointer(base)), length)
}

func (b Buffer) Len() int {
	return len(b)
}

func (b Buffer) WritePixel(offset int, p []byte) {
	copy(b[offset:offset+len(p)], p)
}

func (b Buffer) ReadPixel(offset int, p []byte) {
	copy(p, b[offset:offset+len(p)])
}
