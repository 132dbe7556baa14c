package vram

import "unsafe"

// addressOf returns the address of the first element of b, standing in for a
// firmware-provided framebuffer address.
func addressOf(b []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(b)))
}
