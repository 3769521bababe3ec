// Package memory provides the sparse memory image that decoded firmware
// documents map into.
package memory

import (
	"maps"
	"slices"
)

// Image is a sparse mapping of 32-bit addresses to byte values.
// An absent address means the source document does not cover that byte,
// which is different from the byte being zero.
type Image struct {
	data map[uint32]byte
}

// NewImage creates an empty sparse memory image.
func NewImage() *Image {
	return &Image{
		data: map[uint32]byte{},
	}
}

// Get returns the byte stored at the address and whether it is present.
func (img *Image) Get(address uint32) (byte, bool) {
	value, ok := img.data[address]
	return value, ok
}

// Set stores a byte at the address, inserting or overwriting.
func (img *Image) Set(address uint32, value byte) {
	img.data[address] = value
}

// SetWord stores 4 bytes in address order at address..address+3,
// overwriting present bytes and inserting absent ones. The address
// wraps around at the end of the 32-bit space.
func (img *Image) SetWord(address uint32, word [4]byte) {
	for i, value := range word {
		img.data[address+uint32(i)] = value
	}
}

// Len returns the number of present bytes.
func (img *Image) Len() int {
	return len(img.data)
}

// Addresses returns all present addresses in ascending order.
// Sorting keeps every consumer independent of map iteration order.
func (img *Image) Addresses() []uint32 {
	addresses := make([]uint32, 0, len(img.data))
	for address := range img.data {
		addresses = append(addresses, address)
	}
	slices.Sort(addresses)
	return addresses
}

// Equal reports whether both images contain exactly the same addresses
// and values.
func (img *Image) Equal(other *Image) bool {
	return maps.Equal(img.data, other.data)
}
