package crc16

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChecksumGoldenVector(t *testing.T) {
	assert.Equal(t, uint16(0x31C3), Checksum([]byte("123456789")))
}

func TestSlotGoldenVectors(t *testing.T) {
	assert.Equal(t, uint16(12739), Slot([]byte("123456789")))
	assert.Equal(t, uint16(12182), Slot([]byte("foo")))
	assert.Equal(t, uint16(0), Slot([]byte("")))
}

func TestSlotIsPure(t *testing.T) {
	key := []byte("some-routing-key")
	first := Slot(key)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, Slot(key))
	}
}

func TestSlotInRange(t *testing.T) {
	for _, key := range [][]byte{[]byte(""), []byte("a"), []byte("hello world"), []byte("{tag}rest")} {
		slot := Slot(key)
		assert.Less(t, slot, uint16(NumSlots))
	}
}
