// Package crc16 implements the CRC16/XMODEM checksum used by the server to
// assign keys to hash slots. It is a pure function with no exported state:
// the same bytes always produce the same 16-bit value, which is what makes
// it usable as a wire-compatible sharding primitive.
package crc16

// polynomial is the XMODEM/CCITT polynomial, used with a zero initial value
// and no input/output reflection.
const polynomial = 0x1021

const numSlots = 16384

var table [256]uint16

func init() {
	for i := 0; i < 256; i++ {
		crc := uint16(i) << 8
		for b := 0; b < 8; b++ {
			if crc&0x8000 != 0 {
				crc = (crc << 1) ^ polynomial
			} else {
				crc <<= 1
			}
		}
		table[i] = crc
	}
}

// Checksum computes CRC16/XMODEM over b, matching the server's
// implementation bit-for-bit. This is part of the wire contract: changing
// it would silently misroute every key already in a cluster.
func Checksum(b []byte) uint16 {
	var crc uint16
	for _, c := range b {
		crc = (crc << 8) ^ table[byte(crc>>8)^c]
	}
	return crc
}

// Slot returns the hash slot, in [0, numSlots), that b belongs to under the
// server's sharding scheme.
func Slot(b []byte) uint16 {
	return Checksum(b) % numSlots
}

// NumSlots is the total number of slots in the server-authoritative
// sharding scheme.
const NumSlots = numSlots
