// Package wire provides the fixed-width big-endian integer codec and the
// packet builder/reader used to assemble and parse packet bodies.
//
// All data on the wire (except VarInt/VarLong) is big-endian.
// https://minecraft.wiki/w/Java_Edition_protocol/Packets#Data_types
package wire

import "encoding/binary"

// Integer is the set of fixed-width integer types the protocol uses for
// packet fields (server_port: u16 and any other fixed-width field a
// packet declares; the u128 uuid is the separate 16-byte UUID type).
type Integer interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// ByteLen returns the width in bytes of the given Integer type.
func ByteLen[T Integer]() int {
	var zero T
	switch any(zero).(type) {
	case int8, uint8:
		return 1
	case int16, uint16:
		return 2
	case int32, uint32:
		return 4
	case int64, uint64:
		return 8
	default:
		return 0
	}
}

// ToBytes big-endian encodes v into a freshly allocated slice.
func ToBytes[T Integer](v T) []byte {
	switch n := any(v).(type) {
	case int8:
		return []byte{byte(n)}
	case uint8:
		return []byte{n}
	case int16:
		b := make([]byte, 2)
		binary.BigEndian.PutUint16(b, uint16(n))
		return b
	case uint16:
		b := make([]byte, 2)
		binary.BigEndian.PutUint16(b, n)
		return b
	case int32:
		b := make([]byte, 4)
		binary.BigEndian.PutUint32(b, uint32(n))
		return b
	case uint32:
		b := make([]byte, 4)
		binary.BigEndian.PutUint32(b, n)
		return b
	case int64:
		b := make([]byte, 8)
		binary.BigEndian.PutUint64(b, uint64(n))
		return b
	case uint64:
		b := make([]byte, 8)
		binary.BigEndian.PutUint64(b, n)
		return b
	default:
		return nil
	}
}

// FromBytes decodes a big-endian T from the front of data. The caller must
// ensure len(data) >= ByteLen[T]().
func FromBytes[T Integer](data []byte) T {
	var zero T
	switch any(zero).(type) {
	case int8:
		return T(int8(data[0]))
	case uint8:
		return T(data[0])
	case int16:
		return T(int16(binary.BigEndian.Uint16(data)))
	case uint16:
		return T(binary.BigEndian.Uint16(data))
	case int32:
		return T(int32(binary.BigEndian.Uint32(data)))
	case uint32:
		return T(binary.BigEndian.Uint32(data))
	case int64:
		return T(int64(binary.BigEndian.Uint64(data)))
	case uint64:
		return T(binary.BigEndian.Uint64(data))
	default:
		return zero
	}
}

// UUID is the 128-bit login UUID field, modeled as a 16-byte big-endian
// array since Go has no native u128. The scanner always sends the zero UUID
// but the type round-trips any value for completeness and
// for decoding LoginSuccess's UUID field.
type UUID [16]byte

// ToBytes returns the 16-byte big-endian encoding of u.
func (u UUID) ToBytes() []byte {
	out := make([]byte, 16)
	copy(out, u[:])
	return out
}

// UUIDFromBytes reads a UUID from the front of data.
func UUIDFromBytes(data []byte) (UUID, error) {
	var u UUID
	if len(data) < 16 {
		return u, ErrShortBuffer
	}
	copy(u[:], data[:16])
	return u, nil
}
