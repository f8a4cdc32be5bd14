package wire

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/go-mclib/scanner/varint"
)

// ErrShortBuffer is returned when a read would run past the end of the
// underlying data.
var ErrShortBuffer = errors.New("wire: short buffer")

// Builder accumulates a packet body by appending typed fields in order: a
// thin, allocation-friendly append-only byte sink with one method per
// protocol data type.
type Builder struct {
	buf []byte
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Bytes returns the accumulated body.
func (b *Builder) Bytes() []byte {
	return b.buf
}

// VarInt appends v's VarInt encoding.
func (b *Builder) VarInt(v varint.VarInt) *Builder {
	b.buf = v.Append(b.buf)
	return b
}

// String appends a VarInt length prefix followed by the UTF-8 bytes of s.
func (b *Builder) String(s string) *Builder {
	b.VarInt(varint.VarInt(len(s)))
	b.buf = append(b.buf, s...)
	return b
}

// Bool appends a single byte: 1 for true, 0 for false.
func (b *Builder) Bool(v bool) *Builder {
	if v {
		b.buf = append(b.buf, 1)
	} else {
		b.buf = append(b.buf, 0)
	}
	return b
}

// Raw appends buf verbatim, with no length prefix.
func (b *Builder) Raw(buf []byte) *Builder {
	b.buf = append(b.buf, buf...)
	return b
}

// PrefixedBytes appends a VarInt length prefix followed by buf.
func (b *Builder) PrefixedBytes(buf []byte) *Builder {
	b.VarInt(varint.VarInt(len(buf)))
	b.buf = append(b.buf, buf...)
	return b
}

// UUID appends the 16-byte big-endian UUID.
func (b *Builder) UUID(u UUID) *Builder {
	b.buf = append(b.buf, u.ToBytes()...)
	return b
}

// Int appends the big-endian encoding of a fixed-width integer.
func Int[T Integer](b *Builder, v T) *Builder {
	b.buf = append(b.buf, ToBytes(v)...)
	return b
}

// Reader consumes a packet body in the same order fields were written.
type Reader struct {
	buf []byte
	pos int
}

// NewReader wraps data for sequential field reads.
func NewReader(data []byte) *Reader {
	return &Reader{buf: data}
}

// Remaining reports how many bytes are left unread.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.pos
}

// RemainingBytes returns every unread byte without advancing the cursor.
func (r *Reader) RemainingBytes() []byte {
	return r.buf[r.pos:]
}

func (r *Reader) take(n int) ([]byte, error) {
	if r.Remaining() < n {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", ErrShortBuffer, n, r.Remaining())
	}
	out := r.buf[r.pos : r.pos+n]
	r.pos += n
	return out, nil
}

// VarInt reads a VarInt field.
func (r *Reader) VarInt() (varint.VarInt, error) {
	v, n, err := varint.Decode(r.buf[r.pos:])
	if err != nil {
		return 0, err
	}
	r.pos += n
	return v, nil
}

// String reads a VarInt length prefix followed by that many UTF-8 bytes.
func (r *Reader) String() (string, error) {
	length, err := r.VarInt()
	if err != nil {
		return "", fmt.Errorf("string length: %w", err)
	}
	if length < 0 {
		return "", fmt.Errorf("%w: negative string length %d", ErrShortBuffer, length)
	}
	data, err := r.take(int(length))
	if err != nil {
		return "", fmt.Errorf("string body: %w", err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("string body: invalid UTF-8")
	}
	return string(data), nil
}

// Bool reads a single byte and requires it to be exactly 0 or 1.
func (r *Reader) Bool() (bool, error) {
	data, err := r.take(1)
	if err != nil {
		return false, err
	}
	switch data[0] {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("wire: not a bool: 0x%02x", data[0])
	}
}

// Raw reads exactly n bytes verbatim.
func (r *Reader) Raw(n int) ([]byte, error) {
	return r.take(n)
}

// PrefixedBytes reads a VarInt length prefix followed by that many bytes.
func (r *Reader) PrefixedBytes() ([]byte, error) {
	length, err := r.VarInt()
	if err != nil {
		return nil, err
	}
	if length < 0 {
		return nil, fmt.Errorf("%w: negative length %d", ErrShortBuffer, length)
	}
	return r.take(int(length))
}

// UUID reads the 16-byte big-endian UUID field.
func (r *Reader) UUID() (UUID, error) {
	data, err := r.take(16)
	if err != nil {
		return UUID{}, err
	}
	var u UUID
	copy(u[:], data)
	return u, nil
}

// ReadInt reads the big-endian encoding of a fixed-width integer field.
func ReadInt[T Integer](r *Reader) (T, error) {
	width := ByteLen[T]()
	data, err := r.take(width)
	if err != nil {
		var zero T
		return zero, err
	}
	return FromBytes[T](data), nil
}
