package wire_test

import (
	"bytes"
	"testing"

	"github.com/go-mclib/scanner/wire"
)

func TestIntegerRoundTrip(t *testing.T) {
	t.Run("uint16", func(t *testing.T) {
		for _, v := range []uint16{0, 1, 25565, 65535} {
			b := wire.ToBytes(v)
			if len(b) != wire.ByteLen[uint16]() {
				t.Fatalf("ToBytes(%d) len = %d, want %d", v, len(b), wire.ByteLen[uint16]())
			}
			got := wire.FromBytes[uint16](b)
			if got != v {
				t.Errorf("FromBytes(ToBytes(%d)) = %d", v, got)
			}
		}
	})

	t.Run("int64", func(t *testing.T) {
		for _, v := range []int64{0, -1, 1 << 40, -(1 << 40)} {
			b := wire.ToBytes(v)
			got := wire.FromBytes[int64](b)
			if got != v {
				t.Errorf("FromBytes(ToBytes(%d)) = %d", v, got)
			}
		}
	})

	t.Run("uint8", func(t *testing.T) {
		b := wire.ToBytes(uint8(200))
		if !bytes.Equal(b, []byte{200}) {
			t.Fatalf("ToBytes(200) = % x", b)
		}
	})
}

func TestUUIDRoundTrip(t *testing.T) {
	var u wire.UUID
	for i := range u {
		u[i] = byte(i)
	}
	b := u.ToBytes()
	got, err := wire.UUIDFromBytes(b)
	if err != nil {
		t.Fatalf("UUIDFromBytes() error = %v", err)
	}
	if got != u {
		t.Errorf("UUIDFromBytes(ToBytes(u)) = %v, want %v", got, u)
	}
}

func TestUUIDFromBytesShort(t *testing.T) {
	if _, err := wire.UUIDFromBytes([]byte{1, 2, 3}); err == nil {
		t.Fatal("want error for short buffer")
	}
}
