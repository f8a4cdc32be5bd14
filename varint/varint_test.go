package varint_test

import (
	"bytes"
	"testing"

	"github.com/go-mclib/scanner/varint"
)

func TestVarIntRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		val  varint.VarInt
		want []byte
	}{
		{"zero", 0, []byte{0x00}},
		{"one", 1, []byte{0x01}},
		{"127", 127, []byte{0x7f}},
		{"128", 128, []byte{0x80, 0x01}},
		{"255", 255, []byte{0xff, 0x01}},
		{"25565", 25565, []byte{0xdd, 0xc7, 0x01}},
		{"max", 2147483647, []byte{0xff, 0xff, 0xff, 0xff, 0x07}},
		{"min", -2147483648, []byte{0x80, 0x80, 0x80, 0x80, 0x08}},
		{"minus one", -1, []byte{0xff, 0xff, 0xff, 0xff, 0x0f}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.val.Encode()
			if !bytes.Equal(got, tt.want) {
				t.Fatalf("Encode() = % x, want % x", got, tt.want)
			}
			if got, want := tt.val.Len(), len(tt.want); got != want {
				t.Errorf("Len() = %d, want %d", got, want)
			}

			decoded, n, err := varint.Decode(got)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if n != len(got) {
				t.Errorf("Decode() consumed %d bytes, want %d", n, len(got))
			}
			if decoded != tt.val {
				t.Errorf("Decode() = %d, want %d", decoded, tt.val)
			}

			r := bytes.NewReader(got)
			fromReader, err := varint.Read(r)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if fromReader != tt.val {
				t.Errorf("Read() = %d, want %d", fromReader, tt.val)
			}

			var buf bytes.Buffer
			if err := varint.Write(&buf, tt.val); err != nil {
				t.Fatalf("Write() error = %v", err)
			}
			if !bytes.Equal(buf.Bytes(), tt.want) {
				t.Errorf("Write() = % x, want % x", buf.Bytes(), tt.want)
			}
		})
	}
}

func TestVarIntOverlongFails(t *testing.T) {
	// 5 bytes, all with the continuation bit set: never terminates within
	// the 32-bit budget.
	overlong := []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0x01}

	if _, _, err := varint.Decode(overlong); err != varint.ErrTooBig {
		t.Fatalf("Decode() error = %v, want ErrTooBig", err)
	}

	r := bytes.NewReader(overlong)
	if _, err := varint.Read(r); err != varint.ErrTooBig {
		t.Fatalf("Read() error = %v, want ErrTooBig", err)
	}
}

func TestVarIntIncompleteFails(t *testing.T) {
	incomplete := []byte{0x80, 0x80}
	if _, _, err := varint.Decode(incomplete); err == nil {
		t.Fatal("Decode() on incomplete data: want error, got nil")
	}
}

func TestVarIntAllInt32(t *testing.T) {
	samples := []int32{0, 1, -1, 1 << 20, -(1 << 20), 1<<31 - 1, -(1 << 31)}
	for _, s := range samples {
		v := varint.VarInt(s)
		encoded := v.Encode()
		if l := len(encoded); l < 1 || l > varint.MaxLen {
			t.Errorf("value %d encoded to %d bytes, want [1,5]", s, l)
		}
		decoded, _, err := varint.Decode(encoded)
		if err != nil {
			t.Fatalf("Decode(%d) error = %v", s, err)
		}
		if decoded != v {
			t.Errorf("round trip %d: got %d", s, decoded)
		}
	}
}
