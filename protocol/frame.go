// Package protocol implements the Minecraft Java Edition packet framer
// (length-prefixed, VarInt-framed, optionally zlib-compressed) and the
// typed packet set used by the Handshake/Status/Login states.
//
// https://minecraft.wiki/w/Java_Edition_protocol/Packets#Packet_format
package protocol

import (
	"bytes"
	"compress/zlib"
	"errors"
	"fmt"
	"io"

	"github.com/go-mclib/scanner/internal/mcerr"
	"github.com/go-mclib/scanner/varint"
)

// MaxFrameLen is the largest a packet's Length field may declare. Protocol
// 765 never encodes the length in more than 3 VarInt bytes, which caps the
// payload at 2^21-1 bytes. Since this scanner talks to untrusted, possibly
// hostile hosts, ReadFrame refuses to allocate past it.
const MaxFrameLen = 1<<21 - 1

// NoCompression disables the compressed-packet framing entirely.
const NoCompression = -1

// ErrFrameTooLarge is returned when a peer declares a frame length beyond
// MaxFrameLen.
var ErrFrameTooLarge = errors.New("protocol: frame length exceeds maximum")

// Frame is one decoded packet: identifier plus payload, with framing and
// compression already stripped away.
type Frame struct {
	PacketID varint.VarInt
	Data     []byte
}

// ReadFrame reads one frame from r. threshold < 0 means the connection
// has not enabled compression; threshold >= 0 means SetCompression has
// been received and every frame carries an inner data-length VarInt.
func ReadFrame(r io.Reader, threshold int) (*Frame, error) {
	frameLen, err := varint.Read(r)
	if err != nil {
		return nil, fmt.Errorf("read frame length: %w", err)
	}
	if frameLen < 0 || frameLen > MaxFrameLen {
		return nil, ErrFrameTooLarge
	}

	body := make([]byte, int(frameLen))
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("read frame body: %w", err)
	}

	if threshold < 0 {
		return decodeUncompressedBody(body)
	}
	return decodeCompressedBody(body)
}

func decodeUncompressedBody(body []byte) (*Frame, error) {
	packetID, n, err := varint.Decode(body)
	if err != nil {
		return nil, fmt.Errorf("decode packet id: %w", err)
	}
	return &Frame{PacketID: packetID, Data: body[n:]}, nil
}

// decodeCompressedBody reads the inner VarInt(data_len) from body, then
// either treats the remainder as a raw (uncompressed) packet when
// data_len == 0, or zlib-inflates it when data_len > 0.
func decodeCompressedBody(body []byte) (*Frame, error) {
	dataLen, n, err := varint.Decode(body)
	if err != nil {
		return nil, fmt.Errorf("decode data length: %w", err)
	}
	rest := body[n:]

	if dataLen == 0 {
		return decodeUncompressedBody(rest)
	}

	inflated, err := inflate(rest)
	if err != nil {
		return nil, fmt.Errorf("%w: inflate packet body: %v", mcerr.ErrCompression, err)
	}
	return decodeUncompressedBody(inflated)
}

// WriteFrame writes f to w, compressing per threshold: threshold < 0
// writes the uncompressed stream shape; threshold >= 0 compares the
// inner length against threshold and either sends it raw with a 0
// data-length, or zlib-deflates it and sends the true uncompressed
// length.
func WriteFrame(w io.Writer, f *Frame, threshold int) error {
	inner := f.PacketID.Append(make([]byte, 0, f.PacketID.Len()+len(f.Data)))
	inner = append(inner, f.Data...)

	var body []byte
	if threshold < 0 {
		body = inner
	} else if len(inner) < threshold {
		body = varint.VarInt(0).Append(nil)
		body = append(body, inner...)
	} else {
		deflated, err := deflate(inner)
		if err != nil {
			return fmt.Errorf("%w: deflate packet body: %v", mcerr.ErrCompression, err)
		}
		body = varint.VarInt(len(inner)).Append(nil)
		body = append(body, deflated...)
	}

	frameLen := varint.VarInt(len(body))
	out := make([]byte, 0, frameLen.Len()+len(body))
	out = frameLen.Append(out)
	out = append(out, body...)

	n, err := w.Write(out)
	if err != nil {
		return err
	}
	if n != len(out) {
		return io.ErrShortWrite
	}
	return nil
}

// deflate zlib-compresses data at level 6.
func deflate(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, 6)
	if err != nil {
		return nil, err
	}
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func inflate(data []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}
