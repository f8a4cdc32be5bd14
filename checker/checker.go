// Package checker implements the two client state machines that probe a
// Minecraft Java Edition server: a Status query and a Login-probe used
// to classify online-mode ("license").
package checker

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"

	"github.com/go-mclib/scanner/internal/mcerr"
	"github.com/go-mclib/scanner/mcstatus"
	"github.com/go-mclib/scanner/protocol"
	"github.com/go-mclib/scanner/varint"
	"github.com/go-mclib/scanner/wire"
)

// ProtocolVersion is the Java Edition protocol number this scanner
// speaks.
const ProtocolVersion = 765

// fakeUsername is sent by the login probe; the scanner never actually
// authenticates.
const fakeUsername = "NotABot"

// License classification values.
const (
	Licensed   = 1
	Unlicensed = 0
	Unknown    = -1
)

var dialer net.Dialer

// Status opens a connection to addr, performs the Status handshake, and
// returns the normalized server status.
func Status(ctx context.Context, addr string, port uint16) (mcstatus.Status, error) {
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(addr, strconv.Itoa(int(port))))
	if err != nil {
		return mcstatus.Status{}, fmt.Errorf("%w: dial %s: %v", mcerr.ErrNetwork, addr, err)
	}
	defer conn.Close()

	handshake := protocol.Handshake{
		ProtocolVersion: ProtocolVersion,
		ServerAddress:   addr,
		ServerPort:      port,
		NextState:       protocol.IntentStatus,
	}
	if err := protocol.WriteFrame(conn, handshake.Serialize(), protocol.NoCompression); err != nil {
		return mcstatus.Status{}, fmt.Errorf("%w: write handshake: %v", mcerr.ErrNetwork, err)
	}

	statusReq := protocol.StatusRequest{}
	if err := protocol.WriteFrame(conn, statusReq.Serialize(), protocol.NoCompression); err != nil {
		return mcstatus.Status{}, fmt.Errorf("%w: write status request: %v", mcerr.ErrNetwork, err)
	}

	frame, err := protocol.ReadFrame(conn, protocol.NoCompression)
	if err != nil {
		return mcstatus.Status{}, fmt.Errorf("%w: read status response: %v", mcerr.ErrProtocol, err)
	}
	resp, err := protocol.DecodeStatusResponse(frame)
	if err != nil {
		return mcstatus.Status{}, fmt.Errorf("%w: decode status response: %v", mcerr.ErrProtocol, err)
	}

	return mcstatus.ParseStatus(resp.JSON), nil
}

// ErrDisconnected is returned when the server refuses the login probe
// with an explicit Disconnect.
var ErrDisconnected = errors.New("checker: server disconnected during login probe")

// License opens a fresh connection and runs the login probe, returning
// true if the server is online-mode (licensed), false if offline-mode
// (unlicensed). Any error means the classification is unknown; callers
// map that to the tri-valued Unknown constant.
func License(ctx context.Context, addr string, port uint16, protoVersion int) (bool, error) {
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(addr, strconv.Itoa(int(port))))
	if err != nil {
		return false, fmt.Errorf("%w: dial %s: %v", mcerr.ErrNetwork, addr, err)
	}
	defer conn.Close()

	handshake := protocol.Handshake{
		ProtocolVersion: varint.VarInt(protoVersion),
		ServerAddress:   addr,
		ServerPort:      port,
		NextState:       protocol.IntentLogin,
	}
	if err := protocol.WriteFrame(conn, handshake.Serialize(), protocol.NoCompression); err != nil {
		return false, fmt.Errorf("%w: write handshake: %v", mcerr.ErrNetwork, err)
	}

	loginStart := protocol.LoginStart{Name: fakeUsername, UUID: wire.UUID{}}
	if err := protocol.WriteFrame(conn, loginStart.Serialize(), protocol.NoCompression); err != nil {
		return false, fmt.Errorf("%w: write login start: %v", mcerr.ErrNetwork, err)
	}

	frame, err := protocol.ReadFrame(conn, protocol.NoCompression)
	if err != nil {
		return false, fmt.Errorf("%w: read login response: %v", mcerr.ErrProtocol, err)
	}

	switch frame.PacketID {
	case protocol.EncryptionRequestID:
		return true, nil
	case protocol.LoginSuccessID:
		return false, nil
	case protocol.SetCompressionID:
		return licenseAfterSetCompression(conn, frame)
	case protocol.LoginDisconnectID:
		return false, ErrDisconnected
	default:
		return false, fmt.Errorf("%w: unexpected login packet id 0x%02x", mcerr.ErrProtocol, int32(frame.PacketID))
	}
}

// licenseAfterSetCompression consumes the SetCompression frame and reads
// the next packet with compression enabled. A LoginSuccess reports
// unlicensed; any other packet ID, Disconnect included, reports licensed.
func licenseAfterSetCompression(conn net.Conn, frame *protocol.Frame) (bool, error) {
	setCompression, err := protocol.DecodeSetCompression(frame)
	if err != nil {
		return false, fmt.Errorf("%w: decode set compression: %v", mcerr.ErrProtocol, err)
	}

	next, err := protocol.ReadFrame(conn, int(setCompression.Threshold))
	if err != nil {
		return false, fmt.Errorf("%w: read compressed login response: %v", mcerr.ErrProtocol, err)
	}

	switch next.PacketID {
	case protocol.LoginSuccessID:
		return false, nil
	default:
		return true, nil
	}
}

// Classify runs License against addr with status's protocol version
// (the Status probe is the caller's job) and reports the tri-valued
// license outcome: success(true) -> Licensed,
// success(false) -> Unlicensed, any error -> Unknown.
func Classify(ctx context.Context, addr string, port uint16, status mcstatus.Status) int {
	licensed, err := License(ctx, addr, port, status.Protocol)
	if err != nil {
		return Unknown
	}
	if licensed {
		return Licensed
	}
	return Unlicensed
}
