package protocol

import (
	"fmt"

	"github.com/go-mclib/scanner/varint"
	"github.com/go-mclib/scanner/wire"
)

// Packet IDs used by the Handshake/Status/Login states this scanner speaks.
const (
	// Handshaking -> server
	HandshakeID = varint.VarInt(0x00)

	// Status
	StatusRequestID  = varint.VarInt(0x00) // client -> server
	StatusResponseID = varint.VarInt(0x00) // server -> client

	// Login
	LoginStartID        = varint.VarInt(0x00) // client -> server
	LoginDisconnectID   = varint.VarInt(0x00) // server -> client
	EncryptionRequestID = varint.VarInt(0x01) // server -> client
	LoginSuccessID      = varint.VarInt(0x02) // server -> client
	SetCompressionID    = varint.VarInt(0x03) // server -> client (also client->server framing control)
)

// Intent is the Handshake packet's next_state field.
type Intent varint.VarInt

const (
	IntentStatus Intent = 1
	IntentLogin  Intent = 2
)

// Handshake is the first packet of every connection.
type Handshake struct {
	ProtocolVersion varint.VarInt
	ServerAddress   string
	ServerPort      uint16
	NextState       Intent
}

// Serialize builds the wire frame for a Handshake.
func (h Handshake) Serialize() *Frame {
	b := wire.NewBuilder()
	b.VarInt(h.ProtocolVersion).String(h.ServerAddress)
	wire.Int(b, h.ServerPort)
	b.VarInt(varint.VarInt(h.NextState))
	return &Frame{PacketID: HandshakeID, Data: b.Bytes()}
}

// StatusRequest has an empty body.
type StatusRequest struct{}

// Serialize builds the wire frame for a StatusRequest.
func (StatusRequest) Serialize() *Frame {
	return &Frame{PacketID: StatusRequestID, Data: nil}
}

// StatusResponse carries the raw status JSON blob.
type StatusResponse struct {
	JSON string
}

// Serialize builds the wire frame for a StatusResponse (used only by
// tests acting as a mock server).
func (s StatusResponse) Serialize() *Frame {
	b := wire.NewBuilder()
	b.String(s.JSON)
	return &Frame{PacketID: StatusResponseID, Data: b.Bytes()}
}

// DecodeStatusResponse parses f's body as a StatusResponse. Returns an
// error if f is not packet ID 0x00 in the Status state.
func DecodeStatusResponse(f *Frame) (StatusResponse, error) {
	if f.PacketID != StatusResponseID {
		return StatusResponse{}, fmt.Errorf("protocol: unexpected status response packet id 0x%02x", int32(f.PacketID))
	}
	r := wire.NewReader(f.Data)
	json, err := r.String()
	if err != nil {
		return StatusResponse{}, fmt.Errorf("status response json: %w", err)
	}
	return StatusResponse{JSON: json}, nil
}

// LoginStart begins the login sequence. The scanner always sends a fixed
// fake username and the zero UUID since it never
// authenticates.
type LoginStart struct {
	Name string
	UUID wire.UUID
}

// Serialize builds the wire frame for a LoginStart.
func (l LoginStart) Serialize() *Frame {
	b := wire.NewBuilder()
	b.String(l.Name).UUID(l.UUID)
	return &Frame{PacketID: LoginStartID, Data: b.Bytes()}
}

// SetCompression tells the client the new compression threshold.
type SetCompression struct {
	Threshold varint.VarInt
}

// DecodeSetCompression parses f's body as a SetCompression.
func DecodeSetCompression(f *Frame) (SetCompression, error) {
	if f.PacketID != SetCompressionID {
		return SetCompression{}, fmt.Errorf("protocol: unexpected set-compression packet id 0x%02x", int32(f.PacketID))
	}
	r := wire.NewReader(f.Data)
	threshold, err := r.VarInt()
	if err != nil {
		return SetCompression{}, fmt.Errorf("set compression threshold: %w", err)
	}
	return SetCompression{Threshold: threshold}, nil
}

// Serialize builds the wire frame for a SetCompression (used by mock
// servers in tests).
func (s SetCompression) Serialize() *Frame {
	b := wire.NewBuilder()
	b.VarInt(s.Threshold)
	return &Frame{PacketID: SetCompressionID, Data: b.Bytes()}
}

// LoginSuccess signals that the server has accepted the login without
// requesting encryption: offline-mode, i.e. unlicensed.
type LoginSuccess struct {
	UUID     wire.UUID
	Username string
}

// DecodeLoginSuccess parses f's body. Only the fixed UUID+username prefix
// is decoded; the trailing property array (skin/cape signatures) is never
// needed since the scanner classifies by packet ID alone and never
// authenticates further.
func DecodeLoginSuccess(f *Frame) (LoginSuccess, error) {
	if f.PacketID != LoginSuccessID {
		return LoginSuccess{}, fmt.Errorf("protocol: unexpected login success packet id 0x%02x", int32(f.PacketID))
	}
	r := wire.NewReader(f.Data)
	uuid, err := r.UUID()
	if err != nil {
		return LoginSuccess{}, fmt.Errorf("login success uuid: %w", err)
	}
	username, err := r.String()
	if err != nil {
		return LoginSuccess{}, fmt.Errorf("login success username: %w", err)
	}
	return LoginSuccess{UUID: uuid, Username: username}, nil
}

// Serialize builds a minimal wire frame for a LoginSuccess (mock servers).
func (l LoginSuccess) Serialize() *Frame {
	b := wire.NewBuilder()
	b.UUID(l.UUID).String(l.Username)
	b.VarInt(0) // empty property array
	return &Frame{PacketID: LoginSuccessID, Data: b.Bytes()}
}

// EncryptionRequest signals that the server requires Mojang-signed
// authentication: online-mode, i.e. licensed. Its key
// material is decoded only so the frame is fully consumed; it is never
// acted on.
type EncryptionRequest struct {
	ServerID    string
	PublicKey   []byte
	VerifyToken []byte
}

// DecodeEncryptionRequest parses f's body.
func DecodeEncryptionRequest(f *Frame) (EncryptionRequest, error) {
	if f.PacketID != EncryptionRequestID {
		return EncryptionRequest{}, fmt.Errorf("protocol: unexpected encryption request packet id 0x%02x", int32(f.PacketID))
	}
	r := wire.NewReader(f.Data)
	serverID, err := r.String()
	if err != nil {
		return EncryptionRequest{}, fmt.Errorf("encryption request server id: %w", err)
	}
	publicKey, err := r.PrefixedBytes()
	if err != nil {
		return EncryptionRequest{}, fmt.Errorf("encryption request public key: %w", err)
	}
	verifyToken, err := r.PrefixedBytes()
	if err != nil {
		return EncryptionRequest{}, fmt.Errorf("encryption request verify token: %w", err)
	}
	return EncryptionRequest{ServerID: serverID, PublicKey: publicKey, VerifyToken: verifyToken}, nil
}

// Serialize builds a minimal wire frame for an EncryptionRequest (mock
// servers).
func (e EncryptionRequest) Serialize() *Frame {
	b := wire.NewBuilder()
	b.String(e.ServerID).PrefixedBytes(e.PublicKey).PrefixedBytes(e.VerifyToken)
	return &Frame{PacketID: EncryptionRequestID, Data: b.Bytes()}
}

// Disconnect is sent instead of a login response when the server refuses
// the connection outright.
type Disconnect struct {
	Reason string
}

// DecodeDisconnect parses f's body.
func DecodeDisconnect(f *Frame) (Disconnect, error) {
	if f.PacketID != LoginDisconnectID {
		return Disconnect{}, fmt.Errorf("protocol: unexpected disconnect packet id 0x%02x", int32(f.PacketID))
	}
	r := wire.NewReader(f.Data)
	reason, err := r.String()
	if err != nil {
		return Disconnect{}, fmt.Errorf("disconnect reason: %w", err)
	}
	return Disconnect{Reason: reason}, nil
}

// Serialize builds the wire frame for a Disconnect (mock servers).
func (d Disconnect) Serialize() *Frame {
	b := wire.NewBuilder()
	b.String(d.Reason)
	return &Frame{PacketID: LoginDisconnectID, Data: b.Bytes()}
}
