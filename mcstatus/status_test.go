package mcstatus_test

import (
	"testing"

	"github.com/go-mclib/scanner/mcstatus"
)

func TestParseStatusFullReply(t *testing.T) {
	blob := `{"version":{"name":"1.20.4","protocol":765},"players":{"online":3,"max":20},"description":"Hi"}`
	got := mcstatus.ParseStatus(blob)

	if got.VersionName != "1.20.4" || got.Protocol != 765 || got.PlayersOnline != 3 || got.PlayersMax != 20 || got.Description != "Hi" {
		t.Fatalf("ParseStatus() = %+v", got)
	}
}

func TestParseStatusDefaults(t *testing.T) {
	got := mcstatus.ParseStatus(`{}`)
	if got.Protocol != mcstatus.DefaultProtocol {
		t.Errorf("Protocol = %d, want %d", got.Protocol, mcstatus.DefaultProtocol)
	}
	if got.PlayersOnline != mcstatus.DefaultPlayerCount {
		t.Errorf("PlayersOnline = %d, want %d", got.PlayersOnline, mcstatus.DefaultPlayerCount)
	}
	if got.PlayersMax != mcstatus.DefaultPlayerCount {
		t.Errorf("PlayersMax = %d, want %d", got.PlayersMax, mcstatus.DefaultPlayerCount)
	}
	if got.Description != "" {
		t.Errorf("Description = %q, want empty", got.Description)
	}
}

func TestParseStatusExplicitZeroPlayers(t *testing.T) {
	got := mcstatus.ParseStatus(`{"players":{"online":0,"max":0}}`)
	if got.PlayersOnline != 0 || got.PlayersMax != 0 {
		t.Errorf("got online=%d max=%d, want 0,0", got.PlayersOnline, got.PlayersMax)
	}
}

func TestParseStatusExplicitZeroProtocol(t *testing.T) {
	got := mcstatus.ParseStatus(`{"version":{"name":"custom","protocol":0}}`)
	if got.Protocol != 0 {
		t.Errorf("Protocol = %d, want 0", got.Protocol)
	}
}

func TestParseStatusMalformedJSON(t *testing.T) {
	got := mcstatus.ParseStatus("not json at all")
	if got.Protocol != mcstatus.DefaultProtocol || got.Description != "" {
		t.Fatalf("ParseStatus(garbage) = %+v, want all defaults", got)
	}
}

func TestDescriptionPlainString(t *testing.T) {
	got := mcstatus.ParseStatus(`{"description":"A Minecraft Server"}`)
	if got.Description != "A Minecraft Server" {
		t.Errorf("Description = %q", got.Description)
	}
}

func TestDescriptionTextObject(t *testing.T) {
	got := mcstatus.ParseStatus(`{"description":{"text":"Welcome"}}`)
	if got.Description != "Welcome" {
		t.Errorf("Description = %q", got.Description)
	}
}

func TestDescriptionExtraArray(t *testing.T) {
	got := mcstatus.ParseStatus(`{"description":{"extra":[{"text":"Hello, "},{"text":"world"}]}}`)
	if got.Description != "Hello, world" {
		t.Errorf("Description = %q, want %q", got.Description, "Hello, world")
	}
}

func TestDescriptionExtraArrayWithPlainStringElements(t *testing.T) {
	got := mcstatus.ParseStatus(`{"description":{"extra":["foo","bar"]}}`)
	if got.Description != "foobar" {
		t.Errorf("Description = %q, want %q", got.Description, "foobar")
	}
}

func TestDescriptionUnknownShapeDefaultsEmpty(t *testing.T) {
	got := mcstatus.ParseStatus(`{"description":42}`)
	if got.Description != "" {
		t.Errorf("Description = %q, want empty", got.Description)
	}
}
