package console_test

import (
	"strings"
	"testing"

	"github.com/go-mclib/scanner/console"
	"github.com/go-mclib/scanner/mcstatus"
)

func TestRenderServerGlyphs(t *testing.T) {
	status := mcstatus.Status{VersionName: "1.20.4", Description: "Hi", PlayersOnline: 3, PlayersMax: 20}

	cases := []struct {
		license int
		glyph   string
	}{
		{1, "/"},
		{0, "+"},
		{-1, "-"},
	}
	for _, c := range cases {
		got := console.RenderServer("1.2.3.4", "25565", c.license, status)
		if !strings.HasPrefix(got, "["+c.glyph+"]") {
			t.Errorf("RenderServer(license=%d) = %q, want prefix [%s]", c.license, got, c.glyph)
		}
	}
}

func TestNewLoggerUnknownLevelFallsBackToInfo(t *testing.T) {
	logger, err := console.NewLogger("not-a-real-level")
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	defer logger.Desugar().Sync()
	if logger == nil {
		t.Fatal("NewLogger() returned nil logger")
	}
}
