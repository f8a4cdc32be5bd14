// Package console provides the scanner's two forms of user-visible
// output: structured zap logging for operators, and a terse one-line
// render per discovered server.
package console

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/go-mclib/scanner/mcstatus"
	"github.com/go-mclib/scanner/store"
)

// NewLogger builds a zap.SugaredLogger at the given level name
// ("debug", "info", "warn", "error"; unrecognized names fall back to
// info).
func NewLogger(levelName string) (*zap.SugaredLogger, error) {
	var level zapcore.Level
	if err := level.Set(levelName); err != nil {
		level = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig.TimeKey = "ts"

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("console: build logger: %w", err)
	}
	return logger.Sugar(), nil
}

// licenseGlyph maps the tri-valued license classification to its
// prefix glyph.
func licenseGlyph(license int) string {
	switch license {
	case 1:
		return "/"
	case 0:
		return "+"
	default:
		return "-"
	}
}

// RenderServer formats one discovered-server summary line.
func RenderServer(ip, port string, license int, status mcstatus.Status) string {
	return fmt.Sprintf("[%s] %s:%s -> %s | %s | %d/%d",
		licenseGlyph(license), ip, port, status.VersionName, status.Description,
		status.PlayersOnline, status.PlayersMax)
}

// PrintServer writes one RenderServer line to stdout.
func PrintServer(rec store.ServerRecord) {
	fmt.Println(RenderServer(rec.IP, rec.Port, rec.License, rec.Status))
}
