package config

import (
	"github.com/rs/zerolog"
	"go.mau.fi/zeroconfig"
)

// BuildLogger compiles the logging block into a zerolog.Logger via
// go.mau.fi/zeroconfig, the same "declarative struct in, zerolog.Logger
// out" shape mautrix-derived bridges use for their own logging config.
// The exact zeroconfig.Config field names are a best-effort reconstruction
// (no direct call site exists anywhere in the retrieval pack) — see
// DESIGN.md.
func (c LoggingConfig) BuildLogger() (*zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(c.MinLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	format := zeroconfig.FormatPretty
	if c.WriterType == "json" {
		format = zeroconfig.FormatJSON
	}
	writers := []zeroconfig.WriterConfig{{
		Type:   zeroconfig.WriterTypeStdout,
		Format: format,
	}}
	if c.FilePath != "" {
		writers = append(writers, zeroconfig.WriterConfig{
			Type:       zeroconfig.WriterTypeFile,
			Filename:   c.FilePath,
			MaxSize:    c.MaxSizeMB,
			MaxBackups: c.MaxBackups,
		})
	}

	cfg := zeroconfig.Config{
		MinLevel: &level,
		Writers:  writers,
	}
	return cfg.Compile()
}
