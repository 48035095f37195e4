// Package logging builds the process logger.
//
// Every service takes a *slog.Logger; New builds the one handed to them
// from the configured level and format and installs it as the slog default
// so that best-effort paths logging through cogentcore's errors package end
// up in the same stream.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"cogentcore.org/core/base/logx"

	"slicerweb/internal/slicerr"
)

// Formats accepted by New.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ParseLevel parses debug, info, warn or error, case-insensitively.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, slicerr.Wrap(slicerr.KindConfiguration, "logging.ParseLevel", s, err)
	}

	return level, nil
}

// NewHandler returns a text or JSON handler writing to w.
func NewHandler(w io.Writer, level slog.Level, format string) (slog.Handler, error) {
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(format) {
	case "", FormatText:
		return slog.NewTextHandler(w, opts), nil
	case FormatJSON:
		return slog.NewJSONHandler(w, opts), nil
	default:
		return nil, slicerr.Wrap(slicerr.KindConfiguration, "logging.NewHandler", format,
			fmt.Errorf("unknown log format (want %s or %s)", FormatText, FormatJSON))
	}
}

// New builds a logger, installs it as the slog default and aligns
// cogentcore's user level with it.
func New(w io.Writer, level, format string) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	h, err := NewHandler(w, lvl, format)
	if err != nil {
		return nil, err
	}

	logger := slog.New(h)
	slog.SetDefault(logger)
	logx.UserLevel = lvl

	return logger, nil
}
