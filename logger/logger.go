// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
	"github.com/zintix-labs/alloclab/errs"
)

// LogMode selects a handler preset.
type LogMode uint8

const (
	ModeDev LogMode = iota
	ModeProd
	ModeSilence
)

// ParseMode maps the -log flag value to a LogMode.
func ParseMode(s string) (LogMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "dev":
		return ModeDev, nil
	case "prod", "json":
		return ModeProd, nil
	case "silent", "silence", "off":
		return ModeSilence, nil
	default:
		return ModeDev, errs.Warnf("unknown log mode %q (want dev, prod or silent)", s)
	}
}

// NewDefaultLogger returns a *slog.Logger built from LogMode defaults.
// Logs always go to stderr so stdout stays reserved for results.
func NewDefaultLogger(mode LogMode) *slog.Logger {
	return slog.New(buildHandler(mode, os.Stderr))
}

// NewLoggerTo is NewDefaultLogger writing to w.
func NewLoggerTo(mode LogMode, w io.Writer) *slog.Logger {
	return slog.New(buildHandler(mode, w))
}

// NewLogger wraps a caller-assembled Handler; nil falls back to ModeSilence.
func NewLogger(h slog.Handler) *slog.Logger {
	if h == nil {
		h = buildHandler(ModeSilence, io.Discard)
	}
	return slog.New(h)
}

func buildHandler(logmode LogMode, w io.Writer) slog.Handler {
	switch logmode {
	case ModeDev:
		return tint.NewHandler(w, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: "15:04:05",
		})
	case ModeProd:
		return slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	case ModeSilence:
		return slog.NewTextHandler(io.Discard, nil)
	default:
		return slog.NewTextHandler(w, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}
}
