package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseMode(t *testing.T) {
	cases := map[string]LogMode{"": ModeDev, "DEV": ModeDev, "json": ModeProd, "prod": ModeProd, "off": ModeSilence}
	for in, want := range cases {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Fatalf("ParseMode(%q) got %v, %v want %v", in, got, err, want)
		}
	}
	if _, err := ParseMode("loud"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestProdWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerTo(ModeProd, &buf)
	log.Debug("hidden")
	log.Info("solved", "x", 0.2)
	line := strings.TrimSpace(buf.String())
	if strings.Contains(line, "hidden") {
		t.Fatalf("debug should be filtered in prod: %s", line)
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(line), &rec); err != nil {
		t.Fatalf("not json: %q", line)
	}
	if rec["msg"] != "solved" || rec["x"] != 0.2 {
		t.Fatalf("record got %v", rec)
	}
}

func TestDevAndSilence(t *testing.T) {
	var buf bytes.Buffer
	NewLoggerTo(ModeDev, &buf).Debug("bracket", "k", 3)
	if !strings.Contains(buf.String(), "bracket") {
		t.Fatalf("dev should print debug: %q", buf.String())
	}
	buf.Reset()
	NewLoggerTo(ModeSilence, &buf).Error("nothing")
	NewLogger(nil).Error("nothing")
	if buf.Len() != 0 {
		t.Fatalf("silence wrote %q", buf.String())
	}
}
