package perf

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestRunModes(t *testing.T) {
	Dir = t.TempDir()
	calls := 0
	exe := func() error { calls++; return nil }
	for _, mode := range []string{"", "cpu", "heap", "allocs"} {
		if err := Run(exe, mode); err != nil {
			t.Fatalf("%q: %v", mode, err)
		}
	}
	if calls != 4 {
		t.Fatalf("exe calls got %d want 4", calls)
	}
	for _, f := range []string{"cpu.pprof", "heap.pprof", "allocs.pprof"} {
		if _, err := os.Stat(filepath.Join(Dir, f)); err != nil {
			t.Fatalf("missing %s: %v", f, err)
		}
	}
}

func TestRunPropagates(t *testing.T) {
	Dir = t.TempDir()
	boom := errors.New("boom")
	if err := Run(func() error { return boom }, "heap"); !errors.Is(err, boom) {
		t.Fatalf("got %v want boom", err)
	}
	if err := Run(func() error { t.Fatal("should not run"); return nil }, "trace"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}
