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

package perf

import (
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"

	"github.com/zintix-labs/alloclab/errs"
)

// Dir is where profiles are written.
var Dir = "build/profiling"

// Run executes exe under the profiler named by mode: "", "cpu", "heap" or "allocs".
// An unknown mode is rejected before exe runs.
func Run(exe func() error, mode string) error {
	switch mode {
	case "":
		return exe()
	case "cpu":
		return CPU(exe)
	case "heap":
		return snapshot(exe, "heap")
	case "allocs":
		return snapshot(exe, "allocs")
	default:
		return errs.Warnf("unknown pprof mode %q (want cpu, heap or allocs)", mode)
	}
}

// CPU profiles exe into Dir/cpu.pprof.
func CPU(exe func() error) error {
	f, err := create("cpu.pprof")
	if err != nil {
		return err
	}
	defer f.Close()
	if err := pprof.StartCPUProfile(f); err != nil {
		return errs.Wrap(err, "failed to start pprof")
	}
	defer pprof.StopCPUProfile()
	return exe()
}

// snapshot runs exe, then writes the named runtime profile. The heap profile is taken
// after a GC so it shows live objects only.
func snapshot(exe func() error, name string) error {
	if err := exe(); err != nil {
		return err
	}
	if name == "heap" {
		runtime.GC()
	}
	f, err := create(name + ".pprof")
	if err != nil {
		return err
	}
	defer f.Close()
	prof := pprof.Lookup(name)
	if prof == nil {
		return errs.Fatalf("profile %s not available", name)
	}
	if err := prof.WriteTo(f, 0); err != nil {
		return errs.Wrap(err, "failed to write "+name+" profile")
	}
	return nil
}

func create(file string) (*os.File, error) {
	if err := os.MkdirAll(Dir, 0o755); err != nil {
		return nil, errs.Wrap(err, "failed to create profiling dir")
	}
	f, err := os.Create(filepath.Join(Dir, file))
	if err != nil {
		return nil, errs.Wrap(err, "failed to create "+file)
	}
	return f, nil
}
