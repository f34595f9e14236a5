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

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/zintix-labs/alloclab"
	"github.com/zintix-labs/alloclab/alloc"
	"github.com/zintix-labs/alloclab/errs"
	"github.com/zintix-labs/alloclab/logger"
	"github.com/zintix-labs/alloclab/perf"
	"github.com/zintix-labs/alloclab/presets"
	"github.com/zintix-labs/alloclab/report"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// errNotMonotone is returned when a rising coefficient fails to raise x*, or f(x*) past R/e.
var errNotMonotone = errs.NewLog("optimum is not strictly increasing in a")

type config struct {
	sweep     alloclab.SweepSetting
	eps       float64
	format    string
	logmode   string
	showpb    bool
	pprofmode string
}

func main() {
	err := run(os.Args[1:], os.Stdout, os.Stderr)
	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
		os.Exit(0)
	case errs.IsInvalidProblem(err):
		os.Exit(2)
	case errors.Is(err, errNotMonotone):
		os.Exit(3)
	default:
		os.Exit(1)
	}
}

func bindVar(args []string, stderr io.Writer) (*config, error) {
	cfg := &config{}
	fset := flag.NewFlagSet("sweep", flag.ContinueOnError)
	fset.SetOutput(stderr)
	fset.Float64Var(&cfg.sweep.Ratio, "ratio", 50, "ratio parameter R (> 0)")
	fset.Float64Var(&cfg.sweep.From, "from", 1, "first coefficient a")
	fset.Float64Var(&cfg.sweep.To, "to", 20, "last coefficient a")
	fset.IntVar(&cfg.sweep.Steps, "steps", 20, "number of points (>= 2)")
	fset.Float64Var(&cfg.eps, "eps", alloc.DefaultLower, "lower bound ε on x")
	fset.StringVar(&cfg.format, "format", "table", "plain, table, json or yaml")
	fset.StringVar(&cfg.logmode, "log", "silent", "dev, prod or silent (logs go to stderr)")
	fset.BoolVar(&cfg.showpb, "pb", true, "show progress bar on stderr")
	fset.StringVar(&cfg.pprofmode, "p", "", "pprof: '', cpu, heap, allocs")
	if err := fset.Parse(args); err != nil {
		return nil, err
	}
	cfg.sweep.Lower = &cfg.eps
	return cfg, nil
}

func run(args []string, stdout, stderr io.Writer) error {
	cfg, err := bindVar(args, stderr)
	if err != nil {
		return err
	}
	mode, err := logger.ParseMode(cfg.logmode)
	if err != nil {
		return err
	}
	render, err := report.RendererFor(cfg.format)
	if err != nil {
		return err
	}
	lab, err := alloclab.NewAuto(alloclab.Configs(presets.FS), alloclab.WithLogger(logger.NewLoggerTo(mode, stderr)))
	if err != nil {
		return err
	}

	var (
		rep  *report.SweepReport
		used time.Duration
	)
	err = perf.Run(func() error {
		var serr error
		rep, used, serr = lab.Sweep(cfg.sweep, cfg.showpb)
		return serr
	}, cfg.pprofmode)
	if err != nil {
		fmt.Fprintln(stderr, "sweep:", err)
		return err
	}

	if err := render.Write(stdout, rep); err != nil {
		return err
	}
	if cfg.showpb {
		p := message.NewPrinter(language.English)
		p.Fprintf(stderr, "used: %v for %d points\n", used, len(rep.Rows))
	}
	if !rep.Monotone {
		fmt.Fprintln(stderr, "sweep:", errNotMonotone)
		return errNotMonotone
	}
	return nil
}
