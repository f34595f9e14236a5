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
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/zintix-labs/alloclab"
	"github.com/zintix-labs/alloclab/alloc"
	"github.com/zintix-labs/alloclab/errs"
	"github.com/zintix-labs/alloclab/logger"
	"github.com/zintix-labs/alloclab/presets"
	"github.com/zintix-labs/alloclab/report"
)

type config struct {
	ratio   float64
	coef    float64
	eps     float64
	cap     float64
	tol     float64
	method  alloc.Method
	preset  string
	dir     string
	format  string
	logmode string
	verify  bool
	all     bool
	list    bool
	set     map[string]bool // flags given on the command line
}

type methodFlag struct{ p *alloc.Method }

func (f methodFlag) String() string {
	if f.p == nil {
		return string(alloc.Closed)
	}
	return string(*f.p)
}

func (f methodFlag) Set(s string) error {
	m, err := alloc.ParseMethod(s)
	if err != nil {
		return err
	}
	*f.p = m
	return nil
}

func bindVar(args []string, stderr io.Writer) (*config, error) {
	cfg := &config{method: alloc.Closed}
	fset := flag.NewFlagSet("solve", flag.ContinueOnError)
	fset.SetOutput(stderr)
	fset.Float64Var(&cfg.ratio, "ratio", 50, "ratio parameter R (> 0)")
	fset.Float64Var(&cfg.coef, "coef", 10, "objective coefficient a (> 0)")
	fset.Float64Var(&cfg.eps, "eps", alloc.DefaultLower, "lower bound ε on x")
	fset.Float64Var(&cfg.cap, "cap", 0, "absolute ceiling on x, 0 for none")
	fset.Float64Var(&cfg.tol, "tol", 0, "relative bracket width for bisect/golden, 0 for default")
	fset.Var(methodFlag{&cfg.method}, "method", "closed, bisect or golden")
	fset.StringVar(&cfg.preset, "preset", "", "solve a named preset instead of -ratio/-coef")
	fset.StringVar(&cfg.dir, "presets", "", "extra flat directory of preset files")
	fset.StringVar(&cfg.format, "format", "plain", "plain, table, json or yaml")
	fset.StringVar(&cfg.logmode, "log", "silent", "dev, prod or silent (logs go to stderr)")
	fset.BoolVar(&cfg.verify, "verify", false, "cross-check the closed form against bisection")
	fset.BoolVar(&cfg.all, "all", false, "solve every registered preset")
	fset.BoolVar(&cfg.list, "list", false, "list registered presets and exit")
	if err := fset.Parse(args); err != nil {
		return nil, err
	}
	cfg.set = map[string]bool{}
	fset.Visit(func(f *flag.Flag) { cfg.set[f.Name] = true })
	return cfg, nil
}

// override applies the explicitly given -eps, -cap, -method and -tol on top of a preset.
func (c *config) override(p alloc.Problem) alloc.Problem {
	opts := make([]alloc.Option, 0, 4)
	if c.set["eps"] {
		opts = append(opts, alloc.WithLower(c.eps))
	}
	if c.set["cap"] {
		opts = append(opts, alloc.WithCap(c.cap))
	}
	if c.set["method"] {
		opts = append(opts, alloc.WithMethod(c.method))
	}
	if c.set["tol"] {
		opts = append(opts, alloc.WithTolerance(c.tol))
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
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

	srcs := alloclab.Configs(presets.FS)
	if cfg.dir != "" {
		srcs = append(srcs, os.DirFS(cfg.dir))
	}
	lab, err := alloclab.NewAuto(srcs,
		alloclab.WithLogger(logger.NewLoggerTo(mode, stderr)),
		alloclab.WithVerify(cfg.verify),
	)
	if err != nil {
		return fail(stderr, err)
	}

	switch {
	case cfg.list:
		sum, err := lab.Summary()
		if err != nil {
			return fail(stderr, err)
		}
		for _, s := range sum {
			fmt.Fprintf(stdout, "%-16s R=%-8g a=%-8g x∈[%g, %g] %-7s %s\n", s.Name, s.Ratio, s.Coef, s.Lower, s.Upper, s.Method, s.File)
		}
		return nil
	case cfg.all:
		reps, err := lab.SolveAll()
		if err != nil {
			return fail(stderr, err)
		}
		for _, rep := range reps {
			if err := render.Write(stdout, rep); err != nil {
				return err
			}
		}
		return nil
	}

	var rep *report.Report
	if cfg.preset != "" {
		if cfg.set["ratio"] || cfg.set["coef"] {
			return fail(stderr, errs.Warnf("-ratio and -coef cannot be combined with -preset %q", cfg.preset))
		}
		p, perr := lab.Problem(cfg.preset)
		if perr != nil {
			return fail(stderr, perr)
		}
		rep, err = lab.SolveProblem(cfg.preset, cfg.override(p))
	} else {
		p := alloc.NewProblem(cfg.ratio, cfg.coef,
			alloc.WithLower(cfg.eps),
			alloc.WithCap(cfg.cap),
			alloc.WithMethod(cfg.method),
			alloc.WithTolerance(cfg.tol),
		)
		rep, err = lab.SolveProblem("", p)
	}
	if err != nil {
		return fail(stderr, err)
	}
	return render.Write(stdout, rep)
}

func fail(stderr io.Writer, err error) error {
	fmt.Fprintln(stderr, "solve:", err)
	return err
}
