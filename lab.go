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

// Package alloclab assembles the allocation solver with its preset catalog and logger.
//
// A Lab holds a frozen catalog of named problems read from one or more flat fs.FS
// sources (go:embed or os.DirFS) and solves either a registered preset or an ad-hoc
// alloc.Problem. Every solve is independent; a Lab may be shared once built.
//
//	lab, _ := alloclab.NewAuto(alloclab.Configs(presets.FS))
//	rep, _ := lab.Solve("original")
//	fmt.Print(rep.Plain())
package alloclab

import (
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/zintix-labs/alloclab/alloc"
	"github.com/zintix-labs/alloclab/catalog"
	"github.com/zintix-labs/alloclab/errs"
	"github.com/zintix-labs/alloclab/logger"
	"github.com/zintix-labs/alloclab/report"
)

// Configs bundles config sources for New.
func Configs(cfgs ...fs.FS) []fs.FS {
	return cfgs
}

// Option customizes a Lab.
type Option func(*Lab)

// WithLogger injects the logger; the default is silent.
func WithLogger(log *slog.Logger) Option {
	return func(l *Lab) {
		if log != nil {
			l.log = log
		}
	}
}

// WithVerify makes every solve also run alloc.CrossCheck.
func WithVerify(on bool) Option {
	return func(l *Lab) { l.verify = on }
}

type Lab struct {
	cat    *catalog.Catalog
	log    *slog.Logger
	verify bool
}

// New builds a Lab with an empty catalog over cfgs. Call RegisterAll or Register, then Freeze.
func New(cfgs []fs.FS, opts ...Option) (*Lab, error) {
	if len(cfgs) == 0 {
		return nil, errs.NewFatal("configs required")
	}
	cat, err := catalog.New(cfgs...)
	if err != nil {
		return nil, err
	}
	lab := &Lab{
		cat: cat,
		log: logger.NewDefaultLogger(logger.ModeSilence),
	}
	for _, opt := range opts {
		opt(lab)
	}
	return lab, nil
}

// NewAuto builds a Lab, registers every preset found in cfgs and freezes the catalog.
func NewAuto(cfgs []fs.FS, opts ...Option) (*Lab, error) {
	lab, err := New(cfgs, opts...)
	if err != nil {
		return nil, err
	}
	if err := lab.RegisterAll(); err != nil {
		return nil, err
	}
	lab.Freeze()
	return lab, nil
}

func (l *Lab) Register(ents ...catalog.Entry) error {
	return l.cat.Register(ents...)
}

// RegisterAll parses every config file and registers it under its declared name.
//
// It fails fast on the first unreadable or invalid preset and registers nothing in
// that case; files are handled in lexical order so failures are reproducible.
func (l *Lab) RegisterAll() error {
	if l.cat.IsFrozen() {
		return errs.NewWarn("can not register presets after the lab is frozen")
	}
	files := l.cat.Cfg().Files()
	if len(files) == 0 {
		return errs.NewFatal("no config files found to register")
	}
	entries := make([]catalog.Entry, 0, len(files))
	seen := map[string]string{}
	for _, file := range files {
		src, _ := l.cat.Cfg().GetFS(file)
		raw, err := fs.ReadFile(src, file)
		if err != nil {
			return errs.Wrap(err, fmt.Sprintf("read config failed: %s", file))
		}
		ps, err := catalog.ParseSetting(file, raw)
		if err != nil {
			return errs.Wrap(err, fmt.Sprintf("parse problem setting failed: %s", file))
		}
		if prev, ok := seen[ps.Name]; ok {
			return errs.Fatalf("duplicate problem name: %s (config=%s and %s)", ps.Name, prev, file)
		}
		seen[ps.Name] = file
		entries = append(entries, catalog.Entry{Name: ps.Name, ConfigName: file})
	}
	if err := l.cat.Register(entries...); err != nil {
		return err
	}
	l.log.Debug("presets registered", "count", len(entries))
	return nil
}

func (l *Lab) Freeze() {
	l.cat.Freeze()
}

func (l *Lab) Names() []string {
	return l.cat.Names()
}

// Summary lists every registered problem with its feasible interval.
func (l *Lab) Summary() ([]catalog.Summary, error) {
	ents := l.cat.All()
	out := make([]catalog.Summary, 0, len(ents))
	for _, e := range ents {
		p, err := l.Problem(e.Name)
		if err != nil {
			return nil, err
		}
		out = append(out, catalog.Summary{
			Name:   e.Name,
			Ratio:  p.Ratio,
			Coef:   p.Coef,
			Lower:  p.Lower,
			Upper:  p.Upper(),
			Method: string(p.Method),
			File:   e.ConfigName,
		})
	}
	return out, nil
}

// Problem loads the preset registered under name.
func (l *Lab) Problem(name string) (alloc.Problem, error) {
	ps, err := l.cat.SettingByName(name)
	if err != nil {
		return alloc.Problem{}, err
	}
	return ps.Problem(), nil
}

// Solve solves the preset registered under name.
func (l *Lab) Solve(name string) (*report.Report, error) {
	p, err := l.Problem(name)
	if err != nil {
		return nil, err
	}
	return l.SolveProblem(name, p)
}

// SolveProblem solves p and labels the report with name (may be empty).
func (l *Lab) SolveProblem(name string, p alloc.Problem) (*report.Report, error) {
	log := l.log.With("problem", name)
	if err := p.Validate(); err != nil {
		log.Warn("rejected", "ratio", p.Ratio, "coef", p.Coef, "lower", p.Lower, "err", err)
		return nil, err
	}
	log.Debug("feasible interval", "lower", p.Lower, "upper", p.Upper(), "method", p.Method)

	sol, err := p.Solve()
	if err != nil {
		return nil, err
	}
	rep := report.NewReport(name, p, sol)
	if l.verify {
		chk, err := alloc.CrossCheck(p)
		if err != nil {
			return nil, err
		}
		rep.Check = &chk
		if !chk.Agree {
			log.Warn("cross-check disagrees", "closed", chk.Closed.OptimalX, "searched", chk.Searched.OptimalX)
		}
	}
	log.Info("solved", "x", sol.OptimalX, "objective", sol.Objective, "iterations", sol.Iterations)
	return rep, nil
}

// SolveAll solves every registered preset in name order and stops at the first error.
func (l *Lab) SolveAll() ([]*report.Report, error) {
	names := l.cat.Names()
	out := make([]*report.Report, 0, len(names))
	for _, name := range names {
		rep, err := l.Solve(name)
		if err != nil {
			return nil, errs.Wrap(err, fmt.Sprintf("problem %s", name))
		}
		out = append(out, rep)
	}
	return out, nil
}
