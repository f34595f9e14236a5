package spec

import (
	"fmt"
	"strings"

	"github.com/zintix-labs/alloclab/alloc"
	"github.com/zintix-labs/alloclab/errs"
)

// ProblemSetting is one preset file: a named allocation problem.
//
// lower_bound may be omitted (alloc.DefaultLower is used); an explicit 0 is rejected.
// cap 0 means no absolute ceiling on x.
type ProblemSetting struct {
	Name       string       `yaml:"name"        json:"name"`
	Ratio      float64      `yaml:"ratio"       json:"ratio"`
	Coef       float64      `yaml:"coef"        json:"coef"`
	LowerBound *float64     `yaml:"lower_bound" json:"lower_bound,omitempty"`
	Cap        float64      `yaml:"cap"         json:"cap,omitempty"`
	MethodStr  string       `yaml:"method"      json:"method,omitempty"`
	Tolerance  float64      `yaml:"tolerance"   json:"tolerance,omitempty"`
	Method     alloc.Method `yaml:"-"           json:"-"`
}

// Problem converts the setting into a solver problem.
func (ps *ProblemSetting) Problem() alloc.Problem {
	lower := alloc.DefaultLower
	if ps.LowerBound != nil {
		lower = *ps.LowerBound
	}
	return alloc.Problem{
		Ratio:  ps.Ratio,
		Coef:   ps.Coef,
		Lower:  lower,
		Cap:    ps.Cap,
		Method: ps.Method,
		Tol:    ps.Tolerance,
	}
}

func (ps *ProblemSetting) init() error {
	ps.Name = strings.ToLower(strings.TrimSpace(ps.Name))
	m, err := alloc.ParseMethod(ps.MethodStr)
	if err != nil {
		return errs.Wrap(err, fmt.Sprintf("problem %q", ps.Name))
	}
	ps.Method = m
	ps.MethodStr = string(m)
	return ps.valid()
}

// valid checks the fields the solver does not own, then the problem itself so that a
// bad preset fails when it is loaded rather than when it is solved.
func (ps *ProblemSetting) valid() error {
	if ps.Name == "" {
		return errs.NewFatal("problem setting err: name required")
	}
	if ps.Tolerance < 0 {
		return errs.Fatalf("problem %s err: tolerance must be >= 0, got %v", ps.Name, ps.Tolerance)
	}
	if err := ps.Problem().Validate(); err != nil {
		return errs.Wrap(err, fmt.Sprintf("problem %s", ps.Name))
	}
	return nil
}
