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

// Package alloc solves the single-resource allocation problem
//
//	maximize  a·log(x)
//	subject to ε ≤ x ≤ a/R
//
// The objective is strictly increasing on x > 0, so the optimum sits on the upper
// bound and is computed in closed form. Maximize provides the bracketing search used
// for general concave objectives on the same kind of box.
package alloc

import (
	"math"

	"github.com/zintix-labs/alloclab/errs"
)

// DefaultLower is the floor ε that keeps log(x) defined.
const DefaultLower float64 = 1e-3

// Problem is one allocation instance.
//
// Cap is an optional absolute ceiling on x (0 means none); the effective upper bound
// is min(a/R, Cap).
type Problem struct {
	Ratio  float64 // R
	Coef   float64 // a
	Lower  float64 // ε
	Cap    float64
	Method Method
	Tol    float64
}

// NewProblem returns a Problem with the default floor and the closed-form method.
func NewProblem(r, a float64, opts ...Option) Problem {
	p := Problem{Ratio: r, Coef: a, Lower: DefaultLower, Method: Closed}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// Option tunes a Problem built by NewProblem or Solve.
type Option func(*Problem)

// WithLower sets ε.
func WithLower(eps float64) Option {
	return func(p *Problem) { p.Lower = eps }
}

// WithCap bounds x from above independently of a/R. c == 0 means no cap; Validate
// rejects a negative c.
func WithCap(c float64) Option {
	return func(p *Problem) { p.Cap = c }
}

// WithMethod selects how the optimum is located.
func WithMethod(m Method) Option {
	return func(p *Problem) { p.Method = m }
}

// WithTolerance sets the relative bracket width for the search methods.
func WithTolerance(tol float64) Option {
	return func(p *Problem) { p.Tol = tol }
}

// Upper returns min(a/R, Cap). It is meaningful only after Validate passes.
func (p Problem) Upper() float64 {
	up := p.Coef / p.Ratio
	if p.Cap > 0 && p.Cap < up {
		up = p.Cap
	}
	return up
}

// Validate checks the problem is feasible and bounded.
// Every failure is errs.KindInvalidProblem and names the violated constraint.
func (p Problem) Validate() error {
	switch {
	case !finite(p.Ratio):
		return errs.Invalidf("ratio R must be finite, got %v", p.Ratio)
	case !finite(p.Coef):
		return errs.Invalidf("coefficient a must be finite, got %v", p.Coef)
	case !finite(p.Lower):
		return errs.Invalidf("lower bound ε must be finite, got %v", p.Lower)
	case p.Ratio <= 0:
		return errs.Invalidf("ratio R must be > 0, got %v", p.Ratio)
	case p.Coef <= 0:
		return errs.Invalidf("coefficient a must be > 0, got %v", p.Coef)
	case p.Lower <= 0:
		return errs.Invalidf("lower bound ε must be > 0, got %v", p.Lower)
	case math.IsNaN(p.Cap) || p.Cap < 0:
		return errs.Invalidf("cap must be >= 0, got %v", p.Cap)
	}
	up := p.Upper()
	if !finite(up) {
		return errs.Invalidf("upper bound a/R overflows: a=%v R=%v", p.Coef, p.Ratio)
	}
	if p.Lower >= up {
		return errs.Invalidf("empty feasible interval: ε=%v >= upper bound %v", p.Lower, up)
	}
	return nil
}

// TurnCoef returns R/e, where the optimal value a·log(a/R) stops falling and starts
// rising in a. x* = a/R rises with a everywhere; f(x*) only rises for a above the turn.
func TurnCoef(r float64) float64 {
	return r / math.E
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
