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

package alloc

import (
	"errors"
	"math"

	"github.com/zintix-labs/alloclab/errs"
	"gonum.org/v1/gonum/diff/fd"
)

const (
	DefaultTol     float64 = 1e-9
	DefaultMaxIter int     = 200
)

// fdRelStep is the relative finite-difference step used when the objective has no Slope.
const fdRelStep float64 = 1e-6

// invPhi is 1/φ, the golden-section shrink factor.
var invPhi = (math.Sqrt(5) - 1) / 2

// ErrStopped is returned through Maximize when OnIter asks the search to stop.
var ErrStopped = errors.New("alloc: search stopped by callback")

// Objective is a concave function of one variable.
type Objective interface {
	Value(x float64) float64
}

// Differentiable objectives provide f′ directly; others are differentiated numerically.
type Differentiable interface {
	Slope(x float64) float64
}

// Func adapts a plain function to Objective.
type Func func(x float64) float64

func (f Func) Value(x float64) float64 { return f(x) }

// LogUtility is a·log(x).
type LogUtility struct {
	Coef float64
}

func (u LogUtility) Value(x float64) float64 { return u.Coef * math.Log(x) }

// Slope is a/x. It has no root for finite x, so the optimum is always a boundary point.
func (u LogUtility) Slope(x float64) float64 { return u.Coef / x }

// Iter is one bracket step.
type Iter struct {
	K     int     `json:"k"`
	Lo    float64 `json:"lo"`
	Hi    float64 `json:"hi"`
	X     float64 `json:"x"`
	F     float64 `json:"f"`
	Width float64 `json:"width"`
}

// Search configures Maximize. Zero values pick the defaults.
type Search struct {
	Method  Method // Bisect (default) or Golden
	Tol     float64
	MaxIter int
	// OnIter is called after each step; returning ErrStopped ends the search with
	// the last bracket midpoint and the ErrStopped error.
	OnIter func(Iter) error
}

// Maximize finds the maximum of the concave obj on [lo, hi].
//
// The slope is checked at both bounds first: a non-negative slope at hi, or a
// non-positive one at lo, means obj is monotone on the box and the optimum is that
// bound. Otherwise the bracket shrinks until its width is at most Tol·max(1, |hi|).
func Maximize(obj Objective, lo, hi float64, s Search) (Solution, error) {
	if obj == nil {
		return Solution{}, errs.Invalidf("objective required")
	}
	if !finite(lo) || !finite(hi) {
		return Solution{}, errs.Invalidf("bounds must be finite, got [%v, %v]", lo, hi)
	}
	if lo >= hi {
		return Solution{}, errs.Invalidf("empty feasible interval: lower %v >= upper %v", lo, hi)
	}
	if s.Method == "" {
		s.Method = Bisect
	}
	if s.Tol <= 0 {
		s.Tol = DefaultTol
	}
	if s.MaxIter <= 0 {
		s.MaxIter = DefaultMaxIter
	}
	width := s.Tol * math.Max(1, math.Abs(hi))
	slope := slopeOf(obj, lo, hi)

	sol := Solution{Lower: lo, Upper: hi, Method: s.Method}
	if slope(hi) >= 0 {
		sol.OptimalX, sol.Objective = hi, obj.Value(hi)
		return sol, nil
	}
	if slope(lo) <= 0 {
		sol.OptimalX, sol.Objective = lo, obj.Value(lo)
		return sol, nil
	}

	var (
		x   float64
		k   int
		err error
	)
	switch s.Method {
	case Bisect:
		x, k, err = bisect(obj, slope, lo, hi, width, s)
	case Golden:
		x, k, err = golden(obj, lo, hi, width, s)
	default:
		return Solution{}, errs.Warnf("unknown search method %q", s.Method)
	}
	sol.OptimalX, sol.Objective, sol.Iterations = x, obj.Value(x), k
	return sol, err
}

func bisect(obj Objective, slope func(float64) float64, a, b, width float64, s Search) (float64, int, error) {
	k := 0
	for k < s.MaxIter && b-a > width {
		k++
		m := a + (b-a)/2
		switch g := slope(m); {
		case g > 0:
			a = m
		case g < 0:
			b = m
		default:
			a, b = m, m
		}
		if err := report(s, k, a, b, obj); err != nil {
			return a + (b-a)/2, k, err
		}
	}
	return a + (b-a)/2, k, nil
}

func golden(obj Objective, a, b, width float64, s Search) (float64, int, error) {
	c := b - invPhi*(b-a)
	d := a + invPhi*(b-a)
	fc, fdv := obj.Value(c), obj.Value(d)
	k := 0
	for k < s.MaxIter && b-a > width {
		k++
		if fc > fdv {
			b, d, fdv = d, c, fc
			c = b - invPhi*(b-a)
			fc = obj.Value(c)
		} else {
			a, c, fc = c, d, fdv
			d = a + invPhi*(b-a)
			fdv = obj.Value(d)
		}
		if err := report(s, k, a, b, obj); err != nil {
			return a + (b-a)/2, k, err
		}
	}
	return a + (b-a)/2, k, nil
}

func report(s Search, k int, a, b float64, obj Objective) error {
	if s.OnIter == nil {
		return nil
	}
	x := a + (b-a)/2
	err := s.OnIter(Iter{K: k, Lo: a, Hi: b, X: x, F: obj.Value(x), Width: b - a})
	if err != nil && !errors.Is(err, ErrStopped) {
		return errs.Wrap(err, "search callback failed")
	}
	return err
}

// slopeOf returns f′. Without an analytic Slope it uses finite differences that never
// step outside [lo, hi]: forward at the lower edge, backward at the upper edge.
func slopeOf(obj Objective, lo, hi float64) func(float64) float64 {
	if d, ok := obj.(Differentiable); ok {
		return d.Slope
	}
	return func(x float64) float64 {
		step := math.Min(fdRelStep*math.Max(1, math.Abs(x)), (hi-lo)/4)
		formula := fd.Central
		switch {
		case x-step < lo:
			formula = fd.Forward
		case x+step > hi:
			formula = fd.Backward
		}
		return fd.Derivative(obj.Value, x, &fd.Settings{Formula: formula, Step: step})
	}
}
