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
	"math"
	"strings"

	"github.com/zintix-labs/alloclab/errs"
)

// Method names the strategy used to find x*.
type Method string

const (
	// Closed evaluates x* = upper bound directly.
	Closed Method = "closed"
	// Bisect bisects on the sign change of the slope.
	Bisect Method = "bisect"
	// Golden runs a golden-section search on objective values.
	Golden Method = "golden"
)

// ParseMethod accepts the method names case-insensitively; "" maps to Closed.
func ParseMethod(s string) (Method, error) {
	switch m := Method(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return Closed, nil
	case Closed, Bisect, Golden:
		return m, nil
	default:
		return "", errs.Warnf("unknown method %q (want closed, bisect or golden)", s)
	}
}

// Solution is the optimum of one problem.
type Solution struct {
	OptimalX   float64 `json:"optimal_x"       yaml:"optimal_x"`
	Objective  float64 `json:"objective_value" yaml:"objective_value"`
	Lower      float64 `json:"lower_bound"     yaml:"lower_bound"`
	Upper      float64 `json:"upper_bound"     yaml:"upper_bound"`
	Method     Method  `json:"method"          yaml:"method"`
	Iterations int     `json:"iterations"      yaml:"iterations"`
}

// Solve maximizes a·log(x) on [ε, a/R]. See NewProblem for the options.
func Solve(r, a float64, opts ...Option) (Solution, error) {
	return NewProblem(r, a, opts...).Solve()
}

// Solve computes the optimum of p.
func (p Problem) Solve() (Solution, error) {
	if err := p.Validate(); err != nil {
		return Solution{}, err
	}
	lo, up := p.Lower, p.Upper()
	switch p.Method {
	case "", Closed:
		return Solution{
			OptimalX:  up,
			Objective: p.Coef * math.Log(up),
			Lower:     lo,
			Upper:     up,
			Method:    Closed,
		}, nil
	case Bisect, Golden:
		return Maximize(LogUtility{Coef: p.Coef}, lo, up, Search{Method: p.Method, Tol: p.Tol})
	default:
		return Solution{}, errs.Warnf("unknown method %q", p.Method)
	}
}
