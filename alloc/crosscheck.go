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
	"gonum.org/v1/gonum/floats/scalar"
)

// CrossTol is the agreement tolerance between the closed form and the searched optimum.
const CrossTol float64 = 1e-9

// Check compares two ways of reaching the same optimum.
type Check struct {
	Closed   Solution `json:"closed"   yaml:"closed"`
	Searched Solution `json:"searched" yaml:"searched"`
	Agree    bool     `json:"agree"    yaml:"agree"`
}

// CrossCheck solves p in closed form and again with Maximize on a numerically
// differentiated a·log(x), then reports whether x* and f(x*) agree within CrossTol.
func CrossCheck(p Problem) (Check, error) {
	p.Method = Closed
	closed, err := p.Solve()
	if err != nil {
		return Check{}, err
	}
	u := LogUtility{Coef: p.Coef}
	searched, err := Maximize(Func(u.Value), closed.Lower, closed.Upper, Search{Method: Bisect, Tol: p.Tol})
	if err != nil {
		return Check{}, err
	}
	agree := scalar.EqualWithinAbsOrRel(closed.OptimalX, searched.OptimalX, CrossTol, CrossTol) &&
		scalar.EqualWithinAbsOrRel(closed.Objective, searched.Objective, CrossTol, CrossTol)
	return Check{Closed: closed, Searched: searched, Agree: agree}, nil
}
