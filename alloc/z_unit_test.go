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

package alloc_test

import (
	"errors"
	"math"
	"testing"

	"github.com/zintix-labs/alloclab/alloc"
	"github.com/zintix-labs/alloclab/errs"
)

const tol = 1e-9

func near(got, want, eps float64) bool {
	return math.Abs(got-want) <= eps*math.Max(1, math.Abs(want))
}

func TestSolveScenarios(t *testing.T) {
	cases := []struct {
		name    string
		r, a    float64
		opts    []alloc.Option
		wantX   float64
		wantObj float64
	}{
		{"original", 50, 10, nil, 0.2, 10 * math.Log(0.2)},
		{"unit", 1, 1, []alloc.Option{alloc.WithLower(1e-3)}, 1.0, 0.0},
		{"large", 0.5, 100, nil, 200, 100 * math.Log(200)},
		{"tight floor", 4, 1, []alloc.Option{alloc.WithLower(0.2499)}, 0.25, math.Log(0.25)},
	}
	for _, c := range cases {
		sol, err := alloc.Solve(c.r, c.a, c.opts...)
		if err != nil {
			t.Fatalf("%s: unexpected err: %v", c.name, err)
		}
		if !near(sol.OptimalX, c.wantX, tol) {
			t.Fatalf("%s: x got %.12f want %.12f", c.name, sol.OptimalX, c.wantX)
		}
		if !near(sol.Objective, c.wantObj, tol) {
			t.Fatalf("%s: objective got %.12f want %.12f", c.name, sol.Objective, c.wantObj)
		}
		if sol.Method != alloc.Closed || sol.Iterations != 0 {
			t.Fatalf("%s: method %q iterations %d", c.name, sol.Method, sol.Iterations)
		}
	}

	sol, _ := alloc.Solve(50, 10)
	if math.Abs(sol.Objective-(-16.094)) > 1e-3 {
		t.Fatalf("objective got %.6f want ≈ -16.094", sol.Objective)
	}
	if sol.Upper != 0.2 || sol.Lower != alloc.DefaultLower {
		t.Fatalf("bounds got [%v, %v]", sol.Lower, sol.Upper)
	}
}

func TestSolveInvalid(t *testing.T) {
	cases := []struct {
		name string
		r, a float64
		opts []alloc.Option
	}{
		{"zero coef", 10, 0, nil},
		{"negative coef", 10, -1, nil},
		{"zero ratio", 0, 1, nil},
		{"negative ratio", -2, 1, nil},
		{"floor equals upper", 10, 1, []alloc.Option{alloc.WithLower(0.1)}},
		{"floor above upper", 50, 10, []alloc.Option{alloc.WithLower(1)}},
		{"zero floor", 1, 1, []alloc.Option{alloc.WithLower(0)}},
		{"nan ratio", math.NaN(), 1, nil},
		{"inf coef", 1, math.Inf(1), nil},
		{"cap below floor", 1, 1, []alloc.Option{alloc.WithCap(1e-4)}},
		{"negative cap", 1, 1, []alloc.Option{alloc.WithCap(-1)}},
		{"upper overflows", 1e-300, 1e300, nil},
	}
	for _, c := range cases {
		sol, err := alloc.Solve(c.r, c.a, c.opts...)
		if err == nil {
			t.Fatalf("%s: expected error, got %+v", c.name, sol)
		}
		if !errors.Is(err, errs.ErrInvalidProblem) {
			t.Fatalf("%s: expected InvalidProblem, got %v", c.name, err)
		}
		if sol != (alloc.Solution{}) {
			t.Fatalf("%s: partial result returned: %+v", c.name, sol)
		}
	}
}

func TestSolveGrid(t *testing.T) {
	for _, r := range []float64{0.01, 0.3, 1, 7, 50, 1e4} {
		for _, a := range []float64{0.05, 1, 2.5, 10, 1e3} {
			if a/r <= alloc.DefaultLower {
				continue
			}
			sol, err := alloc.Solve(r, a)
			if err != nil {
				t.Fatalf("R=%v a=%v: %v", r, a, err)
			}
			if !near(sol.OptimalX, a/r, tol) || !near(sol.Objective, a*math.Log(a/r), tol) {
				t.Fatalf("R=%v a=%v: got %+v", r, a, sol)
			}
			if sol.OptimalX < sol.Lower || sol.OptimalX > sol.Upper {
				t.Fatalf("R=%v a=%v: x %v outside [%v, %v]", r, a, sol.OptimalX, sol.Lower, sol.Upper)
			}
		}
	}
}

func TestSolveMonotoneInCoef(t *testing.T) {
	const r = 5.0
	turn := alloc.TurnCoef(r)
	prev, err := alloc.Solve(r, 0.1)
	if err != nil {
		t.Fatal(err)
	}
	for a := 0.2; a <= 50; a += 0.1 {
		sol, err := alloc.Solve(r, a)
		if err != nil {
			t.Fatal(err)
		}
		if sol.OptimalX <= prev.OptimalX {
			t.Fatalf("a=%v: x %v not above previous %v", a, sol.OptimalX, prev.OptimalX)
		}
		prevCoef := a - 0.1
		switch {
		case a <= turn && sol.Objective >= prev.Objective:
			t.Fatalf("a=%v below R/e: f %v not below previous %v", a, sol.Objective, prev.Objective)
		case prevCoef >= turn && sol.Objective <= prev.Objective:
			t.Fatalf("a=%v above R/e: f %v not above previous %v", a, sol.Objective, prev.Objective)
		}
		prev = sol
	}
}

func TestTurnCoef(t *testing.T) {
	if got := alloc.TurnCoef(5); !near(got, 5/math.E, tol) {
		t.Fatalf("TurnCoef(5) got %v", got)
	}
	// f(a) = a·log(a/R) bottoms out at a = R/e with value -R/e.
	sol, err := alloc.Solve(5, alloc.TurnCoef(5))
	if err != nil {
		t.Fatal(err)
	}
	if !near(sol.Objective, -5/math.E, tol) {
		t.Fatalf("objective at turn got %v want %v", sol.Objective, -5/math.E)
	}
}

func TestSolveWithCap(t *testing.T) {
	sol, err := alloc.Solve(1, 5, alloc.WithCap(2))
	if err != nil {
		t.Fatal(err)
	}
	if sol.OptimalX != 2 || !near(sol.Objective, 5*math.Log(2), tol) {
		t.Fatalf("capped got %+v", sol)
	}
	sol, err = alloc.Solve(50, 10, alloc.WithCap(1e6))
	if err != nil {
		t.Fatal(err)
	}
	if sol.OptimalX != 0.2 {
		t.Fatalf("loose cap changed the optimum: %+v", sol)
	}
}

func TestSolveSearchMethodsMatchClosed(t *testing.T) {
	for _, m := range []alloc.Method{alloc.Bisect, alloc.Golden} {
		sol, err := alloc.Solve(50, 10, alloc.WithMethod(m))
		if err != nil {
			t.Fatalf("%s: %v", m, err)
		}
		if !near(sol.OptimalX, 0.2, tol) || sol.Method != m {
			t.Fatalf("%s: got %+v", m, sol)
		}
	}
	if _, err := alloc.Solve(1, 1, alloc.WithMethod("simplex")); err == nil || errs.IsInvalidProblem(err) {
		t.Fatalf("unknown method should fail as config error, got %v", err)
	}
}

func TestParseMethod(t *testing.T) {
	cases := map[string]alloc.Method{"": alloc.Closed, "Closed": alloc.Closed, " bisect ": alloc.Bisect, "GOLDEN": alloc.Golden}
	for in, want := range cases {
		got, err := alloc.ParseMethod(in)
		if err != nil || got != want {
			t.Fatalf("ParseMethod(%q) got %q, %v want %q", in, got, err, want)
		}
	}
	if _, err := alloc.ParseMethod("glop"); err == nil {
		t.Fatalf("expected error for glop")
	}
}
