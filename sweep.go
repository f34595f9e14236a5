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

package alloclab

import (
	"io"
	"strconv"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/zintix-labs/alloclab/alloc"
	"github.com/zintix-labs/alloclab/errs"
	"github.com/zintix-labs/alloclab/report"
)

// SweepSetting describes a run over a ∈ [From, To] in Steps evenly spaced points, R fixed.
type SweepSetting struct {
	Ratio float64
	From  float64
	To    float64
	Steps int
	Lower *float64 // nil means alloc.DefaultLower
}

func (s SweepSetting) valid() error {
	switch {
	case s.Steps < 2:
		return errs.Warnf("sweep steps must be >= 2, got %d", s.Steps)
	case !(s.To > s.From):
		return errs.Warnf("sweep range must be increasing, got [%v, %v]", s.From, s.To)
	}
	return nil
}

// Sweep solves each point of s and reports the objective gain between consecutive points.
// Monotone holds when x* rose strictly at every step and f(x*) rose strictly at every
// step starting at or above R/e, where a·log(a/R) turns upward. Any invalid point
// aborts the sweep with that point's error.
func (l *Lab) Sweep(s SweepSetting, showpb bool) (*report.SweepReport, time.Duration, error) {
	if err := s.valid(); err != nil {
		return nil, 0, err
	}
	lower := alloc.DefaultLower
	if s.Lower != nil {
		lower = *s.Lower
	}
	turn := alloc.TurnCoef(s.Ratio)

	rep := &report.SweepReport{
		Ratio:    s.Ratio,
		Lower:    lower,
		Turn:     turn,
		Rows:     make([]report.SweepRow, 0, s.Steps),
		Monotone: true,
	}
	step := (s.To - s.From) / float64(s.Steps-1)

	bar := pb.New(s.Steps)
	if !showpb {
		bar.SetWriter(io.Discard)
	}
	bar.Start()
	for i := 0; i < s.Steps; i++ {
		a := s.From + float64(i)*step
		if i == s.Steps-1 {
			a = s.To
		}
		sol, err := alloc.Solve(s.Ratio, a, alloc.WithLower(lower))
		if err != nil {
			bar.Finish()
			return nil, 0, errs.WrapWithExtra(err, "sweep point rejected", "a="+strconv.FormatFloat(a, 'g', -1, 64))
		}
		row := report.SweepRow{Coef: a, OptimalX: sol.OptimalX, Objective: sol.Objective}
		if n := len(rep.Rows); n > 0 {
			prev := rep.Rows[n-1]
			row.Gain = sol.Objective - prev.Objective
			if sol.OptimalX <= prev.OptimalX {
				rep.Monotone = false
			}
			// a·log(a/R) is convex in a, so it rises past any point at or above its minimum.
			if prev.Coef >= turn && sol.Objective <= prev.Objective {
				rep.Monotone = false
			}
		}
		rep.Rows = append(rep.Rows, row)
		bar.Increment()
	}
	used := time.Since(bar.StartTime())
	bar.Finish()

	l.log.Info("sweep done", "ratio", s.Ratio, "points", len(rep.Rows), "monotone", rep.Monotone, "used", used)
	return rep, used, nil
}
