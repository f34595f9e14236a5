package report

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/zintix-labs/alloclab/alloc"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var lang language.Tag = language.English

// Document is anything the renderers can print.
type Document interface {
	Title() string
	Table() (header []string, rows [][]string)
	Plain() string
}

// Report is the result of one solve.
type Report struct {
	Name     string         `json:"name,omitempty"  yaml:"name,omitempty"`
	Ratio    float64        `json:"ratio"           yaml:"ratio"`
	Coef     float64        `json:"coef"            yaml:"coef"`
	Solution alloc.Solution `json:"solution"        yaml:"solution"`
	Check    *alloc.Check   `json:"check,omitempty" yaml:"check,omitempty"`
}

// NewReport wraps a solution of p.
func NewReport(name string, p alloc.Problem, sol alloc.Solution) *Report {
	return &Report{Name: name, Ratio: p.Ratio, Coef: p.Coef, Solution: sol}
}

func (r *Report) Title() string {
	if r.Name == "" {
		return "Allocation"
	}
	return "Allocation: " + r.Name
}

func (r *Report) Table() ([]string, [][]string) {
	p := message.NewPrinter(lang)
	s := r.Solution
	rows := [][]string{
		{"Ratio R", p.Sprintf("%g", r.Ratio)},
		{"Coef a", p.Sprintf("%g", r.Coef)},
		{"Feasible", p.Sprintf("[%g, %g]", s.Lower, s.Upper)},
		{"Method", string(s.Method)},
		{"Iterations", p.Sprintf("%d", s.Iterations)},
		{"Optimal x", p.Sprintf("%.9g", s.OptimalX)},
		{"Objective", p.Sprintf("%.9g", s.Objective)},
	}
	if r.Check != nil {
		rows = append(rows, []string{"Cross-check", agreeText(r.Check.Agree)})
	}
	return []string{"Field", "Value"}, rows
}

// Plain is the two-line stdout form: optimalX and objectiveValue.
func (r *Report) Plain() string {
	out := fmt.Sprintf("optimalX = %v\nobjectiveValue = %v\n", r.Solution.OptimalX, r.Solution.Objective)
	if r.Check != nil {
		out += fmt.Sprintf("crossCheck = %s\n", agreeText(r.Check.Agree))
	}
	return out
}

func agreeText(ok bool) string {
	if ok {
		return "agree"
	}
	return "DISAGREE"
}

// SweepRow is one coefficient of a sweep.
type SweepRow struct {
	Coef      float64 `json:"coef"            yaml:"coef"`
	OptimalX  float64 `json:"optimal_x"       yaml:"optimal_x"`
	Objective float64 `json:"objective_value" yaml:"objective_value"`
	Gain      float64 `json:"gain"            yaml:"gain"`
}

// SweepReport is a sequence of solves with R fixed and a increasing.
//
// Turn is R/e: below it f(x*) falls as a rises, so Monotone only asks f(x*) to rise
// between points at or above Turn. x* must rise everywhere.
type SweepReport struct {
	Ratio    float64    `json:"ratio"    yaml:"ratio"`
	Lower    float64    `json:"lower"    yaml:"lower"`
	Turn     float64    `json:"turn"     yaml:"turn"`
	Rows     []SweepRow `json:"rows"     yaml:"rows"`
	Monotone bool       `json:"monotone" yaml:"monotone"`
}

func (s *SweepReport) Title() string {
	p := message.NewPrinter(lang)
	return p.Sprintf("Sweep R=%g (%d points)", s.Ratio, len(s.Rows))
}

func (s *SweepReport) Table() ([]string, [][]string) {
	p := message.NewPrinter(lang)
	rows := make([][]string, len(s.Rows))
	for i, r := range s.Rows {
		rows[i] = []string{
			p.Sprintf("%g", r.Coef),
			p.Sprintf("%.6g", r.OptimalX),
			p.Sprintf("%.6f", r.Objective),
			p.Sprintf("%+.6f", r.Gain),
		}
	}
	return []string{"a", "x*", "f(x*)", "gain"}, rows
}

func (s *SweepReport) Plain() string {
	var b strings.Builder
	for _, r := range s.Rows {
		fmt.Fprintf(&b, "a = %v\toptimalX = %v\tobjectiveValue = %v\n", r.Coef, r.OptimalX, r.Objective)
	}
	fmt.Fprintf(&b, "turn = %v\n", s.Turn)
	fmt.Fprintf(&b, "monotone = %v\n", s.Monotone)
	return b.String()
}

// fmtTable draws a boxed, width-aware table with a centred title.
func fmtTable(title string, header []string, rows [][]string) string {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			if w := runewidth.StringWidth(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}
	inner := len(widths) - 1
	for i := range widths {
		widths[i] += 2
		inner += widths[i]
	}
	if tw := runewidth.StringWidth(title) + 2; tw > inner {
		widths[len(widths)-1] += tw - inner
		inner = tw
	}

	var b strings.Builder
	divider := "+"
	for _, w := range widths {
		divider += strings.Repeat("-", w) + "+"
	}
	divider += "\n"

	titleW := runewidth.StringWidth(title)
	left := (inner - titleW) / 2
	b.WriteString("+" + strings.Repeat("-", inner) + "+\n")
	b.WriteString("|" + blank(left) + title + blank(inner-titleW-left) + "|\n")
	b.WriteString(divider)
	writeRow(&b, widths, header)
	b.WriteString(divider)
	for _, row := range rows {
		writeRow(&b, widths, row)
	}
	b.WriteString(divider)
	return b.String()
}

func writeRow(b *strings.Builder, widths []int, cells []string) {
	b.WriteString("|")
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		b.WriteString(" " + cell + blank(w-1-runewidth.StringWidth(cell)) + "|")
	}
	b.WriteString("\n")
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}
