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

// Package errs holds the single error type shared by every alloclab package.
package errs

import (
	"errors"
	"fmt"
)

// ErrLevel grades how severe an error is for the caller at the top.
type ErrLevel uint8

const (
	None ErrLevel = iota
	Fatal
	Warn
	Log
)

var errLvMap = map[ErrLevel]string{
	None:  "",
	Fatal: "fatal",
	Warn:  "warn",
	Log:   "log",
}

func ErrLv(errlv ErrLevel) string {
	if str, ok := errLvMap[errlv]; ok {
		return str
	}
	return ""
}

// Kind classifies domain failures so callers can branch with errors.Is.
type Kind uint8

const (
	KindNone Kind = iota
	// KindInvalidProblem marks a problem whose parameters admit no feasible optimum.
	KindInvalidProblem
)

var kindMap = map[Kind]string{
	KindNone:           "",
	KindInvalidProblem: "invalid problem",
}

func (k Kind) String() string {
	return kindMap[k]
}

// ErrInvalidProblem is the sentinel matched by every error of KindInvalidProblem.
var ErrInvalidProblem = &E{Message: "invalid problem", Kind: KindInvalidProblem, ErrLv: Warn}

// E is the unified error type.
// Message is the main text; Extra carries caller context; Cause chains the lower error.
type E struct {
	Message string
	Extra   string
	Cause   error
	ErrLv   ErrLevel
	Kind    Kind
}

// Error implements error.
func (e *E) Error() string {
	base := fmt.Sprintf("errlv=%s %s", ErrLv(e.ErrLv), e.Message)
	if e.Kind != KindNone {
		base = fmt.Sprintf("errlv=%s %s: %s", ErrLv(e.ErrLv), e.Kind, e.Message)
	}
	if e.Extra != "" {
		base += " | extra: " + e.Extra
	}
	if e.Cause != nil {
		base += fmt.Sprintf(" (cause: %v)", e.Cause)
	}
	return base
}

// Unwrap lets errors.Is / errors.As walk down the chain.
func (e *E) Unwrap() error { return e.Cause }

// Is reports whether target is an *E of the same non-empty Kind.
func (e *E) Is(target error) bool {
	t, ok := target.(*E)
	if !ok || e.Kind == KindNone {
		return false
	}
	return e.Kind == t.Kind
}

func New(errLv ErrLevel, msg string) *E {
	return &E{Message: msg, ErrLv: errLv}
}

func NewFatal(msg string) *E {
	return &E{Message: msg, ErrLv: Fatal}
}

func NewWarn(msg string) *E {
	return &E{Message: msg, ErrLv: Warn}
}

func NewLog(msg string) *E {
	return &E{Message: msg, ErrLv: Log}
}

func Fatalf(format string, a ...any) *E {
	return NewFatal(fmt.Sprintf(format, a...))
}

func Warnf(format string, a ...any) *E {
	return NewWarn(fmt.Sprintf(format, a...))
}

// Invalidf builds a KindInvalidProblem error naming the violated constraint.
func Invalidf(format string, a ...any) *E {
	return &E{Message: fmt.Sprintf(format, a...), ErrLv: Warn, Kind: KindInvalidProblem}
}

// Wrap wraps cause with msg.
//
// ErrLevel and Kind rules:
//   - if cause is already an *E, its ErrLv and Kind are kept.
//   - otherwise (stdlib or third-party errors) the level is Fatal.
func Wrap(cause error, msg string) *E {
	var e *E
	errLv := Fatal
	kind := KindNone
	if errors.As(cause, &e) {
		errLv = e.ErrLv
		kind = e.Kind
	}
	r := New(errLv, msg)
	r.Kind = kind
	r.Cause = cause
	return r
}

// WrapWithExtra is Wrap with additional context.
func WrapWithExtra(cause error, msg string, extra string) *E {
	r := Wrap(cause, msg)
	r.Extra = extra
	return r
}

func AsErr(err error) (*E, bool) {
	var e *E
	if errors.As(err, &e) {
		return e, true
	}
	return e, false
}

// IsInvalidProblem reports whether err carries KindInvalidProblem anywhere in its chain.
func IsInvalidProblem(err error) bool {
	return errors.Is(err, ErrInvalidProblem)
}
