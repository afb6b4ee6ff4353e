// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package supervisor

import (
	"errors"
	"reflect"
	"runtime"

	gerrors "github.com/tochemey/pactor/errors"
	"github.com/tochemey/pactor/internal/xsync"
)

// RulesOption defines the various options to apply to Rules
type RulesOption func(*Rules)

// WithDirective sets the mapping between an error type and a given directive.
// The concrete type of err is the key; its value is ignored.
func WithDirective(err error, directive Directive) RulesOption {
	return func(r *Rules) {
		r.directives.Set(errorType(err), directive)
	}
}

// WithAnyErrorDirective sets the directive applied to any error. It overrides
// every error-specific rule.
func WithAnyErrorDirective(directive Directive) RulesOption {
	return func(r *Rules) {
		r.directives.Set(errorType(new(gerrors.AnyError)), directive)
	}
}

// WithFallbackDirective sets the directive used when no rule matches.
func WithFallbackDirective(directive Directive) RulesOption {
	return func(r *Rules) {
		r.fallback = directive
	}
}

// Rules maps error types to directives.
//
// Defaults:
//   - PanicError -> Restart, runtime.PanicNilError -> Restart.
//   - Fallback: Restart.
//
// Rules are keyed by the error's concrete type name. Decide walks the
// error's wrap chain and uses the first matching rule.
type Rules struct {
	directives *xsync.Map[string, Directive]
	fallback   Directive
}

// NewRules creates a new instance of Rules
func NewRules(opts ...RulesOption) *Rules {
	r := &Rules{
		directives: xsync.NewMap[string, Directive](),
		fallback:   RestartDirective,
	}

	r.directives.Set(errorType(&gerrors.PanicError{}), RestartDirective)
	r.directives.Set(errorType(&runtime.PanicNilError{}), RestartDirective)

	for _, opt := range opts {
		opt(r)
	}

	if directive, ok := r.directives.Get(errorType(new(gerrors.AnyError))); ok {
		r.directives.Reset()
		r.directives.Set(errorType(new(gerrors.AnyError)), directive)
	}

	return r
}

// Decide returns the directive to apply for err.
func (r *Rules) Decide(err error) Directive {
	if directive, ok := r.directives.Get(errorType(new(gerrors.AnyError))); ok {
		return directive
	}

	for current := err; current != nil; current = errors.Unwrap(current) {
		if directive, ok := r.directives.Get(errorType(current)); ok {
			return directive
		}
	}
	return r.fallback
}

// Directive returns the directive configured for the concrete type of err,
// without walking the wrap chain or applying the fallback.
func (r *Rules) Directive(err error) (Directive, bool) {
	return r.directives.Get(errorType(err))
}

// SetDirectiveByType associates a directive with an error type name as
// returned by reflect.Type.String() for the non-pointer type. Empty names are ignored.
func (r *Rules) SetDirectiveByType(errorType string, directive Directive) {
	if errorType == "" {
		return
	}
	r.directives.Set(errorType, directive)
}

// Len returns the number of configured rules
func (r *Rules) Len() int {
	return r.directives.Len()
}

func errorType(err error) string {
	if err == nil {
		return "nil"
	}

	rtype := reflect.TypeOf(err)
	if rtype.Kind() == reflect.Pointer {
		rtype = rtype.Elem()
	}
	return rtype.String()
}
