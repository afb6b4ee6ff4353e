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

// Package supervisor holds the building blocks supervisors use to react to a
// failing actor: directives, restart statistics and error-type rules.
package supervisor

// Directive defines the supervisor directive
//
// It represents the action that a supervisor takes when a child actor fails
// during message processing.
type Directive int

const (
	// ResumeDirective resumes the failing actor's mailbox without touching its state.
	ResumeDirective Directive = iota
	// RestartDirective replaces the failing actor with a fresh incarnation.
	// The PID is reused so callers holding it are unaffected.
	RestartDirective
	// StopDirective stops the failing actor permanently.
	StopDirective
	// EscalateDirective hands the failure, unchanged, to the supervisor's own parent.
	EscalateDirective
)

// String returns the string representation of the directive
func (d Directive) String() string {
	switch d {
	case ResumeDirective:
		return "Resume"
	case RestartDirective:
		return "Restart"
	case StopDirective:
		return "Stop"
	case EscalateDirective:
		return "Escalate"
	default:
		return ""
	}
}
