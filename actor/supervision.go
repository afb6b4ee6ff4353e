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

package actor

import (
	"time"

	gerrors "github.com/tochemey/pactor/errors"
	"github.com/tochemey/pactor/internal/validation"
	"github.com/tochemey/pactor/supervisor"
)

const (
	// DefaultMaxRetries is the number of restarts the default strategy allows
	// inside DefaultWithinDuration.
	DefaultMaxRetries = 10
	// DefaultWithinDuration is the window of the default strategy.
	DefaultWithinDuration = 10 * time.Second
)

// DeciderFunc maps the failure of who to a directive.
type DeciderFunc func(who *PID, reason error) supervisor.Directive

// DefaultDecider always restarts.
func DefaultDecider(_ *PID, _ error) supervisor.Directive {
	return supervisor.RestartDirective
}

// RulesDecider decides with the error-type rules.
func RulesDecider(rules *supervisor.Rules) DeciderFunc {
	return func(_ *PID, reason error) supervisor.Directive {
		return rules.Decide(reason)
	}
}

// Supervisor is the side of a supervising process a strategy acts upon.
// Actor contexts and guardians implement it.
type Supervisor interface {
	// Children returns the supervised processes
	Children() []*PID
	// EscalateFailure hands the failure to the supervisor's own supervisor
	EscalateFailure(reason error, message any)
	// RestartChildren restarts pids
	RestartChildren(reason error, pids ...*PID)
	// StopChildren stops pids
	StopChildren(pids ...*PID)
	// ResumeChildren resumes the mailbox of pids
	ResumeChildren(pids ...*PID)
}

// SupervisorStrategy reacts to the failure of a child.
type SupervisorStrategy interface {
	HandleFailure(system *ActorSystem, sup Supervisor, child *PID, stats *supervisor.RestartStatistics, reason error, message any)
}

type oneForOneStrategy struct {
	maxNrOfRetries int
	withinDuration time.Duration
	decider        DeciderFunc
}

var _ SupervisorStrategy = (*oneForOneStrategy)(nil)

// NewOneForOneStrategy returns a strategy applying the decided directive to
// the failing child only. A restart is denied, and the child stopped, once it
// failed more than maxNrOfRetries times within withinDuration; a zero
// maxNrOfRetries never restarts. A nil decider always restarts.
func NewOneForOneStrategy(maxNrOfRetries int, withinDuration time.Duration, decider DeciderFunc) (SupervisorStrategy, error) {
	if err := validateStrategy(maxNrOfRetries, withinDuration); err != nil {
		return nil, err
	}

	if decider == nil {
		decider = DefaultDecider
	}

	return &oneForOneStrategy{
		maxNrOfRetries: maxNrOfRetries,
		withinDuration: withinDuration,
		decider:        decider,
	}, nil
}

func (s *oneForOneStrategy) HandleFailure(system *ActorSystem, sup Supervisor, child *PID, stats *supervisor.RestartStatistics, reason error, message any) {
	switch directive := s.decider(child, reason); directive {
	case supervisor.ResumeDirective:
		notifyDirective(system, child, reason, directive)
		sup.ResumeChildren(child)
	case supervisor.RestartDirective:
		if stats.RequestRestartPermission(s.maxNrOfRetries, s.withinDuration) {
			notifyDirective(system, child, reason, directive)
			sup.RestartChildren(reason, child)
			return
		}
		notifyDirective(system, child, reason, supervisor.StopDirective)
		sup.StopChildren(child)
	case supervisor.StopDirective:
		notifyDirective(system, child, reason, directive)
		sup.StopChildren(child)
	case supervisor.EscalateDirective:
		notifyDirective(system, child, reason, directive)
		sup.EscalateFailure(reason, message)
	}
}

type allForOneStrategy struct {
	maxNrOfRetries int
	withinDuration time.Duration
	decider        DeciderFunc
}

var _ SupervisorStrategy = (*allForOneStrategy)(nil)

// NewAllForOneStrategy returns a strategy applying restart and stop
// directives to every child of the supervisor. Resume only applies to the
// failing child. Restart permission is computed from the failing child's
// statistics as for NewOneForOneStrategy.
func NewAllForOneStrategy(maxNrOfRetries int, withinDuration time.Duration, decider DeciderFunc) (SupervisorStrategy, error) {
	if err := validateStrategy(maxNrOfRetries, withinDuration); err != nil {
		return nil, err
	}

	if decider == nil {
		decider = DefaultDecider
	}

	return &allForOneStrategy{
		maxNrOfRetries: maxNrOfRetries,
		withinDuration: withinDuration,
		decider:        decider,
	}, nil
}

func (s *allForOneStrategy) HandleFailure(system *ActorSystem, sup Supervisor, child *PID, stats *supervisor.RestartStatistics, reason error, message any) {
	switch directive := s.decider(child, reason); directive {
	case supervisor.ResumeDirective:
		notifyDirective(system, child, reason, directive)
		sup.ResumeChildren(child)
	case supervisor.RestartDirective:
		children := sup.Children()
		if stats.RequestRestartPermission(s.maxNrOfRetries, s.withinDuration) {
			notifyDirective(system, child, reason, directive)
			sup.RestartChildren(reason, children...)
			return
		}
		notifyDirective(system, child, reason, supervisor.StopDirective)
		sup.StopChildren(children...)
	case supervisor.StopDirective:
		notifyDirective(system, child, reason, directive)
		sup.StopChildren(sup.Children()...)
	case supervisor.EscalateDirective:
		notifyDirective(system, child, reason, directive)
		sup.EscalateFailure(reason, message)
	}
}

type restartingStrategy struct{}

var _ SupervisorStrategy = restartingStrategy{}

// NewRestartingStrategy returns a strategy that restarts the failing child
// on every failure, without limit.
func NewRestartingStrategy() SupervisorStrategy {
	return restartingStrategy{}
}

func (restartingStrategy) HandleFailure(system *ActorSystem, sup Supervisor, child *PID, _ *supervisor.RestartStatistics, reason error, _ any) {
	notifyDirective(system, child, reason, supervisor.RestartDirective)
	sup.RestartChildren(reason, child)
}

// DefaultSupervisorStrategy returns a one-for-one strategy restarting a
// failing child up to DefaultMaxRetries times within DefaultWithinDuration.
func DefaultSupervisorStrategy() SupervisorStrategy {
	return &oneForOneStrategy{
		maxNrOfRetries: DefaultMaxRetries,
		withinDuration: DefaultWithinDuration,
		decider:        DefaultDecider,
	}
}

func validateStrategy(maxNrOfRetries int, withinDuration time.Duration) error {
	err := validation.New(validation.AllErrors()).
		AddAssertion(maxNrOfRetries >= 0, "maximum number of retries cannot be negative").
		AddValidator(validation.NewNonNegativeDurationValidator("within duration", withinDuration)).
		Validate()
	if err != nil {
		return gerrors.NewErrInvalidStrategy(err)
	}
	return nil
}

func notifyDirective(system *ActorSystem, child *PID, reason error, directive supervisor.Directive) {
	system.logger.Infof("supervisor applying %s to %s: %v", directive, child, reason)
	system.eventStream.Publish(&SupervisorEvent{
		Child:     child,
		Reason:    reason,
		Directive: directive,
	})
}
