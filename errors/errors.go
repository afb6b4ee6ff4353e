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

package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidActorSystemName is returned when the actor system name contains invalid characters.
	// A valid name must consist of only alphanumeric characters ([a-zA-Z0-9]), with optional
	// hyphens or underscores that are not leading.
	ErrInvalidActorSystemName = errors.New("invalid ActorSystem name, must contain only word characters (i.e. [a-zA-Z0-9] plus non-leading '-' or '_')")

	// ErrNameExists is returned when a process id is already registered.
	ErrNameExists = errors.New("process name already exists")

	// ErrUndefinedActor is returned when an actor producer or reference is undefined.
	ErrUndefinedActor = errors.New("actor is not defined")

	// ErrRequestTimeout indicates that a request future did not receive its response in time.
	ErrRequestTimeout = errors.New("request timed out")

	// ErrRequestCanceled indicates that a request future was canceled before completion.
	ErrRequestCanceled = errors.New("request canceled")

	// ErrDeadLetter indicates that a request target was not alive.
	ErrDeadLetter = errors.New("target is a dead letter")

	// ErrCanceled is returned by a cancellable wait when its token triggers.
	ErrCanceled = errors.New("operation canceled")

	// ErrTimeout is returned by a cancellable wait when its deadline elapses.
	ErrTimeout = errors.New("operation timed out")

	// ErrInvalidReceiveTimeout is returned when a receive timeout is less than or equal to zero.
	ErrInvalidReceiveTimeout = errors.New("receive timeout must be greater than zero")

	// ErrInvalidTimeout is returned when a timeout value is less than or equal to zero.
	ErrInvalidTimeout = errors.New("invalid timeout")

	// ErrActorSystemNotStarted indicates that an actor system is not running.
	ErrActorSystemNotStarted = errors.New("actor system is not running")

	// ErrInvalidProps is returned when Props fail validation.
	ErrInvalidProps = errors.New("invalid props")

	// ErrInvalidStrategy is returned when a supervisor strategy has an invalid retry configuration.
	ErrInvalidStrategy = errors.New("invalid supervisor strategy")

	// ErrGuardianChild is returned when Props carrying a guardian strategy are used to spawn a child.
	ErrGuardianChild = errors.New("props used to spawn a child cannot have a guardian strategy")

	// ErrSystemMessageForward is returned when forwarding a system message is attempted.
	ErrSystemMessageForward = errors.New("system messages cannot be forwarded")

	// ErrInitFailure is returned when the actor's PreStart hook fails during incarnation.
	ErrInitFailure = errors.New("preStart failed")

	// ErrSchedulerNotStarted is returned when attempting to use the scheduler before it has started.
	ErrSchedulerNotStarted = errors.New("scheduler has not started")

	// ErrInvalidSchedule is returned when a schedule definition cannot be built.
	ErrInvalidSchedule = errors.New("invalid schedule")

	// ErrScheduledReferenceNotFound is returned when a scheduled message reference is unknown.
	ErrScheduledReferenceNotFound = errors.New("scheduled message reference not found")
)

// NewErrInvalidSchedule wraps a base error with ErrInvalidSchedule.
func NewErrInvalidSchedule(err error) error {
	return errors.Join(ErrInvalidSchedule, err)
}

// NewErrInitFailure wraps a base error with ErrInitFailure to indicate a startup failure.
func NewErrInitFailure(err error) error {
	return errors.Join(ErrInitFailure, err)
}

// NewErrInvalidProps wraps a validation error with ErrInvalidProps.
func NewErrInvalidProps(err error) error {
	return errors.Join(ErrInvalidProps, err)
}

// NewErrInvalidStrategy wraps a validation error with ErrInvalidStrategy.
func NewErrInvalidStrategy(err error) error {
	return errors.Join(ErrInvalidStrategy, err)
}

// PanicError defines the panic error
// wrapping the underlying error
type PanicError struct {
	err error
}

// enforce compilation error
var _ error = (*PanicError)(nil)

// NewPanicError creates an instance of PanicError
func NewPanicError(err error) *PanicError {
	return &PanicError{err}
}

// Error implements the standard error interface
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.err)
}

func (e *PanicError) Unwrap() error {
	return e.err
}

// InternalError defines an error that is explicit to the application
type InternalError struct {
	err error
}

// enforce compilation error
var _ error = (*InternalError)(nil)

// NewInternalError returns an intance of InternalError
func NewInternalError(err error) *InternalError {
	return &InternalError{
		err: fmt.Errorf("internal error: %w", err),
	}
}

// Error implements the standard error interface
func (i *InternalError) Error() string {
	return i.err.Error()
}

func (i *InternalError) Unwrap() error {
	return i.err
}

// SpawnError defines an error when re/creating an actor
type SpawnError struct {
	err error
}

var _ error = (*SpawnError)(nil)

// NewSpawnError returns an instance of SpawnError
func NewSpawnError(err error) *SpawnError {
	return &SpawnError{
		err: fmt.Errorf("spawn error: %w", err),
	}
}

// Error implements the standard error interface
func (s *SpawnError) Error() string {
	return s.err.Error()
}

func (s *SpawnError) Unwrap() error {
	return s.err
}

// AnyError defines the any error type
// this is used to represent any error when building supervisor rules
type AnyError struct{}

// interface guard
var _ error = (*AnyError)(nil)

// Error implements error.
func (*AnyError) Error() string {
	return "*"
}
