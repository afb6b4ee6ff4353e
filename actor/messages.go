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

import "github.com/tochemey/pactor/supervisor"

// SystemMessage is the closed set of lifecycle and control messages exchanged
// between the runtime and actors. System messages travel on the mailbox
// system queue, which is always drained before the user queue, with the
// exception of PoisonPill which is deliberately posted as a user message.
type SystemMessage interface {
	systemMessage()
}

// AutoReceiveMessage marks messages the context handles on the actor's
// behalf before or after the actor sees them.
type AutoReceiveMessage interface {
	autoReceiveMessage()
}

// NotInfluenceReceiveTimeout marks user messages that must not reset the
// receive timeout.
type NotInfluenceReceiveTimeout interface {
	NotInfluenceReceiveTimeout()
}

// Started is delivered to a new incarnation before any user message.
type Started struct{}

// Stop requests the immediate stop of the receiving actor.
type Stop struct{}

// Stopping is delivered to the actor when it begins stopping.
type Stopping struct{}

// Stopped is delivered to the actor once all its children have stopped and
// it has been removed from the registry.
type Stopped struct{}

// Restart requests a new incarnation of the receiving actor.
type Restart struct {
	Reason error
}

// Restarting is delivered to the actor before its children are stopped for
// a restart.
type Restarting struct {
	Reason error
}

// Terminated notifies a watcher, or a parent, that Who has stopped.
// AddressTerminated is set when the host owning Who became unreachable.
type Terminated struct {
	Who               *PID
	AddressTerminated bool
}

// Watch asks the receiving actor to notify Watcher when it terminates.
type Watch struct {
	Watcher *PID
}

// Unwatch removes a previous Watch.
type Unwatch struct {
	Watcher *PID
}

// Failure is sent to a supervisor when one of its children failed.
type Failure struct {
	Who          *PID
	Reason       error
	RestartStats *supervisor.RestartStatistics
	Message      any
}

// PoisonPill stops the receiving actor once every message queued before it
// has been processed.
type PoisonPill struct{}

// Continuation runs a callback inside the actor with the message that was in
// flight when the callback was registered.
type Continuation struct {
	message any
	f       func()
}

// SuspendMailbox stops the drain of user messages.
type SuspendMailbox struct{}

// ResumeMailbox resumes the drain of user messages.
type ResumeMailbox struct{}

// ReceiveTimeout is delivered when the actor received no message for the
// configured receive timeout.
type ReceiveTimeout struct{}

func (*Started) systemMessage()        {}
func (*Stop) systemMessage()           {}
func (*Stopping) systemMessage()       {}
func (*Stopped) systemMessage()        {}
func (*Restart) systemMessage()        {}
func (*Restarting) systemMessage()     {}
func (*Terminated) systemMessage()     {}
func (*Watch) systemMessage()          {}
func (*Unwatch) systemMessage()        {}
func (*Failure) systemMessage()        {}
func (*PoisonPill) systemMessage()     {}
func (*Continuation) systemMessage()   {}
func (*SuspendMailbox) systemMessage() {}
func (*ResumeMailbox) systemMessage()  {}
func (*ReceiveTimeout) systemMessage() {}

func (*Started) autoReceiveMessage()    {}
func (*Stopping) autoReceiveMessage()   {}
func (*Stopped) autoReceiveMessage()    {}
func (*Restarting) autoReceiveMessage() {}
func (*PoisonPill) autoReceiveMessage() {}

func (*ReceiveTimeout) NotInfluenceReceiveTimeout() {}

var (
	startedMessage        = &Started{}
	stopMessage           = &Stop{}
	stoppingMessage       = &Stopping{}
	stoppedMessage        = &Stopped{}
	poisonPillMessage     = &PoisonPill{}
	receiveTimeoutMessage = &ReceiveTimeout{}
	suspendMailboxMessage = &SuspendMailbox{}
	resumeMailboxMessage  = &ResumeMailbox{}
)

// DeadLetterEvent is published on the event stream for every message that
// reached a process that does not exist anymore.
type DeadLetterEvent struct {
	PID     *PID
	Message any
	Sender  *PID
}

// DeadLetterResponse is replied to a requester whose target was a dead letter.
type DeadLetterResponse struct {
	Target *PID
}

// SupervisorEvent is published on the event stream for every supervision
// decision.
type SupervisorEvent struct {
	Child     *PID
	Reason    error
	Directive supervisor.Directive
}
