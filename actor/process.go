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

import "go.uber.org/atomic"

// Process is the runtime endpoint a PID resolves to.
//
// Local actors, request futures, the dead-letter sink and guardians are
// processes; remote proxies plug in through an AddressResolver.
type Process interface {
	// SendUserMessage delivers a user message, possibly wrapped in a MessageEnvelope.
	SendUserMessage(pid *PID, message any)
	// SendSystemMessage delivers a system message.
	SendSystemMessage(pid *PID, message SystemMessage)
	// Stop requests the process to stop.
	Stop(pid *PID)
}

// ActorProcess is the process of a local actor. It hands every message to the
// actor's mailbox.
type ActorProcess struct {
	mailbox Mailbox
	dead    *atomic.Bool
}

var _ Process = (*ActorProcess)(nil)

// NewActorProcess creates an ActorProcess over mailbox.
func NewActorProcess(mailbox Mailbox) *ActorProcess {
	return &ActorProcess{mailbox: mailbox, dead: atomic.NewBool(false)}
}

// SendUserMessage posts message to the user queue.
func (p *ActorProcess) SendUserMessage(_ *PID, message any) {
	p.mailbox.PostUserMessage(message)
}

// SendSystemMessage posts message to the system queue.
func (p *ActorProcess) SendSystemMessage(_ *PID, message SystemMessage) {
	p.mailbox.PostSystemMessage(message)
}

// Stop marks the process dead and asks the actor to stop.
func (p *ActorProcess) Stop(pid *PID) {
	p.dead.Store(true)
	p.SendSystemMessage(pid, stopMessage)
}

// Dead reports whether Stop was called.
func (p *ActorProcess) Dead() bool {
	return p.dead.Load()
}
