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
	"go.uber.org/atomic"

	"github.com/tochemey/pactor/eventstream"
)

// deadLetterProcess receives every message addressed to a process that does
// not exist. It publishes them as *DeadLetterEvent on the event stream.
type deadLetterProcess struct {
	system *ActorSystem
	count  *atomic.Int64
}

var _ Process = (*deadLetterProcess)(nil)

func newDeadLetterProcess(system *ActorSystem) *deadLetterProcess {
	return &deadLetterProcess{
		system: system,
		count:  atomic.NewInt64(0),
	}
}

// SendUserMessage publishes the message and, for a request, tells the sender
// its target is gone so a pending future fails fast.
func (p *deadLetterProcess) SendUserMessage(pid *PID, message any) {
	_, payload, sender := UnwrapEnvelope(message)
	p.count.Inc()
	p.system.eventStream.Publish(&DeadLetterEvent{
		PID:     pid,
		Message: payload,
		Sender:  sender,
	})

	if _, ok := payload.(*DeadLetterResponse); ok || sender == nil {
		return
	}
	p.system.sendUserMessage(sender, &DeadLetterResponse{Target: pid})
}

// SendSystemMessage publishes the message. A watch request is answered with
// *Terminated since the watched process is already gone.
func (p *deadLetterProcess) SendSystemMessage(pid *PID, message SystemMessage) {
	p.count.Inc()
	p.system.eventStream.Publish(&DeadLetterEvent{
		PID:     pid,
		Message: message,
	})

	if watch, ok := message.(*Watch); ok && watch.Watcher != nil {
		p.system.sendSystemMessage(watch.Watcher, &Terminated{Who: pid})
	}
}

func (p *deadLetterProcess) Stop(pid *PID) {
	p.SendSystemMessage(pid, stopMessage)
}

// Count returns the number of dead letters received.
func (p *deadLetterProcess) Count() int64 {
	return p.count.Load()
}

// subscribeDeadLetterLogger logs every dead letter published on stream.
func subscribeDeadLetterLogger(system *ActorSystem) *eventstream.Subscription {
	return eventstream.SubscribeType(system.eventStream, func(event *DeadLetterEvent) {
		system.logger.Infof("dead letter: target=%s message=%T sender=%s", event.PID, event.Message, event.Sender)
	})
}
