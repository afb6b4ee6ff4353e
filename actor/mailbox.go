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
	"errors"
	"fmt"

	"go.uber.org/atomic"

	gerrors "github.com/tochemey/pactor/errors"
)

// MessageInvoker is the receiving end of a mailbox. The actor context
// implements it.
type MessageInvoker interface {
	InvokeSystemMessage(message SystemMessage)
	InvokeUserMessage(message any)
	// EscalateFailure is called with the error recovered while invoking message.
	EscalateFailure(reason error, message any)
}

// Mailbox is the per-actor dual queue. System messages always take priority
// over user messages, and messages of the same queue are invoked in the order
// they were posted.
//
// A mailbox is scheduled on its dispatcher at most once at a time: posting
// only schedules a drain when the mailbox is idle and the drain itself decides
// whether to reschedule once its throughput budget is spent. This is what
// guarantees that the invoker is never called concurrently.
type Mailbox interface {
	PostUserMessage(message any)
	PostSystemMessage(message SystemMessage)
	RegisterHandlers(invoker MessageInvoker, dispatcher Dispatcher)
	Start()
	UserMessageCount() int
}

// MailboxStatistics observes the activity of a mailbox.
type MailboxStatistics interface {
	MailboxStarted()
	MessagePosted(message any)
	MessageReceived(message any)
	MailboxEmpty()
}

// MailboxProducer creates the mailbox of a new actor.
type MailboxProducer func() Mailbox

// Unbounded returns a producer of mailboxes backed by a lock-free unbounded
// user queue. This is the default.
func Unbounded(statistics ...MailboxStatistics) MailboxProducer {
	return func() Mailbox {
		return newMailbox(newUnboundedQueue(), statistics)
	}
}

// Bounded returns a producer of mailboxes whose user queue holds at most size
// messages. Posting to a full mailbox blocks the sender.
func Bounded(size int, statistics ...MailboxStatistics) MailboxProducer {
	return func() Mailbox {
		return newMailbox(newBoundedQueue(size, false), statistics)
	}
}

// BoundedDropping returns a producer of mailboxes whose user queue holds at
// most size messages. Posting to a full mailbox drops the oldest message.
func BoundedDropping(size int, statistics ...MailboxStatistics) MailboxProducer {
	return func() Mailbox {
		return newMailbox(newBoundedQueue(size, true), statistics)
	}
}

// UnboundedPriority returns a producer of mailboxes delivering user messages
// implementing PriorityMessage by descending priority.
func UnboundedPriority(statistics ...MailboxStatistics) MailboxProducer {
	return func() Mailbox {
		return newMailbox(newPriorityQueue(), statistics)
	}
}

const (
	mailboxIdle int32 = iota
	mailboxRunning
)

type defaultMailbox struct {
	userMailbox     MailboxQueue
	systemMailbox   *unboundedQueue
	schedulerStatus *atomic.Int32
	sysMessages     *atomic.Int32
	suspended       *atomic.Bool
	started         *atomic.Bool
	invoker         MessageInvoker
	dispatcher      Dispatcher
	statistics      []MailboxStatistics
}

var _ Mailbox = (*defaultMailbox)(nil)

func newMailbox(userMailbox MailboxQueue, statistics []MailboxStatistics) *defaultMailbox {
	return &defaultMailbox{
		userMailbox:     userMailbox,
		systemMailbox:   newUnboundedQueue(),
		schedulerStatus: atomic.NewInt32(mailboxIdle),
		sysMessages:     atomic.NewInt32(0),
		suspended:       atomic.NewBool(false),
		started:         atomic.NewBool(false),
		statistics:      statistics,
	}
}

func (m *defaultMailbox) PostUserMessage(message any) {
	for _, stats := range m.statistics {
		stats.MessagePosted(message)
	}

	m.userMailbox.Push(message)
	m.schedule()
}

func (m *defaultMailbox) PostSystemMessage(message SystemMessage) {
	for _, stats := range m.statistics {
		stats.MessagePosted(message)
	}

	m.systemMailbox.Push(message)
	m.sysMessages.Inc()
	m.schedule()
}

func (m *defaultMailbox) RegisterHandlers(invoker MessageInvoker, dispatcher Dispatcher) {
	m.invoker = invoker
	m.dispatcher = dispatcher
}

// Start enables the drain of the mailbox. Messages posted before Start are
// kept until then.
func (m *defaultMailbox) Start() {
	for _, stats := range m.statistics {
		stats.MailboxStarted()
	}

	m.started.Store(true)
	if m.hasPendingMessages() {
		m.schedule()
	}
}

func (m *defaultMailbox) UserMessageCount() int {
	return m.userMailbox.Len()
}

func (m *defaultMailbox) schedule() {
	if !m.started.Load() {
		return
	}

	if m.schedulerStatus.CompareAndSwap(mailboxIdle, mailboxRunning) {
		m.dispatcher.Schedule(m.processMessages)
	}
}

func (m *defaultMailbox) processMessages() {
	for {
		if exhausted := m.run(); exhausted {
			m.schedulerStatus.Store(mailboxIdle)
			m.schedule()
			return
		}

		m.schedulerStatus.Store(mailboxIdle)

		// a message may have been posted after the last pop but before the
		// status went back to idle: its poster saw a running mailbox.
		if m.hasPendingMessages() && m.schedulerStatus.CompareAndSwap(mailboxIdle, mailboxRunning) {
			continue
		}

		for _, stats := range m.statistics {
			stats.MailboxEmpty()
		}
		return
	}
}

func (m *defaultMailbox) hasPendingMessages() bool {
	if m.sysMessages.Load() > 0 {
		return true
	}
	return !m.suspended.Load() && m.userMailbox.Len() > 0
}

// run drains the queues until they are empty, the user queue is suspended or
// the throughput budget is spent. It reports whether the budget was spent.
func (m *defaultMailbox) run() (exhausted bool) {
	var message any

	defer func() {
		if r := recover(); r != nil {
			m.invoker.EscalateFailure(toPanicError(r), message)
		}
	}()

	throughput := m.dispatcher.Throughput()
	for processed := 0; ; processed++ {
		if throughput > 0 && processed >= throughput {
			return true
		}

		if message = m.systemMailbox.Pop(); message != nil {
			m.sysMessages.Dec()
			switch msg := message.(type) {
			case *SuspendMailbox:
				m.suspended.Store(true)
			case *ResumeMailbox:
				m.suspended.Store(false)
			default:
				m.invoker.InvokeSystemMessage(msg.(SystemMessage))
			}
			continue
		}

		if m.suspended.Load() {
			return false
		}

		if message = m.userMailbox.Pop(); message == nil {
			return false
		}

		m.invoker.InvokeUserMessage(message)
		for _, stats := range m.statistics {
			stats.MessageReceived(message)
		}
	}
}

func toPanicError(r any) error {
	if err, ok := r.(error); ok {
		var panicErr *gerrors.PanicError
		if errors.As(err, &panicErr) {
			return err
		}
		return gerrors.NewPanicError(err)
	}
	return gerrors.NewPanicError(fmt.Errorf("%v", r))
}
