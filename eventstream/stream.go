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

// Package eventstream implements a process-wide publish/subscribe bus.
// Subscribers register a handler with an optional exact message type filter,
// predicate and dispatcher. A failing handler never prevents delivery to the
// other subscribers.
package eventstream

import (
	"slices"
	"sync"

	"github.com/tochemey/pactor/log"
)

// Handler processes a published message
type Handler func(message any)

// Predicate filters the messages a subscription receives
type Predicate func(message any) bool

// Dispatcher schedules handler invocations. Actor dispatchers satisfy it.
type Dispatcher interface {
	Schedule(fn func())
}

// Stream is the event stream broker.
type Stream struct {
	mu            sync.RWMutex
	subscriptions []*Subscription
	logger        log.Logger
}

// New creates an instance of Stream.
func New(opts ...Option) *Stream {
	stream := &Stream{
		subscriptions: make([]*Subscription, 0, 8),
		logger:        log.DefaultLogger,
	}
	for _, opt := range opts {
		opt.Apply(stream)
	}
	return stream
}

// Subscribe registers handler and returns its Subscription.
func (s *Stream) Subscribe(handler Handler, opts ...SubscribeOption) *Subscription {
	sub := newSubscription(s, handler)
	for _, opt := range opts {
		opt(sub)
	}

	s.mu.Lock()
	s.subscriptions = append(s.subscriptions, sub)
	s.mu.Unlock()
	return sub
}

// SubscribeType registers a handler receiving only messages of exactly type T.
func SubscribeType[T any](s *Stream, handler func(T), opts ...SubscribeOption) *Subscription {
	opts = append(opts, WithMessageType[T]())
	return s.Subscribe(func(message any) {
		handler(message.(T))
	}, opts...)
}

// Unsubscribe removes the subscription. Unknown or already removed
// subscriptions are ignored.
func (s *Stream) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}

	sub.active.Store(false)
	s.mu.Lock()
	s.subscriptions = slices.DeleteFunc(s.subscriptions, func(candidate *Subscription) bool {
		return candidate.id == sub.id
	})
	s.mu.Unlock()
}

// Publish delivers message to every matching subscription in subscription order.
func (s *Stream) Publish(message any) {
	s.mu.RLock()
	subscriptions := slices.Clone(s.subscriptions)
	s.mu.RUnlock()

	for _, sub := range subscriptions {
		if !sub.matches(message) {
			continue
		}

		if sub.dispatcher != nil {
			sub.dispatcher.Schedule(func() { sub.deliver(message) })
			continue
		}
		sub.deliver(message)
	}
}

// Length returns the number of active subscriptions
func (s *Stream) Length() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subscriptions)
}

// Close removes every subscription.
func (s *Stream) Close() {
	s.mu.Lock()
	for _, sub := range s.subscriptions {
		sub.active.Store(false)
	}
	s.subscriptions = s.subscriptions[:0]
	s.mu.Unlock()
}
