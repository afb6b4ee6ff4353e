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

package eventstream

import (
	"fmt"
	"reflect"

	"github.com/google/uuid"
	"go.uber.org/atomic"
)

// Subscription is the handle returned by Stream.Subscribe.
type Subscription struct {
	id          string
	stream      *Stream
	handler     Handler
	messageType reflect.Type
	predicate   Predicate
	dispatcher  Dispatcher
	active      *atomic.Bool
}

func newSubscription(stream *Stream, handler Handler) *Subscription {
	return &Subscription{
		id:      uuid.NewString(),
		stream:  stream,
		handler: handler,
		active:  atomic.NewBool(true),
	}
}

// ID returns the subscription unique identifier
func (sub *Subscription) ID() string {
	return sub.id
}

// Active reports whether the subscription still receives messages
func (sub *Subscription) Active() bool {
	return sub.active.Load()
}

// Unsubscribe removes the subscription from its stream
func (sub *Subscription) Unsubscribe() {
	sub.stream.Unsubscribe(sub)
}

func (sub *Subscription) matches(message any) bool {
	if !sub.active.Load() {
		return false
	}
	if sub.messageType != nil && reflect.TypeOf(message) != sub.messageType {
		return false
	}
	return sub.predicate == nil || sub.predicate(message)
}

func (sub *Subscription) deliver(message any) {
	defer func() {
		if r := recover(); r != nil {
			sub.stream.logger.Errorf("eventstream subscription=(%s) handler failed: %v", sub.id, fmt.Sprint(r))
		}
	}()

	if sub.active.Load() {
		sub.handler(message)
	}
}
