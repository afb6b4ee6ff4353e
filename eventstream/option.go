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
	"reflect"

	"github.com/tochemey/pactor/log"
)

// Option is the interface that applies a Stream option.
type Option interface {
	// Apply sets the Option value of a Stream.
	Apply(stream *Stream)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(stream *Stream)

// Apply applies the Stream's option
func (f OptionFunc) Apply(stream *Stream) {
	f(stream)
}

// WithLogger sets the logger used to report failing handlers
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(stream *Stream) {
		stream.logger = logger
	})
}

// SubscribeOption configures a Subscription
type SubscribeOption func(sub *Subscription)

// WithMessageType restricts the subscription to messages whose dynamic type
// is exactly T. Interface types never match since values carry concrete types.
func WithMessageType[T any]() SubscribeOption {
	return func(sub *Subscription) {
		sub.messageType = reflect.TypeFor[T]()
	}
}

// WithMessageTypeOf restricts the subscription to messages with the same
// dynamic type as sample.
func WithMessageTypeOf(sample any) SubscribeOption {
	return func(sub *Subscription) {
		sub.messageType = reflect.TypeOf(sample)
	}
}

// WithPredicate sets an additional filter
func WithPredicate(predicate Predicate) SubscribeOption {
	return func(sub *Subscription) {
		sub.predicate = predicate
	}
}

// WithDispatcher runs the handler through dispatcher instead of the publishing goroutine
func WithDispatcher(dispatcher Dispatcher) SubscribeOption {
	return func(sub *Subscription) {
		sub.dispatcher = dispatcher
	}
}
