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

// Package cancel provides cooperative cancellation tokens that can be chained
// and a wait primitive racing an operation against a token and a deadline.
package cancel

import (
	"context"
	"time"

	gerrors "github.com/tochemey/pactor/errors"
)

// Token is a cooperative cancellation signal. A Token is safe for concurrent
// use and can only move from untriggered to triggered once.
type Token struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates an untriggered Token.
func New() *Token {
	return FromContext(context.Background())
}

// FromContext creates a Token that triggers when ctx is done or when Cancel is called.
func FromContext(ctx context.Context) *Token {
	ctx, cancel := context.WithCancel(ctx)
	return &Token{ctx: ctx, cancel: cancel}
}

// Cancel triggers the token. Calling Cancel more than once is a no-op.
func (t *Token) Cancel() {
	t.cancel()
}

// Triggered reports whether the token has been triggered.
func (t *Token) Triggered() bool {
	return t.ctx.Err() != nil
}

// Done returns a channel closed when the token triggers.
func (t *Token) Done() <-chan struct{} {
	return t.ctx.Done()
}

// Context returns a context cancelled when the token triggers.
func (t *Token) Context() context.Context {
	return t.ctx
}

// OnCancel registers fn to run on its own goroutine once the token triggers.
// The returned stop function unregisters fn; it returns false when fn
// already started or was already stopped.
func (t *Token) OnCancel(fn func()) (stop func() bool) {
	return context.AfterFunc(t.ctx, fn)
}

// Chain returns a new token that triggers when the receiver or any of the
// given tokens triggers. Cancelling the returned token leaves the sources untouched.
func (t *Token) Chain(others ...*Token) *Token {
	chained := FromContext(t.ctx)
	for _, other := range others {
		if other == nil {
			continue
		}
		stop := context.AfterFunc(other.ctx, chained.cancel)
		context.AfterFunc(chained.ctx, func() { stop() })
	}
	return chained
}

// Wait runs op and waits for its result, the token to trigger or the timeout
// to elapse, whichever comes first. A nil token never triggers and a
// non-positive timeout means no deadline. The context handed to op is
// cancelled on every return path so op can release its resources.
//
// Wait returns errors.ErrCanceled when the token triggers and
// errors.ErrTimeout when the deadline elapses.
func Wait[T any](token *Token, timeout time.Duration, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	parent := context.Background()
	if token != nil {
		if token.Triggered() {
			return zero, gerrors.ErrCanceled
		}
		parent = token.ctx
	}

	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(parent, timeout)
	} else {
		ctx, cancel = context.WithCancel(parent)
	}
	defer cancel()

	type outcome struct {
		value T
		err   error
	}

	resultCh := make(chan outcome, 1)
	go func() {
		value, err := op(ctx)
		resultCh <- outcome{value: value, err: err}
	}()

	select {
	case res := <-resultCh:
		return res.value, res.err
	case <-ctx.Done():
		select {
		case res := <-resultCh:
			return res.value, res.err
		default:
		}
		if token != nil && token.Triggered() {
			return zero, gerrors.ErrCanceled
		}
		return zero, gerrors.ErrTimeout
	}
}
