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
	"context"
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/tochemey/pactor/cancel"
	gerrors "github.com/tochemey/pactor/errors"
	"github.com/tochemey/pactor/future"
)

const futurePrefix = "future"

// RequestOption configures a request future.
type RequestOption interface {
	Apply(config *requestConfig)
}

var _ RequestOption = requestOption(nil)

type requestOption func(config *requestConfig)

// Apply sets the option on config.
func (f requestOption) Apply(config *requestConfig) {
	f(config)
}

type requestConfig struct {
	cancelToken *cancel.Token
}

// WithCancelToken completes the future with errors.ErrRequestCanceled when
// token triggers before the response arrives.
func WithCancelToken(token *cancel.Token) RequestOption {
	return requestOption(func(config *requestConfig) {
		config.cancelToken = token
	})
}

// Future is the pending response of a request. It is registered as a process
// for as long as it is pending so that the response can be addressed to it,
// and removed from the registry on every completion path: response, timeout,
// cancellation or dead letter.
type Future struct {
	system    *ActorSystem
	pid       *PID
	promise   *future.Promise
	completed *atomic.Bool

	mu         sync.Mutex
	timer      *time.Timer
	stopCancel func() bool
}

var _ future.Awaitable = (*Future)(nil)

// NewFuture registers a new Future in system. The future fails with
// errors.ErrRequestTimeout when it is not completed within timeout; a
// non-positive timeout never expires.
func NewFuture(system *ActorSystem, timeout time.Duration, opts ...RequestOption) *Future {
	config := new(requestConfig)
	for _, opt := range opts {
		opt.Apply(config)
	}

	f := &Future{
		system:    system,
		promise:   future.NewPromise(),
		completed: atomic.NewBool(false),
	}

	pid, ok := system.registry.Add(&futureProcess{future: f}, futurePrefix+system.registry.NextID())
	if !ok {
		system.logger.Errorf("future %s is already registered", pid)
	}
	f.pid = pid

	f.mu.Lock()
	if timeout > 0 {
		f.timer = time.AfterFunc(timeout, func() {
			f.complete(nil, gerrors.ErrRequestTimeout)
		})
	}
	if config.cancelToken != nil {
		f.stopCancel = config.cancelToken.OnCancel(func() {
			f.complete(nil, gerrors.ErrRequestCanceled)
		})
	}
	f.mu.Unlock()
	return f
}

// PID returns the address responses must be sent to.
func (f *Future) PID() *PID {
	return f.pid
}

// Done is closed once the future completes.
func (f *Future) Done() <-chan struct{} {
	return f.promise.Future().Done()
}

// Result blocks until the future completes and returns its outcome.
func (f *Future) Result() (any, error) {
	<-f.Done()
	result := f.promise.Future().Result()
	return result.Success(), result.Failure()
}

// Wait blocks until the future completes and returns its error.
func (f *Future) Wait() error {
	_, err := f.Result()
	return err
}

// Await blocks until the future completes or ctx is done.
func (f *Future) Await(ctx context.Context) (any, error) {
	return f.promise.Future().Await(ctx)
}

// OnComplete registers fn to run once the future completes. fn runs
// immediately when the future is already complete.
func (f *Future) OnComplete(fn func(result any, err error)) {
	f.promise.Future().OnComplete(fn)
}

// PipeTo sends the outcome of the future to pids once it completes: the
// response on success, the error otherwise.
func (f *Future) PipeTo(pids ...*PID) {
	system := f.system
	f.OnComplete(func(result any, err error) {
		var message any = result
		if err != nil {
			message = err
		}
		for _, pid := range pids {
			system.sendUserMessage(pid, message)
		}
	})
}

func (f *Future) complete(result any, err error) {
	if !f.completed.CompareAndSwap(false, true) {
		return
	}

	f.system.registry.Remove(f.pid)

	f.mu.Lock()
	if f.timer != nil {
		f.timer.Stop()
	}
	if f.stopCancel != nil {
		f.stopCancel()
	}
	f.mu.Unlock()

	if err != nil {
		f.system.logger.Debugf("future %s failed: %v", f.pid, err)
		f.promise.Failure(err)
		return
	}
	f.promise.Success(result)
}

type futureProcess struct {
	future *Future
}

var _ Process = (*futureProcess)(nil)

func (p *futureProcess) SendUserMessage(_ *PID, message any) {
	payload := UnwrapEnvelopeMessage(message)
	if _, ok := payload.(*DeadLetterResponse); ok {
		p.future.complete(nil, gerrors.ErrDeadLetter)
		return
	}
	p.future.complete(payload, nil)
}

func (p *futureProcess) SendSystemMessage(_ *PID, message SystemMessage) {
	p.future.complete(message, nil)
}

func (p *futureProcess) Stop(_ *PID) {
	p.future.complete(nil, gerrors.ErrRequestCanceled)
}
