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

// Package future provides task-backed asynchronous results.
package future

import (
	"context"
	"sync"
)

// Awaitable is an asynchronous result that can be awaited or observed.
// Request futures issued by actors and task futures both satisfy it.
type Awaitable interface {
	// Await blocks until the result is available or ctx is done.
	Await(ctx context.Context) (any, error)
	// OnComplete registers fn to run once the result is available. When the
	// result is already available fn runs immediately on the calling goroutine;
	// otherwise it runs on the completing goroutine.
	OnComplete(fn func(result any, err error))
}

// Future represents a value which may or may not currently be available,
// but will be available at some point in the future, or an error if that value
// could not be made available.
//
// Example usage:
//
//	f := future.New(func() (any, error) {
//	    return fetchBalance(accountID)
//	})
//
//	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
//	defer cancel()
//
//	balance, err := f.Await(ctx)
type Future interface {
	Awaitable
	// Done returns a channel closed once the Future is completed.
	Done() <-chan struct{}
	// Result returns the outcome when the Future is completed and nil otherwise.
	Result() *Result
}

// New creates a Future completed with the outcome of task, which runs on its
// own goroutine. A panicking task fails the Future.
func New(task func() (any, error)) Future {
	promise := NewPromise()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				promise.Failure(panicError{value: r})
			}
		}()

		result, err := task()
		if err != nil {
			promise.Failure(err)
			return
		}
		promise.Success(result)
	}()
	return promise.Future()
}

// Promise is a writable, single-assignment container completing a Future.
type Promise struct {
	future *future
}

// NewPromise creates a Promise with an incomplete Future.
func NewPromise() *Promise {
	return &Promise{future: &future{done: make(chan struct{})}}
}

// Success completes the underlying Future with a value. It reports whether
// this call completed the Future.
func (p *Promise) Success(value any) bool {
	return p.future.complete(value, nil)
}

// Failure fails the underlying Future with an error. It reports whether this
// call completed the Future.
func (p *Promise) Failure(err error) bool {
	return p.future.complete(nil, err)
}

// Future returns the underlying Future.
func (p *Promise) Future() Future {
	return p.future
}

type future struct {
	mu        sync.Mutex
	done      chan struct{}
	result    *Result
	callbacks []func(any, error)
}

var _ Future = (*future)(nil)

func (x *future) Await(ctx context.Context) (any, error) {
	select {
	case <-x.done:
		return x.result.success, x.result.failure
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (x *future) OnComplete(fn func(any, error)) {
	x.mu.Lock()
	if x.result != nil {
		result := x.result
		x.mu.Unlock()
		fn(result.success, result.failure)
		return
	}
	x.callbacks = append(x.callbacks, fn)
	x.mu.Unlock()
}

func (x *future) Done() <-chan struct{} {
	return x.done
}

func (x *future) Result() *Result {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.result
}

func (x *future) complete(value any, err error) bool {
	x.mu.Lock()
	if x.result != nil {
		x.mu.Unlock()
		return false
	}
	x.result = &Result{success: value, failure: err}
	callbacks := x.callbacks
	x.callbacks = nil
	close(x.done)
	x.mu.Unlock()

	for _, callback := range callbacks {
		callback(value, err)
	}
	return true
}
