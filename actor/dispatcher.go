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

import "github.com/tochemey/pactor/internal/workerpool"

// DefaultThroughput is the number of messages a mailbox processes per
// scheduling turn before yielding its execution context.
const DefaultThroughput = 300

// Dispatcher assigns mailbox drain work to execution contexts.
type Dispatcher interface {
	// Schedule runs fn on an execution context.
	Schedule(fn func())
	// Throughput returns the number of messages processed per turn.
	Throughput() int
}

type goroutineDispatcher int

var _ Dispatcher = goroutineDispatcher(0)

// NewDefaultDispatcher returns a dispatcher starting a goroutine per
// scheduling turn.
func NewDefaultDispatcher(throughput int) Dispatcher {
	return goroutineDispatcher(throughput)
}

func (d goroutineDispatcher) Schedule(fn func()) {
	go fn()
}

func (d goroutineDispatcher) Throughput() int {
	return int(d)
}

type synchronizedDispatcher int

var _ Dispatcher = synchronizedDispatcher(0)

// NewSynchronizedDispatcher returns a dispatcher running every turn inline on
// the goroutine posting the message that scheduled it.
func NewSynchronizedDispatcher(throughput int) Dispatcher {
	return synchronizedDispatcher(throughput)
}

func (d synchronizedDispatcher) Schedule(fn func()) {
	fn()
}

func (d synchronizedDispatcher) Throughput() int {
	return int(d)
}

type pooledDispatcher struct {
	pool       *workerpool.WorkerPool
	throughput int
}

var _ Dispatcher = (*pooledDispatcher)(nil)

// NewPooledDispatcher returns a dispatcher running turns on the workers of
// pool. Turns submitted while the pool is stopped run on their own goroutine.
func NewPooledDispatcher(pool *workerpool.WorkerPool, throughput int) Dispatcher {
	return &pooledDispatcher{pool: pool, throughput: throughput}
}

func (d *pooledDispatcher) Schedule(fn func()) {
	if !d.pool.SubmitWork(fn) {
		go fn()
	}
}

func (d *pooledDispatcher) Throughput() int {
	return d.throughput
}
