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
	"time"

	otelmetric "go.opentelemetry.io/otel/metric"

	"github.com/tochemey/pactor/log"
)

// Option is the interface that applies a configuration option.
type Option interface {
	// Apply sets the Option value of a config.
	Apply(system *ActorSystem)
}

// enforce compilation error
var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(system *ActorSystem)

// Apply sets the Option value of a config.
func (f OptionFunc) Apply(system *ActorSystem) {
	f(system)
}

// WithLogger sets the actor system logger
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(system *ActorSystem) {
		system.logger = logger
	})
}

// WithAddress sets the address the system's PIDs are created with
func WithAddress(address string) Option {
	return OptionFunc(func(system *ActorSystem) {
		system.address = address
	})
}

// WithDefaultSupervisor sets the strategy applied to the failures of actors
// whose Props do not define a supervisor, and of root actors without guardian.
func WithDefaultSupervisor(strategy SupervisorStrategy) Option {
	return OptionFunc(func(system *ActorSystem) {
		system.supervisorStrategy = strategy
	})
}

// WithDefaultDispatcher sets the dispatcher used by actors whose Props do not
// define one. The default dispatches on the system worker pool.
func WithDefaultDispatcher(dispatcher Dispatcher) Option {
	return OptionFunc(func(system *ActorSystem) {
		system.dispatcher = dispatcher
	})
}

// WithThroughput sets the throughput of the default dispatcher
func WithThroughput(throughput int) Option {
	return OptionFunc(func(system *ActorSystem) {
		system.throughput = throughput
	})
}

// WithWorkerPool sizes the worker pool behind the default dispatcher.
// Idle workers exit after passivateAfter.
func WithWorkerPool(shards int, passivateAfter time.Duration) Option {
	return OptionFunc(func(system *ActorSystem) {
		system.workerPoolShards = shards
		system.workerPassivateAfter = passivateAfter
	})
}

// WithMetrics records the system metrics with meterProvider.
// A nil meterProvider uses the global one.
func WithMetrics(meterProvider otelmetric.MeterProvider) Option {
	return OptionFunc(func(system *ActorSystem) {
		system.metricsEnabled = true
		system.meterProvider = meterProvider
	})
}

// WithoutDeadLetterLogging stops logging dead letters. They are still
// published on the event stream.
func WithoutDeadLetterLogging() Option {
	return OptionFunc(func(system *ActorSystem) {
		system.deadLetterLogging = false
	})
}

// WithShutdownTimeout bounds the time Shutdown waits for the actors to stop
func WithShutdownTimeout(timeout time.Duration) Option {
	return OptionFunc(func(system *ActorSystem) {
		system.shutdownTimeout = timeout
	})
}
