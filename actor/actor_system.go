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
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	gerrors "github.com/tochemey/pactor/errors"
	"github.com/tochemey/pactor/eventstream"
	"github.com/tochemey/pactor/internal/errorschain"
	"github.com/tochemey/pactor/internal/validation"
	"github.com/tochemey/pactor/internal/workerpool"
	"github.com/tochemey/pactor/log"
)

const (
	// DefaultShutdownTimeout bounds the time Shutdown waits for actors to stop
	DefaultShutdownTimeout = 30 * time.Second
	// DefaultPassivateAfter is the idle time after which a pooled worker exits
	DefaultPassivateAfter = time.Second

	systemNamePattern = "^[a-zA-Z0-9][a-zA-Z0-9-_]*$"
)

// ActorSystem owns the runtime state shared by a set of actors: the process
// registry, the event stream, the guardians, the dead-letter sink, the
// scheduler and the worker pool. Each system is independent; any number of
// them can live in one program.
type ActorSystem struct {
	id                     string
	name                   string
	address                string
	logger                 log.Logger
	registry               *ProcessRegistry
	eventStream            *eventstream.Stream
	guardians              *guardians
	deadLetter             *deadLetterProcess
	deadLetterSubscription *eventstream.Subscription
	scheduler              *Scheduler
	workerPool             *workerpool.WorkerPool
	dispatcher             Dispatcher
	supervisorStrategy     SupervisorStrategy
	metrics                *systemMetrics
	root                   *RootContext
	started                *atomic.Bool
	startedAt              *atomic.Time

	throughput           int
	workerPoolShards     int
	workerPassivateAfter time.Duration
	metricsEnabled       bool
	meterProvider        otelmetric.MeterProvider
	deadLetterLogging    bool
	shutdownTimeout      time.Duration
}

// NewActorSystem creates an actor system. The system accepts spawns right
// away; Start enables its worker pool, scheduler and metrics.
func NewActorSystem(name string, opts ...Option) (*ActorSystem, error) {
	if err := validation.NewPatternValidator(systemNamePattern, name, gerrors.ErrInvalidActorSystemName).Validate(); err != nil {
		return nil, err
	}

	system := &ActorSystem{
		id:                   uuid.NewString(),
		name:                 name,
		address:              LocalAddress,
		logger:               log.DefaultLogger,
		supervisorStrategy:   DefaultSupervisorStrategy(),
		metrics:              newSystemMetrics(),
		started:              atomic.NewBool(false),
		startedAt:            atomic.NewTime(time.Time{}),
		throughput:           DefaultThroughput,
		workerPoolShards:     runtime.NumCPU(),
		workerPassivateAfter: DefaultPassivateAfter,
		deadLetterLogging:    true,
		shutdownTimeout:      DefaultShutdownTimeout,
	}

	for _, opt := range opts {
		opt.Apply(system)
	}

	if err := validation.New(validation.FailFast()).
		AddAssertion(system.logger != nil, "logger is required").
		AddAssertion(system.supervisorStrategy != nil, "default supervisor strategy is required").
		AddAssertion(system.throughput >= 0, "throughput cannot be negative").
		AddValidator(validation.NewPositiveDurationValidator("shutdown timeout", system.shutdownTimeout)).
		Validate(); err != nil {
		return nil, err
	}

	system.logger = system.logger.With("system", name)
	system.eventStream = eventstream.New(eventstream.WithLogger(system.logger))
	system.deadLetter = newDeadLetterProcess(system)
	system.registry = NewProcessRegistry(system.address, system.deadLetter)
	system.guardians = newGuardians(system)
	system.workerPool = workerpool.New(
		workerpool.WithNumShards(system.workerPoolShards),
		workerpool.WithPassivateAfter(system.workerPassivateAfter),
	)
	if system.dispatcher == nil {
		system.dispatcher = NewPooledDispatcher(system.workerPool, system.throughput)
	}
	system.scheduler = newScheduler(system, system.shutdownTimeout)
	system.root = NewRootContext(system, nil)

	if system.deadLetterLogging {
		system.deadLetterSubscription = subscribeDeadLetterLogger(system)
	}
	return system, nil
}

// Start starts the worker pool, the scheduler and the metrics of the system.
// Calling Start on a started system is a no-op.
func (s *ActorSystem) Start(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return nil
	}

	s.startedAt.Store(time.Now())
	s.workerPool.Start()
	s.scheduler.start(ctx)

	if s.metricsEnabled {
		if err := s.registerMetrics(s.meterProvider); err != nil {
			s.logger.Errorf("failed to register metrics: %v", err)
			return err
		}
	}

	s.logger.Infof("actor system %s started", s.name)
	return nil
}

// Shutdown stops every root actor, waiting for their whole hierarchy to stop,
// then releases the scheduler and the worker pool.
func (s *ActorSystem) Shutdown(ctx context.Context) error {
	if !s.started.Load() {
		return gerrors.ErrActorSystemNotStarted
	}

	s.logger.Infof("shutting down actor system %s", s.name)

	ctx, cancel := context.WithTimeout(ctx, s.shutdownTimeout)
	defer cancel()

	eg, egCtx := errgroup.WithContext(ctx)
	for _, pid := range s.rootActors() {
		eg.Go(func() error {
			_, err := s.stopFuture(pid).Await(egCtx)
			return err
		})
	}

	err := errorschain.New(errorschain.ReturnAll()).
		AddErrorFn(eg.Wait).
		AddErrorFn(func() error {
			s.scheduler.stop(ctx)
			return nil
		}).
		AddErrorFn(s.metrics.unregister).
		AddErrorFn(func() error {
			s.workerPool.Stop()
			return nil
		}).
		Error()

	s.eventStream.Unsubscribe(s.deadLetterSubscription)
	s.started.Store(false)

	if err != nil {
		s.logger.Errorf("actor system %s shutdown failed: %v", s.name, err)
		return err
	}

	s.logger.Infof("actor system %s stopped", s.name)
	return nil
}

// rootActors returns the actors spawned from the root context.
func (s *ActorSystem) rootActors() []*PID {
	var pids []*PID
	s.registry.processes.Range(func(id string, process Process) bool {
		if _, ok := process.(*ActorProcess); ok && !strings.Contains(id, "/") {
			pids = append(pids, NewPID(s.registry.address, id))
		}
		return true
	})
	return pids
}

// ID returns the unique id of the system instance.
func (s *ActorSystem) ID() string {
	return s.id
}

// Name returns the system name.
func (s *ActorSystem) Name() string {
	return s.name
}

// Address returns the address of the system's PIDs.
func (s *ActorSystem) Address() string {
	return s.registry.Address()
}

// Logger returns the system logger.
func (s *ActorSystem) Logger() log.Logger {
	return s.logger
}

// Root returns the context used to interact with actors from outside.
func (s *ActorSystem) Root() *RootContext {
	return s.root
}

// EventStream returns the system event stream.
func (s *ActorSystem) EventStream() *eventstream.Stream {
	return s.eventStream
}

// ProcessRegistry returns the system process registry.
func (s *ActorSystem) ProcessRegistry() *ProcessRegistry {
	return s.registry
}

// Scheduler returns the message scheduler. It only accepts schedules once
// the system has started.
func (s *ActorSystem) Scheduler() *Scheduler {
	return s.scheduler
}

// DeadLetterCount returns the number of dead letters received so far.
func (s *ActorSystem) DeadLetterCount() int64 {
	return s.deadLetter.Count()
}

// Running reports whether the system has been started and not shut down.
func (s *ActorSystem) Running() bool {
	return s.started.Load()
}

// Uptime returns the time elapsed since Start, zero when not running.
func (s *ActorSystem) Uptime() time.Duration {
	if !s.started.Load() {
		return 0
	}
	return time.Since(s.startedAt.Load())
}

// sendUserMessage delivers message to pid. An actor asked to stop takes no
// more user messages: they go to the dead letters while it finishes stopping.
func (s *ActorSystem) sendUserMessage(pid *PID, message any) {
	process := s.registry.Get(pid)
	if actorProcess, ok := process.(*ActorProcess); ok && actorProcess.Dead() {
		s.deadLetter.SendUserMessage(pid, message)
		return
	}
	process.SendUserMessage(pid, message)
}

func (s *ActorSystem) sendSystemMessage(pid *PID, message SystemMessage) {
	s.registry.Get(pid).SendSystemMessage(pid, message)
}

func (s *ActorSystem) stop(pid *PID) {
	s.registry.Get(pid).Stop(pid)
}

// stopFuture watches pid with a future before stopping it, so the future
// completes with the *Terminated of pid exactly once.
func (s *ActorSystem) stopFuture(pid *PID) *Future {
	f := NewFuture(s, defaultStopTimeout)
	s.sendSystemMessage(pid, &Watch{Watcher: f.PID()})
	s.stop(pid)
	return f
}

func (s *ActorSystem) poison(pid *PID) {
	s.sendUserMessage(pid, poisonPillMessage)
}

func (s *ActorSystem) poisonFuture(pid *PID) *Future {
	f := NewFuture(s, defaultStopTimeout)
	s.sendSystemMessage(pid, &Watch{Watcher: f.PID()})
	s.poison(pid)
	return f
}
