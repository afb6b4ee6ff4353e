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
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/reugn/go-quartz/job"
	quartzlogger "github.com/reugn/go-quartz/logger"
	"github.com/reugn/go-quartz/quartz"
	"go.uber.org/atomic"

	gerrors "github.com/tochemey/pactor/errors"
	"github.com/tochemey/pactor/internal/validation"
)

// ScheduleOption configures a scheduled message.
type ScheduleOption interface {
	Apply(config *scheduleConfig)
}

var _ ScheduleOption = ScheduleOptionFunc(nil)

// ScheduleOptionFunc implements ScheduleOption.
type ScheduleOptionFunc func(config *scheduleConfig)

// Apply sets the option on config.
func (f ScheduleOptionFunc) Apply(config *scheduleConfig) {
	f(config)
}

type scheduleConfig struct {
	sender    *PID
	reference string
	location  *time.Location
}

func newScheduleConfig(opts ...ScheduleOption) *scheduleConfig {
	config := &scheduleConfig{
		reference: uuid.NewString(),
		location:  time.Local,
	}
	for _, opt := range opts {
		opt.Apply(config)
	}
	return config
}

// WithSender delivers the scheduled message with sender as its sender.
func WithSender(sender *PID) ScheduleOption {
	return ScheduleOptionFunc(func(config *scheduleConfig) {
		config.sender = sender
	})
}

// WithReference names the schedule so that it can be paused, resumed or
// canceled. A random reference is used otherwise.
func WithReference(reference string) ScheduleOption {
	return ScheduleOptionFunc(func(config *scheduleConfig) {
		config.reference = reference
	})
}

// WithLocation sets the time zone cron expressions are evaluated in.
func WithLocation(location *time.Location) ScheduleOption {
	return ScheduleOptionFunc(func(config *scheduleConfig) {
		config.location = location
	})
}

// Scheduler delivers messages to actors in the future. Deliveries are
// regular sends posted from the scheduler goroutines.
type Scheduler struct {
	mu              sync.Mutex
	quartzScheduler quartz.Scheduler
	started         *atomic.Bool
	system          *ActorSystem
	stopTimeout     time.Duration
}

func newScheduler(system *ActorSystem, stopTimeout time.Duration) *Scheduler {
	quartzScheduler, _ := quartz.NewStdScheduler(quartz.WithLogger(quartzlogger.NewSimpleLogger(nil, quartzlogger.LevelOff)))
	return &Scheduler{
		quartzScheduler: quartzScheduler,
		started:         atomic.NewBool(false),
		system:          system,
		stopTimeout:     stopTimeout,
	}
}

func (x *Scheduler) start(ctx context.Context) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.quartzScheduler.Start(ctx)
	x.started.Store(x.quartzScheduler.IsStarted())
}

func (x *Scheduler) stop(ctx context.Context) {
	if !x.started.Load() {
		return
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	_ = x.quartzScheduler.Clear()
	x.quartzScheduler.Stop()
	x.started.Store(x.quartzScheduler.IsStarted())

	ctx, cancel := context.WithTimeout(ctx, x.stopTimeout)
	defer cancel()
	x.quartzScheduler.Wait(ctx)
}

// ScheduleOnce sends message to pid once, after delay.
func (x *Scheduler) ScheduleOnce(message any, pid *PID, delay time.Duration, opts ...ScheduleOption) error {
	if err := validation.NewPositiveDurationValidator("delay", delay).Validate(); err != nil {
		return gerrors.NewErrInvalidSchedule(err)
	}
	return x.schedule(message, pid, quartz.NewRunOnceTrigger(delay), newScheduleConfig(opts...))
}

// Schedule sends message to pid every interval.
func (x *Scheduler) Schedule(message any, pid *PID, interval time.Duration, opts ...ScheduleOption) error {
	if err := validation.NewPositiveDurationValidator("interval", interval).Validate(); err != nil {
		return gerrors.NewErrInvalidSchedule(err)
	}
	return x.schedule(message, pid, quartz.NewSimpleTrigger(interval), newScheduleConfig(opts...))
}

// ScheduleWithCron sends message to pid on the cron expression schedule.
func (x *Scheduler) ScheduleWithCron(message any, pid *PID, cronExpression string, opts ...ScheduleOption) error {
	config := newScheduleConfig(opts...)
	trigger, err := quartz.NewCronTriggerWithLoc(cronExpression, config.location)
	if err != nil {
		return gerrors.NewErrInvalidSchedule(err)
	}
	return x.schedule(message, pid, trigger, config)
}

// Cancel removes the schedule registered under reference.
func (x *Scheduler) Cancel(reference string) error {
	return x.withJob(reference, x.quartzScheduler.DeleteJob)
}

// Pause suspends the schedule registered under reference.
func (x *Scheduler) Pause(reference string) error {
	return x.withJob(reference, x.quartzScheduler.PauseJob)
}

// Resume resumes a paused schedule.
func (x *Scheduler) Resume(reference string) error {
	return x.withJob(reference, x.quartzScheduler.ResumeJob)
}

func (x *Scheduler) withJob(reference string, fn func(jobKey *quartz.JobKey) error) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if !x.started.Load() {
		return gerrors.ErrSchedulerNotStarted
	}

	if err := fn(quartz.NewJobKey(reference)); err != nil {
		if errors.Is(err, quartz.ErrJobNotFound) {
			return gerrors.ErrScheduledReferenceNotFound
		}
		return err
	}
	return nil
}

func (x *Scheduler) schedule(message any, pid *PID, trigger quartz.Trigger, config *scheduleConfig) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if !x.started.Load() {
		return gerrors.ErrSchedulerNotStarted
	}

	root := x.system.Root()
	sender := config.sender
	deliver := job.NewFunctionJob[bool](func(context.Context) (bool, error) {
		if sender != nil {
			root.RequestWithCustomSender(pid, message, sender)
			return true, nil
		}
		root.Send(pid, message)
		return true, nil
	})

	detail := quartz.NewJobDetail(deliver, quartz.NewJobKey(config.reference))
	return x.quartzScheduler.ScheduleJob(detail, trigger)
}
