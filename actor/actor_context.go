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
	"io"
	"time"

	"github.com/flowchartsman/retry"
	"go.uber.org/atomic"

	gerrors "github.com/tochemey/pactor/errors"
	"github.com/tochemey/pactor/future"
	"github.com/tochemey/pactor/log"
)

const (
	stateNone int32 = iota
	stateAlive
	stateRestarting
	stateStopping
	stateStopped
)

const (
	// defaultStopTimeout bounds the futures returned by StopFuture and PoisonFuture.
	defaultStopTimeout = 10 * time.Second
	// minPreStartRetryDelay is the pause between PreStart attempts when none is configured.
	minPreStartRetryDelay = time.Millisecond
)

// actorContext runs one actor: it owns the current incarnation and drives the
// lifecycle state machine
//
//	None -> Alive -> (Restarting -> Alive)* -> Stopping -> Stopped
//
// Every method but Self, Parent, ActorSystem and Logger must be called from
// the goroutine draining the actor's mailbox.
type actorContext struct {
	actor             Actor
	system            *ActorSystem
	extras            *actorContextExtras
	props             *Props
	parent            *PID
	self              *PID
	receiveTimeout    time.Duration
	messageOrEnvelope any
	state             *atomic.Int32
	logger            log.Logger
}

var (
	_ Context        = (*actorContext)(nil)
	_ MessageInvoker = (*actorContext)(nil)
	_ Supervisor     = (*actorContext)(nil)
)

func newActorContext(system *ActorSystem, props *Props, parent *PID) *actorContext {
	ctx := &actorContext{
		system: system,
		props:  props,
		parent: parent,
		state:  atomic.NewInt32(stateNone),
		logger: system.logger,
	}

	if props.contextDecoratorChain != nil {
		ctx.ensureExtras()
	}
	return ctx
}

func (ctx *actorContext) ensureExtras() *actorContextExtras {
	if ctx.extras == nil {
		var decorated Context = ctx
		if ctx.props.contextDecoratorChain != nil {
			decorated = ctx.props.contextDecoratorChain(ctx)
		}
		ctx.extras = newActorContextExtras(decorated)
	}
	return ctx.extras
}

// receiverContext returns the context the actor and its middleware see.
func (ctx *actorContext) receiverContext() Context {
	if ctx.extras == nil {
		return ctx
	}
	return ctx.extras.context
}

func (ctx *actorContext) ActorSystem() *ActorSystem {
	return ctx.system
}

func (ctx *actorContext) Parent() *PID {
	return ctx.parent
}

func (ctx *actorContext) Self() *PID {
	return ctx.self
}

func (ctx *actorContext) Actor() Actor {
	return ctx.actor
}

func (ctx *actorContext) Logger() log.Logger {
	return ctx.logger
}

func (ctx *actorContext) ReceiveTimeout() time.Duration {
	return ctx.receiveTimeout
}

func (ctx *actorContext) Children() []*PID {
	if ctx.extras == nil {
		return nil
	}
	return ctx.extras.childrenPIDs()
}

func (ctx *actorContext) Message() any {
	return UnwrapEnvelopeMessage(ctx.messageOrEnvelope)
}

func (ctx *actorContext) MessageHeader() MessageHeader {
	return UnwrapEnvelopeHeader(ctx.messageOrEnvelope)
}

func (ctx *actorContext) Sender() *PID {
	return UnwrapEnvelopeSender(ctx.messageOrEnvelope)
}

func (ctx *actorContext) Respond(response any) {
	sender := ctx.Sender()
	if sender == nil {
		ctx.system.deadLetter.SendUserMessage(nil, response)
		return
	}
	ctx.Send(sender, response)
}

func (ctx *actorContext) Stash() {
	ctx.ensureExtras().stash.Push(ctx.messageOrEnvelope)
}

func (ctx *actorContext) UnstashAll() {
	if ctx.extras == nil {
		return
	}

	for message := ctx.extras.stash.Pop(); message != nil; message = ctx.extras.stash.Pop() {
		ctx.system.sendUserMessage(ctx.self, message)
	}
}

func (ctx *actorContext) Watch(pid *PID) {
	ctx.system.sendSystemMessage(pid, &Watch{Watcher: ctx.self})
}

func (ctx *actorContext) Unwatch(pid *PID) {
	ctx.system.sendSystemMessage(pid, &Unwatch{Watcher: ctx.self})
}

func (ctx *actorContext) SetReceiveTimeout(d time.Duration) error {
	if d <= 0 {
		return gerrors.ErrInvalidReceiveTimeout
	}

	// a fired timer is stopped and must be armed again even for an unchanged duration
	if d == ctx.receiveTimeout && ctx.extras.receiveTimeoutRunning() {
		return nil
	}

	ctx.receiveTimeout = d
	ctx.ensureExtras().initReceiveTimeoutTimer(d, ctx.receiveTimeoutHandler)
	return nil
}

func (ctx *actorContext) CancelReceiveTimeout() {
	if ctx.extras == nil || ctx.extras.receiveTimeoutTimer == nil {
		return
	}

	ctx.extras.killReceiveTimeoutTimer()
	ctx.receiveTimeout = 0
}

// receiveTimeoutHandler runs on the timer goroutine.
func (ctx *actorContext) receiveTimeoutHandler() {
	ctx.system.sendSystemMessage(ctx.self, receiveTimeoutMessage)
}

func (ctx *actorContext) Forward(pid *PID) {
	if message, ok := UnwrapEnvelopeMessage(ctx.messageOrEnvelope).(SystemMessage); ok {
		ctx.logger.Errorf("%s cannot forward %T: %v", ctx.self, message, gerrors.ErrSystemMessageForward)
		return
	}
	ctx.sendUserMessage(pid, ctx.messageOrEnvelope)
}

func (ctx *actorContext) ReenterAfter(f future.Awaitable, continuation func(result any, err error)) {
	message := ctx.messageOrEnvelope
	system := ctx.system
	self := ctx.self

	f.OnComplete(func(result any, err error) {
		system.sendSystemMessage(self, &Continuation{
			message: message,
			f: func() {
				continuation(result, err)
			},
		})
	})
}

func (ctx *actorContext) PipeTo(pid *PID, f future.Awaitable) {
	system := ctx.system
	f.OnComplete(func(result any, err error) {
		system.sendUserMessage(pid, future.NewResult(result, err))
	})
}

func (ctx *actorContext) Send(pid *PID, message any) {
	ctx.sendUserMessage(pid, message)
}

func (ctx *actorContext) Request(pid *PID, message any) {
	ctx.sendUserMessage(pid, &MessageEnvelope{
		Header:  EmptyMessageHeader,
		Message: message,
		Sender:  ctx.self,
	})
}

func (ctx *actorContext) RequestWithCustomSender(pid *PID, message any, sender *PID) {
	ctx.sendUserMessage(pid, &MessageEnvelope{
		Header:  EmptyMessageHeader,
		Message: message,
		Sender:  sender,
	})
}

func (ctx *actorContext) RequestFuture(pid *PID, message any, timeout time.Duration, opts ...RequestOption) *Future {
	f := NewFuture(ctx.system, timeout, opts...)
	ctx.sendUserMessage(pid, &MessageEnvelope{
		Header:  EmptyMessageHeader,
		Message: message,
		Sender:  f.PID(),
	})
	return f
}

func (ctx *actorContext) sendUserMessage(pid *PID, message any) {
	if ctx.props.senderChain != nil {
		ctx.props.senderChain(ctx.receiverContext(), pid, WrapEnvelope(message))
		return
	}
	ctx.system.sendUserMessage(pid, message)
}

func (ctx *actorContext) Stop(pid *PID) {
	ctx.system.stop(pid)
}

func (ctx *actorContext) StopFuture(pid *PID) *Future {
	return ctx.system.stopFuture(pid)
}

func (ctx *actorContext) Poison(pid *PID) {
	ctx.system.poison(pid)
}

func (ctx *actorContext) PoisonFuture(pid *PID) *Future {
	return ctx.system.poisonFuture(pid)
}

func (ctx *actorContext) Spawn(props *Props) (*PID, error) {
	return ctx.SpawnNamed(props, ctx.system.registry.NextID())
}

func (ctx *actorContext) SpawnPrefix(props *Props, prefix string) (*PID, error) {
	return ctx.SpawnNamed(props, prefix+ctx.system.registry.NextID())
}

func (ctx *actorContext) SpawnNamed(props *Props, name string) (*PID, error) {
	if props.guardianStrategy != nil {
		return nil, gerrors.ErrGuardianChild
	}

	pid, err := props.spawn(ctx.system, ctx.self.id+"/"+name, ctx.receiverContext())
	if err != nil {
		return pid, err
	}

	ctx.ensureExtras().addChild(pid)
	return pid, nil
}

// Receive hands envelope to the actor. It is the last step of the receiver
// middleware chain.
func (ctx *actorContext) Receive(envelope *MessageEnvelope) {
	ctx.messageOrEnvelope = envelope
	ctx.defaultReceive()
	ctx.messageOrEnvelope = nil
}

func (ctx *actorContext) defaultReceive() {
	if _, ok := ctx.Message().(*PoisonPill); ok {
		ctx.Stop(ctx.self)
		return
	}
	ctx.actor.Receive(ctx.receiverContext())
}

func (ctx *actorContext) processMessage(message any) {
	if ctx.props.receiverChain != nil {
		ctx.props.receiverChain(ctx.receiverContext(), WrapEnvelope(message))
		return
	}

	if ctx.props.contextDecoratorChain != nil {
		ctx.receiverContext().Receive(WrapEnvelope(message))
		return
	}

	ctx.messageOrEnvelope = message
	ctx.defaultReceive()
	ctx.messageOrEnvelope = nil
}

// InvokeUserMessage processes a user message. Messages not marked with
// NotInfluenceReceiveTimeout restart the receive timeout.
func (ctx *actorContext) InvokeUserMessage(message any) {
	if ctx.state.Load() == stateStopped {
		return
	}

	_, passive := UnwrapEnvelopeMessage(message).(NotInfluenceReceiveTimeout)
	if !passive && ctx.receiveTimeout > 0 {
		ctx.extras.stopReceiveTimeoutTimer()
	}

	ctx.processMessage(message)

	if !passive && ctx.receiveTimeout > 0 {
		ctx.extras.resetReceiveTimeoutTimer(ctx.receiveTimeout)
	}
}

// InvokeSystemMessage processes a system message.
func (ctx *actorContext) InvokeSystemMessage(message SystemMessage) {
	switch msg := message.(type) {
	case *Continuation:
		if ctx.state.Load() == stateStopped {
			return
		}
		ctx.messageOrEnvelope = msg.message
		msg.f()
		ctx.messageOrEnvelope = nil
	case *Started:
		ctx.InvokeUserMessage(msg)
	case *Watch:
		ctx.handleWatch(msg)
	case *Unwatch:
		ctx.handleUnwatch(msg)
	case *Stop:
		ctx.handleStop()
	case *Terminated:
		ctx.handleTerminated(msg)
	case *Failure:
		ctx.handleFailure(msg)
	case *Restart:
		ctx.handleRestart(msg)
	case *ReceiveTimeout:
		// the timeout may have been canceled after the timer fired
		if ctx.receiveTimeout > 0 {
			ctx.processMessage(msg)
		}
	default:
		ctx.logger.Warnf("%s received unexpected system message %T", ctx.self, msg)
	}
}

func (ctx *actorContext) handleWatch(msg *Watch) {
	if ctx.state.Load() >= stateStopping {
		ctx.system.sendSystemMessage(msg.Watcher, &Terminated{Who: ctx.self})
		return
	}
	ctx.ensureExtras().watch(msg.Watcher)
}

func (ctx *actorContext) handleUnwatch(msg *Unwatch) {
	if ctx.extras == nil {
		return
	}
	ctx.extras.unwatch(msg.Watcher)
}

func (ctx *actorContext) handleStop() {
	if ctx.state.Load() >= stateStopping {
		return
	}

	ctx.state.Store(stateStopping)
	ctx.CancelReceiveTimeout()
	ctx.invokeLifecycleMessage(stoppingMessage)
	ctx.stopAllChildren()
	ctx.tryRestartOrTerminate()
}

func (ctx *actorContext) handleRestart(msg *Restart) {
	if ctx.state.Load() >= stateStopping {
		return
	}

	ctx.state.Store(stateRestarting)
	ctx.CancelReceiveTimeout()
	ctx.InvokeUserMessage(&Restarting{Reason: msg.Reason})
	ctx.stopAllChildren()
	ctx.tryRestartOrTerminate()
}

func (ctx *actorContext) handleTerminated(msg *Terminated) {
	if ctx.extras != nil {
		ctx.extras.removeChild(msg.Who)
	}

	ctx.InvokeUserMessage(msg)
	ctx.tryRestartOrTerminate()
}

func (ctx *actorContext) handleFailure(msg *Failure) {
	if strategy, ok := ctx.actor.(SupervisorStrategy); ok {
		strategy.HandleFailure(ctx.system, ctx, msg.Who, msg.RestartStats, msg.Reason, msg.Message)
		return
	}
	ctx.props.getSupervisor(ctx.system).HandleFailure(ctx.system, ctx, msg.Who, msg.RestartStats, msg.Reason, msg.Message)
}

func (ctx *actorContext) stopAllChildren() {
	if ctx.extras == nil {
		return
	}

	for _, child := range ctx.extras.childrenPIDs() {
		ctx.Stop(child)
	}
}

// tryRestartOrTerminate completes a pending restart or stop once the last
// child has terminated.
func (ctx *actorContext) tryRestartOrTerminate() {
	if ctx.extras != nil && ctx.extras.children.Len() > 0 {
		return
	}

	switch ctx.state.Load() {
	case stateRestarting:
		ctx.CancelReceiveTimeout()
		ctx.restart()
	case stateStopping:
		ctx.CancelReceiveTimeout()
		ctx.finalizeStop()
	}
}

func (ctx *actorContext) restart() {
	ctx.disposeActor()
	if err := ctx.incarnateActor(); err != nil {
		ctx.logger.Errorf("%s failed to restart: %v", ctx.self, err)
		ctx.state.Store(stateStopping)
		ctx.finalizeStop()
		return
	}

	ctx.system.metrics.restarted()
	ctx.system.sendSystemMessage(ctx.self, resumeMailboxMessage)
	ctx.InvokeUserMessage(startedMessage)

	if ctx.extras == nil {
		return
	}

	for message := ctx.extras.stash.Pop(); message != nil; message = ctx.extras.stash.Pop() {
		ctx.InvokeUserMessage(message)
	}
}

func (ctx *actorContext) finalizeStop() {
	ctx.system.registry.Remove(ctx.self)
	ctx.invokeLifecycleMessage(stoppedMessage)
	ctx.disposeActor()

	terminated := &Terminated{Who: ctx.self}
	parentNotified := false
	if ctx.extras != nil {
		for _, watcher := range ctx.extras.watcherPIDs() {
			ctx.system.sendSystemMessage(watcher, terminated)
			parentNotified = parentNotified || watcher.Equals(ctx.parent)
		}
	}

	if ctx.parent != nil && !parentNotified {
		ctx.system.sendSystemMessage(ctx.parent, terminated)
	}

	ctx.state.Store(stateStopped)
}

// invokeLifecycleMessage delivers a stop notification. A panic at this stage
// cannot be supervised anymore and is logged instead.
func (ctx *actorContext) invokeLifecycleMessage(message SystemMessage) {
	defer func() {
		if r := recover(); r != nil {
			ctx.logger.Errorf("%s failed to handle %T: %v", ctx.self, message, toPanicError(r))
		}
	}()
	ctx.InvokeUserMessage(message)
}

// incarnateActor produces a fresh instance and runs its PreStart hook.
func (ctx *actorContext) incarnateActor() error {
	ctx.state.Store(stateAlive)
	ctx.actor = ctx.props.producer()

	starter, ok := ctx.actor.(PreStarter)
	if !ok {
		return nil
	}

	if ctx.props.preStartMaxRetries == 0 {
		if err := starter.PreStart(ctx.receiverContext()); err != nil {
			return gerrors.NewErrInitFailure(err)
		}
		return nil
	}

	delay := max(ctx.props.preStartRetryDelay, minPreStartRetryDelay)
	retrier := retry.NewRetrier(ctx.props.preStartMaxRetries+1, delay, delay)
	if err := retrier.RunContext(context.Background(), func(context.Context) error {
		return starter.PreStart(ctx.receiverContext())
	}); err != nil {
		return gerrors.NewErrInitFailure(err)
	}
	return nil
}

func (ctx *actorContext) disposeActor() {
	if closer, ok := ctx.actor.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			ctx.logger.Warnf("%s failed to dispose: %v", ctx.self, err)
		}
	}
}

// EscalateFailure suspends the mailbox and reports the failure to the parent,
// or to the system default strategy when the actor has no parent.
func (ctx *actorContext) EscalateFailure(reason error, message any) {
	ctx.logger.Infof("%s failed while processing %T: %v", ctx.self, UnwrapEnvelopeMessage(message), reason)

	failure := &Failure{
		Who:          ctx.self,
		Reason:       reason,
		RestartStats: ctx.ensureExtras().restartStats,
		Message:      message,
	}

	ctx.system.sendSystemMessage(ctx.self, suspendMailboxMessage)
	if ctx.parent == nil {
		ctx.system.supervisorStrategy.HandleFailure(ctx.system, &rootSupervisor{ctx: ctx}, failure.Who, failure.RestartStats, failure.Reason, failure.Message)
		return
	}
	ctx.system.sendSystemMessage(ctx.parent, failure)
}

func (ctx *actorContext) RestartChildren(reason error, pids ...*PID) {
	for _, pid := range pids {
		ctx.system.sendSystemMessage(pid, &Restart{Reason: reason})
	}
}

func (ctx *actorContext) StopChildren(pids ...*PID) {
	for _, pid := range pids {
		ctx.system.sendSystemMessage(pid, stopMessage)
	}
}

func (ctx *actorContext) ResumeChildren(pids ...*PID) {
	for _, pid := range pids {
		ctx.system.sendSystemMessage(pid, resumeMailboxMessage)
	}
}

// rootSupervisor supervises an actor without parent on its own behalf.
type rootSupervisor struct {
	ctx *actorContext
}

var _ Supervisor = (*rootSupervisor)(nil)

func (s *rootSupervisor) Children() []*PID {
	return []*PID{s.ctx.self}
}

// EscalateFailure stops the actor: there is nobody left to escalate to.
func (s *rootSupervisor) EscalateFailure(reason error, _ any) {
	s.ctx.logger.Errorf("%s cannot escalate %v further, stopping", s.ctx.self, reason)
	s.ctx.StopChildren(s.ctx.self)
}

func (s *rootSupervisor) RestartChildren(reason error, pids ...*PID) {
	s.ctx.RestartChildren(reason, pids...)
}

func (s *rootSupervisor) StopChildren(pids ...*PID) {
	s.ctx.StopChildren(pids...)
}

func (s *rootSupervisor) ResumeChildren(pids ...*PID) {
	s.ctx.ResumeChildren(pids...)
}
