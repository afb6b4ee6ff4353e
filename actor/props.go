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
	"slices"
	"time"

	gerrors "github.com/tochemey/pactor/errors"
	"github.com/tochemey/pactor/internal/validation"
)

// SpawnFunc creates, registers and starts the actor described by props under
// id, as a child of parent.
type SpawnFunc func(system *ActorSystem, id string, props *Props, parent SpawnerContext) (*PID, error)

// Props is the immutable recipe of an actor: how to produce it and how to run
// it. Props are never mutated once built; Configure returns a modified copy,
// so one Props value can be shared by any number of spawns.
type Props struct {
	producer              Producer
	spawner               SpawnFunc
	mailboxProducer       MailboxProducer
	dispatcher            Dispatcher
	supervisorStrategy    SupervisorStrategy
	guardianStrategy      SupervisorStrategy
	receiverMiddleware    []ReceiverMiddleware
	senderMiddleware      []SenderMiddleware
	contextDecorator      []ContextDecorator
	onInit                []func(ctx Context)
	preStartMaxRetries    int
	preStartRetryDelay    time.Duration
	receiverChain         ReceiverFunc
	senderChain           SenderFunc
	contextDecoratorChain ContextDecoratorFunc
}

// PropsOption configures Props.
type PropsOption interface {
	Apply(props *Props)
}

var _ PropsOption = propsOption(nil)

type propsOption func(props *Props)

// Apply sets the option on props.
func (f propsOption) Apply(props *Props) {
	f(props)
}

// PropsFromProducer creates Props producing actors with producer.
func PropsFromProducer(producer Producer, opts ...PropsOption) *Props {
	props := &Props{producer: producer}
	return props.Configure(opts...)
}

// PropsFromFunc creates Props whose actors run receive.
func PropsFromFunc(receive ReceiveFunc, opts ...PropsOption) *Props {
	return PropsFromProducer(func() Actor { return receive }, opts...)
}

// Configure returns a copy of the Props with opts applied.
func (props *Props) Configure(opts ...PropsOption) *Props {
	clone := *props
	clone.receiverMiddleware = slices.Clone(props.receiverMiddleware)
	clone.senderMiddleware = slices.Clone(props.senderMiddleware)
	clone.contextDecorator = slices.Clone(props.contextDecorator)
	clone.onInit = slices.Clone(props.onInit)

	for _, opt := range opts {
		opt.Apply(&clone)
	}

	clone.receiverChain = makeReceiverMiddlewareChain(clone.receiverMiddleware, receiveEnvelope)
	clone.senderChain = makeSenderMiddlewareChain(clone.senderMiddleware, sendEnvelope)
	clone.contextDecoratorChain = makeContextDecoratorChain(clone.contextDecorator, identityContext)
	return &clone
}

// Validate checks the Props can be spawned.
func (props *Props) Validate() error {
	err := validation.New(validation.AllErrors()).
		AddAssertion(props.producer != nil, "producer is required").
		AddAssertion(props.preStartMaxRetries >= 0, "preStart retries cannot be negative").
		AddAssertion(isComparableStrategy(props.guardianStrategy), errIncomparableGuardian.Error()).
		AddValidator(validation.NewNonNegativeDurationValidator("preStart retry delay", props.preStartRetryDelay)).
		Validate()
	if err != nil {
		return gerrors.NewErrInvalidProps(err)
	}
	return nil
}

// Producer returns the actor producer.
func (props *Props) Producer() Producer {
	return props.producer
}

// SupervisorStrategy returns the strategy supervising the children of the
// actor, nil when the system default applies.
func (props *Props) SupervisorStrategy() SupervisorStrategy {
	return props.supervisorStrategy
}

// GuardianStrategy returns the guardian strategy, nil when none is set.
func (props *Props) GuardianStrategy() SupervisorStrategy {
	return props.guardianStrategy
}

func (props *Props) spawn(system *ActorSystem, id string, parent SpawnerContext) (*PID, error) {
	if err := props.Validate(); err != nil {
		return nil, err
	}

	spawner := props.spawner
	if spawner == nil {
		spawner = defaultSpawner
	}
	return spawner(system, id, props, parent)
}

func (props *Props) produceMailbox() Mailbox {
	if props.mailboxProducer == nil {
		return Unbounded()()
	}
	return props.mailboxProducer()
}

func (props *Props) getDispatcher(system *ActorSystem) Dispatcher {
	if props.dispatcher == nil {
		return system.dispatcher
	}
	return props.dispatcher
}

func (props *Props) getSupervisor(system *ActorSystem) SupervisorStrategy {
	if props.supervisorStrategy == nil {
		return system.supervisorStrategy
	}
	return props.supervisorStrategy
}

// WithMailbox sets the mailbox producer. The default is Unbounded.
func WithMailbox(producer MailboxProducer) PropsOption {
	return propsOption(func(props *Props) {
		props.mailboxProducer = producer
	})
}

// WithDispatcher sets the dispatcher. The default is the system dispatcher.
func WithDispatcher(dispatcher Dispatcher) PropsOption {
	return propsOption(func(props *Props) {
		props.dispatcher = dispatcher
	})
}

// WithSupervisor sets the strategy supervising the actor's children.
func WithSupervisor(strategy SupervisorStrategy) PropsOption {
	return propsOption(func(props *Props) {
		props.supervisorStrategy = strategy
	})
}

// WithGuardian makes root spawns of these Props supervised by a guardian
// running strategy. Props with a guardian cannot be used to spawn children.
func WithGuardian(strategy SupervisorStrategy) PropsOption {
	return propsOption(func(props *Props) {
		props.guardianStrategy = strategy
	})
}

// WithReceiverMiddleware appends middleware to the receive path.
func WithReceiverMiddleware(middleware ...ReceiverMiddleware) PropsOption {
	return propsOption(func(props *Props) {
		props.receiverMiddleware = append(props.receiverMiddleware, middleware...)
	})
}

// WithSenderMiddleware appends middleware to the send path.
func WithSenderMiddleware(middleware ...SenderMiddleware) PropsOption {
	return propsOption(func(props *Props) {
		props.senderMiddleware = append(props.senderMiddleware, middleware...)
	})
}

// WithContextDecorator appends decorators to the context handed to the actor.
func WithContextDecorator(decorators ...ContextDecorator) PropsOption {
	return propsOption(func(props *Props) {
		props.contextDecorator = append(props.contextDecorator, decorators...)
	})
}

// WithSpawnFunc replaces the function spawning the actor.
func WithSpawnFunc(spawner SpawnFunc) PropsOption {
	return propsOption(func(props *Props) {
		props.spawner = spawner
	})
}

// WithOnInit registers callbacks run on the context once, before the first
// incarnation receives *Started.
func WithOnInit(init ...func(ctx Context)) PropsOption {
	return propsOption(func(props *Props) {
		props.onInit = append(props.onInit, init...)
	})
}

// WithPreStartRetry retries a failing PreStart up to maxRetries times,
// waiting delay between attempts.
func WithPreStartRetry(maxRetries int, delay time.Duration) PropsOption {
	return propsOption(func(props *Props) {
		props.preStartMaxRetries = maxRetries
		props.preStartRetryDelay = delay
	})
}
