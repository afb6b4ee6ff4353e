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

// ReceiverFunc handles an incoming envelope on behalf of an actor.
type ReceiverFunc func(ctx ReceiverContext, envelope *MessageEnvelope)

// ReceiverMiddleware wraps the receive path of an actor. A middleware must
// call next for the actor to see the message.
type ReceiverMiddleware func(next ReceiverFunc) ReceiverFunc

// SenderFunc sends an envelope on behalf of an actor.
type SenderFunc func(ctx SenderContext, target *PID, envelope *MessageEnvelope)

// SenderMiddleware wraps the send path of an actor. A middleware must call
// next for the message to be delivered.
type SenderMiddleware func(next SenderFunc) SenderFunc

// ContextDecoratorFunc returns the context the actor receives.
type ContextDecoratorFunc func(ctx Context) Context

// ContextDecorator wraps the context handed to an actor.
type ContextDecorator func(next ContextDecoratorFunc) ContextDecoratorFunc

// makeReceiverMiddlewareChain composes middlewares, outermost first, around last.
func makeReceiverMiddlewareChain(middlewares []ReceiverMiddleware, last ReceiverFunc) ReceiverFunc {
	if len(middlewares) == 0 {
		return nil
	}

	chain := middlewares[len(middlewares)-1](last)
	for i := len(middlewares) - 2; i >= 0; i-- {
		chain = middlewares[i](chain)
	}
	return chain
}

func makeSenderMiddlewareChain(middlewares []SenderMiddleware, last SenderFunc) SenderFunc {
	if len(middlewares) == 0 {
		return nil
	}

	chain := middlewares[len(middlewares)-1](last)
	for i := len(middlewares) - 2; i >= 0; i-- {
		chain = middlewares[i](chain)
	}
	return chain
}

func makeContextDecoratorChain(decorators []ContextDecorator, last ContextDecoratorFunc) ContextDecoratorFunc {
	if len(decorators) == 0 {
		return nil
	}

	chain := decorators[len(decorators)-1](last)
	for i := len(decorators) - 2; i >= 0; i-- {
		chain = decorators[i](chain)
	}
	return chain
}

func receiveEnvelope(ctx ReceiverContext, envelope *MessageEnvelope) {
	ctx.Receive(envelope)
}

func sendEnvelope(ctx SenderContext, target *PID, envelope *MessageEnvelope) {
	ctx.ActorSystem().sendUserMessage(target, envelope)
}

func identityContext(ctx Context) Context {
	return ctx
}
