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

// Actor is a unit of sequential computation reacting to messages.
//
// Receive is never called concurrently for the same actor: the runtime
// processes one message at a time, in the order the messages were posted.
// Lifecycle messages (*Started, *Stopping, *Stopped, *Restarting) and
// *Terminated notifications are delivered through Receive as well.
type Actor interface {
	Receive(ctx Context)
}

// ReceiveFunc adapts a function to the Actor interface.
type ReceiveFunc func(ctx Context)

var _ Actor = ReceiveFunc(nil)

// Receive calls f(ctx).
func (f ReceiveFunc) Receive(ctx Context) {
	f(ctx)
}

// Producer creates a fresh actor instance. It is called once per incarnation.
type Producer func() Actor

// PreStarter is implemented by actors that need to run an initialization step
// before receiving *Started. A failing PreStart aborts the spawn, or stops the
// actor when it happens during a restart.
type PreStarter interface {
	PreStart(ctx Context) error
}
