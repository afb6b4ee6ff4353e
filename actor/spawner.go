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
	gerrors "github.com/tochemey/pactor/errors"
)

// defaultSpawner registers a new actor process under id, incarnates the
// actor and starts its mailbox with *Started as its first message. Messages
// sent to the actor before its mailbox starts are kept until then.
func defaultSpawner(system *ActorSystem, id string, props *Props, parent SpawnerContext) (*PID, error) {
	ctx := newActorContext(system, props, parent.Self())
	mailbox := props.produceMailbox()
	dispatcher := props.getDispatcher(system)
	mailbox.RegisterHandlers(ctx, dispatcher)
	process := NewActorProcess(mailbox)

	pid, absent := system.registry.Add(process, id)
	if !absent {
		return pid, &NameExistsError{PID: pid}
	}

	ctx.self = pid
	ctx.logger = system.logger.With("pid", pid.String())

	if err := ctx.incarnateActor(); err != nil {
		system.registry.Remove(pid)
		ctx.logger.Errorf("failed to spawn %s: %v", pid, err)
		return nil, gerrors.NewSpawnError(err)
	}

	for _, onInit := range props.onInit {
		onInit(ctx.receiverContext())
	}

	mailbox.PostSystemMessage(startedMessage)
	mailbox.Start()

	system.logger.Debugf("spawned %s", pid)
	return pid, nil
}
