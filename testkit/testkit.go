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

package testkit

import (
	"context"
	"testing"

	"github.com/tochemey/pactor/actor"
	"github.com/tochemey/pactor/log"
)

// TestKit defines actor test kit
type TestKit struct {
	actorSystem   *actor.ActorSystem
	kt            *testing.T
	logger        log.Logger
	systemOptions []actor.Option
}

// New creates an instance of TestKit
func New(ctx context.Context, t *testing.T, opts ...Option) *TestKit {
	testkit := &TestKit{
		kt:     t,
		logger: log.DiscardLogger,
	}

	for _, opt := range opts {
		opt.Apply(testkit)
	}

	systemOptions := append([]actor.Option{actor.WithLogger(testkit.logger)}, testkit.systemOptions...)
	system, err := actor.NewActorSystem("testkit", systemOptions...)
	if err != nil {
		t.Fatal(err.Error())
	}

	if err := system.Start(ctx); err != nil {
		t.Fatal(err.Error())
	}

	testkit.actorSystem = system
	return testkit
}

// ActorSystem returns the testkit actor system
func (k *TestKit) ActorSystem() *actor.ActorSystem {
	return k.actorSystem
}

// Spawn creates a root actor named name
func (k *TestKit) Spawn(name string, props *actor.Props) *actor.PID {
	pid, err := k.actorSystem.Root().SpawnNamed(props, name)
	if err != nil {
		k.kt.Fatal(err.Error())
	}
	return pid
}

// NewProbe create a test probe
func (k *TestKit) NewProbe() Probe {
	testProbe, err := newProbe(k.actorSystem, k.kt)
	if err != nil {
		k.kt.Fatal(err.Error())
	}
	return testProbe
}

// Shutdown stops the test kit
func (k *TestKit) Shutdown(ctx context.Context) {
	if err := k.actorSystem.Shutdown(ctx); err != nil {
		k.kt.Fatal(err.Error())
	}
}
