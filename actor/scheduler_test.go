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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gerrors "github.com/tochemey/pactor/errors"
	"github.com/tochemey/pactor/internal/pause"
	"github.com/tochemey/pactor/log"
)

func drain(rec *recorder) {
	for {
		select {
		case <-rec.messages:
		default:
			return
		}
	}
}

func TestScheduler(t *testing.T) {
	t.Run("With the scheduler not started", func(t *testing.T) {
		system, err := NewActorSystem("test", WithLogger(log.DiscardLogger))
		require.NoError(t, err)

		pid := NewPID(system.Address(), "target")
		err = system.Scheduler().ScheduleOnce(new(ping), pid, time.Second)
		assert.ErrorIs(t, err, gerrors.ErrSchedulerNotStarted)
		assert.ErrorIs(t, system.Scheduler().Cancel("reference"), gerrors.ErrSchedulerNotStarted)
	})
	t.Run("With a single delivery", func(t *testing.T) {
		system := newTestSystem(t)
		rec := newRecorder()
		pid, err := system.Root().Spawn(rec.props())
		require.NoError(t, err)

		require.NoError(t, system.Scheduler().ScheduleOnce(&testMessage{value: 1}, pid, 50*time.Millisecond))
		assert.Equal(t, 1, rec.expect(t).(*testMessage).value)
		rec.expectNone(t)
	})
	t.Run("With repeated deliveries until canceled", func(t *testing.T) {
		system := newTestSystem(t)
		rec := newRecorder()
		pid, err := system.Root().Spawn(rec.props())
		require.NoError(t, err)

		require.NoError(t, system.Scheduler().Schedule(new(testMessage), pid, 30*time.Millisecond, WithReference("tick")))
		for range 3 {
			assert.IsType(t, new(testMessage), rec.expect(t))
		}

		require.NoError(t, system.Scheduler().Cancel("tick"))
		pause.For(50 * time.Millisecond)
		drain(rec)
		rec.expectNone(t)
		assert.ErrorIs(t, system.Scheduler().Cancel("tick"), gerrors.ErrScheduledReferenceNotFound)
	})
	t.Run("With pause and resume", func(t *testing.T) {
		system := newTestSystem(t)
		rec := newRecorder()
		pid, err := system.Root().Spawn(rec.props())
		require.NoError(t, err)

		require.NoError(t, system.Scheduler().Schedule(new(testMessage), pid, 30*time.Millisecond, WithReference("tick")))
		assert.IsType(t, new(testMessage), rec.expect(t))

		require.NoError(t, system.Scheduler().Pause("tick"))
		pause.For(50 * time.Millisecond)
		drain(rec)
		rec.expectNone(t)

		require.NoError(t, system.Scheduler().Resume("tick"))
		assert.IsType(t, new(testMessage), rec.expect(t))
	})
	t.Run("With a sender", func(t *testing.T) {
		system := newTestSystem(t)
		target, err := system.Root().Spawn(PropsFromFunc(echo))
		require.NoError(t, err)
		rec := newRecorder()
		replyTo, err := system.Root().Spawn(rec.props())
		require.NoError(t, err)

		require.NoError(t, system.Scheduler().ScheduleOnce(new(ping), target, 20*time.Millisecond, WithSender(replyTo)))
		assert.IsType(t, new(pong), rec.expect(t))
	})
	t.Run("With a cron expression", func(t *testing.T) {
		system := newTestSystem(t)
		pid := NewPID(system.Address(), "target")

		err := system.Scheduler().ScheduleWithCron(new(ping), pid, "1/5 * * * * *", WithReference("cron"), WithLocation(time.UTC))
		require.NoError(t, err)
		require.NoError(t, system.Scheduler().Cancel("cron"))
	})
	t.Run("With invalid schedules", func(t *testing.T) {
		system := newTestSystem(t)
		pid := NewPID(system.Address(), "target")

		assert.ErrorIs(t, system.Scheduler().ScheduleOnce(new(ping), pid, 0), gerrors.ErrInvalidSchedule)
		assert.ErrorIs(t, system.Scheduler().Schedule(new(ping), pid, -time.Second), gerrors.ErrInvalidSchedule)
		assert.ErrorIs(t, system.Scheduler().ScheduleWithCron(new(ping), pid, "not a cron"), gerrors.ErrInvalidSchedule)
		assert.ErrorIs(t, system.Scheduler().Pause("unknown"), gerrors.ErrScheduledReferenceNotFound)
	})
}
