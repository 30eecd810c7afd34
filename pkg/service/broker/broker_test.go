// Quake2Touch Launcher
// Copyright (c) 2026 The Quake2Touch Launcher Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Quake2Touch Launcher.
//
// Quake2Touch Launcher is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Quake2Touch Launcher is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Quake2Touch Launcher.  If not, see <http://www.gnu.org/licenses/>.

package broker

import (
	"context"
	"testing"
	"time"

	"github.com/quake2touch/launcher/pkg/notifications"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestBroker_Subscribe(t *testing.T) {
	t.Parallel()

	broker := NewBroker(context.Background(), make(chan notifications.Notification))

	ch, id := broker.Subscribe(10)
	assert.NotNil(t, ch)
	assert.Equal(t, 0, id)

	ch2, id2 := broker.Subscribe(20)
	assert.NotNil(t, ch2)
	assert.Equal(t, 1, id2)
	assert.Len(t, broker.subscribers, 2)
}

func TestBroker_Unsubscribe(t *testing.T) {
	t.Parallel()

	broker := NewBroker(context.Background(), make(chan notifications.Notification))

	ch, id := broker.Subscribe(10)
	broker.Unsubscribe(id)

	assert.Empty(t, broker.subscribers)
	_, ok := <-ch
	assert.False(t, ok, "channel should be closed")

	broker.Unsubscribe(id)
}

func TestBroker_BroadcastToMultipleSubscribers(t *testing.T) {
	t.Parallel()

	source := make(chan notifications.Notification, 10)
	broker := NewBroker(context.Background(), source)
	sub1, _ := broker.Subscribe(10)
	sub2, _ := broker.Subscribe(10)
	broker.Start()

	source <- notifications.Notification{Method: notifications.GamesChanged}

	assert.Equal(t, notifications.GamesChanged, (<-sub1).Method)
	assert.Equal(t, notifications.GamesChanged, (<-sub2).Method)

	close(source)
	<-broker.Done()
}

func TestBroker_DropsLossyWhenFull(t *testing.T) {
	t.Parallel()

	source := make(chan notifications.Notification, 100)
	broker := NewBroker(context.Background(), source)
	sub, _ := broker.Subscribe(2)
	broker.Start()

	for range 10 {
		source <- notifications.Notification{Method: notifications.DownloadProgress}
	}
	// terminal notification arrives once the subscriber drains
	source <- notifications.Notification{Method: notifications.DownloadFailed}

	// let the broker fill the buffer before draining
	time.Sleep(50 * time.Millisecond)

	var methods []string
	timeout := time.After(time.Second)
	for len(methods) == 0 || methods[len(methods)-1] != notifications.DownloadFailed {
		select {
		case n := <-sub:
			methods = append(methods, n.Method)
		case <-timeout:
			t.Fatalf("terminal notification not delivered, got %v", methods)
		}
	}

	assert.Less(t, len(methods), 11, "some progress notifications should be dropped")

	close(source)
	<-broker.Done()
}

func TestBroker_ContextCancelClosesSubscribers(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	broker := NewBroker(ctx, make(chan notifications.Notification))
	sub, _ := broker.Subscribe(1)
	broker.Start()

	cancel()

	select {
	case _, ok := <-sub:
		assert.False(t, ok)
	case <-time.After(time.Second):
		require.FailNow(t, "subscriber channel not closed")
	}
	<-broker.Done()
}

func TestBroker_SlowSubscriberDoesNotBlockSubscriptions(t *testing.T) {
	t.Parallel()

	source := make(chan notifications.Notification, 1)
	broker := NewBroker(context.Background(), source)
	slow, slowID := broker.Subscribe(0)
	broker.Start()

	// nobody reads slow, so the broker waits on it for this one
	source <- notifications.Notification{Method: notifications.InstallSucceeded}
	time.Sleep(50 * time.Millisecond)

	start := time.Now()
	other, otherID := broker.Subscribe(1)
	broker.Unsubscribe(otherID)
	_, ok := <-other
	assert.False(t, ok)

	broker.Unsubscribe(slowID)
	assert.Less(t, time.Since(start), DeliverTimeout/2)
	_, ok = <-slow
	assert.False(t, ok)

	close(source)
	<-broker.Done()
}
