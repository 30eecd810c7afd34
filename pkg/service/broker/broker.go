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

// Package broker fans notifications out from one producer channel to any
// number of subscribers.
package broker

import (
	"context"
	"time"

	"github.com/quake2touch/launcher/pkg/helpers/syncutil"
	"github.com/quake2touch/launcher/pkg/notifications"
	"github.com/rs/zerolog/log"
)

// DeliverTimeout bounds how long a full subscriber can hold up a
// non-lossy notification before it is dropped for that subscriber.
const DeliverTimeout = 2 * time.Second

type subscriber struct {
	ch     chan notifications.Notification
	quit   chan struct{}
	mu     syncutil.Mutex
	id     int
	closed bool
}

// deliver sends notif, waiting up to DeliverTimeout for non-lossy ones.
func (s *subscriber) deliver(ctx context.Context, notif notifications.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	select {
	case s.ch <- notif:
		return
	default:
	}

	if notif.Lossy() {
		return
	}

	timer := time.NewTimer(DeliverTimeout)
	defer timer.Stop()
	select {
	case s.ch <- notif:
	case <-timer.C:
		log.Warn().
			Int("subscriber_id", s.id).
			Str("method", notif.Method).
			Msg("subscriber channel full, dropping notification")
	case <-s.quit:
	case <-ctx.Done():
	}
}

// close must be called once, after s is removed from the subscriber map.
func (s *subscriber) close() {
	close(s.quit)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	close(s.ch)
}

type Broker struct {
	ctx         context.Context
	source      <-chan notifications.Notification
	subscribers map[int]*subscriber
	done        chan struct{}
	mu          syncutil.RWMutex
	nextID      int
}

func NewBroker(ctx context.Context, source <-chan notifications.Notification) *Broker {
	return &Broker{
		ctx:         ctx,
		source:      source,
		subscribers: make(map[int]*subscriber),
		done:        make(chan struct{}),
	}
}

// Start runs the broadcast loop until the source closes or the context is
// cancelled, then closes every subscriber channel.
func (b *Broker) Start() {
	go func() {
		defer close(b.done)
		for {
			select {
			case notif, ok := <-b.source:
				if !ok {
					log.Debug().Msg("broker: source channel closed")
					b.closeAllSubscribers()
					return
				}
				b.broadcast(notif)
			case <-b.ctx.Done():
				log.Debug().Msg("broker: context cancelled, shutting down")
				b.closeAllSubscribers()
				return
			}
		}
	}()
}

// Done is closed once the broadcast loop has exited.
func (b *Broker) Done() <-chan struct{} {
	return b.done
}

// broadcast sends to a snapshot of the subscribers so a slow one never
// holds the lock that Subscribe and Unsubscribe need.
func (b *Broker) broadcast(notif notifications.Notification) {
	b.mu.RLock()
	subs := make([]*subscriber, 0, len(b.subscribers))
	for _, sub := range b.subscribers {
		subs = append(subs, sub)
	}
	b.mu.RUnlock()

	for _, sub := range subs {
		sub.deliver(b.ctx, notif)
	}
}

// Subscribe registers a subscriber with a buffered channel. The returned id
// is used to Unsubscribe.
func (b *Broker) Subscribe(bufferSize int) (notifChan <-chan notifications.Notification, id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id = b.nextID
	b.nextID++

	ch := make(chan notifications.Notification, bufferSize)
	b.subscribers[id] = &subscriber{
		id:   id,
		ch:   ch,
		quit: make(chan struct{}),
	}

	log.Debug().
		Int("subscriber_id", id).
		Int("buffer_size", bufferSize).
		Msg("new subscriber registered")

	return ch, id
}

// Unsubscribe removes a subscription and closes its channel. Repeated
// calls are no-ops.
func (b *Broker) Unsubscribe(id int) {
	b.mu.Lock()
	sub, ok := b.subscribers[id]
	delete(b.subscribers, id)
	b.mu.Unlock()

	if ok {
		sub.close()
		log.Debug().Int("subscriber_id", id).Msg("subscriber unsubscribed")
	}
}

func (b *Broker) closeAllSubscribers() {
	b.mu.Lock()
	subs := b.subscribers
	b.subscribers = make(map[int]*subscriber)
	b.mu.Unlock()

	for id, sub := range subs {
		sub.close()
		log.Debug().Int("subscriber_id", id).Msg("closed subscriber channel on shutdown")
	}
}
