/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

const (
	mailboxSize = 32
	mailboxIdle = 10 * time.Minute
)

// Dispatcher gives every user a mailbox drained by its own goroutine, so one
// user's turns run strictly in order while other users are served meanwhile.
// A mailbox that stays empty for idle is closed down along with its goroutine.
type Dispatcher struct {
	cfg    *Config
	clock  clockwork.Clock
	idle   time.Duration
	handle func(ctx context.Context, in Inbound)

	mu        sync.Mutex
	mailboxes map[int64]chan Inbound
	wg        sync.WaitGroup
}

func newDispatcher(cfg *Config, clock clockwork.Clock, handle func(ctx context.Context, in Inbound)) *Dispatcher {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &Dispatcher{
		cfg:       cfg,
		clock:     clock,
		idle:      mailboxIdle,
		handle:    handle,
		mailboxes: make(map[int64]chan Inbound),
	}
}

// Dispatch queues in behind the user's earlier messages. It never blocks: when
// the user's mailbox is full the message is dropped.
func (d *Dispatcher) Dispatch(ctx context.Context, in Inbound) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	mailbox, ok := d.mailboxes[in.UserID]
	if !ok {
		mailbox = make(chan Inbound, mailboxSize)
		d.mailboxes[in.UserID] = mailbox

		d.wg.Add(1)
		go d.run(ctx, in.UserID, mailbox)
	}

	select {
	case mailbox <- in:
		return true
	default:
		errorf("Mailbox of user %d is full, dropping %s", in.UserID, in.describe())
		return false
	}
}

func (d *Dispatcher) run(ctx context.Context, userID int64, mailbox chan Inbound) {
	defer d.wg.Done()

	for {
		timer := d.clock.NewTimer(d.idle)

		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case in := <-mailbox:
			timer.Stop()
			d.handle(ctx, in)
		case <-timer.Chan():
			if d.retire(userID, mailbox) {
				return
			}
		}
	}
}

// retire drops the user's mailbox if nothing is queued in it. Sends only
// happen under d.mu, so a retired mailbox never receives anything.
func (d *Dispatcher) retire(userID int64, mailbox chan Inbound) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(mailbox) > 0 {
		return false
	}

	delete(d.mailboxes, userID)

	logf(d.cfg, "BOT: Closed idle mailbox of user %d", userID)

	return true
}

func (d *Dispatcher) mailboxCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.mailboxes)
}

// Wait blocks until every mailbox goroutine has stopped.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
