package main

import (
	"sync"
	"time"
)

// mTicker fans a single time.Ticker out to any number of subscribers, so
// connection writers share one ping beat instead of a timer each.
type mTicker struct {
	mux         sync.Mutex // Protects everything below
	subscribers subscribers
	ticker      *time.Ticker
	stopCh      chan struct{}
	stopped     bool
	skipped     int // ticks a busy subscriber missed
}

type subscribers map[*subscriber]struct{}

type subscriber struct {
	tick chan time.Time
}

func newMTicker(interval time.Duration) *mTicker {
	t := &mTicker{
		subscribers: make(subscribers),
		ticker:      time.NewTicker(interval),
		stopCh:      make(chan struct{}),
	}
	go t.tick()
	return t
}

func newSubscriber() *subscriber {
	return &subscriber{
		tick: make(chan time.Time, 1),
	}
}

// subscribe returns a subscriber whose channel receives ticks. Ticks it is
// not ready for are discarded. Subscribing to a stopped ticker yields an
// already closed channel.
func (t *mTicker) subscribe() *subscriber {
	t.mux.Lock()
	defer t.mux.Unlock()

	sub := newSubscriber()
	if t.stopped {
		close(sub.tick)
		return sub
	}
	t.subscribers[sub] = struct{}{}
	return sub
}

func (t *mTicker) unsubscribe(sub *subscriber) {
	t.mux.Lock()
	defer t.mux.Unlock()

	if _, ok := t.subscribers[sub]; !ok {
		return
	}
	delete(t.subscribers, sub)
	close(sub.tick)
}

// stop halts the ticker and closes every subscribed channel. Safe to call
// more than once.
func (t *mTicker) stop() {
	t.mux.Lock()
	defer t.mux.Unlock()

	if t.stopped {
		return
	}
	t.stopped = true
	t.ticker.Stop()
	close(t.stopCh)
	for sub := range t.subscribers {
		close(sub.tick)
		delete(t.subscribers, sub)
	}
}

func (t *mTicker) tick() {
	for {
		select {
		case now := <-t.ticker.C:
			t.mux.Lock()
			for sub := range t.subscribers {
				select {
				case sub.tick <- now:
				default:
					t.skipped++
				}
			}
			t.mux.Unlock()
		case <-t.stopCh:
			return
		}
	}
}
