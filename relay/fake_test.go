/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package relay

import (
	"sync"
	"time"
)

type delivery struct {
	conn    ConnID
	event   string
	payload any
}

// recorder is a Sender that keeps every delivery in order.
type recorder struct {
	mu   sync.Mutex
	sent []delivery
}

func (r *recorder) Send(conn ConnID, event string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sent = append(r.sent, delivery{conn: conn, event: event, payload: payload})
}

// events lists the event names delivered to conn.
func (r *recorder) events(conn ConnID) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []string
	for _, d := range r.sent {
		if d.conn == conn {
			out = append(out, d.event)
		}
	}

	return out
}

// last returns the most recent payload of event delivered to conn.
func (r *recorder) last(conn ConnID, event string) (any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := len(r.sent) - 1; i >= 0; i-- {
		if d := r.sent[i]; d.conn == conn && d.event == event {
			return d.payload, true
		}
	}

	return nil, false
}

func (r *recorder) count(event string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, d := range r.sent {
		if d.event == event {
			n++
		}
	}

	return n
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sent = nil
}

// scheduler holds deferred work until fire is called.
type scheduler struct {
	mu      sync.Mutex
	delays  []time.Duration
	pending []func()
}

func (s *scheduler) AfterFunc(d time.Duration, f func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.delays = append(s.delays, d)
	s.pending = append(s.pending, f)
}

func (s *scheduler) fire() {
	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, f := range pending {
		f()
	}
}
