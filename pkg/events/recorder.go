package events

import (
	"context"
	"sync"
)

type Published struct {
	Topic string
	Key   string
	Event any
}

// Recorder keeps published events in memory. Err, when set, is returned from every publish.
type Recorder struct {
	mu     sync.Mutex
	events []Published
	Err    error
}

func (r *Recorder) PublishEvent(_ context.Context, topic, key string, event any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.events = append(r.events, Published{Topic: topic, Key: key, Event: event})
	return nil
}

func (r *Recorder) Events() []Published {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Published, len(r.events))
	copy(out, r.events)
	return out
}

// Types returns the "type" field of every recorded Event in order.
func (r *Recorder) Types() []string {
	var out []string
	for _, p := range r.Events() {
		if ev, ok := p.Event.(Event); ok {
			if s, ok := ev["type"].(string); ok {
				out = append(out, s)
			}
		}
	}
	return out
}
