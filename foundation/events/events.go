// Package events allows for the registering and receiving of events.
package events

import (
	"encoding/json"
	"fmt"
	"sync"
)

// Event is one message published to subscribers. ChallengeID is nil for
// messages that are not about a specific challenge.
type Event struct {
	Kind        string  `json:"kind"`
	ChallengeID *uint64 `json:"challenge_id,omitempty"`
	Message     string  `json:"message"`
}

// Filter decides which events a subscriber receives.
type Filter struct {
	ChallengeID *uint64
}

func (f Filter) match(evt Event) bool {
	if f.ChallengeID == nil {
		return true
	}
	return evt.ChallengeID != nil && *evt.ChallengeID == *f.ChallengeID
}

type subscriber struct {
	ch     chan []byte
	filter Filter
}

// Events maintains a mapping of unique id and channels so goroutines
// can register and receive events.
type Events struct {
	mu sync.RWMutex
	m  map[string]subscriber
}

// New constructs an events for registering and receiving events.
func New() *Events {
	return &Events{
		m: make(map[string]subscriber),
	}
}

// Shutdown closes and removes all channels that were provided by
// the call to Acquire.
func (evt *Events) Shutdown() {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	for id, sub := range evt.m {
		delete(evt.m, id)
		close(sub.ch)
	}
}

// Acquire takes a unique id and returns a channel that receives the JSON
// encoding of every event matching the filter.
func (evt *Events) Acquire(id string, filter Filter) <-chan []byte {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	if sub, exists := evt.m[id]; exists {
		return sub.ch
	}

	// A message is dropped when the websocket receiver is not ready, so
	// the buffer gives a slow writer room to catch up.
	const messageBuffer = 100

	sub := subscriber{
		ch:     make(chan []byte, messageBuffer),
		filter: filter,
	}
	evt.m[id] = sub

	return sub.ch
}

// Release closes and removes the channel that was provided by
// the call to Acquire.
func (evt *Events) Release(id string) error {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	sub, exists := evt.m[id]
	if !exists {
		return fmt.Errorf("id %q does not exist", id)
	}

	delete(evt.m, id)
	close(sub.ch)
	return nil
}

// Send publishes the event to every matching subscriber. Send does not
// block waiting for a receiver.
func (evt *Events) Send(e Event) {
	data, err := json.Marshal(e)
	if err != nil {
		return
	}

	evt.mu.RLock()
	defer evt.mu.RUnlock()

	for _, sub := range evt.m {
		if !sub.filter.match(e) {
			continue
		}

		select {
		case sub.ch <- data:
		default:
		}
	}
}
