package leaderboard

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/playperu/geoquiz/internal/rules"
)

// Event is the payload pushed to live leaderboard subscribers.
type Event struct {
	Type  string `json:"type"`
	Name  string `json:"name,omitempty"`
	Score int    `json:"score,omitempty"`
}

const EventUpdated = "leaderboard_updated"

// Broker is an in-process pub/sub for leaderboard events.
type Broker struct {
	mu   sync.RWMutex
	subs map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[chan []byte]struct{})}
}

// Subscribe returns a channel that receives JSON-encoded events.
func (b *Broker) Subscribe() chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *Broker) Unsubscribe(ch chan []byte) {
	b.mu.Lock()
	delete(b.subs, ch)
	b.mu.Unlock()
}

// Publish sends an event to every subscriber.
func (b *Broker) Publish(event Event) {
	data, _ := json.Marshal(event)
	b.mu.RLock()
	for ch := range b.subs {
		select {
		case ch <- data:
		default:
			// Drop if subscriber is slow.
		}
	}
	b.mu.RUnlock()
}

// Publishing wraps a Store and announces every score that changed a row.
type Publishing struct {
	Store
	broker *Broker
}

func NewPublishing(store Store, broker *Broker) *Publishing {
	return &Publishing{Store: store, broker: broker}
}

func (p *Publishing) RecordScore(ctx context.Context, name string, score int) (bool, error) {
	changed, err := p.Store.RecordScore(ctx, name, score)
	if err == nil && changed {
		p.broker.Publish(Event{Type: EventUpdated, Name: rules.NormalizePlayerName(name), Score: score})
	}
	return changed, err
}
