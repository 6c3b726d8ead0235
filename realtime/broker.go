// Package realtime fans dashboard events out to browsers over SSE and WebSocket.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/phuslu/log"
)

// Message is the envelope written to every subscriber
type Message struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

// Broker handles subscribers and broadcasting
type Broker struct {
	clients    map[chan []byte]bool
	register   chan chan []byte
	unregister chan chan []byte
	broadcast  chan []byte
	done       chan struct{}
	mu         sync.RWMutex
}

// NewBroker creates a new broker
func NewBroker() *Broker {
	return &Broker{
		clients:    make(map[chan []byte]bool),
		register:   make(chan chan []byte),
		unregister: make(chan chan []byte),
		broadcast:  make(chan []byte, 1000),
		done:       make(chan struct{}),
	}
}

// Run starts the broker loop and closes all subscribers when ctx ends
func (b *Broker) Run(ctx context.Context) {
	defer close(b.done)
	for {
		select {
		case <-ctx.Done():
			b.mu.Lock()
			for client := range b.clients {
				delete(b.clients, client)
				close(client)
			}
			b.mu.Unlock()
			return

		case client := <-b.register:
			b.mu.Lock()
			b.clients[client] = true
			total := len(b.clients)
			b.mu.Unlock()
			log.Debug().Int("total", total).Msg("Realtime client connected")

		case client := <-b.unregister:
			b.mu.Lock()
			if _, ok := b.clients[client]; ok {
				delete(b.clients, client)
				close(client)
				log.Debug().Int("total", len(b.clients)).Msg("Realtime client disconnected")
			}
			b.mu.Unlock()

		case msg := <-b.broadcast:
			b.mu.RLock()
			for client := range b.clients {
				select {
				case client <- msg:
				default:
					// slow client, drop the message
				}
			}
			b.mu.RUnlock()
		}
	}
}

// Subscribe registers a new subscriber. The returned channel is closed after
// the cancel function is called or the broker stops.
func (b *Broker) Subscribe(ctx context.Context) (<-chan []byte, func()) {
	client := make(chan []byte, 32)
	select {
	case b.register <- client:
	case <-ctx.Done():
		close(client)
		return client, func() {}
	case <-b.done:
		close(client)
		return client, func() {}
	}

	var once sync.Once
	return client, func() {
		once.Do(func() {
			select {
			case b.unregister <- client:
			case <-b.done:
			}
		})
	}
}

// ClientCount returns the number of connected subscribers
func (b *Broker) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

// ServeHTTP handles the SSE endpoint
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	messages, cancel := b.Subscribe(r.Context())
	defer cancel()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// Broadcast sends an event to all connected clients
func (b *Broker) Broadcast(event string, payload any) {
	jsonBytes, err := json.Marshal(Message{Event: event, Payload: payload})
	if err != nil {
		log.Error().Err(err).Str("event", event).Msg("Failed to marshal broadcast message")
		return
	}

	select {
	case b.broadcast <- jsonBytes:
	default:
		log.Warn().Str("event", event).Msg("Broadcast buffer full, dropping event")
	}
}
