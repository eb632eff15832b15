// Package events es un bus en memoria para eventos de dominio.
// Los handlers corren en el mismo goroutine que Publish, en orden de suscripción.
package events

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const TypeSupplierPriceChanged = "supplier_price_changed"

type Event interface {
	Type() string
	Data() interface{}
	Timestamp() time.Time
}

type Handler interface {
	Handle(ctx context.Context, e Event) error
}

// HandlerFunc adapta una función a Handler.
type HandlerFunc func(ctx context.Context, e Event) error

func (f HandlerFunc) Handle(ctx context.Context, e Event) error { return f(ctx, e) }

type BaseEvent struct {
	EventType string
	EventData interface{}
	EventTime time.Time
}

func (e BaseEvent) Type() string         { return e.EventType }
func (e BaseEvent) Data() interface{}    { return e.EventData }
func (e BaseEvent) Timestamp() time.Time { return e.EventTime }

func NewEvent(eventType string, data interface{}) Event {
	return BaseEvent{EventType: eventType, EventData: data, EventTime: time.Now()}
}

type Bus struct {
	mu          sync.RWMutex
	subscribers map[string][]Handler
}

func NewBus() *Bus {
	return &Bus{subscribers: make(map[string][]Handler)}
}

func (b *Bus) Subscribe(eventType string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], h)
}

// Publish ejecuta todos los handlers aunque alguno falle y devuelve los errores juntos.
func (b *Bus) Publish(ctx context.Context, e Event) error {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.subscribers[e.Type()]...)
	b.mu.RUnlock()

	var errs []error
	for _, h := range handlers {
		if err := h.Handle(ctx, e); err != nil {
			log.Error().Err(err).Str("event", e.Type()).Msg("error manejando evento")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
