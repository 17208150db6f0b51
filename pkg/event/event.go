// Package event provides a small in-process event dispatcher.
//
// The order services fire "order.created" and "order.status_changed";
// listeners registered at boot fan them out to the websocket hub and the
// notification queue.
package event

import (
	"sync"

	"github.com/campuseats/canteen/pkg/logger"
)

// Handler is a function that receives an event payload.
type Handler func(payload interface{})

// Dispatcher routes fired events to their registered handlers. The zero
// value is not usable; construct with NewDispatcher.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[string][]Handler)}
}

// Listen registers a handler for the given event name.
func (d *Dispatcher) Listen(event string, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[event] = append(d.handlers[event], handler)
}

func (d *Dispatcher) snapshot(event string) []Handler {
	d.mu.RLock()
	defer d.mu.RUnlock()
	hs := d.handlers[event]
	if len(hs) == 0 {
		return nil
	}
	out := make([]Handler, len(hs))
	copy(out, hs)
	return out
}

// Fire dispatches an event synchronously to all registered listeners.
// A panicking listener is logged and skipped so the remaining listeners
// still run and the firing request is not torn down.
func (d *Dispatcher) Fire(event string, payload interface{}) {
	for _, h := range d.snapshot(event) {
		safeCall(event, h, payload)
	}
}

// FireAsync dispatches the event to all listeners concurrently and
// returns without waiting for them.
func (d *Dispatcher) FireAsync(event string, payload interface{}) {
	for _, h := range d.snapshot(event) {
		go safeCall(event, h, payload)
	}
}

// Flush removes all listeners. Tests use it to isolate registrations.
func (d *Dispatcher) Flush() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers = make(map[string][]Handler)
}

func safeCall(event string, h Handler, payload interface{}) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("event listener panicked", "event", event, "panic", rec)
		}
	}()
	h(payload)
}

var std = NewDispatcher()

// Listen registers a handler on the package-level dispatcher.
func Listen(event string, handler Handler) { std.Listen(event, handler) }

// Fire dispatches on the package-level dispatcher.
func Fire(event string, payload interface{}) { std.Fire(event, payload) }

// FireAsync dispatches asynchronously on the package-level dispatcher.
func FireAsync(event string, payload interface{}) { std.FireAsync(event, payload) }

// Flush clears the package-level dispatcher.
func Flush() { std.Flush() }
