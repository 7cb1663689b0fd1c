// Package event is a synchronous in-process event dispatcher.
//
//	event.Listen("order.created", func(ctx context.Context, p interface{}) {
//	    order := p.(models.Order)
//	    ...
//	})
//	event.Fire(ctx, "order.created", order)
package event

import (
	"context"
	"fmt"
	"sync"

	"github.com/shashiranjanraj/kashvi-crm/pkg/logger"
)

// Handler receives an event payload together with the context of the
// operation that fired it.
type Handler func(ctx context.Context, payload interface{})

var (
	mu       sync.RWMutex
	handlers = map[string][]Handler{}
)

// Listen registers a handler for the given event name.
func Listen(name string, handler Handler) {
	mu.Lock()
	defer mu.Unlock()
	handlers[name] = append(handlers[name], handler)
}

// Fire dispatches an event to all listeners in registration order. A
// panicking listener is logged and does not stop the others.
func Fire(ctx context.Context, name string, payload interface{}) {
	mu.RLock()
	hs := make([]Handler, len(handlers[name]))
	copy(hs, handlers[name])
	mu.RUnlock()

	for _, h := range hs {
		dispatch(ctx, name, h, payload)
	}
}

func dispatch(ctx context.Context, name string, h Handler, payload interface{}) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithCtx(ctx).Error("event: listener panicked", "event", name, "error", fmt.Sprint(r))
		}
	}()
	h(ctx, payload)
}

// Flush removes all listeners (useful in tests).
func Flush() {
	mu.Lock()
	defer mu.Unlock()
	handlers = map[string][]Handler{}
}
