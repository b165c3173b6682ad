// Package events provides the in-process event dispatcher used by local
// deployments and tests. Handlers run to completion before the next
// dispatch, matching the cooperative scheduling the orchestration relies
// on.
package events

import (
	"fmt"
	"sync"

	"github.com/cyphera/gator-permissions/internal/interfaces"
)

type bindingKey struct {
	interfaceID string
	elementName string
	eventType   interfaces.EventType
}

// MemoryDispatcher routes events by (interface handle, element name,
// event type). Each key is exclusively owned: double-binding is an error,
// as is unbinding a key that was never bound.
type MemoryDispatcher struct {
	mu       sync.Mutex
	handlers map[bindingKey]interfaces.EventHandler
}

// NewMemoryDispatcher creates an empty dispatcher
func NewMemoryDispatcher() *MemoryDispatcher {
	return &MemoryDispatcher{handlers: make(map[bindingKey]interfaces.EventHandler)}
}

// On registers a handler for one routing key
func (d *MemoryDispatcher) On(interfaceID, elementName string, eventType interfaces.EventType, handler interfaces.EventHandler) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	key := bindingKey{interfaceID, elementName, eventType}
	if _, exists := d.handlers[key]; exists {
		return fmt.Errorf("handler already bound for %s/%s/%s", interfaceID, elementName, eventType)
	}
	d.handlers[key] = handler
	return nil
}

// Off removes the handler for one routing key
func (d *MemoryDispatcher) Off(interfaceID, elementName string, eventType interfaces.EventType) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	key := bindingKey{interfaceID, elementName, eventType}
	if _, exists := d.handlers[key]; !exists {
		return fmt.Errorf("no handler bound for %s/%s/%s", interfaceID, elementName, eventType)
	}
	delete(d.handlers, key)
	return nil
}

// Dispatch delivers one event synchronously to its bound handler
func (d *MemoryDispatcher) Dispatch(interfaceID, elementName string, eventType interfaces.EventType, value string) error {
	d.mu.Lock()
	handler, exists := d.handlers[bindingKey{interfaceID, elementName, eventType}]
	d.mu.Unlock()

	if !exists {
		return fmt.Errorf("no handler bound for %s/%s/%s", interfaceID, elementName, eventType)
	}
	return handler(interfaces.Event{Type: eventType, ElementName: elementName, Value: value})
}

// HandlerCount reports the number of live bindings
func (d *MemoryDispatcher) HandlerCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.handlers)
}
