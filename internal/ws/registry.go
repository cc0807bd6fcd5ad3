package ws

import (
	"fmt"
	"sync"
)

// Registry maps event names to handlers.
type Registry struct {
	handlers map[string]HandlerFunc
	mu       sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]HandlerFunc),
	}
}

func (r *Registry) Register(event string, handler HandlerFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[event]; exists {
		return fmt.Errorf("event %q already registered", event)
	}
	r.handlers[event] = handler
	return nil
}

func (r *Registry) Get(event string) (HandlerFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.handlers[event]
	return h, ok
}
