package content

import (
	"sync"
	"time"
)

// DefinitionRegistry manages all loaded content-type definitions
type DefinitionRegistry struct {
	definitions map[string]*ContentTypeDefinition
	mutex       sync.RWMutex
	watchers    []chan DefinitionEvent
}

// DefinitionEvent represents a change in the definition registry
type DefinitionEvent struct {
	Type       EventType
	Definition *ContentTypeDefinition
	Timestamp  time.Time
}

// EventType represents the type of definition event
type EventType int

const (
	EventTypeAdded EventType = iota
	EventTypeUpdated
	EventTypeRemoved
)

func (t EventType) String() string {
	switch t {
	case EventTypeAdded:
		return "added"
	case EventTypeUpdated:
		return "updated"
	case EventTypeRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// NewDefinitionRegistry creates a new definition registry
func NewDefinitionRegistry() *DefinitionRegistry {
	return &DefinitionRegistry{
		definitions: make(map[string]*ContentTypeDefinition),
		watchers:    make([]chan DefinitionEvent, 0),
	}
}

// Register adds or updates a definition in the registry
func (r *DefinitionRegistry) Register(definition *ContentTypeDefinition) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	eventType := EventTypeAdded
	if _, exists := r.definitions[definition.Name]; exists {
		eventType = EventTypeUpdated
	}

	r.definitions[definition.Name] = definition

	r.notify(DefinitionEvent{
		Type:       eventType,
		Definition: definition,
		Timestamp:  time.Now(),
	})
}

// Get retrieves a definition by content type name
func (r *DefinitionRegistry) Get(name string) (*ContentTypeDefinition, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	definition, exists := r.definitions[name]
	return definition, exists
}

// GetAll returns all registered definitions
func (r *DefinitionRegistry) GetAll() map[string]*ContentTypeDefinition {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := make(map[string]*ContentTypeDefinition, len(r.definitions))
	for name, definition := range r.definitions {
		result[name] = definition
	}
	return result
}

// Count returns the number of registered definitions
func (r *DefinitionRegistry) Count() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.definitions)
}

// Remove removes a definition from the registry
func (r *DefinitionRegistry) Remove(name string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	definition, exists := r.definitions[name]
	if !exists {
		return
	}

	delete(r.definitions, name)

	r.notify(DefinitionEvent{
		Type:       EventTypeRemoved,
		Definition: definition,
		Timestamp:  time.Now(),
	})
}

// Replace swaps the full definition set in one step, emitting removed,
// added, and updated events relative to the previous set. Used by the
// definition watcher on reload.
func (r *DefinitionRegistry) Replace(definitions []*ContentTypeDefinition) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	next := make(map[string]*ContentTypeDefinition, len(definitions))
	for _, definition := range definitions {
		next[definition.Name] = definition
	}

	for name, old := range r.definitions {
		if _, kept := next[name]; !kept {
			r.notify(DefinitionEvent{Type: EventTypeRemoved, Definition: old, Timestamp: time.Now()})
		}
	}

	for name, definition := range next {
		eventType := EventTypeAdded
		if _, existed := r.definitions[name]; existed {
			eventType = EventTypeUpdated
		}
		r.notify(DefinitionEvent{Type: eventType, Definition: definition, Timestamp: time.Now()})
	}

	r.definitions = next
}

// Watch returns a channel that receives definition events
func (r *DefinitionRegistry) Watch() <-chan DefinitionEvent {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	ch := make(chan DefinitionEvent, 100)
	r.watchers = append(r.watchers, ch)
	return ch
}

// UnWatch removes a watcher channel and closes it
func (r *DefinitionRegistry) UnWatch(ch <-chan DefinitionEvent) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for i, watcher := range r.watchers {
		if watcher == ch {
			close(watcher)
			r.watchers = append(r.watchers[:i], r.watchers[i+1:]...)
			return
		}
	}
}

// notify must be called with the mutex held.
func (r *DefinitionRegistry) notify(event DefinitionEvent) {
	for _, watcher := range r.watchers {
		select {
		case watcher <- event:
		default:
			// Skip if channel is full
		}
	}
}
