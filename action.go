package canable

import (
	"fmt"
	"sync"
)

// Action names an operation being authorized (e.g., "view", "update").
type Action string

// Predicate is the name of the boolean check a resource implements to answer
// whether an action is permitted. Each registered Action maps to exactly one
// Predicate (e.g., "view" -> "viewable").
type Predicate string

// Built-in actions and their predicates, registered by NewRegistry.
const (
	ActionView    Action = "view"
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionDestroy Action = "destroy"

	PredicateViewable    Predicate = "viewable"
	PredicateCreatable   Predicate = "creatable"
	PredicateUpdatable   Predicate = "updatable"
	PredicateDestroyable Predicate = "destroyable"
)

// Registry maps actions to predicates. It is shared configuration, not
// per-request state: register custom actions during startup, before concurrent
// resolution begins. Registration is still safe at any point; the lock only
// guarantees readers never observe a torn mapping.
type Registry struct {
	mu         sync.RWMutex
	predicates map[Action]Predicate
}

// NewRegistry creates a registry seeded with the four built-in actions.
func NewRegistry() *Registry {
	return &Registry{predicates: map[Action]Predicate{
		ActionView:    PredicateViewable,
		ActionCreate:  PredicateCreatable,
		ActionUpdate:  PredicateUpdatable,
		ActionDestroy: PredicateDestroyable,
	}}
}

// Register stores the action -> predicate mapping.
// Registering the same action twice overwrites the mapping; last write wins.
func (r *Registry) Register(action Action, predicate Predicate) {
	r.mu.Lock()
	r.predicates[action] = predicate
	r.mu.Unlock()
}

// Predicate returns the predicate registered for action, or ErrUnknownAction
// if the action was never registered.
func (r *Registry) Predicate(action Action) (Predicate, error) {
	r.mu.RLock()
	p, ok := r.predicates[action]
	r.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("canable: action %q: %w", action, ErrUnknownAction)
	}
	return p, nil
}

// Actions returns a snapshot of all registered actions.
// Useful for generating per-action wrapper functions at startup.
func (r *Registry) Actions() []Action {
	r.mu.RLock()
	defer r.mu.RUnlock()
	actions := make([]Action, 0, len(r.predicates))
	for a := range r.predicates {
		actions = append(actions, a)
	}
	return actions
}
