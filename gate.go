// Package canable is a small convention-based authorization library. Actions
// ("view", "update", ...) map to predicates ("viewable", "updatable", ...)
// through a registry; a resource grants or denies an action by implementing
// the matching predicate interface, a catch-all PolicyCheck, or a per-type
// DefaultPolicy. Anything a resource leaves undefined bottoms out at the
// gate's global default, so a resource with no policy code at all is still
// authorizable. The package has no dependencies on domain models and can be
// reused across different applications.
//
// The package uses generics to allow any actor type:
//   - Gate[uint] for simple user ID based auth
//   - Gate[*User] for full user struct based auth
//   - Gate[*Claims] for JWT claims based auth
package canable

import (
	"context"
	"sync"
)

// Gate resolves and enforces authorization decisions.
// U is the actor type, opaque to the gate and passed through unexamined.
//
// The gate holds the two pieces of shared configuration: the action registry
// and the global default. Both are expected to be set up during process
// startup; mutation is nevertheless guarded so a late Register or SetDefault
// cannot tear a concurrent resolution.
type Gate[U any] struct {
	registry *Registry

	mu           sync.RWMutex
	defaultAllow bool
}

// New creates a gate with a freshly seeded registry and a permissive global
// default. Example: canable.New[uint]() for userID-based authorization.
func New[U any]() *Gate[U] {
	return NewWithRegistry[U](NewRegistry())
}

// NewWithRegistry creates a gate around an existing registry, for callers that
// share one registry across gates or pre-register custom actions.
func NewWithRegistry[U any](reg *Registry) *Gate[U] {
	return &Gate[U]{registry: reg, defaultAllow: true}
}

// Registry returns the gate's action registry.
func (g *Gate[U]) Registry() *Registry { return g.registry }

// SetDefault sets the global default used when a target defines neither an
// explicit predicate, nor a catch-all, nor a per-type DefaultPolicy.
func (g *Gate[U]) SetDefault(allow bool) {
	g.mu.Lock()
	g.defaultAllow = allow
	g.mu.Unlock()
}

// Default returns the current global default.
func (g *Gate[U]) Default() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.defaultAllow
}

// Can reports whether actor may perform action on target.
//
// target may be a plain resource value, or a Target built with Instance or
// Class. Resolution order:
//
//  1. explicit predicate on the target (built-in interface, then Able)
//  2. the target's PolicyCheck catch-all
//  3. the target's DefaultPolicy, else the gate's global default
//
// Each tier is consulted at most once and the first one present decides.
// The only failure is ErrUnknownAction for an unregistered action; an absent
// hook is defined behavior, not an error.
func (g *Gate[U]) Can(ctx context.Context, actor U, action Action, target any, env Env) (bool, error) {
	predicate, err := g.registry.Predicate(action)
	if err != nil {
		return false, err
	}
	val := asTarget(target).Value()

	if allowed, ok := g.explicit(ctx, actor, predicate, val, env); ok {
		return allowed, nil
	}
	if pc, ok := val.(PolicyChecker[U]); ok {
		return pc.PolicyCheck(ctx, actor, predicate, env), nil
	}
	if d, ok := val.(Defaulter); ok {
		return d.DefaultPolicy(predicate), nil
	}
	return g.Default(), nil
}

// explicit looks for a resource-defined predicate: the dedicated interface for
// the four built-in predicates first, then the Able hook for anything else
// (including custom registered predicates). Reports ok=false when the target
// defines no explicit check for this predicate.
func (g *Gate[U]) explicit(ctx context.Context, actor U, predicate Predicate, val any, env Env) (allowed, ok bool) {
	switch predicate {
	case PredicateViewable:
		if v, ok := val.(Viewable[U]); ok {
			return v.ViewableBy(ctx, actor, env), true
		}
	case PredicateCreatable:
		if c, ok := val.(Creatable[U]); ok {
			return c.CreatableBy(ctx, actor, env), true
		}
	case PredicateUpdatable:
		if u, ok := val.(Updatable[U]); ok {
			return u.UpdatableBy(ctx, actor, env), true
		}
	case PredicateDestroyable:
		if d, ok := val.(Destroyable[U]); ok {
			return d.DestroyableBy(ctx, actor, env), true
		}
	}
	if a, ok := val.(Able[U]); ok {
		if allowed, defined := a.AbleBy(ctx, actor, predicate, env); defined {
			return allowed, true
		}
	}
	return false, false
}

// Authorize enforces the decision: it evaluates Can exactly once and returns
// nil when permitted, a *Transgression carrying the action and target when
// denied, or ErrUnknownAction for an unregistered action.
func (g *Gate[U]) Authorize(ctx context.Context, actor U, action Action, target any, env Env) error {
	allowed, err := g.Can(ctx, actor, action, target, env)
	if err != nil {
		return err
	}
	if !allowed {
		return &Transgression{Action: action, Target: asTarget(target).Value()}
	}
	return nil
}
