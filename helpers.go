package canable

import "context"

// QueryFunc is a check bound to one action, as produced by Gate.Query.
type QueryFunc[U any] func(ctx context.Context, actor U, target any, env Env) (bool, error)

// EnforceFunc is an enforcement bound to one action, as produced by Gate.Enforcer.
type EnforceFunc[U any] func(ctx context.Context, actor U, target any, env Env) error

// Query returns a named check bound to a single action, e.g.
//
//	canView := gate.Query(canable.ActionView)
//	ok, err := canView(ctx, user, article, nil)
//
// Binding does not validate the action; an unregistered action surfaces as
// ErrUnknownAction when the bound func is called, so wrappers may be generated
// before all custom actions are registered.
func (g *Gate[U]) Query(action Action) QueryFunc[U] {
	return func(ctx context.Context, actor U, target any, env Env) (bool, error) {
		return g.Can(ctx, actor, action, target, env)
	}
}

// Enforcer returns an enforcement bound to a single action; the bound func
// behaves exactly like Authorize for that action.
func (g *Gate[U]) Enforcer(action Action) EnforceFunc[U] {
	return func(ctx context.Context, actor U, target any, env Env) error {
		return g.Authorize(ctx, actor, action, target, env)
	}
}

// Queries generates a bound check for every currently registered action,
// keyed by action. This is the explicit analogue of generating can_<action>
// helpers from the registry: call it after all custom actions are registered.
func (g *Gate[U]) Queries() map[Action]QueryFunc[U] {
	m := make(map[Action]QueryFunc[U])
	for _, a := range g.registry.Actions() {
		m[a] = g.Query(a)
	}
	return m
}
