package canable

import "context"

// Env carries optional call-time context from the call site through every
// layer to the final predicate. The gate never reads or mutates it; it is
// opaque pass-through data. May be nil.
type Env map[string]any

// The four built-in predicate interfaces. A resource (or class descriptor)
// implements any subset of these to define explicit policy for the seeded
// actions. An explicit predicate always wins over PolicyChecker and the
// default chain.
//
// U is the actor type the Gate was instantiated with.
type (
	// Viewable answers the "viewable" predicate (the "view" action).
	Viewable[U any] interface {
		ViewableBy(ctx context.Context, actor U, env Env) bool
	}

	// Creatable answers the "creatable" predicate (the "create" action).
	Creatable[U any] interface {
		CreatableBy(ctx context.Context, actor U, env Env) bool
	}

	// Updatable answers the "updatable" predicate (the "update" action).
	Updatable[U any] interface {
		UpdatableBy(ctx context.Context, actor U, env Env) bool
	}

	// Destroyable answers the "destroyable" predicate (the "destroy" action).
	Destroyable[U any] interface {
		DestroyableBy(ctx context.Context, actor U, env Env) bool
	}
)

// Able defines explicit predicates for arbitrary actions, including custom
// ones registered after startup. AbleBy reports (result, true) when the
// resource defines a check for the named predicate, and (_, false) to decline,
// in which case resolution falls through to the catch-all and default chain.
// Declining is never an error; a partially implemented resource degrades to
// the defaults rather than failing callers.
type Able[U any] interface {
	AbleBy(ctx context.Context, actor U, predicate Predicate, env Env) (allowed, ok bool)
}

// PolicyChecker is a per-type catch-all consulted when no explicit predicate
// is defined. It sees the predicate name, so one implementation covers every
// action on the type.
//
// A type that defines PolicyCheck owns its whole fallback: the gate does not
// consult DefaultPolicy after it. By convention an implementation that wants
// the default for unhandled predicates calls its own DefaultPolicy itself.
type PolicyChecker[U any] interface {
	PolicyCheck(ctx context.Context, actor U, predicate Predicate, env Env) bool
}

// Defaulter overrides the gate's global default per type. It receives only the
// predicate name, so one override can cover several actions with shared
// semantics (allow only "viewable" and "updatable", deny the rest).
type Defaulter interface {
	DefaultPolicy(predicate Predicate) bool
}
