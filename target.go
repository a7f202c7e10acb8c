package canable

// Target is the subject being authorized: either a resource instance or a
// class-level descriptor standing in for the whole resource type. Both scopes
// dispatch identically — hooks are looked up on the wrapped value — but the tag
// keeps call sites explicit about what they are authorizing, and lets a type
// expose type-wide policy (e.g., "may this user list articles at all?") through
// a plain descriptor value instead of reflection.
type Target struct {
	value any
	class bool
}

// Instance wraps a resource instance as a target.
func Instance(v any) Target { return Target{value: v} }

// Class wraps a type descriptor as a class-level target.
func Class(v any) Target { return Target{value: v, class: true} }

// Value returns the wrapped instance or descriptor.
func (t Target) Value() any { return t.value }

// IsClass reports whether the target is class-scoped.
func (t Target) IsClass() bool { return t.class }

// asTarget normalizes a raw value passed to Can/Authorize: a Target passes
// through unchanged, anything else is treated as an instance.
func asTarget(v any) Target {
	if t, ok := v.(Target); ok {
		return t
	}
	return Instance(v)
}
