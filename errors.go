package canable

import (
	"errors"
	"fmt"
)

// ErrUnknownAction is returned when resolution is requested for an action that
// was never registered. Treat it as a configuration bug, not a denial.
var ErrUnknownAction = errors.New("unknown action")

// Transgression is the denial signal returned by Gate.Authorize when the
// resolved policy is false. It carries the attempted action and target so the
// caller can translate the denial (e.g., into an access-denied response).
type Transgression struct {
	Action Action
	Target any
}

func (t *Transgression) Error() string {
	return fmt.Sprintf("canable: action %q denied", t.Action)
}

// AsTransgression unwraps err into a *Transgression if it is one.
func AsTransgression(err error) (*Transgression, bool) {
	var t *Transgression
	if errors.As(err, &t) {
		return t, true
	}
	return nil, false
}
