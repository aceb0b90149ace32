package tapchanger

import (
	"errors"
	"fmt"
)

// ErrInvariant is matched by every InvariantError.
var ErrInvariant = errors.New("broken tap changer invariant")

// InvariantError reports a state the interpretation stage should never
// produce. It is not caused by bad input data.
type InvariantError struct {
	// TapChangerIDs lists the tap changers involved, when known.
	TapChangerIDs []string
	Reason        string
}

func (e *InvariantError) Error() string {
	if len(e.TapChangerIDs) == 0 {
		return fmt.Sprintf("%s: %s", ErrInvariant, e.Reason)
	}

	return fmt.Sprintf("%s: %s %v", ErrInvariant, e.Reason, e.TapChangerIDs)
}

// Is makes errors.Is(err, ErrInvariant) hold.
func (e *InvariantError) Is(target error) bool {
	return target == ErrInvariant
}

func invariantf(id, format string, args ...any) *InvariantError {
	e := &InvariantError{Reason: fmt.Sprintf(format, args...)}
	if id != "" {
		e.TapChangerIDs = []string{id}
	}

	return e
}
