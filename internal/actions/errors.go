package actions

import (
	"errors"
	"fmt"
)

var (
	ErrUnrecognizedAction = errors.New("unrecognized action")
	ErrNoHandler          = errors.New("no handler registered for action")
	ErrUnexpectedKind     = errors.New("handler does not accept action")
)

func unexpectedKind(h Handler, k Kind) error {
	return fmt.Errorf("%w: %s cannot handle %s", ErrUnexpectedKind, h.Description(), k)
}
