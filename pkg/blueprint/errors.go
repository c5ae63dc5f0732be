package blueprint

import "errors"

var (
	ErrInvalidBlueprint = errors.New("invalid blueprint")
	ErrUnknownFunc      = errors.New("unknown function")
)
