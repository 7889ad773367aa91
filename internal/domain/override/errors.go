package override

import "errors"

// Override domain errors
var (
	ErrOverrideNotFound = errors.New("override not found")
)
