package timeline

import "errors"

// ErrUnknownDay is returned when a day designator cannot be decoded.
var ErrUnknownDay = errors.New("unknown day designator")
