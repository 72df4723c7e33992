package types

import "errors"

// ErrUnknownWord is returned when decoding a closed vocabulary value that
// has no entry.
var ErrUnknownWord = errors.New("unknown vocabulary word")
