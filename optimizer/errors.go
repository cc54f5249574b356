package optimizer

import "errors"

// ErrUnknownPass is returned by New when asked to assemble a pipeline
// containing a pass name it does not recognize.
var ErrUnknownPass = errors.New("optimizer: unknown pass")
