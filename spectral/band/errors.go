package band

import "errors"

// ErrInvalidBand indicates a malformed or Nyquist-violating band ladder.
// Resolve wraps it with the offending band and values.
var ErrInvalidBand = errors.New("band: invalid band definition")
