package insight

import "errors"

// ErrNotFound marks an unknown product handle or a tenant with no cached
// review data. Insufficient data for trend analysis is not an error; it is
// a typed result variant.
var ErrNotFound = errors.New("no review data found")
