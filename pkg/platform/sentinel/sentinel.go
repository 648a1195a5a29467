package sentinel

import "errors"

// Sentinel errors for storage facts. In-memory stores return these (optionally
// wrapped) and the registry translates them into coded domain errors:
//   - ErrNotFound: no entity under the requested key
//   - ErrAlreadyUsed: the key (national id, license, doctor slot) is taken
//   - ErrUnavailable: the store cannot serve the request right now
//
// Validation failures are not sentinels; they use pkg/domain-errors directly.
var (
	ErrNotFound    = errors.New("not found")
	ErrAlreadyUsed = errors.New("already used")
	ErrUnavailable = errors.New("unavailable")
)
