package profile

import "errors"

// Profile error kinds, per the error handling design: malformed
// profiles are rejected at load time with a descriptive error, never
// silently dropped.
var (
	ErrProfileNotFound     = errors.New("profile: not found")
	ErrProfileMalformed    = errors.New("profile: malformed")
	ErrProfileCycle        = errors.New("profile: cyclic parent reference")
	ErrDuplicateIdentifier = errors.New("profile: duplicate identifier")
)
