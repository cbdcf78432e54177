package model

import "errors"

// ErrShortHeader is returned when a record header can't be fully read,
// which happens at the tail of a file truncated by a crash.
var ErrShortHeader = errors.New("blackwidow: short record header")
