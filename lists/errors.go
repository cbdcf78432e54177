package lists

import "fmt"

var (
	// ErrNotFound covers every "the list, index, or pivot is not there"
	// outcome: missing meta, a stale meta, an empty list, an out-of-range
	// index, or a pivot that never matched. Callers that only check
	// errors.Is(err, ErrNotFound) see all of them the same way.
	ErrNotFound = addPrefix("no such list, index, or pivot")

	// ErrStale wraps ErrNotFound so callers that want to tell "genuinely
	// absent" apart from "expired" can still fall back to the shared check.
	ErrStale = fmt.Errorf("%w: stale", ErrNotFound)

	ErrCorruptMeta = addPrefix("corrupt meta record")
)

func addPrefix(msg string) error {
	return fmt.Errorf("lists: %s", msg)
}
