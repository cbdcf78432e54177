package lists

// sentinelMid is the midpoint a fresh list's window is seeded from: far
// enough from either 64-bit edge that ordinary growth in either direction
// never reaches it. left starts one below mid, right starts at mid, so the
// first LPUSH lands at mid-1 and the first RPUSH lands at mid.
const sentinelMid = uint64(1) << 63

func sentinelLeft() uint64  { return sentinelMid - 1 }
func sentinelRight() uint64 { return sentinelMid }

// toPhysical converts a Redis-style signed index into a physical index
// against the current window bounds: non-negative indices count forward
// from left, negative indices count backward from right.
func toPhysical(left, right uint64, i int64) uint64 {
	if i >= 0 {
		return left + 1 + uint64(i)
	}
	return right - uint64(-i)
}

// clampRange converts an inclusive [start, stop] range to physical bounds
// and clamps it to the live window (left, right). empty is true when the
// range is empty after conversion (start > stop), in which case lo/hi are
// meaningless.
func clampRange(left, right uint64, start, stop int64) (lo, hi uint64, empty bool) {
	lo = toPhysical(left, right, start)
	hi = toPhysical(left, right, stop)
	if lo > hi {
		return 0, 0, true
	}
	if lo <= left {
		lo = left + 1
	}
	if hi >= right {
		hi = right - 1
	}
	return lo, hi, false
}
