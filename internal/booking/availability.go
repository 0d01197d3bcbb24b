// Package booking holds pure helpers for seat selection shared by the
// booking handlers. Persistence-side enforcement lives in the
// repository layer; these functions only normalize and classify
// requested seats so handlers can report precise conflicts.
package booking

// Dedupe returns the input seat IDs with zeros and duplicates removed,
// preserving first-seen order.
func Dedupe(ids []uint64) []uint64 {
	out := make([]uint64, 0, len(ids))
	seen := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Partition splits the requested seats into those free to book and
// those already held, given the set of seats taken by active
// bookings. Order of the requested slice is preserved in both halves.
func Partition(requested []uint64, taken map[uint64]struct{}) (available, conflicted []uint64) {
	available = make([]uint64, 0, len(requested))
	conflicted = make([]uint64, 0)
	for _, id := range requested {
		if _, held := taken[id]; held {
			conflicted = append(conflicted, id)
		} else {
			available = append(available, id)
		}
	}
	return available, conflicted
}
