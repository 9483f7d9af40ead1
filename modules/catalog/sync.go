package catalog

// DiffIDs computes the set difference between the stored category links of a
// product and the desired set. Returned slices hold the ids to insert and the
// ids to remove; links present in both sets are left untouched. Duplicate ids
// in either input collapse to a single entry.
func DiffIDs(current, desired []uint) (adds, removes []uint) {
	currentSet := make(map[uint]bool, len(current))
	for _, id := range current {
		currentSet[id] = true
	}

	desiredSet := make(map[uint]bool, len(desired))
	for _, id := range desired {
		if desiredSet[id] {
			continue
		}
		desiredSet[id] = true
		if !currentSet[id] {
			adds = append(adds, id)
		}
	}

	for _, id := range current {
		if currentSet[id] && !desiredSet[id] {
			removes = append(removes, id)
			currentSet[id] = false
		}
	}
	return adds, removes
}
