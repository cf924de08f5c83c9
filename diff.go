package goloc

// DiffResult represents the difference between two snapshots of a document's
// translatable units. It tells a dictionary maintainer which hashes need new
// entries after the source page changed.
type DiffResult struct {
	// Added contains units that are new (not in the previous snapshot).
	Added []TextNode

	// Removed contains units that disappeared from the new snapshot.
	Removed []TextNode

	// Unchanged contains units present in both snapshots.
	Unchanged []TextNode

	// Modified contains pairs where the text changed but position or context
	// suggests the same element.
	Modified []ModifiedNode
}

// ModifiedNode represents a unit whose text was modified in place.
type ModifiedNode struct {
	Old TextNode
	New TextNode
}

// DiffStats contains summary statistics for a diff.
type DiffStats struct {
	Added     int
	Removed   int
	Unchanged int
	Modified  int
}

// Stats returns summary statistics for the diff.
func (d *DiffResult) Stats() DiffStats {
	return DiffStats{
		Added:     len(d.Added),
		Removed:   len(d.Removed),
		Unchanged: len(d.Unchanged),
		Modified:  len(d.Modified),
	}
}

// HasChanges returns true if there are any differences.
func (d *DiffResult) HasChanges() bool {
	return len(d.Added) > 0 || len(d.Removed) > 0 || len(d.Modified) > 0
}

// NeedsTranslation returns the units requiring new dictionary entries:
// added units plus the new side of modified units.
func (d *DiffResult) NeedsTranslation() []TextNode {
	result := make([]TextNode, 0, len(d.Added)+len(d.Modified))
	result = append(result, d.Added...)
	for _, m := range d.Modified {
		result = append(result, m.New)
	}
	return result
}

// Diff compares two unit snapshots by hash.
func Diff(oldNodes, newNodes []TextNode) *DiffResult {
	result := &DiffResult{}

	oldByHash := make(map[string]TextNode)
	newByHash := make(map[string]TextNode)
	for _, node := range oldNodes {
		oldByHash[node.Hash] = node
	}
	for _, node := range newNodes {
		newByHash[node.Hash] = node
	}

	for hash, oldNode := range oldByHash {
		if _, exists := newByHash[hash]; exists {
			result.Unchanged = append(result.Unchanged, oldNode)
		} else {
			result.Removed = append(result.Removed, oldNode)
		}
	}
	for hash, newNode := range newByHash {
		if _, exists := oldByHash[hash]; !exists {
			result.Added = append(result.Added, newNode)
		}
	}

	return result
}

// DiffWithContext performs a diff that additionally detects modified units:
// a removed and an added unit sharing a position ID or context are treated
// as one modification.
func DiffWithContext(oldNodes, newNodes []TextNode) *DiffResult {
	result := Diff(oldNodes, newNodes)

	if len(result.Added) == 0 || len(result.Removed) == 0 {
		return result
	}

	addedMatched := make(map[int]bool)
	removedMatched := make(map[int]bool)

	for ri, removed := range result.Removed {
		for ai, added := range result.Added {
			if addedMatched[ai] {
				continue
			}

			// Same position in the document, or same surrounding context.
			if removed.ID == added.ID || (removed.Context != "" && removed.Context == added.Context) {
				result.Modified = append(result.Modified, ModifiedNode{
					Old: removed,
					New: added,
				})
				addedMatched[ai] = true
				removedMatched[ri] = true
				break
			}
		}
	}

	var added []TextNode
	for i, node := range result.Added {
		if !addedMatched[i] {
			added = append(added, node)
		}
	}
	result.Added = added

	var removed []TextNode
	for i, node := range result.Removed {
		if !removedMatched[i] {
			removed = append(removed, node)
		}
	}
	result.Removed = removed

	return result
}
