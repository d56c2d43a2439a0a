package runtime

// PatchKeyedChildren brings the host children of container from c1's shape to
// c2's shape with the minimal number of physical moves. Five phases: sync
// from the start, sync from the end, pure mounts, pure unmounts, then the
// general unknown-middle case where moves are minimized with a longest
// increasing subsequence over the old-index mapping.
//
// Duplicate keys within one list are a caller bug (last wins); keyless nodes
// pair positionally.
func (r *Renderer) PatchKeyedChildren(c1, c2 []*VNode, container, parentAnchor HostNode) {
	i := 0
	e1 := len(c1) - 1
	e2 := len(c2) - 1

	// 1. sync from start
	for i <= e1 && i <= e2 {
		if !isSameVNodeType(c1[i], c2[i]) {
			break
		}
		r.patch(c1[i], c2[i], container, parentAnchor)
		i++
	}

	// 2. sync from end
	for i <= e1 && i <= e2 {
		if !isSameVNodeType(c1[e1], c2[e2]) {
			break
		}
		r.patch(c1[e1], c2[e2], container, parentAnchor)
		e1--
		e2--
	}

	if i > e1 {
		// 3. old exhausted: remaining new nodes are pure mounts
		if i <= e2 {
			anchor := parentAnchor
			if e2+1 < len(c2) {
				anchor = c2[e2+1].El
			}
			for ; i <= e2; i++ {
				r.patch(nil, c2[i], container, anchor)
			}
		}
		return
	}

	if i > e2 {
		// 4. new exhausted: remaining old nodes are pure unmounts
		for ; i <= e1; i++ {
			r.unmount(c1[i])
		}
		return
	}

	// 5. unknown middle sequence
	s1, s2 := i, i

	keyToNewIndexMap := make(map[any]int, e2-s2+1)
	for j := s2; j <= e2; j++ {
		if c2[j].Key != nil {
			keyToNewIndexMap[c2[j].Key] = j
		}
	}

	toBePatched := e2 - s2 + 1
	patched := 0
	// 0 means "no old counterpart": a fresh mount.
	newIndexToOldIndexMap := make([]int, toBePatched)

	moved := false
	maxNewIndexSoFar := 0

	for j := s1; j <= e1; j++ {
		prevChild := c1[j]
		if patched >= toBePatched {
			r.unmount(prevChild)
			continue
		}
		newIndex := -1
		if prevChild.Key != nil {
			if idx, ok := keyToNewIndexMap[prevChild.Key]; ok {
				newIndex = idx
			}
		} else {
			for k := s2; k <= e2; k++ {
				if newIndexToOldIndexMap[k-s2] == 0 && isSameVNodeType(prevChild, c2[k]) {
					newIndex = k
					break
				}
			}
		}
		if newIndex == -1 {
			r.unmount(prevChild)
			continue
		}
		newIndexToOldIndexMap[newIndex-s2] = j + 1
		if newIndex >= maxNewIndexSoFar {
			maxNewIndexSoFar = newIndex
		} else {
			moved = true
		}
		r.patch(prevChild, c2[newIndex], container, parentAnchor)
		patched++
	}

	var lis []int
	if moved {
		lis = longestIncreasingSubsequence(newIndexToOldIndexMap)
	}
	j := len(lis) - 1

	// walk backwards so each node can anchor on its already-placed right
	// neighbor
	for k := toBePatched - 1; k >= 0; k-- {
		nextIndex := s2 + k
		nextChild := c2[nextIndex]
		anchor := parentAnchor
		if nextIndex+1 < len(c2) {
			anchor = c2[nextIndex+1].El
		}
		if newIndexToOldIndexMap[k] == 0 {
			r.patch(nil, nextChild, container, anchor)
			continue
		}
		if moved {
			if j < 0 || k != lis[j] {
				r.move(nextChild, container, anchor)
			} else {
				j--
			}
		}
	}
}

// longestIncreasingSubsequence returns the indices of one longest strictly
// increasing subsequence of arr, ignoring 0 entries (the fresh-mount
// sentinel). O(n log n) with predecessor backtracking.
func longestIncreasingSubsequence(arr []int) []int {
	p := make([]int, len(arr))
	result := []int{}
	for i, v := range arr {
		if v == 0 {
			continue
		}
		if len(result) == 0 || arr[result[len(result)-1]] < v {
			if len(result) > 0 {
				p[i] = result[len(result)-1]
			} else {
				p[i] = -1
			}
			result = append(result, i)
			continue
		}
		// binary search for the first tail >= v
		lo, hi := 0, len(result)-1
		for lo < hi {
			mid := (lo + hi) / 2
			if arr[result[mid]] < v {
				lo = mid + 1
			} else {
				hi = mid
			}
		}
		if arr[result[lo]] > v {
			if lo > 0 {
				p[i] = result[lo-1]
			} else {
				p[i] = -1
			}
			result[lo] = i
		}
	}
	if len(result) == 0 {
		return nil
	}

	// backtrack through predecessors
	out := make([]int, len(result))
	idx := result[len(result)-1]
	for k := len(result) - 1; k >= 0; k-- {
		out[k] = idx
		idx = p[idx]
	}
	return out
}
