package diff

// BuildHunks groups an edit script into hunks. Two change blocks separated
// by an equal run shorter than 2*contextLen lines are merged into one hunk
// with the equal run kept as internal context; otherwise each hunk carries
// up to contextLen lines of context on each side, fewer at file edges.
// contextLen of 0 yields hunks of changed lines only.
func BuildHunks(edits []Edit, contextLen int) []*Hunk {
	if contextLen < 0 {
		contextLen = 0
	}

	// 1-based starting line numbers of every edit on each side.
	startOld := make([]int, len(edits)+1)
	startNew := make([]int, len(edits)+1)
	oldLine, newLine := 1, 1
	for i, e := range edits {
		startOld[i], startNew[i] = oldLine, newLine
		switch e.Op {
		case OpEqual:
			oldLine += len(e.Lines)
			newLine += len(e.Lines)
		case OpDelete:
			oldLine += len(e.Lines)
		case OpInsert:
			newLine += len(e.Lines)
		}
	}
	startOld[len(edits)], startNew[len(edits)] = oldLine, newLine

	var hunks []*Hunk
	i := 0
	for i < len(edits) {
		if edits[i].Op == OpEqual {
			i++
			continue
		}

		// Extend the group across short internal equal runs that still have
		// changes after them.
		first := i
		last := i
		j := i + 1
		for j < len(edits) {
			if edits[j].Op != OpEqual {
				last = j
				j++
				continue
			}
			if len(edits[j].Lines) < 2*contextLen && hasChangeAfter(edits, j) {
				j++
				continue
			}
			break
		}

		hunks = append(hunks, buildHunk(edits, startOld, startNew, first, last, contextLen))
		i = last + 1
	}
	return hunks
}

func hasChangeAfter(edits []Edit, i int) bool {
	for _, e := range edits[i+1:] {
		if e.Op != OpEqual {
			return true
		}
	}
	return false
}

// buildHunk assembles one hunk from edits[first..last] plus leading and
// trailing context taken from the neighboring equal runs.
func buildHunk(edits []Edit, startOld, startNew []int, first, last, contextLen int) *Hunk {
	var lead, trail []string
	if first > 0 && edits[first-1].Op == OpEqual {
		prev := edits[first-1].Lines
		n := min(contextLen, len(prev))
		lead = prev[len(prev)-n:]
	}
	if last+1 < len(edits) && edits[last+1].Op == OpEqual {
		next := edits[last+1].Lines
		trail = next[:min(contextLen, len(next))]
	}

	h := &Hunk{}
	for _, text := range lead {
		h.Lines = append(h.Lines, Line{Origin: LineContext, Text: text})
	}
	for _, e := range edits[first : last+1] {
		origin := LineContext
		switch e.Op {
		case OpInsert:
			origin = LineAdded
		case OpDelete:
			origin = LineDeleted
		}
		for _, text := range e.Lines {
			h.Lines = append(h.Lines, Line{Origin: origin, Text: text})
		}
	}
	for _, text := range trail {
		h.Lines = append(h.Lines, Line{Origin: LineContext, Text: text})
	}

	oldCount, newCount := 0, 0
	for _, ln := range h.Lines {
		if ln.Origin != LineAdded {
			oldCount++
		}
		if ln.Origin != LineDeleted {
			newCount++
		}
	}

	h.OldSpan = Span{Start: startOld[first] - len(lead), Lines: oldCount}
	h.NewSpan = Span{Start: startNew[first] - len(lead), Lines: newCount}
	// Unified diff convention: an empty span names the line before the gap.
	if oldCount == 0 {
		h.OldSpan.Start = startOld[first] - 1
	}
	if newCount == 0 {
		h.NewSpan.Start = startNew[first] - 1
	}
	return h
}
