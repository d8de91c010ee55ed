package markup

import (
	"bytes"
	"sort"
)

// Edit replaces the text covered by Range with Text. Insertions have an empty
// range.
type Edit struct {
	Range Range
	Text  string
}

func Replace(r Range, text string) Edit {
	return Edit{Range: r, Text: text}
}

func InsertAfter(r Range, text string) Edit {
	return Edit{Range: Range{r.End, r.End}, Text: text}
}

// Applies edits to src in order of position. An edit that overlaps or touches
// one that was already applied is skipped, callers can lint the result again
// to pick it up on another pass. Returns the new source and the number of
// edits that were applied.
func Apply(src []byte, edits []Edit) ([]byte, int) {
	sorted := make([]Edit, len(edits))
	copy(sorted, edits)

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Range.Start != sorted[j].Range.Start {
			return sorted[i].Range.Start < sorted[j].Range.Start
		}
		return sorted[i].Range.End < sorted[j].Range.End
	})

	var out bytes.Buffer
	applied := 0
	last := 0

	for _, e := range sorted {
		r := e.Range

		if r.Start < 0 || r.End > len(src) || r.Start > r.End {
			continue
		}

		if applied > 0 && r.Start <= last {
			continue
		}

		out.Write(src[last:r.Start])
		out.WriteString(e.Text)
		last = r.End
		applied++
	}

	out.Write(src[last:])
	return out.Bytes(), applied
}
