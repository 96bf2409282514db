package links

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Changes returns the links added and removed between two sorted lists,
// using a line diff over the lists.
func Changes(before, after []string) (added, removed []string) {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(joinLines(before), joinLines(after))
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lines)

	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			added = append(added, splitLines(d.Text)...)
		case diffmatchpatch.DiffDelete:
			removed = append(removed, splitLines(d.Text)...)
		}
	}
	return added, removed
}

func joinLines(links []string) string {
	if len(links) == 0 {
		return ""
	}
	return strings.Join(links, "\n") + "\n"
}

func splitLines(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
