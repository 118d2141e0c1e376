package session

import (
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/conftree/conftree/internal/document"
)

// Diff returns a patch-format diff of the pending edits: baseline
// serialization against the current tree, both at the configured indent.
// Returns "" when nothing differs.
func (s *Session) Diff() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.valid {
		return ""
	}

	before := string(append(document.Serialize(s.baseline, s.opts.Indent), '\n'))
	after := string(append(document.Serialize(s.doc, s.opts.Indent), '\n'))
	if before == after {
		return ""
	}

	dmp := diffmatchpatch.New()
	a, b, lineArray := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	patches := dmp.PatchMake(before, diffs)
	return dmp.PatchToText(patches)
}
