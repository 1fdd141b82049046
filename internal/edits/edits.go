// Package edits turns a set of LSP TextEdits into a rewritten file plus a
// human-readable summary of what changed: descending sort, reverse
// apply, and a five-category change classification.
package edits

import (
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/codereef/lspbridge/internal/corerr"
	"github.com/codereef/lspbridge/internal/protocol"
)

// Result is what ApplyToFile returns: the rewritten text (even in
// preview mode, so a caller can diff it) and a human-readable per-edit
// summary.
type Result struct {
	Text     string
	Summary  []string
	Rejected []string // edits whose range fell outside the file, reported not aborted
}

// ApplyToFile applies edits to path's current content, sorted descending
// by start position and applied in that order so earlier offsets are
// unaffected by later (physically earlier) edits. When preview is false
// the result is written back to disk.
func ApplyToFile(path string, textEdits []protocol.TextEdit, preview bool) (Result, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Result{}, corerr.Wrap(corerr.IO, err, "read file for edit application").WithServer("")
	}

	res := Apply(string(content), textEdits)

	if len(res.Summary) == 0 && len(res.Rejected) == 0 {
		res.Summary = []string{"No formatting changes needed"}
	}

	if !preview {
		if err := os.WriteFile(path, []byte(res.Text), 0o644); err != nil {
			return Result{}, corerr.Wrap(corerr.IO, err, "write file after applying edits").WithServer("")
		}
	}
	return res, nil
}

// Apply is the pure text-transformation core: order-insensitive in
// input, deterministic in output.
func Apply(text string, textEdits []protocol.TextEdit) Result {
	if len(textEdits) == 0 {
		return Result{Text: text}
	}

	sorted := make([]protocol.TextEdit, len(textEdits))
	copy(sorted, textEdits)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Range.Start.Line != sorted[j].Range.Start.Line {
			return sorted[i].Range.Start.Line > sorted[j].Range.Start.Line
		}
		return sorted[i].Range.Start.Character > sorted[j].Range.Start.Character
	})

	lineEnding := "\n"
	if strings.Contains(text, "\r\n") {
		lineEnding = "\r\n"
	}
	lines := strings.Split(text, lineEnding)

	var summary []string
	var rejected []string

	for _, e := range sorted {
		if int(e.Range.Start.Line) >= len(lines) || int(e.Range.End.Line) >= len(lines) {
			rejected = append(rejected, "edit out of range at line "+strconv.Itoa(int(e.Range.Start.Line)+1))
			continue
		}

		before := sliceText(lines, e.Range.Start, e.Range.End)
		lines = applyOne(lines, e)
		summary = append(summary, classify(before, e.NewText))
	}

	return Result{Text: strings.Join(lines, lineEnding), Summary: summary, Rejected: rejected}
}

func sliceText(lines []string, start, end protocol.Position) string {
	if start.Line == end.Line {
		line := lines[start.Line]
		s, e := clampCol(line, start.Character), clampCol(line, end.Character)
		return line[s:e]
	}
	var b strings.Builder
	b.WriteString(lines[start.Line][clampCol(lines[start.Line], start.Character):])
	for l := start.Line + 1; l < end.Line; l++ {
		b.WriteString("\n")
		b.WriteString(lines[l])
	}
	b.WriteString("\n")
	b.WriteString(lines[end.Line][:clampCol(lines[end.Line], end.Character)])
	return b.String()
}

func clampCol(line string, col uint32) int {
	if int(col) > len(line) {
		return len(line)
	}
	return int(col)
}

// applyOne splices a single edit into lines, handling both the
// single-line case (splice within one line) and the multi-line case
// (splice across lines).
func applyOne(lines []string, e protocol.TextEdit) []string {
	start, end := e.Range.Start, e.Range.End

	if start.Line == end.Line {
		line := lines[start.Line]
		s, en := clampCol(line, start.Character), clampCol(line, end.Character)
		newLine := line[:s] + e.NewText + line[en:]
		replacement := strings.Split(newLine, "\n")
		out := make([]string, 0, len(lines)-1+len(replacement))
		out = append(out, lines[:start.Line]...)
		out = append(out, replacement...)
		out = append(out, lines[end.Line+1:]...)
		return out
	}

	headLine := lines[start.Line]
	tailLine := lines[end.Line]
	prefix := headLine[:clampCol(headLine, start.Character)]
	suffix := tailLine[clampCol(tailLine, end.Character):]
	replacement := strings.Split(prefix+e.NewText+suffix, "\n")

	out := make([]string, 0, len(lines)-(int(end.Line)-int(start.Line))+len(replacement))
	out = append(out, lines[:start.Line]...)
	out = append(out, replacement...)
	out = append(out, lines[end.Line+1:]...)
	return out
}

// classify labels one applied change for the human-readable summary:
// "added content", "removed content", "adjusted indentation", "modified
// content", or "multi-line edit".
func classify(before, after string) string {
	if strings.Contains(before, "\n") || strings.Contains(after, "\n") {
		return "multi-line edit"
	}
	if before == "" && after != "" {
		return "added content"
	}
	if before != "" && after == "" {
		return "removed content"
	}
	if isAllWhitespace(before) && isAllWhitespace(after) {
		return "adjusted indentation"
	}
	return "modified content"
}

func isAllWhitespace(s string) bool {
	return strings.TrimSpace(s) == ""
}
