package edits

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codereef/lspbridge/internal/protocol"
)

func rng(sl, sc, el, ec uint32) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: sl, Character: sc},
		End:   protocol.Position{Line: el, Character: ec},
	}
}

func TestApply_SingleLineReplace(t *testing.T) {
	text := "Hello World\nThis is a test\nWorld again"
	res := Apply(text, []protocol.TextEdit{
		{Range: rng(0, 6, 0, 11), NewText: "Universe"},
	})
	assert.Equal(t, "Hello Universe\nThis is a test\nWorld again", res.Text)
	assert.Equal(t, []string{"modified content"}, res.Summary)
	assert.Empty(t, res.Rejected)
}

func TestApply_DescendingOrderIndependentOfInputOrder(t *testing.T) {
	text := "aaa\nbbb\nccc"
	forward := Apply(text, []protocol.TextEdit{
		{Range: rng(0, 0, 0, 3), NewText: "AAA"},
		{Range: rng(2, 0, 2, 3), NewText: "CCC"},
	})
	backward := Apply(text, []protocol.TextEdit{
		{Range: rng(2, 0, 2, 3), NewText: "CCC"},
		{Range: rng(0, 0, 0, 3), NewText: "AAA"},
	})
	assert.Equal(t, "AAA\nbbb\nCCC", forward.Text)
	assert.Equal(t, forward.Text, backward.Text)
}

func TestApply_MultiLineEdit(t *testing.T) {
	text := "one\ntwo\nthree\nfour"
	res := Apply(text, []protocol.TextEdit{
		{Range: rng(1, 0, 2, 5), NewText: "REPLACED"},
	})
	assert.Equal(t, "one\nREPLACED\nfour", res.Text)
	assert.Equal(t, []string{"multi-line edit"}, res.Summary)
}

func TestApply_AddedAndRemovedContent(t *testing.T) {
	text := "keep\n\nkeep"
	res := Apply(text, []protocol.TextEdit{
		{Range: rng(1, 0, 1, 0), NewText: "new"},
	})
	assert.Equal(t, []string{"added content"}, res.Summary)

	text2 := "keep\nremoveme\nkeep"
	res2 := Apply(text2, []protocol.TextEdit{
		{Range: rng(1, 0, 1, len("removeme")), NewText: ""},
	})
	assert.Equal(t, []string{"removed content"}, res2.Summary)
}

func TestApply_IndentationAdjustment(t *testing.T) {
	text := "  indented"
	res := Apply(text, []protocol.TextEdit{
		{Range: rng(0, 0, 0, 2), NewText: "    "},
	})
	assert.Equal(t, []string{"adjusted indentation"}, res.Summary)
}

func TestApply_EmptyEditsNeedsNoChangeMessage(t *testing.T) {
	res := Apply("unchanged", nil)
	assert.Equal(t, "unchanged", res.Text)
	assert.Empty(t, res.Summary)
}

func TestApply_OutOfRangeEditIsRejectedNotFatal(t *testing.T) {
	text := "only one line"
	res := Apply(text, []protocol.TextEdit{
		{Range: rng(5, 0, 5, 1), NewText: "x"},
		{Range: rng(0, 0, 0, 4), NewText: "ONLY"},
	})
	assert.Equal(t, "ONLY one line", res.Text)
	require.Len(t, res.Rejected, 1)
	assert.Contains(t, res.Rejected[0], "out of range")
}

func TestApplyToFile_WritesAndPreviews(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(path, []byte("Hello World"), 0o644))

	preview, err := ApplyToFile(path, []protocol.TextEdit{{Range: rng(0, 6, 0, 11), NewText: "Go"}}, true)
	require.NoError(t, err)
	assert.Equal(t, "Hello Go", preview.Text)
	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Hello World", string(onDisk), "preview must not write to disk")

	applied, err := ApplyToFile(path, []protocol.TextEdit{{Range: rng(0, 6, 0, 11), NewText: "Go"}}, false)
	require.NoError(t, err)
	assert.Equal(t, "Hello Go", applied.Text)
	onDisk, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Hello Go", string(onDisk))
}

func TestApplyToFile_NoEditsReportsNoChangeNeeded(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(path, []byte("same"), 0o644))

	res, err := ApplyToFile(path, nil, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"No formatting changes needed"}, res.Summary)
}
