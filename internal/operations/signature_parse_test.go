package operations

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSignatureLabel_SimpleFunction(t *testing.T) {
	got := ParseSignatureLabel("foo(a: string, b?: number = 1): void")
	assert.Equal(t, "void", got.ReturnType)
	assert.Equal(t, []ParsedParameter{
		{Name: "a", Type: "string"},
		{Name: "b", Optional: true, Type: "number", Default: "1"},
	}, got.Parameters)
}

func TestParseSignatureLabel_ArrowReturn(t *testing.T) {
	got := ParseSignatureLabel("bar(x: number) => number")
	assert.Equal(t, "number", got.ReturnType)
	require := got.Parameters
	assert.Len(t, require, 1)
	assert.Equal(t, "x", require[0].Name)
}

func TestParseSignatureLabel_NestedGenericsNotSplit(t *testing.T) {
	got := ParseSignatureLabel("baz(a: Map<string, number>, b: Array<{x: number, y: number}>): void")
	assert.Len(t, got.Parameters, 2)
	assert.Equal(t, "a", got.Parameters[0].Name)
	assert.Equal(t, "Map<string, number>", got.Parameters[0].Type)
	assert.Equal(t, "b", got.Parameters[1].Name)
	assert.Equal(t, "Array<{x: number, y: number}>", got.Parameters[1].Type)
}

func TestParseSignatureLabel_NoParens(t *testing.T) {
	got := ParseSignatureLabel("field: string")
	assert.Empty(t, got.Parameters)
}

func TestMatchingParen(t *testing.T) {
	assert.Equal(t, 8, matchingParen("foo(a, b)", 3))
	assert.Equal(t, -1, matchingParen("foo(a, b", 3))
	assert.Equal(t, -1, matchingParen("foo(a, b)", -1))
}

func TestSplitParameters_RespectsNesting(t *testing.T) {
	parts := splitParameters("a: Map<string, number>, b: number")
	assert.Equal(t, []string{"a: Map<string, number>", " b: number"}, parts)
}
