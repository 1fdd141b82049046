package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeNFC_ComposesDecomposedForm(t *testing.T) {
	decomposed := "é" // "e" + combining acute accent
	got := NormalizeNFC(decomposed)
	assert.Equal(t, "é", got) // precomposed "é"
}

func TestUTF16Len_ASCII(t *testing.T) {
	n, err := UTF16Len("hello")
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestUTF16Len_SurrogatePair(t *testing.T) {
	n, err := UTF16Len("\U0001F600") // emoji, one surrogate pair
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestFoldCase(t *testing.T) {
	assert.Equal(t, FoldCase("HELLO"), FoldCase("hello"))
}

func TestEqualFold(t *testing.T) {
	assert.True(t, EqualFold("FooBar", "foobar"))
	assert.False(t, EqualFold("FooBar", "foobaz"))
}
