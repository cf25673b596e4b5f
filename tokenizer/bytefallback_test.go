package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByteToken(t *testing.T) {
	assert.Equal(t, "<0x00>", ByteToken(0))
	assert.Equal(t, "<0x41>", ByteToken('A'))
	assert.Equal(t, "<0xFF>", ByteToken(255))
}

func TestByteFallbackRoundTrip(t *testing.T) {
	fallback, err := NewByteFallback()
	require.NoError(t, err)

	for i := 0; i < 256; i++ {
		b := byte(i)
		got, ok := fallback.Decode(fallback.Token(b))
		require.True(t, ok, "byte 0x%02X has no token", b)
		require.Equal(t, b, got)
	}
}

func TestByteFallbackConcatenation(t *testing.T) {
	fallback, err := NewByteFallback()
	require.NoError(t, err)

	data := []byte("héllo\x00\xff wörld")
	tokens := fallback.Encode(data)
	require.Len(t, tokens, len(data))

	got, err := fallback.DecodeAll(tokens)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestByteFallbackUnknownToken(t *testing.T) {
	fallback, err := NewByteFallback()
	require.NoError(t, err)

	_, ok := fallback.Decode("<0x100>")
	assert.False(t, ok)

	_, err = fallback.DecodeAll([]string{"<0x41>", "not-a-token"})
	assert.Error(t, err)
}
