package tokenizer

import (
	"fmt"

	"github.com/teleprint-me/altbpe/hashtable"
)

// ByteFallback maps every raw byte value to a canonical placeholder
// token and back, so any byte is representable even without a learned
// merge. The map is built once and never mutated.
type ByteFallback struct {
	tokens [256]string
	table  *hashtable.Table[byte]
}

// ByteToken formats the placeholder token for a byte value, "<0x00>"
// through "<0xFF>".
func ByteToken(b byte) string {
	return fmt.Sprintf("<0x%02X>", b)
}

// NewByteFallback builds the bijective table for all 256 byte values.
// Construction is all-or-nothing: a gap would break the round-trip
// guarantee, so any failed insertion discards the whole map.
func NewByteFallback() (*ByteFallback, error) {
	table, err := hashtable.New[byte](256)
	if err != nil {
		return nil, err
	}

	f := &ByteFallback{table: table}
	for i := 0; i < 256; i++ {
		token := ByteToken(byte(i))
		f.tokens[i] = token
		if err := table.Set([]byte(token), byte(i)); err != nil {
			return nil, fmt.Errorf("byte fallback %q: %w", token, err)
		}
	}
	return f, nil
}

// Encode returns the placeholder token for each byte of data.
func (f *ByteFallback) Encode(data []byte) []string {
	tokens := make([]string, len(data))
	for i, b := range data {
		tokens[i] = f.tokens[b]
	}
	return tokens
}

// Token returns the placeholder token for a single byte value.
func (f *ByteFallback) Token(b byte) string {
	return f.tokens[b]
}

// Decode returns the byte value for a placeholder token.
func (f *ByteFallback) Decode(token string) (byte, bool) {
	return f.table.Get([]byte(token))
}

// DecodeAll converts a token sequence back into bytes, failing on the
// first token that is not a placeholder.
func (f *ByteFallback) DecodeAll(tokens []string) ([]byte, error) {
	data := make([]byte, len(tokens))
	for i, token := range tokens {
		b, ok := f.Decode(token)
		if !ok {
			return nil, fmt.Errorf("not a byte token: %q", token)
		}
		data[i] = b
	}
	return data, nil
}
