package tokenizer

import (
	"fmt"

	"github.com/dlclark/regexp2"
)

// DefaultPretokenizer is the GPT-2 byte-level split pattern, e.g.
// https://github.com/huggingface/tokenizers/blob/main/tokenizers/src/pre_tokenizers/byte_level.rs#L44
const DefaultPretokenizer = `'s|'t|'re|'ve|'m|'ll|'d| ?\p{L}+| ?\p{N}+| ?[^\s\p{L}\p{N}]+|\s+(?!\S)|\s+`

// Pretokenizer splits raw text into the word units that seed the
// vocabulary store.
type Pretokenizer struct {
	re *regexp2.Regexp
}

func NewPretokenizer(pattern string) (*Pretokenizer, error) {
	if pattern == "" {
		pattern = DefaultPretokenizer
	}

	re, err := regexp2.Compile(pattern, regexp2.Unicode|regexp2.RE2)
	if err != nil {
		return nil, fmt.Errorf("compile pretokenizer: %w", err)
	}

	return &Pretokenizer{re: re}, nil
}

// Split returns the ordered word units of s.
func (p *Pretokenizer) Split(s string) ([]string, error) {
	var words []string
	m, err := p.re.FindStringMatch(s)
	if err != nil {
		return nil, err
	}
	for m != nil {
		words = append(words, m.String())
		m, err = p.re.FindNextMatch(m)
		if err != nil {
			return nil, err
		}
	}
	return words, nil
}

// Decompose splits a word into its initial symbols, one per codepoint.
// Merges coalesce these symbols; the byte content never changes.
func Decompose(word string) []string {
	symbols := make([]string, 0, len(word))
	for _, r := range word {
		symbols = append(symbols, string(r))
	}
	return symbols
}
