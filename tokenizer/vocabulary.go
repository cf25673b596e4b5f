package tokenizer

import "sync"

// Token kinds carried on persisted vocabulary records.
const (
	TokenNormal int32 = iota + 1
	TokenByte
)

// Vocabulary is the trained symbol table: every distinct symbol that
// existed at any point during training, mapped to a stable integer id.
// Values is authoritative; the reverse map is built lazily.
type Vocabulary struct {
	Values []string
	Types  []int32
	Freqs  []int

	valuesOnce sync.Once
	values     map[string]int32
}

// Encode returns the id for a symbol, or -1 if it is unknown.
func (v *Vocabulary) Encode(s string) int32 {
	v.valuesOnce.Do(func() {
		v.values = make(map[string]int32, len(v.Values))
		for i, value := range v.Values {
			v.values[value] = int32(i)
		}
	})

	if id, ok := v.values[s]; ok {
		return id
	}
	return -1
}

// Decode returns the symbol for an id.
func (v *Vocabulary) Decode(id int32) string {
	return v.Values[id]
}

// Size reports the number of symbols.
func (v *Vocabulary) Size() int {
	return len(v.Values)
}
