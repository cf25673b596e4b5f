package tokenizer

import (
	"reflect"
	"testing"
)

func TestPretokenizerSplit(t *testing.T) {
	pre, err := NewPretokenizer("")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "basic splitting",
			input: "Hello World!",
			want:  []string{"Hello", " World", "!"},
		},
		{
			name:  "contractions",
			input: "I'm low",
			want:  []string{"I", "'m", " low"},
		},
		{
			name:  "numbers",
			input: "In 2024",
			want:  []string{"In", " 2024"},
		},
		{
			name:  "multiple spaces",
			input: "Hello    World",
			want:  []string{"Hello", "   ", " World"},
		},
		{
			name:  "empty string",
			input: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := pre.Split(tt.input)
			if err != nil {
				t.Fatalf("Split() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Split() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPretokenizerInvalidPattern(t *testing.T) {
	if _, err := NewPretokenizer(`(`); err == nil {
		t.Fatal("expected error for unbalanced pattern")
	}
}

func TestDecompose(t *testing.T) {
	tests := []struct {
		word string
		want []string
	}{
		{word: "low", want: []string{"l", "o", "w"}},
		{word: "héllo", want: []string{"h", "é", "l", "l", "o"}},
		{word: " cat", want: []string{" ", "c", "a", "t"}},
		{word: "", want: []string{}},
	}

	for _, tt := range tests {
		if got := Decompose(tt.word); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Decompose(%q) = %q, want %q", tt.word, got, tt.want)
		}
	}
}
