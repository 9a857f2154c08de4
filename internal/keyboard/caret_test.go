package keyboard

import "testing"

func TestCaretOffsets(t *testing.T) {
	tests := []struct {
		text  string
		units int
		runes int
	}{
		{"abc", 2, 2},
		{"αβγ", 3, 3},
		{"a𝑥b", 3, 2},
		{"a𝑥b", 4, 3},
		{"", 5, 0},
	}
	for _, tc := range tests {
		if got := UTF16ToRunes(tc.text, tc.units); got != tc.runes {
			t.Fatalf("UTF16ToRunes(%q, %d): got %d want %d", tc.text, tc.units, got, tc.runes)
		}
	}
	if got := RunesToUTF16("a𝑥b", 2); got != 3 {
		t.Fatalf("RunesToUTF16: got %d want 3", got)
	}
	if got := RunesToUTF16("ab", 9); got != 2 {
		t.Fatalf("RunesToUTF16 past end: got %d want 2", got)
	}
}
