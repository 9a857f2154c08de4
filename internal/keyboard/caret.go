package keyboard

import "unicode/utf8"

// UTF16ToRunes converts a browser selection offset, counted in UTF-16 code
// units, into the rune offset Insert works with.
func UTF16ToRunes(s string, units int) int {
	n := 0
	for _, r := range s {
		if units <= 0 {
			break
		}
		units -= utf16Len(r)
		n++
	}
	return n
}

// RunesToUTF16 is the inverse of UTF16ToRunes.
func RunesToUTF16(s string, runes int) int {
	units := 0
	for _, r := range s {
		if runes <= 0 {
			break
		}
		units += utf16Len(r)
		runes--
	}
	return units
}

func utf16Len(r rune) int {
	if r >= 0x10000 && r <= utf8.MaxRune {
		return 2
	}
	return 1
}
