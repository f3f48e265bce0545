package injection

import "unicode/utf8"

// hasSmuggledRunes reports whether the command contains characters used to
// hide content from human review: zero-width characters, bidirectional
// overrides, Unicode tag characters, or unsafe control characters. Tab,
// newline, and carriage return are the only permitted controls.
func hasSmuggledRunes(s string) bool {
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			return true
		}
		if isZeroWidth(r) || isBidiOverride(r) || isTagChar(r) || isUnsafeControl(r) {
			return true
		}
		i += size
	}
	return false
}

func isZeroWidth(r rune) bool {
	switch r {
	case 0x200B, 0x200C, 0x200D, 0x2060, 0xFEFF, 0x00AD:
		return true
	}
	return false
}

func isBidiOverride(r rune) bool {
	switch r {
	case 0x202A, 0x202B, 0x202C, 0x202D, 0x202E,
		0x2066, 0x2067, 0x2068, 0x2069:
		return true
	}
	return false
}

func isTagChar(r rune) bool {
	return r >= 0xE0000 && r <= 0xE007F
}

func isUnsafeControl(r rune) bool {
	if r == '\t' || r == '\n' || r == '\r' {
		return false
	}
	return r < 0x20 || r == 0x7F
}
