package retemplate

import (
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"
)

// occurrences yields the end offset of every occurrence of lit in text,
// in ascending order. Overlapping occurrences are included: the search
// resumes one byte after the start of the previous match, so "aa" in
// "aaa" ends at 2 and 3.
//
// An empty literal occurs at every rune boundary, 0 and len(text) included.
func occurrences(lit, text string) iter.Seq[int] {
	return func(yield func(int) bool) {
		if lit == "" {
			for i := range text {
				if !yield(i) {
					return
				}
			}
			yield(len(text))
			return
		}

		for from := 0; from+len(lit) <= len(text); {
			i := strings.Index(text[from:], lit)
			if i < 0 {
				return
			}
			start := from + i
			if !yield(start + len(lit)) {
				return
			}
			from = start + 1
		}
	}
}

// foldCase lower-cases s rune by rune for case-insensitive search.
// A rune whose lower-case form has a different UTF-8 width is kept as-is,
// so every byte offset in the result is a valid offset in s.
func foldCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		lower := unicode.ToLower(r)
		if r == utf8.RuneError || utf8.RuneLen(lower) != size {
			b.WriteString(s[i : i+size])
		} else {
			b.WriteRune(lower)
		}
		i += size
	}
	return b.String()
}
