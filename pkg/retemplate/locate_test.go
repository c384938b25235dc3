package retemplate

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOccurrences(t *testing.T) {
	tests := []struct {
		name string
		lit  string
		text string
		want []int
	}{
		{name: "single", lit: ".", text: "This is a test.", want: []int{15}},
		{name: "overlapping", lit: "aa", text: "aaa", want: []int{2, 3}},
		{name: "adjacent", lit: "ab", text: "abab", want: []int{2, 4}},
		{name: "spaces", lit: " ", text: "What a great tool!", want: []int{5, 7, 13}},
		{name: "not found", lit: "x", text: "abc", want: nil},
		{name: "longer than text", lit: "abcd", text: "abc", want: nil},
		{name: "whole text", lit: "abc", text: "abc", want: []int{3}},
		{name: "empty literal", lit: "", text: "abc", want: []int{0, 1, 2, 3}},
		{name: "empty literal empty text", lit: "", text: "", want: []int{0}},
		{name: "empty literal multibyte", lit: "", text: "héllo", want: []int{0, 1, 3, 4, 5, 6}},
		{name: "multibyte literal", lit: "é", text: "éaé", want: []int{2, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slices.Collect(occurrences(tt.lit, tt.text))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOccurrences_StopsEarly(t *testing.T) {
	var got []int
	for end := range occurrences("a", "aaaa") {
		got = append(got, end)
		if len(got) == 2 {
			break
		}
	}
	assert.Equal(t, []int{1, 2}, got)

	got = nil
	for end := range occurrences("", "abc") {
		got = append(got, end)
		break
	}
	assert.Equal(t, []int{0}, got)
}

func TestOccurrences_Reusable(t *testing.T) {
	seq := occurrences("a", "banana")
	assert.Equal(t, []int{2, 4, 6}, slices.Collect(seq))
	assert.Equal(t, []int{2, 4, 6}, slices.Collect(seq))
}

func TestFoldCase(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "ascii", in: "WHAT a Great", want: "what a great"},
		{name: "latin", in: "ÄÖÜ", want: "äöü"},
		{name: "width changing rune kept", in: "İSTANBUL", want: "İstanbul"},
		{name: "kelvin sign kept", in: "K", want: "K"},
		{name: "invalid utf8 kept", in: "\xffA", want: "\xffa"},
		{name: "replacement char", in: "�A", want: "�a"},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := foldCase(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Len(t, got, len(tt.in), "folding must preserve byte length")
		})
	}
}
