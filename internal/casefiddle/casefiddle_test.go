// Copyright 2023 The Rune Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package casefiddle

import "testing"

func TestUpcase(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"hello", "HELLO"},
		{"Hello World", "HELLO WORLD"},
		{"", ""},
		{"123 abc!", "123 ABC!"},
		{"straße", "STRASSE"}, // full mapping: ß expands
		{"ήρως", "ΉΡΩΣ"},
	}
	for _, c := range cases {
		if got := Upcase(c.in); got != c.want {
			t.Errorf("Upcase(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestUpcaseIgnoresGarayBlock(t *testing.T) {
	// U+10D70 and U+10D6A sit in the reserved Garay block and must
	// come back unchanged.
	for _, s := range []string{"\U00010D70", "\U00010D6A", "a\U00010D70b"} {
		want := s
		if s == "a\U00010D70b" {
			want = "A\U00010D70B"
		}
		if got := Upcase(s); got != want {
			t.Errorf("Upcase(%q) = %q, want %q", s, got, want)
		}
	}
}

func TestDowncase(t *testing.T) {
	if got := Downcase("HeLLo"); got != "hello" {
		t.Errorf("Downcase = %q", got)
	}
	if got := Downcase("\U00010D70"); got != "\U00010D70" {
		t.Errorf("Downcase of Garay rune = %q", got)
	}
}

func TestCapitalize(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"hello world", "Hello World"},
		{"hello", "Hello"},
		{"", ""},
		{"many words in a row", "Many Words In A Row"},
	}
	for _, c := range cases {
		if got := Capitalize(c.in); got != c.want {
			t.Errorf("Capitalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
