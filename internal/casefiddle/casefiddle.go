// Copyright 2023 The Rune Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package casefiddle implements string case conversion for the
// built-in case functions.
package casefiddle

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Code points in the Garay block pass through every conversion
// unchanged: Unicode assigns them case mappings that Emacs does not
// support yet.
const (
	garayLo = 0x10D40
	garayHi = 0x10D8F
)

func isGaray(r rune) bool { return r >= garayLo && r <= garayHi }

// Upcase returns s with every character converted to upper case,
// using full case mapping (one character may expand to several).
func Upcase(s string) string {
	return mapExceptGaray(s, cases.Upper(language.Und))
}

// Downcase returns s with every character converted to lower case.
func Downcase(s string) string {
	return mapExceptGaray(s, cases.Lower(language.Und))
}

// Capitalize returns s with the first character of each word
// title-cased.
func Capitalize(s string) string {
	return mapExceptGaray(s, cases.Title(language.Und))
}

// UpcaseChar converts a single character with simple (one-to-one)
// case mapping, as the character variants of the case functions do.
func UpcaseChar(r rune) rune {
	if isGaray(r) {
		return r
	}
	return unicode.ToUpper(r)
}

// DowncaseChar is the character counterpart of Downcase.
func DowncaseChar(r rune) rune {
	if isGaray(r) {
		return r
	}
	return unicode.ToLower(r)
}

// CapitalizeChar title-cases a single character.
func CapitalizeChar(r rune) rune {
	if isGaray(r) {
		return r
	}
	return unicode.ToTitle(r)
}

// mapExceptGaray feeds maximal Garay-free segments through the caser
// and copies Garay runes verbatim.
func mapExceptGaray(s string, c cases.Caser) string {
	if !strings.ContainsFunc(s, isGaray) {
		return c.String(s)
	}
	var sb strings.Builder
	seg := 0
	for i, r := range s {
		if !isGaray(r) {
			continue
		}
		if seg < i {
			sb.WriteString(c.String(s[seg:i]))
		}
		sb.WriteRune(r)
		seg = i + len(string(r))
	}
	if seg < len(s) {
		sb.WriteString(c.String(s[seg:]))
	}
	return sb.String()
}
