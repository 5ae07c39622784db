// Package tokenize splits identifiers into their camel-case words.
package tokenize

import "unicode"

// Split splits an identifier at camel-case boundaries. The returned words
// concatenate back to identifier exactly.
//
// A boundary falls between a lowercase and an uppercase letter, or before
// the last letter of an uppercase run that is followed by a lowercase
// letter:
//
//	"sampleCamelCase" -> ["sample", "Camel", "Case"]
//	"XMLParser"       -> ["XML", "Parser"]
//	"my_varName"      -> ["my_var", "Name"]
//	"get2Name"        -> ["get2Name"]
//
// Identifiers shorter than two runes are returned as a single word.
func Split(identifier string) []string {
	runes := []rune(identifier)
	if len(runes) < 2 {
		return []string{identifier}
	}

	var words []string
	start := 0
	for i := 1; i < len(runes); i++ {
		if !isBoundary(runes, i) {
			continue
		}
		words = append(words, string(runes[start:i]))
		start = i
	}
	return append(words, string(runes[start:]))
}

// isBoundary reports whether a word starts at runes[i].
func isBoundary(runes []rune, i int) bool {
	prev, cur := runes[i-1], runes[i]
	switch {
	case unicode.IsLower(prev) && unicode.IsUpper(cur):
		return true
	case unicode.IsUpper(prev) && unicode.IsUpper(cur):
		return i+1 < len(runes) && unicode.IsLower(runes[i+1])
	}
	return false
}

// IsTitle reports whether word is title-cased: uppercase letters only follow
// uncased characters, lowercase letters only follow cased ones, and at least
// one letter is cased. "Parser" and "Get2Name" are title-cased, "XML" and
// "get" are not.
func IsTitle(word string) bool {
	var cased, prevCased bool
	for _, r := range word {
		switch {
		case unicode.IsUpper(r) || unicode.IsTitle(r):
			if prevCased {
				return false
			}
			prevCased, cased = true, true
		case unicode.IsLower(r):
			if !prevCased {
				return false
			}
			prevCased, cased = true, true
		default:
			prevCased = false
		}
	}
	return cased
}
