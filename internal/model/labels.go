package model

import (
	"strings"
	"unicode"
)

// DefaultLabeler turns a document key into a sentence-case label:
// "actionHandlers" becomes "Action handlers", "view_name" becomes "View name".
// Runs of capitals are kept as acronyms ("dynamicID" is "Dynamic ID").
func DefaultLabeler(name string) string {
	words := splitWords(name)
	if len(words) == 0 {
		return ""
	}
	for i, word := range words {
		switch {
		case isAcronym(word):
		case i == 0:
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		default:
			words[i] = strings.ToLower(word)
		}
	}
	return strings.Join(words, " ")
}

// splitWords breaks name on separators and lower-to-upper transitions.
func splitWords(name string) []string {
	var (
		words   []string
		current []rune
	)
	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = current[:0]
		}
	}
	runes := []rune(name)
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || unicode.IsSpace(r):
			flush()
			continue
		case i > 0 && unicode.IsUpper(r) && unicode.IsLower(runes[i-1]):
			flush()
		case i > 0 && unicode.IsUpper(r) && i+1 < len(runes) && unicode.IsUpper(runes[i-1]) && unicode.IsLower(runes[i+1]):
			flush()
		}
		current = append(current, r)
	}
	flush()
	return words
}

func isAcronym(word string) bool {
	if len([]rune(word)) < 2 {
		return false
	}
	for _, r := range word {
		if !unicode.IsUpper(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
