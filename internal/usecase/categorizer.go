package usecase

import (
	"regexp"
	"strings"
)

var nonLetterRegex = regexp.MustCompile(`[^a-z]+`)

// Categorize assigns a grocery category from keywords in an item name.
// Unknown items default to pantry staples.
func Categorize(name string) string {
	words := strings.Fields(nonLetterRegex.ReplaceAllString(strings.ToLower(name), " "))
	if len(words) == 0 {
		return CategoryPantry
	}
	padded := " " + strings.Join(words, " ") + " "

	// Phrases first so "peanut butter" is not filed under dairy
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(kw, " ") && strings.Contains(padded, " "+kw+" ") {
				return rule.category
			}
		}
	}

	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(kw, " ") {
				continue
			}
			for _, word := range words {
				if matchesKeyword(word, kw) {
					return rule.category
				}
			}
		}
	}

	return CategoryPantry
}

// matchesKeyword accepts the keyword itself or its simple plural
func matchesKeyword(word, keyword string) bool {
	return word == keyword || word == keyword+"s" || word == keyword+"es"
}

// categoryWords collects every single-word category keyword
func categoryWords() map[string]bool {
	words := make(map[string]bool)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if !strings.Contains(kw, " ") {
				words[kw] = true
			}
		}
	}
	return words
}

var knownCategoryWords = categoryWords()

// isProductWord reports whether a lowercase letters-only token names a product
func isProductWord(token string) bool {
	if token == "" {
		return false
	}
	if productKeywords[token] || knownCategoryWords[token] {
		return true
	}
	if _, ok := abbreviations[token]; ok {
		return true
	}
	for _, suffix := range []string{"es", "s"} {
		if stem := strings.TrimSuffix(token, suffix); stem != token {
			if productKeywords[stem] || knownCategoryWords[stem] {
				return true
			}
		}
	}
	return false
}
