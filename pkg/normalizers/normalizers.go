// Package normalizers provides text normalization shared by attribute
// matching and search query generation
package normalizers

import (
	"regexp"
	"strings"
	"unicode"
)

// Normalizer is a function that normalizes a string value
type Normalizer func(string) string

// registry holds all registered normalizers
var registry = make(map[string]Normalizer)

func init() {
	// Register built-in normalizers
	Register("lowercase", Lowercase)
	Register("trim", Trim)
	Register("digits_only", DigitsOnly)
	Register("alphanumeric", Alphanumeric)
	Register("remove_punctuation", RemovePunctuation)
	Register("ntitle", NormalizeTitle)
	Register("nbrand", NormalizeBrand)
}

// Register adds a normalizer to the registry
func Register(name string, fn Normalizer) {
	registry[name] = fn
}

// Get retrieves a normalizer by name
func Get(name string) (Normalizer, bool) {
	fn, ok := registry[name]
	return fn, ok
}

// Apply applies a named normalizer to a value
func Apply(value, normalizer string) string {
	fn, ok := registry[normalizer]
	if !ok {
		return value
	}
	return fn(value)
}

// ApplyChain applies multiple normalizers in sequence
func ApplyChain(value string, normalizers ...string) string {
	result := value
	for _, name := range normalizers {
		result = Apply(result, name)
	}
	return result
}

// noiseWords are filler tokens dropped from titles before comparison
var noiseWords = map[string]struct{}{
	"for": {}, "with": {}, "and": {}, "the": {}, "a": {}, "an": {},
	"in": {}, "on": {}, "at": {}, "by": {}, "of": {}, "to": {}, "from": {},
}

var nonWordRe = regexp.MustCompile(`[^\w\s]`)

// Built-in normalizers

// Lowercase converts string to lowercase
func Lowercase(s string) string {
	return strings.ToLower(s)
}

// Trim removes leading and trailing whitespace
func Trim(s string) string {
	return strings.TrimSpace(s)
}

// DigitsOnly keeps only digit characters
func DigitsOnly(s string) string {
	var result strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// Alphanumeric keeps only alphanumeric characters
func Alphanumeric(s string) string {
	var result strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// RemovePunctuation removes all punctuation characters
func RemovePunctuation(s string) string {
	var result strings.Builder
	for _, r := range s {
		if !unicode.IsPunct(r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// NormalizeTitle cleans a product title for comparison:
// lowercase, non-word characters replaced with spaces, whitespace collapsed,
// tokens of length <= 2 and noise words dropped. Idempotent.
func NormalizeTitle(title string) string {
	normalized := nonWordRe.ReplaceAllString(strings.ToLower(title), " ")

	words := make([]string, 0, 8)
	for _, w := range strings.Fields(normalized) {
		if len(w) <= 2 {
			continue
		}
		if _, noisy := noiseWords[w]; noisy {
			continue
		}
		words = append(words, w)
	}

	return strings.Join(words, " ")
}

// NormalizeBrand cleans a brand string for comparison
func NormalizeBrand(brand string) string {
	return strings.ToLower(strings.TrimSpace(brand))
}

// Tokenize splits normalized text into its whitespace-delimited tokens
func Tokenize(text string) []string {
	return strings.Fields(text)
}

// TokenSet returns the set of tokens in normalized text
func TokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, t := range strings.Fields(text) {
		set[t] = struct{}{}
	}
	return set
}

// TitleTokens normalizes a raw title and returns its token set
func TitleTokens(title string) map[string]struct{} {
	return TokenSet(NormalizeTitle(title))
}

// MeaningfulWords returns up to limit tokens from a normalized title,
// preserving order. Used to build concise search queries from long titles.
func MeaningfulWords(title string, limit int) []string {
	words := Tokenize(NormalizeTitle(title))
	if limit > 0 && len(words) > limit {
		words = words[:limit]
	}
	return words
}
