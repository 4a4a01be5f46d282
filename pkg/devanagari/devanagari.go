// Package devanagari decides whether a token is a phonetically well-formed
// Devanagari word. The rules are purely code-point based: no dictionary
// lookup, no morphology. They match the validation used by the lekhika
// input method engine, so words accepted here are words the engine can
// suggest.
package devanagari

// Code-point ranges of the Devanagari Unicode block (U+0900–U+097F).
// Kept as named constants so each rule in IsValidWord is auditable.
const (
	BlockStart rune = 0x0900
	BlockEnd   rune = 0x097F

	IndependentVowelStart rune = 0x0904
	IndependentVowelEnd   rune = 0x0914

	ConsonantStart rune = 0x0915
	ConsonantEnd   rune = 0x0939

	DependentVowelSignStart rune = 0x093E
	DependentVowelSignEnd   rune = 0x094C

	// Halant (virama) suppresses the inherent vowel of a consonant.
	Halant rune = 0x094D

	// Om is the sacred-syllable symbol, valid word-initially.
	Om rune = 0x0950
)

// InBlock reports whether r lies in the Devanagari block.
func InBlock(r rune) bool {
	return r >= BlockStart && r <= BlockEnd
}

// IsIndependentVowel reports whether r is a standalone vowel letter.
func IsIndependentVowel(r rune) bool {
	return r >= IndependentVowelStart && r <= IndependentVowelEnd
}

// IsConsonant reports whether r is a consonant letter.
func IsConsonant(r rune) bool {
	return r >= ConsonantStart && r <= ConsonantEnd
}

// IsDependentVowelSign reports whether r is a combining vowel mark.
func IsDependentVowelSign(r rune) bool {
	return r >= DependentVowelSignStart && r <= DependentVowelSignEnd
}

// IsValidWord reports whether word is a well-formed Devanagari word.
//
// The rules, applied in order:
//  1. at least two characters;
//  2. every character inside the Devanagari block;
//  3. must not end with a halant, since a word cannot stop on a bare
//     consonant stem;
//  4. must start with a consonant, an independent vowel, or Om, never
//     with a combining mark;
//  5. an independent vowel may only appear as the first character, which
//     also rejects halant-plus-independent-vowel sequences.
func IsValidWord(word string) bool {
	runes := []rune(word)
	if len(runes) < 2 {
		return false
	}

	for _, r := range runes {
		if !InBlock(r) {
			return false
		}
	}

	if runes[len(runes)-1] == Halant {
		return false
	}

	first := runes[0]
	if !IsConsonant(first) && !IsIndependentVowel(first) && first != Om {
		return false
	}

	for _, r := range runes[1:] {
		if IsIndependentVowel(r) {
			return false
		}
	}

	return true
}
