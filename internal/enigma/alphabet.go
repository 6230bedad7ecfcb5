package enigma

// Alphabet is the ordered coordinate space of every permutation.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// AlphabetSize is the number of letters in Alphabet.
const AlphabetSize = len(Alphabet)

// Index returns the position of r in Alphabet, or -1.
func Index(r rune) int {
	if r < 'A' || r > 'Z' {
		return -1
	}
	return int(r - 'A')
}

// IsLetter reports whether r belongs to Alphabet.
func IsLetter(r rune) bool {
	return Index(r) >= 0
}

// IsBlank reports whether r is whitespace the machine carries through.
// Only ASCII space, tab, newline, vertical tab, form feed and carriage
// return count.
func IsBlank(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// letterAt returns the alphabet letter at i mod AlphabetSize.
func letterAt(i int) rune {
	return rune(Alphabet[mod(i)])
}

func mod(i int) int {
	i %= AlphabetSize
	if i < 0 {
		i += AlphabetSize
	}
	return i
}

// countLetters counts each alphabet letter in s. Other runes are ignored.
func countLetters(s string) [AlphabetSize]int {
	var counts [AlphabetSize]int
	for _, r := range s {
		if i := Index(r); i >= 0 {
			counts[i]++
		}
	}
	return counts
}
