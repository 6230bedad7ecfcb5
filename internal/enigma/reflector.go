package enigma

import "strings"

// Reflector pairs all 26 letters and sends each to its partner. It is an
// involution without fixed points.
type Reflector struct {
	name    string
	mapping map[rune]rune
}

// NewReflector builds a reflector from a table. Every letter must occur
// exactly once across 13 two-letter pairs.
func NewReflector(table ReflectorTable) (*Reflector, error) {
	component := "reflector " + table.Name

	counts := countLetters(table.Pairs)
	for i, n := range counts {
		if n != 1 {
			return nil, newConfigError(ErrCodeInvalidWiring, component,
				"character %c is expected exactly 1 time, not %d", letterAt(i), n)
		}
	}

	mapping := make(map[rune]rune, AlphabetSize)
	for _, pair := range strings.Split(table.Pairs, PairDelimiter) {
		p := []rune(pair)
		if len(p) != 2 {
			return nil, newConfigError(ErrCodePairLength, component,
				"pair %q should contain 2 characters", pair)
		}
		mapping[p[0]] = p[1]
		mapping[p[1]] = p[0]
	}
	// Pairs of non-letters add entries beyond the alphabet.
	if len(mapping) != AlphabetSize {
		return nil, newConfigError(ErrCodeInvalidWiring, component,
			"pairs cover %d characters, want %d", len(mapping), AlphabetSize)
	}

	return &Reflector{name: table.Name, mapping: mapping}, nil
}

// Reflect returns the partner of r. Characters outside Alphabet pass through.
func (rf *Reflector) Reflect(r rune) rune {
	if out, ok := rf.mapping[r]; ok {
		return out
	}
	return r
}

// Name returns the reflector table name.
func (rf *Reflector) Name() string {
	return rf.name
}
