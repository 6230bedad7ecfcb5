package enigma

import "strings"

const (
	// PlugboardPairs is the number of cables a configured plugboard carries.
	PlugboardPairs = 10

	// PairDelimiter separates pairs in plugboard and reflector specs.
	PairDelimiter = ":"
)

// Plugboard is a symmetric, partial letter swap applied on the way into and
// out of the rotor stack. Letters without a cable map to themselves.
type Plugboard struct {
	pairs   []string
	mapping map[rune]rune
}

// NewPlugboard parses a spec such as "IR:HQ:NT:WZ:VC:OY:GP:LF:BX:AK".
// An empty spec yields a plugboard without cables. Otherwise the spec must
// hold exactly PlugboardPairs two-letter pairs with no letter repeated.
func NewPlugboard(spec string) (*Plugboard, error) {
	pb := &Plugboard{mapping: make(map[rune]rune)}
	if spec == "" {
		return pb, nil
	}

	counts := countLetters(spec)
	for i, n := range counts {
		if n > 1 {
			return nil, newConfigError(ErrCodeDuplicateLetter, "plugboard",
				"character %c is expected 0 or 1 time, not %d", letterAt(i), n)
		}
	}

	pairs := strings.Split(spec, PairDelimiter)
	if len(pairs) != PlugboardPairs {
		return nil, newConfigError(ErrCodePairCount, "plugboard",
			"plugboard accepts exactly %d pairs, got %d", PlugboardPairs, len(pairs))
	}

	for _, pair := range pairs {
		p := []rune(pair)
		if len(p) != 2 {
			return nil, newConfigError(ErrCodePairLength, "plugboard",
				"pair %q should contain 2 characters", pair)
		}
		for _, r := range p {
			if !IsLetter(r) {
				return nil, newConfigError(ErrCodeInvalidLetter, "plugboard",
					"pair %q contains %q, outside %s", pair, r, Alphabet)
			}
		}
		pb.mapping[p[0]] = p[1]
		pb.mapping[p[1]] = p[0]
	}
	pb.pairs = pairs

	return pb, nil
}

// Substitute returns the partner of r, or r when it has no cable.
func (p *Plugboard) Substitute(r rune) rune {
	if out, ok := p.mapping[r]; ok {
		return out
	}
	return r
}

// Pairs returns the configured pairs in spec order.
func (p *Plugboard) Pairs() []string {
	out := make([]string, len(p.pairs))
	copy(out, p.pairs)
	return out
}

// String returns the plugboard spec.
func (p *Plugboard) String() string {
	return strings.Join(p.pairs, PairDelimiter)
}
