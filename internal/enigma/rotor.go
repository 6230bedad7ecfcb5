package enigma

// Rotor is a rotating substitution element. Its wiring rotates one detent per
// Step; its offset is an additive key fixed at construction.
type Rotor struct {
	table  RotorTable
	wiring []rune // current rotation of table.Wiring
	offset int
}

// NewRotor builds a rotor from a table and an initial position offset in
// [0, AlphabetSize).
func NewRotor(table RotorTable, offset int) (*Rotor, error) {
	component := table.component()

	wiring := []rune(table.Wiring)
	counts := countLetters(table.Wiring)
	for i, n := range counts {
		if n != 1 {
			return nil, newConfigError(ErrCodeInvalidWiring, component,
				"character %c is expected exactly 1 time, not %d", letterAt(i), n)
		}
	}
	if len(wiring) != AlphabetSize {
		return nil, newConfigError(ErrCodeInvalidWiring, component,
			"wiring has %d characters, want %d", len(wiring), AlphabetSize)
	}

	if Index(table.Notch) <= 0 {
		return nil, newConfigError(ErrCodeInvalidNotch, component,
			"notch %q should be B to Z", table.Notch)
	}

	if offset < 0 || offset >= AlphabetSize {
		return nil, newConfigError(ErrCodeInvalidPosition, component,
			"initial position %d should be 0 to %d", offset, AlphabetSize-1)
	}

	return &Rotor{table: table, wiring: wiring, offset: offset}, nil
}

// Forward substitutes c on its way towards the reflector.
func (r *Rotor) Forward(c rune) rune {
	i := Index(c)
	if i < 0 {
		return c
	}
	return r.wiring[mod(i+r.offset)]
}

// Backward substitutes c on its way back from the reflector. It inverts
// Forward for the same rotation state.
func (r *Rotor) Backward(c rune) rune {
	i := r.wiringIndex(c)
	if i < 0 {
		return c
	}
	return letterAt(i - r.offset)
}

// Step rotates the wiring by one detent: the last letter moves to the front.
func (r *Rotor) Step() {
	last := r.wiring[len(r.wiring)-1]
	copy(r.wiring[1:], r.wiring[:len(r.wiring)-1])
	r.wiring[0] = last
}

// NotchIndex returns the position of the notch letter in the current wiring.
func (r *Rotor) NotchIndex() int {
	return r.wiringIndex(r.table.Notch)
}

// SameConfiguration reports whether both rotors come from the same wiring
// and notch, whatever their offsets or rotation states.
func (r *Rotor) SameConfiguration(other *Rotor) bool {
	return r.table.Wiring == other.table.Wiring && r.table.Notch == other.table.Notch
}

// Table returns the table the rotor was built from.
func (r *Rotor) Table() RotorTable {
	return r.table
}

// Offset returns the initial position offset.
func (r *Rotor) Offset() int {
	return r.offset
}

// Wiring returns the current rotation of the wiring.
func (r *Rotor) Wiring() string {
	return string(r.wiring)
}

func (r *Rotor) wiringIndex(c rune) int {
	for i, w := range r.wiring {
		if w == c {
			return i
		}
	}
	return -1
}
