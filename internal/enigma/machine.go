package enigma

import (
	"fmt"
	"strings"
	"unicode"
)

// Rotor slots, indexing Machine.rotors.
const (
	SlotLeft = iota
	SlotMiddle
	SlotRight
	slotCount
)

var slotNames = [slotCount]string{"left", "middle", "right"}

// Machine composes a plugboard, three rotors and a reflector. It owns every
// component exclusively for its lifetime.
type Machine struct {
	plugboard *Plugboard
	rotors    [slotCount]*Rotor
	reflector *Reflector
}

// NewMachine assembles a machine. The three rotors must be pairwise distinct
// configurations: one physical rotor cannot sit in two slots.
func NewMachine(plugboard *Plugboard, left, middle, right *Rotor, reflector *Reflector) (*Machine, error) {
	if plugboard == nil {
		return nil, newConfigError(ErrCodeMissingComponent, "machine", "plugboard is required")
	}
	if reflector == nil {
		return nil, newConfigError(ErrCodeMissingComponent, "machine", "reflector is required")
	}

	rotors := [slotCount]*Rotor{left, middle, right}
	for i, r := range rotors {
		if r == nil {
			return nil, newConfigError(ErrCodeMissingComponent, "machine", "%s rotor is required", slotNames[i])
		}
	}
	for i := 0; i < slotCount; i++ {
		for j := i + 1; j < slotCount; j++ {
			if rotors[i].SameConfiguration(rotors[j]) {
				return nil, newConfigError(ErrCodeRotorReuse, "machine",
					"each rotor configuration should be different: %s and %s rotors are both %s",
					slotNames[i], slotNames[j], rotors[i].table.Name)
			}
		}
	}

	return &Machine{
		plugboard: plugboard,
		rotors:    rotors,
		reflector: reflector,
	}, nil
}

// Transform enciphers or deciphers text. Letters are upper-cased; blanks keep
// their place. Every character, blanks included, advances the rotors, so a
// second call continues from where the first one left off.
//
// The whole call is rejected with a *FormatError, before any rotor moves,
// if text holds a character that is neither a letter nor blank.
func (m *Machine) Transform(text string) (string, error) {
	input, err := normalize(text)
	if err != nil {
		return "", err
	}

	var out strings.Builder
	out.Grow(len(input))
	for _, c := range input {
		m.step()
		out.WriteRune(m.substitute(c))
	}
	return out.String(), nil
}

// step advances rotor rotation state, right to left.
func (m *Machine) step() {
	left, middle, right := m.rotors[SlotLeft], m.rotors[SlotMiddle], m.rotors[SlotRight]
	if right.NotchIndex() != middle.NotchIndex() {
		right.Step()
	}
	if middle.NotchIndex() != left.NotchIndex() {
		middle.Step()
	}
	left.Step()
}

func (m *Machine) substitute(c rune) rune {
	c = m.plugboard.Substitute(c)
	for i := SlotRight; i >= SlotLeft; i-- {
		c = m.rotors[i].Forward(c)
	}
	c = m.reflector.Reflect(c)
	for i := SlotLeft; i <= SlotRight; i++ {
		c = m.rotors[i].Backward(c)
	}
	return m.plugboard.Substitute(c)
}

// Rotor returns the rotor in slot SlotLeft, SlotMiddle or SlotRight, or nil
// for any other slot.
func (m *Machine) Rotor(slot int) *Rotor {
	if slot < 0 || slot >= slotCount {
		return nil
	}
	return m.rotors[slot]
}

// Plugboard returns the machine's plugboard.
func (m *Machine) Plugboard() *Plugboard {
	return m.plugboard
}

// Reflector returns the machine's reflector.
func (m *Machine) Reflector() *Reflector {
	return m.reflector
}

// normalize upper-cases text and checks every rune is a letter or blank.
func normalize(text string) ([]rune, error) {
	runes := []rune(text)
	for i, r := range runes {
		r = unicode.ToUpper(r)
		if !IsLetter(r) && !IsBlank(r) {
			return nil, &FormatError{Position: i, Char: r}
		}
		runes[i] = r
	}
	return runes, nil
}

// SlotName returns "left", "middle" or "right".
func SlotName(slot int) string {
	if slot < 0 || slot >= slotCount {
		return fmt.Sprintf("slot(%d)", slot)
	}
	return slotNames[slot]
}
