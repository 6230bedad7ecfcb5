package enigma

import "fmt"

// RotorTable is a named rotor wiring: a permutation of Alphabet and a notch.
type RotorTable struct {
	ID     int
	Name   string
	Wiring string
	Notch  rune
}

// ReflectorTable is a named reflector wiring of 13 colon-separated pairs.
type ReflectorTable struct {
	Name  string
	Pairs string
}

// DefaultReflector names the reflector used when none is configured.
const DefaultReflector = "default"

// The wirings are not the historical ones; the notch letters differ too.
var rotorTables = [...]RotorTable{
	{ID: 1, Name: "I", Wiring: "FKQHTLXOCBJSPDZRAMEWNIUYGV", Notch: 'H'},
	{ID: 2, Name: "II", Wiring: "SLVGBTFXJQOHEWIRZYAMKPCNDU", Notch: 'M'},
	{ID: 3, Name: "III", Wiring: "EHRVXGAOBQUSIMZFLYNWKTPDJC", Notch: 'V'},
	{ID: 4, Name: "IV", Wiring: "NTZPSFBOKMWRCJDIVLAEYUXHGQ", Notch: 'M'},
	{ID: 5, Name: "V", Wiring: "BDFHJLCPRTXVZNYEIWGAKMUSQO", Notch: 'D'},
}

var reflectorTables = [...]ReflectorTable{
	{Name: DefaultReflector, Pairs: "LE:YJ:VC:NI:XW:PB:QM:DR:TA:KZ:GF:UH:OS"},
}

// LookupRotorTable returns the rotor table with the given id (1..5).
func LookupRotorTable(id int) (RotorTable, error) {
	for _, t := range rotorTables {
		if t.ID == id {
			return t, nil
		}
	}
	return RotorTable{}, newConfigError(ErrCodeUnknownTable, "rotor",
		"no rotor table %d (available: 1-%d)", id, len(rotorTables))
}

// RotorTables returns all rotor tables in id order.
func RotorTables() []RotorTable {
	out := make([]RotorTable, len(rotorTables))
	copy(out, rotorTables[:])
	return out
}

// LookupReflectorTable returns the named reflector table. An empty name
// selects DefaultReflector.
func LookupReflectorTable(name string) (ReflectorTable, error) {
	if name == "" {
		name = DefaultReflector
	}
	for _, t := range reflectorTables {
		if t.Name == name {
			return t, nil
		}
	}
	return ReflectorTable{}, newConfigError(ErrCodeUnknownTable, "reflector",
		"no reflector table %q", name)
}

// ReflectorTables returns all reflector tables.
func ReflectorTables() []ReflectorTable {
	out := make([]ReflectorTable, len(reflectorTables))
	copy(out, reflectorTables[:])
	return out
}

func (t RotorTable) component() string {
	if t.Name == "" {
		return "rotor"
	}
	return fmt.Sprintf("rotor %s", t.Name)
}
