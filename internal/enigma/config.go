package enigma

import "fmt"

// RotorSetting selects a rotor table (1..5) and its initial position (0..25).
type RotorSetting struct {
	Table    int `json:"table"`
	Position int `json:"position"`
}

// Config is the full keying of a machine, as supplied by a key sheet or the
// command line.
type Config struct {
	Plugboard string       `json:"plugboard"`
	Left      RotorSetting `json:"left"`
	Middle    RotorSetting `json:"middle"`
	Right     RotorSetting `json:"right"`
	Reflector string       `json:"reflector,omitempty"`
}

// Settings returns the rotor settings in slot order.
func (c Config) Settings() [slotCount]RotorSetting {
	return [slotCount]RotorSetting{c.Left, c.Middle, c.Right}
}

// String renders the configuration compactly, e.g. "I-0 II-0 III-0 default [IR:HQ:...]".
func (c Config) String() string {
	names := [slotCount]string{}
	for i, s := range c.Settings() {
		name := fmt.Sprintf("#%d", s.Table)
		if t, err := LookupRotorTable(s.Table); err == nil {
			name = t.Name
		}
		names[i] = fmt.Sprintf("%s-%d", name, s.Position)
	}
	reflector := c.Reflector
	if reflector == "" {
		reflector = DefaultReflector
	}
	return fmt.Sprintf("%s %s %s %s [%s]", names[0], names[1], names[2], reflector, c.Plugboard)
}

// New builds a fresh machine from cfg. Two machines built from the same
// Config produce identical output for identical input.
func New(cfg Config) (*Machine, error) {
	plugboard, err := NewPlugboard(cfg.Plugboard)
	if err != nil {
		return nil, err
	}

	var rotors [slotCount]*Rotor
	for i, s := range cfg.Settings() {
		table, err := LookupRotorTable(s.Table)
		if err != nil {
			return nil, err
		}
		rotors[i], err = NewRotor(table, s.Position)
		if err != nil {
			return nil, err
		}
	}

	table, err := LookupReflectorTable(cfg.Reflector)
	if err != nil {
		return nil, err
	}
	reflector, err := NewReflector(table)
	if err != nil {
		return nil, err
	}

	return NewMachine(plugboard, rotors[SlotLeft], rotors[SlotMiddle], rotors[SlotRight], reflector)
}
