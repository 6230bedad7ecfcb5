// Package keysheet loads named machine keys from YAML or CUE files.
//
// A key sheet lists one or more keys, each naming the plugboard, the three
// rotors with their start positions, and optionally the reflector:
//
//	keys:
//	  - name: daily
//	    plugboard: "IR:HQ:NT:WZ:VC:OY:GP:LF:BX:AK"
//	    left:   {table: 1, position: 0}
//	    middle: {table: 2, position: 0}
//	    right:  {table: 3, position: 0}
//
// Both formats are validated against the same embedded CUE schema before any
// machine is built.
package keysheet

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"gopkg.in/yaml.v3"

	"github.com/roach88/enigma/internal/canon"
	"github.com/roach88/enigma/internal/enigma"
)

//go:embed schema.cue
var schemaSource string

// Format identifies the encoding of a key sheet.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatCUE  Format = "cue"
)

// Rotor is the table and start position of one rotor slot.
type Rotor struct {
	Table    int `yaml:"table" json:"table"`
	Position int `yaml:"position" json:"position"`
}

// Key is a named machine configuration.
type Key struct {
	Name      string `yaml:"name" json:"name"`
	Plugboard string `yaml:"plugboard,omitempty" json:"plugboard,omitempty"`
	Left      Rotor  `yaml:"left" json:"left"`
	Middle    Rotor  `yaml:"middle" json:"middle"`
	Right     Rotor  `yaml:"right" json:"right"`
	Reflector string `yaml:"reflector,omitempty" json:"reflector,omitempty"`
}

// Sheet is an ordered list of keys with unique names.
type Sheet struct {
	Keys []Key `yaml:"keys" json:"keys"`
}

// SchemaError reports a key sheet that does not satisfy the schema.
type SchemaError struct {
	Path    string
	Message string
	Pos     token.Pos
}

func (e *SchemaError) Error() string {
	loc := e.Path
	if loc == "" {
		loc = "keysheet"
	}
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), loc, e.Message)
	}
	return fmt.Sprintf("%s: %s", loc, e.Message)
}

// ErrKeyNotFound is returned by Lookup when no key matches.
var ErrKeyNotFound = errors.New("key not found")

// Load reads a key sheet, choosing the format from the file extension.
func Load(path string) (*Sheet, error) {
	var format Format
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = FormatYAML
	case ".cue":
		format = FormatCUE
	default:
		return nil, fmt.Errorf("key sheet %s: unsupported extension %q (want .yaml, .yml or .cue)", path, filepath.Ext(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read key sheet: %w", err)
	}
	return parse(data, format, path)
}

// Parse decodes and validates a key sheet.
func Parse(data []byte, format Format) (*Sheet, error) {
	return parse(data, format, "")
}

func parse(data []byte, format Format, filename string) (*Sheet, error) {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile key sheet schema: %w", err)
	}

	var value cue.Value
	switch format {
	case FormatYAML:
		sheet, err := decodeYAML(data)
		if err != nil {
			return nil, err
		}
		value = ctx.Encode(sheet)
	case FormatCUE:
		var opts []cue.BuildOption
		if filename != "" {
			opts = append(opts, cue.Filename(filename))
		}
		value = ctx.CompileBytes(data, opts...)
	default:
		return nil, fmt.Errorf("unknown key sheet format %q", format)
	}
	if err := value.Err(); err != nil {
		return nil, schemaError(err)
	}

	unified := schema.LookupPath(cue.ParsePath("#Sheet")).Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, schemaError(err)
	}

	var sheet Sheet
	if err := unified.Decode(&sheet); err != nil {
		return nil, schemaError(err)
	}
	if err := sheet.checkNames(); err != nil {
		return nil, err
	}
	return &sheet, nil
}

func decodeYAML(data []byte) (*Sheet, error) {
	var sheet Sheet
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&sheet); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &SchemaError{Message: "key sheet is empty"}
		}
		return nil, fmt.Errorf("parse key sheet YAML: %w", err)
	}
	return &sheet, nil
}

// schemaError keeps the first CUE error with its path and position.
func schemaError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &SchemaError{Message: err.Error()}
	}
	first := errs[0]
	format, args := first.Msg()
	se := &SchemaError{
		Path:    strings.Join(first.Path(), "."),
		Message: fmt.Sprintf(format, args...),
	}
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		se.Pos = positions[0]
	}
	return se
}

func (s *Sheet) checkNames() error {
	seen := make(map[string]int, len(s.Keys))
	for i, k := range s.Keys {
		if j, ok := seen[k.Name]; ok {
			return &SchemaError{
				Path:    fmt.Sprintf("keys.%d.name", i),
				Message: fmt.Sprintf("duplicate key name %q (also keys.%d)", k.Name, j),
			}
		}
		seen[k.Name] = i
	}
	return nil
}

// Lookup returns the key with the given name. An empty name selects the only
// key of a single-key sheet.
func (s *Sheet) Lookup(name string) (Key, error) {
	if name == "" {
		if len(s.Keys) == 1 {
			return s.Keys[0], nil
		}
		return Key{}, fmt.Errorf("key sheet has %d keys (%s), a key name is required",
			len(s.Keys), strings.Join(s.Names(), ", "))
	}
	for _, k := range s.Keys {
		if k.Name == name {
			return k, nil
		}
	}
	return Key{}, fmt.Errorf("%w: %q (have %s)", ErrKeyNotFound, name, strings.Join(s.Names(), ", "))
}

// Names returns the key names in sheet order.
func (s *Sheet) Names() []string {
	names := make([]string, len(s.Keys))
	for i, k := range s.Keys {
		names[i] = k.Name
	}
	return names
}

// Config converts the key to a machine configuration.
func (k Key) Config() enigma.Config {
	return enigma.Config{
		Plugboard: k.Plugboard,
		Left:      enigma.RotorSetting{Table: k.Left.Table, Position: k.Left.Position},
		Middle:    enigma.RotorSetting{Table: k.Middle.Table, Position: k.Middle.Position},
		Right:     enigma.RotorSetting{Table: k.Right.Table, Position: k.Right.Position},
		Reflector: k.Reflector,
	}
}

// Machine builds a fresh machine at the key's start positions.
func (k Key) Machine() (*enigma.Machine, error) {
	m, err := enigma.New(k.Config())
	if err != nil {
		return nil, fmt.Errorf("key %q: %w", k.Name, err)
	}
	return m, nil
}

// FromConfig returns an unnamed key for cfg.
func FromConfig(cfg enigma.Config) Key {
	return Key{
		Plugboard: cfg.Plugboard,
		Left:      Rotor{Table: cfg.Left.Table, Position: cfg.Left.Position},
		Middle:    Rotor{Table: cfg.Middle.Table, Position: cfg.Middle.Position},
		Right:     Rotor{Table: cfg.Right.Table, Position: cfg.Right.Position},
		Reflector: cfg.Reflector,
	}
}

// Fingerprint returns the content hash of a configuration. Key names do not
// contribute, and an empty reflector hashes the same as the default one.
func Fingerprint(cfg enigma.Config) (string, error) {
	reflector := cfg.Reflector
	if reflector == "" {
		reflector = enigma.DefaultReflector
	}
	rotor := func(r enigma.RotorSetting) map[string]any {
		return map[string]any{"table": r.Table, "position": r.Position}
	}
	return canon.Hash(canon.DomainKey, map[string]any{
		"plugboard": cfg.Plugboard,
		"left":      rotor(cfg.Left),
		"middle":    rotor(cfg.Middle),
		"right":     rotor(cfg.Right),
		"reflector": reflector,
	})
}
