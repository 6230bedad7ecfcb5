package keysheet

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/enigma/internal/enigma"
)

func TestLoad_YAML(t *testing.T) {
	sheet, err := Load(filepath.Join("testdata", "keys.yaml"))
	require.NoError(t, err)

	assert.Equal(t, []string{"daily", "offsets", "bare"}, sheet.Names())

	k, err := sheet.Lookup("offsets")
	require.NoError(t, err)
	assert.Equal(t, Rotor{Table: 2, Position: 17}, k.Middle)
	assert.Equal(t, "default", k.Reflector)

	bare, err := sheet.Lookup("bare")
	require.NoError(t, err)
	assert.Empty(t, bare.Plugboard)
	assert.Empty(t, bare.Reflector)
}

func TestLoad_CUE(t *testing.T) {
	sheet, err := Load(filepath.Join("testdata", "keys.cue"))
	require.NoError(t, err)

	require.Len(t, sheet.Keys, 2)
	assert.Equal(t, "daily", sheet.Keys[0].Name)
	assert.Equal(t, Rotor{Table: 4, Position: 25}, sheet.Keys[1].Left)
}

func TestLoad_FormatsAgree(t *testing.T) {
	fromYAML, err := Load(filepath.Join("testdata", "keys.yaml"))
	require.NoError(t, err)
	fromCUE, err := Load(filepath.Join("testdata", "keys.cue"))
	require.NoError(t, err)

	for _, name := range []string{"daily", "bare"} {
		a, err := fromYAML.Lookup(name)
		require.NoError(t, err)
		b, err := fromCUE.Lookup(name)
		require.NoError(t, err)
		assert.Equal(t, a, b, name)
	}
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	_, err := Load("keys.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported extension")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestParse_SchemaViolations(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		data   string
		path   string
	}{
		{
			name:   "table out of range",
			format: FormatYAML,
			data: `keys:
  - name: k
    left: {table: 6, position: 0}
    middle: {table: 2, position: 0}
    right: {table: 3, position: 0}
`,
			path: "keys.0.left.table",
		},
		{
			name:   "position out of range",
			format: FormatCUE,
			data: `keys: [{
	name: "k"
	left: {table: 1, position: 0}
	middle: {table: 2, position: 26}
	right: {table: 3, position: 0}
}]`,
			path: "keys.0.middle.position",
		},
		{
			name:   "empty name",
			format: FormatCUE,
			data: `keys: [{
	name: ""
	left: {table: 1, position: 0}
	middle: {table: 2, position: 0}
	right: {table: 3, position: 0}
}]`,
			path: "keys.0.name",
		},
		{
			name:   "missing rotor",
			format: FormatCUE,
			data: `keys: [{
	name: "k"
	left: {table: 1, position: 0}
	middle: {table: 2, position: 0}
}]`,
		},
		{
			name:   "unknown CUE field",
			format: FormatCUE,
			data: `keys: [{
	name: "k"
	rotors: 3
	left: {table: 1, position: 0}
	middle: {table: 2, position: 0}
	right: {table: 3, position: 0}
}]`,
		},
		{
			name:   "no keys",
			format: FormatYAML,
			data:   "keys: []\n",
		},
		{
			name:   "empty document",
			format: FormatYAML,
			data:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), tt.format)
			require.Error(t, err)

			var se *SchemaError
			require.True(t, errors.As(err, &se), "expected SchemaError, got %T: %v", err, err)
			if tt.path != "" {
				assert.Equal(t, tt.path, se.Path)
			}
			assert.NotEmpty(t, se.Message)
		})
	}
}

func TestParse_UnknownYAMLField(t *testing.T) {
	data := `keys:
  - name: k
    rotors: 3
    left: {table: 1, position: 0}
    middle: {table: 2, position: 0}
    right: {table: 3, position: 0}
`
	_, err := Parse([]byte(data), FormatYAML)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rotors")
}

func TestParse_DuplicateNames(t *testing.T) {
	data := `keys:
  - name: k
    left: {table: 1, position: 0}
    middle: {table: 2, position: 0}
    right: {table: 3, position: 0}
  - name: k
    left: {table: 3, position: 0}
    middle: {table: 2, position: 0}
    right: {table: 1, position: 0}
`
	_, err := Parse([]byte(data), FormatYAML)
	var se *SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "keys.1.name", se.Path)
	assert.Contains(t, se.Message, "duplicate key name")
}

func TestParse_UnknownFormat(t *testing.T) {
	_, err := Parse([]byte("keys: []"), Format("toml"))
	require.Error(t, err)
}

func TestLookup(t *testing.T) {
	single, err := Load(filepath.Join("testdata", "single.yml"))
	require.NoError(t, err)

	k, err := single.Lookup("")
	require.NoError(t, err)
	assert.Equal(t, "only", k.Name)

	multi, err := Load(filepath.Join("testdata", "keys.yaml"))
	require.NoError(t, err)

	_, err = multi.Lookup("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "key name is required")
	assert.Contains(t, err.Error(), "daily, offsets, bare")

	_, err = multi.Lookup("weekly")
	assert.ErrorIs(t, err, ErrKeyNotFound)
	assert.Contains(t, err.Error(), "have daily, offsets, bare")
}

func TestKey_Machine(t *testing.T) {
	sheet, err := Load(filepath.Join("testdata", "keys.yaml"))
	require.NoError(t, err)

	tests := []struct {
		key      string
		input    string
		expected string
	}{
		{"daily", "HELLO WORLD", "DPSJA SXLZW"},
		{"offsets", "HELLO WORLD", "UKEPH TEFBB"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			k, err := sheet.Lookup(tt.key)
			require.NoError(t, err)
			m, err := k.Machine()
			require.NoError(t, err)
			out, err := m.Transform(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestKey_MachineRejectsReusedRotor(t *testing.T) {
	k := Key{
		Name:   "bad",
		Left:   Rotor{Table: 1},
		Middle: Rotor{Table: 1, Position: 3},
		Right:  Rotor{Table: 2},
	}
	_, err := k.Machine()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `key "bad"`)
	assert.Equal(t, enigma.ErrCodeRotorReuse, enigma.ConfigCode(err))
}

func TestFromConfig_RoundTrip(t *testing.T) {
	cfg := enigma.Config{
		Plugboard: "IR:HQ:NT:WZ:VC:OY:GP:LF:BX:AK",
		Left:      enigma.RotorSetting{Table: 1, Position: 5},
		Middle:    enigma.RotorSetting{Table: 2, Position: 17},
		Right:     enigma.RotorSetting{Table: 3, Position: 3},
	}
	assert.Equal(t, cfg, FromConfig(cfg).Config())
}

func TestFingerprint(t *testing.T) {
	sheet, err := Load(filepath.Join("testdata", "keys.yaml"))
	require.NoError(t, err)

	daily, _ := sheet.Lookup("daily")
	offsets, _ := sheet.Lookup("offsets")

	a, err := Fingerprint(daily.Config())
	require.NoError(t, err)
	assert.Len(t, a, 64)

	renamed := daily
	renamed.Name = "renamed"
	renamed.Reflector = enigma.DefaultReflector
	b, err := Fingerprint(renamed.Config())
	require.NoError(t, err)
	assert.Equal(t, a, b, "name and explicit default reflector must not change the fingerprint")

	c, err := Fingerprint(offsets.Config())
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}
