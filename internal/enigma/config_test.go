package enigma

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_PropagatesComponentErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		code   ConfigErrorCode
	}{
		{"plugboard", func(c *Config) { c.Plugboard = "AB:CD" }, ErrCodePairCount},
		{"unknown rotor", func(c *Config) { c.Middle.Table = 9 }, ErrCodeUnknownTable},
		{"bad position", func(c *Config) { c.Right.Position = 26 }, ErrCodeInvalidPosition},
		{"unknown reflector", func(c *Config) { c.Reflector = "thin" }, ErrCodeUnknownTable},
		{"reused rotor", func(c *Config) { c.Right.Table = 1; c.Right.Position = 4 }, ErrCodeRotorReuse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := basicConfig()
			tt.mutate(&cfg)
			m, err := New(cfg)
			require.Error(t, err)
			assert.Nil(t, m)
			assert.Equal(t, tt.code, ConfigCode(err))
		})
	}
}

func TestNew_ExplicitDefaultReflector(t *testing.T) {
	cfg := basicConfig()
	cfg.Reflector = DefaultReflector
	out, err := mustMachine(t, cfg).Transform("A")
	require.NoError(t, err)
	assert.Equal(t, "V", out)
}

func TestConfig_String(t *testing.T) {
	assert.Equal(t, "I-0 II-0 III-0 default [IR:HQ:NT:WZ:VC:OY:GP:LF:BX:AK]", basicConfig().String())

	cfg := Config{Left: RotorSetting{Table: 7, Position: 1}, Reflector: "x"}
	assert.Equal(t, "#7-1 #0-0 #0-0 x []", cfg.String())
}
