package enigma

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRotorTables_AreBijections(t *testing.T) {
	for _, table := range RotorTables() {
		t.Run(table.Name, func(t *testing.T) {
			require.Len(t, table.Wiring, AlphabetSize)
			for _, c := range Alphabet {
				assert.Equal(t, 1, strings.Count(table.Wiring, string(c)), "letter %c", c)
			}
			assert.Greater(t, Index(table.Notch), 0, "notch must be B..Z")
		})
	}
}

func TestReflectorTables_AreFixedPointFreeInvolutions(t *testing.T) {
	for _, table := range ReflectorTables() {
		t.Run(table.Name, func(t *testing.T) {
			rf, err := NewReflector(table)
			require.NoError(t, err)

			seen := map[rune]bool{}
			for _, c := range Alphabet {
				out := rf.Reflect(c)
				assert.NotEqual(t, c, out, "fixed point at %c", c)
				assert.Equal(t, c, rf.Reflect(out), "not an involution at %c", c)
				assert.False(t, seen[out], "%c reached twice", out)
				seen[out] = true
			}
			assert.Len(t, seen, AlphabetSize)
		})
	}
}

func TestLookupRotorTable(t *testing.T) {
	tests := []struct {
		id     int
		name   string
		wiring string
		notch  rune
	}{
		{1, "I", "FKQHTLXOCBJSPDZRAMEWNIUYGV", 'H'},
		{2, "II", "SLVGBTFXJQOHEWIRZYAMKPCNDU", 'M'},
		{3, "III", "EHRVXGAOBQUSIMZFLYNWKTPDJC", 'V'},
		{4, "IV", "NTZPSFBOKMWRCJDIVLAEYUXHGQ", 'M'},
		{5, "V", "BDFHJLCPRTXVZNYEIWGAKMUSQO", 'D'},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := LookupRotorTable(tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.name, table.Name)
			assert.Equal(t, tt.wiring, table.Wiring)
			assert.Equal(t, tt.notch, table.Notch)
		})
	}
}

func TestLookupRotorTable_Unknown(t *testing.T) {
	for _, id := range []int{0, 6, -1} {
		_, err := LookupRotorTable(id)
		require.Error(t, err)
		assert.Equal(t, ErrCodeUnknownTable, ConfigCode(err))
	}
}

func TestLookupReflectorTable(t *testing.T) {
	table, err := LookupReflectorTable("")
	require.NoError(t, err)
	assert.Equal(t, DefaultReflector, table.Name)

	table, err = LookupReflectorTable(DefaultReflector)
	require.NoError(t, err)
	assert.Equal(t, "LE:YJ:VC:NI:XW:PB:QM:DR:TA:KZ:GF:UH:OS", table.Pairs)

	_, err = LookupReflectorTable("B")
	require.Error(t, err)
	assert.Equal(t, ErrCodeUnknownTable, ConfigCode(err))
}

func TestRotorTables_ReturnsCopy(t *testing.T) {
	tables := RotorTables()
	tables[0].Wiring = "broken"

	table, err := LookupRotorTable(1)
	require.NoError(t, err)
	assert.Equal(t, "FKQHTLXOCBJSPDZRAMEWNIUYGV", table.Wiring)
}

func TestIsBlank(t *testing.T) {
	for _, r := range " \t\n\v\f\r" {
		assert.True(t, IsBlank(r), "%q", r)
	}
	for _, r := range "A!_.\u00a0\u2028" {
		assert.False(t, IsBlank(r), "%q", r)
	}
}
