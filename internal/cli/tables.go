package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/enigma/internal/enigma"
)

// RotorInfo describes one rotor table in command output.
type RotorInfo struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Wiring string `json:"wiring"`
	Notch  string `json:"notch"`
}

// ReflectorInfo describes one reflector table in command output.
type ReflectorInfo struct {
	Name  string `json:"name"`
	Pairs string `json:"pairs"`
}

// TablesResult is the JSON payload of the tables command.
type TablesResult struct {
	Rotors     []RotorInfo     `json:"rotors"`
	Reflectors []ReflectorInfo `json:"reflectors"`
}

// NewTablesCommand creates the tables command.
func NewTablesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "tables",
		Short:         "List rotor and reflector tables",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			result := collectTables()
			return formatter.Success(result, func(w io.Writer) { writeTables(w, result) })
		},
	}
}

func collectTables() TablesResult {
	var result TablesResult
	for _, t := range enigma.RotorTables() {
		result.Rotors = append(result.Rotors, RotorInfo{
			ID:     t.ID,
			Name:   t.Name,
			Wiring: t.Wiring,
			Notch:  string(t.Notch),
		})
	}
	for _, t := range enigma.ReflectorTables() {
		result.Reflectors = append(result.Reflectors, ReflectorInfo{Name: t.Name, Pairs: t.Pairs})
	}
	return result
}

func writeTables(w io.Writer, result TablesResult) {
	fmt.Fprintln(w, "Rotors:")
	for _, r := range result.Rotors {
		fmt.Fprintf(w, "  %d  %-3s  %s  notch %s\n", r.ID, r.Name, r.Wiring, r.Notch)
	}
	fmt.Fprintln(w, "Reflectors:")
	for _, r := range result.Reflectors {
		fmt.Fprintf(w, "  %-8s %s\n", r.Name, r.Pairs)
	}
}
