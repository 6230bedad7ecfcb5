package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/enigma/internal/keysheet"
)

// KeyReport is the validation outcome of one key.
type KeyReport struct {
	Name        string `json:"name"`
	Key         string `json:"key"`
	Fingerprint string `json:"fingerprint,omitempty"`
	Error       string `json:"error,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid bool        `json:"valid"`
	Keys  []KeyReport `json:"keys"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <keysheet>",
		Short: "Check a key sheet",
		Long: `Load a key sheet, check it against the schema, and build a machine for
every key in it. Reports each key's fingerprint.

Exit codes:
  0 - Every key is valid
  2 - The sheet or one of its keys is invalid`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	sheet, err := keysheet.Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return formatter.Fail(ExitCommandError, ErrCodeNotFound, "key sheet not found", err)
		}
		return formatter.Fail(ExitCommandError, ErrCodeKeySheet, "invalid key sheet", err)
	}
	formatter.VerboseLog("Loaded %d key(s) from %s", len(sheet.Keys), path)

	result := ValidationResult{Valid: true, Keys: make([]KeyReport, 0, len(sheet.Keys))}
	for _, k := range sheet.Keys {
		cfg := k.Config()
		report := KeyReport{Name: k.Name, Key: cfg.String()}
		if _, err := k.Machine(); err != nil {
			report.Error = err.Error()
			result.Valid = false
		} else if report.Fingerprint, err = keysheet.Fingerprint(cfg); err != nil {
			report.Error = err.Error()
			result.Valid = false
		}
		result.Keys = append(result.Keys, report)
	}

	text := func(w io.Writer) {
		for _, r := range result.Keys {
			if r.Error != "" {
				fmt.Fprintf(w, "✗ %s: %s\n", r.Name, r.Error)
				continue
			}
			fmt.Fprintf(w, "✓ %s  %s  %s\n", r.Name, r.Key, r.Fingerprint[:12])
		}
	}

	if !result.Valid {
		if err := formatter.Failure(ErrCodeInvalidKey, "key sheet contains invalid keys", result, text); err != nil {
			return err
		}
		return failed(ExitCommandError, "key sheet contains invalid keys")
	}
	return formatter.Success(result, text)
}
