package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/enigma/internal/enigma"
	"github.com/roach88/enigma/internal/journal"
	"github.com/roach88/enigma/internal/keysheet"
)

// CipherOptions holds flags for the cipher command.
type CipherOptions struct {
	*RootOptions

	Plugboard      string
	LeftRotor      int
	LeftPosition   int
	MiddleRotor    int
	MiddlePosition int
	RightRotor     int
	RightPosition  int
	Reflector      string

	KeySheet string
	Key      string

	InputFile  string
	Text       string
	OutputFile string
	Database   string

	// Sessions overrides the journal session generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	Sessions journal.IDGenerator
}

// CipherResult is the JSON payload of the cipher command.
type CipherResult struct {
	Output      string `json:"output"`
	Key         string `json:"key"`
	KeyName     string `json:"key_name,omitempty"`
	Fingerprint string `json:"fingerprint"`
	Session     string `json:"session,omitempty"`
	MessageID   string `json:"message_id,omitempty"`
	Seq         int64  `json:"seq,omitempty"`
}

// keyFlags are the flags that describe a key inline.
var keyFlags = []string{
	"plugboard",
	"left-rotor", "left-rotor-position",
	"middle-rotor", "middle-rotor-position",
	"right-rotor", "right-rotor-position",
	"reflector",
}

// NewCipherCommand creates the cipher command.
func NewCipherCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CipherOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:     "cipher",
		Aliases: []string{"encrypt", "decrypt"},
		Short:   "Encipher or decipher text",
		Long: `Transform text with a freshly keyed machine.

Enciphering and deciphering are the same operation: run the ciphertext
through the same key to get the plaintext back. Letters are upper-cased;
spaces, tabs and newlines pass through unchanged but still advance the
rotors. Any other character is rejected before the machine moves.

The key comes from flags or from a key sheet (--keysheet, --key). Input is
read from --text, --input-file, or stdin.

Exit codes:
  0 - Text transformed
  1 - Input holds a character outside letters and blanks
  2 - Invalid key, bad flags, or I/O error

Examples:
  enigma cipher --text "HELLO WORLD" --plugboard IR:HQ:NT:WZ:VC:OY:GP:LF:BX:AK
  enigma decrypt --keysheet keys.yaml --key daily --input-file msg.txt
  enigma cipher --left-rotor 4 --left-rotor-position 25 --text "attack at dawn" --db journal.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCipher(cmd.Context(), opts, cmd)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.Plugboard, "plugboard", "", "plugboard pairs, e.g. IR:HQ:... (0 or 10 pairs)")
	f.IntVar(&opts.LeftRotor, "left-rotor", 1, "left rotor table (1-5)")
	f.IntVar(&opts.LeftPosition, "left-rotor-position", 0, "left rotor start position (0-25)")
	f.IntVar(&opts.MiddleRotor, "middle-rotor", 2, "middle rotor table (1-5)")
	f.IntVar(&opts.MiddlePosition, "middle-rotor-position", 0, "middle rotor start position (0-25)")
	f.IntVar(&opts.RightRotor, "right-rotor", 3, "right rotor table (1-5)")
	f.IntVar(&opts.RightPosition, "right-rotor-position", 0, "right rotor start position (0-25)")
	f.StringVar(&opts.Reflector, "reflector", "", "reflector table (default: "+enigma.DefaultReflector+")")
	f.StringVar(&opts.KeySheet, "keysheet", "", "key sheet file (.yaml, .yml or .cue)")
	f.StringVar(&opts.Key, "key", "", "key name in the key sheet")
	f.StringVar(&opts.Text, "text", "", "text to transform")
	f.StringVarP(&opts.InputFile, "input-file", "i", "", "read text from file")
	f.StringVarP(&opts.OutputFile, "output-file", "o", "", "write result to file")
	f.StringVar(&opts.Database, "db", "", "record the message in this journal")

	cmd.MarkFlagsMutuallyExclusive("text", "input-file")
	for _, name := range keyFlags {
		cmd.MarkFlagsMutuallyExclusive("keysheet", name)
	}

	return cmd
}

func runCipher(ctx context.Context, opts *CipherOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	key, err := resolveKey(opts, cmd)
	if err != nil {
		return err
	}
	cfg := key.Config()
	slog.Debug("key resolved", "key", cfg.String())

	machine, err := enigma.New(cfg)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidKey, "invalid key", err)
	}

	input, err := readInput(opts, cmd)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeReadFailed, "failed to read input", err)
	}

	output, err := machine.Transform(input)
	if err != nil {
		if enigma.IsFormatError(err) {
			return formatter.Fail(ExitFailure, ErrCodeInvalidInput, "invalid input", err)
		}
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "transform failed", err)
	}
	slog.Debug("transformed", "in", input, "out", output)

	fingerprint, err := keysheet.Fingerprint(cfg)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "failed to fingerprint key", err)
	}
	result := CipherResult{Output: output, Key: cfg.String(), KeyName: key.Name, Fingerprint: fingerprint}

	if opts.Database != "" {
		msg, err := recordMessage(ctx, opts, cfg, input, output)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeJournal, "failed to record message", err)
		}
		result.Session = msg.Session
		result.MessageID = msg.ID
		result.Seq = msg.Seq
		slog.Info("message recorded", "db", opts.Database, "id", msg.ID, "seq", msg.Seq)
	}

	if opts.OutputFile != "" {
		if err := os.WriteFile(opts.OutputFile, []byte(output), 0o644); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, "failed to write output", err)
		}
		formatter.VerboseLog("Wrote %d characters to %s", len([]rune(output)), opts.OutputFile)
	}

	return formatter.Success(result, func(w io.Writer) {
		if opts.OutputFile != "" {
			return
		}
		fmt.Fprint(w, output)
		if !strings.HasSuffix(output, "\n") {
			fmt.Fprintln(w)
		}
	})
}

// resolveKey picks the key from a key sheet, or builds an unnamed one from
// key flags.
func resolveKey(opts *CipherOptions, cmd *cobra.Command) (keysheet.Key, error) {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	if opts.KeySheet == "" {
		if opts.Key != "" {
			return keysheet.Key{}, formatter.Fail(ExitCommandError, ErrCodeGeneric, "--key requires --keysheet", nil)
		}
		return keysheet.FromConfig(enigma.Config{
			Plugboard: opts.Plugboard,
			Left:      enigma.RotorSetting{Table: opts.LeftRotor, Position: opts.LeftPosition},
			Middle:    enigma.RotorSetting{Table: opts.MiddleRotor, Position: opts.MiddlePosition},
			Right:     enigma.RotorSetting{Table: opts.RightRotor, Position: opts.RightPosition},
			Reflector: opts.Reflector,
		}), nil
	}

	sheet, err := keysheet.Load(opts.KeySheet)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return keysheet.Key{}, formatter.Fail(ExitCommandError, ErrCodeNotFound, "key sheet not found", err)
		}
		return keysheet.Key{}, formatter.Fail(ExitCommandError, ErrCodeKeySheet, "invalid key sheet", err)
	}
	key, err := sheet.Lookup(opts.Key)
	if err != nil {
		return keysheet.Key{}, formatter.Fail(ExitCommandError, ErrCodeNotFound, "key lookup failed", err)
	}
	return key, nil
}

func readInput(opts *CipherOptions, cmd *cobra.Command) (string, error) {
	switch {
	case cmd.Flags().Changed("text"):
		return opts.Text, nil
	case opts.InputFile != "":
		data, err := os.ReadFile(opts.InputFile)
		if err != nil {
			return "", err
		}
		return string(data), nil
	default:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
}

func recordMessage(ctx context.Context, opts *CipherOptions, cfg enigma.Config, in, out string) (journal.Message, error) {
	st, err := journal.Open(opts.Database)
	if err != nil {
		return journal.Message{}, err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing journal", "error", closeErr)
		}
	}()

	sessions := opts.Sessions
	if sessions == nil {
		sessions = journal.UUIDv7Generator{}
	}
	rec, err := journal.NewRecorder(ctx, st, sessions)
	if err != nil {
		return journal.Message{}, err
	}
	slog.Debug("journal session", "session", rec.Session())
	return rec.Record(ctx, cfg, in, out)
}
