package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/enigma/internal/journal"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	Session  string // optional - specific session only
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Sessions      []journal.SessionReplay `json:"sessions"`
	TotalMessages int                     `json:"total_messages"`
	Failed        int                     `json:"failed"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Re-run journaled messages and verify them",
		Long: `Re-run every journaled message from its stored key on a fresh machine.

Each message must reproduce its recorded output (determinism), and
deciphering that output must restore the input (reciprocity).

Exit codes:
  0 - Every message verified
  1 - At least one message did not verify
  2 - Command error (journal or session not found, etc.)

Examples:
  enigma replay --db ./journal.db
  enigma replay --db ./journal.db --session 01928c7e-...
  enigma replay --db ./journal.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite journal (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Session, "session", "", "replay one session only")

	return cmd
}

func runReplay(ctx context.Context, opts *ReplayOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	// Open would create an empty journal; replaying a typo should fail instead.
	if _, err := os.Stat(opts.Database); errors.Is(err, os.ErrNotExist) {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, "journal not found", err)
	}
	st, err := journal.Open(opts.Database)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeJournal, "failed to open journal", err)
	}
	defer st.Close()

	sessions := []string{opts.Session}
	if opts.Session == "" {
		sessions, err = st.ListSessions(ctx)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeJournal, "failed to list sessions", err)
		}
	}

	result := ReplayResult{Sessions: make([]journal.SessionReplay, 0, len(sessions))}
	for _, session := range sessions {
		replay, err := journal.ReplaySession(ctx, st, session)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeJournal, fmt.Sprintf("failed to replay session %s", session), err)
		}
		if opts.Session != "" && len(replay.Messages) == 0 {
			return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("session not found: %s", session), nil)
		}
		formatter.VerboseLog("Session %s: %d message(s)", session, len(replay.Messages))
		result.Sessions = append(result.Sessions, replay)
		result.TotalMessages += len(replay.Messages)
		for _, m := range replay.Messages {
			if !m.OK() {
				result.Failed++
			}
		}
	}

	text := func(w io.Writer) { writeReplayText(w, result, opts.Verbose) }
	if result.Failed > 0 {
		msg := fmt.Sprintf("%d of %d message(s) did not verify", result.Failed, result.TotalMessages)
		if err := formatter.Failure(ErrCodeReplay, msg, result, text); err != nil {
			return err
		}
		return failed(ExitFailure, msg)
	}
	return formatter.Success(result, text)
}

func writeReplayText(w io.Writer, result ReplayResult, verbose bool) {
	if len(result.Sessions) == 0 {
		fmt.Fprintln(w, "No messages found in journal.")
		return
	}

	for _, s := range result.Sessions {
		mark := "✓"
		if !s.OK() {
			mark = "✗"
		}
		fmt.Fprintf(w, "%s %s (%d message(s))\n", mark, s.Session, len(s.Messages))
		for _, m := range s.Messages {
			if m.OK() && !verbose {
				continue
			}
			fmt.Fprintf(w, "  seq %d %s: deterministic=%t reciprocal=%t", m.Seq, shortID(m.ID), m.Deterministic, m.Reciprocal)
			if m.Error != "" {
				fmt.Fprintf(w, " error=%s", m.Error)
			}
			fmt.Fprintln(w)
		}
	}
	fmt.Fprintf(w, "\n%d message(s), %d failed\n", result.TotalMessages, result.Failed)
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
