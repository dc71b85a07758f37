package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/scenes/internal/history"
	"github.com/roach88/scenes/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	SceneOptions
	Log string // "event" | "scene" | "all"
	Key string // count one key instead of listing
}

// HistoryResult is the JSON form of the history command.
type HistoryResult struct {
	Slot   string          `json:"slot"`
	Events []history.Entry `json:"events,omitempty"`
	Scenes []history.Entry `json:"scenes,omitempty"`
}

// KeyCountResult is the JSON form of history --key.
type KeyCountResult struct {
	Slot  string `json:"slot"`
	Log   string `json:"log"`
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the logs stored in a save slot",
		Long: `Print the event log and scene log of a save slot, oldest entry first.
Each entry is the logged key and the number of lines read when it was logged.

Example:
  scenes history --slot autosave
  scenes history --log event --key "bell,1"`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	opts.bindStorage(cmd)
	cmd.Flags().StringVar(&opts.Log, "log", "all", "which log to show (event|scene|all)")
	cmd.Flags().StringVar(&opts.Key, "key", "", "count entries with exactly this key (needs --log event or scene)")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	switch opts.Log {
	case store.LogEvents, store.LogScenes, "all":
	default:
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid log %q: must be event, scene or all", opts.Log))
	}
	if opts.Key != "" && opts.Log == "all" {
		return NewExitError(ExitCommandError, "--key needs --log event or --log scene")
	}

	cfg, err := opts.resolve(cmd)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	st, err := store.Open(cfg.DB)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	formatter := newFormatter(opts.RootOptions, cmd)
	ctx := cmd.Context()

	save, err := st.LoadSave(ctx, cfg.Slot)
	if errors.Is(err, store.ErrSaveNotFound) {
		_ = formatter.Error(ErrCodeSaveMissing, fmt.Sprintf("no save in slot %q", cfg.Slot), nil)
		return WrapExitError(ExitCommandError, "no save", err)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load save", err)
	}

	if opts.Key != "" {
		n, err := st.CountKey(ctx, cfg.Slot, opts.Log, opts.Key)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to count entries", err)
		}
		result := KeyCountResult{Slot: cfg.Slot, Log: opts.Log, Key: opts.Key, Count: n}
		return formatter.Render(result, func(w io.Writer) {
			fmt.Fprintf(w, "%s %q: %d\n", result.Log, result.Key, result.Count)
		})
	}

	result := HistoryResult{Slot: cfg.Slot}
	if opts.Log != store.LogScenes {
		result.Events = save.Snapshot.Events
	}
	if opts.Log != store.LogEvents {
		result.Scenes = save.Snapshot.Scenes
	}

	return formatter.Render(result, func(w io.Writer) {
		fmt.Fprintf(w, "slot %s, scene %q, %d line(s) read\n", cfg.Slot, save.Snapshot.Scene, save.Snapshot.LinesRead)
		if opts.Log != store.LogScenes {
			writeEntries(w, "events", result.Events)
		}
		if opts.Log != store.LogEvents {
			writeEntries(w, "scenes", result.Scenes)
		}
	})
}

func writeEntries(w io.Writer, title string, entries []history.Entry) {
	fmt.Fprintf(w, "%s:\n", title)
	if len(entries) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	for _, e := range entries {
		fmt.Fprintf(w, "  %6d  %s\n", e.Seq, e.Key)
	}
}
