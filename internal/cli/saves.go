package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/scenes/internal/store"
)

// SavesOptions holds flags for the saves command.
type SavesOptions struct {
	*RootOptions
	SceneOptions
	Delete bool
}

// NewSavesCommand creates the saves command.
func NewSavesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SavesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "saves",
		Short: "List save slots, or delete one",
		Long: `List every save slot in the database, oldest save first.
With --delete, remove the slot named by --slot and its history instead.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSaves(opts, cmd)
		},
	}

	opts.bindStorage(cmd)
	cmd.Flags().BoolVar(&opts.Delete, "delete", false, "delete the slot given by --slot")

	return cmd
}

func runSaves(opts *SavesOptions, cmd *cobra.Command) error {
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

	if opts.Delete {
		err := st.DeleteSave(ctx, cfg.Slot)
		if errors.Is(err, store.ErrSaveNotFound) {
			_ = formatter.Error(ErrCodeSaveMissing, fmt.Sprintf("no save in slot %q", cfg.Slot), nil)
			return WrapExitError(ExitCommandError, "no save", err)
		}
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to delete save", err)
		}
		return formatter.Render(map[string]string{"deleted": cfg.Slot}, func(w io.Writer) {
			fmt.Fprintf(w, "deleted %s\n", cfg.Slot)
		})
	}

	saves, err := st.ListSaves(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list saves", err)
	}

	return formatter.Render(saves, func(w io.Writer) {
		if len(saves) == 0 {
			fmt.Fprintln(w, "No saves.")
			return
		}
		for _, s := range saves {
			fmt.Fprintf(w, "%-12s %-20s line %-6d %s\n", s.Slot, s.Scene, s.LinesRead, s.ID)
		}
	})
}
