package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/scenes/internal/loader"
)

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <scene-file>",
		Short: "Print a scene file as JSON",
		Long: `Parse a JSON, YAML or CUE scene file and print it in the JSON scene
format. Lines without an event are written with "event": null.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			specs, err := loader.LoadFile(args[0])
			if err != nil {
				formatter := newFormatter(rootOpts, cmd)
				formatter.Writer = cmd.ErrOrStderr()
				_ = formatter.Error(ErrCodeLoad, err.Error(), nil)
				return WrapExitError(ExitCommandError, "failed to load scene", err)
			}
			return loader.WriteJSON(cmd.OutOrStdout(), specs)
		},
	}

	return cmd
}
