package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/scenes/internal/config"
)

// SceneOptions holds the flags that override environment defaults.
type SceneOptions struct {
	Dirs  []string
	DB    string
	Start string
	Delay time.Duration
	Slot  string
}

// bindStorage registers --db and --slot.
func (o *SceneOptions) bindStorage(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.DB, "db", "", "path to SQLite save database (env SCENES_DB, default scenes.db)")
	cmd.Flags().StringVar(&o.Slot, "slot", "", "save slot (env SCENES_SLOT, default autosave)")
}

// bindPlayback registers the scene and pacing flags.
func (o *SceneOptions) bindPlayback(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&o.Dirs, "dir", "d", nil, "scene directory, repeatable; earlier wins (env SCENES_DIR, colon-separated)")
	cmd.Flags().StringVar(&o.Start, "start", "", "first scene (env SCENES_START, default Opening)")
	cmd.Flags().DurationVar(&o.Delay, "delay", 0, "pause after each line (env SCENES_LINE_DELAY, default 500ms)")
}

// resolve loads the environment defaults and applies every flag the user set.
func (o *SceneOptions) resolve(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("dir") {
		cfg.Dirs = o.Dirs
	}
	if flags.Changed("db") {
		cfg.DB = o.DB
	}
	if flags.Changed("start") {
		cfg.StartScene = o.Start
	}
	if flags.Changed("delay") {
		cfg.LineDelay = o.Delay
	}
	if flags.Changed("slot") {
		cfg.Slot = o.Slot
	}
	return cfg, nil
}
