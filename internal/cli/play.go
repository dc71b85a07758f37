package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/scenes/internal/config"
	"github.com/roach88/scenes/internal/event"
	"github.com/roach88/scenes/internal/loader"
	"github.com/roach88/scenes/internal/reader"
	"github.com/roach88/scenes/internal/store"
)

// PlayOptions holds flags for the play command.
type PlayOptions struct {
	*RootOptions
	SceneOptions

	// Events are constant-result user events, name -> result.
	Events map[string]int

	// Fresh ignores an existing save and starts from the start scene.
	Fresh bool

	// IDGenerator overrides save ids (for testing).
	IDGenerator store.IDGenerator
}

// PlayResult summarizes a play session.
type PlayResult struct {
	Reason    string `json:"reason"`
	Scene     string `json:"scene"`
	LinesRead int64  `json:"lines_read"`
	Slot      string `json:"slot"`
	SaveID    string `json:"save_id"`
	Resumed   bool   `json:"resumed"`
}

// NewPlayCommand creates the play command.
func NewPlayCommand(rootOpts *RootOptions) *cobra.Command {
	return newPlayCommand(&PlayOptions{RootOptions: rootOpts})
}

func newPlayCommand(opts *PlayOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play scenes, resuming from a save slot",
		Long: `Play scenes from the scene directories, starting at the start scene or
where the save slot left off.

Line text is written as is. A "pause" event waits for Enter; a "stop"
event, end of input or Ctrl-C ends the session. The position and both
history logs are saved to the slot whenever playback stops.

Example:
  scenes play --dir ./story
  scenes play --dir ./saves --dir ./story --slot chapter2 --event bell=1
  SCENES_DIR=./story scenes play --fresh --delay 0s`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(opts, cmd)
		},
	}

	opts.bindPlayback(cmd)
	opts.bindStorage(cmd)
	cmd.Flags().StringToIntVar(&opts.Events, "event", nil, "register a constant event, name=result (repeatable)")
	cmd.Flags().BoolVar(&opts.Fresh, "fresh", false, "ignore the save slot and start over")

	return cmd
}

func runPlay(opts *PlayOptions, cmd *cobra.Command) error {
	logger := newLogger(opts.Verbose, cmd.ErrOrStderr())

	cfg, err := opts.resolve(cmd)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	if len(cfg.Dirs) == 0 {
		return NewExitError(ExitCommandError, "no scene directory: pass --dir or set SCENES_DIR")
	}

	logger.Debug("opening database", "path", cfg.DB)
	var storeOpts []store.Option
	if opts.IDGenerator != nil {
		storeOpts = append(storeOpts, store.WithIDGenerator(opts.IDGenerator))
	}
	st, err := store.Open(cfg.DB, storeOpts...)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()

	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("received signal, saving", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	r, resumed, err := openReader(ctx, st, cfg, opts.Fresh, logger)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to start playback", err)
	}
	if err := registerEvents(r, opts.Events); err != nil {
		return WrapExitError(ExitCommandError, "failed to register events", err)
	}

	result, playErr := playLoop(ctx, r, cmd.OutOrStdout(), bufio.NewReader(cmd.InOrStdin()))
	result.Slot = cfg.Slot
	result.Resumed = resumed

	// Save even when cancelled; the write gets its own context.
	id, err := st.WriteSave(context.WithoutCancel(ctx), cfg.Slot, r.Snapshot())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to save", err)
	}
	result.SaveID = id
	logger.Info("saved", "slot", cfg.Slot, "id", id, "scene", result.Scene, "lines_read", result.LinesRead)

	if playErr != nil {
		return WrapExitError(ExitFailure, "playback failed", playErr)
	}

	formatter := newFormatter(opts.RootOptions, cmd)
	return formatter.Render(result, func(w io.Writer) {
		fmt.Fprintf(w, "[%s] saved to %q at line %d\n", result.Reason, result.Slot, result.LinesRead)
	})
}

// openReader resumes from the save slot unless fresh is set or the slot is
// empty.
func openReader(ctx context.Context, st *store.Store, cfg config.Config, fresh bool, logger *slog.Logger) (*reader.Reader, bool, error) {
	src := loader.NewDir(cfg.Dirs...)
	rcfg := reader.Config{
		StartScene: loader.NormalizeName(cfg.StartScene),
		LineDelay:  cfg.LineDelay,
		Logger:     logger,
	}

	if !fresh {
		save, err := st.LoadSave(ctx, cfg.Slot)
		switch {
		case err == nil:
			r, err := reader.Resume(src, rcfg, save.Snapshot)
			return r, true, err
		case !errors.Is(err, store.ErrSaveNotFound):
			return nil, false, err
		}
	}

	r, err := reader.New(src, rcfg)
	return r, false, err
}

func registerEvents(r *reader.Reader, events map[string]int) error {
	names := make([]string, 0, len(events))
	for name := range events {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := r.AddEvent(loader.NormalizeName(name), event.Constant(events[name])); err != nil {
			return fmt.Errorf("event %q: %w", name, err)
		}
	}
	return nil
}

// playLoop reads until playback finishes, stops, fails or is cancelled.
// A pause waits for a line on in; end of input ends the session paused.
func playLoop(ctx context.Context, r *reader.Reader, out io.Writer, in *bufio.Reader) (PlayResult, error) {
	result := PlayResult{}
	for {
		reason, err := r.Read(ctx, out)
		switch {
		case errors.Is(err, context.Canceled):
			result.Reason = "interrupted"
			return finish(&result, r), nil
		case err != nil:
			result.Reason = "error"
			return finish(&result, r), err
		}

		result.Reason = reason.String()
		if reason != reader.StopPaused {
			return finish(&result, r), nil
		}

		fmt.Fprintln(out, "[paused, press Enter to continue]")
		if _, err := in.ReadString('\n'); err != nil {
			return finish(&result, r), nil
		}
	}
}

func finish(result *PlayResult, r *reader.Reader) PlayResult {
	result.Scene = r.CurrentScene()
	result.LinesRead = r.LinesRead()
	return *result
}
