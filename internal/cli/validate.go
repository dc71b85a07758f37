package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/scenes/internal/event"
	"github.com/roach88/scenes/internal/loader"
	"github.com/roach88/scenes/internal/reader"
	"github.com/roach88/scenes/internal/scene"
)

// ValidationError is one problem found in a scene file.
type ValidationError struct {
	File    string `json:"file"`
	Section int    `json:"section"`

	// Line is the source line, when the decoder reports one.
	Line int `json:"line,omitempty"`

	// Condition is the condition index, or -1 when not about a condition.
	Condition int `json:"condition"`

	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Scenes int               `json:"scenes"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <scenes-dir>",
		Short: "Check scene files without playing them",
		Long: `Parse every scene file in a directory and check each condition's
name, argument count and, for relational predicates, that the argument is
an event string. Event names on lines must not contain ',' and goto targets
must name a scene in the directory.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, dir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		msg := fmt.Sprintf("scene directory not found: %s", dir)
		_ = formatter.Error(ErrCodeLoad, msg, nil)
		return NewExitError(ExitCommandError, msg)
	}

	files, loadErrs := loader.LoadAll(dir)

	formatter.VerboseLog("Found %d scene file(s) in %s", len(files)+len(loadErrs), dir)

	var errs []ValidationError
	for _, err := range loadErrs {
		errs = append(errs, loadValidationError(err))
	}
	errs = append(errs, ValidateScenes(files, formatter)...)

	result := ValidationResult{Valid: len(errs) == 0, Scenes: len(files), Errors: errs}
	if result.Valid {
		return formatter.Render(result, func(w io.Writer) {
			fmt.Fprintf(w, "✓ %d scene(s) valid\n", result.Scenes)
		})
	}

	cliErr := &CLIError{Code: errs[0].Code, Message: errs[0].Message}
	if err := formatter.Fail(result, cliErr, func(w io.Writer) {
		fmt.Fprintln(w, "✗ Validation failed")
		fmt.Fprintln(w)
		for _, e := range errs {
			if e.Line > 0 {
				fmt.Fprintf(w, "%s:%d\n", e.File, e.Line)
			} else {
				fmt.Fprintln(w, e.File)
			}
			fmt.Fprintf(w, "  %s: %s\n\n", e.Code, e.Message)
		}
	}); err != nil {
		return err
	}

	// Validation failures = exit code 1
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}

// ValidateScenes checks every section of every loaded scene file.
func ValidateScenes(files []loader.SceneFile, formatter *OutputFormatter) []ValidationError {
	names := make(map[string]bool, len(files))
	for _, f := range files {
		names[f.Name] = true
	}

	var errs []ValidationError
	for _, f := range files {
		formatter.VerboseLog("Validating scene: %s", f.Name)
		for si, section := range f.Sections {
			for ci, c := range section.Conditions {
				if err := scene.Validate(c); err != nil {
					errs = append(errs, conditionValidationError(f.Path, si, ci, err))
				}
			}
			for li, line := range section.Lines {
				if !line.HasEvent() {
					continue
				}
				if err := event.ValidateName(line.EventName); err != nil {
					errs = append(errs, ValidationError{
						File: f.Path, Section: si, Condition: -1,
						Code:    string(scene.ErrCodeInvalidArgument),
						Message: fmt.Sprintf("lines[%d]: %v", li, err),
					})
				}
				if line.EventName == reader.EventGoto && !names[loader.NormalizeName(line.EventArg)] {
					errs = append(errs, ValidationError{
						File: f.Path, Section: si, Condition: -1,
						Code:    string(scene.ErrCodeNotFound),
						Message: fmt.Sprintf("lines[%d]: goto target %q is not a scene in this directory", li, line.EventArg),
					})
				}
			}
		}
	}
	return errs
}

func conditionValidationError(path string, section, index int, err error) ValidationError {
	ve := ValidationError{
		File:      path,
		Section:   section,
		Condition: index,
		Code:      ErrCodeGeneric,
		Message:   err.Error(),
	}
	var ce *scene.ConditionError
	if errors.As(err, &ce) {
		ve.Code = string(ce.Code)
		ve.Message = fmt.Sprintf("conditions[%d] %s: %s", index, ce.Condition, ce.Message)
		if ce.Code == scene.ErrCodeNotFound {
			ve.Message += fmt.Sprintf(" (known: %s)", strings.Join(scene.PredicateNames(), ", "))
		}
	}
	return ve
}

func loadValidationError(err error) ValidationError {
	ve := ValidationError{Condition: -1, Code: ErrCodeLoad, Message: err.Error()}
	var loadErr *loader.LoadError
	if errors.As(err, &loadErr) {
		ve.File = loadErr.Path
		ve.Message = loadErr.Message
		if loadErr.Pos.IsValid() {
			ve.Line = loadErr.Pos.Line()
		}
	}
	return ve
}
