package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"github.com/roach88/scenes/internal/scene"
)

// ErrSceneNotFound is returned when no root holds a file for the scene.
var ErrSceneNotFound = errors.New("scene not found")

// Extensions lists accepted scene file extensions in lookup order.
var Extensions = []string{".json", ".yaml", ".yml", ".cue"}

// LoadError is a parse failure with an optional source position.
type LoadError struct {
	Path    string
	Message string
	Pos     token.Pos
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Dir resolves scene names against an ordered list of directories.
// Earlier roots win, so a save directory listed first shadows the shipped
// scene directory.
type Dir struct {
	Roots []string
}

// NewDir creates a Dir, skipping empty roots.
func NewDir(roots ...string) *Dir {
	d := &Dir{}
	for _, r := range roots {
		if r != "" {
			d.Roots = append(d.Roots, r)
		}
	}
	return d
}

// Find returns the path of the first file matching name.
func (d *Dir) Find(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("find scene: empty name: %w", ErrSceneNotFound)
	}
	for _, root := range d.Roots {
		for _, ext := range Extensions {
			path := filepath.Join(root, name+ext)
			info, err := os.Stat(path)
			if err == nil && !info.IsDir() {
				return path, nil
			}
		}
	}
	return "", fmt.Errorf("find scene %q in %v: %w", name, d.Roots, ErrSceneNotFound)
}

// LoadScene finds and parses the named scene.
func (d *Dir) LoadScene(name string) ([]scene.Spec, error) {
	path, err := d.Find(name)
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile parses a scene file, choosing the decoder by extension.
func LoadFile(path string) ([]scene.Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene file: %w", err)
	}
	return Parse(path, data)
}

// Parse decodes data according to the extension of path.
func Parse(path string, data []byte) ([]scene.Spec, error) {
	var specs []scene.Spec
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		specs, err = parseJSON(data)
	case ".yaml", ".yml":
		specs, err = parseYAML(data)
	case ".cue":
		specs, err = parseCUE(path, data)
	default:
		return nil, &LoadError{Path: path, Message: fmt.Sprintf("unsupported scene file extension %q", filepath.Ext(path))}
	}
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			return nil, err
		}
		return nil, &LoadError{Path: path, Message: err.Error()}
	}

	Normalize(specs)
	return specs, nil
}

func parseJSON(data []byte) ([]scene.Spec, error) {
	var specs []scene.Spec
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&specs); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return specs, nil
}

func parseYAML(data []byte) ([]scene.Spec, error) {
	var specs []scene.Spec
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true) // Reject unknown fields
	if err := dec.Decode(&specs); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return specs, nil
}

func parseCUE(path string, data []byte) ([]scene.Spec, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(path, err)
	}

	sections := v.LookupPath(cue.ParsePath("sections"))
	if !sections.Exists() {
		return nil, &LoadError{Path: path, Message: "sections is required", Pos: v.Pos()}
	}
	if err := sections.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(path, err)
	}

	var specs []scene.Spec
	if err := sections.Decode(&specs); err != nil {
		return nil, formatCUEError(path, err)
	}
	return specs, nil
}

// formatCUEError keeps the first error's position.
func formatCUEError(path string, err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Path: path, Message: err.Error()}
	}
	first := errs[0]
	loadErr := &LoadError{Path: path, Message: first.Error()}
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		loadErr.Pos = positions[0]
	}
	return loadErr
}

// Normalize NFC-normalizes every string in specs in place. Missing condition
// lists become empty lists so every encoding decodes to the same value.
func Normalize(specs []scene.Spec) {
	for i := range specs {
		if specs[i].Conditions == nil {
			specs[i].Conditions = []scene.Condition{}
		}
		for j := range specs[i].Lines {
			l := &specs[i].Lines[j]
			l.Text = norm.NFC.String(l.Text)
			l.EventName = norm.NFC.String(l.EventName)
			l.EventArg = norm.NFC.String(l.EventArg)
		}
		for j := range specs[i].Conditions {
			c := &specs[i].Conditions[j]
			c.Name = norm.NFC.String(c.Name)
			for k := range c.Arguments {
				c.Arguments[k] = norm.NFC.String(c.Arguments[k])
			}
		}
	}
}

// NormalizeName NFC-normalizes a scene or event name.
func NormalizeName(name string) string {
	return norm.NFC.String(name)
}

// SceneFile is one parsed file found by LoadAll.
type SceneFile struct {
	Name     string
	Path     string
	Sections []scene.Spec
}

// LoadAll parses every scene file under dir, sorted by path. Parse failures
// are collected rather than stopping the walk.
func LoadAll(dir string) ([]SceneFile, []error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, []error{fmt.Errorf("scene directory: %w", err)}
	}
	if !info.IsDir() {
		return nil, []error{fmt.Errorf("not a directory: %s", dir)}
	}

	var paths []string
	err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && isSceneFile(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, []error{fmt.Errorf("scanning %s: %w", dir, err)}
	}
	sort.Strings(paths)

	var files []SceneFile
	var errs []error
	for _, path := range paths {
		sections, err := LoadFile(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		files = append(files, SceneFile{
			Name:     SceneName(path),
			Path:     path,
			Sections: sections,
		})
	}
	return files, errs
}

// SceneName derives the scene name from a file path.
func SceneName(path string) string {
	base := filepath.Base(path)
	return NormalizeName(strings.TrimSuffix(base, filepath.Ext(base)))
}

func isSceneFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// WriteJSON encodes specs in the JSON scene format. Lines without an event
// are written with "event": null.
func WriteJSON(w io.Writer, specs []scene.Spec) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(specs); err != nil {
		return fmt.Errorf("write scene: %w", err)
	}
	return nil
}
