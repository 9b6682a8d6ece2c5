package codegen

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"

	"github.com/roach88/shadergen/internal/include"
	"github.com/roach88/shadergen/internal/shader"
)

// DefaultClassName is the class name used when Options.ClassName is empty.
const DefaultClassName = "Shader"

// Stage names used in errors.
const (
	StageVertex   = "vertex"
	StageFragment = "fragment"
)

var (
	identPattern     = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)
	qualifiedPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*(\.[A-Za-z_$][A-Za-z0-9_$]*)*$`)
)

// Options controls class generation.
type Options struct {
	// ClassName of the generated class. Empty means DefaultClassName.
	ClassName string

	// BaseClass, when set, is extended and receives both sources in its constructor.
	BaseClass string

	// TransformNames prefixes field names (aPosition, uMvp) instead of using GLSL names.
	TransformNames bool

	// IncludeDirs are searched after the directory of each shader file.
	IncludeDirs []string

	// MaxIncludeDepth limits include nesting. Zero means include.DefaultMaxDepth.
	MaxIncludeDepth int
}

// Output is the result of a generation run.
type Output struct {
	ClassName      string          `json:"class_name"`
	Source         string          `json:"source"`
	VertexSource   string          `json:"vertex_source"`
	FragmentSource string          `json:"fragment_source"`
	Attributes     []shader.Symbol `json:"attributes"`
	Uniforms       []shader.Symbol `json:"uniforms"`
	Includes       []string        `json:"includes,omitempty"`
	SourceHash     string          `json:"source_hash"`
}

// MissingInputError reports a shader file that does not exist.
type MissingInputError struct {
	Stage string
	Path  string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("%s shader does not exist: %s", e.Stage, e.Path)
}

// IdentifierError reports a class or base class name that is not a valid identifier.
type IdentifierError struct {
	Field string
	Value string
}

func (e *IdentifierError) Error() string {
	return fmt.Sprintf("invalid %s %q: must be a TypeScript identifier", e.Field, e.Value)
}

// FieldConflictError reports an attribute and a uniform that would become
// the same class field.
type FieldConflictError struct {
	Field string
}

func (e *FieldConflictError) Error() string {
	return fmt.Sprintf("attribute and uniform both map to field %q; enable name transformation or rename one", e.Field)
}

// Validate checks the identifier options.
func (o Options) Validate() error {
	if o.ClassName != "" && !identPattern.MatchString(o.ClassName) {
		return &IdentifierError{Field: "class name", Value: o.ClassName}
	}
	// The base class may be qualified (gl.Program).
	if o.BaseClass != "" && !qualifiedPattern.MatchString(o.BaseClass) {
		return &IdentifierError{Field: "base class", Value: o.BaseClass}
	}
	return nil
}

func (o Options) className() string {
	if o.ClassName == "" {
		return DefaultClassName
	}
	return o.ClassName
}

// GenerateFiles generates a class from shader files on disk.
//
// Includes in each file are searched for in the file's own directory first,
// then in opts.IncludeDirs.
func GenerateFiles(vertexPath, fragmentPath string, opts Options) (*Output, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := checkInput(StageVertex, vertexPath); err != nil {
		return nil, err
	}
	if err := checkInput(StageFragment, fragmentPath); err != nil {
		return nil, err
	}

	vert, err := resolveFile(vertexPath, opts)
	if err != nil {
		return nil, fmt.Errorf("%s shader: %w", StageVertex, err)
	}
	frag, err := resolveFile(fragmentPath, opts)
	if err != nil {
		return nil, fmt.Errorf("%s shader: %w", StageFragment, err)
	}

	return build(vert, frag, opts)
}

// GenerateSource generates a class from in-memory sources.
// Includes are searched for in opts.IncludeDirs only.
func GenerateSource(vertexSrc, fragmentSrc string, opts Options) (*Output, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	r := &include.Resolver{SearchPaths: opts.IncludeDirs, MaxDepth: opts.MaxIncludeDepth}
	vert, err := r.Resolve(vertexSrc, "")
	if err != nil {
		return nil, fmt.Errorf("%s shader: %w", StageVertex, err)
	}
	frag, err := r.Resolve(fragmentSrc, "")
	if err != nil {
		return nil, fmt.Errorf("%s shader: %w", StageFragment, err)
	}

	return build(vert, frag, opts)
}

func checkInput(stage, path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &MissingInputError{Stage: stage, Path: path}
	}
	if err != nil {
		return fmt.Errorf("%s shader: %w", stage, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s shader is a directory: %s", stage, path)
	}
	return nil
}

func resolveFile(path string, opts Options) (*include.Result, error) {
	paths, err := include.SearchPathsFor(path, opts.IncludeDirs...)
	if err != nil {
		return nil, err
	}
	// Search paths are absolute; the origin must be too for cycle detection.
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	r := &include.Resolver{SearchPaths: paths, MaxDepth: opts.MaxIncludeDepth}
	return r.ResolveFile(abs)
}

func build(vert, frag *include.Result, opts Options) (*Output, error) {
	syms := shader.Extract(vert.Source, frag.Source)

	data := classData{
		ClassName:      opts.className(),
		BaseClass:      opts.BaseClass,
		Attributes:     fieldNames(syms.Attributes, opts.TransformNames),
		Uniforms:       fieldNames(syms.Uniforms, opts.TransformNames),
		VertexSource:   vert.Source,
		FragmentSource: frag.Source,
	}
	if err := checkFieldConflicts(data.Attributes, data.Uniforms); err != nil {
		return nil, err
	}
	src, err := render(data)
	if err != nil {
		return nil, err
	}

	return &Output{
		ClassName:      data.ClassName,
		Source:         src,
		VertexSource:   vert.Source,
		FragmentSource: frag.Source,
		Attributes:     syms.Attributes,
		Uniforms:       syms.Uniforms,
		Includes:       mergeIncludes(vert.Files, frag.Files),
		SourceHash:     shader.SourceHash(vert.Source, frag.Source),
	}, nil
}

func fieldNames(syms []shader.Symbol, transform bool) []string {
	names := make([]string, len(syms))
	for i, s := range syms {
		names[i] = s.FieldName(transform)
	}
	return names
}

func checkFieldConflicts(attributes, uniforms []string) error {
	for _, u := range uniforms {
		if slices.Contains(attributes, u) {
			return &FieldConflictError{Field: u}
		}
	}
	return nil
}

func mergeIncludes(lists ...[]string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, list := range lists {
		for _, f := range list {
			if !seen[f] {
				seen[f] = true
				out = append(out, f)
			}
		}
	}
	return out
}
