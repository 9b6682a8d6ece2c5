package include

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
)

// DefaultMaxDepth is the nesting limit used when Resolver.MaxDepth is zero.
const DefaultMaxDepth = 256

// inMemoryOrigin labels source that was not read from a file.
const inMemoryOrigin = "<source>"

var includePattern = regexp.MustCompile(`(?m)^#include "(.+?)"(\r?)$`)

// Resolver expands #include directives.
type Resolver struct {
	// SearchPaths are tried in order for every directive.
	SearchPaths []string

	// MaxDepth limits nesting. Zero means DefaultMaxDepth.
	MaxDepth int

	// ReadFile loads included files. Nil means os.ReadFile.
	ReadFile func(name string) ([]byte, error)
}

// Result is the outcome of a resolution.
type Result struct {
	// Source is the text with every directive expanded.
	Source string

	// Files lists each included file once, in the order it was first read.
	// The origin file itself is not listed.
	Files []string
}

// NewResolver creates a resolver with the default depth limit.
func NewResolver(searchPaths ...string) *Resolver {
	return &Resolver{SearchPaths: searchPaths}
}

// SearchPathsFor returns the search paths for a shader file: the absolute
// directory containing it, followed by extra.
func SearchPathsFor(shaderPath string, extra ...string) ([]string, error) {
	abs, err := filepath.Abs(shaderPath)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", shaderPath, err)
	}
	paths := []string{filepath.Dir(abs)}
	for _, dir := range extra {
		if dir == "" {
			continue
		}
		paths = append(paths, dir)
	}
	return paths, nil
}

// ResolveFile reads path and expands its directives.
func (r *Resolver) ResolveFile(path string) (*Result, error) {
	data, err := r.readFile(path)
	if err != nil {
		return nil, err
	}
	return r.Resolve(string(data), path)
}

// Resolve expands the directives in src. origin names the file src was read
// from and is used for cycle detection and error messages; it may be empty.
func (r *Resolver) Resolve(src, origin string) (*Result, error) {
	st := &state{seen: make(map[string]bool)}
	if origin != "" {
		origin = filepath.Clean(origin)
		st.chain = []string{origin}
	} else {
		st.chain = []string{inMemoryOrigin}
	}

	out, err := r.expand(src, origin, st, 0)
	if err != nil {
		return nil, err
	}
	return &Result{Source: out, Files: st.files}, nil
}

type state struct {
	chain []string
	files []string
	seen  map[string]bool
}

func (r *Resolver) expand(src, from string, st *state, depth int) (string, error) {
	if depth >= r.maxDepth() {
		return "", &DepthError{Depth: r.maxDepth(), Chain: slices.Clone(st.chain)}
	}

	matches := includePattern.FindAllStringSubmatchIndex(src, -1)
	if len(matches) == 0 {
		return src, nil
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		b.WriteString(src[last:m[0]])
		last = m[1]

		name := src[m[2]:m[3]]
		path, data, err := r.locate(name, from)
		if err != nil {
			return "", err
		}

		if slices.Contains(st.chain, path) {
			chain := append(slices.Clone(st.chain), path)
			return "", &CycleError{Chain: chain}
		}
		if !st.seen[path] {
			st.seen[path] = true
			st.files = append(st.files, path)
		}

		st.chain = append(st.chain, path)
		expanded, err := r.expand(string(data), path, st, depth+1)
		st.chain = st.chain[:len(st.chain)-1]
		if err != nil {
			return "", err
		}
		b.WriteString(expanded)
		// Keep the directive's line ending.
		b.WriteString(src[m[4]:m[5]])
	}
	b.WriteString(src[last:])

	return b.String(), nil
}

// locate finds name in the search paths and returns the cleaned path and contents.
func (r *Resolver) locate(name, from string) (string, []byte, error) {
	searched := make([]string, 0, len(r.SearchPaths))
	for _, dir := range r.SearchPaths {
		candidate := filepath.Clean(filepath.Join(dir, name))
		data, err := r.readFile(candidate)
		if err == nil {
			return candidate, data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", nil, fmt.Errorf("reading include %s: %w", candidate, err)
		}
		searched = append(searched, candidate)
	}
	return "", nil, &NotFoundError{Name: name, From: from, Searched: searched}
}

func (r *Resolver) readFile(name string) ([]byte, error) {
	if r.ReadFile != nil {
		return r.ReadFile(name)
	}
	return os.ReadFile(name)
}

func (r *Resolver) maxDepth() int {
	if r.MaxDepth > 0 {
		return r.MaxDepth
	}
	return DefaultMaxDepth
}
