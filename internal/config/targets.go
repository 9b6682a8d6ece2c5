package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/roach88/shadergen/internal/codegen"
)

// Target is a fully resolved job: absolute paths and final generation options.
type Target struct {
	Name     string          `json:"name"`
	Vertex   string          `json:"vertex"`
	Fragment string          `json:"fragment"`
	Output   string          `json:"output"`
	Options  codegen.Options `json:"-"`
}

// Targets expands the config into concrete targets: explicit jobs first, in
// file order, then discovered jobs sorted by vertex path.
func (c *Config) Targets() ([]Target, error) {
	var targets []Target
	seen := make(map[string]string)

	add := func(t Target) error {
		if prev, ok := seen[t.Output]; ok {
			return fmt.Errorf("targets %s and %s both write %s", prev, t.Name, t.Output)
		}
		seen[t.Output] = t.Name
		targets = append(targets, t)
		return nil
	}

	for i, job := range c.Jobs {
		name := job.Name
		if name == "" {
			name = fmt.Sprintf("jobs[%d]", i)
		}
		if err := add(c.target(name, job)); err != nil {
			return nil, err
		}
	}

	for i, d := range c.Discover {
		discovered, err := c.discover(d)
		if err != nil {
			return nil, fmt.Errorf("discover[%d]: %w", i, err)
		}
		for _, job := range discovered {
			if err := add(c.target(job.Name, job)); err != nil {
				return nil, err
			}
		}
	}

	return targets, nil
}

func (c *Config) target(name string, job Job) Target {
	opts := codegen.Options{
		ClassName: firstNonEmpty(job.ClassName, c.ClassName),
		BaseClass: firstNonEmpty(job.Extends, c.Extends),
	}
	switch {
	case job.TransformNames != nil:
		opts.TransformNames = *job.TransformNames
	case c.TransformNames != nil:
		opts.TransformNames = *c.TransformNames
	}
	for _, dir := range job.IncludeDirs {
		opts.IncludeDirs = append(opts.IncludeDirs, c.resolve(dir))
	}
	for _, dir := range c.IncludeDirs {
		opts.IncludeDirs = append(opts.IncludeDirs, c.resolve(dir))
	}

	return Target{
		Name:     name,
		Vertex:   c.resolve(job.Vertex),
		Fragment: c.resolve(job.Fragment),
		Output:   c.resolve(job.Output),
		Options:  opts,
	}
}

// discover globs for vertex shaders and pairs each with its fragment shader.
func (c *Config) discover(d Discover) ([]Job, error) {
	matches, err := c.glob(d.Pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", d.Pattern, err)
	}
	slices.Sort(matches)

	jobs := make([]Job, 0, len(matches))
	for _, vertex := range matches {
		stem := strings.TrimSuffix(filepath.Base(vertex), filepath.Ext(vertex))
		fragment := strings.TrimSuffix(vertex, filepath.Ext(vertex)) + d.fragmentExt()
		if _, err := os.Stat(fragment); err != nil {
			return nil, fmt.Errorf("no fragment shader for %s: %w", vertex, err)
		}

		jobs = append(jobs, Job{
			Name:     c.relative(strings.TrimSuffix(vertex, filepath.Ext(vertex))),
			Vertex:   vertex,
			Fragment: fragment,
			Output:   filepath.Join(c.resolve(d.OutputDir), stem+d.outputExt()),
		})
	}
	return jobs, nil
}

// glob matches pattern against the config directory. The directory itself is
// never interpreted as a pattern, so paths like proj[1] are safe.
func (c *Config) glob(pattern string) ([]string, error) {
	if filepath.IsAbs(filepath.FromSlash(pattern)) || c.Dir == "" {
		return doublestar.FilepathGlob(filepath.FromSlash(pattern), doublestar.WithFilesOnly())
	}

	matches, err := doublestar.Glob(os.DirFS(c.Dir), filepath.ToSlash(pattern), doublestar.WithFilesOnly())
	if err != nil {
		return nil, err
	}
	for i, m := range matches {
		matches[i] = filepath.Join(c.Dir, filepath.FromSlash(m))
	}
	return matches, nil
}

// resolve makes p absolute against the config directory.
func (c *Config) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Dir, p)
}

// relative returns p relative to the config directory when possible.
func (c *Config) relative(p string) string {
	if c.Dir == "" {
		return filepath.ToSlash(p)
	}
	rel, err := filepath.Rel(c.Dir, p)
	if err != nil {
		return filepath.ToSlash(p)
	}
	return filepath.ToSlash(rel)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
