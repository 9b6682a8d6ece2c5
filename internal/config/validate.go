package config

import (
	"fmt"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/roach88/shadergen/internal/codegen"
)

// Validation error codes (E200-E299)
const (
	ErrNoJobs            = "E200" // neither jobs nor discover entries
	ErrJobMissingField   = "E201" // vertex, fragment or output missing
	ErrInvalidIdentifier = "E202" // class_name or extends not an identifier
	ErrDiscoverMissing   = "E203" // pattern or output_dir missing
	ErrDuplicateOutput   = "E204" // two jobs write the same file
	ErrInvalidPattern    = "E205" // malformed glob
	ErrDuplicateName     = "E206" // two jobs share a name
)

// ValidationError is a problem found in a config.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks the config. Returns all errors found (does not fail-fast).
// Discovered jobs are not expanded here; Targets checks them.
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError

	if len(c.Jobs) == 0 && len(c.Discover) == 0 {
		errs = append(errs, ValidationError{
			Field:   "jobs",
			Message: "config defines no jobs or discover entries",
			Code:    ErrNoJobs,
		})
	}

	errs = append(errs, validateIdentifiers("", c.ClassName, c.Extends)...)

	outputs := make(map[string]string)
	names := make(map[string]bool)
	for i, job := range c.Jobs {
		field := fmt.Sprintf("jobs[%d]", i)
		if job.Name != "" {
			field = fmt.Sprintf("jobs[%d](%s)", i, job.Name)
			if names[job.Name] {
				errs = append(errs, ValidationError{
					Field:   field + ".name",
					Message: fmt.Sprintf("job name %q is used more than once", job.Name),
					Code:    ErrDuplicateName,
				})
			}
			names[job.Name] = true
		}

		for _, req := range []struct{ name, value string }{
			{"vertex", job.Vertex},
			{"fragment", job.Fragment},
			{"output", job.Output},
		} {
			if req.value == "" {
				errs = append(errs, ValidationError{
					Field:   field + "." + req.name,
					Message: req.name + " is required",
					Code:    ErrJobMissingField,
				})
			}
		}

		errs = append(errs, validateIdentifiers(field+".", job.ClassName, job.Extends)...)

		if job.Output != "" {
			out := c.resolve(job.Output)
			if prev, ok := outputs[out]; ok {
				errs = append(errs, ValidationError{
					Field:   field + ".output",
					Message: fmt.Sprintf("output %s is also written by %s", job.Output, prev),
					Code:    ErrDuplicateOutput,
				})
			}
			outputs[out] = field
		}
	}

	for i, d := range c.Discover {
		field := fmt.Sprintf("discover[%d]", i)
		if d.Pattern == "" {
			errs = append(errs, ValidationError{
				Field:   field + ".pattern",
				Message: "pattern is required",
				Code:    ErrDiscoverMissing,
			})
		} else if !doublestar.ValidatePathPattern(filepath.FromSlash(d.Pattern)) {
			errs = append(errs, ValidationError{
				Field:   field + ".pattern",
				Message: fmt.Sprintf("invalid glob pattern %q", d.Pattern),
				Code:    ErrInvalidPattern,
			})
		}
		if d.OutputDir == "" {
			errs = append(errs, ValidationError{
				Field:   field + ".output_dir",
				Message: "output_dir is required",
				Code:    ErrDiscoverMissing,
			})
		}
	}

	return errs
}

func validateIdentifiers(prefix, className, extends string) []ValidationError {
	var errs []ValidationError
	if err := (codegen.Options{ClassName: className}).Validate(); err != nil {
		errs = append(errs, ValidationError{Field: prefix + "class_name", Message: err.Error(), Code: ErrInvalidIdentifier})
	}
	if err := (codegen.Options{BaseClass: extends}).Validate(); err != nil {
		errs = append(errs, ValidationError{Field: prefix + "extends", Message: err.Error(), Code: ErrInvalidIdentifier})
	}
	return errs
}
