package cli

import (
	"errors"
	"io/fs"

	"github.com/roach88/shadergen/internal/codegen"
	"github.com/roach88/shadergen/internal/config"
	"github.com/roach88/shadergen/internal/include"
)

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeNotFound    = "E005" // Shader or path not found
	ErrCodeWriteFailed = "E007" // File write error

	// Include errors (E010-E019)
	ErrCodeIncludeNotFound   = "E010" // No search path contains the include
	ErrCodeIncludeDepth      = "E011" // Include nesting too deep
	ErrCodeIncludeCycle      = "E012" // File includes itself
	ErrCodeInvalidIdentifier = "E013" // Class or base class name rejected
	ErrCodeFieldConflict     = "E014" // Attribute and uniform share a field name

	// Config errors (E020-E029)
	ErrCodeConfigLoad    = "E020" // Config file unreadable or malformed
	ErrCodeConfigInvalid = "E021" // Config failed validation
	ErrCodeNoConfig      = "E022" // No config file found
)

// ErrorCode maps an error from generation or config loading to an error code.
func ErrorCode(err error) string {
	var (
		missing  *codegen.MissingInputError
		ident    *codegen.IdentifierError
		conflict *codegen.FieldConflictError
		notFound *include.NotFoundError
		depth    *include.DepthError
		cycle    *include.CycleError
		loadErr  *config.LoadError
		valErr   config.ValidationError
	)
	switch {
	case errors.As(err, &missing):
		return ErrCodeNotFound
	case errors.As(err, &ident):
		return ErrCodeInvalidIdentifier
	case errors.As(err, &conflict):
		return ErrCodeFieldConflict
	case errors.As(err, &notFound):
		return ErrCodeIncludeNotFound
	case errors.As(err, &depth):
		return ErrCodeIncludeDepth
	case errors.As(err, &cycle):
		return ErrCodeIncludeCycle
	case errors.Is(err, config.ErrNoConfig):
		return ErrCodeNoConfig
	case errors.As(err, &loadErr):
		return ErrCodeConfigLoad
	case errors.As(err, &valErr):
		return ErrCodeConfigInvalid
	case errors.Is(err, fs.ErrNotExist):
		return ErrCodeNotFound
	default:
		return ErrCodeGeneric
	}
}

// errorDetails returns structured context for JSON error output, or nil.
func errorDetails(err error) interface{} {
	var (
		missing  *codegen.MissingInputError
		notFound *include.NotFoundError
		depth    *include.DepthError
		cycle    *include.CycleError
		loadErr  *config.LoadError
	)
	switch {
	case errors.As(err, &missing):
		return map[string]string{"stage": missing.Stage, "path": missing.Path}
	case errors.As(err, &notFound):
		return map[string]interface{}{"include": notFound.Name, "from": notFound.From, "searched": notFound.Searched}
	case errors.As(err, &depth):
		return map[string]interface{}{"depth": depth.Depth, "chain": depth.Chain}
	case errors.As(err, &cycle):
		return map[string]interface{}{"chain": cycle.Chain}
	case errors.As(err, &loadErr):
		details := map[string]interface{}{"path": loadErr.Path}
		if line := configErrorLine(loadErr); line > 0 {
			details["line"] = line
		}
		return details
	}
	return nil
}

// configErrorLine returns the 1-based line of a config error, 0 when unknown.
func configErrorLine(e *config.LoadError) int {
	if e.Pos.IsValid() {
		return e.Pos.Line()
	}
	return e.Line
}

// outputCommandError reports err and returns it as a command error (exit code 2).
func outputCommandError(formatter *OutputFormatter, err error) error {
	code := ErrorCode(err)
	_ = formatter.Error(code, err.Error(), errorDetails(err))
	return WrapExitError(ExitCommandError, code, err)
}
