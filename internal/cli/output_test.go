package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/shadergen/internal/codegen"
	"github.com/roach88/shadergen/internal/config"
	"github.com/roach88/shadergen/internal/include"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "json",
		Writer:  buf,
		TraceID: "run-1",
	}

	data := map[string]string{"result": "success"}
	err := formatter.Success(data)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
	assert.Equal(t, "run-1", resp.TraceID)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "json",
		Writer:  buf,
		TraceID: "run-2",
	}

	err := formatter.Error("E010", "could not find include", nil)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E010", resp.Error.Code)
	assert.Equal(t, "could not find include", resp.Error.Message)
	assert.Equal(t, "run-2", resp.TraceID)
}

func TestOutputFormatter_JSONDoesNotEscapeHTML(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, formatter.Success(map[string]string{"source": "if (a < b && c > d) {}"}))
	assert.Contains(t, buf.String(), "a < b && c > d")
}

func TestOutputFormatter_TextSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "text",
		Writer: buf,
	}

	err := formatter.Success("All shaders generated")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "All shaders generated")
}

func TestOutputFormatter_TextError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "text",
		Writer:  buf,
		Verbose: false,
	}

	err := formatter.Error("E005", "vertex shader does not exist: a.vert", map[string]string{"stage": "vertex"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Error [E005]")
	assert.Contains(t, buf.String(), "vertex shader does not exist: a.vert")
	assert.NotContains(t, buf.String(), "Details:")
}

func TestOutputFormatter_TextErrorVerbose(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "text",
		Writer:  buf,
		Verbose: true,
	}

	details := map[string]string{"file": "common.glsl"}
	err := formatter.Error("E010", "could not find include", details)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Error [E010]")
	assert.Contains(t, buf.String(), "Details:")
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		wantLog bool
	}{
		{"verbose_enabled", true, true},
		{"verbose_disabled", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			errOut := &bytes.Buffer{}
			formatter := &OutputFormatter{
				Format:    "json",
				Writer:    out,
				ErrWriter: errOut,
				Verbose:   tt.verbose,
			}

			formatter.VerboseLog("Included %s", "common.glsl")

			assert.Empty(t, out.String(), "verbose output never goes to the main writer")
			if tt.wantLog {
				assert.Contains(t, errOut.String(), "Included common.glsl")
			} else {
				assert.Empty(t, errOut.String())
			}
		})
	}
}

// ============================================================================
// Exit codes and run IDs
// ============================================================================

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad")))

	wrapped := fmt.Errorf("outer: %w", WrapExitError(ExitFailure, "stale", errors.New("inner")))
	assert.Equal(t, ExitFailure, GetExitCode(wrapped))
}

func TestExitErrorMessage(t *testing.T) {
	err := WrapExitError(ExitCommandError, "E010", errors.New("could not find include"))
	assert.Equal(t, "E010: could not find include", err.Error())
	assert.Equal(t, "stale", NewExitError(ExitFailure, "stale").Error())
}

func TestUUIDv7Generator(t *testing.T) {
	gen := UUIDv7Generator{}
	a := gen.Generate()
	b := gen.Generate()

	id, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
	assert.NotEqual(t, a, b)
}

// ============================================================================
// Error codes
// ============================================================================

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"missing input", &codegen.MissingInputError{Stage: "vertex", Path: "a.vert"}, ErrCodeNotFound},
		{"identifier", &codegen.IdentifierError{Field: "class name", Value: "1x"}, ErrCodeInvalidIdentifier},
		{"field conflict", &codegen.FieldConflictError{Field: "tint"}, ErrCodeFieldConflict},
		{"include not found", fmt.Errorf("vertex shader: %w", &include.NotFoundError{Name: "x.glsl"}), ErrCodeIncludeNotFound},
		{"include depth", &include.DepthError{Depth: 256}, ErrCodeIncludeDepth},
		{"include cycle", &include.CycleError{Chain: []string{"a", "a"}}, ErrCodeIncludeCycle},
		{"no config", fmt.Errorf("%w in /tmp", config.ErrNoConfig), ErrCodeNoConfig},
		{"config load", &config.LoadError{Path: "shadergen.yaml", Message: "parsing YAML"}, ErrCodeConfigLoad},
		{"config invalid", config.ValidationError{Code: config.ErrNoJobs}, ErrCodeConfigInvalid},
		{"generic", errors.New("boom"), ErrCodeGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorCode(tt.err))
		})
	}
}

func TestErrorDetails(t *testing.T) {
	details := errorDetails(&include.NotFoundError{Name: "x.glsl", From: "a.vert", Searched: []string{"/s/x.glsl"}})
	m, ok := details.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "x.glsl", m["include"])
	assert.Equal(t, []string{"/s/x.glsl"}, m["searched"])

	loadDetails := errorDetails(&config.LoadError{Path: "shadergen.toml", Line: 3})
	lm, ok := loadDetails.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 3, lm["line"])

	assert.Nil(t, errorDetails(errors.New("boom")))
}
