package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaSource string

// DefaultFiles are the names Find looks for, in order.
var DefaultFiles = []string{"shadergen.yaml", "shadergen.yml", "shadergen.toml", "shadergen.cue"}

// ErrNoConfig is returned by Find when no project file exists.
var ErrNoConfig = errors.New("no shadergen config found")

// LoadError is a config file that could not be read or decoded.
type LoadError struct {
	Path    string
	Message string
	Line    int       // 1-based line, 0 when unknown
	Pos     token.Pos // CUE position if available
	Err     error
}

func (e *LoadError) Error() string {
	switch {
	case e.Pos.IsValid():
		return fmt.Sprintf("%s:%d:%d: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Message)
	case e.Line > 0:
		return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Message)
	default:
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Find returns the first of DefaultFiles present in dir.
func Find(dir string) (string, error) {
	for _, name := range DefaultFiles {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w in %s (looked for %s)", ErrNoConfig, dir, strings.Join(DefaultFiles, ", "))
}

// Load reads and decodes a project file. The format follows the extension.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Message: "reading config", Err: err}
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = decodeYAML(path, data, &cfg)
	case ".toml":
		err = decodeTOML(path, data, &cfg)
	case ".cue":
		err = decodeCUE(path, data, &cfg)
	default:
		return nil, &LoadError{Path: path, Message: fmt.Sprintf("unsupported config format %q", ext)}
	}
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &LoadError{Path: path, Message: "resolving config path", Err: err}
	}
	cfg.Path = abs
	cfg.Dir = filepath.Dir(abs)

	return &cfg, nil
}

func decodeYAML(path string, data []byte, cfg *Config) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		// An empty file decodes to an empty config; Validate reports it.
		if errors.Is(err, io.EOF) {
			return nil
		}
		return &LoadError{Path: path, Message: fmt.Sprintf("parsing YAML: %v", err), Err: err}
	}
	return nil
}

func decodeTOML(path string, data []byte, cfg *Config) error {
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(cfg); err != nil {
		loadErr := &LoadError{Path: path, Message: fmt.Sprintf("parsing TOML: %v", err), Err: err}
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			loadErr.Line, _ = decodeErr.Position()
		}
		return loadErr
	}
	return nil
}

func decodeCUE(path string, data []byte, cfg *Config) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compiling config schema: %w", err)
	}

	value := ctx.CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return cueLoadError(path, "compiling CUE", err)
	}

	value = schema.LookupPath(cue.ParsePath("#Config")).Unify(value)
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return cueLoadError(path, "validating CUE", err)
	}

	if err := value.Decode(cfg); err != nil {
		return cueLoadError(path, "decoding CUE", err)
	}
	return nil
}

// cueLoadError keeps the position of the first CUE error.
func cueLoadError(path, action string, err error) error {
	loadErr := &LoadError{Path: path, Message: fmt.Sprintf("%s: %v", action, err), Err: err}

	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return loadErr
	}
	first := errs[0]
	loadErr.Message = fmt.Sprintf("%s: %s", action, first.Error())
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		loadErr.Pos = positions[0]
	}
	return loadErr
}
