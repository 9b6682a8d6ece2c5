package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/shadergen/internal/codegen"
)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	Extends        string
	TransformNames bool
	ClassName      string
	IncludeDirs    []string
	Output         string // output file path, stdout when empty
}

// GenerateResult is the JSON payload of the generate command.
type GenerateResult struct {
	*codegen.Output
	Path string `json:"path,omitempty"`
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "generate <vertex> <fragment>",
		Short: "Generate a TypeScript class from a shader pair",
		Long: `Generate a TypeScript class from a vertex and a fragment shader.

Each attribute in the vertex shader becomes a number field and each uniform
in either shader becomes a WebGLUniformLocation field. Both expanded sources
are embedded as static vsSource and fsSource members.

Example:
  shadergen generate sprite.vert sprite.frag
  shadergen generate -e ShaderProgram -t -o src/sprite.ts sprite.vert sprite.frag`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Extends, "extends", "e", "", "base class for the generated class")
	cmd.Flags().BoolVarP(&opts.TransformNames, "transform-names", "t", false, "prefix field names (aPosition, uColor)")
	cmd.Flags().StringVarP(&opts.ClassName, "class-name", "c", codegen.DefaultClassName, "name of the generated class")
	cmd.Flags().StringArrayVarP(&opts.IncludeDirs, "include-dir", "I", nil, "additional include search directory (repeatable)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runGenerate(opts *GenerateOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	out, err := codegen.GenerateFiles(args[0], args[1], codegen.Options{
		ClassName:      opts.ClassName,
		BaseClass:      opts.Extends,
		TransformNames: opts.TransformNames,
		IncludeDirs:    opts.IncludeDirs,
	})
	if err != nil {
		return outputCommandError(formatter, err)
	}

	for _, inc := range out.Includes {
		formatter.VerboseLog("Included %s", inc)
	}
	formatter.VerboseLog("Found %d attribute(s), %d uniform(s)", len(out.Attributes), len(out.Uniforms))

	if opts.Output != "" {
		if err := writeOutput(opts.Output, out.Source); err != nil {
			_ = formatter.Error(ErrCodeWriteFailed, err.Error(), nil)
			return WrapExitError(ExitCommandError, ErrCodeWriteFailed, err)
		}
	}

	if formatter.Format == "json" {
		return formatter.Success(GenerateResult{Output: out, Path: opts.Output})
	}

	if opts.Output == "" {
		fmt.Fprint(formatter.Writer, out.Source)
		return nil
	}
	fmt.Fprintf(formatter.Writer, "✓ Wrote %s (%s: %d attribute(s), %d uniform(s))\n",
		opts.Output, out.ClassName, len(out.Attributes), len(out.Uniforms))
	return nil
}

// writeOutput writes generated source, creating parent directories.
func writeOutput(path, source string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(source), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
