package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/shadergen/internal/codegen"
	"github.com/roach88/shadergen/internal/shader"
)

// SymbolsOptions holds flags for the symbols command.
type SymbolsOptions struct {
	*RootOptions
	IncludeDirs []string
}

// SymbolsResult is the JSON payload of the symbols command.
type SymbolsResult struct {
	shader.Symbols
	Includes   []string `json:"includes,omitempty"`
	SourceHash string   `json:"source_hash"`
}

// NewSymbolsCommand creates the symbols command.
func NewSymbolsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SymbolsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "symbols <vertex> <fragment>",
		Short: "List attributes and uniforms of a shader pair",
		Long: `List the attribute and uniform declarations found in a shader pair
after include expansion, in the order the generated class declares them.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSymbols(opts, args, cmd)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.IncludeDirs, "include-dir", "I", nil, "additional include search directory (repeatable)")

	return cmd
}

func runSymbols(opts *SymbolsOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	out, err := codegen.GenerateFiles(args[0], args[1], codegen.Options{IncludeDirs: opts.IncludeDirs})
	if err != nil {
		return outputCommandError(formatter, err)
	}

	result := SymbolsResult{
		Symbols:    shader.Symbols{Attributes: out.Attributes, Uniforms: out.Uniforms},
		Includes:   out.Includes,
		SourceHash: out.SourceHash,
	}
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	for _, s := range out.Attributes {
		fmt.Fprintln(formatter.Writer, s)
	}
	for _, s := range out.Uniforms {
		fmt.Fprintln(formatter.Writer, s)
	}
	formatter.VerboseLog("%d symbol(s), source hash %s", result.Len(), result.SourceHash)
	return nil
}
