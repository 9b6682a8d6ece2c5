// Command shadergen generates TypeScript WebGL classes from GLSL shaders.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/shadergen/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err == nil {
		return
	}

	// Commands report their own failures as ExitErrors. Anything else comes
	// from flag or argument parsing.
	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		os.Exit(cli.GetExitCode(err))
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(cli.ExitCommandError)
}
