package include

import (
	"fmt"
	"strings"
)

// NotFoundError is returned when no search path contains an included file.
type NotFoundError struct {
	Name     string   // name as written in the directive
	From     string   // file containing the directive, empty for in-memory source
	Searched []string // candidate paths that were tried
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("could not find include %q", e.Name)
	if e.From != "" {
		msg += " from " + e.From
	}
	if len(e.Searched) > 0 {
		msg += " (searched: " + strings.Join(e.Searched, ", ") + ")"
	}
	return msg
}

// DepthError is returned when include nesting reaches the depth limit.
type DepthError struct {
	Depth int
	Chain []string
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("include depth exceeds %d: %s", e.Depth, strings.Join(e.Chain, " -> "))
}

// CycleError is returned when a file includes itself through the chain.
// The last element of Chain is the file that closed the cycle.
type CycleError struct {
	Chain []string
}

func (e *CycleError) Error() string {
	return "include cycle: " + strings.Join(e.Chain, " -> ")
}
