// Package include expands #include directives in shader source.
//
// A directive must occupy a whole line:
//
//	#include "common/lighting.glsl"
//
// The named file is looked up in each search path in order and the first hit
// replaces the directive line. Included files are expanded recursively against
// the same search paths.
//
// Resolution fails when a file cannot be found, when nesting reaches the
// configured depth limit (DefaultMaxDepth), or when a file includes itself
// directly or indirectly.
package include
