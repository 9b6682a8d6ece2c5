// Package shader extracts attribute and uniform declarations from GLSL source.
//
// Extraction is pattern based, not a GLSL parser. A declaration is recognised
// when it has the form
//
//	attribute [lowp|mediump|highp] <type> <name>;
//	uniform [lowp|mediump|highp] <type> <name>;
//
// Symbols are returned in source order. Commented-out declarations are still
// matched.
//
// # Field Names
//
// Generated classes may expose symbols under prefixed names: attributes get an
// "a" prefix and uniforms a "u" prefix, with the first letter of the GLSL name
// uppercased (position → aPosition, mvp → uMvp).
package shader
