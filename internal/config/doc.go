// Package config loads shadergen project files.
//
// A project file lists the shader pairs to generate so that a single
// "shadergen build" regenerates every class. Three formats are accepted and
// chosen by file extension:
//
//	shadergen.yaml / shadergen.yml   YAML
//	shadergen.toml                   TOML
//	shadergen.cue                    CUE, checked against the #Config schema
//
// # File Format
//
//	include_dirs: [shaders/common]
//	extends: ShaderProgram
//	transform_names: true
//	jobs:
//	  - name: sprite
//	    vertex: shaders/sprite.vert
//	    fragment: shaders/sprite.frag
//	    output: src/gen/sprite.ts
//	    class_name: SpriteShader
//	discover:
//	  - pattern: shaders/effects/**/*.vert
//	    output_dir: src/gen/effects
//
// Job fields left empty inherit the top-level values. A discover entry turns
// every matching vertex shader into a job, pairing it with the sibling file of
// the same stem and fragment_ext (default ".frag"); the output is
// output_dir/<stem><output_ext> (default ".ts").
//
// Relative paths are resolved against the directory of the project file.
package config
