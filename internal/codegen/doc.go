// Package codegen renders a TypeScript class for a vertex/fragment shader pair.
//
// The pipeline is linear: both stages have their #include directives
// expanded, attributes and uniforms are extracted from the expanded text, and
// the class template is executed. The generated class exposes one field per
// symbol and embeds both expanded sources as static template literals:
//
//	export default class Shader extends Program {
//	  aPosition: number;
//
//	  uMvp: WebGLUniformLocation;
//
//	  constructor(gl: WebGLRenderingContext) {
//	    super(gl, Shader.vsSource, Shader.fsSource);
//	  }
//
//	  static vsSource = `...`;
//	  static fsSource = `...`;
//	}
//
// The constructor is only emitted when a base class is configured.
package codegen
