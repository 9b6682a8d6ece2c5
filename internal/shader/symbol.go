package shader

import "strings"

// Kind identifies the storage qualifier of a declaration.
type Kind string

const (
	KindAttribute Kind = "attribute"
	KindUniform   Kind = "uniform"
)

// Precision is an optional GLSL ES precision qualifier.
// The zero value means no qualifier was written.
type Precision string

const (
	PrecisionNone   Precision = ""
	PrecisionLow    Precision = "lowp"
	PrecisionMedium Precision = "mediump"
	PrecisionHigh   Precision = "highp"
)

// Symbol is a single attribute or uniform declaration.
type Symbol struct {
	Kind      Kind      `json:"kind"`
	Precision Precision `json:"precision,omitempty"`
	Type      string    `json:"type"`
	Name      string    `json:"name"`
}

// String renders the symbol as it would appear in GLSL, without the semicolon.
func (s Symbol) String() string {
	parts := []string{string(s.Kind)}
	if s.Precision != PrecisionNone {
		parts = append(parts, string(s.Precision))
	}
	parts = append(parts, s.Type, s.Name)
	return strings.Join(parts, " ")
}

// FieldName returns the class field name for the symbol.
// When transform is false the GLSL name is used unchanged.
func (s Symbol) FieldName(transform bool) string {
	if !transform {
		return s.Name
	}
	if s.Kind == KindAttribute {
		return AttributeFieldName(s.Name)
	}
	return UniformFieldName(s.Name)
}

// Symbols groups the declarations of a vertex/fragment shader pair.
type Symbols struct {
	Attributes []Symbol `json:"attributes"`
	Uniforms   []Symbol `json:"uniforms"`
}

// Len returns the total number of symbols.
func (s Symbols) Len() int {
	return len(s.Attributes) + len(s.Uniforms)
}
