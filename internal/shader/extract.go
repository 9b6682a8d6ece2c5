package shader

import "regexp"

// Declaration patterns. Group 2 is the precision, group 3 the type, group 4 the name.
var (
	attributePattern = regexp.MustCompile(`attribute\s+((lowp|mediump|highp)\s+)?(\w+)\s+(\w+)\s*;`)
	uniformPattern   = regexp.MustCompile(`uniform\s+((lowp|mediump|highp)\s+)?(\w+)\s+(\w+)\s*;`)
)

// ExtractAttributes returns the attribute declarations in src, in source order.
func ExtractAttributes(src string) []Symbol {
	return extract(attributePattern, KindAttribute, src)
}

// ExtractUniforms returns the uniform declarations in src, in source order.
func ExtractUniforms(src string) []Symbol {
	return extract(uniformPattern, KindUniform, src)
}

// Extract collects the symbols of a shader pair.
//
// Attributes only exist in the vertex stage. Uniforms are gathered from the
// vertex stage first, then the fragment stage. A name declared more than once
// within a kind (an include pulled in twice, a uniform shared by both stages)
// is reported once, at its first occurrence.
func Extract(vertexSrc, fragmentSrc string) Symbols {
	var syms Symbols
	syms.Attributes = appendUnique(nil, make(map[string]bool), ExtractAttributes(vertexSrc))

	seen := make(map[string]bool)
	for _, stage := range []string{vertexSrc, fragmentSrc} {
		syms.Uniforms = appendUnique(syms.Uniforms, seen, ExtractUniforms(stage))
	}

	return syms
}

func appendUnique(dst []Symbol, seen map[string]bool, src []Symbol) []Symbol {
	for _, s := range src {
		if seen[s.Name] {
			continue
		}
		seen[s.Name] = true
		dst = append(dst, s)
	}
	return dst
}

func extract(re *regexp.Regexp, kind Kind, src string) []Symbol {
	matches := re.FindAllStringSubmatch(src, -1)
	if len(matches) == 0 {
		return nil
	}

	symbols := make([]Symbol, 0, len(matches))
	for _, m := range matches {
		symbols = append(symbols, Symbol{
			Kind:      kind,
			Precision: Precision(m[2]),
			Type:      m[3],
			Name:      m[4],
		})
	}
	return symbols
}
