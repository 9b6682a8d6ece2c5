package shader

import (
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	attributePrefix = "a"
	uniformPrefix   = "u"
)

// AttributeFieldName maps a GLSL attribute name to its class field name.
//
//	AttributeFieldName("position") // "aPosition"
func AttributeFieldName(name string) string {
	return attributePrefix + upperFirst(name)
}

// UniformFieldName maps a GLSL uniform name to its class field name.
//
//	UniformFieldName("mvp") // "uMvp"
func UniformFieldName(name string) string {
	return uniformPrefix + upperFirst(name)
}

// upperFirst uppercases the first rune and leaves the rest untouched.
// cases.Title would lowercase the remainder, which breaks camelCase names.
func upperFirst(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return cases.Upper(language.Und).String(string(r)) + s[size:]
}
