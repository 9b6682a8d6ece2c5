package codegen

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed templates/*.tmpl
var templateDir embed.FS

var classTemplate = template.Must(
	template.New("typescript.tmpl").
		Funcs(template.FuncMap{"literal": escapeTemplateLiteral}).
		ParseFS(templateDir, "templates/typescript.tmpl"),
)

// classData is the template input. Field lists hold final field names.
type classData struct {
	ClassName      string
	BaseClass      string
	Attributes     []string
	Uniforms       []string
	VertexSource   string
	FragmentSource string
}

func render(data classData) (string, error) {
	var b bytes.Buffer
	if err := classTemplate.Execute(&b, data); err != nil {
		return "", fmt.Errorf("rendering class template: %w", err)
	}
	return b.String(), nil
}

var literalEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	"${", `\${`,
)

// escapeTemplateLiteral makes s safe to place between backticks.
func escapeTemplateLiteral(s string) string {
	return literalEscaper.Replace(s)
}
