package scripts

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// Render executes body against data. Every key the template references must
// be present in data.
func Render(body string, data map[string]any) (string, error) {
	tpl, err := template.New("script").Option("missingkey=error").Parse(body)
	if err != nil {
		return "", fmt.Errorf("parse script template: %w", err)
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render script template: %w", err)
	}
	return buf.String(), nil
}

// mustTemplate returns an embedded template body. Panics only when the binary
// was built without its templates.
func mustTemplate(name string) string {
	b, err := embeddedTemplates.ReadFile("templates/" + name)
	if err != nil {
		panic(fmt.Sprintf("embedded script template %s missing: %v", name, err))
	}
	return string(b)
}
