package util

import (
	"bytes"
	"strings"
	"text/template"
)

// RenderTemplate fills {{.Field}} placeholders in a prompt or message
// template. Text without template markers is returned unchanged. Missing keys
// render as empty strings.
func RenderTemplate(text string, data map[string]any) (string, error) {
	if !strings.Contains(text, "{{") {
		return text, nil
	}

	tmpl, err := template.New("message").Option("missingkey=zero").Funcs(template.FuncMap{
		"default": func(defaultVal any, val any) any {
			if val == nil || val == "" {
				return defaultVal
			}
			return val
		},
	}).Parse(text)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return strings.ReplaceAll(buf.String(), "<no value>", ""), nil
}

// MustRender is RenderTemplate for static, known-good templates; a parse
// failure returns the raw text.
func MustRender(text string, data map[string]any) string {
	out, err := RenderTemplate(text, data)
	if err != nil {
		return text
	}
	return out
}
