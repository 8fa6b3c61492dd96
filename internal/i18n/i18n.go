// Package i18n resolves message keys to localized text.
package i18n

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

// DefaultLocale is used when a requested locale has no messages.
const DefaultLocale = "en"

//go:embed messages.yaml
var builtin []byte

// Catalog holds parsed message templates per locale.
type Catalog struct {
	locale    string
	templates map[string]map[string]*template.Template
}

// Default returns the catalog built from the embedded messages.
func Default(locale string) (*Catalog, error) {
	return Parse(builtin, locale)
}

// Parse builds a catalog from YAML of the form locale -> key -> template.
func Parse(data []byte, locale string) (*Catalog, error) {
	var raw map[string]map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing messages: %w", err)
	}

	c := &Catalog{templates: make(map[string]map[string]*template.Template, len(raw))}
	for loc, messages := range raw {
		c.templates[loc] = make(map[string]*template.Template, len(messages))
		for key, text := range messages {
			tmpl, err := template.New(key).Option("missingkey=zero").Parse(text)
			if err != nil {
				return nil, fmt.Errorf("parsing message %s.%s: %w", loc, key, err)
			}
			c.templates[loc][key] = tmpl
		}
	}

	if _, ok := c.templates[locale]; ok {
		c.locale = locale
	} else {
		c.locale = DefaultLocale
	}
	return c, nil
}

// Locale returns the locale messages are resolved in.
func (c *Catalog) Locale() string {
	return c.locale
}

// Lookup renders key with params. Keys missing from the catalog locale fall
// back to DefaultLocale, and keys missing there are returned as is.
func (c *Catalog) Lookup(key string, params map[string]string) string {
	tmpl, ok := c.templates[c.locale][key]
	if !ok {
		tmpl, ok = c.templates[DefaultLocale][key]
	}
	if !ok {
		return key
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, params); err != nil {
		return key
	}
	return b.String()
}
