// Package catalog loads the static text tables the calculators ship with.
// Tables are YAML documents embedded in each calculator package and parsed
// once at start-up; summary texts are text/template sources rendered with
// a small shared function map.
package catalog

import (
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

// Load decodes the YAML file name from fsys into a new T.
// Unknown keys are rejected so that a typo in a table fails loudly.
func Load[T any](fsys fs.FS, name string) (T, error) {
	var out T

	f, err := fsys.Open(name)
	if err != nil {
		return out, fmt.Errorf("open catalogue %s: %w", name, err)
	}
	defer func() { _ = f.Close() }()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&out); err != nil {
		return out, fmt.Errorf("decode catalogue %s: %w", name, err)
	}
	return out, nil
}

// MustLoad is Load for package initialization of embedded tables.
func MustLoad[T any](fsys fs.FS, name string) T {
	out, err := Load[T](fsys, name)
	if err != nil {
		// ALLOW-PANIC: embedded tables are part of the binary
		panic(err)
	}
	return out
}

// Funcs are available to every catalogue template.
var Funcs = template.FuncMap{
	"join": func(items []string) string {
		return strings.Join(items, "、")
	},
	"joinInts": func(items []int) string {
		parts := make([]string, len(items))
		for i, n := range items {
			parts[i] = strconv.Itoa(n)
		}
		return strings.Join(parts, "、")
	},
}

// ParseTemplate compiles a named catalogue template.
func ParseTemplate(name, text string) (*template.Template, error) {
	tmpl, err := template.New(name).Funcs(Funcs).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", name, err)
	}
	return tmpl, nil
}

// MustParseTemplate is ParseTemplate for package initialization.
func MustParseTemplate(name, text string) *template.Template {
	tmpl, err := ParseTemplate(name, text)
	if err != nil {
		// ALLOW-PANIC: embedded templates are part of the binary
		panic(err)
	}
	return tmpl
}

// Render executes tmpl with data. Templates are validated by the
// calculator tests, so a failure here is reported as an error string
// rather than a panic.
func Render(tmpl *template.Template, data any) string {
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return fmt.Sprintf("<%s: %v>", tmpl.Name(), err)
	}
	return sb.String()
}

// Lookup returns table[key] or fallback when the key is not mapped.
func Lookup[K comparable, V any](table map[K]V, key K, fallback V) V {
	if v, ok := table[key]; ok {
		return v
	}
	return fallback
}
