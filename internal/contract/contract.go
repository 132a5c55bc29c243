// Package contract provides the publisher contract lookup: a read-only
// mapping from raw section names to canonical section names, keyed by a
// publication-style identifier. Tables are loaded once and are safe for
// concurrent read-only access across documents.
package contract

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Table maps style id -> lowercased raw section name -> canonical name.
type Table struct {
	styles map[string]map[string]string
}

// builtin holds the bundled contract tables. A deployment can extend or
// override them with a YAML file via LoadFile.
var builtin = map[string]map[string]string{
	"ieee": {
		"related work":          "Background",
		"literature review":     "Background",
		"prior work":            "Background",
		"materials and methods": "Methods",
		"methodology":           "Methods",
		"experimental setup":    "Methods",
		"findings":              "Results",
		"concluding remarks":    "Conclusion",
		"bibliography":          "References",
		"acknowledgment":        "Acknowledgments",
		"acknowledgements":      "Acknowledgments",
	},
	"acm": {
		"related work":          "Related Work",
		"materials and methods": "Methods",
		"bibliography":          "References",
		"acknowledgments":       "Acknowledgements",
		"acknowledgement":       "Acknowledgements",
	},
}

// Default returns a table containing only the bundled styles.
func Default() *Table {
	t := &Table{styles: make(map[string]map[string]string, len(builtin))}
	for style, entries := range builtin {
		m := make(map[string]string, len(entries))
		for raw, canonical := range entries {
			m[raw] = canonical
		}
		t.styles[style] = m
	}
	return t
}

// LoadFile returns the bundled tables merged with entries from a YAML file of
// the shape:
//
//	ieee:
//	  related work: Background
//	springer:
//	  state of the art: Background
//
// File entries win over bundled ones for the same style and raw name.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read contracts file: %w", err)
	}

	var raw map[string]map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse contracts file: %w", err)
	}

	t := Default()
	for style, entries := range raw {
		style = strings.ToLower(strings.TrimSpace(style))
		m, ok := t.styles[style]
		if !ok {
			m = make(map[string]string, len(entries))
			t.styles[style] = m
		}
		for name, canonical := range entries {
			m[strings.ToLower(strings.TrimSpace(name))] = canonical
		}
	}
	return t, nil
}

// Lookup returns the canonical name for a raw section name under the given
// style. A miss is a pass-through: the raw name comes back unchanged and ok
// is false.
func (t *Table) Lookup(style, name string) (string, bool) {
	if t == nil {
		return name, false
	}
	entries, ok := t.styles[strings.ToLower(strings.TrimSpace(style))]
	if !ok {
		return name, false
	}
	canonical, ok := entries[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return name, false
	}
	return canonical, true
}

// Styles returns the known style identifiers.
func (t *Table) Styles() []string {
	names := make([]string, 0, len(t.styles))
	for style := range t.styles {
		names = append(names, style)
	}
	return names
}
