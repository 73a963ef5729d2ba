/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package prompt provides bindable prompt templates for judge and curator calls.
//
// A Template is parsed from a literal containing {{name}} placeholders. Values
// are bound immutably (each Bind returns a new Template), and Build refuses to
// render a template with unbound placeholders, so a prompt can never silently
// reach a model with a hole in it.
package prompt

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

// literal is a private alias so templates can only be built from literal
// strings written by a developer, never from user-controlled input.
type literal string

// slot is the value bound (or not yet bound) to one placeholder.
type slot interface {
	render() (string, error)
}

type emptySlot struct{ name string }

func (s emptySlot) render() (string, error) {
	return "", fmt.Errorf("unbound placeholder: %s", s.name)
}

type textSlot struct{ val string }

func (s textSlot) render() (string, error) { return s.val, nil }

type jsonSlot struct{ data any }

func (s jsonSlot) render() (string, error) {
	b, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON placeholder value: %w", err)
	}
	return string(b), nil
}

type yamlSlot struct{ data any }

func (s yamlSlot) render() (string, error) {
	b, err := yaml.Marshal(s.data)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML placeholder value: %w", err)
	}
	return string(b), nil
}

// Template is a prompt template with named placeholders.
type Template struct {
	text  string
	slots map[string]slot
}

// New parses a template literal and registers its placeholders.
func New(template literal) (*Template, error) {
	slots := make(map[string]slot)
	if _, err := walk(string(template), func(name string) (string, error) {
		if _, ok := slots[name]; !ok {
			slots[name] = emptySlot{name: name}
		}
		return "", nil
	}); err != nil {
		return nil, err
	}
	return &Template{text: string(template), slots: slots}, nil
}

// Placeholders returns the set of placeholder names in the template.
func (t *Template) Placeholders() map[string]struct{} {
	names := make(map[string]struct{}, len(t.slots))
	for name := range t.slots {
		names[name] = struct{}{}
	}
	return names
}

// bind returns a copy of the template with the named slot filled.
func (t *Template) bind(name string, s slot) (*Template, error) {
	existing, ok := t.slots[name]
	if !ok {
		return nil, fmt.Errorf("unknown placeholder: %s", name)
	}
	if _, unbound := existing.(emptySlot); !unbound {
		return nil, fmt.Errorf("placeholder already bound: %s", name)
	}
	nt := &Template{text: t.text, slots: maps.Clone(t.slots)}
	nt.slots[name] = s
	return nt, nil
}

// BindText binds a plain string value to a placeholder.
func (t *Template) BindText(name, value string) (*Template, error) {
	return t.bind(name, textSlot{val: value})
}

// BindJSON binds structured data to a placeholder, rendered as indented JSON.
func (t *Template) BindJSON(name string, data any) (*Template, error) {
	return t.bind(name, jsonSlot{data: data})
}

// BindYAML binds structured data to a placeholder, rendered as YAML.
func (t *Template) BindYAML(name string, data any) (*Template, error) {
	return t.bind(name, yamlSlot{data: data})
}

// Build renders the template, failing if any placeholder remains unbound.
func (t *Template) Build() (string, error) {
	values := make(map[string]string, len(t.slots))
	for name, s := range t.slots {
		val, err := s.render()
		if err != nil {
			return "", err
		}
		values[name] = val
	}
	return walk(t.text, func(name string) (string, error) {
		return values[name], nil
	})
}

// walk tokenizes the template, calling resolve for every {{name}} placeholder
// and substituting its return value.
func walk(template string, resolve func(name string) (string, error)) (string, error) {
	var out strings.Builder
	for len(template) > 0 {
		start := strings.Index(template, "{{")
		if start == -1 {
			out.WriteString(template)
			break
		}
		out.WriteString(template[:start])

		end := strings.Index(template[start:], "}}")
		if end == -1 {
			return "", errors.New("unclosed placeholder: missing '}}'")
		}
		end += start + 2

		name := strings.TrimSpace(template[start+2 : end-2])
		if !validName(name) {
			return "", fmt.Errorf("invalid placeholder name %q", name)
		}
		replacement, err := resolve(name)
		if err != nil {
			return "", err
		}
		out.WriteString(replacement)

		template = template[end:]
	}
	return out.String(), nil
}

// validName reports whether s is a letter followed by letters, digits, or
// underscores.
func validName(s string) bool {
	runes := []rune(s)
	if len(runes) == 0 || !unicode.IsLetter(runes[0]) {
		return false
	}
	for _, r := range runes[1:] {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return true
}
