/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package prompt

// Helpers that panic on error, for package-level template variables where the
// template text is known valid at compile time.

// Must wraps a call returning (*Template, error) and panics on error:
//
//	var judgePrompt = prompt.Must(prompt.New(`Score this: {{transcript}}`))
func Must(t *Template, err error) *Template {
	if err != nil {
		panic(err)
	}
	return t
}

// MustNew parses a template literal and panics on error.
func MustNew(template literal) *Template {
	return Must(New(template))
}

// MustBindText binds a string value and panics on error.
func (t *Template) MustBindText(name, value string) *Template {
	return Must(t.BindText(name, value))
}

// MustBindJSON binds JSON-rendered data and panics on error.
func (t *Template) MustBindJSON(name string, data any) *Template {
	return Must(t.BindJSON(name, data))
}

// MustBindYAML binds YAML-rendered data and panics on error.
func (t *Template) MustBindYAML(name string, data any) *Template {
	return Must(t.BindYAML(name, data))
}
