// Copyright (c) 2026 John Earle
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package template performs single-pass {key} substitution. Values are never
// re-scanned, so a substituted value cannot trigger a second replacement, and
// a key with no value is reported instead of leaking into the output.
package template

import (
	"fmt"
	"regexp"
	"strings"
)

// Vars maps placeholder names to their replacement text.
type Vars map[string]string

// placeholderRe matches any unresolved placeholder token.
var placeholderRe = regexp.MustCompile(`\{[A-Za-z_][A-Za-z0-9_]*\}`)

// MissingKeyError reports a placeholder with no value in Vars.
type MissingKeyError struct {
	Key      string
	Template string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("template: no value for {%s} in %q", e.Key, e.Template)
}

type part struct {
	text  string
	isKey bool
}

// Template is a parsed template string.
type Template struct {
	src   string
	parts []part
}

// Parse tokenizes src. Braces that do not enclose an identifier are kept as
// literal text.
func Parse(src string) *Template {
	t := &Template{src: src}
	var lit strings.Builder
	for i := 0; i < len(src); {
		if src[i] == '{' {
			if end := identEnd(src, i+1); end > i+1 && end < len(src) && src[end] == '}' {
				if lit.Len() > 0 {
					t.parts = append(t.parts, part{text: lit.String()})
					lit.Reset()
				}
				t.parts = append(t.parts, part{text: src[i+1 : end], isKey: true})
				i = end + 1
				continue
			}
		}
		lit.WriteByte(src[i])
		i++
	}
	if lit.Len() > 0 {
		t.parts = append(t.parts, part{text: lit.String()})
	}
	return t
}

// identEnd returns the index just past the identifier starting at i.
func identEnd(s string, i int) int {
	j := i
	for j < len(s) {
		c := s[j]
		isLetter := c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		isDigit := c >= '0' && c <= '9'
		if !isLetter && !(isDigit && j > i) {
			break
		}
		j++
	}
	return j
}

// Keys returns the placeholder names in order of first appearance.
func (t *Template) Keys() []string {
	var keys []string
	seen := map[string]bool{}
	for _, p := range t.parts {
		if p.isKey && !seen[p.text] {
			seen[p.text] = true
			keys = append(keys, p.text)
		}
	}
	return keys
}

// Render substitutes vars into the template.
func (t *Template) Render(vars Vars) (string, error) {
	var b strings.Builder
	b.Grow(len(t.src))
	for _, p := range t.parts {
		if !p.isKey {
			b.WriteString(p.text)
			continue
		}
		v, ok := vars[p.text]
		if !ok {
			return "", &MissingKeyError{Key: p.text, Template: t.src}
		}
		b.WriteString(v)
	}
	return b.String(), nil
}

// Render parses and renders src in one step.
func Render(src string, vars Vars) (string, error) {
	return Parse(src).Render(vars)
}

// MustRender is like Render but panics on a missing key. Template tables are
// static data, so a missing key is a bug rather than a runtime condition.
func MustRender(src string, vars Vars) string {
	out, err := Render(src, vars)
	if err != nil {
		panic(err)
	}
	return out
}

// HasPlaceholder reports whether s still contains a {key} token.
func HasPlaceholder(s string) bool {
	return placeholderRe.MatchString(s)
}

// FindPlaceholders returns every {key} token left in s.
func FindPlaceholders(s string) []string {
	return placeholderRe.FindAllString(s, -1)
}
