// Package docstring parses YARD-style comment text into free text plus tags,
// and serializes it back.
//
// Supported tag syntax:
//
//	@param name [Type, Other] text
//	@param [Type] name text
//	@return [Type] text
//	@see text
//
// Tag text continues on following lines that are indented. Lines starting
// with "@!" are directives; Parse drops them, ExtractDirectives returns them.
package docstring

import (
	"strings"
)

// Tag names that take a parameter name after the tag (or after the types).
var namedTags = map[string]bool{
	"param":       true,
	"yieldparam":  true,
	"option":      true,
	"attr":        true,
	"attr_reader": true,
	"attr_writer": true,
}

// Tag names whose first bracketed section is a type list.
var typedTags = map[string]bool{
	"param":       true,
	"return":      true,
	"yieldparam":  true,
	"yieldreturn": true,
	"raise":       true,
	"option":      true,
	"attr":        true,
	"attr_reader": true,
	"attr_writer": true,
}

// Tag is one @tag entry.
type Tag struct {
	Name      string
	Text      string
	Types     []string
	ParamName string
}

// Docstring is parsed documentation: free text followed by tags.
type Docstring struct {
	Text string
	Tags []Tag
}

// Parse turns raw comment text into a Docstring.
func Parse(raw string) *Docstring {
	d := &Docstring{}
	var text []string
	var current *Tag
	inDirective := false

	for _, line := range strings.Split(raw, "\n") {
		indented := strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(line, "@!"):
			inDirective = true
			current = nil
		case strings.HasPrefix(line, "@") && len(trimmed) > 1:
			inDirective = false
			d.Tags = append(d.Tags, parseTag(trimmed[1:]))
			current = &d.Tags[len(d.Tags)-1]
		case indented && trimmed != "" && inDirective:
			// directive body
		case indented && trimmed != "" && current != nil:
			if current.Text == "" {
				current.Text = trimmed
			} else {
				current.Text += "\n" + trimmed
			}
		default:
			inDirective = false
			current = nil
			text = append(text, strings.TrimRight(line, " \t"))
		}
	}
	d.Text = strings.TrimSpace(strings.Join(text, "\n"))
	return d
}

func parseTag(s string) Tag {
	name, rest := splitWord(s)
	tag := Tag{Name: name}
	rest = strings.TrimSpace(rest)

	if typedTags[name] && strings.HasPrefix(rest, "[") {
		tag.Types, rest = parseTypes(rest)
	}
	if namedTags[name] {
		tag.ParamName, rest = splitWord(rest)
		rest = strings.TrimSpace(rest)
		if tag.Types == nil && typedTags[name] && strings.HasPrefix(rest, "[") {
			tag.Types, rest = parseTypes(rest)
		}
	}
	tag.Text = strings.TrimSpace(rest)
	return tag
}

func splitWord(s string) (string, string) {
	s = strings.TrimLeft(s, " \t")
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		return s[:i], s[i+1:]
	}
	return s, ""
}

// parseTypes reads a bracketed type list from the start of s.
func parseTypes(s string) ([]string, string) {
	depth := 0
	for i, r := range s {
		switch r {
		case '[', '<', '{', '(':
			depth++
		case ']', '>', '}', ')':
			if r == '>' && i > 0 && s[i-1] == '=' {
				// hash rocket inside Hash{K => V}
				continue
			}
			depth--
			if depth == 0 && r == ']' {
				return SplitTypes(s[1:i]), strings.TrimSpace(s[i+1:])
			}
		}
	}
	return nil, s
}

// SplitTypes splits a comma separated type list, ignoring commas inside nested types.
func SplitTypes(s string) []string {
	types := []string{}
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '[', '<', '{', '(':
			depth++
		case ']', '>', '}', ')':
			if r == '>' && i > 0 && s[i-1] == '=' {
				continue
			}
			depth--
		case ',':
			if depth == 0 {
				if t := strings.TrimSpace(s[start:i]); t != "" {
					types = append(types, t)
				}
				start = i + 1
			}
		}
	}
	if t := strings.TrimSpace(s[start:]); t != "" {
		types = append(types, t)
	}
	return types
}

// AddTag appends a tag.
func (d *Docstring) AddTag(t Tag) {
	d.Tags = append(d.Tags, t)
}

// Tag returns the first tag with the given name, or nil.
func (d *Docstring) Tag(name string) *Tag {
	for i := range d.Tags {
		if d.Tags[i].Name == name {
			return &d.Tags[i]
		}
	}
	return nil
}

// ParamTag returns the @param tag for a parameter name, or nil.
func (d *Docstring) ParamTag(param string) *Tag {
	for i := range d.Tags {
		if d.Tags[i].Name == "param" && d.Tags[i].ParamName == param {
			return &d.Tags[i]
		}
	}
	return nil
}

// HasTag reports whether a tag with the given name exists.
func (d *Docstring) HasTag(name string) bool {
	return d.Tag(name) != nil
}

// RemoveTags deletes every tag for which drop returns true.
func (d *Docstring) RemoveTags(drop func(Tag) bool) {
	kept := d.Tags[:0]
	for _, t := range d.Tags {
		if !drop(t) {
			kept = append(kept, t)
		}
	}
	d.Tags = kept
}

// ToRaw serializes the docstring back into comment text.
func (d *Docstring) ToRaw() string {
	parts := make([]string, 0, len(d.Tags)+1)
	if text := strings.TrimSpace(d.Text); text != "" {
		parts = append(parts, text)
	}
	for _, t := range d.Tags {
		parts = append(parts, t.raw())
	}
	return strings.Join(parts, "\n")
}

func (t Tag) raw() string {
	var sb strings.Builder
	sb.WriteByte('@')
	sb.WriteString(t.Name)
	if t.Types != nil {
		sb.WriteString(" [")
		sb.WriteString(strings.Join(t.Types, ", "))
		sb.WriteByte(']')
	}
	if t.ParamName != "" {
		sb.WriteByte(' ')
		sb.WriteString(t.ParamName)
	}
	if t.Text != "" {
		sb.WriteByte(' ')
		sb.WriteString(strings.ReplaceAll(t.Text, "\n", "\n  "))
	}
	return sb.String()
}

// Summary returns the first sentence or line of the free text.
func (d *Docstring) Summary() string {
	text := d.Text
	if i := strings.Index(text, "\n\n"); i >= 0 {
		text = text[:i]
	}
	text = strings.Join(strings.Fields(text), " ")
	if i := strings.Index(text, ". "); i >= 0 {
		return text[:i+1]
	}
	return text
}
