package docstring

import "strings"

// ExtractDirectives parses raw and returns the directive lines it contained.
// Directive continuation lines (indented lines after an "@!" line) stay
// attached to their directive.
func ExtractDirectives(raw string) (*Docstring, []string) {
	var directives []string
	current := -1
	for _, line := range strings.Split(raw, "\n") {
		switch {
		case strings.HasPrefix(line, "@!"):
			directives = append(directives, line)
			current = len(directives) - 1
		case current >= 0 && strings.TrimSpace(line) != "" &&
			(strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")):
			directives[current] += "\n" + line
		default:
			current = -1
		}
	}
	return Parse(raw), directives
}

// AddDirectives appends directives to raw docstring text.
func AddDirectives(raw string, directives []string) string {
	for _, d := range directives {
		if raw == "" {
			raw = d
			continue
		}
		raw += "\n" + d
	}
	return raw
}
