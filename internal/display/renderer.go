// Package display renders the documentation database for people: YARD style
// text pages, markdown, search results and summary statistics.
package display

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/standardbeagle/rbdoc/internal/docdb"
	"github.com/standardbeagle/rbdoc/internal/docstring"
	"github.com/standardbeagle/rbdoc/pkg/pathutil"
)

// RenderOptions controls page rendering.
type RenderOptions struct {
	Root        string // file paths are shown relative to Root
	EmbedMixins bool   // list mixes_in_class_methods modules on class pages
	Markdown    bool   // emit markdown instead of plain text
	Color       bool   // style headings with ANSI colors, ignored for markdown
	ShowSource  bool
}

// Renderer writes documentation pages.
type Renderer struct {
	opts    RenderOptions
	heading func(string) string
	label   func(string) string
	dim     func(string) string
}

// NewRenderer creates a renderer for opts.
func NewRenderer(opts RenderOptions) *Renderer {
	r := &Renderer{opts: opts}
	plain := func(s string) string { return s }
	r.heading, r.label, r.dim = plain, plain, plain
	if opts.Color && !opts.Markdown {
		r.heading = styled(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")))
		r.label = styled(lipgloss.NewStyle().Foreground(lipgloss.Color("10")))
		r.dim = styled(lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Italic(true))
	}
	return r
}

func styled(style lipgloss.Style) func(string) string {
	return func(s string) string { return style.Render(s) }
}

// RenderObject writes the page for one object.
func (r *Renderer) RenderObject(w io.Writer, obj *docdb.Object) error {
	var sb strings.Builder
	switch obj.Kind {
	case docdb.KindMethod:
		r.writeMethod(&sb, obj)
	case docdb.KindConstant:
		r.writeConstant(&sb, obj)
	default:
		r.writeNamespace(&sb, obj)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// RenderAll writes a page for every namespace in db, ordered by path.
func (r *Renderer) RenderAll(w io.Writer, db *docdb.Database) error {
	var pages []*docdb.Object
	if hasMembers(db.Root()) {
		pages = append(pages, db.Root())
	}
	for _, obj := range db.Sorted() {
		if obj.Kind.IsNamespace() {
			pages = append(pages, obj)
		}
	}
	for i, obj := range pages {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := r.RenderObject(w, obj); err != nil {
			return err
		}
	}
	return nil
}

// RenderMatches writes one entry per search hit.
func (r *Renderer) RenderMatches(w io.Writer, matches []Match) error {
	var sb strings.Builder
	for _, m := range matches {
		sig := fmt.Sprintf("%s (%s)", m.Object.Path(), m.Object.Kind)
		if loc := r.location(m.Object); loc != "" && !r.opts.Markdown {
			sig += "  " + r.dim(loc)
		}
		r.item(&sb, sig, summaryOf(m.Object))
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// hasMembers reports whether a namespace holds anything besides namespaces.
func hasMembers(ns *docdb.Object) bool {
	for _, c := range ns.Children {
		if !c.Kind.IsNamespace() {
			return true
		}
	}
	return false
}

func (r *Renderer) title(sb *strings.Builder, text string) {
	if r.opts.Markdown {
		fmt.Fprintf(sb, "# %s\n\n", text)
		return
	}
	sb.WriteString(r.heading(text))
	sb.WriteString("\n")
}

func (r *Renderer) section(sb *strings.Builder, name string) {
	if r.opts.Markdown {
		fmt.Fprintf(sb, "\n## %s\n\n", name)
		return
	}
	sb.WriteString("\n")
	sb.WriteString(r.heading(name + ":"))
	sb.WriteString("\n")
}

func (r *Renderer) field(sb *strings.Builder, name, value string) {
	if r.opts.Markdown {
		fmt.Fprintf(sb, "- **%s:** %s\n", name, value)
		return
	}
	fmt.Fprintf(sb, "  %s %s\n", r.label(name+":"), value)
}

// item writes one list entry: a signature line and an optional summary.
func (r *Renderer) item(sb *strings.Builder, sig, summary string) {
	if r.opts.Markdown {
		fmt.Fprintf(sb, "- `%s`", sig)
		if summary != "" {
			fmt.Fprintf(sb, " %s", summary)
		}
		sb.WriteString("\n")
		return
	}
	fmt.Fprintf(sb, "  %s\n", sig)
	if summary != "" {
		fmt.Fprintf(sb, "      %s\n", r.dim(summary))
	}
}

func (r *Renderer) text(sb *strings.Builder, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	sb.WriteString("\n")
	if r.opts.Markdown {
		sb.WriteString(text)
		sb.WriteString("\n")
		return
	}
	for _, line := range strings.Split(text, "\n") {
		if line == "" {
			sb.WriteString("\n")
			continue
		}
		fmt.Fprintf(sb, "  %s\n", line)
	}
}

func (r *Renderer) source(sb *strings.Builder, obj *docdb.Object) {
	if !r.opts.ShowSource || obj.Source == "" {
		return
	}
	r.section(sb, "Source")
	if r.opts.Markdown {
		fmt.Fprintf(sb, "```ruby\n%s\n```\n", obj.Source)
		return
	}
	for _, line := range strings.Split(obj.Source, "\n") {
		fmt.Fprintf(sb, "    %s\n", line)
	}
}

func (r *Renderer) location(obj *docdb.Object) string {
	if obj.File == "" {
		return ""
	}
	file := pathutil.ToRelative(obj.File, r.opts.Root)
	if obj.Line > 0 {
		return fmt.Sprintf("%s:%d", file, obj.Line)
	}
	return file
}

func (r *Renderer) writeNamespace(sb *strings.Builder, ns *docdb.Object) {
	switch ns.Kind {
	case docdb.KindRoot:
		r.title(sb, "Top Level Namespace")
	case docdb.KindClass:
		r.title(sb, "Class: "+ns.Path())
	default:
		r.title(sb, "Module: "+ns.Path())
	}
	if ns.Superclass != "" {
		r.field(sb, "Inherits", ns.Superclass)
	}
	if loc := r.location(ns); loc != "" {
		r.field(sb, "Defined in", loc)
	}
	if r.opts.EmbedMixins && len(ns.ClassMixins) > 0 {
		r.field(sb, "Class methods from", strings.Join(ns.ClassMixins, ", "))
	}

	ds := docstring.Parse(ns.Docstring)
	r.text(sb, ds.Text)
	r.writeTags(sb, ds, nil)

	var namespaces, constants, ctors, instance, class []*docdb.Object
	for _, c := range sortedChildren(ns) {
		switch {
		case c.Kind.IsNamespace():
			namespaces = append(namespaces, c)
		case c.Kind == docdb.KindConstant:
			constants = append(constants, c)
		case c.IsAttribute():
			// listed with the attributes
		case c.IsConstructor():
			ctors = append(ctors, c)
		case c.Scope == docdb.ScopeClass:
			class = append(class, c)
		default:
			instance = append(instance, c)
		}
	}

	if len(namespaces) > 0 {
		r.section(sb, "Namespaces")
		for _, c := range namespaces {
			r.item(sb, c.Path(), summaryOf(c))
		}
	}
	if len(constants) > 0 {
		r.section(sb, "Constants")
		for _, c := range constants {
			sig := c.Name
			if c.Value != "" {
				sig += " = " + firstLine(c.Value)
			}
			r.item(sb, sig, summaryOf(c))
		}
	}
	for _, scope := range []docdb.Scope{docdb.ScopeClass, docdb.ScopeInstance} {
		if !ns.HasAttributes(scope) {
			continue
		}
		if scope == docdb.ScopeClass {
			r.section(sb, "Class Attributes")
		} else {
			r.section(sb, "Instance Attributes")
		}
		r.writeAttributes(sb, ns.Attributes(scope))
	}
	if len(ctors) > 0 {
		r.section(sb, "Constructor")
		for _, c := range ctors {
			r.item(sb, methodSignature(c), summaryOf(c))
		}
	}
	if len(class) > 0 {
		r.section(sb, "Class Methods")
		for _, c := range class {
			r.item(sb, methodSignature(c), summaryOf(c))
		}
	}
	if len(instance) > 0 {
		r.section(sb, "Instance Methods")
		for _, c := range instance {
			r.item(sb, methodSignature(c), summaryOf(c))
		}
	}
}

func (r *Renderer) writeAttributes(sb *strings.Builder, table *docdb.AttributeTable) {
	names := table.Names()
	sort.Strings(names)
	for _, name := range names {
		attr, _ := table.Get(name)
		var obj *docdb.Object
		var mode string
		switch {
		case attr.Read != nil && attr.Write != nil:
			obj, mode = attr.Read, "RW"
		case attr.Read != nil:
			obj, mode = attr.Read, "R"
		case attr.Write != nil:
			obj, mode = attr.Write, "W"
		default:
			continue
		}
		sig := fmt.Sprintf("%s%s [%s]", scopePrefix(obj), name, mode)
		if types := returnTypes(obj); types != "" {
			sig += " ⇒ " + types
		}
		r.item(sb, sig, summaryOf(obj))
	}
}

func (r *Renderer) writeMethod(sb *strings.Builder, m *docdb.Object) {
	r.title(sb, "Method: "+m.Path())
	if m.Visibility != "" && m.Visibility != docdb.VisibilityPublic {
		r.field(sb, "Visibility", string(m.Visibility))
	}
	if loc := r.location(m); loc != "" {
		r.field(sb, "Defined in", loc)
	}
	if m.Explicit != nil && !*m.Explicit {
		r.field(sb, "Generated", "from field declarations")
	}

	if r.opts.Markdown {
		fmt.Fprintf(sb, "\n```ruby\n%s\n```\n", methodSignature(m))
	} else {
		fmt.Fprintf(sb, "\n  %s\n", methodSignature(m))
	}

	ds := docstring.Parse(m.Docstring)
	r.text(sb, ds.Text)
	r.writeTags(sb, ds, m)
	r.source(sb, m)
}

func (r *Renderer) writeConstant(sb *strings.Builder, c *docdb.Object) {
	r.title(sb, "Constant: "+c.Path())
	if loc := r.location(c); loc != "" {
		r.field(sb, "Defined in", loc)
	}
	if c.Value != "" {
		r.field(sb, "Value", firstLine(c.Value))
	}
	ds := docstring.Parse(c.Docstring)
	r.text(sb, ds.Text)
	r.writeTags(sb, ds, nil)
	r.source(sb, c)
}

// writeTags lists @param and @return tags in their own sections, in parameter
// order for methods, followed by every other tag.
func (r *Renderer) writeTags(sb *strings.Builder, ds *docstring.Docstring, m *docdb.Object) {
	var params, returns, other []docstring.Tag
	for _, t := range ds.Tags {
		switch t.Name {
		case "param":
			params = append(params, t)
		case "return":
			returns = append(returns, t)
		default:
			other = append(other, t)
		}
	}
	if m != nil && len(params) > 1 {
		order := make(map[string]int, len(m.Parameters))
		for i, p := range m.Parameters {
			order[strings.TrimLeft(strings.TrimSuffix(p.Name, ":"), "*&")] = i
		}
		sort.SliceStable(params, func(i, j int) bool {
			oi, iok := order[params[i].ParamName]
			oj, jok := order[params[j].ParamName]
			return iok && (!jok || oi < oj)
		})
	}

	if len(params) > 0 {
		r.section(sb, "Parameters")
		for _, t := range params {
			r.tagLine(sb, t.ParamName, t.Types, t.Text)
		}
	}
	if len(returns) > 0 {
		r.section(sb, "Returns")
		for _, t := range returns {
			r.tagLine(sb, "", t.Types, t.Text)
		}
	}
	if len(other) > 0 {
		r.section(sb, "Other tags")
		for _, t := range other {
			line := "@" + t.Name
			if t.ParamName != "" {
				line += " " + t.ParamName
			}
			r.tagLine(sb, line, t.Types, t.Text)
		}
	}
}

func (r *Renderer) tagLine(sb *strings.Builder, name string, types []string, text string) {
	parts := make([]string, 0, 3)
	if name != "" {
		parts = append(parts, name)
	}
	if len(types) > 0 {
		parts = append(parts, "("+strings.Join(types, ", ")+")")
	}
	line := strings.Join(parts, " ")
	if text != "" {
		line += " - " + strings.ReplaceAll(text, "\n", " ")
	}
	if r.opts.Markdown {
		fmt.Fprintf(sb, "- %s\n", line)
		return
	}
	fmt.Fprintf(sb, "  %s\n", line)
}

func sortedChildren(ns *docdb.Object) []*docdb.Object {
	children := make([]*docdb.Object, len(ns.Children))
	copy(children, ns.Children)
	sort.SliceStable(children, func(i, j int) bool {
		return children[i].Name < children[j].Name
	})
	return children
}

func scopePrefix(m *docdb.Object) string {
	if m.Scope == docdb.ScopeClass {
		return "."
	}
	return "#"
}

// methodSignature renders a method the way YARD lists it, e.g.
// #initialize(name:, age: nil) ⇒ Person.
func methodSignature(m *docdb.Object) string {
	var sb strings.Builder
	sb.WriteString(scopePrefix(m))
	sb.WriteString(m.Name)
	if len(m.Parameters) > 0 {
		params := make([]string, len(m.Parameters))
		for i, p := range m.Parameters {
			params[i] = formatParameter(p)
		}
		sb.WriteString("(" + strings.Join(params, ", ") + ")")
	}
	if types := returnTypes(m); types != "" {
		sb.WriteString(" ⇒ " + types)
	}
	switch m.Visibility {
	case docdb.VisibilityPrivate, docdb.VisibilityProtected:
		sb.WriteString(" (" + string(m.Visibility) + ")")
	}
	return sb.String()
}

func formatParameter(p docdb.Parameter) string {
	if p.Default == nil {
		return p.Name
	}
	if strings.HasSuffix(p.Name, ":") {
		return p.Name + " " + *p.Default
	}
	return p.Name + " = " + *p.Default
}

func returnTypes(m *docdb.Object) string {
	if m.Docstring == "" {
		return ""
	}
	if t := docstring.Parse(m.Docstring).Tag("return"); t != nil {
		return strings.Join(t.Types, ", ")
	}
	return ""
}

func summaryOf(obj *docdb.Object) string {
	if obj.Docstring == "" {
		return ""
	}
	return docstring.Parse(obj.Docstring).Summary()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " ..."
	}
	return s
}
