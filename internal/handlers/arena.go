package handlers

import "sort"

// FieldRecord is one `const`/`prop` declaration, kept until its class closes.
type FieldRecord struct {
	Namespace string
	Name      string
	Types     []string
	Doc       string
	Source    string
	// Default is the default expression's source text, nil when absent.
	Default *string
	Mutable bool
}

// FieldArena accumulates field records per namespace path for the whole run.
// Records are kept after synthesis so a class reopened in a later file folds
// every field declared so far into its constructor.
type FieldArena struct {
	entries map[string][]FieldRecord
	order   []string
	// number of records already folded into a constructor, per namespace
	folded map[string]int
}

// NewFieldArena creates an empty arena.
func NewFieldArena() *FieldArena {
	return &FieldArena{
		entries: make(map[string][]FieldRecord),
		folded:  make(map[string]int),
	}
}

// Append records a field under its namespace, preserving declaration order.
func (a *FieldArena) Append(rec FieldRecord) {
	if _, ok := a.entries[rec.Namespace]; !ok {
		a.order = append(a.order, rec.Namespace)
	}
	a.entries[rec.Namespace] = append(a.entries[rec.Namespace], rec)
}

// Fields returns a copy of the records for namespace in declaration order.
func (a *FieldArena) Fields(namespace string) []FieldRecord {
	recs := a.entries[namespace]
	out := make([]FieldRecord, len(recs))
	copy(out, recs)
	return out
}

// Has reports whether namespace already has a field called name.
func (a *FieldArena) Has(namespace, name string) bool {
	for _, r := range a.entries[namespace] {
		if r.Name == name {
			return true
		}
	}
	return false
}

// MarkFolded records that every current field of namespace is in a constructor.
func (a *FieldArena) MarkFolded(namespace string) {
	a.folded[namespace] = len(a.entries[namespace])
}

// Namespaces returns the namespaces that have fields, in first-seen order.
func (a *FieldArena) Namespaces() []string {
	out := make([]string, len(a.order))
	copy(out, a.order)
	return out
}

// Orphans returns namespaces holding fields that no constructor picked up,
// e.g. fields declared in a module body or at the top level.
func (a *FieldArena) Orphans() []string {
	var out []string
	for _, ns := range a.order {
		if len(a.entries[ns]) > a.folded[ns] {
			out = append(out, ns)
		}
	}
	sort.Strings(out)
	return out
}
