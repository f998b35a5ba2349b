package encoding

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/standardbeagle/rbdoc/internal/docdb"
	"github.com/standardbeagle/rbdoc/internal/docstring"
	rberrors "github.com/standardbeagle/rbdoc/internal/errors"
	"github.com/standardbeagle/rbdoc/internal/version"
	"github.com/standardbeagle/rbdoc/pkg/pathutil"
)

// Supported export formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// Document is the serialized form of a documentation database.
type Document struct {
	Project   string         `json:"project" yaml:"project" toml:"project"`
	Generator string         `json:"generator" yaml:"generator" toml:"generator"`
	Build     string         `json:"build,omitempty" yaml:"build,omitempty" toml:"build,omitempty"`
	Objects   []ObjectRecord `json:"objects" yaml:"objects" toml:"objects"`
}

// ObjectRecord is one exported code object.
type ObjectRecord struct {
	ID         string            `json:"id" yaml:"id" toml:"id"`
	Path       string            `json:"path" yaml:"path" toml:"path"`
	Kind       string            `json:"kind" yaml:"kind" toml:"kind"`
	Name       string            `json:"name" yaml:"name" toml:"name"`
	Namespace  string            `json:"namespace,omitempty" yaml:"namespace,omitempty" toml:"namespace,omitempty"`
	Scope      string            `json:"scope,omitempty" yaml:"scope,omitempty" toml:"scope,omitempty"`
	Visibility string            `json:"visibility,omitempty" yaml:"visibility,omitempty" toml:"visibility,omitempty"`
	File       string            `json:"file,omitempty" yaml:"file,omitempty" toml:"file,omitempty"`
	Line       int               `json:"line,omitempty" yaml:"line,omitempty" toml:"line,omitempty"`
	Summary    string            `json:"summary,omitempty" yaml:"summary,omitempty" toml:"summary,omitempty"`
	Docstring  string            `json:"docstring,omitempty" yaml:"docstring,omitempty" toml:"docstring,omitempty"`
	Tags       []TagRecord       `json:"tags,omitempty" yaml:"tags,omitempty" toml:"tags,omitempty"`
	Source     string            `json:"source,omitempty" yaml:"source,omitempty" toml:"source,omitempty"`
	Value      string            `json:"value,omitempty" yaml:"value,omitempty" toml:"value,omitempty"`
	Superclass string            `json:"superclass,omitempty" yaml:"superclass,omitempty" toml:"superclass,omitempty"`
	Mixins     []string          `json:"class_mixins,omitempty" yaml:"class_mixins,omitempty" toml:"class_mixins,omitempty"`
	Parameters []ParameterRecord `json:"parameters,omitempty" yaml:"parameters,omitempty" toml:"parameters,omitempty"`
	Explicit   *bool             `json:"explicit,omitempty" yaml:"explicit,omitempty" toml:"explicit,omitempty"`
	Attribute  bool              `json:"attribute,omitempty" yaml:"attribute,omitempty" toml:"attribute,omitempty"`
}

// TagRecord is one docstring tag.
type TagRecord struct {
	Name      string   `json:"name" yaml:"name" toml:"name"`
	ParamName string   `json:"param,omitempty" yaml:"param,omitempty" toml:"param,omitempty"`
	Types     []string `json:"types,omitempty" yaml:"types,omitempty" toml:"types,omitempty"`
	Text      string   `json:"text,omitempty" yaml:"text,omitempty" toml:"text,omitempty"`
}

// ParameterRecord is one method parameter.
type ParameterRecord struct {
	Name    string  `json:"name" yaml:"name" toml:"name"`
	Default *string `json:"default,omitempty" yaml:"default,omitempty" toml:"default,omitempty"`
}

// Options control how a database is turned into a Document.
type Options struct {
	Project string
	// Root makes file paths relative when set
	Root string
	// IncludeSource exports the source snippet of each object
	IncludeSource bool
}

// BuildDocument converts db into its export form, objects sorted by path.
func BuildDocument(db *docdb.Database, opts Options) *Document {
	objects := db.Sorted()
	doc := &Document{
		Project:   opts.Project,
		Generator: "rbdoc " + version.Version,
		Build:     version.BuildID(),
		Objects:   make([]ObjectRecord, 0, len(objects)),
	}
	for _, obj := range objects {
		doc.Objects = append(doc.Objects, buildRecord(obj, opts))
	}
	return doc
}

func buildRecord(obj *docdb.Object, opts Options) ObjectRecord {
	path := obj.Path()
	rec := ObjectRecord{
		ID:         ObjectID(path),
		Path:       path,
		Kind:       string(obj.Kind),
		Name:       obj.Name,
		Namespace:  obj.Namespace.Path(),
		File:       pathutil.ToRelative(obj.File, opts.Root),
		Line:       obj.Line,
		Value:      obj.Value,
		Superclass: obj.Superclass,
		Mixins:     nonEmpty(obj.ClassMixins),
		Explicit:   obj.Explicit,
		Attribute:  obj.IsAttribute(),
	}
	if obj.Kind == docdb.KindMethod {
		rec.Scope = string(obj.Scope)
		rec.Visibility = string(obj.Visibility)
		for _, p := range obj.Parameters {
			rec.Parameters = append(rec.Parameters, ParameterRecord{Name: p.Name, Default: p.Default})
		}
	}
	if opts.IncludeSource {
		rec.Source = obj.Source
	}

	if obj.Docstring != "" {
		ds := docstring.Parse(obj.Docstring)
		rec.Summary = ds.Summary()
		rec.Docstring = ds.Text
		for _, t := range ds.Tags {
			rec.Tags = append(rec.Tags, TagRecord{
				Name:      t.Name,
				ParamName: t.ParamName,
				Types:     nonEmpty(t.Types),
				Text:      t.Text,
			})
		}
	}
	return rec
}

func nonEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}

// Write serializes doc to w in the given format.
func Write(w io.Writer, format string, doc *Document) error {
	var err error
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err = enc.Encode(doc); err == nil {
			err = enc.Close()
		}
	case FormatTOML:
		enc := toml.NewEncoder(w)
		enc.SetIndentTables(true)
		err = enc.Encode(doc)
	default:
		err = fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return rberrors.NewExportError(format, err)
	}
	return nil
}

// Export is BuildDocument followed by Write.
func Export(w io.Writer, format string, db *docdb.Database, opts Options) error {
	return Write(w, format, BuildDocument(db, opts))
}

// Read decodes a Document previously written with Write.
func Read(r io.Reader, format string) (*Document, error) {
	doc := &Document{}
	var err error
	switch format {
	case FormatJSON:
		err = json.NewDecoder(r).Decode(doc)
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(doc)
	case FormatTOML:
		err = toml.NewDecoder(r).Decode(doc)
	default:
		err = fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return nil, rberrors.NewExportError(format, err)
	}
	return doc, nil
}
