package display

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/standardbeagle/rbdoc/internal/docdb"
)

// Stats summarizes a documentation database.
type Stats struct {
	Total        int
	ByKind       map[docdb.Kind]int
	Synthesized  int
	Undocumented []string
}

// ComputeStats counts objects by kind. Synthesized objects (readers, writers
// and constructors generated from field declarations) always carry generated
// documentation and are never reported as undocumented.
func ComputeStats(db *docdb.Database) Stats {
	s := Stats{ByKind: db.CountByKind()}
	for _, obj := range db.All() {
		s.Total++
		if obj.Explicit != nil && !*obj.Explicit {
			s.Synthesized++
			continue
		}
		if strings.TrimSpace(obj.Docstring) == "" {
			s.Undocumented = append(s.Undocumented, obj.Path())
		}
	}
	sort.Strings(s.Undocumented)
	return s
}

// DocumentedPercent is the share of objects with documentation.
func (s Stats) DocumentedPercent() float64 {
	if s.Total == 0 {
		return 100
	}
	return 100 * float64(s.Total-len(s.Undocumented)) / float64(s.Total)
}

// WriteStats prints s, listing at most maxUndocumented undocumented paths.
func WriteStats(w io.Writer, s Stats, maxUndocumented int) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Objects: %d\n", s.Total)
	for _, kind := range []docdb.Kind{docdb.KindModule, docdb.KindClass, docdb.KindConstant, docdb.KindMethod} {
		fmt.Fprintf(&sb, "  %-10s %d\n", string(kind)+":", s.ByKind[kind])
	}
	fmt.Fprintf(&sb, "Synthesized: %d\n", s.Synthesized)
	fmt.Fprintf(&sb, "Documented: %.2f%%\n", s.DocumentedPercent())

	if len(s.Undocumented) > 0 {
		fmt.Fprintf(&sb, "\nUndocumented objects:\n")
		for i, path := range s.Undocumented {
			if maxUndocumented > 0 && i == maxUndocumented {
				fmt.Fprintf(&sb, "  ... and %d more\n", len(s.Undocumented)-i)
				break
			}
			fmt.Fprintf(&sb, "  %s\n", path)
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
