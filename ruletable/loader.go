package ruletable

import (
	"encoding/json"
	"fmt"
	"io"
	"io/fs"

	"github.com/rs/zerolog"

	dx "github.com/godental/diagnostics"
	"github.com/godental/diagnostics/rangeexpr"
)

// Document is the on-disk shape of one rule table: a family name plus
// its rows. The concrete origin of the data (spreadsheet export, hand
// curation) is out of scope; by the time it reaches the loader it is
// rows of string criteria.
type Document struct {
	Family dx.Family `json:"family"`
	Rows   []RowSpec `json:"rows"`
}

// Loader materializes Tables from JSON documents. A single Loader can
// build any number of tables; they all share its expression compiler.
type Loader struct {
	compiler *rangeexpr.Compiler
	logger   zerolog.Logger
}

// NewLoader creates a loader. cacheSize bounds the shared compiled-
// expression cache.
func NewLoader(cacheSize int, logger zerolog.Logger) *Loader {
	return &Loader{
		compiler: rangeexpr.NewCompiler(cacheSize),
		logger:   logger,
	}
}

// Compiler returns the loader's shared expression compiler.
func (l *Loader) Compiler() *rangeexpr.Compiler {
	return l.compiler
}

// LoadJSON builds a table from one JSON document.
func (l *Loader) LoadJSON(data []byte) (*Table, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse rule table: %w", err)
	}
	table, err := New(doc.Family, doc.Rows, l.compiler)
	if err != nil {
		return nil, err
	}
	l.logger.Debug().
		Str("family", doc.Family.String()).
		Int("rows", table.Len()).
		Msg("rule table loaded")
	return table, nil
}

// LoadReader builds a table from a JSON stream.
func (l *Loader) LoadReader(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read rule table: %w", err)
	}
	return l.LoadJSON(data)
}

// LoadFS builds a table from a file in the given filesystem, which may
// be an embed.FS or the host filesystem.
func (l *Loader) LoadFS(fsys fs.FS, path string) (*Table, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("read rule table %s: %w", path, err)
	}
	table, err := l.LoadJSON(data)
	if err != nil {
		return nil, fmt.Errorf("load rule table %s: %w", path, err)
	}
	return table, nil
}

// LoadAll builds tables from several documents and reports each
// family's validation findings into one merged report. With strict set,
// an error-level finding fails the load.
func (l *Loader) LoadAll(docs [][]byte, strict bool, maxIssues int) ([]*Table, *dx.Report, error) {
	report := dx.NewReport()
	tables := make([]*Table, 0, len(docs))
	for _, data := range docs {
		table, err := l.LoadJSON(data)
		if err != nil {
			return nil, report, err
		}
		report.Merge(table.Validate(maxIssues))
		tables = append(tables, table)
	}
	if strict && report.HasErrors() {
		for _, issue := range report.Errors() {
			l.logger.Error().Str("issue", issue.String()).Msg("rule table rejected")
		}
		return nil, report, fmt.Errorf("rule tables failed validation with %d error(s)", report.ErrorCount())
	}
	return tables, report, nil
}
