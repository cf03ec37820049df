// Package datasource reads tabular source files as lazy sequences of raw
// string records. Type coercion and formatting happen downstream; readers
// only deal in field names and cell text.
package datasource

import (
	"fmt"
	"os"

	"github.com/etylermoss/sql-bulk-import-profile/constants"
	"github.com/etylermoss/sql-bulk-import-profile/logger"
)

// Record is one source row. Index is the 1-based position of the record in
// the file, used in error reporting.
type Record struct {
	Index  int
	Values map[string]string
}

// Reader yields records one at a time. Next returns io.EOF when the source is
// exhausted.
type Reader interface {
	Next() (*Record, error)
	Close() error
}

// SourceNotFoundError reports a missing or unreadable source file.
type SourceNotFoundError struct {
	Path   string
	Reason string
}

func (e *SourceNotFoundError) Error() string {
	return fmt.Sprintf("source file %q not found: %v", e.Path, e.Reason)
}

// SourceFormatError reports a source file whose contents cannot be parsed.
// Record is the 1-based record index, or 0 when the error is not tied to a
// specific record.
type SourceFormatError struct {
	Path   string
	Record int
	Reason string
}

func (e *SourceFormatError) Error() string {
	if e.Record > 0 {
		return fmt.Sprintf("source file %q record %v: %v", e.Path, e.Record, e.Reason)
	}
	return fmt.Sprintf("source file %q: %v", e.Path, e.Reason)
}

// NewReader opens the source file at path and returns a Reader for the given
// format. Options are format specific; see DelimitedOptions and XmlOptions.
func NewReader(log logger.Logger, path string, format string, options map[string]interface{}) (Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &SourceNotFoundError{Path: path, Reason: err.Error()}
	}
	log.Debug("opened source file ", path, " with format ", format)
	switch format {
	case constants.SourceFormatCsv:
		return newDelimitedReader(f, path, ',', options)
	case constants.SourceFormatTxt:
		return newDelimitedReader(f, path, '\t', options)
	case constants.SourceFormatCustom:
		return newCustomDelimitedReader(f, path, options)
	case constants.SourceFormatXml:
		return newXmlReader(f, path, options)
	}
	_ = f.Close()
	return nil, &SourceFormatError{Path: path, Reason: fmt.Sprintf("unsupported source format %q", format)}
}
