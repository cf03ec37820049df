package datasource

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/mitchellh/mapstructure"
)

// DelimitedOptions are the profile source options understood by the delimited
// readers. The delimiter is mandatory for the custom format and ignored for
// csv/txt, which have fixed delimiters.
type DelimitedOptions struct {
	Delimiter  string `mapstructure:"delimiter"`
	Comment    string `mapstructure:"comment"`
	LazyQuotes bool   `mapstructure:"lazyQuotes"`
}

type delimitedReader struct {
	f      *os.File
	c      *csv.Reader
	path   string
	header []string
	index  int
}

func newDelimitedReader(f *os.File, path string, delimiter rune, options map[string]interface{}) (Reader, error) {
	opts := DelimitedOptions{}
	if err := mapstructure.Decode(options, &opts); err != nil {
		_ = f.Close()
		return nil, &SourceFormatError{Path: path, Reason: fmt.Sprintf("bad source options: %v", err)}
	}
	c := csv.NewReader(f)
	c.Comma = delimiter
	c.LazyQuotes = opts.LazyQuotes
	if opts.Comment != "" {
		c.Comment = []rune(opts.Comment)[0]
	}
	r := &delimitedReader{f: f, c: c, path: path}
	if err := r.readHeader(); err != nil {
		_ = f.Close()
		return nil, err
	}
	return r, nil
}

func newCustomDelimitedReader(f *os.File, path string, options map[string]interface{}) (Reader, error) {
	opts := DelimitedOptions{}
	if err := mapstructure.Decode(options, &opts); err != nil {
		_ = f.Close()
		return nil, &SourceFormatError{Path: path, Reason: fmt.Sprintf("bad source options: %v", err)}
	}
	if opts.Delimiter == "" {
		_ = f.Close()
		return nil, &SourceFormatError{Path: path, Reason: "custom format requires a delimiter option"}
	}
	return newDelimitedReader(f, path, []rune(opts.Delimiter)[0], options)
}

func (r *delimitedReader) readHeader() error {
	header, err := r.c.Read()
	if err == io.EOF {
		return &SourceFormatError{Path: r.path, Reason: "file is empty"}
	}
	if err != nil {
		return &SourceFormatError{Path: r.path, Reason: fmt.Sprintf("unable to read header: %v", err)}
	}
	seen := make(map[string]struct{}, len(header))
	for _, name := range header {
		if name == "" {
			return &SourceFormatError{Path: r.path, Reason: "header contains an empty field name"}
		}
		if _, ok := seen[name]; ok {
			return &SourceFormatError{Path: r.path, Reason: fmt.Sprintf("header contains duplicate field %q", name)}
		}
		seen[name] = struct{}{}
	}
	r.header = header
	return nil
}

func (r *delimitedReader) Next() (*Record, error) {
	row, err := r.c.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	r.index++
	if err != nil { // includes csv.ErrFieldCount for ragged rows...
		return nil, &SourceFormatError{Path: r.path, Record: r.index, Reason: err.Error()}
	}
	values := make(map[string]string, len(r.header))
	for i, name := range r.header {
		values[name] = row[i]
	}
	return &Record{Index: r.index, Values: values}, nil
}

func (r *delimitedReader) Close() error {
	return r.f.Close()
}
