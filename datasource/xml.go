package datasource

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"

	"github.com/mitchellh/mapstructure"
)

// XmlOptions are the profile source options for the XML reader. Selector is
// the element name that marks one record; each child element becomes a field.
type XmlOptions struct {
	Selector string `mapstructure:"selector"`
}

type xmlReader struct {
	f        *os.File
	d        *xml.Decoder
	path     string
	selector string
	index    int
}

// xmlRecord captures the child elements of one selected record element.
type xmlRecord struct {
	Fields []xmlField `xml:",any"`
}

type xmlField struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

func newXmlReader(f *os.File, path string, options map[string]interface{}) (Reader, error) {
	opts := XmlOptions{}
	if err := mapstructure.Decode(options, &opts); err != nil {
		_ = f.Close()
		return nil, &SourceFormatError{Path: path, Reason: fmt.Sprintf("bad source options: %v", err)}
	}
	if opts.Selector == "" {
		_ = f.Close()
		return nil, &SourceFormatError{Path: path, Reason: "xml format requires a selector option"}
	}
	return &xmlReader{f: f, d: xml.NewDecoder(f), path: path, selector: opts.Selector}, nil
}

func (r *xmlReader) Next() (*Record, error) {
	for {
		tok, err := r.d.Token()
		if err == io.EOF {
			return nil, io.EOF
		}
		if err != nil {
			return nil, &SourceFormatError{Path: r.path, Record: r.index, Reason: err.Error()}
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != r.selector { // skip until the next record element...
			continue
		}
		r.index++
		rec := xmlRecord{}
		if err := r.d.DecodeElement(&rec, &se); err != nil {
			return nil, &SourceFormatError{Path: r.path, Record: r.index, Reason: err.Error()}
		}
		values := make(map[string]string, len(rec.Fields))
		for _, f := range rec.Fields {
			values[f.XMLName.Local] = f.Value
		}
		return &Record{Index: r.index, Values: values}, nil
	}
}

func (r *xmlReader) Close() error {
	return r.f.Close()
}
