package profile

import (
	"fmt"
	"io/ioutil"

	"github.com/etylermoss/sql-bulk-import-profile/constants"
	"github.com/etylermoss/sql-bulk-import-profile/logger"
	"github.com/ghodss/yaml"
	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
)

// Raw profile structs. JSON tags serve both formats since YAML is converted
// via ghodss/yaml.

type rawProfile struct {
	Name         string                `json:"name"`
	Description  string                `json:"description,omitempty"`
	Source       rawSource             `json:"source"`
	FieldGroups  map[string][]rawField `json:"fieldGroups,omitempty"`
	Deletion     string                `json:"deletion,omitempty"`
	TableMappers []rawTableMapper      `json:"tableMappers"`
}

type rawSource struct {
	Path    string                 `json:"path"`
	Format  string                 `json:"format"`
	Options map[string]interface{} `json:"options,omitempty"`
}

type rawField struct {
	Name       string         `json:"name"`
	Formatters []rawFormatter `json:"formatters,omitempty"`
	Required   string         `json:"required,omitempty"`
}

type rawFormatter struct {
	Type     string            `json:"type"`
	Default  string            `json:"default,omitempty"`
	Mappings map[string]string `json:"mappings,omitempty"`
}

type rawTableMapper struct {
	Name       string      `json:"name"`
	File       string      `json:"file"`
	FieldGroup string      `json:"fieldGroup,omitempty"`
	Table      string      `json:"table"`
	KeyColumns []string    `json:"keyColumns"`
	Deletion   string      `json:"deletion,omitempty"`
	Columns    []rawColumn `json:"columns"`
}

type rawColumn struct {
	Field  string  `json:"field,omitempty"`
	Value  *string `json:"value,omitempty"`
	Column string  `json:"column"`
	Type   string  `json:"type"`
}

// LoadProfileFromFile reads, parses and validates an import profile held in
// YAML or JSON at the supplied path. "~" prefixes are expanded.
func LoadProfileFromFile(log logger.Logger, path string) (*Profile, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, &PathResolutionError{Path: path, Reason: err.Error()}
	}
	log.Debug("loading import profile from file ", expanded)
	b, err := ioutil.ReadFile(expanded)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read import profile")
	}
	return LoadProfile(log, b)
}

// LoadProfile parses and validates an import profile from raw bytes.
func LoadProfile(log logger.Logger, b []byte) (*Profile, error) {
	raw := &rawProfile{}
	if err := yaml.Unmarshal(b, raw); err != nil {
		return nil, &ProfileError{Reason: fmt.Sprintf("unable to parse profile: %v", err)}
	}
	p, err := newProfile(raw)
	if err != nil {
		return nil, err
	}
	log.Debug("loaded import profile ", p.Name, " with ", len(p.TableMappers), " table mapper(s)")
	return p, nil
}

func newProfile(raw *rawProfile) (*Profile, error) {
	if raw.Name == "" {
		return nil, &ProfileError{Reason: "missing profile name"}
	}
	fail := func(format string, args ...interface{}) error {
		return &ProfileError{Profile: raw.Name, Reason: fmt.Sprintf(format, args...)}
	}
	switch raw.Source.Format {
	case constants.SourceFormatCsv, constants.SourceFormatTxt, constants.SourceFormatXml, constants.SourceFormatCustom:
	case "":
		return nil, fail("missing source format")
	default:
		return nil, fail("unsupported source format %q", raw.Source.Format)
	}
	deletion, err := ParseDeletion(raw.Deletion)
	if err != nil {
		return nil, fail("%v", err)
	}
	p := &Profile{
		Name:        raw.Name,
		Description: raw.Description,
		Source: Source{
			Path:    raw.Source.Path,
			Format:  raw.Source.Format,
			Options: raw.Source.Options,
		},
		FieldGroups: make(map[string]*FieldGroup),
		Deletion:    deletion,
	}
	for name, rawFields := range raw.FieldGroups { // for each field group...
		g := &FieldGroup{Name: name}
		for _, rf := range rawFields {
			if rf.Name == "" {
				return nil, fail("field group %q contains a field with no name", name)
			}
			f := &Field{Name: rf.Name}
			switch rf.Required {
			case "":
				f.Required = RequiredNone
			case string(RequiredDrop):
				f.Required = RequiredDrop
			case string(RequiredError):
				f.Required = RequiredError
			default:
				return nil, fail("field %q has unsupported required action %q", rf.Name, rf.Required)
			}
			for _, rfm := range rf.Formatters {
				switch rfm.Type {
				case FormatterTrim, FormatterUppercase, FormatterLowercase, FormatterMap:
				default:
					return nil, fail("field %q has unsupported formatter %q", rf.Name, rfm.Type)
				}
				f.Formatters = append(f.Formatters, &Formatter{
					Type:     rfm.Type,
					Default:  rfm.Default,
					Mappings: rfm.Mappings,
				})
			}
			g.Fields = append(g.Fields, f)
		}
		p.FieldGroups[name] = g
	}
	if len(raw.TableMappers) == 0 {
		return nil, fail("no table mappers defined")
	}
	for _, rm := range raw.TableMappers { // for each table mapper...
		m, err := newTableMapper(p, &rm)
		if err != nil {
			return nil, err
		}
		p.TableMappers = append(p.TableMappers, m)
	}
	return p, nil
}

func newTableMapper(p *Profile, raw *rawTableMapper) (*TableMapper, error) {
	fail := func(format string, args ...interface{}) error {
		return &ProfileError{Profile: p.Name, Reason: fmt.Sprintf(format, args...)}
	}
	if raw.Name == "" {
		return nil, fail("table mapper with no name")
	}
	if raw.File == "" {
		return nil, fail("table mapper %q has no source file", raw.Name)
	}
	if raw.Table == "" {
		return nil, fail("table mapper %q has no target table", raw.Name)
	}
	if len(raw.KeyColumns) == 0 {
		return nil, fail("table mapper %q has no key columns", raw.Name)
	}
	if len(raw.Columns) == 0 {
		return nil, fail("table mapper %q has no column mappings", raw.Name)
	}
	deletion, err := ParseDeletion(raw.Deletion)
	if err != nil {
		return nil, fail("table mapper %q: %v", raw.Name, err)
	}
	m := &TableMapper{
		Name:       raw.Name,
		File:       raw.File,
		FieldGroup: raw.FieldGroup,
		Table:      raw.Table,
		KeyColumns: raw.KeyColumns,
		Deletion:   deletion,
	}
	var group *FieldGroup
	if raw.FieldGroup != "" { // if the mapper takes its fields from a group...
		var ok bool
		group, ok = p.FieldGroups[raw.FieldGroup]
		if !ok {
			return nil, fail("table mapper %q references unknown field group %q", raw.Name, raw.FieldGroup)
		}
	}
	seenColumns := make(map[string]struct{})
	for _, rc := range raw.Columns { // for each column mapping...
		if rc.Column == "" {
			return nil, fail("table mapper %q has a mapping with no target column", raw.Name)
		}
		if rc.Field == "" && rc.Value == nil {
			return nil, fail("table mapper %q column %q maps neither a field nor a static value", raw.Name, rc.Column)
		}
		if rc.Field != "" && rc.Value != nil {
			return nil, fail("table mapper %q column %q maps both a field and a static value", raw.Name, rc.Column)
		}
		if rc.Field != "" && group != nil && group.GetField(rc.Field) == nil {
			return nil, fail("table mapper %q column %q references field %q not in group %q", raw.Name, rc.Column, rc.Field, raw.FieldGroup)
		}
		if !IsSupportedType(rc.Type) {
			return nil, fail("table mapper %q column %q has unsupported type %q", raw.Name, rc.Column, rc.Type)
		}
		if _, ok := seenColumns[rc.Column]; ok {
			return nil, fail("table mapper %q maps target column %q more than once", raw.Name, rc.Column)
		}
		seenColumns[rc.Column] = struct{}{}
		m.Columns = append(m.Columns, &ColumnMapping{
			Field:  rc.Field,
			Value:  rc.Value,
			Column: rc.Column,
			Type:   rc.Type,
		})
	}
	for _, k := range raw.KeyColumns { // every key column must be mapped...
		if _, ok := seenColumns[k]; !ok {
			return nil, fail("table mapper %q key column %q is not a mapped column", raw.Name, k)
		}
	}
	return m, nil
}

// ParseDeletion converts a user-supplied deletion policy string to a
// DeletionPolicy. The empty string is valid and means "not set".
func ParseDeletion(s string) (DeletionPolicy, error) {
	switch s {
	case "":
		return DeletionUnset, nil
	case constants.DeletionRetain:
		return DeletionRetain, nil
	case constants.DeletionDelete:
		return DeletionDelete, nil
	}
	return DeletionUnset, fmt.Errorf("unsupported deletion policy %q", s)
}
