package profile

import (
	"strings"
	"testing"

	"github.com/etylermoss/sql-bulk-import-profile/logger"
)

var testLog = logger.NewLogger("profile-test", "info", false)

const yamlProfile = `
name: people-import
description: nightly people feed
source:
  path: /data/feeds
  format: csv
fieldGroups:
  people:
    - name: id
    - name: full_name
      formatters:
        - type: trim
    - name: status
      required: drop
      formatters:
        - type: map
          default: unknown
          mappings:
            A: active
            I: inactive
deletion: retain
tableMappers:
  - name: people
    file: people.csv
    fieldGroup: people
    table: dbo.people
    keyColumns: [id]
    deletion: delete
    columns:
      - field: id
        column: id
        type: int
      - field: full_name
        column: name
        type: nvarchar(200)
      - field: status
        column: status
        type: varchar(20)
      - value: people.csv
        column: source_file
        type: varchar(260)
`

func TestLoadProfileYaml(t *testing.T) {
	p, err := LoadProfile(testLog, []byte(yamlProfile))
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "people-import" {
		t.Fatalf("expected profile name people-import; got %q", p.Name)
	}
	if p.Deletion != DeletionRetain {
		t.Fatalf("expected profile deletion retain; got %q", p.Deletion)
	}
	if len(p.TableMappers) != 1 {
		t.Fatalf("expected 1 table mapper; got %v", len(p.TableMappers))
	}
	m := p.TableMappers[0]
	if m.Deletion != DeletionDelete {
		t.Fatalf("expected mapper deletion delete; got %q", m.Deletion)
	}
	if len(m.Columns) != 4 {
		t.Fatalf("expected 4 column mappings; got %v", len(m.Columns))
	}
	if !m.Columns[3].IsStatic() {
		t.Fatal("expected source_file to be a static column")
	}
	if m.Columns[3].Field != "" || *m.Columns[3].Value != "people.csv" {
		t.Fatal("static column decoded incorrectly")
	}
	g := p.FieldGroups["people"]
	if g == nil {
		t.Fatal("expected field group people")
	}
	if g.GetField("status").Required != RequiredDrop {
		t.Fatal("expected status to be required=drop")
	}
}

func TestLoadProfileJson(t *testing.T) {
	const jsonProfile = `{
		"name": "orders-import",
		"source": {"path": "/data", "format": "txt"},
		"tableMappers": [{
			"name": "orders",
			"file": "orders.txt",
			"table": "orders",
			"keyColumns": ["order_id"],
			"columns": [
				{"field": "order_id", "column": "order_id", "type": "bigint"},
				{"field": "amount", "column": "amount", "type": "decimal(10,2)"}
			]
		}]
	}`
	p, err := LoadProfile(testLog, []byte(jsonProfile))
	if err != nil {
		t.Fatal(err)
	}
	if p.TableMappers[0].Table != "orders" {
		t.Fatalf("unexpected target table %q", p.TableMappers[0].Table)
	}
}

func TestLoadProfileValidation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing name",
			yaml:    `{"source": {"format": "csv"}, "tableMappers": []}`,
			wantErr: "missing profile name",
		},
		{
			name:    "unsupported format",
			yaml:    `{"name": "p", "source": {"format": "parquet"}, "tableMappers": []}`,
			wantErr: "unsupported source format",
		},
		{
			name:    "no mappers",
			yaml:    `{"name": "p", "source": {"format": "csv"}, "tableMappers": []}`,
			wantErr: "no table mappers",
		},
		{
			name: "unmapped key column",
			yaml: `{"name": "p", "source": {"format": "csv"}, "tableMappers": [
				{"name": "m", "file": "f.csv", "table": "t", "keyColumns": ["id"],
				 "columns": [{"field": "a", "column": "a", "type": "int"}]}]}`,
			wantErr: `key column "id" is not a mapped column`,
		},
		{
			name: "unknown field group",
			yaml: `{"name": "p", "source": {"format": "csv"}, "tableMappers": [
				{"name": "m", "file": "f.csv", "fieldGroup": "nope", "table": "t", "keyColumns": ["id"],
				 "columns": [{"field": "id", "column": "id", "type": "int"}]}]}`,
			wantErr: "unknown field group",
		},
		{
			name: "unsupported column type",
			yaml: `{"name": "p", "source": {"format": "csv"}, "tableMappers": [
				{"name": "m", "file": "f.csv", "table": "t", "keyColumns": ["id"],
				 "columns": [{"field": "id", "column": "id", "type": "geography"}]}]}`,
			wantErr: "unsupported type",
		},
		{
			name: "field and value both set",
			yaml: `{"name": "p", "source": {"format": "csv"}, "tableMappers": [
				{"name": "m", "file": "f.csv", "table": "t", "keyColumns": ["id"],
				 "columns": [{"field": "id", "value": "x", "column": "id", "type": "int"}]}]}`,
			wantErr: "both a field and a static value",
		},
		{
			name: "duplicate target column",
			yaml: `{"name": "p", "source": {"format": "csv"}, "tableMappers": [
				{"name": "m", "file": "f.csv", "table": "t", "keyColumns": ["id"],
				 "columns": [{"field": "id", "column": "id", "type": "int"},
				             {"field": "id2", "column": "id", "type": "int"}]}]}`,
			wantErr: "more than once",
		},
		{
			name:    "bad deletion policy",
			yaml:    `{"name": "p", "source": {"format": "csv"}, "deletion": "purge", "tableMappers": [{"name": "m", "file": "f", "table": "t", "keyColumns": ["id"], "columns": [{"field": "id", "column": "id", "type": "int"}]}]}`,
			wantErr: "unsupported deletion policy",
		},
	}
	for _, tt := range tests {
		_, err := LoadProfile(testLog, []byte(tt.yaml))
		if err == nil {
			t.Fatalf("%v: expected an error", tt.name)
		}
		if !strings.Contains(err.Error(), tt.wantErr) {
			t.Fatalf("%v: expected error containing %q; got %q", tt.name, tt.wantErr, err.Error())
		}
	}
}

func TestFormatterSemantics(t *testing.T) {
	f := &Field{Name: "status", Formatters: []*Formatter{
		{Type: FormatterTrim},
		{Type: FormatterUppercase},
		{Type: FormatterMap, Default: "unknown", Mappings: map[string]string{"A": "active"}},
	}}
	if got := f.Format("  a "); got != "active" {
		t.Fatalf("expected active; got %q", got)
	}
	if got := f.Format("z"); got != "unknown" {
		t.Fatalf("expected unknown; got %q", got)
	}
	lower := &Formatter{Type: FormatterLowercase}
	if got := lower.Apply("ABC"); got != "abc" {
		t.Fatalf("expected abc; got %q", got)
	}
}

func TestEffectiveDeletion(t *testing.T) {
	p := &Profile{Deletion: DeletionUnset}
	m := &TableMapper{Deletion: DeletionUnset}
	if got := m.EffectiveDeletion(p, DeletionUnset); got != DeletionRetain {
		t.Fatalf("expected default retain; got %q", got)
	}
	if got := m.EffectiveDeletion(p, DeletionDelete); got != DeletionDelete {
		t.Fatalf("expected fallback delete; got %q", got)
	}
	p.Deletion = DeletionRetain
	if got := m.EffectiveDeletion(p, DeletionDelete); got != DeletionRetain {
		t.Fatalf("expected profile default to beat the fallback; got %q", got)
	}
	m.Deletion = DeletionDelete
	if got := m.EffectiveDeletion(p, DeletionUnset); got != DeletionDelete {
		t.Fatalf("expected mapper override to win; got %q", got)
	}
}
