package rdbms

import (
	"testing"
)

func TestSchemaTable(t *testing.T) {
	// Test 1 - plain schema.table.
	st := SchemaTable{SchemaTable: "dbo.people"}
	if got := st.GetSchema(); got != "dbo" {
		t.Fatalf("expected schema dbo; got %q", got)
	}
	if got := st.GetTable(); got != "people" {
		t.Fatalf("expected table people; got %q", got)
	}
	if got := st.String(); got != "dbo.people" {
		t.Fatalf("expected dbo.people; got %q", got)
	}

	// Test 2 - bracket quoted schema and table.
	st = SchemaTable{SchemaTable: "[dbo].[people]"}
	if got := st.GetSchema(); got != "dbo" {
		t.Fatalf("expected schema dbo; got %q", got)
	}
	if got := st.GetTable(); got != "people" {
		t.Fatalf("expected table people; got %q", got)
	}

	// Test 3 - bracket quoted name containing a dot, no schema.
	st = SchemaTable{SchemaTable: "[random.table]"}
	if got := st.GetSchema(); got != "" {
		t.Fatalf("expected empty schema; got %q", got)
	}
	if got := st.GetTable(); got != "random.table" {
		t.Fatalf("expected table random.table; got %q", got)
	}

	// Test 4 - table only.
	st = SchemaTable{SchemaTable: "people"}
	if got := st.GetSchema(); got != "" {
		t.Fatalf("expected empty schema; got %q", got)
	}
	if got := st.GetTable(); got != "people" {
		t.Fatalf("expected table people; got %q", got)
	}

	// Test AppendSuffix - used to derive per-run staging table names.
	st = SchemaTable{SchemaTable: "[dbo].[people]"}
	if got := st.AppendSuffix("_bs64jl2rmn"); got != "people_bs64jl2rmn" {
		t.Fatalf("expected people_bs64jl2rmn; got %q", got)
	}
}

func TestNewSchemaTable(t *testing.T) {
	st := NewSchemaTable("dbo", "people")
	if st.String() != "dbo.people" {
		t.Fatalf("expected dbo.people; got %q", st.String())
	}
	st = NewSchemaTable("", "people")
	if st.String() != "people" {
		t.Fatalf("expected people; got %q", st.String())
	}
}
