package profile

import (
	"testing"
	"time"
)

func TestCoerceValue(t *testing.T) {
	// Integers.
	v, err := CoerceValue("qty", "int", "42")
	if err != nil || v.(int64) != 42 {
		t.Fatalf("expected 42; got %v (%v)", v, err)
	}
	if _, err = CoerceValue("qty", "int", "forty two"); err == nil {
		t.Fatal("expected a schema error for a non-integer")
	}
	// Bit.
	v, err = CoerceValue("active", "bit", "1")
	if err != nil || v.(bool) != true {
		t.Fatalf("expected true; got %v (%v)", v, err)
	}
	v, err = CoerceValue("active", "bit", "false")
	if err != nil || v.(bool) != false {
		t.Fatalf("expected false; got %v (%v)", v, err)
	}
	// Floats.
	v, err = CoerceValue("score", "float", "1.25")
	if err != nil || v.(float64) != 1.25 {
		t.Fatalf("expected 1.25; got %v (%v)", v, err)
	}
	// Decimal stays a validated string.
	v, err = CoerceValue("amount", "decimal(10,2)", "199.99")
	if err != nil || v.(string) != "199.99" {
		t.Fatalf("expected 199.99; got %v (%v)", v, err)
	}
	if _, err = CoerceValue("amount", "decimal(10,2)", "19x.99"); err == nil {
		t.Fatal("expected a schema error for a bad decimal")
	}
	// Strings.
	v, err = CoerceValue("name", "nvarchar(100)", "Ada")
	if err != nil || v.(string) != "Ada" {
		t.Fatalf("expected Ada; got %v (%v)", v, err)
	}
	// Dates.
	v, err = CoerceValue("created", "datetime2", "2024-03-01T09:30:00")
	if err != nil {
		t.Fatal(err)
	}
	if v.(time.Time).Hour() != 9 {
		t.Fatalf("unexpected time value %v", v)
	}
	v, err = CoerceValue("dob", "date", "1999-12-31")
	if err != nil {
		t.Fatal(err)
	}
	if v.(time.Time).Year() != 1999 {
		t.Fatalf("unexpected date value %v", v)
	}
	if _, err = CoerceValue("dob", "date", "31/12/1999"); err == nil {
		t.Fatal("expected a schema error for an unrecognised date layout")
	}
	// Guid.
	v, err = CoerceValue("ref", "uniqueidentifier", "6F9619FF-8B86-D011-B42D-00C04FC964FF")
	if err != nil {
		t.Fatal(err)
	}
	if _, err = CoerceValue("ref", "uniqueidentifier", "not-a-guid"); err == nil {
		t.Fatal("expected a schema error for a bad guid")
	}
	// Empty cells load as NULL.
	v, err = CoerceValue("qty", "int", "")
	if err != nil || v != nil {
		t.Fatalf("expected nil for empty cell; got %v (%v)", v, err)
	}
	// Unsupported type.
	if _, err = CoerceValue("shape", "geometry", "x"); err == nil {
		t.Fatal("expected a schema error for an unsupported type")
	}
}

func TestBaseType(t *testing.T) {
	if got := BaseType(" NVARCHAR(100) "); got != "nvarchar" {
		t.Fatalf("expected nvarchar; got %q", got)
	}
	if got := BaseType("int"); got != "int" {
		t.Fatalf("expected int; got %q", got)
	}
}
