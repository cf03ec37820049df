package helper

import (
	"testing"

	om "github.com/cevaris/ordered_map"
	"github.com/etylermoss/sql-bulk-import-profile/logger"
)

func TestOrderedMapKeysAndValues(t *testing.T) {
	log := logger.NewLogger("helper-test", "info", false)
	o := om.NewOrderedMap()
	o.Set("colA", "colA")
	o.Set("colB", "colB")
	o.Set("colC", "stagingColC")
	keys := OrderedMapKeysToStringSlice(log, o)
	if StringsToCsv(keys) != "colA,colB,colC" {
		t.Fatalf("unexpected keys: %v", keys)
	}
	vals := OrderedMapValuesToStringSlice(log, o)
	if StringsToCsv(vals) != "colA,colB,stagingColC" {
		t.Fatalf("unexpected values: %v", vals)
	}
}

func TestPrefixStrings(t *testing.T) {
	got := PrefixStrings([]string{"[id]", "[name]"}, "S.")
	if StringsToCsv(got) != "S.[id],S.[name]" {
		t.Fatalf("unexpected prefixed strings: %v", got)
	}
}
