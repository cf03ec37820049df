package datasource

import (
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/etylermoss/sql-bulk-import-profile/logger"
)

var testLog = logger.NewLogger("datasource-test", "info", false)

func writeTempFile(t *testing.T, name string, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := ioutil.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func readAll(t *testing.T, r Reader) []*Record {
	t.Helper()
	var records []*Record
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return records
		}
		if err != nil {
			t.Fatal(err)
		}
		records = append(records, rec)
	}
}

func TestCsvReader(t *testing.T) {
	path := writeTempFile(t, "people.csv", "id,name\n1,Ada\n2,Grace\n")
	r, err := NewReader(testLog, path, "csv", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	records := readAll(t, r)
	if len(records) != 2 {
		t.Fatalf("expected 2 records; got %v", len(records))
	}
	if records[0].Index != 1 || records[0].Values["name"] != "Ada" {
		t.Fatalf("unexpected first record: %+v", records[0])
	}
	if records[1].Index != 2 || records[1].Values["id"] != "2" {
		t.Fatalf("unexpected second record: %+v", records[1])
	}
}

func TestTxtReaderUsesTabs(t *testing.T) {
	path := writeTempFile(t, "people.txt", "id\tname\n1\tAda\n")
	r, err := NewReader(testLog, path, "txt", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	records := readAll(t, r)
	if len(records) != 1 || records[0].Values["name"] != "Ada" {
		t.Fatalf("unexpected records: %+v", records)
	}
}

func TestCustomDelimiter(t *testing.T) {
	path := writeTempFile(t, "people.dat", "id|name\n1|Ada\n")
	r, err := NewReader(testLog, path, "custom", map[string]interface{}{"delimiter": "|"})
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	records := readAll(t, r)
	if len(records) != 1 || records[0].Values["name"] != "Ada" {
		t.Fatalf("unexpected records: %+v", records)
	}
}

func TestCustomDelimiterRequired(t *testing.T) {
	path := writeTempFile(t, "people.dat", "id|name\n")
	_, err := NewReader(testLog, path, "custom", nil)
	if _, ok := err.(*SourceFormatError); !ok {
		t.Fatalf("expected SourceFormatError; got %v", err)
	}
}

func TestMissingSourceFile(t *testing.T) {
	_, err := NewReader(testLog, filepath.Join(os.TempDir(), "does-not-exist.csv"), "csv", nil)
	if _, ok := err.(*SourceNotFoundError); !ok {
		t.Fatalf("expected SourceNotFoundError; got %v", err)
	}
}

func TestRaggedRowReportsRecordIndex(t *testing.T) {
	path := writeTempFile(t, "people.csv", "id,name\n1,Ada\n2\n")
	r, err := NewReader(testLog, path, "csv", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	if _, err = r.Next(); err != nil { // first record is fine...
		t.Fatal(err)
	}
	_, err = r.Next()
	fe, ok := err.(*SourceFormatError)
	if !ok {
		t.Fatalf("expected SourceFormatError; got %v", err)
	}
	if fe.Record != 2 {
		t.Fatalf("expected error at record 2; got %v", fe.Record)
	}
}

func TestDuplicateHeaderRejected(t *testing.T) {
	path := writeTempFile(t, "people.csv", "id,id\n1,2\n")
	_, err := NewReader(testLog, path, "csv", nil)
	if _, ok := err.(*SourceFormatError); !ok {
		t.Fatalf("expected SourceFormatError; got %v", err)
	}
}

func TestEmptyFileRejected(t *testing.T) {
	path := writeTempFile(t, "people.csv", "")
	_, err := NewReader(testLog, path, "csv", nil)
	if _, ok := err.(*SourceFormatError); !ok {
		t.Fatalf("expected SourceFormatError; got %v", err)
	}
}

func TestXmlReader(t *testing.T) {
	const doc = `<feed>
  <person><id>1</id><name>Ada</name></person>
  <person><id>2</id><name>Grace</name></person>
</feed>`
	path := writeTempFile(t, "people.xml", doc)
	r, err := NewReader(testLog, path, "xml", map[string]interface{}{"selector": "person"})
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	records := readAll(t, r)
	if len(records) != 2 {
		t.Fatalf("expected 2 records; got %v", len(records))
	}
	if records[0].Values["name"] != "Ada" || records[1].Values["id"] != "2" {
		t.Fatalf("unexpected records: %+v %+v", records[0], records[1])
	}
}

func TestXmlSelectorRequired(t *testing.T) {
	path := writeTempFile(t, "people.xml", "<feed></feed>")
	_, err := NewReader(testLog, path, "xml", nil)
	if _, ok := err.(*SourceFormatError); !ok {
		t.Fatalf("expected SourceFormatError; got %v", err)
	}
}

func TestXmlMalformedDocument(t *testing.T) {
	path := writeTempFile(t, "people.xml", "<feed><person><id>1</id>")
	r, err := NewReader(testLog, path, "xml", map[string]interface{}{"selector": "person"})
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	_, err = r.Next()
	if _, ok := err.(*SourceFormatError); !ok {
		t.Fatalf("expected SourceFormatError; got %v", err)
	}
}
