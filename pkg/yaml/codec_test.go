package yaml

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type options struct {
	Org      []string `yaml:"org"`
	DaysBack int      `yaml:"days_back"`
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	codec := NewCodec()

	var v options
	if err := codec.Decode([]byte("org: [a, b]\ndays_back: 7\n"), &v); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(options{Org: []string{"a", "b"}, DaysBack: 7}, v); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}

	if err := codec.Decode([]byte("colour: blue\n"), &v); err == nil {
		t.Error("expected error for unknown field")
	}
}

func TestDecodeFileJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := ioutil.WriteFile(path, []byte(`{"org": ["SEEK-Jobs"], "days_back": 30}`), 0644); err != nil {
		t.Fatal(err)
	}

	var v options
	if err := NewCodec().DecodeFile(path, &v); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(options{Org: []string{"SEEK-Jobs"}, DaysBack: 30}, v); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}

	// Empty files leave v untouched
	empty := filepath.Join(dir, "empty.yaml")
	if err := ioutil.WriteFile(empty, []byte("\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := NewCodec().DecodeFile(empty, &v); err != nil {
		t.Fatal(err)
	}
	if v.DaysBack != 30 {
		t.Errorf("expected untouched value, got %d", v.DaysBack)
	}

	if err := NewCodec().DecodeFile(filepath.Join(dir, "missing.yaml"), &v); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestEncode(t *testing.T) {
	buf, err := NewCodec().Encode(map[string]interface{}{"organizations": []map[string]int{{"processed": 1}}})
	if err != nil {
		t.Fatal(err)
	}

	want := "organizations:\n  - processed: 1\n"
	if string(buf) != want {
		t.Errorf("expected %q, got %q", want, string(buf))
	}
}
