package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	docview "github.com/logicossoftware/go-docview"
	"github.com/logicossoftware/go-docview/internal/logger"
)

func TestRunFormat(t *testing.T) {
	cases := []struct {
		args []string
		want string
	}{
		{[]string{"a,b"}, "a,b"},
		{[]string{"-multi", "a,b", "c"}, `[a\,b,c]`},
		{[]string{"-multi", "-sort", "-type", "Long", "10", "9"}, "{Long}[9,10]"},
		{[]string{"-name", "jcr:primaryType", "-type", "Name", "nt:base"}, "nt:base"},
		{[]string{"-type", "Binary", "-refs", "abc:123"}, "{BinaryRef}abc:123"},
		{[]string{""}, `\0`},
	}
	for _, tc := range cases {
		var out bytes.Buffer
		if err := runFormat(&out, tc.args); err != nil {
			t.Fatalf("%v: %v", tc.args, err)
		}
		if got := strings.TrimSpace(out.String()); got != tc.want {
			t.Fatalf("%v: got %q want %q", tc.args, got, tc.want)
		}
	}
}

func TestRunFormatErrors(t *testing.T) {
	for _, args := range [][]string{
		{"-type", "Nope", "x"},
		{"-type", "Long", "x"},
		{"a", "b"},
	} {
		if err := runFormat(&bytes.Buffer{}, args); err == nil {
			t.Fatalf("%v: expected error", args)
		}
	}
}

func TestRunParse(t *testing.T) {
	var out bytes.Buffer
	if err := runParse(&out, []string{"-name", "tags", `{Name}[a,b]`}); err != nil {
		t.Fatal(err)
	}
	var p docview.Property
	if err := json.Unmarshal(out.Bytes(), &p); err != nil {
		t.Fatal(err)
	}
	want := docview.MustProperty("tags", []string{"a", "b"}, true, docview.TypeName, false)
	if !p.Equal(want) {
		t.Fatalf("got %v want %v", &p, want)
	}

	if err := runParse(&bytes.Buffer{}, nil); err == nil {
		t.Fatal("expected error without argument")
	}
}

func TestPackUnpack(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "props.json")
	bundle := filepath.Join(dir, "node.dvb")
	src := `{"path":"/content/a","properties":[
		{"name":"jcr:primaryType","type":"Name","multi":false,"values":["nt:unstructured"]},
		{"name":"tags","type":"String","multi":true,"values":["x","y,z"]}
	]}`
	if err := os.WriteFile(in, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	log := logger.Nop()
	if err := runPack(log, []string{"-in", in, "-out", bundle, "-comp", "lz4"}); err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if err := runUnpack(log, &out, []string{"-in", bundle}); err != nil {
		t.Fatal(err)
	}
	var bf bundleFile
	if err := json.Unmarshal(out.Bytes(), &bf); err != nil {
		t.Fatal(err)
	}
	if bf.Path != "/content/a" || len(bf.Properties) != 2 {
		t.Fatalf("unexpected bundle: %+v", bf)
	}
	if got := bf.Properties[1].Values(); len(got) != 2 || got[1] != "y,z" {
		t.Fatalf("unexpected values: %v", got)
	}

	if err := runPack(log, []string{"-in", in}); err == nil {
		t.Fatal("expected error without -out")
	}
	if err := runPack(log, []string{"-in", in, "-out", bundle, "-comp", "gzip"}); err == nil {
		t.Fatal("expected error for unknown compression")
	}
}
