package cmd

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/ardnew/cfgtree/lang"
)

// TestFmtNative tests native output, including the default subcommand.
func TestFmtNative(t *testing.T) {
	path := writeFile(t, t.TempDir(), "app.cfg",
		`app={name="demo" server={host="localhost"
port=8080 } retries=0x03}`)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"default subcommand", []string{"fmt", path}, sample},
		{"explicit", []string{"fmt", "native", path}, sample},
		{
			name: "single line",
			args: []string{"fmt", "native", "-i", "0", path},
			want: `app = { name = "demo" server = { host = "localhost" port = 8080 } retries = 0x03 }` + "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := execute(t, "", tt.args...)
			if err != nil {
				t.Fatal(err)
			}

			if got != tt.want {
				t.Errorf("fmt output =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

// TestFmtNodes tests that fmt nodes matches the parse command.
func TestFmtNodes(t *testing.T) {
	path := writeFile(t, t.TempDir(), "app.cfg", sample)

	nodes, err := execute(t, "", "fmt", "nodes", path)
	if err != nil {
		t.Fatal(err)
	}

	parsed, err := execute(t, "", "parse", path)
	if err != nil {
		t.Fatal(err)
	}

	if nodes != parsed {
		t.Errorf("fmt nodes =\n%s\nparse =\n%s", nodes, parsed)
	}
}

// TestFmtJSON tests the JSON record array.
func TestFmtJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "app.cfg", sample)

	got, err := execute(t, "", "fmt", "json", "-i", "0", path)
	if err != nil {
		t.Fatal(err)
	}

	if strings.Count(got, "\n") != 1 {
		t.Errorf("compact JSON spans lines:\n%s", got)
	}

	var recs []lang.Record
	if err := json.Unmarshal([]byte(got), &recs); err != nil {
		t.Fatalf("invalid JSON %q: %v", got, err)
	}

	if len(recs) != 6 {
		t.Fatalf("got %d records, want 6", len(recs))
	}

	if recs[4].Path != "app.server.port" || recs[4].Data != "8080" {
		t.Errorf("record 5 = %+v", recs[4])
	}
}

// TestFmtYAML tests nested YAML output.
func TestFmtYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "app.cfg", sample)

	got, err := execute(t, "", "fmt", "yaml", path)
	if err != nil {
		t.Fatal(err)
	}

	want := "app:\n" +
		"  name: demo\n" +
		"  server:\n" +
		"    host: localhost\n" +
		"    port: 8080\n" +
		"  retries: 3\n"

	if got != want {
		t.Errorf("fmt yaml =\n%s\nwant\n%s", got, want)
	}
}

// TestFmtTOML tests that TOML output decodes to the document values.
func TestFmtTOML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "app.cfg", sample)

	got, err := execute(t, "", "fmt", "toml", path)
	if err != nil {
		t.Fatal(err)
	}

	var doc struct {
		App struct {
			Name    string `toml:"name"`
			Retries int64  `toml:"retries"`
			Server  struct {
				Host string `toml:"host"`
				Port int64  `toml:"port"`
			} `toml:"server"`
		} `toml:"app"`
	}

	if _, err := toml.Decode(got, &doc); err != nil {
		t.Fatalf("invalid TOML %q: %v", got, err)
	}

	if doc.App.Name != "demo" || doc.App.Retries != 3 ||
		doc.App.Server.Host != "localhost" || doc.App.Server.Port != 8080 {
		t.Errorf("decoded TOML = %+v", doc)
	}
}

// TestFmtMsgPack tests that MessagePack output decodes to the document
// values.
func TestFmtMsgPack(t *testing.T) {
	path := writeFile(t, t.TempDir(), "app.cfg", sample)

	got, err := execute(t, "", "fmt", "msgpack", path)
	if err != nil {
		t.Fatal(err)
	}

	var doc struct {
		App struct {
			Name   string `msgpack:"name"`
			Server struct {
				Port int64 `msgpack:"port"`
			} `msgpack:"server"`
		} `msgpack:"app"`
	}

	if err := msgpack.Unmarshal([]byte(got), &doc); err != nil {
		t.Fatal(err)
	}

	if doc.App.Name != "demo" || doc.App.Server.Port != 8080 {
		t.Errorf("decoded MessagePack = %+v", doc)
	}
}

// TestFmtTree tests the rendered tree.
func TestFmtTree(t *testing.T) {
	path := writeFile(t, t.TempDir(), "app.cfg", sample)

	got, err := execute(t, "", "fmt", "tree", path)
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{"app", "server", "port", "8080", "╰──"} {
		if !strings.Contains(got, want) {
			t.Errorf("fmt tree missing %q:\n%s", want, got)
		}
	}

	empty := writeFile(t, t.TempDir(), "empty.cfg", "")

	got, err = execute(t, "", "fmt", "tree", empty)
	if err != nil {
		t.Fatal(err)
	}

	if got != "" {
		t.Errorf("empty document rendered %q", got)
	}
}

// TestFmtParseError tests that no output is written for invalid input.
func TestFmtParseError(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.cfg", "a = { }")

	for _, sub := range []string{"native", "nodes", "json", "yaml", "toml", "msgpack", "tree"} {
		t.Run(sub, func(t *testing.T) {
			got, err := execute(t, "", "fmt", sub, path)
			if !errors.Is(err, lang.ErrParse) {
				t.Errorf("fmt %s error = %v, want %v", sub, err, lang.ErrParse)
			}

			if got != "" {
				t.Errorf("fmt %s wrote %q", sub, got)
			}
		})
	}
}
