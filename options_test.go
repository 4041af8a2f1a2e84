package jsonparse_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"

	"github.com/lattice-substrate/jsonparse"
	"github.com/lattice-substrate/jsonparse/engine"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	return writeNamed(t, "jsonparse.toml", body)
}

func writeNamed(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestValidateOptions(t *testing.T) {
	var nilOpts *jsonparse.Options
	if err := nilOpts.Validate(); err != nil {
		t.Fatalf("nil options: %v", err)
	}
	for _, name := range append(engine.Names(), "") {
		if err := (&jsonparse.Options{Engine: name}).Validate(); err != nil {
			t.Fatalf("engine %q rejected: %v", name, err)
		}
	}

	bad := []jsonparse.Options{
		{Window: -1},
		{Engine: "json5"},
		{MaxDepth: -3},
		{MaxInputSize: -1},
	}
	for _, o := range bad {
		err := o.Validate()
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			t.Fatalf("Validate(%+v) = %v, want validation errors", o, err)
		}
		if _, perr := jsonparse.ParseWithOptions("{}", &o); perr == nil {
			t.Fatalf("ParseWithOptions accepted %+v", o)
		}
	}
}

func TestLimitsReachStrictEngine(t *testing.T) {
	_, err := jsonparse.ParseWithOptions("[[[1]]]", &jsonparse.Options{MaxDepth: 2})
	if e := diagnostic(t, err); e.Kind() != "LIMIT_EXCEEDED" {
		t.Fatalf("kind = %s (%v)", e.Kind(), e)
	}
	_, err = jsonparse.ParseWithOptions(`"0123456789"`, &jsonparse.Options{MaxInputSize: 4})
	if e := diagnostic(t, err); e.Kind() != "LIMIT_EXCEEDED" || e.Position() != 0 {
		t.Fatalf("kind = %s position = %d", e.Kind(), e.Position())
	}
}

func TestLoadOptions(t *testing.T) {
	path := writeFile(t, "window = 40\nengine = \"std\"\nmax_depth = 64\nmax_input_size = 1024\n")
	o, err := jsonparse.LoadOptions(path)
	if err != nil {
		t.Fatalf("LoadOptions: %v", err)
	}
	if o.Window != 40 || o.Engine != "std" || o.MaxDepth != 64 || o.MaxInputSize != 1024 {
		t.Fatalf("LoadOptions = %+v", o)
	}
	if _, err := jsonparse.ParseWithOptions(`{"a":1}`, o); err != nil {
		t.Fatalf("ParseWithOptions with loaded options: %v", err)
	}
}

func TestLoadOptionsRejects(t *testing.T) {
	cases := map[string]string{
		"unknown key":    "window = 1\ncolour = true\n",
		"bad engine":     "engine = \"json5\"\n",
		"negative":       "window = -2\n",
		"malformed toml": "window = \n",
		"wrong type":     "window = \"wide\"\n",
	}
	for name, body := range cases {
		if _, err := jsonparse.LoadOptions(writeFile(t, body)); err == nil {
			t.Fatalf("%s: LoadOptions accepted %q", name, body)
		}
	}
	_, err := jsonparse.LoadOptions(writeFile(t, "reviver = 1\n"))
	if err == nil || !strings.Contains(err.Error(), "reviver") {
		t.Fatalf("LoadOptions(reviver) = %v, want unknown option error", err)
	}
	if _, err := jsonparse.LoadOptions(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("LoadOptions accepted a missing file")
	}
}

func TestLoadOptionsYAML(t *testing.T) {
	for _, name := range []string{"jsonparse.yaml", "jsonparse.YML"} {
		path := writeNamed(t, name, "window: 8\nengine: goccy\nmax_depth: 16\n")
		o, err := jsonparse.LoadOptions(path)
		if err != nil {
			t.Fatalf("LoadOptions(%s): %v", name, err)
		}
		if o.Window != 8 || o.Engine != "goccy" || o.MaxDepth != 16 {
			t.Fatalf("LoadOptions(%s) = %+v", name, o)
		}
	}

	rejects := map[string]string{
		"unknown key": "window: 8\ncolour: red\n",
		"bad engine":  "engine: json5\n",
		"negative":    "max_input_size: -1\n",
		"wrong type":  "window: [1, 2]\n",
	}
	for name, body := range rejects {
		if _, err := jsonparse.LoadOptions(writeNamed(t, "jsonparse.yaml", body)); err == nil {
			t.Fatalf("%s: LoadOptions accepted %q", name, body)
		}
	}
}
