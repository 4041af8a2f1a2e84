package jsonparse

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"

	"github.com/lattice-substrate/jsonparse/diag"
	"github.com/lattice-substrate/jsonparse/engine"
	"github.com/lattice-substrate/jsonparse/jsonerr"
	"github.com/lattice-substrate/jsonparse/jsonvalue"
)

// Options controls a parse. The zero value, like a nil *Options, selects the
// strict engine with its default limits and a 20 character context window.
type Options struct {
	// Reviver, when set, transforms every value after a successful parse.
	Reviver jsonvalue.Reviver `toml:"-" yaml:"-"`

	// Window is the number of characters shown on each side of a failure.
	Window int `toml:"window" yaml:"window" validate:"gte=0"`

	// Engine names the grammar engine; see engine.Names.
	Engine string `toml:"engine" yaml:"engine" validate:"omitempty,oneof=strict std jsoniter goccy"`

	// MaxDepth and MaxInputSize bound the strict engine. Zero selects
	// engine.DefaultMaxDepth and engine.DefaultMaxInputSize.
	MaxDepth     int `toml:"max_depth" yaml:"max_depth" validate:"gte=0"`
	MaxInputSize int `toml:"max_input_size" yaml:"max_input_size" validate:"gte=0"`

	// Tracer captures the stack of diagnostic errors. Nil selects
	// jsonerr.RuntimeTracer.
	Tracer jsonerr.Tracer `toml:"-" yaml:"-"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field ranges and the engine name.
func (o *Options) Validate() error {
	if o == nil {
		return nil
	}
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("jsonparse: invalid options: %w", err)
	}
	return nil
}

func (o *Options) reviver() jsonvalue.Reviver {
	if o == nil {
		return nil
	}
	return o.Reviver
}

func (o *Options) window() int {
	if o != nil && o.Window > 0 {
		return o.Window
	}
	return diag.DefaultWindow
}

func (o *Options) engine() string {
	if o != nil && o.Engine != "" {
		return o.Engine
	}
	return engine.NameStrict
}

func (o *Options) engineOptions() *engine.Options {
	if o == nil {
		return nil
	}
	return &engine.Options{MaxDepth: o.MaxDepth, MaxInputSize: o.MaxInputSize}
}

func (o *Options) tracer() jsonerr.Tracer {
	if o != nil && o.Tracer != nil {
		return o.Tracer
	}
	return jsonerr.RuntimeTracer{}
}

// LoadOptions reads, decodes and validates an options file. Files ending in
// .yaml or .yml are YAML; anything else is TOML. Unknown keys are rejected.
// Reviver and Tracer cannot be set from a file.
//
//	window = 40
//	engine = "std"
//	max_depth = 64
func LoadOptions(path string) (*Options, error) {
	var (
		o   *Options
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		o, err = loadYAML(path)
	default:
		o, err = loadTOML(path)
	}
	if err != nil {
		return nil, err
	}
	if err := o.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return o, nil
}

func loadTOML(path string) (*Options, error) {
	var o Options
	meta, err := toml.DecodeFile(path, &o)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown option %q", path, undecoded[0].String())
	}
	return &o, nil
}

//nolint:gosec // options path is explicit caller input.
func loadYAML(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read options: %w", err)
	}
	var o Options
	if err := yaml.UnmarshalWithOptions(data, &o, yaml.DisallowUnknownField()); err != nil {
		return nil, fmt.Errorf("%s: failed to parse YAML: %w", path, err)
	}
	return &o, nil
}
