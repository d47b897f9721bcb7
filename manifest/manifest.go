// Package manifest handles binop.toml configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/tliron/commonlog"

	"github.com/chazu/binop/vm"
)

// FileName is the configuration file looked up by Load and FindAndLoad.
const FileName = "binop.toml"

var log = commonlog.GetLogger("binop.manifest")

// Manifest represents a binop.toml configuration.
type Manifest struct {
	Engine Engine      `toml:"engine"`
	Log    LogConfig   `toml:"log"`
	Trace  TraceConfig `toml:"trace"`

	// Path is the file the manifest was loaded from (set at load time).
	Path string `toml:"-"`
}

// Engine configures the resolution engine.
type Engine struct {
	FastPaths   bool `toml:"fast-paths"`
	MethodCache bool `toml:"method-cache"`
}

// LogConfig configures logging.
type LogConfig struct {
	Verbosity int    `toml:"verbosity" validate:"gte=0,lte=5"`
	File      string `toml:"file"`
}

// TraceConfig configures dispatch tracing.
type TraceConfig struct {
	Enabled bool   `toml:"enabled"`
	Output  string `toml:"output" validate:"required_if=Enabled true"`
}

var validate = validator.New()

// Default returns the configuration used when no binop.toml exists.
func Default() *Manifest {
	return &Manifest{
		Engine: Engine{FastPaths: true, MethodCache: true},
		Trace:  TraceConfig{Output: "binop-trace.cbor"},
	}
}

// Parse decodes and validates binop.toml content. Keys missing from data
// keep their default values.
func Parse(data string) (*Manifest, error) {
	m := Default()
	if _, err := toml.Decode(data, m); err != nil {
		return nil, err
	}
	if err := validate.Struct(m); err != nil {
		return nil, err
	}
	return m, nil
}

// LoadFile parses the configuration file at path.
func LoadFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	m, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}

	m.Path, err = filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", path, err)
	}
	return m, nil
}

// Load parses binop.toml from the given directory.
func Load(dir string) (*Manifest, error) {
	return LoadFile(filepath.Join(dir, FileName))
}

// FindAndLoad walks up from startDir to find a binop.toml file, then loads
// and returns it. Returns nil if no configuration file is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			log.Debugf("using %s", path)
			return LoadFile(path)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

// EngineOptions returns the VM options selected by the configuration.
func (m *Manifest) EngineOptions() vm.Options {
	return vm.Options{
		FastPaths:   m.Engine.FastPaths,
		MethodCache: m.Engine.MethodCache,
	}
}

// LogFile returns the configured log file, or nil for stderr.
func (m *Manifest) LogFile() *string {
	if m.Log.File == "" {
		return nil
	}
	return &m.Log.File
}
