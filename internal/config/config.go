// Package config holds the build preferences: which engine to run, its
// default options, and how results are surfaced. Preferences load from an
// optional YAML file with environment overrides; they are threaded into
// the pipeline explicitly and never read ambiently by inner components.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ViewerEditor marks the host editor as the viewer. With this viewer the
// diagnostic view doubles as the output surface, which changes the final
// exit code policy (see pipeline.ExitCode).
const ViewerEditor = "editor"

// Preferences is the application configuration.
type Preferences struct {
	Engine        string `yaml:"engine"`                   // default typesetting engine
	EngineOptions string `yaml:"engine_options,omitempty"` // default extra engine flags
	UseLatexmk    bool   `yaml:"use_latexmk"`              // prefer the latexmk meta tool for full builds
	AutoView      bool   `yaml:"auto_view"`                // open the viewer after a successful build
	KeepLogWindow bool   `yaml:"keep_log_window"`          // keep diagnostic output visible on success
	Verbose       bool   `yaml:"verbose"`                  // surface info-level tool output
	Debug         bool   `yaml:"debug"`                    // internal tracing
	Viewer        string `yaml:"viewer,omitempty"`         // viewer name, or "editor" for the host editor
	ReportPath    string `yaml:"report_path,omitempty"`    // write a JSON build report here when set
}

// Default returns the built-in preferences.
func Default() *Preferences {
	return &Preferences{
		Engine: "pdflatex",
		Viewer: ViewerEditor,
	}
}

// Load reads preferences from path, falling back to defaults when the
// file does not exist. Environment overrides apply in both cases.
func Load(path string) (*Preferences, error) {
	prefs := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// No file is fine; defaults plus environment.
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, prefs); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	prefs.applyEnv()
	if err := prefs.Validate(); err != nil {
		return nil, err
	}
	return prefs, nil
}

// Validate checks invariants that would otherwise surface as confusing
// toolchain failures mid-build.
func (p *Preferences) Validate() error {
	var errs []error
	if p.Engine == "" {
		errs = append(errs, errors.New("engine must not be empty"))
	}
	return errors.Join(errs...)
}
