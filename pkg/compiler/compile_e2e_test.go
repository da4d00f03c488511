package compiler

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"toyc/pkg/engine"
)

type programFixture struct {
	Name         string `yaml:"name"`
	Source       string `yaml:"source"`
	Output       string `yaml:"output"`
	CompileError string `yaml:"compile_error"`
	RunError     string `yaml:"run_error"`
}

type fixtureFile struct {
	Programs []programFixture `yaml:"programs"`
}

func loadFixtures(t *testing.T, path string) []programFixture {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixtures: %v", err)
	}
	var f fixtureFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		t.Fatalf("decode fixtures: %v", err)
	}
	if len(f.Programs) == 0 {
		t.Fatalf("no programs in %s", path)
	}
	return f.Programs
}

func TestPrograms_E2E(t *testing.T) {
	for _, fx := range loadFixtures(t, "testdata/programs.yaml") {
		t.Run(fx.Name, func(t *testing.T) {
			mod, err := Compile(fx.Source)

			if fx.CompileError != "" {
				if err == nil {
					t.Fatalf("Compile(%q) succeeded, want error containing %q", fx.Source, fx.CompileError)
				}
				if !strings.Contains(err.Error(), fx.CompileError) {
					t.Fatalf("Compile(%q) error = %v, want it to contain %q", fx.Source, err, fx.CompileError)
				}
				return
			}
			if err != nil {
				t.Fatalf("Compile(%q) failed: %v", fx.Source, err)
			}

			var out bytes.Buffer
			err = engine.Run(mod, &out)

			if fx.RunError != "" {
				if err == nil {
					t.Fatalf("run of %q succeeded, want error containing %q", fx.Source, fx.RunError)
				}
				if !strings.Contains(err.Error(), fx.RunError) {
					t.Fatalf("run error = %v, want it to contain %q", err, fx.RunError)
				}
				return
			}
			if err != nil {
				t.Fatalf("run of %q failed: %v", fx.Source, err)
			}
			if out.String() != fx.Output {
				t.Errorf("output of %q = %q, want %q", fx.Source, out.String(), fx.Output)
			}
		})
	}
}
