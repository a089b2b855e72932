// Package registry loads the optional YAML suite manifest that lists the
// matrix tests a single invocation should run.
package registry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/log"
	"github.com/google/shlex"
	"gopkg.in/yaml.v3"

	"github.com/compat-infra/rth/types"
)

// Registry manages the matrix tests discovered from a suite manifest
type Registry struct {
	config Config
	tests  []MatrixTest
}

// Config contains registry configuration
type Config struct {
	Log          log.Logger
	ManifestFile string
	SuiteDir     string
}

// MatrixTest is one resolved entry of the manifest.
type MatrixTest struct {
	Source                 string // absolute path to the consumer/test source
	SkipBackwardDeployment bool
	ExtraLibraryFlags      []string
}

// Name returns the test's derived base name, used for workspace subdirectories
// and reporting.
func (t MatrixTest) Name() string {
	return types.DeriveBaseName(t.Source)
}

type manifest struct {
	Tests []manifestEntry `yaml:"tests"`
}

type manifestEntry struct {
	Source                 string `yaml:"source"`
	SkipBackwardDeployment bool   `yaml:"skip-backward-deployment"`
	ExtraLibraryFlags      string `yaml:"extra-library-flags"`
}

// NewRegistry creates a new registry instance
func NewRegistry(cfg Config) (*Registry, error) {
	if cfg.ManifestFile == "" {
		return nil, fmt.Errorf("suite manifest file is required")
	}
	if cfg.Log == nil {
		cfg.Log = log.New()
		cfg.Log.Error("No logger provided, using default")
	}

	r := &Registry{config: cfg}
	if err := r.loadManifest(cfg.ManifestFile); err != nil {
		return nil, fmt.Errorf("failed to load suite manifest: %w", err)
	}

	cfg.Log.Debug("Registry loaded", "len(tests)", len(r.tests))

	return r, nil
}

// Tests returns the resolved matrix tests in manifest order.
func (r *Registry) Tests() []MatrixTest {
	return r.tests
}

func (r *Registry) loadManifest(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	if len(m.Tests) == 0 {
		return fmt.Errorf("manifest %s lists no tests", path)
	}

	tests := make([]MatrixTest, 0, len(m.Tests))
	seen := make(map[string]struct{})
	for n, entry := range m.Tests {
		test, err := r.resolveEntry(entry)
		if err != nil {
			return fmt.Errorf("manifest entry %d: %w", n, err)
		}
		if _, ok := seen[test.Name()]; ok {
			return fmt.Errorf("manifest entry %d: duplicate test %q", n, test.Name())
		}
		seen[test.Name()] = struct{}{}
		tests = append(tests, test)
	}

	r.tests = tests
	return nil
}

func (r *Registry) resolveEntry(entry manifestEntry) (MatrixTest, error) {
	if entry.Source == "" {
		return MatrixTest{}, fmt.Errorf("missing source")
	}
	if err := types.ValidateTestSource(entry.Source); err != nil {
		return MatrixTest{}, err
	}

	source := entry.Source
	if !filepath.IsAbs(source) {
		source = filepath.Join(r.config.SuiteDir, source)
	}
	if _, err := os.Stat(source); err != nil {
		return MatrixTest{}, fmt.Errorf("test source not found: %w", err)
	}

	var extraFlags []string
	if entry.ExtraLibraryFlags != "" {
		var err error
		if extraFlags, err = shlex.Split(entry.ExtraLibraryFlags); err != nil {
			return MatrixTest{}, fmt.Errorf("failed to tokenize extra-library-flags: %w", err)
		}
	}

	return MatrixTest{
		Source:                 source,
		SkipBackwardDeployment: entry.SkipBackwardDeployment,
		ExtraLibraryFlags:      extraFlags,
	}, nil
}
