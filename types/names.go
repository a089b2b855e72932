package types

import (
	"fmt"
	"path/filepath"
)

const (
	// TestSourcePrefix is the fixed prefix every consumer/test source
	// filename carries.
	TestSourcePrefix = "test_"
	// TestSourceSuffix is the fixed extension every source filename carries.
	TestSourceSuffix = ".swift"

	// MainObjectName is the consumer object filename inside each label
	// directory.
	MainObjectName = "main.o"
)

// ValidateTestSource checks that a test source path has the expected
// <prefix><base><suffix> basename form with a non-empty base.
func ValidateTestSource(src string) error {
	base := filepath.Base(src)
	if len(base) <= len(TestSourcePrefix)+len(TestSourceSuffix) ||
		base[:len(TestSourcePrefix)] != TestSourcePrefix ||
		base[len(base)-len(TestSourceSuffix):] != TestSourceSuffix {
		return fmt.Errorf("test source %q must be named %s<name>%s", src, TestSourcePrefix, TestSourceSuffix)
	}
	return nil
}

// DeriveBaseName strips the fixed prefix and suffix from a test source
// path's basename. For "test_struct_change.swift" it returns
// "struct_change". Call ValidateTestSource first; malformed names yield
// garbage rather than an error here.
func DeriveBaseName(src string) string {
	base := filepath.Base(src)
	return base[len(TestSourcePrefix) : len(base)-len(TestSourceSuffix)]
}

// LibrarySourcePath resolves the library source for a test: the suite
// directory's Inputs/ folder holds one library source per test base name.
func LibrarySourcePath(suiteDir, src string) string {
	return filepath.Join(suiteDir, "Inputs", DeriveBaseName(src)+TestSourceSuffix)
}

// LibraryObjectName returns the compiled library object filename for a test.
func LibraryObjectName(src string) string {
	return DeriveBaseName(src) + ".o"
}
