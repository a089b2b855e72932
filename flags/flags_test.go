package flags

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

// TestOptionalFlagsDontSetRequired asserts that all flags deemed optional set
// the Required field to false.
func TestOptionalFlagsDontSetRequired(t *testing.T) {
	for _, flag := range optionalFlags {
		reqFlag, ok := flag.(cli.RequiredFlag)
		require.True(t, ok)
		require.False(t, reqFlag.IsRequired())
	}
}

// TestUniqueFlags asserts that all flag names are unique, to avoid accidental conflicts between the many flags.
func TestUniqueFlags(t *testing.T) {
	seenCLI := make(map[string]struct{})
	for _, flag := range Flags {
		name := flag.Names()[0]
		if _, ok := seenCLI[name]; ok {
			t.Errorf("duplicate flag %s", name)
			continue
		}
		seenCLI[name] = struct{}{}
	}
}

// TestEnvVarPrefix asserts every flag's env var carries the RTH prefix.
func TestEnvVarPrefix(t *testing.T) {
	for _, flag := range Flags {
		envFlag, ok := flag.(interface {
			GetEnvVars() []string
		})
		require.True(t, ok, "flag %s does not support env vars", flag.Names()[0])
		envVars := envFlag.GetEnvVars()
		require.Len(t, envVars, 1, "flag %s", flag.Names()[0])
		require.True(t, strings.HasPrefix(envVars[0], EnvVarPrefix+"_"),
			"flag %s env var %s missing prefix", flag.Names()[0], envVars[0])
	}
}
