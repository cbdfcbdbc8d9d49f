// SPDX-License-Identifier: MPL-2.0

// Package cli contains CLI integration tests using testscript.
//
// Each script under testdata runs the buildplan command in an isolated work
// directory with its own config directory.
package cli

import (
	"testing"

	"github.com/rogpeppe/go-internal/testscript"

	cmd "github.com/cpputils/buildplan/cmd/buildplan"
)

func TestMain(m *testing.M) {
	testscript.Main(m, map[string]func(){
		"buildplan": cmd.Execute,
	})
}

// TestCLI runs all testscript tests in the testdata directory.
func TestCLI(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata",
		Setup: func(env *testscript.Env) error {
			env.Setenv("XDG_CONFIG_HOME", env.WorkDir+"/.config")
			env.Setenv("NO_COLOR", "1")
			return nil
		},
		// Continue running all tests even if one fails
		ContinueOnError: true,
	})
}
