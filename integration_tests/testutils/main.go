package testutils

import (
	"flag"
	"fmt"
	"os"
	"testing"
)

// RunPackage starts the environment for a test package, runs its tests and
// exits. Integration tests are skipped under -short.
func RunPackage(m *testing.M, opts Options, env **TestEnvironment) {
	flag.Parse()
	if testing.Short() {
		fmt.Println("skipping integration tests in short mode")
		os.Exit(0)
	}

	e, err := NewTestEnvironment(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up test environment: %v\n", err)
		os.Exit(1)
	}
	*env = e

	code := m.Run()
	e.Terminate()
	os.Exit(code)
}
