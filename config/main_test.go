package config

import (
	"fmt"
	"os"
	"testing"
)

// TestMain runs before all tests in the config package.
// It ensures GO_ENV is set to "test" to prevent accidental execution
// against a real kiosk database.
func TestMain(m *testing.M) {
	env := os.Getenv("GO_ENV")
	if env != "test" {
		fmt.Fprintf(os.Stderr, "Tests must run with GO_ENV=test to prevent data loss (current GO_ENV=%q).\nRun: GO_ENV=test go test ./...\n", env)
		os.Exit(1)
	}

	os.Exit(m.Run())
}
