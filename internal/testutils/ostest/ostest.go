// Package ostest provides helpers for tests that change process state.
package ostest

import (
	"os"
	"testing"
)

// Chdir changes the working directory to dir and back when the test
// finishes.
func Chdir(t *testing.T, dir string) {
	t.Helper()

	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getting working directory failed: %s", err)
	}

	if err := os.Chdir(dir); err != nil {
		t.Fatalf("changing working directory to %q failed: %s", dir, err)
	}

	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("changing working directory back to %q failed: %s", prev, err)
		}
	})
}
