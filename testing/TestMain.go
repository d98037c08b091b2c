// Package testing flips the process into test mode when imported by tests.
package testing

import (
	"os"
	"sync"
	stdtesting "testing"
)

var once sync.Once

func ensureTestMode() {
	once.Do(func() {
		_ = os.Setenv("TILLPOINT_TEST_MODE", "1")
		if os.Getenv("AUTH_DEMO_ACCOUNTS") == "" {
			_ = os.Setenv("AUTH_DEMO_ACCOUNTS", "true")
		}
	})
}

func init() {
	ensureTestMode()
}

func TestMain(m *stdtesting.M) {
	ensureTestMode()
	os.Exit(m.Run())
}
