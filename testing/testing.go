// Package testing flips the application into test mode when imported for its
// side effect, keeping package init code from starting runtime services.
package testing

import (
	"os"
	"sync"
)

var once sync.Once

func ensureTestMode() {
	once.Do(func() {
		if os.Getenv("STOCKPILOT_TEST_MODE") == "" {
			_ = os.Setenv("STOCKPILOT_TEST_MODE", "1")
		}
	})
}

func init() {
	ensureTestMode()
}
