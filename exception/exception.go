package exception

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/mezonai/mmn-runtime/logx"
	"github.com/mezonai/mmn-runtime/monitoring"
)

// SafeGoWithPanic runs fn in a goroutine and exits the process after logging a panic
func SafeGoWithPanic(name string, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logPanic(name, r)
				os.Exit(1)
			}
		}()
		fn()
	}()
}

func logPanic(name string, r interface{}) {
	monitoring.IncreasePanicCount()
	logx.Error("PANIC", fmt.Sprintf("Panic in %s: %v\n%s", name, r, debug.Stack()))
}
