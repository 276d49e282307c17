// Package goroutine starts background goroutines that log panics instead of
// taking the process down.
package goroutine

import (
	"fmt"
	"runtime/debug"

	"learnhub/internal/shared/logger"
)

// SafeGo runs fn in a new goroutine and recovers any panic. The returned
// channel is closed when fn returns or panics.
func SafeGo(log logger.Interface, name string, fn func()) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				log.Errorw("goroutine panicked",
					"goroutine", name,
					"panic", fmt.Sprint(r),
					"stack", string(debug.Stack()),
				)
			}
		}()
		fn()
	}()
	return done
}
