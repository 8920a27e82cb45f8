package go_func_utils

import (
	"log"
	"runtime/debug"
)

// SafeGo runs fn on a new goroutine and writes any panic to the logger
// before re-panicking. The curses UI owns the terminal and swallows
// anything written to stdout/stderr, so without this a crashing goroutine
// dies silently.
func SafeGo(logger *log.Logger, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Printf("PANIC: %v\n%s", r, debug.Stack())
				panic(r)
			}
		}()
		fn()
	}()
}

// SafeGoNamed is SafeGo with a task name in the panic log line, used for
// the long-lived engine and listener goroutines where a bare stack trace
// is hard to attribute.
func SafeGoNamed(logger *log.Logger, name string, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Printf("PANIC in %s: %v\n%s", name, r, debug.Stack())
				panic(r)
			}
		}()
		fn()
	}()
}
