package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// exitInterrupted is the conventional status for a run stopped by SIGINT
const exitInterrupted = 130

// setupSignalHandler makes SIGINT and SIGTERM stop the process with a short message.
// SIGPIPE is caught so a closed stdout (e.g. "ksero dir | head") turns into a write
// error instead of killing the process mid-summary.
// The returned function stops signal delivery.
func setupSignalHandler() func() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGPIPE)

	done := make(chan struct{})
	go func() {
		for {
			select {
			case sig := <-sigChan:
				if sig == syscall.SIGPIPE {
					continue
				}
				fmt.Fprintf(os.Stderr, "\nksero: received signal: %v\n", sig)
				os.Exit(exitInterrupted)
			case <-done:
				return
			}
		}
	}()

	return func() {
		signal.Stop(sigChan)
		close(done)
	}
}
