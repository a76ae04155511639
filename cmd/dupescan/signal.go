package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// setupSignalHandler wires SIGINT, SIGTERM and SIGPIPE to a shutdown
// channel. Closing the channel tells the scan and hash stages to stop at the
// next file boundary; nothing is killed mid write.
func setupSignalHandler() <-chan struct{} {
	shutdown := make(chan struct{})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGPIPE)

	go func() {
		sig := <-sigChan

		fmt.Fprintf(os.Stderr, "\ndupescan: received signal %v\n", sig)

		close(shutdown)
		signal.Stop(sigChan)

		// SIGPIPE usually means the consumer went away mid report; the
		// shutdown channel already stops the pipeline, no need to shout.
		if sig != syscall.SIGPIPE {
			fmt.Fprintf(os.Stderr, "dupescan: stopping after the current files...\n")
		}
	}()

	return shutdown
}
