//go:build unix

package main

import (
	"os/signal"

	"golang.org/x/sys/unix"
)

// brokenPipeExitCode mirrors a shell's status for a process killed by SIGPIPE.
const brokenPipeExitCode = 128 + int(unix.SIGPIPE)

// ignoreSIGPIPE turns writes to a closed stdout into EPIPE errors so the
// tables still get written after the reader of the report goes away.
func ignoreSIGPIPE() {
	signal.Ignore(unix.SIGPIPE)
}
