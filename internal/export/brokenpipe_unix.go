//go:build unix

package export

import "golang.org/x/sys/unix"

var errBrokenPipe error = unix.EPIPE
