//go:build !unix

package export

import "syscall"

var errBrokenPipe error = syscall.EPIPE
