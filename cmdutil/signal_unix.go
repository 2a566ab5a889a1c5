//go:build !windows

package cmdutil

import (
	"os"

	"golang.org/x/sys/unix"
)

func stopSignals() []os.Signal {
	return []os.Signal{unix.SIGINT, unix.SIGTERM, unix.SIGQUIT}
}
