//go:build !linux
// +build !linux

package viewer

import (
	"os"
)

func signals() []os.Signal {
	return []os.Signal{os.Interrupt}
}
