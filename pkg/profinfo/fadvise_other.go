//go:build !linux

package profinfo

import "os"

func adviseSequential(*os.File) {}
