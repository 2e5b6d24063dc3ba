//go:build !(darwin || dragonfly || freebsd || linux || netbsd || openbsd || windows)

package cwriter

// GetSize always fails with ErrNotTTY.
func GetSize(fd int) (width, height int, err error) {
	return -1, -1, ErrNotTTY
}

// IsTerminal always returns false.
func IsTerminal(fd int) bool {
	return false
}
