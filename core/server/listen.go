package server

import (
	"errors"
	"io/fs"
	"net"
	"os"
	"strings"
)

// UnixPrefix marks an address as a Unix domain socket path.
const UnixPrefix = "unix:"

// parseAddr splits addr into a network and an address for net.Listen.
func parseAddr(addr string) (network, address string, err error) {
	if path, ok := strings.CutPrefix(addr, UnixPrefix); ok {
		if path == "" {
			return "", "", ErrMissingAddress
		}
		return "unix", path, nil
	}
	if addr == "" {
		return "", "", ErrMissingAddress
	}
	return "tcp", addr, nil
}

// listen opens addr. A stale socket file left behind by a previous process
// is removed before binding.
func listen(addr string) (net.Listener, error) {
	network, address, err := parseAddr(addr)
	if err != nil {
		return nil, err
	}
	if network == "unix" {
		if err := removeStaleSocket(address); err != nil {
			return nil, err
		}
	}
	return net.Listen(network, address)
}

func removeStaleSocket(path string) error {
	fi, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if fi.Mode()&fs.ModeSocket == 0 {
		return &os.PathError{Op: "listen", Path: path, Err: ErrNotSocket}
	}
	// A socket that still accepts connections belongs to a live server.
	if c, err := net.Dial("unix", path); err == nil {
		_ = c.Close()
		return &os.PathError{Op: "listen", Path: path, Err: ErrAddressInUse}
	}
	return os.Remove(path)
}
