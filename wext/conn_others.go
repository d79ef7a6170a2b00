//go:build !linux
// +build !linux

package wext

// Conn is the no-op control socket on systems without wireless
// extensions.
type Conn struct{}

// Dial always returns ErrNotSupported.
func Dial() (*Conn, error) { return nil, ErrNotSupported }

// Close always returns ErrNotSupported.
func (c *Conn) Close() error { return ErrNotSupported }

// Control always returns ErrNotSupported.
func (c *Conn) Control(uint, *Request) error { return ErrNotSupported }
