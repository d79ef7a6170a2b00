// Package wext is a client for the Linux wireless extensions ioctl
// interface: radio parameters, the range table and cell scanning.
package wext

import (
	"io"

	log "github.com/sirupsen/logrus"
)

const (
	// DefaultBufferSize matches IW_SCAN_MAX_DATA.
	DefaultBufferSize = 4096
	// DefaultMaxAttempts is enough doublings to reach the 16-bit
	// point length limit from DefaultBufferSize.
	DefaultMaxAttempts = 4
)

// A Client issues wireless extension requests through a Controller.
// It is not safe for concurrent scans on the same interface.
type Client struct {
	ctl Controller

	// BufferSize is the initial scan result buffer size.
	BufferSize int
	// MaxAttempts bounds how many times a too-small buffer is doubled.
	MaxAttempts int
}

// NewClient wraps a Controller.
func NewClient(ctl Controller) *Client {
	return &Client{
		ctl:         ctl,
		BufferSize:  DefaultBufferSize,
		MaxAttempts: DefaultMaxAttempts,
	}
}

// New opens a control socket and returns a Client over it.
func New() (*Client, error) {
	conn, err := Dial()
	if err != nil {
		return nil, err
	}
	return NewClient(conn), nil
}

// SetScanBuffer overrides the scan buffer settings. A size below one
// or a negative maxAttempts keeps the current value.
func (c *Client) SetScanBuffer(size, maxAttempts int) {
	if size > 0 {
		c.BufferSize = size
	}
	if maxAttempts >= 0 {
		c.MaxAttempts = maxAttempts
	}
}

// Close releases the underlying controller if it holds resources.
func (c *Client) Close() error {
	if cl, ok := c.ctl.(io.Closer); ok {
		return cl.Close()
	}
	return nil
}

func (c *Client) do(op string, cmd uint, r *Request) error {
	if err := c.ctl.Control(cmd, r); err != nil {
		log.Debugf("%s: %s: %v", r.Name, op, err)
		return &ControlError{Op: op, Iface: r.Name, Cmd: cmd, Err: err}
	}
	return nil
}
